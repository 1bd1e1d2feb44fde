package service

import (
	"time"

	"github.com/phrazzld/workforce-api/internal/domain"
)

// InDateWindow reports whether task belongs in a fetch-by-date result for
// the inclusive window [start, end]: it is due inside the window, or it was
// due before the window and is still unresolved. CANCELLED tasks and tasks
// without a deadline never match.
func InDateWindow(task domain.Task, start, end time.Time) bool {
	if task.Status == domain.TaskStatusCancelled || task.Deadline == nil {
		return false
	}
	deadline := *task.Deadline

	if !deadline.Before(start) && !deadline.After(end) {
		return true
	}
	return deadline.Before(start) && task.Status != domain.TaskStatusCompleted
}

func filterTasks(tasks []domain.Task, keep func(domain.Task) bool) []domain.Task {
	result := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			result = append(result, t)
		}
	}
	return result
}
