package service

import (
	"sort"
	"time"

	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/events"
)

// taskChange is one write planned by the reconciler.
type taskChange struct {
	task  domain.Task
	event events.EventType
}

// reconcile plans the writes that leave exactly one ASSIGNED task per
// catalog task type on the reference, owned by assigneeID.
//
// For each type the candidates are the existing tasks of that type that are
// not COMPLETED, oldest (lowest ID) first. No candidate means a new task is
// created. Otherwise the oldest candidate is reassigned and every other one
// is cancelled. CANCELLED tasks stay in the candidate set, so a cancelled
// task can be picked as the one to reassign.
func reconcile(
	existing []domain.Task,
	taskTypes []domain.TaskType,
	refID int64,
	refType domain.ReferenceType,
	assigneeID int64,
	now time.Time,
) ([]taskChange, error) {
	byType := make(map[domain.TaskType][]domain.Task, len(taskTypes))
	for _, t := range existing {
		if t.Status == domain.TaskStatusCompleted {
			continue
		}
		byType[t.Type] = append(byType[t.Type], t)
	}

	changes := make([]taskChange, 0, len(taskTypes))
	for _, taskType := range taskTypes {
		candidates := byType[taskType]
		if len(candidates) == 0 {
			created, err := domain.NewAssignedTask(refID, refType, taskType, assigneeID, now)
			if err != nil {
				return nil, err
			}
			changes = append(changes, taskChange{task: created, event: events.TaskCreated})
			continue
		}

		sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })

		changes = append(changes, taskChange{
			task:  candidates[0].AssignTo(assigneeID, now),
			event: events.TaskReassigned,
		})
		for _, duplicate := range candidates[1:] {
			changes = append(changes, taskChange{
				task:  duplicate.CancelAsDuplicate(now),
				event: events.TaskCancelled,
			})
		}
	}
	return changes, nil
}
