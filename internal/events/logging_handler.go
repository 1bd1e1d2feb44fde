package events

import (
	"context"
	"log/slog"

	"github.com/phrazzld/workforce-api/internal/platform/logger"
)

// LoggingHandler writes every event to a structured log at info level.
type LoggingHandler struct {
	logger *slog.Logger
}

// NewLoggingHandler creates a LoggingHandler. If logger is nil, a default
// logger will be used.
func NewLoggingHandler(logger *slog.Logger) *LoggingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingHandler{logger: logger.With("component", "task_events")}
}

// HandleEvent implements EventHandler.
func (h *LoggingHandler) HandleEvent(ctx context.Context, event *TaskEvent) error {
	logger.FromContextOrDefault(ctx, h.logger).Info("task event",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", string(event.Type)),
		slog.Int64("task_id", event.TaskID),
		slog.Int64("reference_id", event.ReferenceID),
		slog.String("reference_type", string(event.ReferenceType)),
		slog.String("task", string(event.TaskType)),
		slog.Int64("assignee_id", event.AssigneeID),
		slog.String("status", string(event.Status)))
	return nil
}
