package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/platform/logger"
	"github.com/phrazzld/workforce-api/internal/store"
)

const taskColumns = `id, reference_id, reference_type, task_type, assignee_id, status, priority,
	deadline, description, comments, activity_logs, created_at, updated_at`

// PostgresTaskStore implements store.TaskStore using PostgreSQL.
type PostgresTaskStore struct {
	db     store.DBTX
	sqlDB  *sql.DB
	logger *slog.Logger
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. The *sql.DB is used both for queries and for opening
// the transactions behind WithReferenceLock. If logger is nil, a default
// logger will be used.
func NewPostgresTaskStore(db *sql.DB, logger *slog.Logger) *PostgresTaskStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		sqlDB:  db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// withTx returns a store bound to tx.
func (s *PostgresTaskStore) withTx(tx *sql.Tx) *PostgresTaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

// GetByID implements store.TaskStore.GetByID.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, fmt.Errorf("%w: id %d", store.ErrTaskNotFound, id)
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, store.NewStoreError("task", "get_by_id", "query failed", MapError(err))
	}
	return &task, nil
}

// Save implements store.TaskStore.Save.
func (s *PostgresTaskStore) Save(ctx context.Context, task domain.Task) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during save",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	comments, err := json.Marshal(task.Comments)
	if err != nil {
		return nil, store.NewStoreError("task", "save", "failed to encode comments", err)
	}
	activityLogs, err := json.Marshal(task.ActivityLogs)
	if err != nil {
		return nil, store.NewStoreError("task", "save", "failed to encode activity logs", err)
	}

	if task.ID == 0 {
		return s.insert(ctx, task, string(comments), string(activityLogs))
	}
	return s.update(ctx, task, string(comments), string(activityLogs))
}

func (s *PostgresTaskStore) insert(ctx context.Context, task domain.Task, comments, activityLogs string) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO tasks (reference_id, reference_type, task_type, assignee_id, status, priority,
			deadline, description, comments, activity_logs, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		task.ReferenceID,
		string(task.ReferenceType),
		string(task.Type),
		task.AssigneeID,
		string(task.Status),
		string(task.Priority),
		task.Deadline,
		task.Description,
		comments,
		activityLogs,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)
	if err != nil {
		log.Error("failed to insert task",
			slog.String("error", err.Error()),
			slog.Int64("reference_id", task.ReferenceID),
			slog.String("task_type", string(task.Type)))
		return nil, store.NewStoreError("task", "insert", "insert failed", MapError(err))
	}

	log.Debug("task inserted",
		slog.Int64("task_id", task.ID),
		slog.String("status", string(task.Status)))

	saved := task.Clone()
	return &saved, nil
}

func (s *PostgresTaskStore) update(ctx context.Context, task domain.Task, comments, activityLogs string) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET assignee_id = $1, status = $2, priority = $3, deadline = $4, description = $5,
			comments = $6, activity_logs = $7, updated_at = $8
		WHERE id = $9
	`

	result, err := s.db.ExecContext(ctx, query,
		task.AssigneeID,
		string(task.Status),
		string(task.Priority),
		task.Deadline,
		task.Description,
		comments,
		activityLogs,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return nil, store.NewStoreError("task", "update", "update failed", MapError(err))
	}

	if err := CheckRowsAffected(result, fmt.Errorf("%w: id %d", store.ErrTaskNotFound, task.ID)); err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to check rows affected",
				slog.String("error", err.Error()),
				slog.Int64("task_id", task.ID))
		}
		return nil, err
	}

	log.Debug("task updated",
		slog.Int64("task_id", task.ID),
		slog.String("status", string(task.Status)))

	saved := task.Clone()
	return &saved, nil
}

// FindAll implements store.TaskStore.FindAll.
func (s *PostgresTaskStore) FindAll(ctx context.Context) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY id ASC`
	return s.query(ctx, "find_all", query)
}

// FindByReference implements store.TaskStore.FindByReference.
func (s *PostgresTaskStore) FindByReference(
	ctx context.Context,
	refID int64,
	refType domain.ReferenceType,
) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE reference_id = $1 AND reference_type = $2
		ORDER BY id ASC`
	return s.query(ctx, "find_by_reference", query, refID, string(refType))
}

// FindByAssigneeIDs implements store.TaskStore.FindByAssigneeIDs.
func (s *PostgresTaskStore) FindByAssigneeIDs(ctx context.Context, assigneeIDs []int64) ([]domain.Task, error) {
	if len(assigneeIDs) == 0 {
		return []domain.Task{}, nil
	}

	placeholders := make([]string, len(assigneeIDs))
	args := make([]any, len(assigneeIDs))
	for i, id := range assigneeIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE assignee_id IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY id ASC`
	return s.query(ctx, "find_by_assignee_ids", query, args...)
}

// WithReferenceLock implements store.TaskStore.WithReferenceLock. fn runs in
// a transaction holding a transaction-scoped advisory lock derived from the
// reference, so concurrent callers on the same reference serialize even
// across processes sharing the database.
func (s *PostgresTaskStore) WithReferenceLock(
	ctx context.Context,
	refID int64,
	refType domain.ReferenceType,
	fn func(ctx context.Context, s store.TaskStore) error,
) error {
	lockKey := fmt.Sprintf("%s:%d", refType, refID)

	// Already inside a transaction: take the lock on it and reuse it.
	if s.sqlDB == nil {
		if err := s.acquireLock(ctx, lockKey); err != nil {
			return err
		}
		return fn(ctx, s)
	}

	return store.RunInTransaction(ctx, s.sqlDB, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.withTx(tx)
		if err := txStore.acquireLock(ctx, lockKey); err != nil {
			return err
		}
		return fn(ctx, txStore)
	})
}

func (s *PostgresTaskStore) acquireLock(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to acquire reference lock",
			slog.String("error", err.Error()),
			slog.String("lock_key", key))
		return store.NewStoreError("task", "lock_reference", "advisory lock failed", MapError(err))
	}
	return nil
}

func (s *PostgresTaskStore) query(ctx context.Context, operation, query string, args ...any) ([]domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("error", err.Error()),
			slog.String("operation", operation))
		return nil, store.NewStoreError("task", operation, "query failed", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row",
				slog.String("error", err.Error()),
				slog.String("operation", operation))
			return nil, store.NewStoreError("task", operation, "scan failed", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows",
			slog.String("error", err.Error()),
			slog.String("operation", operation))
		return nil, store.NewStoreError("task", operation, "row iteration failed", MapError(err))
	}

	log.Debug("tasks retrieved",
		slog.String("operation", operation),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (domain.Task, error) {
	var (
		task                   domain.Task
		refType, taskType      string
		status, priority       string
		deadline               sql.NullTime
		comments, activityLogs []byte
		createdAt, updatedAt   time.Time
	)

	if err := row.Scan(
		&task.ID,
		&task.ReferenceID,
		&refType,
		&taskType,
		&task.AssigneeID,
		&status,
		&priority,
		&deadline,
		&task.Description,
		&comments,
		&activityLogs,
		&createdAt,
		&updatedAt,
	); err != nil {
		return domain.Task{}, err
	}

	task.ReferenceType = domain.ReferenceType(refType)
	task.Type = domain.TaskType(taskType)
	task.Status = domain.TaskStatus(status)
	task.Priority = domain.Priority(priority)
	task.CreatedAt = createdAt.UTC()
	task.UpdatedAt = updatedAt.UTC()
	if deadline.Valid {
		d := deadline.Time.UTC()
		task.Deadline = &d
	}

	task.Comments = []domain.Comment{}
	if len(comments) > 0 {
		if err := json.Unmarshal(comments, &task.Comments); err != nil {
			return domain.Task{}, fmt.Errorf("failed to decode comments: %w", err)
		}
		if task.Comments == nil {
			task.Comments = []domain.Comment{}
		}
	}
	task.ActivityLogs = []domain.ActivityLog{}
	if len(activityLogs) > 0 {
		if err := json.Unmarshal(activityLogs, &task.ActivityLogs); err != nil {
			return domain.Task{}, fmt.Errorf("failed to decode activity logs: %w", err)
		}
		if task.ActivityLogs == nil {
			task.ActivityLogs = []domain.ActivityLog{}
		}
	}

	return task, nil
}
