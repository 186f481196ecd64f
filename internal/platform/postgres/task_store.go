package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskmaster/taskmaster-api/internal/domain"
	"github.com/taskmaster/taskmaster-api/internal/platform/logger"
	"github.com/taskmaster/taskmaster-api/internal/store"
)

// priorityRank orders the priority enum high→medium→low in SQL. The column
// stores strings, so lexical ordering would be meaningless.
const priorityRank = "CASE t.priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END"

// naturalTaskOrder is the default task ordering: most urgent first, earliest
// due date next with undated tasks last, title as the tiebreaker.
const naturalTaskOrder = priorityRank + " DESC, t.due_date ASC NULLS LAST, t.title ASC"

// taskOrderColumns whitelists the sortable columns for List.
var taskOrderColumns = map[string]string{
	"title":      "t.title",
	"due_date":   "t.due_date",
	"priority":   priorityRank,
	"status":     "t.status",
	"created_at": "t.created_at",
}

// taskColumns is the select list shared by every task query. Category name
// and color ride along from a LEFT JOIN so responses can embed them without
// a second round trip.
const taskColumns = `
	t.id, t.user_id, t.title, t.description, t.status, t.priority,
	t.due_date, t.category_id, c.name, c.color, t.created_at, t.updated_at
`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
//
// It takes a *sql.DB rather than a DBTX because Create and Update write the
// task row and its tag association rows in one transaction.
type PostgresTaskStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface.
func NewPostgresTaskStore(db *sql.DB, log *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: log.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		query := `
			INSERT INTO tasks (id, user_id, title, description, status, priority,
				due_date, category_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		_, err := tx.ExecContext(
			ctx,
			query,
			task.ID,
			task.UserID,
			task.Title,
			task.Description,
			task.Status,
			task.Priority,
			task.DueDate,
			task.CategoryID,
			task.CreatedAt,
			task.UpdatedAt,
		)
		if err != nil {
			return MapError(err)
		}

		return insertTaskTags(ctx, tx, task.ID, task.TagIDs)
	})

	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("user_id", task.UserID.String()))
		return err
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// The query is scoped to the owner, so a foreign task yields
// store.ErrTaskNotFound exactly like a missing one.
func (s *PostgresTaskStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.id = $1 AND t.user_id = $2
	`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	if err := s.loadTagIDs(ctx, []*domain.Task{task}); err != nil {
		return nil, err
	}

	return task, nil
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var sb strings.Builder
	sb.WriteString(`SELECT ` + taskColumns + `
		FROM tasks t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1
	`)

	args := []any{userID}

	// EXISTS keeps each task to a single row no matter how many of the
	// requested tags it carries, so no deduplication pass is needed.
	if len(filter.TagIDs) > 0 {
		placeholders := make([]string, 0, len(filter.TagIDs))
		for _, tagID := range filter.TagIDs {
			args = append(args, tagID)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		fmt.Fprintf(&sb,
			" AND EXISTS (SELECT 1 FROM task_tags tt WHERE tt.task_id = t.id AND tt.tag_id IN (%s))",
			strings.Join(placeholders, ", "))
	}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		fmt.Fprintf(&sb, " AND t.status = $%d", len(args))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		fmt.Fprintf(&sb, " AND t.priority = $%d", len(args))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		fmt.Fprintf(&sb, " AND t.category_id = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		fmt.Fprintf(&sb, " AND (t.title ILIKE $%d OR t.description ILIKE $%d)",
			len(args), len(args))
	}

	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderClause(filter.Ordering, taskOrderColumns, naturalTaskOrder))

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	if err := s.loadTagIDs(ctx, tasks); err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update implements store.TaskStore.Update
// Tag associations are replaced wholesale with the task's TagIDs.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		query := `
			UPDATE tasks
			SET title = $1, description = $2, status = $3, priority = $4,
				due_date = $5, category_id = $6, updated_at = $7
			WHERE id = $8 AND user_id = $9
		`
		result, err := tx.ExecContext(
			ctx,
			query,
			task.Title,
			task.Description,
			task.Status,
			task.Priority,
			task.DueDate,
			task.CategoryID,
			task.UpdatedAt,
			task.ID,
			task.UserID,
		)
		if err != nil {
			return MapError(err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return MapError(err)
		}
		if rows == 0 {
			return store.ErrTaskNotFound
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = $1`, task.ID); err != nil {
			return MapError(err)
		}

		return insertTaskTags(ctx, tx, task.ID, task.TagIDs)
	})

	if err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			log.Error("failed to update task",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()))
		}
		return err
	}

	return nil
}

// UpdateStatus implements store.TaskStore.UpdateStatus
func (s *PostgresTaskStore) UpdateStatus(
	ctx context.Context,
	userID, id uuid.UUID,
	status domain.TaskStatus,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET status = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4
	`
	result, err := s.db.ExecContext(ctx, query, status, time.Now().UTC(), id, userID)
	if err != nil {
		log.Error("failed to update task status",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, MapError(err)
	}
	if rows == 0 {
		return nil, store.ErrTaskNotFound
	}

	log.Info("task status updated",
		slog.String("task_id", id.String()),
		slog.String("status", string(status)))
	return s.GetByID(ctx, userID, id)
}

// Delete implements store.TaskStore.Delete
// Association rows disappear with the task via ON DELETE CASCADE.
func (s *PostgresTaskStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`,
		id,
		userID,
	)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rows == 0 {
		return store.ErrTaskNotFound
	}

	log.Info("task deleted",
		slog.String("task_id", id.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row including the category annotations.
func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var status, priority string

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&status,
		&priority,
		&task.DueDate,
		&task.CategoryID,
		&task.CategoryName,
		&task.CategoryColor,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	task.Priority = domain.TaskPriority(priority)
	task.TagIDs = []uuid.UUID{}
	return &task, nil
}

// insertTaskTags writes the association rows for a task.
func insertTaskTags(ctx context.Context, tx *sql.Tx, taskID uuid.UUID, tagIDs []uuid.UUID) error {
	for _, tagID := range tagIDs {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO task_tags (task_id, tag_id) VALUES ($1, $2)`,
			taskID,
			tagID,
		)
		if err != nil {
			return MapError(err)
		}
	}
	return nil
}

// loadTagIDs fills in the TagIDs of the given tasks with one query.
func (s *PostgresTaskStore) loadTagIDs(ctx context.Context, tasks []*domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.Task, len(tasks))
	placeholders := make([]string, 0, len(tasks))
	args := make([]any, 0, len(tasks))
	for _, task := range tasks {
		byID[task.ID] = task
		args = append(args, task.ID)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT tt.task_id, tt.tag_id
		FROM task_tags tt
		WHERE tt.task_id IN (%s)
		ORDER BY tt.tag_id
	`, strings.Join(placeholders, ", "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return MapError(err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var taskID, tagID uuid.UUID
		if err := rows.Scan(&taskID, &tagID); err != nil {
			return MapError(err)
		}
		if task, ok := byID[taskID]; ok {
			task.TagIDs = append(task.TagIDs, tagID)
		}
	}
	return MapError(rows.Err())
}
