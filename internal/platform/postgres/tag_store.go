package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/taskmaster/taskmaster-api/internal/domain"
	"github.com/taskmaster/taskmaster-api/internal/platform/logger"
	"github.com/taskmaster/taskmaster-api/internal/store"
)

// tagNameUniqueConstraint is the per-owner unique constraint on tag names.
const tagNameUniqueConstraint = "tags_user_id_name_key"

// PostgresTagStore implements the store.TagStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTagStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresTagStore creates a new PostgreSQL implementation of the
// TagStore interface.
func NewPostgresTagStore(db *sql.DB, log *slog.Logger) *PostgresTagStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &PostgresTagStore{
		db:     db,
		logger: log.With(slog.String("component", "tag_store")),
	}
}

// Ensure PostgresTagStore implements store.TagStore interface
var _ store.TagStore = (*PostgresTagStore)(nil)

// Create implements store.TagStore.Create
// Returns store.ErrTagNameExists if the user already owns a tag with that name.
func (s *PostgresTagStore) Create(ctx context.Context, tag *domain.Tag) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := tag.Validate(); err != nil {
		log.Warn("tag validation failed during create",
			slog.String("error", err.Error()),
			slog.String("tag_id", tag.ID.String()))
		return err
	}

	query := `
		INSERT INTO tags (id, user_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query, tag.ID, tag.UserID, tag.Name, tag.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err, tagNameUniqueConstraint) {
			log.Debug("tag name already used",
				slog.String("name", tag.Name),
				slog.String("user_id", tag.UserID.String()))
			return store.ErrTagNameExists
		}

		log.Error("failed to create tag",
			slog.String("error", err.Error()),
			slog.String("tag_id", tag.ID.String()))
		return MapError(err)
	}

	log.Info("tag created successfully",
		slog.String("tag_id", tag.ID.String()),
		slog.String("user_id", tag.UserID.String()))
	return nil
}

// GetByID implements store.TagStore.GetByID
func (s *PostgresTagStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Tag, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, name, created_at
		FROM tags
		WHERE id = $1 AND user_id = $2
	`

	var tag domain.Tag
	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&tag.ID,
		&tag.UserID,
		&tag.Name,
		&tag.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTagNotFound
		}
		log.Error("failed to get tag by ID",
			slog.String("error", err.Error()),
			slog.String("tag_id", id.String()))
		return nil, MapError(err)
	}

	return &tag, nil
}

// GetByIDs implements store.TagStore.GetByIDs
// Foreign or unknown ids are simply absent from the result; callers compare
// lengths to detect them.
func (s *PostgresTagStore) GetByIDs(
	ctx context.Context,
	userID uuid.UUID,
	ids []uuid.UUID,
) ([]*domain.Tag, error) {
	if len(ids) == 0 {
		return []*domain.Tag{}, nil
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	placeholders := make([]string, 0, len(ids))
	args := []any{userID}
	for _, id := range ids {
		args = append(args, id)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, name, created_at
		FROM tags
		WHERE user_id = $1 AND id IN (%s)
	`, strings.Join(placeholders, ", "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to get tags by IDs",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tags := []*domain.Tag{}
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.UserID, &tag.Name, &tag.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		tags = append(tags, &tag)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tags, nil
}

// List implements store.TagStore.List
func (s *PostgresTagStore) List(ctx context.Context, userID uuid.UUID) ([]*domain.Tag, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, name, created_at
		FROM tags
		WHERE user_id = $1
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list tags",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tags := []*domain.Tag{}
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.UserID, &tag.Name, &tag.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		tags = append(tags, &tag)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tags, nil
}

// Update implements store.TagStore.Update
func (s *PostgresTagStore) Update(ctx context.Context, tag *domain.Tag) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := tag.Validate(); err != nil {
		log.Warn("tag validation failed during update",
			slog.String("error", err.Error()),
			slog.String("tag_id", tag.ID.String()))
		return err
	}

	query := `
		UPDATE tags
		SET name = $1
		WHERE id = $2 AND user_id = $3
	`
	result, err := s.db.ExecContext(ctx, query, tag.Name, tag.ID, tag.UserID)
	if err != nil {
		if IsUniqueViolation(err, tagNameUniqueConstraint) {
			return store.ErrTagNameExists
		}

		log.Error("failed to update tag",
			slog.String("error", err.Error()),
			slog.String("tag_id", tag.ID.String()))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rows == 0 {
		return store.ErrTagNotFound
	}

	return nil
}

// Delete implements store.TagStore.Delete
// The association rows go first; the referencing tasks are never touched.
func (s *PostgresTagStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM task_tags WHERE tag_id = $1`, id)
		if err != nil {
			return MapError(err)
		}

		result, err := tx.ExecContext(
			ctx,
			`DELETE FROM tags WHERE id = $1 AND user_id = $2`,
			id,
			userID,
		)
		if err != nil {
			return MapError(err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return MapError(err)
		}
		if rows == 0 {
			return store.ErrTagNotFound
		}

		return nil
	})

	if err != nil {
		if !errors.Is(err, store.ErrTagNotFound) {
			log.Error("failed to delete tag",
				slog.String("error", err.Error()),
				slog.String("tag_id", id.String()))
		}
		return err
	}

	log.Info("tag deleted",
		slog.String("tag_id", id.String()),
		slog.String("user_id", userID.String()))
	return nil
}
