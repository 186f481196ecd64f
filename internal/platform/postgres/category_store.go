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

// PostgresCategoryStore implements the store.CategoryStore interface
// using a PostgreSQL database as the storage backend.
//
// It takes a *sql.DB rather than a DBTX because Delete spans multiple
// statements and manages its own transaction.
type PostgresCategoryStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresCategoryStore creates a new PostgreSQL implementation of the
// CategoryStore interface.
func NewPostgresCategoryStore(db *sql.DB, log *slog.Logger) *PostgresCategoryStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &PostgresCategoryStore{
		db:     db,
		logger: log.With(slog.String("component", "category_store")),
	}
}

// Ensure PostgresCategoryStore implements store.CategoryStore interface
var _ store.CategoryStore = (*PostgresCategoryStore)(nil)

// Create implements store.CategoryStore.Create
func (s *PostgresCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := category.Validate(); err != nil {
		log.Warn("category validation failed during create",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return err
	}

	query := `
		INSERT INTO categories (id, user_id, name, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		category.ID,
		category.UserID,
		category.Name,
		category.Color,
		category.CreatedAt,
		category.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create category",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()),
			slog.String("user_id", category.UserID.String()))
		return MapError(err)
	}

	log.Info("category created successfully",
		slog.String("category_id", category.ID.String()),
		slog.String("user_id", category.UserID.String()))
	return nil
}

// GetByID implements store.CategoryStore.GetByID
// The query is scoped to the owner, so a foreign category yields
// store.ErrCategoryNotFound exactly like a missing one.
func (s *PostgresCategoryStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, name, color, created_at, updated_at
		FROM categories
		WHERE id = $1 AND user_id = $2
	`

	var category domain.Category
	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&category.ID,
		&category.UserID,
		&category.Name,
		&category.Color,
		&category.CreatedAt,
		&category.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCategoryNotFound
		}
		log.Error("failed to get category by ID",
			slog.String("error", err.Error()),
			slog.String("category_id", id.String()))
		return nil, MapError(err)
	}

	return &category, nil
}

// categoryOrderColumns whitelists the sortable columns for List.
var categoryOrderColumns = map[string]string{
	"name":       "name",
	"created_at": "created_at",
}

// List implements store.CategoryStore.List
func (s *PostgresCategoryStore) List(
	ctx context.Context,
	userID uuid.UUID,
	opts store.CategoryListOptions,
) ([]*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var sb strings.Builder
	sb.WriteString(`
		SELECT id, user_id, name, color, created_at, updated_at
		FROM categories
		WHERE user_id = $1
	`)
	args := []any{userID}

	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		fmt.Fprintf(&sb, " AND name ILIKE $%d", len(args))
	}

	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderClause(opts.Ordering, categoryOrderColumns, "name ASC"))

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		log.Error("failed to list categories",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	categories := []*domain.Category{}
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(
			&category.ID,
			&category.UserID,
			&category.Name,
			&category.Color,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return nil, MapError(err)
		}
		categories = append(categories, &category)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return categories, nil
}

// Update implements store.CategoryStore.Update
func (s *PostgresCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := category.Validate(); err != nil {
		log.Warn("category validation failed during update",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return err
	}

	query := `
		UPDATE categories
		SET name = $1, color = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		category.Name,
		category.Color,
		category.UpdatedAt,
		category.ID,
		category.UserID,
	)

	if err != nil {
		log.Error("failed to update category",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rows == 0 {
		return store.ErrCategoryNotFound
	}

	return nil
}

// Delete implements store.CategoryStore.Delete
// Referencing tasks keep existing but lose their category reference; both
// statements run in one transaction so a failure leaves everything intact.
func (s *PostgresCategoryStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(
			ctx,
			`UPDATE tasks SET category_id = NULL WHERE category_id = $1 AND user_id = $2`,
			id,
			userID,
		)
		if err != nil {
			return MapError(err)
		}

		result, err := tx.ExecContext(
			ctx,
			`DELETE FROM categories WHERE id = $1 AND user_id = $2`,
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
			return store.ErrCategoryNotFound
		}

		return nil
	})

	if err != nil {
		if !errors.Is(err, store.ErrCategoryNotFound) {
			log.Error("failed to delete category",
				slog.String("error", err.Error()),
				slog.String("category_id", id.String()))
		}
		return err
	}

	log.Info("category deleted",
		slog.String("category_id", id.String()),
		slog.String("user_id", userID.String()))
	return nil
}
