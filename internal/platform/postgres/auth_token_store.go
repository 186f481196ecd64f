package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskmaster/taskmaster-api/internal/domain"
	"github.com/taskmaster/taskmaster-api/internal/platform/logger"
	"github.com/taskmaster/taskmaster-api/internal/store"
)

// PostgresAuthTokenStore implements the store.AuthTokenStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAuthTokenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAuthTokenStore creates a new PostgreSQL implementation of the
// AuthTokenStore interface.
func NewPostgresAuthTokenStore(db store.DBTX, log *slog.Logger) *PostgresAuthTokenStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &PostgresAuthTokenStore{
		db:     db,
		logger: log.With(slog.String("component", "auth_token_store")),
	}
}

// Ensure PostgresAuthTokenStore implements store.AuthTokenStore interface
var _ store.AuthTokenStore = (*PostgresAuthTokenStore)(nil)

// Create implements store.AuthTokenStore.Create
// Returns a store.ErrDuplicate wrapper if the user already holds a token.
func (s *PostgresAuthTokenStore) Create(ctx context.Context, token *domain.AuthToken) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := token.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO auth_tokens (token, user_id, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := s.db.ExecContext(ctx, query, token.Token, token.UserID, token.CreatedAt)
	if err != nil {
		// MapError turns the user_id unique violation into store.ErrDuplicate.
		mapped := MapError(err)
		if !errors.Is(mapped, store.ErrDuplicate) {
			log.Error("failed to create auth token",
				slog.String("error", err.Error()),
				slog.String("user_id", token.UserID.String()))
		}
		return mapped
	}

	return nil
}

// GetByToken implements store.AuthTokenStore.GetByToken
// Returns store.ErrTokenNotFound if the token is unknown.
func (s *PostgresAuthTokenStore) GetByToken(ctx context.Context, token string) (*domain.AuthToken, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT token, user_id, created_at
		FROM auth_tokens
		WHERE token = $1
	`

	var record domain.AuthToken
	err := s.db.QueryRowContext(ctx, query, token).Scan(
		&record.Token,
		&record.UserID,
		&record.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTokenNotFound
		}
		log.Error("failed to get auth token", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return &record, nil
}

// GetByUserID implements store.AuthTokenStore.GetByUserID
// Returns store.ErrTokenNotFound if the user holds no token.
func (s *PostgresAuthTokenStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.AuthToken, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT token, user_id, created_at
		FROM auth_tokens
		WHERE user_id = $1
	`

	var record domain.AuthToken
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&record.Token,
		&record.UserID,
		&record.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTokenNotFound
		}
		log.Error("failed to get auth token by user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	return &record, nil
}

// DeleteByUserID implements store.AuthTokenStore.DeleteByUserID
// Deleting a token that does not exist is a no-op; logout is idempotent.
func (s *PostgresAuthTokenStore) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE user_id = $1`, userID)
	if err != nil {
		log.Error("failed to delete auth token",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}

	return nil
}
