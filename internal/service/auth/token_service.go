package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskmaster/taskmaster-api/internal/domain"
	"github.com/taskmaster/taskmaster-api/internal/platform/logger"
	"github.com/taskmaster/taskmaster-api/internal/store"
)

// tokenKeyBytes is the number of random bytes in a token key; hex encoding
// doubles it, yielding 40-character opaque keys.
const tokenKeyBytes = 20

// TokenService manages the opaque bearer tokens that authorize every
// request. Each user holds at most one token; issuing is get-or-create so
// that logging in from a second client reuses the existing credential.
type TokenService interface {
	// IssueToken returns the user's current token, creating one if absent.
	IssueToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken resolves an opaque token to the owning user's ID.
	// Returns ErrInvalidToken if the token is unknown or empty.
	ValidateToken(ctx context.Context, token string) (uuid.UUID, error)

	// RevokeToken deletes the user's token if one exists. Revoking a user
	// without a token is not an error.
	RevokeToken(ctx context.Context, userID uuid.UUID) error
}

// tokenService is the store-backed TokenService implementation.
type tokenService struct {
	tokens store.AuthTokenStore
	logger *slog.Logger
}

// NewTokenService creates a TokenService backed by the given token store.
func NewTokenService(tokens store.AuthTokenStore, log *slog.Logger) TokenService {
	if log == nil {
		log = slog.Default()
	}
	return &tokenService{
		tokens: tokens,
		logger: log.With(slog.String("component", "token_service")),
	}
}

// IssueToken implements TokenService.IssueToken.
func (s *tokenService) IssueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	existing, err := s.tokens.GetByUserID(ctx, userID)
	if err == nil {
		return existing.Token, nil
	}
	if !errors.Is(err, store.ErrTokenNotFound) {
		return "", fmt.Errorf("failed to look up existing token: %w", err)
	}

	key, err := generateTokenKey()
	if err != nil {
		return "", err
	}

	token := &domain.AuthToken{
		Token:     key,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.tokens.Create(ctx, token); err != nil {
		// Two concurrent logins can race past the lookup above; the unique
		// constraint on user_id makes one of them lose. Reuse the winner's token.
		if errors.Is(err, store.ErrDuplicate) {
			existing, getErr := s.tokens.GetByUserID(ctx, userID)
			if getErr != nil {
				return "", fmt.Errorf("failed to recover token after race: %w", getErr)
			}
			return existing.Token, nil
		}
		return "", fmt.Errorf("failed to create token: %w", err)
	}

	log.Debug("issued new auth token", slog.String("user_id", userID.String()))
	return key, nil
}

// ValidateToken implements TokenService.ValidateToken.
func (s *tokenService) ValidateToken(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, ErrMissingToken
	}

	record, err := s.tokens.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return uuid.Nil, ErrInvalidToken
		}
		return uuid.Nil, fmt.Errorf("failed to validate token: %w", err)
	}

	return record.UserID, nil
}

// RevokeToken implements TokenService.RevokeToken.
func (s *tokenService) RevokeToken(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.tokens.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	log.Debug("revoked auth token", slog.String("user_id", userID.String()))
	return nil
}

// generateTokenKey creates a new opaque token key from crypto/rand.
func generateTokenKey() (string, error) {
	b := make([]byte, tokenKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token key: %w", err)
	}
	return hex.EncodeToString(b), nil
}
