package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/roadsigns-backend/internal/auth"
	"github.com/heartmarshall/roadsigns-backend/internal/domain"
	"github.com/heartmarshall/roadsigns-backend/pkg/ctxutil"
)

// Logout signs the authenticated user out. A presented refresh token is
// revoked on its own; without one every session of the user is revoked.
// The user's key-value keyspace is cleared either way.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := s.revoke(ctx, userID, refreshToken); err != nil {
		return fmt.Errorf("auth.Logout: %w", err)
	}

	if err := s.kv.Clear(ctx, userID); err != nil {
		s.log.WarnContext(ctx, "clear kv store",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
	}

	s.log.InfoContext(ctx, "user logged out", slog.String("user_id", userID.String()))
	return nil
}

func (s *Service) revoke(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	if refreshToken == "" {
		return s.tokens.RevokeAllByUser(ctx, userID)
	}

	token, err := s.tokens.GetByHash(ctx, auth.HashToken(refreshToken))
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if token.UserID != userID {
		return nil
	}
	return s.tokens.RevokeByID(ctx, token.ID)
}

// CurrentUser returns the identity of the authenticated user.
func (s *Service) CurrentUser(ctx context.Context) (*CurrentUser, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.CurrentUser: %w", err)
	}
	return &CurrentUser{ID: user.ID.String(), Email: user.Email, Name: user.DisplayName()}, nil
}

// ValidateToken validates an access token and returns the user ID.
// Returns ErrUnauthorized if the token is invalid or expired.
func (s *Service) ValidateToken(ctx context.Context, token string) (uuid.UUID, error) {
	userID, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return userID, nil
}

// CleanupExpiredTokens removes all expired refresh tokens from the database.
// Returns the number of tokens deleted. This is a maintenance operation.
func (s *Service) CleanupExpiredTokens(ctx context.Context) (int, error) {
	count, err := s.tokens.DeleteExpired(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "token cleanup failed", slog.String("error", err.Error()))
		return 0, fmt.Errorf("auth.CleanupExpiredTokens: %w", err)
	}

	if count > 0 {
		s.log.InfoContext(ctx, "cleaned up expired tokens", slog.Int("count", count))
	}

	return count, nil
}
