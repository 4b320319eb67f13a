package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/roadsigns-backend/internal/auth"
	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued. Presenting a token that was already rotated away means it
// leaked, so every token of that user is revoked and both holders have to
// sign in again.
func (s *Service) Refresh(ctx context.Context, input RefreshInput) (*AuthResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	token, err := s.tokens.GetByHash(ctx, auth.HashToken(input.RefreshToken))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.Refresh get token: %w", err)
	}

	switch {
	case token.IsRevoked():
		s.log.WarnContext(ctx, "refresh token reuse detected, revoking all sessions",
			slog.String("user_id", token.UserID.String()))
		if err := s.tokens.RevokeAllByUser(ctx, token.UserID); err != nil {
			return nil, fmt.Errorf("auth.Refresh revoke family: %w", err)
		}
		return nil, domain.ErrUnauthorized
	case token.IsExpired(s.clock.Now()):
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.Refresh get user: %w", err)
	}

	var result *AuthResult
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.tokens.RevokeByID(ctx, token.ID); err != nil {
			return fmt.Errorf("revoke token: %w", err)
		}
		result, err = s.issueTokens(ctx, user)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("auth.Refresh: %w", err)
	}
	return result, nil
}
