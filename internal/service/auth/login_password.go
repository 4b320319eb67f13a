package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

// LoginWithPassword signs a learner in with email and password and primes
// their key-value session. Unknown email and wrong password both give
// ErrUnauthorized after a bcrypt comparison of the same cost, so response
// time does not reveal which accounts exist.
func (s *Service) LoginWithPassword(ctx context.Context, input LoginPasswordInput) (*AuthResult, error) {
	input.Email = normalizeEmail(input.Email)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		_ = bcrypt.CompareHashAndPassword(s.dummyHash(), []byte(input.Password))
		return nil, domain.ErrUnauthorized
	case err != nil:
		return nil, fmt.Errorf("auth.LoginWithPassword get user: %w", err)
	}

	hash := []byte(user.PasswordHash)
	if len(hash) == 0 {
		hash = s.dummyHash()
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(input.Password)); err != nil || user.PasswordHash == "" {
		s.log.InfoContext(ctx, "password login rejected", slog.String("user_id", user.ID.String()))
		return nil, domain.ErrUnauthorized
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("auth.LoginWithPassword issue tokens: %w", err)
	}

	s.primeSession(ctx, user)
	s.log.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID.String()))
	return result, nil
}
