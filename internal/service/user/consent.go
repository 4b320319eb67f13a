package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
	"github.com/heartmarshall/roadsigns-backend/pkg/ctxutil"
)

// GetConsent returns the user's consent record, or ErrNotFound when the
// terms were never accepted.
func (s *Service) GetConsent(ctx context.Context) (*domain.Consent, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return s.users.GetConsent(ctx, userID)
}

// GiveConsent records acceptance of the terms. An empty version means the
// current one.
func (s *Service) GiveConsent(ctx context.Context, version string) (*domain.Consent, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	version = strings.TrimSpace(version)
	if version == "" {
		version = domain.CurrentConsentVersion
	}
	if len(version) > 16 {
		return nil, domain.NewValidationError("version", "too long")
	}

	c, err := s.users.UpsertConsent(ctx, domain.Consent{
		UserID:     userID,
		Given:      true,
		Version:    version,
		AcceptedAt: s.clock.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("user.GiveConsent: %w", err)
	}

	s.log.InfoContext(ctx, "consent given",
		slog.String("user_id", userID.String()),
		slog.String("version", version))
	return c, nil
}
