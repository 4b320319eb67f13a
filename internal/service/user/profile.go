package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
	"github.com/heartmarshall/roadsigns-backend/pkg/ctxutil"
)

// Profile is the user as shown on the profile screen.
type Profile struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Timezone    string `json:"timezone"`
}

func toProfile(u *domain.User) *Profile {
	return &Profile{
		ID:          u.ID.String(),
		Email:       u.Email,
		Name:        u.Name,
		DisplayName: u.DisplayName(),
		Timezone:    u.Timezone,
	}
}

// GetProfile returns the authenticated user's profile.
// Returns ErrUnauthorized if no userID is found in context.
func (s *Service) GetProfile(ctx context.Context) (*Profile, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user.GetProfile: %w", err)
	}
	return toProfile(user), nil
}

// UpdateName sets the display name after stripping markup.
func (s *Service) UpdateName(ctx context.Context, name string) (*Profile, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	clean, err := s.cleanName(name)
	if err != nil {
		return nil, err
	}

	user, err := s.users.UpdateName(ctx, userID, clean)
	if err != nil {
		return nil, fmt.Errorf("user.UpdateName: %w", err)
	}

	s.log.InfoContext(ctx, "profile updated", slog.String("user_id", userID.String()))
	return toProfile(user), nil
}

// UpdateTimezone sets the zone used to bucket the user's activity into days.
func (s *Service) UpdateTimezone(ctx context.Context, tz string) (*Profile, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	tz = strings.TrimSpace(tz)
	if err := validateTimezone(tz); err != nil {
		return nil, err
	}

	user, err := s.users.UpdateTimezone(ctx, userID, tz)
	if err != nil {
		return nil, fmt.Errorf("user.UpdateTimezone: %w", err)
	}

	s.log.InfoContext(ctx, "timezone updated",
		slog.String("user_id", userID.String()),
		slog.String("timezone", tz))
	return toProfile(user), nil
}
