package user

import (
	"html"
	"strings"
	"time"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

const (
	maxNameLength     = 100
	maxTimezoneLength = 64
)

// cleanName strips markup and surrounding whitespace from a display name.
func (s *Service) cleanName(raw string) (string, error) {
	name := strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(raw)))
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "", domain.NewValidationError("name", "Name cannot be empty")
	}
	if len([]rune(name)) > maxNameLength {
		return "", domain.NewValidationError("name", "too long")
	}
	return name, nil
}

func validateTimezone(tz string) error {
	switch {
	case tz == "":
		return domain.NewValidationError("timezone", "cannot be empty")
	case len(tz) > maxTimezoneLength:
		return domain.NewValidationError("timezone", "too long")
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return domain.NewValidationError("timezone", "invalid IANA timezone")
	}
	return nil
}
