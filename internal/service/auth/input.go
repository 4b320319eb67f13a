package auth

import (
	"net/mail"
	"strings"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

const (
	msgFillAllFields = "Please fill all fields"
	maxEmailLength   = 254
	maxNameLength    = 100
	maxPasswordBytes = 72 // bcrypt limit
)

// RegisterInput holds parameters for password registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Validate checks the input. Missing fields are reported together with
// a single message.
func (i RegisterInput) Validate(minPassword int) error {
	if i.Name == "" || i.Email == "" || i.Password == "" {
		return domain.NewValidationError("form", msgFillAllFields)
	}

	var errs []domain.FieldError
	if len(i.Name) > maxNameLength {
		errs = append(errs, domain.FieldError{Field: "name", Message: "too long"})
	}
	if err := validateEmail(i.Email); err != "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: err})
	}
	switch {
	case len(i.Password) < minPassword:
		errs = append(errs, domain.FieldError{Field: "password", Message: "too short"})
	case len(i.Password) > maxPasswordBytes:
		errs = append(errs, domain.FieldError{Field: "password", Message: "too long"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// LoginPasswordInput holds parameters for password login.
type LoginPasswordInput struct {
	Email    string
	Password string
}

// Validate validates the login input.
func (i LoginPasswordInput) Validate() error {
	if i.Email == "" || i.Password == "" {
		return domain.NewValidationError("form", msgFillAllFields)
	}
	if len(i.Email) > maxEmailLength || len(i.Password) > maxPasswordBytes {
		return domain.NewValidationError("form", "too long")
	}
	return nil
}

// RefreshInput holds parameters for token refresh operation.
type RefreshInput struct {
	RefreshToken string
}

// Validate validates the refresh input.
func (i RefreshInput) Validate() error {
	var errs []domain.FieldError

	if i.RefreshToken == "" {
		errs = append(errs, domain.FieldError{Field: "refresh_token", Message: "required"})
	} else if len(i.RefreshToken) > 512 {
		errs = append(errs, domain.FieldError{Field: "refresh_token", Message: "too long"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func validateEmail(email string) string {
	if len(email) > maxEmailLength {
		return "too long"
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return "invalid format"
	}
	return ""
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
