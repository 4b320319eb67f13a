package auth

import "github.com/heartmarshall/roadsigns-backend/internal/domain"

// AuthResult is returned by Register, LoginWithPassword and Refresh.
type AuthResult struct {
	AccessToken  string
	RefreshToken string // raw token, NOT hash
	ExpiresIn    int    // access token lifetime in seconds
	User         *domain.User
}

// CurrentUser is the identity of the signed-in user.
type CurrentUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
