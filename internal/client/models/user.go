// Package models defines the entities the client core shuttles between the
// UI and the auth, recipe and rating services. The core does not interpret
// their business meaning beyond what is needed to build requests.
package models

// Credentials is the transient login input. It is never persisted.
type Credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// RegistrationRequest is the body of POST /register.
type RegistrationRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned by POST /token.
type TokenResponse struct {
	// AccessToken is the opaque bearer credential stored in the session.
	AccessToken string `json:"access_token"`
	// TokenType is "bearer" for the current auth service.
	TokenType string `json:"token_type"`
}

// UserProfile is returned by GET /users/me and POST /register.
type UserProfile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}
