package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/common"
)

// AuthClient talks to the auth service and owns the session lifecycle.
type AuthClient struct {
	t      *transport
	tokens TokenSource
}

// Login exchanges credentials for a bearer token and stores it in the
// session. A failed login leaves the session untouched.
//
// If the token was issued but could not be stored, the response is returned
// together with an error matching common.ErrStorageUnavailable.
func (c *AuthClient) Login(ctx context.Context, username, password string) (*models.TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var tok models.TokenResponse
	err := c.t.do(ctx, call{
		op:     "auth.login",
		method: http.MethodPost,
		path:   "/token",
		form:   form,
		status: loginStatus,
	}, &tok)
	if err != nil {
		return nil, err
	}

	if tok.AccessToken == "" {
		return nil, &Error{Op: "auth.login", Kind: common.KindUnknown, Status: http.StatusOK,
			Message: "response carries no access token"}
	}

	if err := c.tokens.SetToken(ctx, tok.AccessToken); err != nil {
		return &tok, fmt.Errorf("auth.login: %w", err)
	}

	c.t.log.Info(ctx, "logged in", "username", username)
	return &tok, nil
}

// Register creates an account. It does not log in.
func (c *AuthClient) Register(ctx context.Context, req models.RegistrationRequest) (*models.UserProfile, error) {
	var user models.UserProfile
	err := c.t.do(ctx, call{
		op:     "auth.register",
		method: http.MethodPost,
		path:   "/register",
		json:   req,
		status: registerStatus,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentUser returns the profile of the session's user.
func (c *AuthClient) CurrentUser(ctx context.Context) (*models.UserProfile, error) {
	var user models.UserProfile
	err := c.t.do(ctx, call{
		op:     "auth.me",
		method: http.MethodGet,
		path:   "/users/me",
		auth:   true,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout clears the session. The services keep no session state, so no
// request is made.
func (c *AuthClient) Logout(ctx context.Context) error {
	if err := c.tokens.ClearToken(ctx); err != nil {
		return fmt.Errorf("auth.logout: %w", err)
	}
	c.t.log.Info(ctx, "logged out")
	return nil
}
