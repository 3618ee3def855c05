package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/recipebook/internal/client/models"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

// Register prompts for a username, email and password and creates an
// account. It does not log in.
func (a *App) Register(ctx context.Context) error {
	var req models.RegistrationRequest
	var err error

	if req.Username, err = getSimpleText(a.reader, "Enter username", a.out); err != nil {
		return err
	}
	if req.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if req.Password, err = getPassword(a.reader, a.out); err != nil {
		return err
	}

	if err := validateForm(req); err != nil {
		return err
	}

	user, err := a.gw.Auth.Register(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s. You can now log in.\n", user.Username)
	return nil
}

// Login prompts for credentials and signs in. On success the session is
// updated, which re-renders the status line.
func (a *App) Login(ctx context.Context) error {
	var creds models.Credentials
	var err error

	if creds.Username, err = getSimpleText(a.reader, "Enter username", a.out); err != nil {
		return err
	}
	if creds.Password, err = getPassword(a.reader, a.out); err != nil {
		return err
	}

	if err := validateForm(creds); err != nil {
		return err
	}

	if _, err := a.gw.Auth.Login(ctx, creds.Username, creds.Password); err != nil {
		return err
	}

	a.log.Info(ctx, "login succeeded", "username", creds.Username)
	return nil
}

// Logout clears the session.
func (a *App) Logout(ctx context.Context) error {
	return a.gw.Auth.Logout(ctx)
}

// WhoAmI prints the profile of the logged-in user as the auth service sees
// it.
func (a *App) WhoAmI(ctx context.Context) error {
	user, err := a.gw.Auth.CurrentUser(ctx)
	if err != nil {
		return err
	}

	state := "active"
	if !user.IsActive {
		state = "inactive"
	}
	fmt.Fprintf(a.out, "%s <%s> (id %d, %s)\n", user.Username, user.Email, user.ID, state)
	return nil
}
