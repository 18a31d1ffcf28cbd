package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/admindash/internal/client/client"
	"github.com/dmitrijs2005/admindash/internal/client/session"
	"github.com/dmitrijs2005/admindash/internal/common"
)

// getSimpleText, getTextWithDefault and getPassword are indirections used to
// facilitate testing.
var (
	getSimpleText      = GetSimpleText
	getTextWithDefault = GetTextWithDefault
	getPassword        = GetPassword
)

// credentials prompts for an email and a password. The caller wipes the
// password.
func (a *App) credentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

// Register prompts for an email and password and creates an account. When
// the backend asks for email confirmation the user is told so and stays
// signed out.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.sessions.Register(ctx, email, password)
	if errors.Is(err, session.ErrConfirmationRequired) {
		a.toast.Info("Account created. Check %s for a confirmation link, then log in", email)
		return nil
	}
	if err != nil {
		return err
	}

	a.setSession(s)
	a.toast.Success("Welcome, %s", s.User.Email)
	return nil
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.sessions.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.setMode(ModeOffline)
		}
		return err
	}

	a.setSession(s)
	a.setMode(ModeOnline)
	a.toast.Success("Signed in as %s", s.User.Email)
	return nil
}

// OAuth prints the authorize link of provider. The sign-in completes in the
// browser.
func (a *App) OAuth(_ context.Context, provider string) error {
	link, err := a.sessions.AuthorizeURL(provider)
	if err != nil {
		return err
	}
	a.toast.Info("Open this link to continue with %s:", provider)
	fmt.Fprintln(a.out, link)
	return nil
}

// Logout ends the session. The local session is gone even if the backend
// could not be told.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return session.ErrNotAuthenticated
	}
	err := a.sessions.Logout(ctx)
	a.setSession(nil)
	if err != nil {
		return err
	}
	a.toast.Success("Signed out")
	return nil
}

// restoreSession signs in with the refresh token of a previous run, if any.
func (a *App) restoreSession(ctx context.Context) {
	s, err := a.sessions.Restore(ctx)
	switch {
	case errors.Is(err, session.ErrNoSavedSession):
		return
	case err != nil:
		a.logger.Warn(ctx, "could not restore session", "error", err)
		a.toast.Info("Previous session expired, please log in again")
		return
	}
	a.setSession(s)
	a.toast.Success("Welcome back, %s", s.User.Email)
}
