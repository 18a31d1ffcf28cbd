// Package session holds the signed-in state of the dashboard and the
// service that creates, refreshes, persists and ends it.
package session

import (
	"time"

	"github.com/dmitrijs2005/admindash/internal/client/client"
	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID    string
	Email string
}

// Session is an authenticated session. A nil *Session is a signed-out one.
type Session struct {
	User         User
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

func (s *Session) IsAuthenticated() bool {
	return s != nil && s.AccessToken != ""
}

// Expired reports whether the access token is past its expiry at now. A
// session without a known expiry never expires locally.
func (s *Session) Expired(now time.Time) bool {
	if s == nil || s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(s.ExpiresAt)
}

// accessClaims are the claims the dashboard reads from an access token.
type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// fromTokens builds a Session from a token grant. Claims are read from the
// access token without verifying its signature: the backend verifies it on
// every request, the client only needs the user and expiry for display.
// Fields the grant carries explicitly take precedence.
func fromTokens(t *client.Tokens, now time.Time) *Session {
	s := &Session{
		User:         User{ID: t.User.ID, Email: t.User.Email},
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
	}

	var claims accessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(t.AccessToken, &claims); err == nil {
		if s.User.ID == "" {
			s.User.ID = claims.Subject
		}
		if s.User.Email == "" {
			s.User.Email = claims.Email
		}
		if claims.ExpiresAt != nil {
			s.ExpiresAt = claims.ExpiresAt.Time
		}
	}

	switch {
	case t.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(t.ExpiresAt, 0)
	case t.ExpiresIn > 0 && s.ExpiresAt.IsZero():
		s.ExpiresAt = now.Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return s
}
