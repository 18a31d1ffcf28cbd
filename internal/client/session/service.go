package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/admindash/internal/client/client"
	"github.com/dmitrijs2005/admindash/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/admindash/internal/dbx"
	"github.com/dmitrijs2005/admindash/internal/logging"
)

var (
	ErrNotAuthenticated = errors.New("not signed in")
	ErrNoSavedSession   = errors.New("no saved session")
	// ErrConfirmationRequired is returned by Register when the account was
	// created but the backend wants the email confirmed before sign-in.
	ErrConfirmationRequired = errors.New("email confirmation required")
	ErrInvalidCredentials   = errors.New("email and password are required")
)

// Service manages the session of the dashboard user.
//
// It also acts as client.Credentials for the record transport: AccessToken
// returns the current token and Refresh renews it with the refresh token.
type Service interface {
	Login(ctx context.Context, email string, password []byte) (*Session, error)
	Register(ctx context.Context, email string, password []byte) (*Session, error)
	Logout(ctx context.Context) error
	// Restore signs in again with the refresh token saved by a previous run.
	Restore(ctx context.Context) (*Session, error)
	AuthorizeURL(provider string) (string, error)
	// Current returns a copy of the active session, or nil.
	Current() *Session

	client.Credentials
}

type service struct {
	auth     client.AuthClient
	db       *sql.DB
	redirect string
	logger   logging.Logger
	now      func() time.Time

	// persist serializes installing or clearing a session together with
	// its saved refresh token.
	persist sync.Mutex

	mu      sync.Mutex
	current *Session
	// gen changes whenever current is replaced or cleared.
	gen uint64
}

// NewService builds a session service that signs in through auth and keeps
// the refresh token in db. redirect is passed to OAuth providers.
func NewService(auth client.AuthClient, db *sql.DB, redirect string, logger logging.Logger) Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &service{
		auth:     auth,
		db:       db,
		redirect: redirect,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *service) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

func (s *service) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.AccessToken
}

func (s *service) Login(ctx context.Context, email string, password []byte) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || len(password) == 0 {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.auth.SignIn(ctx, email, string(password))
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	return s.establish(ctx, tokens, nil)
}

func (s *service) Register(ctx context.Context, email string, password []byte) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || len(password) == 0 {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.auth.SignUp(ctx, email, string(password))
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	if tokens.AccessToken == "" {
		return nil, ErrConfirmationRequired
	}
	return s.establish(ctx, tokens, nil)
}

// Logout ends the session locally and then revokes it remotely. The local
// state is cleared even when the backend cannot be reached; that failure is
// still returned.
func (s *service) Logout(ctx context.Context) error {
	s.persist.Lock()
	s.mu.Lock()
	cur := s.current
	s.current = nil
	s.gen++
	s.mu.Unlock()

	err := s.forget(ctx)
	s.persist.Unlock()
	if err != nil {
		return fmt.Errorf("clear saved session: %w", err)
	}
	if cur == nil {
		return nil
	}

	if err := s.auth.SignOut(ctx, cur.AccessToken); err != nil {
		s.logger.Warn(ctx, "remote sign out failed", "error", err)
		return fmt.Errorf("sign out: %w", err)
	}
	s.logger.Info(ctx, "signed out", "user", cur.User.Email)
	return nil
}

func (s *service) Restore(ctx context.Context) (*Session, error) {
	if s.db == nil {
		return nil, ErrNoSavedSession
	}
	repo := metadata.NewSQLiteRepository(s.db)
	token, ok, err := repo.Get(ctx, metadata.KeyRefreshToken)
	if err != nil {
		return nil, fmt.Errorf("read saved session: %w", err)
	}
	if !ok || token == "" {
		return nil, ErrNoSavedSession
	}

	tokens, err := s.auth.Refresh(ctx, token)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) || isBadGrant(err) {
			// the saved token is dead, do not try it again next start
			if ferr := s.forget(ctx); ferr != nil {
				s.logger.Warn(ctx, "failed to drop stale refresh token", "error", ferr)
			}
		}
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	return s.establish(ctx, tokens, nil)
}

// Refresh renews the access token. It is called by the transport when the
// backend rejects the current one. If the session is replaced or ended while
// the refresh is in flight, the new tokens are discarded.
func (s *service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	cur, gen := s.current, s.gen
	s.mu.Unlock()
	if cur == nil || cur.RefreshToken == "" {
		return ErrNotAuthenticated
	}

	tokens, err := s.auth.Refresh(ctx, cur.RefreshToken)
	if err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	_, err = s.establish(ctx, tokens, &gen)
	return err
}

func (s *service) AuthorizeURL(provider string) (string, error) {
	return s.auth.AuthorizeURL(provider, s.redirect)
}

// establish installs the session built from tokens and persists its refresh
// token. A persistence failure is logged; the session is still usable. With
// from set, the session is only installed if gen still equals *from.
func (s *service) establish(ctx context.Context, tokens *client.Tokens, from *uint64) (*Session, error) {
	sess := fromTokens(tokens, s.now())

	s.persist.Lock()
	defer s.persist.Unlock()

	s.mu.Lock()
	if from != nil && s.gen != *from {
		s.mu.Unlock()
		s.logger.Info(ctx, "refreshed session discarded, it ended meanwhile")
		return nil, ErrNotAuthenticated
	}
	s.current = sess
	s.gen++
	s.mu.Unlock()

	if err := s.remember(ctx, sess); err != nil {
		s.logger.Warn(ctx, "failed to save session", "error", err)
	}
	s.logger.Info(ctx, "signed in", "user", sess.User.Email, "expires_at", sess.ExpiresAt)

	cp := *sess
	return &cp, nil
}

func (s *service) remember(ctx context.Context, sess *Session) error {
	if s.db == nil {
		return nil
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, metadata.KeyRefreshToken, sess.RefreshToken); err != nil {
			return err
		}
		return repo.Set(ctx, metadata.KeyUserEmail, sess.User.Email)
	})
}

func (s *service) forget(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, metadata.KeyRefreshToken); err != nil {
			return err
		}
		return repo.Delete(ctx, metadata.KeyUserEmail)
	})
}

// isBadGrant matches the 400 the auth service answers for an unknown or
// already used refresh token.
func isBadGrant(err error) bool {
	var se *client.StatusError
	return errors.As(err, &se) && se.Code == http.StatusBadRequest
}
