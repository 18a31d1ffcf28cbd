// Package metadata stores small local key/value settings such as the theme
// preference and the refresh token of the last session.
package metadata

import (
	"context"
	"time"
)

// Well-known keys.
const (
	KeyTheme        = "theme"
	KeyRefreshToken = "refresh_token"
	KeyUserEmail    = "user_email"
)

type Entry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

type Repository interface {
	// Get returns the value of key; ok is false when the key is unset.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// List returns all entries ordered by key.
	List(ctx context.Context) ([]Entry, error)
	Clear(ctx context.Context) error
}
