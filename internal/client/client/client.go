package client

import (
	"context"

	"github.com/dmitrijs2005/admindash/internal/client/models"
)

// Client covers the backend as a whole.
type Client interface {
	Ping(ctx context.Context) error
	Close() error
}

// Records is the remote side of one collection.
type Records[T models.Record] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id models.ID) (T, error)
	Create(ctx context.Context, draft T) (T, error)
	Update(ctx context.Context, id models.ID, rec T) (T, error)
	Delete(ctx context.Context, id models.ID) error
}

// AuthClient is the remote authentication service.
type AuthClient interface {
	SignIn(ctx context.Context, email, password string) (*Tokens, error)
	SignUp(ctx context.Context, email, password string) (*Tokens, error)
	SignOut(ctx context.Context, accessToken string) error
	Refresh(ctx context.Context, refreshToken string) (*Tokens, error)
	AuthorizeURL(provider, redirectTo string) (string, error)
}

// Credentials supplies the bearer token for record requests. Refresh is
// called once when the backend rejects the current token.
type Credentials interface {
	AccessToken() string
	Refresh(ctx context.Context) error
}

// AuthUser is the user object returned by the auth service.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Tokens is a token grant. AccessToken is empty when sign-up still needs
// email confirmation.
type Tokens struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int64    `json:"expires_in"`
	ExpiresAt    int64    `json:"expires_at"`
	RefreshToken string   `json:"refresh_token"`
	User         AuthUser `json:"user"`
}
