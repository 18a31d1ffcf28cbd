package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

var ErrUnsupportedProvider = errors.New("unsupported oauth provider")

// OAuthProviders lists the identity providers the dashboard offers buttons for.
var OAuthProviders = []string{"google", "facebook", "apple", "github"}

var _ AuthClient = (*RESTClient)(nil)

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn exchanges email and password for a token grant.
func (c *RESTClient) SignIn(ctx context.Context, email, password string) (*Tokens, error) {
	return c.grant(ctx, "password", credentialsBody{Email: email, Password: password})
}

// Refresh exchanges a refresh token for a new grant.
func (c *RESTClient) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	return c.grant(ctx, "refresh_token", map[string]string{"refresh_token": refreshToken})
}

func (c *RESTClient) grant(ctx context.Context, grantType string, body any) (*Tokens, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	data, err := c.send(ctx, http.MethodPost, "/auth/v1/token", url.Values{"grant_type": {grantType}}, nil, payload, c.apiKey)
	if err != nil {
		return nil, err
	}
	return decodeTokens(data)
}

// SignUp registers a new account. When the backend requires email
// confirmation the returned grant has no access token.
func (c *RESTClient) SignUp(ctx context.Context, email, password string) (*Tokens, error) {
	payload, err := json.Marshal(credentialsBody{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	data, err := c.send(ctx, http.MethodPost, "/auth/v1/signup", nil, nil, payload, c.apiKey)
	if err != nil {
		return nil, err
	}

	// without auto-confirmation the body is the bare user object
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if _, ok := probe["access_token"]; !ok {
		var u AuthUser
		if err := json.Unmarshal(data, &u); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return &Tokens{User: u}, nil
	}
	return decodeTokens(data)
}

// SignOut revokes the session behind accessToken.
func (c *RESTClient) SignOut(ctx context.Context, accessToken string) error {
	_, err := c.send(ctx, http.MethodPost, "/auth/v1/logout", nil, nil, nil, accessToken)
	return err
}

// AuthorizeURL builds the link that starts an OAuth flow with provider.
func (c *RESTClient) AuthorizeURL(provider, redirectTo string) (string, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))

	supported := false
	for _, p := range OAuthProviders {
		if p == provider {
			supported = true
			break
		}
	}
	if !supported {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}

	q := url.Values{"provider": {provider}}
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	return c.baseURL + "/auth/v1/authorize?" + q.Encode(), nil
}

func decodeTokens(data []byte) (*Tokens, error) {
	var t Tokens
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if t.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access token", ErrMalformedResponse)
	}
	return &t, nil
}
