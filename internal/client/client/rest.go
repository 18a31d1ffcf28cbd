package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/admindash/internal/client/config"
	"github.com/dmitrijs2005/admindash/internal/common"
	"github.com/dmitrijs2005/admindash/internal/logging"
	"github.com/google/uuid"
)

const (
	apiKeyHeaderName    = "apikey"
	requestIDHeaderName = "X-Request-Id"
)

// RESTClient is the HTTP implementation of Client and AuthClient. Record
// access goes through Collection[T].
type RESTClient struct {
	baseURL     string
	apiKey      string
	style       string
	http        *http.Client
	credentials Credentials
	logger      logging.Logger
}

// NewRESTClient builds a client for cfg.BaseURL. The API style decides how
// collection paths and id filters are laid out.
func NewRESTClient(cfg *config.Config, logger logging.Logger) (*RESTClient, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse base url: unsupported scheme %q", u.Scheme)
	}

	style := cfg.APIStyle
	switch style {
	case config.APIStylePostgREST, config.APIStylePlain:
	case "":
		style = config.APIStylePostgREST
	default:
		return nil, fmt.Errorf("unknown api style %q", cfg.APIStyle)
	}

	if logger == nil {
		logger = logging.Discard()
	}

	return &RESTClient{
		baseURL: strings.TrimRight(u.String(), "/"),
		apiKey:  cfg.APIKey,
		style:   style,
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		logger:  logger,
	}, nil
}

// SetCredentials installs the token source used for record requests. A nil
// value, or one returning an empty token, makes requests carry the API key.
func (c *RESTClient) SetCredentials(cr Credentials) {
	c.credentials = cr
}

func (c *RESTClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// Ping succeeds when the backend answers its root (postgrest) or /health
// (plain) with a 2xx.
func (c *RESTClient) Ping(ctx context.Context) error {
	path := "/health"
	if c.style == config.APIStylePostgREST {
		path = "/rest/v1/"
	}
	_, err := c.send(ctx, http.MethodGet, path, nil, nil, nil, c.bearer())
	return err
}

type request struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   any
}

// do performs an authenticated request. When the backend answers 401 and
// credentials are installed, the token is refreshed once and the request
// replayed with the new token.
func (c *RESTClient) do(ctx context.Context, r request) ([]byte, error) {
	var payload []byte
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		payload = b
	}

	data, err := c.send(ctx, r.method, r.path, r.query, r.header, payload, c.bearer())
	if err == nil {
		return data, nil
	}

	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusUnauthorized {
		return nil, err
	}
	if c.credentials == nil || c.credentials.AccessToken() == "" {
		return nil, err
	}

	if rerr := c.credentials.Refresh(ctx); rerr != nil {
		c.logger.Warn(ctx, "token refresh failed", "error", rerr)
		return nil, err
	}

	// token refreshed, replaying with the new one
	return c.send(ctx, r.method, r.path, r.query, r.header, payload, c.bearer())
}

func (c *RESTClient) bearer() string {
	if c.credentials != nil {
		if tok := c.credentials.AccessToken(); tok != "" {
			return tok
		}
	}
	return c.apiKey
}

func (c *RESTClient) send(ctx context.Context, method, path string, query url.Values, header http.Header, payload []byte, bearer string) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeaderName, c.apiKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeaderName, requestID)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug(ctx, "request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, c.mapError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.mapError(ctx, err)
	}

	c.logger.Debug(ctx, "request done", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "bearer", common.MaskSecret(bearer), "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Message: errorMessage(data), Err: statusSentinel(resp.StatusCode)}
	}
	return data, nil
}

// mapError turns transport failures into ErrUnavailable. Cancellation by the
// caller is passed through untouched.
func (c *RESTClient) mapError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// errorMessage pulls a human readable message out of PostgREST and GoTrue
// error bodies, falling back to the raw text.
func errorMessage(data []byte) string {
	var body struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		for _, s := range []string{body.ErrorDescription, body.Message, body.Msg, body.Error} {
			if s != "" {
				return s
			}
		}
	}
	s := strings.TrimSpace(string(data))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
