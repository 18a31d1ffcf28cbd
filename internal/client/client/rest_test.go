package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/admindash/internal/client/config"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*************
 * helpers
 *************/

type seenRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   string
}

type recorder struct {
	mu   sync.Mutex
	reqs []seenRequest
}

func (r *recorder) add(req *http.Request, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, seenRequest{
		Method: req.Method,
		Path:   req.URL.Path,
		Query:  req.URL.RawQuery,
		Header: req.Header.Clone(),
		Body:   body,
	})
}

func (r *recorder) last(t *testing.T) seenRequest {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.reqs, "no requests recorded")
	return r.reqs[len(r.reqs)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reqs)
}

func newTestClient(t *testing.T, baseURL, style string) *RESTClient {
	t.Helper()
	cfg := &config.Config{
		BaseURL:        baseURL,
		APIKey:         "anon-key",
		APIStyle:       style,
		RequestTimeout: 2 * time.Second,
	}
	c, err := NewRESTClient(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

type fakeCredentials struct {
	mu        sync.Mutex
	token     string
	next      string
	refreshes int
	err       error
}

func (f *fakeCredentials) AccessToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeCredentials) Refresh(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	if f.err != nil {
		return f.err
	}
	f.token = f.next
	return nil
}

/*************
 * constructor
 *************/

func TestNewRESTClient_Validation(t *testing.T) {
	_, err := NewRESTClient(&config.Config{BaseURL: "ftp://example.com"}, nil)
	require.Error(t, err)

	_, err = NewRESTClient(&config.Config{BaseURL: "http://example.com", APIStyle: "graphql"}, nil)
	require.Error(t, err)

	c, err := NewRESTClient(&config.Config{BaseURL: "http://example.com/"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com", c.baseURL)
	assert.Equal(t, config.APIStylePostgREST, c.style)
}

/*************
 * headers and ping
 *************/

func TestPing_PostgRESTSendsKeyHeaders(t *testing.T) {
	rec := &recorder{}
	r := mux.NewRouter()
	r.HandleFunc("/rest/v1/", func(w http.ResponseWriter, req *http.Request) {
		rec.add(req, "")
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := newTestClient(t, srv.URL, config.APIStylePostgREST)
	require.NoError(t, c.Ping(context.Background()))

	got := rec.last(t)
	assert.Equal(t, "anon-key", got.Header.Get("apikey"))
	assert.Equal(t, "Bearer anon-key", got.Header.Get("Authorization"))
	assert.NotEmpty(t, got.Header.Get("X-Request-Id"))
}

func TestPing_PlainUsesHealthAndSessionToken(t *testing.T) {
	rec := &recorder{}
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		rec.add(req, "")
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := newTestClient(t, srv.URL, config.APIStylePlain)
	c.SetCredentials(&fakeCredentials{token: "user-jwt"})
	require.NoError(t, c.Ping(context.Background()))

	got := rec.last(t)
	assert.Equal(t, "/health", got.Path)
	assert.Equal(t, "Bearer user-jwt", got.Header.Get("Authorization"))
	assert.Equal(t, "anon-key", got.Header.Get("apikey"))
}

func TestPing_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url, config.APIStylePlain)
	err := c.Ping(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestSend_CanceledContextPassesThrough(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c := newTestClient(t, srv.URL, config.APIStylePlain)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := c.Ping(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

/*************
 * status mapping
 *************/

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
		msg    string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"JWT expired"}`, ErrUnauthorized, "JWT expired"},
		{"forbidden", http.StatusForbidden, `{"msg":"nope"}`, ErrUnauthorized, "nope"},
		{"not found", http.StatusNotFound, ``, ErrNotFound, ""},
		{"bad gateway", http.StatusBadGateway, `upstream down`, ErrUnavailable, "upstream down"},
		{"unavailable", http.StatusServiceUnavailable, ``, ErrUnavailable, ""},
		{"conflict", http.StatusConflict, `{"error":"dup","error_description":"duplicate key"}`, nil, "duplicate key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL, config.APIStylePlain)
			_, err := c.do(context.Background(), request{method: http.MethodGet, path: "/users"})
			require.Error(t, err)

			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.Code)
			assert.Equal(t, tt.msg, se.Message)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			} else {
				assert.Nil(t, se.Unwrap())
			}
		})
	}
}

func TestStatusError_FallsBackToStatusText(t *testing.T) {
	err := &StatusError{Code: http.StatusTeapot}
	assert.Equal(t, "http 418: I'm a teapot", err.Error())
}

/*************
 * token refresh
 *************/

func TestDo_RefreshesOnceAndReplays(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.add(r, "")
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	creds := &fakeCredentials{token: "stale", next: "fresh"}
	c := newTestClient(t, srv.URL, config.APIStylePlain)
	c.SetCredentials(creds)

	data, err := c.do(context.Background(), request{method: http.MethodGet, path: "/users"})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
	assert.Equal(t, 1, creds.refreshes)
	assert.Equal(t, 2, rec.count())
}

func TestDo_RefreshFailureReturnsOriginalError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	creds := &fakeCredentials{token: "stale", err: errors.New("refresh token revoked")}
	c := newTestClient(t, srv.URL, config.APIStylePlain)
	c.SetCredentials(creds)

	_, err := c.do(context.Background(), request{method: http.MethodGet, path: "/users"})
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, creds.refreshes)
}

func TestDo_NoRefreshWithoutSession(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.add(r, "")
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	creds := &fakeCredentials{}
	c := newTestClient(t, srv.URL, config.APIStylePlain)
	c.SetCredentials(creds)

	_, err := c.do(context.Background(), request{method: http.MethodGet, path: "/users"})
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 0, creds.refreshes)
	assert.Equal(t, 1, rec.count())
}

/*************
 * auth endpoints
 *************/

func newAuthServer(t *testing.T, rec *recorder) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc("/auth/v1/token", func(w http.ResponseWriter, req *http.Request) {
		body := readBody(t, req)
		rec.add(req, body)
		switch req.URL.Query().Get("grant_type") {
		case "password":
			if body != `{"email":"a@b.c","password":"secret"}` {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
				return
			}
			_, _ = w.Write([]byte(`{"access_token":"A1","token_type":"bearer","expires_in":3600,"refresh_token":"R1","user":{"id":"u1","email":"a@b.c"}}`))
		case "refresh_token":
			_, _ = w.Write([]byte(`{"access_token":"A2","refresh_token":"R2","user":{"id":"u1","email":"a@b.c"}}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}).Methods(http.MethodPost)
	r.HandleFunc("/auth/v1/signup", func(w http.ResponseWriter, req *http.Request) {
		rec.add(req, readBody(t, req))
		_, _ = w.Write([]byte(`{"id":"u2","email":"new@b.c"}`))
	}).Methods(http.MethodPost)
	r.HandleFunc("/auth/v1/logout", func(w http.ResponseWriter, req *http.Request) {
		rec.add(req, "")
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodPost)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestSignIn(t *testing.T) {
	rec := &recorder{}
	srv := newAuthServer(t, rec)
	c := newTestClient(t, srv.URL, config.APIStylePostgREST)

	tok, err := c.SignIn(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "A1", tok.AccessToken)
	assert.Equal(t, "R1", tok.RefreshToken)
	assert.Equal(t, "u1", tok.User.ID)

	got := rec.last(t)
	assert.Equal(t, "grant_type=password", got.Query)
	assert.Equal(t, "Bearer anon-key", got.Header.Get("Authorization"))
}

func TestSignIn_BadCredentials(t *testing.T) {
	srv := newAuthServer(t, &recorder{})
	c := newTestClient(t, srv.URL, config.APIStylePostgREST)

	_, err := c.SignIn(context.Background(), "a@b.c", "wrong")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Equal(t, "Invalid login credentials", se.Message)
}

func TestRefresh(t *testing.T) {
	rec := &recorder{}
	srv := newAuthServer(t, rec)
	c := newTestClient(t, srv.URL, config.APIStylePostgREST)

	tok, err := c.Refresh(context.Background(), "R1")
	require.NoError(t, err)
	assert.Equal(t, "A2", tok.AccessToken)
	assert.JSONEq(t, `{"refresh_token":"R1"}`, rec.last(t).Body)
}

func TestSignUp_WithoutAutoConfirm(t *testing.T) {
	srv := newAuthServer(t, &recorder{})
	c := newTestClient(t, srv.URL, config.APIStylePostgREST)

	tok, err := c.SignUp(context.Background(), "new@b.c", "secret")
	require.NoError(t, err)
	assert.Empty(t, tok.AccessToken)
	assert.Equal(t, "new@b.c", tok.User.Email)
}

func TestSignOut_UsesGivenToken(t *testing.T) {
	rec := &recorder{}
	srv := newAuthServer(t, rec)
	c := newTestClient(t, srv.URL, config.APIStylePostgREST)

	require.NoError(t, c.SignOut(context.Background(), "A1"))
	assert.Equal(t, "Bearer A1", rec.last(t).Header.Get("Authorization"))
}

func TestAuthorizeURL(t *testing.T) {
	c := newTestClient(t, "https://project.example.co", config.APIStylePostgREST)

	u, err := c.AuthorizeURL(" Google ", "http://localhost:3000/auth/callback")
	require.NoError(t, err)
	assert.Equal(t, "https://project.example.co/auth/v1/authorize?provider=google&redirect_to=http%3A%2F%2Flocalhost%3A3000%2Fauth%2Fcallback", u)

	_, err = c.AuthorizeURL("myspace", "")
	require.ErrorIs(t, err, ErrUnsupportedProvider)
}
