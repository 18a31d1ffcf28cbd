package cli

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/admindash/internal/client/client"
	"github.com/dmitrijs2005/admindash/internal/client/config"
	"github.com/dmitrijs2005/admindash/internal/client/models"
	"github.com/dmitrijs2005/admindash/internal/client/repositories"
	"github.com/dmitrijs2005/admindash/internal/client/services"
	"github.com/dmitrijs2005/admindash/internal/client/session"
	"github.com/dmitrijs2005/admindash/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/************* fakes *************/

// memRemote is an in-memory client.Records. Failures are injected per
// operation.
type memRemote[T models.Record] struct {
	mu      sync.Mutex
	rows    []T
	nextID  int
	withID  func(T, models.ID) T
	listErr error
	addErr  error
	delErr  error
	updErr  error
}

func (m *memRemote[T]) List(ctx context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]T(nil), m.rows...), nil
}

func (m *memRemote[T]) Get(ctx context.Context, id models.ID) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.RecordID() == id {
			return r, nil
		}
	}
	var zero T
	return zero, client.ErrNotFound
}

func (m *memRemote[T]) Create(ctx context.Context, draft T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addErr != nil {
		var zero T
		return zero, m.addErr
	}
	m.nextID++
	rec := m.withID(draft, models.ID(fmt.Sprint(m.nextID)))
	m.rows = append(m.rows, rec)
	return rec, nil
}

func (m *memRemote[T]) Update(ctx context.Context, id models.ID, rec T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updErr != nil {
		var zero T
		return zero, m.updErr
	}
	for i, r := range m.rows {
		if r.RecordID() == id {
			m.rows[i] = rec
			return rec, nil
		}
	}
	var zero T
	return zero, client.ErrNotFound
}

func (m *memRemote[T]) Delete(ctx context.Context, id models.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.delErr != nil {
		return m.delErr
	}
	for i, r := range m.rows {
		if r.RecordID() == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return client.ErrNotFound
}

type testRemotes struct {
	users       *memRemote[models.User]
	restaurants *memRemote[models.Restaurant]
	todos       *memRemote[models.Todo]
}

func newTestRemotes() *testRemotes {
	return &testRemotes{
		users: &memRemote[models.User]{
			rows: []models.User{
				{ID: "1", Name: "Leanne Graham", Email: "leanne@example.com", Company: models.Company{Name: "Romaguera"}},
				{ID: "2", Name: "Ervin Howell", Email: "ervin@example.com", Company: models.Company{Name: "Deckow"}},
			},
			nextID: 2,
			withID: func(u models.User, id models.ID) models.User { u.ID = id; return u },
		},
		restaurants: &memRemote[models.Restaurant]{
			rows: []models.Restaurant{
				{ID: "1", Name: "Luigi's", Cuisine: "Italian", Rating: 4.5, Address: "1 Main St"},
				{ID: "2", Name: "Sakura", Cuisine: "Japanese", Rating: 4.8, Address: "2 Elm St"},
				{ID: "3", Name: "Taco Loco", Cuisine: "Mexican", Rating: 3.9, Address: "3 Oak St"},
			},
			nextID: 3,
			withID: func(r models.Restaurant, id models.ID) models.Restaurant { r.ID = id; return r },
		},
		todos: &memRemote[models.Todo]{
			rows: []models.Todo{
				{ID: "1", Title: "call back", Completed: true, UserID: "1"},
				{ID: "2", Title: "ship it", UserID: "2"},
			},
			nextID: 2,
			withID: func(td models.Todo, id models.ID) models.Todo { td.ID = id; return td },
		},
	}
}

type fakePinger struct {
	err    atomic.Value
	pings  atomic.Int32
	closed atomic.Bool
}

func (f *fakePinger) Ping(ctx context.Context) error {
	f.pings.Add(1)
	if err, ok := f.err.Load().(error); ok {
		return err
	}
	return nil
}

func (f *fakePinger) Close() error {
	f.closed.Store(true)
	return nil
}

// fakeSessions is a session.Service with canned answers.
type fakeSessions struct {
	session.Service

	email    string
	password string

	sess       *session.Session
	loginErr   error
	regErr     error
	logoutErr  error
	restoreErr error
	loggedOut  bool
}

func (f *fakeSessions) Login(ctx context.Context, email string, password []byte) (*session.Session, error) {
	f.email, f.password = email, string(password)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.sess, nil
}

func (f *fakeSessions) Register(ctx context.Context, email string, password []byte) (*session.Session, error) {
	f.email, f.password = email, string(password)
	if f.regErr != nil {
		return nil, f.regErr
	}
	return f.sess, nil
}

func (f *fakeSessions) Logout(ctx context.Context) error {
	f.loggedOut = true
	return f.logoutErr
}

func (f *fakeSessions) Restore(ctx context.Context) (*session.Session, error) {
	if f.restoreErr != nil {
		return nil, f.restoreErr
	}
	return f.sess, nil
}

func (f *fakeSessions) AuthorizeURL(provider string) (string, error) {
	if provider != "github" {
		return "", client.ErrUnsupportedProvider
	}
	return "http://backend/auth/v1/authorize?provider=github", nil
}

/************* fixture *************/

type testApp struct {
	*App
	out      *bytes.Buffer
	remotes  *testRemotes
	sessions *fakeSessions
	pinger   *fakePinger
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()

	repos, err := repositories.InitDatabase(ctx, filepath.Join(t.TempDir(), "admindash.db"))
	require.NoError(t, err)

	out := &bytes.Buffer{}
	api := &fakePinger{}
	sessions := &fakeSessions{sess: &session.Session{
		User:        session.User{ID: "u-1", Email: "admin@example.com"},
		AccessToken: "token",
	}}

	a := &App{
		config:   &config.Config{OnlineCheckInterval: 5 * time.Millisecond},
		logger:   logging.Discard(),
		api:      api,
		repos:    repos,
		sessions: sessions,
		settings: services.NewSettingsService(repos.Metadata),
		toast:    NewNotifier(out, false),
		reader:   rdr(""),
		out:      out,
	}
	remotes := newTestRemotes()
	a.mount(remotes.users, remotes.restaurants, remotes.todos)
	t.Cleanup(a.shutdown)

	return &testApp{App: a, out: out, remotes: remotes, sessions: sessions, pinger: api}
}

/************* tests *************/

func TestIsLoggedIn(t *testing.T) {
	a := &App{}
	assert.False(t, a.isLoggedIn())

	a.setSession(&session.Session{AccessToken: "t"})
	assert.True(t, a.isLoggedIn())

	a.setSession(nil)
	assert.False(t, a.isLoggedIn())
}

func TestSetMode_ChangesAndLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	app := &App{logger: logging.NewTextLogger(&buf, "info")}

	app.setMode(ModeOnline)
	assert.Equal(t, ModeOnline, app.currentMode())
	assert.Contains(t, buf.String(), "switched to online mode")

	buf.Reset()
	app.setMode(ModeOnline)
	assert.Empty(t, buf.String(), "no log when the mode does not change")

	app.setMode(ModeOffline)
	assert.Equal(t, ModeOffline, app.currentMode())
	assert.Contains(t, buf.String(), "switched to offline mode")
}

func TestGetStatus(t *testing.T) {
	a := &App{logger: logging.Discard()}
	assert.Equal(t, "", a.getStatus())

	a.setMode(ModeOffline)
	assert.Equal(t, "(offline)", a.getStatus())

	a.setSession(&session.Session{User: session.User{Email: "a@b.c"}, AccessToken: "t"})
	a.setMode(ModeOnline)
	assert.Equal(t, "(a@b.c online)", a.getStatus())
}

func TestCheckOnline(t *testing.T) {
	ta := newTestApp(t)

	ta.checkOnline(context.Background())
	assert.Equal(t, ModeOnline, ta.currentMode())

	ta.pinger.err.Store(client.ErrUnavailable)
	ta.checkOnline(context.Background())
	assert.Equal(t, ModeOffline, ta.currentMode())
}

func TestStartOnlineStatusWatcher_StopsOnCancel(t *testing.T) {
	ta := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		ta.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return ta.pinger.pings.Load() >= 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, ModeOnline, ta.currentMode())

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestLookup(t *testing.T) {
	ta := newTestApp(t)

	c, err := ta.lookup(models.CollectionRestaurants)
	require.NoError(t, err)
	assert.Equal(t, "Restaurants", c.Title())

	_, err = ta.lookup("orders")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown collection "orders"`)
}

func TestRun_RestoresSessionAndExits(t *testing.T) {
	capturePrints(t)
	ta := newTestApp(t)
	ta.reader = rdr("exit\n")

	ta.Run(context.Background())

	assert.True(t, ta.isLoggedIn())
	assert.Contains(t, ta.out.String(), "Welcome back, admin@example.com")
	assert.True(t, ta.pinger.closed.Load())
}

func TestRun_ExpiredSessionAsksForLogin(t *testing.T) {
	capturePrints(t)
	ta := newTestApp(t)
	ta.sessions.restoreErr = fmt.Errorf("refresh session: %w", client.ErrUnauthorized)
	ta.reader = rdr("")

	ta.Run(context.Background())

	assert.False(t, ta.isLoggedIn())
	assert.Contains(t, ta.out.String(), "Previous session expired")
}

func TestRun_NoSavedSessionIsQuiet(t *testing.T) {
	capturePrints(t)
	ta := newTestApp(t)
	ta.sessions.restoreErr = session.ErrNoSavedSession

	ta.Run(context.Background())

	assert.False(t, ta.isLoggedIn())
	out := ta.out.String()
	assert.Contains(t, out, "Welcome to admindash")
	assert.False(t, strings.Contains(out, "expired"))
}
