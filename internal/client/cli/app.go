package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/admindash/internal/client/client"
	"github.com/dmitrijs2005/admindash/internal/client/config"
	"github.com/dmitrijs2005/admindash/internal/client/models"
	"github.com/dmitrijs2005/admindash/internal/client/query"
	"github.com/dmitrijs2005/admindash/internal/client/repositories"
	"github.com/dmitrijs2005/admindash/internal/client/services"
	"github.com/dmitrijs2005/admindash/internal/client/session"
	"github.com/dmitrijs2005/admindash/internal/client/store"
	"github.com/dmitrijs2005/admindash/internal/logging"
	"golang.org/x/term"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

type App struct {
	config   *config.Config
	logger   logging.Logger
	api      client.Client
	repos    *repositories.Repositories
	sessions session.Service
	settings services.SettingsService
	overview services.OverviewService

	collections map[string]collection
	views       map[string]*query.View

	toast  *Notifier
	reader *bufio.Reader
	out    io.Writer

	mu      sync.Mutex
	mode    Mode
	session *session.Session

	// background deletes
	wg sync.WaitGroup
}

// NewApp opens the local database, builds the REST transport and wires the
// stores and services on top of it.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	repos, err := repositories.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	rc, err := client.NewRESTClient(c, logger)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	sessions := session.NewService(rc, repos.DB, c.OAuthRedirectURL, logger)
	rc.SetCredentials(sessions)

	a := &App{
		config:   c,
		logger:   logger,
		api:      rc,
		repos:    repos,
		sessions: sessions,
		settings: services.NewSettingsService(repos.Metadata),
		toast:    NewNotifier(os.Stdout, term.IsTerminal(int(os.Stdout.Fd()))),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}
	a.mount(
		client.NewCollection[models.User](rc, models.CollectionUsers),
		client.NewCollection[models.Restaurant](rc, models.CollectionRestaurants),
		client.NewCollection[models.Todo](rc, models.CollectionTodos),
	)
	return a, nil
}

// mount builds one store per collection over the given remotes, and the
// overview computed from them.
func (a *App) mount(users client.Records[models.User], restaurants client.Records[models.Restaurant], todos client.Records[models.Todo]) {
	us := store.New(models.CollectionUsers, users, a.logger)
	rs := store.New(models.CollectionRestaurants, restaurants, a.logger)
	ts := store.New(models.CollectionTodos, todos, a.logger)

	a.collections = map[string]collection{
		models.CollectionUsers:       &table[models.User]{title: "Users", st: us, columns: models.UserColumns},
		models.CollectionRestaurants: &table[models.Restaurant]{title: "Restaurants", st: rs, columns: models.RestaurantColumns},
		models.CollectionTodos:       &table[models.Todo]{title: "Todos", st: ts, columns: models.TodoColumns},
	}
	a.views = make(map[string]*query.View, len(a.collections))
	for name := range a.collections {
		a.views[name] = &query.View{}
	}
	a.overview = services.NewOverviewService(us, rs, ts)
}

// Run starts the interactive session and releases every resource once the
// user leaves or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.shutdown()
	a.Root(ctx)
}

func (a *App) shutdown() {
	a.wg.Wait()
	for _, c := range a.collections {
		c.Close()
	}
	if a.api != nil {
		_ = a.api.Close()
	}
	if a.repos != nil {
		if err := a.repos.Close(); err != nil {
			a.logger.Warn(context.Background(), "failed to close database", "error", err)
		}
	}
}

func (a *App) currentSession() *session.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

func (a *App) setSession(s *session.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = s
}

func (a *App) isLoggedIn() bool {
	return a.currentSession().IsAuthenticated()
}

func (a *App) currentMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(context.Background(), fmt.Sprintf("switched to %s mode", mode))
	}
}

// checkOnline pings the backend once and records the resulting mode.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.api.Ping(ctx)
	cancel()

	if err != nil {
		a.logger.Debug(ctx, "ping failed", "error", err)
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher probes the backend every interval until ctx is
// done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) lookup(name string) (collection, error) {
	c, ok := a.collections[name]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q (one of users, restaurants, todos)", name)
	}
	return c, nil
}
