package config

import (
	"os"
	"time"
)

// API styles understood by the REST transport.
const (
	APIStylePostgREST = "postgrest"
	APIStylePlain     = "plain"
)

// Config holds runtime settings for the dashboard client.
//
// Fields:
//   - BaseURL: root URL of the hosted backend (REST and auth endpoints hang off it).
//   - APIKey: project key sent as the "apikey" header and as the bearer token
//     while nobody is signed in.
//   - APIStyle: "postgrest" (/rest/v1/<collection>?id=eq.<id>) or "plain" (/<collection>/<id>).
//   - DatabasePath: SQLite file with local preferences and the stored session.
//   - RequestTimeout: per-request HTTP timeout.
//   - OnlineCheckInterval: how often the client probes backend reachability.
//   - OAuthRedirectURL: redirect_to value for OAuth authorize links.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	BaseURL             string
	APIKey              string
	APIStyle            string
	DatabasePath        string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	OAuthRedirectURL    string
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults for a local backend.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:54321"
	c.APIKey = ""
	c.APIStyle = APIStylePostgREST
	c.DatabasePath = "admindash.db"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 5 * time.Second
	c.OAuthRedirectURL = "http://localhost:3000/auth/callback"
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, os.Args[1:])
	parseEnv(cfg, os.Environ())
	parseFlags(cfg, os.Args[1:])
	return cfg
}
