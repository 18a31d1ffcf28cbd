package config

import (
	"time"

	env "github.com/Netflix/go-env"
)

// EnvConfig mirrors the environment variables the client understands. All
// fields are strings so an unset variable can be told apart from a zero value.
type EnvConfig struct {
	BaseURL             string `env:"ADMINDASH_BASE_URL"`
	APIKey              string `env:"ADMINDASH_API_KEY"`
	APIStyle            string `env:"ADMINDASH_API_STYLE"`
	DatabasePath        string `env:"ADMINDASH_DB_PATH"`
	RequestTimeout      string `env:"ADMINDASH_REQUEST_TIMEOUT"`
	OnlineCheckInterval string `env:"ADMINDASH_ONLINE_CHECK_INTERVAL"`
	OAuthRedirectURL    string `env:"ADMINDASH_OAUTH_REDIRECT_URL"`
	LogLevel            string `env:"ADMINDASH_LOG_LEVEL"`
}

// parseEnv overlays cfg with non-empty ADMINDASH_* variables from environ
// (os.Environ format). Durations use Go syntax ("15s"); malformed values panic.
func parseEnv(cfg *Config, environ []string) {
	es, err := env.EnvironToEnvSet(environ)
	if err != nil {
		panic(err)
	}

	var ec EnvConfig
	if err := env.Unmarshal(es, &ec); err != nil {
		panic(err)
	}

	overlay(&cfg.BaseURL, ec.BaseURL)
	overlay(&cfg.APIKey, ec.APIKey)
	overlay(&cfg.APIStyle, ec.APIStyle)
	overlay(&cfg.DatabasePath, ec.DatabasePath)
	overlay(&cfg.OAuthRedirectURL, ec.OAuthRedirectURL)
	overlay(&cfg.LogLevel, ec.LogLevel)
	overlayDuration(&cfg.RequestTimeout, ec.RequestTimeout)
	overlayDuration(&cfg.OnlineCheckInterval, ec.OnlineCheckInterval)
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func overlayDuration(dst *time.Duration, v string) {
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
