package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/admindash/internal/flagx"
	"github.com/dmitrijs2005/admindash/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Missing keys
// leave the corresponding Config field untouched.
type JsonConfig struct {
	BaseURL             *string         `json:"base_url"`
	APIKey              *string         `json:"api_key"`
	APIStyle            *string         `json:"api_style"`
	DatabasePath        *string         `json:"db_path"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	OAuthRedirectURL    *string         `json:"oauth_redirect_url"`
	LogLevel            *string         `json:"log_level"`
}

// parseJson overlays cfg with the JSON file named by -c/-config in args.
// Without such a flag it does nothing. Read or decode errors panic.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.BaseURL, jc.BaseURL)
	setString(&cfg.APIKey, jc.APIKey)
	setString(&cfg.APIStyle, jc.APIStyle)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.OAuthRedirectURL, jc.OAuthRedirectURL)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
