package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/admindash/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-u string   backend base URL
//	-k string   project API key
//	-s string   API style
//	-d string   SQLite database path
//	-t int      request timeout in seconds
//	-i int      online check interval in seconds
//	-r string   OAuth redirect URL
//	-l string   log level
//
// Only these flags are considered (see flagx.FilterArgs), so -c/-config and
// anything else on the command line is ignored here. Parse errors panic.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-u", "-k", "-s", "-d", "-t", "-i", "-r", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BaseURL, "u", cfg.BaseURL, "backend base URL")
	fs.StringVar(&cfg.APIKey, "k", cfg.APIKey, "project API key")
	fs.StringVar(&cfg.APIStyle, "s", cfg.APIStyle, "API style (postgrest|plain)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.OAuthRedirectURL, "r", cfg.OAuthRedirectURL, "OAuth redirect URL")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
