// Package config loads runtime configuration for the dashboard client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables prefixed with ADMINDASH_.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-u string   backend base URL
//	-k string   project API key
//	-s string   API style: postgrest or plain
//	-d string   path of the local SQLite database
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-r string   OAuth redirect URL
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "base_url": "https://project.supabase.co",
//	  "api_key": "anon-key",
//	  "api_style": "postgrest",
//	  "request_timeout": "10s",
//	  "online_check_interval": "5s"
//	}
//
// # Environment
//
//	ADMINDASH_BASE_URL, ADMINDASH_API_KEY, ADMINDASH_API_STYLE, ADMINDASH_DB_PATH,
//	ADMINDASH_REQUEST_TIMEOUT, ADMINDASH_ONLINE_CHECK_INTERVAL,
//	ADMINDASH_OAUTH_REDIRECT_URL, ADMINDASH_LOG_LEVEL
package config
