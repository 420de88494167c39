// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Service settings are layered: defaults, optional YAML file, SHEETCOUNT_* env.
// - Sheet settings are read from the environment on every call and never cached.
// - External errors are wrapped with this package's sentinels.
package config

import (
	"strings"
	"time"

	"github.com/okian/sheetcount/internal/domain/rowcount"
)

// DefaultUpstreamBaseURL is the root of the public Sheets API.
const DefaultUpstreamBaseURL = "https://sheets.googleapis.com/"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// UpstreamBaseURL is the root of the Sheets API. Tests point it at a local server.
	UpstreamBaseURL string `koanf:"upstream_base_url"`

	// UpstreamTimeout bounds one outbound call. Zero keeps the transport default.
	UpstreamTimeout time.Duration `koanf:"upstream_timeout"`

	// EnvFile names an optional dotenv file loaded into the process environment at startup.
	EnvFile string `koanf:"env_file"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		UpstreamBaseURL: DefaultUpstreamBaseURL,
		UpstreamTimeout: 0,
	}
}

// Sheet holds the per-request settings that select the spreadsheet range.
type Sheet struct {
	APIKey  string
	SheetID string
	Range   string
}

// Validate reports rowcount.ErrConfigurationMissing when the API key or the
// sheet identifier is empty.
func (s Sheet) Validate() error {
	if strings.TrimSpace(s.APIKey) == "" || strings.TrimSpace(s.SheetID) == "" {
		return rowcount.ErrConfigurationMissing
	}
	return nil
}
