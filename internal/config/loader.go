package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/okian/sheetcount/internal/domain/rowcount"
)

// Environment variable names.
const (
	EnvConfigFile = "SHEETCOUNT_CONFIG"
	EnvPrefix     = "SHEETCOUNT_"

	EnvAPIKey  = "SHEETS_API_KEY"
	EnvSheetID = "SHEET_ID"
	EnvRange   = "SHEET_RANGE"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SHEETCOUNT_CONFIG is set
//  3. env (prefix SHEETCOUNT_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// SHEETCOUNT_UPSTREAM_TIMEOUT -> upstream_timeout (flat keys).
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	u, err := url.Parse(c.UpstreamBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: upstream_base_url must be an absolute URL", ErrInvalidConfig)
	}
	if c.UpstreamTimeout < 0 {
		return fmt.Errorf("%w: upstream_timeout must not be negative", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// LoadEnvFile populates the process environment from a dotenv file.
// Variables already present in the environment are left untouched.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	return nil
}

// LoadSheet reads SHEETS_API_KEY, SHEET_ID and SHEET_RANGE from the
// environment. An empty range falls back to rowcount.DefaultRange.
// It does not validate; callers use Sheet.Validate.
func LoadSheet(_ context.Context) (Sheet, error) {
	k := koanf.New(".")

	// The "SHEET" prefix covers SHEETS_API_KEY, SHEET_ID and SHEET_RANGE.
	envProvider := env.Provider("SHEET", ".", strings.ToLower)
	if err := k.Load(envProvider, nil); err != nil {
		return Sheet{}, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	s := Sheet{
		APIKey:  k.String(strings.ToLower(EnvAPIKey)),
		SheetID: k.String(strings.ToLower(EnvSheetID)),
		Range:   k.String(strings.ToLower(EnvRange)),
	}
	if s.Range == "" {
		s.Range = rowcount.DefaultRange
	}
	return s, nil
}
