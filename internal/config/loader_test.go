package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/sheetcount/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.UpstreamBaseURL, convey.ShouldEqual, "https://sheets.googleapis.com/")
				convey.So(cfg.UpstreamTimeout, convey.ShouldEqual, time.Duration(0))
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SHEETCOUNT_ADDR", ":8080")
			_ = os.Setenv("SHEETCOUNT_LOG_LEVEL", "debug")
			_ = os.Setenv("SHEETCOUNT_UPSTREAM_TIMEOUT", "5s")
			_ = os.Setenv("SHEETCOUNT_UPSTREAM_BASE_URL", "http://127.0.0.1:9999/")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.UpstreamTimeout, convey.ShouldEqual, 5*time.Second)
				convey.So(cfg.UpstreamBaseURL, convey.ShouldEqual, "http://127.0.0.1:9999/")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
log_format: json
upstream_timeout: 2s
`
			tmpFile := createTempFile("sheetcount-config-*.yaml", yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SHEETCOUNT_CONFIG", tmpFile)
			_ = os.Setenv("SHEETCOUNT_ADDR", ":8081") // overrides the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8081")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.UpstreamTimeout, convey.ShouldEqual, 2*time.Second)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info") // From defaults
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempFile("sheetcount-config-*.yaml", `invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SHEETCOUNT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("SHEETCOUNT_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("SHEETCOUNT_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a relative upstream URL", func() {
			_ = os.Setenv("SHEETCOUNT_UPSTREAM_BASE_URL", "not-a-url")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown log format", func() {
			_ = os.Setenv("SHEETCOUNT_LOG_FORMAT", "xml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an invalid timeout", func() {
			_ = os.Setenv("SHEETCOUNT_UPSTREAM_TIMEOUT", "soon")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestLoadSheet(t *testing.T) {
	convey.Convey("Given sheet settings in the environment", t, func() {
		ctx := context.Background()

		convey.Convey("When all three values are set", func() {
			_ = os.Setenv("SHEETS_API_KEY", "secret")
			_ = os.Setenv("SHEET_ID", "abc123")
			_ = os.Setenv("SHEET_RANGE", "Data!A1:C")
			defer clearSheetEnvVars()

			s, err := config.LoadSheet(ctx)

			convey.Convey("Then they should be read verbatim", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(s, convey.ShouldResemble, config.Sheet{APIKey: "secret", SheetID: "abc123", Range: "Data!A1:C"})
				convey.So(s.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the range is unset", func() {
			_ = os.Setenv("SHEETS_API_KEY", "secret")
			_ = os.Setenv("SHEET_ID", "abc123")
			defer clearSheetEnvVars()

			s, err := config.LoadSheet(ctx)

			convey.Convey("Then it should default to Sheet1", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(s.Range, convey.ShouldEqual, "Sheet1")
			})
		})

		convey.Convey("When nothing is set", func() {
			clearSheetEnvVars()

			s, err := config.LoadSheet(ctx)

			convey.Convey("Then loading succeeds but validation fails", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(s.APIKey, convey.ShouldBeEmpty)
				convey.So(s.SheetID, convey.ShouldBeEmpty)
				convey.So(s.Validate(), convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the environment changes between calls", func() {
			_ = os.Setenv("SHEETS_API_KEY", "secret")
			_ = os.Setenv("SHEET_ID", "first")
			defer clearSheetEnvVars()

			first, _ := config.LoadSheet(ctx)
			_ = os.Setenv("SHEET_ID", "second")
			second, _ := config.LoadSheet(ctx)

			convey.Convey("Then each call should see the current value", func() {
				convey.So(first.SheetID, convey.ShouldEqual, "first")
				convey.So(second.SheetID, convey.ShouldEqual, "second")
			})
		})
	})
}

func TestLoadEnvFile(t *testing.T) {
	convey.Convey("Given a dotenv file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, ".env")
		_ = os.WriteFile(path, []byte("SHEET_ID=from-file\nSHEETS_API_KEY=file-key\n"), 0o600)
		defer clearSheetEnvVars()

		convey.Convey("When the variables are not already set", func() {
			clearSheetEnvVars()
			err := config.LoadEnvFile(path)

			convey.Convey("Then they should be exported", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(os.Getenv("SHEET_ID"), convey.ShouldEqual, "from-file")
			})
		})

		convey.Convey("When a variable is already set", func() {
			_ = os.Setenv("SHEET_ID", "from-env")
			err := config.LoadEnvFile(path)

			convey.Convey("Then the existing value should win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(os.Getenv("SHEET_ID"), convey.ShouldEqual, "from-env")
				convey.So(os.Getenv("SHEETS_API_KEY"), convey.ShouldEqual, "file-key")
			})
		})

		convey.Convey("When no path is given", func() {
			convey.So(config.LoadEnvFile(""), convey.ShouldBeNil)
		})

		convey.Convey("When the file does not exist", func() {
			err := config.LoadEnvFile(filepath.Join(dir, "missing.env"))
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"SHEETCOUNT_CONFIG",
		"SHEETCOUNT_ADDR",
		"SHEETCOUNT_LOG_LEVEL",
		"SHEETCOUNT_LOG_FORMAT",
		"SHEETCOUNT_UPSTREAM_BASE_URL",
		"SHEETCOUNT_UPSTREAM_TIMEOUT",
		"SHEETCOUNT_ENV_FILE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func clearSheetEnvVars() {
	for _, envVar := range []string{"SHEETS_API_KEY", "SHEET_ID", "SHEET_RANGE"} {
		_ = os.Unsetenv(envVar)
	}
}

func createTempFile(pattern, content string) string {
	tmpFile, err := os.CreateTemp("", pattern)
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
