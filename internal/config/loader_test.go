package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/salarypredict/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
				convey.So(cfg.EncodingMode, convey.ShouldEqual, "frozen")
				convey.So(cfg.LegacyStatus, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SALARY_ADDR", ":8080")
			_ = os.Setenv("SALARY_MODEL_PATH", "/srv/model.json")
			_ = os.Setenv("SALARY_REFERENCE_PATH", "/srv/reference.csv")
			_ = os.Setenv("SALARY_ENCODING_MODE", "refit")
			_ = os.Setenv("SALARY_LEGACY_STATUS", "true")
			_ = os.Setenv("SALARY_MAX_BODY_BYTES", "4096")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.ModelPath, convey.ShouldEqual, "/srv/model.json")
				convey.So(cfg.ReferencePath, convey.ShouldEqual, "/srv/reference.csv")
				convey.So(cfg.EncodingMode, convey.ShouldEqual, "refit")
				convey.So(cfg.LegacyStatus, convey.ShouldBeTrue)
				convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, int64(4096))
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(t, `
addr: ":9090"
log_level: debug
log_format: json
encoding_mode: refit
model_path: models/linear.json
`)
			_ = os.Setenv("SALARY_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.EncodingMode, convey.ShouldEqual, "refit")
				convey.So(cfg.ModelPath, convey.ShouldEqual, "models/linear.json")
				convey.So(cfg.ReferencePath, convey.ShouldEqual, "data/Clean_Salary_Data.csv")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(t, `
addr: ":9090"
encoding_mode: refit
`)
			_ = os.Setenv("SALARY_CONFIG", tmpFile)
			_ = os.Setenv("SALARY_ADDR", ":8080")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")      // Overridden by env
				convey.So(cfg.EncodingMode, convey.ShouldEqual, "refit") // From file
			})
		})

		convey.Convey("When a .env file is present", func() {
			dir := t.TempDir()
			envFile := filepath.Join(dir, "service.env")
			convey.So(os.WriteFile(envFile, []byte("SALARY_ADDR=:7070\nSALARY_LOG_LEVEL=warn\n"), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("SALARY_ENV_FILE", envFile)
			_ = os.Setenv("SALARY_LOG_LEVEL", "error")

			cfg, err := config.Load(ctx)

			convey.Convey("Then its entries should apply without overriding real env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "error")
			})
		})

		convey.Convey("When the named .env file does not exist", func() {
			_ = os.Setenv("SALARY_ENV_FILE", "/non/existent/service.env")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("SALARY_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("SALARY_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("SALARY_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown encoding mode", func() {
			_ = os.Setenv("SALARY_ENCODING_MODE", "ordinal")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("SALARY_MAX_BODY_BYTES", "lots")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"SALARY_CONFIG",
		"SALARY_ENV_FILE",
		"SALARY_ADDR",
		"SALARY_LOG_LEVEL",
		"SALARY_LOG_FORMAT",
		"SALARY_MODEL_PATH",
		"SALARY_REFERENCE_PATH",
		"SALARY_ENCODING_MODE",
		"SALARY_LEGACY_STATUS",
		"SALARY_MAX_BODY_BYTES",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "salary-config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
