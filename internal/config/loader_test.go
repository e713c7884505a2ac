package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/predictor/internal/config"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		_ = os.Setenv("PREDICTOR_JWT_SECRET", "s3cret")
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.Storage, convey.ShouldEqual, "memory")
				convey.So(cfg.JWTSecret, convey.ShouldEqual, "s3cret")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PREDICTOR_ADDR", ":8080")
			_ = os.Setenv("PREDICTOR_STORAGE", "redis")
			_ = os.Setenv("PREDICTOR_REDIS_ADDR", "cache:6379")
			_ = os.Setenv("PREDICTOR_REDIS_DB", "3")
			_ = os.Setenv("PREDICTOR_LOCK_ON_RESULT", "true")
			_ = os.Setenv("PREDICTOR_TOKEN_TTL", "90m")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Storage, convey.ShouldEqual, "redis")
				convey.So(cfg.RedisAddr, convey.ShouldEqual, "cache:6379")
				convey.So(cfg.RedisDB, convey.ShouldEqual, 3)
				convey.So(cfg.LockOnResult, convey.ShouldBeTrue)
				convey.So(cfg.TokenTTL, convey.ShouldEqual, 90*time.Minute)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
log_format: json
storage: file
data_dir: /var/lib/predictor
fixture:
  home_team: Reds
  away_team: Blues
  kickoff: 2026-06-11T19:00:00Z
  venue: Riverside
players:
  - id: 9
    name: Striker
    number: 9
    team: home
  - id: 10
    name: Playmaker
    number: 10
    team: away
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("PREDICTOR_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.Storage, convey.ShouldEqual, "file")
				convey.So(cfg.DataDir, convey.ShouldEqual, "/var/lib/predictor")
				convey.So(cfg.Fixture.HomeTeam, convey.ShouldEqual, "Reds")
				convey.So(cfg.Fixture.Kickoff.Equal(time.Date(2026, 6, 11, 19, 0, 0, 0, time.UTC)), convey.ShouldBeTrue)
				convey.So(cfg.Players, convey.ShouldHaveLength, 2)
				convey.So(cfg.Players[1].Name, convey.ShouldEqual, "Playmaker")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile("addr: \":9090\"\nlog_level: debug\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("PREDICTOR_CONFIG", tmpFile)
			_ = os.Setenv("PREDICTOR_ADDR", ":8080")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")     // Overridden by env
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug") // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("PREDICTOR_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("PREDICTOR_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("PREDICTOR_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config without a jwt secret", func() {
			_ = os.Unsetenv("PREDICTOR_JWT_SECRET")

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("PREDICTOR_REDIS_DB", "not_a_number")

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When selecting postgres without a dsn", func() {
			_ = os.Setenv("PREDICTOR_STORAGE", "postgres")

			_, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "postgres_dsn")
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"PREDICTOR_CONFIG",
		"PREDICTOR_ADDR",
		"PREDICTOR_STORAGE",
		"PREDICTOR_REDIS_ADDR",
		"PREDICTOR_REDIS_DB",
		"PREDICTOR_LOCK_ON_RESULT",
		"PREDICTOR_TOKEN_TTL",
		"PREDICTOR_JWT_SECRET",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "predictor-config-*.yaml")
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
