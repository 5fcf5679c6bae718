package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"neptune/internal/config"
)

var configEnvVars = []string{
	"NEPTUNE_CONFIG",
	"NEPTUNE_LOG_LEVEL",
	"NEPTUNE_LOG_FILE",
	"NEPTUNE_MAX_JUMP_RECORDS",
	"NEPTUNE_MAX_PROFILES",
	"NEPTUNE_MAX_PROFILE_POINTS",
	"NEPTUNE_OVERFLOW_POLICY",
}

func clearConfigEnvVars() {
	for _, name := range configEnvVars {
		_ = os.Unsetenv(name)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "neptune.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading with defaults only", func() {
			cfg, err := config.Load(ctx, "")

			convey.Convey("Then the device capacities are used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
				convey.So(cfg.MaxJumpRecords, convey.ShouldEqual, 200)
				convey.So(cfg.MaxProfiles, convey.ShouldEqual, 10)
				convey.So(cfg.MaxProfilePoints, convey.ShouldEqual, 2000)
				convey.So(cfg.OverflowPolicy, convey.ShouldEqual, "drop")
				convey.So(cfg.LogFile, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading with environment variables", func() {
			_ = os.Setenv("NEPTUNE_LOG_LEVEL", "debug")
			_ = os.Setenv("NEPTUNE_MAX_PROFILES", "25")
			_ = os.Setenv("NEPTUNE_OVERFLOW_POLICY", "error")

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then they override the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.MaxProfiles, convey.ShouldEqual, 25)
				convey.So(cfg.MaxJumpRecords, convey.ShouldEqual, 200)
				convey.So(cfg.OverflowPolicy, convey.ShouldEqual, "error")
			})
		})

		convey.Convey("When loading a YAML file", func() {
			path := writeConfigFile(t, `
log_level: warn
log_file: /tmp/neptune.log
log_max_backups: 5
max_jump_records: 500
max_profile_points: 4000
`)

			convey.Convey("Given by path", func() {
				cfg, err := config.Load(ctx, path)

				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")
				convey.So(cfg.LogFile, convey.ShouldEqual, "/tmp/neptune.log")
				convey.So(cfg.LogMaxBackups, convey.ShouldEqual, 5)
				convey.So(cfg.MaxJumpRecords, convey.ShouldEqual, 500)
				convey.So(cfg.MaxProfilePoints, convey.ShouldEqual, 4000)
				convey.So(cfg.MaxProfiles, convey.ShouldEqual, 10)
			})

			convey.Convey("Given by NEPTUNE_CONFIG with an env override", func() {
				_ = os.Setenv("NEPTUNE_CONFIG", path)
				_ = os.Setenv("NEPTUNE_MAX_JUMP_RECORDS", "300")

				cfg, err := config.Load(ctx, "")

				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")
				convey.So(cfg.MaxJumpRecords, convey.ShouldEqual, 300)
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := config.Load(ctx, filepath.Join(t.TempDir(), "missing.yaml"))

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a setting is invalid", func() {
			_ = os.Setenv("NEPTUNE_MAX_PROFILES", "0")

			_, err := config.Load(ctx, "")

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "max_profiles")
			})
		})
	})
}
