// Package config holds the settings of a decode run and loads them from
// defaults, an optional YAML file and NEPTUNE_ environment variables.
package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"neptune/internal/jump"
)

// Sentinel errors; callers match them with errors.Is.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

// Config contains the settings of one run.
type Config struct {
	// LogLevel is a logrus level name: trace, debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile, when set, receives a copy of the log, rotated by size.
	LogFile       string `koanf:"log_file"`
	LogMaxSizeMB  int    `koanf:"log_max_size_mb"`
	LogMaxBackups int    `koanf:"log_max_backups"`
	LogCompress   bool   `koanf:"log_compress"`

	// Dataset capacities.
	MaxJumpRecords   int `koanf:"max_jump_records"`
	MaxProfiles      int `koanf:"max_profiles"`
	MaxProfilePoints int `koanf:"max_profile_points"`

	// OverflowPolicy is "drop" or "error".
	OverflowPolicy string `koanf:"overflow_policy"`
}

// New returns a Config with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		LogMaxSizeMB:     10,
		LogMaxBackups:    3,
		LogCompress:      true,
		MaxJumpRecords:   jump.DefaultMaxJumpRecords,
		MaxProfiles:      jump.DefaultMaxProfiles,
		MaxProfilePoints: jump.DefaultMaxProfilePoints,
		OverflowPolicy:   jump.OverflowDrop.String(),
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalidConfig, err)
	}
	if c.LogFile != "" && c.LogMaxSizeMB <= 0 {
		return fmt.Errorf("%w: log_max_size_mb must be positive", ErrInvalidConfig)
	}
	if c.LogMaxBackups < 0 {
		return fmt.Errorf("%w: log_max_backups must not be negative", ErrInvalidConfig)
	}
	for _, f := range []struct {
		name  string
		value int
	}{
		{"max_jump_records", c.MaxJumpRecords},
		{"max_profiles", c.MaxProfiles},
		{"max_profile_points", c.MaxProfilePoints},
	} {
		if f.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, f.name, f.value)
		}
	}
	if _, err := jump.ParseOverflowPolicy(c.OverflowPolicy); err != nil {
		return fmt.Errorf("%w: overflow_policy: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Level returns the parsed log level, or info when LogLevel is invalid.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// Policy returns the parsed overflow policy, or drop when it is invalid.
func (c *Config) Policy() jump.OverflowPolicy {
	p, _ := jump.ParseOverflowPolicy(c.OverflowPolicy)
	return p
}
