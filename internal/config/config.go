package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Veraticus/humanizer/internal/common"
	"github.com/spf13/viper"
)

// Config holds the resolved application settings.
type Config struct {
	Logging   LoggingConfig
	Database  DatabaseConfig
	Detection DetectionConfig
}

// LoggingConfig controls the global slog handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// DatabaseConfig locates the rule and history store.
type DatabaseConfig struct {
	Path string
}

// DetectionConfig controls how text is checked.
type DetectionConfig struct {
	// Team selects whose overrides apply on top of the global rules.
	Team string
	// RulesFile, when set, replaces the database as the rule source.
	RulesFile string
	// FailScore makes detect exit non-zero when any score reaches it. Zero disables.
	FailScore int
	Workers   int
}

// DefaultDatabasePath returns $HOME/.local/share/humanize/humanize.db.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "humanize.db"
	}
	return filepath.Join(home, ".local", "share", "humanize", "humanize.db")
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("database.path", DefaultDatabasePath())
	v.SetDefault("detection.team", "")
	v.SetDefault("detection.rules_file", "")
	v.SetDefault("detection.fail_score", 0)
	v.SetDefault("detection.workers", runtime.NumCPU())
}

// Load reads settings from v. It follows this precedence:
// 1. Flags bound to v
// 2. HUMANIZE_ environment variables
// 3. The config file
// 4. Default values
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		Database: DatabaseConfig{
			Path: ExpandPath(v.GetString("database.path")),
		},
		Detection: DetectionConfig{
			Team:      v.GetString("detection.team"),
			RulesFile: ExpandPath(v.GetString("detection.rules_file")),
			FailScore: v.GetInt("detection.fail_score"),
			Workers:   v.GetInt("detection.workers"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logging.format must be console or json, got %q", common.ErrInvalidConfig, c.Logging.Format)
	}
	if c.Database.Path == "" && c.Detection.RulesFile == "" {
		return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	if c.Detection.FailScore < 0 || c.Detection.FailScore > 100 {
		return fmt.Errorf("%w: detection.fail_score must be between 0 and 100, got %d", common.ErrInvalidConfig, c.Detection.FailScore)
	}
	if c.Detection.Workers < 1 {
		return fmt.Errorf("%w: detection.workers must be at least 1, got %d", common.ErrInvalidConfig, c.Detection.Workers)
	}
	return nil
}
