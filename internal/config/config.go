// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/osgameclones/osgc/internal/logger"
	"github.com/osgameclones/osgc/internal/storage"
)

// Environment variables read by LoadConfig
const (
	EnvDataDir        = "OSGC_DATA_DIR"
	EnvSchemaDir      = "OSGC_SCHEMA_DIR"
	EnvOutputDir      = "OSGC_OUTPUT_DIR"
	EnvFreshnessDays  = "OSGC_FRESHNESS_DAYS"
	EnvPinnedOriginal = "OSGC_PINNED_ORIGINAL"
	EnvSQLite         = "OSGC_SQLITE"
	EnvColor          = "OSGC_COLOR"
	EnvLogLevel       = "OSGC_LOG_LEVEL"
)

// DefaultEnvFile is read from the working directory when present
const DefaultEnvFile = ".env"

// Config holds global configuration settings
type Config struct {
	// DataDir holds the originals/ and games/ category directories
	DataDir string
	// SchemaDir overrides the embedded schemas when set
	SchemaDir string
	// OutputDir receives the generated artifacts
	OutputDir string
	// FreshnessDays is the window for the new and updated flags
	FreshnessDays int
	// PinnedOriginal is always ordered first
	PinnedOriginal string
	// SQLite enables the catalog.db export
	SQLite bool
	// Color enables styled terminal output
	Color bool
	// LogLevel is the minimum level of progress messages
	LogLevel logger.LogLevel
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir:        ".",
		OutputDir:      "_build",
		FreshnessDays:  30,
		PinnedOriginal: "SCUMM",
		SQLite:         true,
		Color:          os.Getenv("NO_COLOR") == "",
		LogLevel:       logger.INFO,
	}
}

// LoadConfig loads configuration from .env and the environment and validates it
func LoadConfig() (*Config, error) {
	return Load(DefaultEnvFile)
}

// Load reads envFile (a missing file is ignored), applies OSGC_* variables
// over the defaults and validates the result. Variables already set in the
// environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := DefaultConfig()
	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := env(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := env(EnvSchemaDir); v != "" {
		c.SchemaDir = v
	}
	if v := env(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := env(EnvPinnedOriginal); v != "" {
		c.PinnedOriginal = v
	}
	if v := env(EnvFreshnessDays); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", EnvFreshnessDays, v)
		}
		c.FreshnessDays = days
	}
	if v := env(EnvSQLite); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not a boolean", EnvSQLite, v)
		}
		c.SQLite = enabled
	}
	if v := env(EnvColor); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not a boolean", EnvColor, v)
		}
		c.Color = enabled
	}
	if v := env(EnvLogLevel); v != "" {
		level, err := logger.ParseLevel(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		c.LogLevel = level
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}
	if c.FreshnessDays <= 0 {
		return fmt.Errorf("freshness window must be positive, got %d", c.FreshnessDays)
	}

	// Convert to absolute paths
	for _, p := range []*string{&c.DataDir, &c.OutputDir, &c.SchemaDir} {
		if *p == "" {
			continue
		}
		absPath, err := filepath.Abs(*p)
		if err != nil {
			return fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		*p = absPath
	}

	if filepath.Clean(c.OutputDir) == filepath.Clean(c.DataDir) {
		return fmt.Errorf("output directory cannot be the data directory")
	}

	return nil
}

// OriginalsDir returns the directory of original game records
func (c *Config) OriginalsDir() string {
	return filepath.Join(c.DataDir, storage.OriginalsDir)
}

// GamesDir returns the directory of clone records
func (c *Config) GamesDir() string {
	return filepath.Join(c.DataDir, storage.GamesDir)
}

// CatalogPath returns the SQLite catalog location
func (c *Config) CatalogPath() string {
	return filepath.Join(c.OutputDir, "catalog.db")
}

// EnsureOutputDir empties the output directory, creating it when missing.
// The data directory is never touched.
func (c *Config) EnsureOutputDir() error {
	rel, err := filepath.Rel(c.OutputDir, c.DataDir)
	if err == nil && !strings.HasPrefix(rel, "..") {
		return fmt.Errorf("output directory %s contains the data directory", c.OutputDir)
	}
	return storage.CleanDir(c.OutputDir)
}
