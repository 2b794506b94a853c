//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-retailwh.
// Configuration is loaded from a config file, then RETAILWH_* environment
// variables, then CLI flags; later sources take precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/pgEdge/pgedge-retailwh/internal/datagen"
	"github.com/pgEdge/pgedge-retailwh/internal/export"
	"github.com/pgEdge/pgedge-retailwh/internal/extract"
	"github.com/pgEdge/pgedge-retailwh/internal/validate"
	"github.com/pgEdge/pgedge-retailwh/internal/warehouse"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RETAILWH"

// Config holds all configuration for pgedge-retailwh.
type Config struct {
	// Connection selects the warehouse: postgres://, sqlite://path or
	// memory://.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// LogFormat is "console" or "json".
	LogFormat string `mapstructure:"log_format"`

	// Input locates the extracts.
	Input InputConfig `mapstructure:"input"`

	// Validation decides which data quality findings block the load.
	Validation validate.Policy `mapstructure:"validation"`

	// Load holds configuration for the warehouse load.
	Load LoadConfig `mapstructure:"load"`

	// Export holds configuration for the feature export.
	Export export.Config `mapstructure:"export"`

	// Metrics holds configuration for the metrics textfile.
	Metrics MetricsConfig `mapstructure:"metrics"`

	// Generate holds configuration for the generate subcommand.
	Generate GenerateConfig `mapstructure:"generate"`
}

// InputConfig locates the four extracts.
type InputConfig struct {
	// Dir is the directory holding the extracts.
	Dir string `mapstructure:"dir"`

	// Files names the extract files inside Dir.
	Files extract.Files `mapstructure:"files"`
}

// LoadConfig holds configuration for the warehouse load.
type LoadConfig struct {
	warehouse.LoadConfig `mapstructure:",squash"`

	// DropExisting drops the warehouse tables before loading.
	DropExisting bool `mapstructure:"drop_existing"`
}

// MetricsConfig holds configuration for the metrics textfile.
type MetricsConfig struct {
	// Textfile is where load counters are written after a run, in the
	// Prometheus text format. Empty disables it.
	Textfile string `mapstructure:"textfile"`
}

// GenerateConfig holds configuration for synthetic extract generation.
type GenerateConfig struct {
	datagen.Config `mapstructure:",squash"`

	// OutputDir receives the generated extracts.
	OutputDir string `mapstructure:"output_dir"`
}

// env lists the settings that may be overridden from the environment,
// e.g. RETAILWH_CONNECTION or RETAILWH_BATCH_SIZE.
type env struct {
	Connection      string `envconfig:"CONNECTION"`
	LogLevel        string `envconfig:"LOG_LEVEL"`
	LogFormat       string `envconfig:"LOG_FORMAT"`
	InputDir        string `envconfig:"INPUT_DIR"`
	BatchSize       int    `envconfig:"BATCH_SIZE"`
	MetricsTextfile string `envconfig:"METRICS_TEXTFILE"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "console",
		Input: InputConfig{
			Dir:   ".",
			Files: extract.DefaultFiles(),
		},
		Load: LoadConfig{
			LoadConfig: warehouse.DefaultLoadConfig(),
		},
		Generate: GenerateConfig{
			Config:    datagen.DefaultConfig(),
			OutputDir: ".",
		},
	}
}

// Load reads configuration from config files and the environment.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-retailwh.yaml
// 3. ~/.config/pgedge-retailwh/pgedge-retailwh.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Set config name and type
	v.SetConfigName("pgedge-retailwh")
	v.SetConfigType("yaml")

	// Add config paths
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-retailwh"))
	}

	// Use specific config file if provided
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Start with defaults
	cfg := DefaultConfig()

	// Unmarshal config file values
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overlays non-empty RETAILWH_* variables.
func (c *Config) applyEnv() error {
	var e env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return fmt.Errorf("error reading environment: %w", err)
	}

	if e.Connection != "" {
		c.Connection = e.Connection
	}
	if e.LogLevel != "" {
		c.LogLevel = e.LogLevel
	}
	if e.LogFormat != "" {
		c.LogFormat = e.LogFormat
	}
	if e.InputDir != "" {
		c.Input.Dir = e.InputDir
	}
	if e.BatchSize != 0 {
		c.Load.BatchSize = e.BatchSize
	}
	if e.MetricsTextfile != "" {
		c.Metrics.Textfile = e.MetricsTextfile
	}
	return nil
}

// Validate checks settings shared by every command.
func (c *Config) Validate() error {
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("log_format must be 'console' or 'json'")
	}
	return nil
}

// ValidateInit checks configuration required for init command.
func (c *Config) ValidateInit() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	return nil
}

// ValidateCheck checks configuration required for validate command.
func (c *Config) ValidateCheck() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Input.Dir == "" {
		return fmt.Errorf("input directory is required")
	}
	f := c.Input.Files
	if f.Products == "" || f.Stores == "" || f.Customers == "" || f.Transactions == "" {
		return fmt.Errorf("all four input file names are required")
	}
	return nil
}

// ValidateRun checks configuration required for run command.
func (c *Config) ValidateRun() error {
	if err := c.ValidateCheck(); err != nil {
		return err
	}
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	if c.Load.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1")
	}
	if c.Load.ProgressInterval < 0 {
		return fmt.Errorf("progress_interval must be non-negative")
	}
	return nil
}

// ValidateGenerate checks configuration required for generate command.
func (c *Config) ValidateGenerate() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Generate.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	return c.Generate.Config.Validate()
}
