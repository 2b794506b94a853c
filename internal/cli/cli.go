//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for pgedge-retailwh.
package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-retailwh/internal/config"
	"github.com/pgEdge/pgedge-retailwh/internal/datagen/profiles"
	"github.com/pgEdge/pgedge-retailwh/internal/logging"
	"github.com/pgEdge/pgedge-retailwh/internal/warehouse"
	"github.com/pgEdge/pgedge-retailwh/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	connection string
	inputDir   string
	logLevel   string
	logFormat  string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "pgedge-retailwh",
		Short: "Retail ETL pipeline and star-schema warehouse loader",
		Long: `pgedge-retailwh reads retail transaction extracts (products, stores,
customers and transactions), cleans and validates them, derives customer,
product and store features plus RFM and cohort segments, synthesizes a
calendar dimension, and loads everything into a star-schema warehouse.

Loads are batched and idempotent: rows whose primary key already exists
are skipped, so a run can be repeated safely.

Warehouses are selected by connection string:
  postgres://user@host:5432/db   PostgreSQL
  sqlite:///path/to/warehouse.db SQLite file
  memory://                      in-process (dry run)`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./pgedge-retailwh.yaml)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"warehouse connection string (postgres://, sqlite://, memory://)")
	rootCmd.PersistentFlags().StringVar(&inputDir, "input", "",
		"directory holding the CSV extracts")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"log format (console, json)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(backendsCmd)
	rootCmd.AddCommand(profilesCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.Connection = connection
	}
	if inputDir != "" {
		cfg.Input.Dir = inputDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogFormat == "console",
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List available warehouse backends",
	Long: `List the connection string schemes that select a warehouse backend.
Every backend creates the same five tables and honors insert-if-absent.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Available warehouse backends:")
		cmd.Println()
		for _, scheme := range warehouse.Schemes() {
			cmd.Printf("  %s://\n", scheme)
		}
		cmd.Println()
		cmd.Println("Tables (load order):")
		names := make([]string, len(warehouse.Tables))
		for i, t := range warehouse.Tables {
			names[i] = t.Name
		}
		cmd.Printf("  %s\n", strings.Join(names, ", "))
	},
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List available sales calendar profiles",
	Long: `List the sales calendar profiles the generate command can use to
weight transaction dates.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Available sales calendar profiles:")
		cmd.Println()
		for _, name := range profiles.List() {
			p, err := profiles.Get(name)
			if err != nil {
				continue
			}
			cmd.Printf("  %-15s - %s (peak weight %.1f)\n", p.Name(), p.Description(), p.Peak())
		}
	},
}
