package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/insightlab/dataprep/pkg/api"
	"github.com/insightlab/dataprep/pkg/config"
	"github.com/insightlab/dataprep/pkg/session"
	"github.com/insightlab/dataprep/pkg/workbench"
)

var (
	// Global flags (override environment configuration if set)
	flagLogLevel string
	flagPageSize int

	// Loaded configuration, shared by all subcommands
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dataprep",
	Short: "dataprep: preview, clean and persist tabular datasets",
	Long: `dataprep is a CLI client for a dataset-preparation backend. It uploads
tabular files, analyzes them, simulates cleaning operations locally on a
preview, and persists the queued operations to the backend.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn or error (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().IntVar(&flagPageSize, "page-size", 0, "preview rows per page (overrides DATAPREP_PAGE_SIZE)")
}

func loadConfig() {
	c, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	f := rootCmd.PersistentFlags()
	if f.Changed("log-level") && flagLogLevel != "" {
		c.LogLevel = flagLogLevel
	}
	if f.Changed("page-size") && flagPageSize > 0 {
		c.PageSize = flagPageSize
	}
	cfg = c

	logger, err = buildLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
}

// buildLogger constructs the zap logger described by the configuration
func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	if cfg.LogFormat == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}

// newIdentity opens the persistent per-user identity
func newIdentity() (*session.FileIdentity, error) {
	return session.NewFileIdentity(cfg.StateDir)
}

// newWorkbench wires identity, backend client and workbench session
func newWorkbench() (*workbench.Session, error) {
	identity, err := newIdentity()
	if err != nil {
		return nil, fmt.Errorf("open session identity: %w", err)
	}

	client, err := api.NewClient(cfg, identity, logger)
	if err != nil {
		return nil, err
	}

	return workbench.NewSession(client, cfg.PageSize, logger)
}
