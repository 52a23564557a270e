package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/glosalabs/glosaflow/version"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "glosaflow",
	Short: "SOAT glosa extraction pipeline for Colombian insurance claim objections",
	Long: `Glosaflow turns insurer glosa PDFs (claim objection settlements) into
structured data.

The pipeline includes:
  - Multi-patient segmentation by anchor phrases
  - Pattern-based field and procedure-table extraction
  - Optional AI-assisted extraction (pattern_only, ai_only, hybrid)
  - Financial reconciliation and a per-section quality score
  - Concurrent batch processing with transient-failure retry`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.glosaflow/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info", "log level: debug, info, warn, error",
	)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initConfigCmd)
	rootCmd.AddCommand(segmentCmd)
	rootCmd.AddCommand(processCmd)
}

func newLogger() *slog.Logger {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
