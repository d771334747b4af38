package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docustruct/internal/api"
	"github.com/jackzampolin/docustruct/internal/config"
	"github.com/jackzampolin/docustruct/internal/home"
	"github.com/jackzampolin/docustruct/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "docustruct",
	Short: "Heuristic PDF outline analyzer",
	Long: `DocuStruct reads a PDF and infers its structure from font sizes alone.

It reports:
  - a document title (largest text on the first page)
  - H1/H2 sections relative to the document's median font size
  - page count, distinct font count and an estimated reading time

Run it one-shot with "docustruct analyze" or as an HTTP service with
"docustruct serve".`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.docustruct/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "docustruct home directory (default: ~/.docustruct)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info", "log level: debug, info, warn or error",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the text logger used by long-running commands.
func newLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}

// loadConfig resolves the home directory and loads configuration.
// An explicit --config wins; otherwise the home config is used when present.
func loadConfig(logger *slog.Logger) (*home.Dir, *config.Manager, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, nil, err
	}

	path := cfgFile
	if path == "" && h.ConfigExists() {
		path = h.ConfigPath()
	}
	mgr, err := config.NewManager(path, logger)
	if err != nil {
		return nil, nil, err
	}
	return h, mgr, nil
}
