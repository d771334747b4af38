package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docustruct/internal/api"
	"github.com/jackzampolin/docustruct/internal/server/endpoints"
)

var serverURL string

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

var (
	waitTimeout  time.Duration
	waitInterval time.Duration
)

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Block until the server reports ready",
	Long: `Poll GET /ready until the server answers 200 or the timeout expires.

Useful in scripts that start "docustruct serve" in the background.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if waitInterval <= 0 {
			waitInterval = time.Second
		}
		attempts := uint(waitTimeout / waitInterval)
		if attempts == 0 {
			attempts = 1
		}
		client := api.NewClient(getServerURL())
		if err := client.WaitReady(cmd.Context(), "/ready", attempts, waitInterval); err != nil {
			return fmt.Errorf("server at %s not ready after %s: %w", client.BaseURL(), waitTimeout, err)
		}
		fmt.Printf("Server at %s is ready\n", client.BaseURL())
		return nil
	},
}

func init() {
	registry := api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{}) {
		registry.Register(ep)
	}
	apiCmd := registry.BuildCommands(getServerURL)

	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	waitCmd.Flags().DurationVar(&waitTimeout, "timeout", 30*time.Second, "How long to wait")
	waitCmd.Flags().DurationVar(&waitInterval, "interval", time.Second, "Delay between attempts")
	apiCmd.AddCommand(waitCmd)

	rootCmd.AddCommand(apiCmd)
}
