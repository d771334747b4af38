package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/docustruct/internal/server"
)

var (
	serveHost       string
	servePort       string
	swaggerSpecPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the DocuStruct server",
	Long: `Start the DocuStruct HTTP server.

Analyses run on a bounded worker pool sized by workers.count and
workers.queue_size. Edits to the config file are applied to the
analysis heuristics without a restart.

The server provides:
  - GET  /health       - Basic server health check
  - GET  /ready        - Readiness check (engine and worker pool)
  - GET  /status       - Worker pool counters and analysis settings
  - POST /analyze      - Outline an uploaded PDF (multipart field "file")
  - GET  /swagger.json - OpenAPI document

Examples:
  docustruct serve                    # Start on default port 8080
  docustruct serve --port 3000        # Start on custom port
  docustruct serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		h, mgr, err := loadConfig(logger)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}
		if mgr.ConfigFileUsed() != "" {
			mgr.WatchConfig()
		}

		cfg := server.Config{
			ConfigManager:   mgr,
			Home:            h,
			SwaggerSpecPath: swaggerSpecPath,
			Logger:          logger,
		}
		// Flags override the config file only when given.
		if cmd.Flags().Changed("host") {
			cfg.Host = serveHost
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}

		srv, err := server.New(cfg)
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")
	serveCmd.Flags().StringVar(&swaggerSpecPath, "swagger-spec", "", "Serve this swagger.json instead of the built-in one")

	rootCmd.AddCommand(serveCmd)
}
