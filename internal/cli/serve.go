package cli

import (
	"fmt"

	"cvwizard/internal/config"
	"cvwizard/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start an HTTP server exposing every wizard operation as a JSON endpoint.

Available endpoints:
- POST /extract, /import: build a CV from base64 uploads
- POST /enhance, /quick-enhance: tailor or polish a CV
- POST /cover-letter: write a cover letter
- POST /review: review materials, threading the returned session
- POST /modify: apply a change request
- POST /parse-job: structure a job posting
- GET /health, /stats, /metrics

Callers may send their own Gemini key in the X-Goog-Api-Key header.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveOverrides struct {
	host         string
	port         string
	watchPrompts bool
}

func init() {
	serveCmd.Flags().StringVarP(&serveOverrides.port, "port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().StringVar(&serveOverrides.host, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().BoolVar(&serveOverrides.watchPrompts, "watch-prompts", false, "Reload system prompt files when they change")
}

// applyServeOverrides copies explicitly set flags over the loaded config.
func applyServeOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveOverrides.host
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serveOverrides.port
	}
	if cmd.Flags().Changed("watch-prompts") {
		cfg.Server.WatchPrompts = serveOverrides.watchPrompts
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	applyServeOverrides(cmd, cfg)
	if cfg.Server.Port == "" {
		return fmt.Errorf("server port must be set")
	}

	srv := server.NewServer(cfg, server.ServerConfigFrom(cfg, Version), logger)
	return srv.Run(cmd.Context())
}
