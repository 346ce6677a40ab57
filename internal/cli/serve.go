package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/assay/internal/analyze"
	"github.com/ppiankov/assay/internal/logging"
	"github.com/ppiankov/assay/internal/model"
	"github.com/ppiankov/assay/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis API over HTTP",
	Long: `Serve exposes the configured analyzer (mock or llm) as the collaborator
API used by "--analyzer http":

  POST /api/analyze             {"url": "..."}
  POST /api/analyze-screenshot  multipart form, field "screenshot" (max 5MB)
  GET  /health

Errors are returned as {"message": "...", "type": "..."}.

Example:
  assay serve --addr :8080
  ASSAY_ANALYZER_KIND=llm assay serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().StringVar(&analyzerKind, "analyzer", "", "analysis collaborator (mock, llm); overrides config")
	serveCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the response cache")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyAnalyzeFlags(cfg)
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if cfg.Analyzer.Kind == model.AnalyzerHTTP {
		return fmt.Errorf("serve cannot use the http analyzer (it would call itself); use mock or llm")
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}
	defer logging.Close()

	a, err := analyze.New(cfg)
	if err != nil {
		return fmt.Errorf("create analyzer: %w", err)
	}

	ctx, cancel := signalContext(context.Background())
	defer cancel()

	fmt.Fprintf(os.Stderr, "✓ Serving %s analyzer on %s\n", cfg.Analyzer.Kind, cfg.Server.Addr)
	return server.New(a, cfg.Server).Run(ctx)
}
