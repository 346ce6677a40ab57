package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ppiankov/assay/internal/logging"
	"github.com/ppiankov/assay/internal/model"
	"github.com/ppiankov/assay/internal/pipeline"
	"github.com/ppiankov/assay/internal/ui"
)

// viewCmd represents the view command
var viewCmd = &cobra.Command{
	Use:   "view [url|screenshot]",
	Short: "Open the interactive report viewer",
	Long: `View opens a terminal viewer. Enter an article URL or a screenshot path at
the prompt, or pass one as an argument.

Keys: c claims, x context, s context sources, r resources, m methodology,
j/k scroll, n new submission, q quit.

Logs go to ~/.assay/logs so they do not draw over the screen.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().StringVar(&analyzerKind, "analyzer", "", "analysis collaborator (mock, http, llm); overrides config")
	viewCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the response cache")
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyAnalyzeFlags(cfg)

	logPath := cfg.Logging.File
	if logPath == "" {
		logPath = logging.DefaultLogPath()
	}
	if err := logging.InitFile(cfg.Logging.Level, logPath); err != nil {
		return err
	}
	defer logging.Close()

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	var initial *model.ContentRef
	if len(args) == 1 {
		ref := ui.ParseRef(args[0])
		initial = &ref
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := ui.NewApp(ctx, p.NewSession(), initial)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}
