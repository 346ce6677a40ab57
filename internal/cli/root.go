package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/assay/internal/logging"
	"github.com/ppiankov/assay/internal/model"
)

var (
	cfgFile  string
	verbose  bool
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "assay",
	Short: "Assay - scientific validity report cards for health and science articles",
	Long: `Assay grades how well a health or science article represents the research
behind it.

It submits an article URL or a screenshot to an analysis collaborator (a
canned mock, a remote assay server, or an LLM), validates the report it
returns, and presents it as a report card: an overall validity grade, a
per-component breakdown, research provenance, claim ratings, scientific
context and further reading.

Assay does not give medical advice.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.assay/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// envKeys are the config keys that can be set through ASSAY_* variables,
// e.g. ASSAY_ANALYZER_KIND=llm
var envKeys = []string{
	"analyzer.kind",
	"analyzer.endpoint",
	"analyzer.timeout",
	"llm.provider",
	"llm.model",
	"llm.base_url",
	"cache.enabled",
	"cache.dir",
	"server.addr",
	"logging.level",
	"logging.file",
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".assay"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match ASSAY_*
	viper.SetEnvPrefix("ASSAY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		_ = viper.BindEnv(key)
	}
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig overlays the config file, environment and bound flags on the
// built-in defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	return cfg, nil
}

// setupLogging sends logs to the configured file, or stderr
func setupLogging(cfg *model.Config) error {
	if cfg.Logging.File != "" {
		return logging.InitFile(cfg.Logging.Level, cfg.Logging.File)
	}
	return logging.Init(cfg.Logging.Level, os.Stderr)
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
