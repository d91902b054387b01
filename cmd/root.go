package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	cfgpkg "github.com/Mahek1394/research-engineering-intern-assignment/internal/config"
	"github.com/Mahek1394/research-engineering-intern-assignment/internal/logging"
	"github.com/Mahek1394/research-engineering-intern-assignment/internal/pipeline"
	"github.com/Mahek1394/research-engineering-intern-assignment/internal/sentiment"
)

var (
	// Global flags
	cfgFile  string
	debug    bool
	logLevel string

	// Loaded configuration
	cfg *cfgpkg.Global

	logger   *slog.Logger
	analyzer *sentiment.Analyzer
	registry *prometheus.Registry
)

var rootCmd = &cobra.Command{
	Use:   "socialdash",
	Short: "socialdash: engagement and sentiment summaries for social media exports",
	Long: `socialdash loads a CSV, TSV or XLSX export of social media posts, validates and
normalizes it, scores sentiment, and summarizes engagement over a date range.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.socialdash/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	if debug {
		level = "debug"
	}
	logger = logging.New(os.Stderr, logging.Options{Level: level, Format: cfg.LogFormat})

	analyzer = sentiment.NewDefault()
	if cfg.LexiconFile != "" {
		lex, err := sentiment.LoadLexiconFile(cfg.LexiconFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "⚠ Warning: ignoring lexicon_file: %v\n", err)
		} else {
			analyzer = sentiment.New(sentiment.DefaultLexicon().Merge(lex))
			logger.Debug("lexicon override loaded", "path", cfg.LexiconFile, "words", len(lex), "lexicon_size", analyzer.Size())
		}
	}
	registry = prometheus.NewRegistry()
}

func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		loadConfig()
	}
	return cfg
}

// newPipeline builds a pipeline for one command run. Metrics land in the
// process registry so --metrics can print them.
func newPipeline(opt pipeline.LoadOptions) *pipeline.Pipeline {
	currentConfig()
	return pipeline.New(analyzer, pipeline.Options{Load: opt, Logger: logger, Registerer: registry})
}
