package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mahek1394/research-engineering-intern-assignment/internal/analysis"
	"github.com/Mahek1394/research-engineering-intern-assignment/internal/utils"
)

var (
	anaLoad       loadFlags
	anaReport     reportFlags
	anaOutputPath string
	anaFormat     string
	anaMetrics    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Summarize engagement and sentiment of a posts export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := parseFormat(anaFormat)
		if err != nil {
			return err
		}
		s, err := openSession(cmd, args[0], &anaLoad)
		if err != nil {
			return err
		}
		rep, err := s.Report(anaReport.options(cmd))
		if err != nil {
			return err
		}
		out, err := renderReport(rep, format)
		if err != nil {
			return err
		}

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
		}
		if anaMetrics {
			return writeMetrics(cmd.ErrOrStderr())
		}
		return nil
	},
}

// reportFlags size the ranked report sections.
type reportFlags struct {
	top       int
	words     int
	hashtags  int
	samples   int
	stopwords bool
}

func (f *reportFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVar(&f.top, "top", 5, "number of top subreddits")
	fs.IntVar(&f.words, "words", 20, "number of popular terms")
	fs.IntVar(&f.hashtags, "hashtags", 10, "number of top hashtags")
	fs.IntVar(&f.samples, "samples", 3, "number of sample posts (0 disables)")
	fs.BoolVar(&f.stopwords, "stopwords", true, "drop common English words from popular terms")
}

// options merges config report sizes with any flags set on cmd.
func (f *reportFlags) options(cmd *cobra.Command) analysis.ReportOptions {
	c := currentConfig()
	opt := analysis.DefaultReportOptions()
	opt.TopN, opt.Words, opt.Hashtags, opt.Stopwords = c.TopN, c.WordCount, c.HashtagCount, c.Stopwords
	fs := cmd.Flags()
	if fs.Changed("top") {
		opt.TopN = f.top
	}
	if fs.Changed("words") {
		opt.Words = f.words
	}
	if fs.Changed("hashtags") {
		opt.Hashtags = f.hashtags
	}
	if fs.Changed("samples") {
		opt.Samples = f.samples
	}
	if fs.Changed("stopwords") {
		opt.Stopwords = f.stopwords
	}
	return opt
}

func renderReport(rep *analysis.Report, format string) ([]byte, error) {
	if format == "json" {
		return utils.PrettyJSON(rep)
	}
	return []byte(rep.Markdown()), nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaLoad.register(analyzeCmd)
	anaReport.register(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	analyzeCmd.Flags().StringVar(&anaFormat, "format", "md", "report format: md|json")
	analyzeCmd.Flags().BoolVar(&anaMetrics, "metrics", false, "print load metrics (Prometheus text format) to stderr")
}
