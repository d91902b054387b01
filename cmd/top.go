package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mahek1394/research-engineering-intern-assignment/internal/analysis"
	"github.com/Mahek1394/research-engineering-intern-assignment/internal/dataset"
)

var (
	topLoad  loadFlags
	topField string
	topN     int
)

var topCmd = &cobra.Command{
	Use:   "top <file>",
	Short: "Rank the most frequent values of a field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, ok := dataset.ParseField(topField)
		if !ok {
			return fmt.Errorf("unknown --field: %s", topField)
		}
		s, err := openSession(cmd, args[0], &topLoad)
		if err != nil {
			return err
		}
		v, err := s.View()
		if err != nil {
			return err
		}
		var counts []analysis.CategoryCount
		if f == dataset.FieldHashtags {
			counts = analysis.TopHashtags(v, topN)
		} else if counts, err = analysis.TopNCategorical(v, f, topN); err != nil {
			return err
		}
		return printCounts(cmd, fmt.Sprintf("Top %s", dataset.DisplayName(f)), counts)
	},
}

func printCounts(cmd *cobra.Command, title string, counts []analysis.CategoryCount) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s:\n", title)
	if len(counts) == 0 {
		fmt.Fprintln(out, "  (no data)")
		return nil
	}
	for i, kv := range counts {
		fmt.Fprintf(out, "%3d. %s (%d)\n", i+1, kv.Value, kv.Count)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(topCmd)
	topLoad.register(topCmd)
	topCmd.Flags().StringVar(&topField, "field", "subreddit", "categorical field to rank")
	topCmd.Flags().IntVarP(&topN, "limit", "n", 5, "number of values")
}
