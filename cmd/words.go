package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mahek1394/research-engineering-intern-assignment/internal/analysis"
	"github.com/Mahek1394/research-engineering-intern-assignment/internal/dataset"
)

var (
	wordsLoad  loadFlags
	wordsField string
	wordsN     int
	wordsStop  bool
)

var wordsCmd = &cobra.Command{
	Use:   "words <file>",
	Short: "Count the most frequent words of a text field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, ok := dataset.ParseField(wordsField)
		if !ok {
			return fmt.Errorf("unknown --field: %s", wordsField)
		}
		s, err := openSession(cmd, args[0], &wordsLoad)
		if err != nil {
			return err
		}
		v, err := s.View()
		if err != nil {
			return err
		}
		var stop map[string]struct{}
		if wordsStop {
			stop = analysis.Stopwords()
		}
		counts, err := analysis.WordFrequencyExcluding(v, f, wordsN, stop)
		if err != nil {
			return err
		}
		return printCounts(cmd, fmt.Sprintf("Words in %s", f), counts)
	},
}

func init() {
	rootCmd.AddCommand(wordsCmd)
	wordsLoad.register(wordsCmd)
	wordsCmd.Flags().StringVar(&wordsField, "field", "selftext", "text field to tokenize")
	wordsCmd.Flags().IntVarP(&wordsN, "limit", "n", 20, "number of words")
	wordsCmd.Flags().BoolVar(&wordsStop, "stopwords", false, "drop common English words")
}
