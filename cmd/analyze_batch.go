package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Mahek1394/research-engineering-intern-assignment/internal/dataset"
	"github.com/Mahek1394/research-engineering-intern-assignment/internal/session"
	"github.com/Mahek1394/research-engineering-intern-assignment/internal/utils"
)

var (
	abLoad      loadFlags
	abReport    reportFlags
	abOutputDir string
	abFormat    string
	abJobs      int
	abQuiet     bool
	abMetrics   bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Summarize several exports, loading them concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		format, err := parseFormat(abFormat)
		if err != nil {
			return err
		}
		opt, err := abLoad.options(cmd)
		if err != nil {
			return err
		}
		p := newPipeline(opt)
		out := cmd.OutOrStdout()

		sessions := make([]*session.Session, len(files))
		warnings := make([]error, len(files))
		var g errgroup.Group
		jobs := abJobs
		if jobs <= 0 {
			jobs = runtime.GOMAXPROCS(0)
		}
		g.SetLimit(jobs)
		for i, path := range files {
			g.Go(func() error {
				s := session.New(p)
				if err := s.LoadFile(path); err != nil {
					if !errors.Is(err, dataset.ErrEmptyDataset) {
						return fmt.Errorf("%s: %w", path, err)
					}
					warnings[i] = err
				}
				sessions[i] = s
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		ext := ".summary.md"
		if format == "json" {
			ext = ".summary.json"
		}
		total := len(files)
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			if warnings[i] != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %v\n", warnings[i])
			}
			s := sessions[i]
			if err := abLoad.applyRange(s); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			rep, err := s.Report(abReport.options(cmd))
			if err != nil {
				return err
			}
			body, err := renderReport(rep, format)
			if err != nil {
				return err
			}
			if abOutputDir == "" {
				if !abQuiet {
					fmt.Fprintln(out, string(body))
				}
				continue
			}
			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			outFile := filepath.Join(abOutputDir, base+ext)
			if fileExists(outFile) {
				idx := 2
				for {
					cand := filepath.Join(abOutputDir, fmt.Sprintf("%s__%d%s", base, idx, ext))
					if !fileExists(cand) {
						if !abQuiet {
							fmt.Fprintf(out, "⚠ Detected existing summary, writing to %s to avoid overwrite.\n", filepath.Base(cand))
						}
						outFile = cand
						break
					}
					idx++
				}
			}
			if err := utils.SafeWriteFile(outFile, body); err != nil {
				return fmt.Errorf("write summary: %w", err)
			}
			if !abQuiet {
				fmt.Fprintf(out, "✓ Wrote analysis to %s\n", outFile)
			}
		}
		logger.Info("batch complete", "files", total, "cached_datasets", p.Len())
		if abMetrics {
			return writeMetrics(cmd.ErrOrStderr())
		}
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist, and drops
// duplicates. The result is sorted.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	abLoad.register(analyzeBatchCmd)
	abReport.register(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutputDir, "output-dir", "", "write one summary per file into this directory")
	analyzeBatchCmd.Flags().StringVar(&abFormat, "format", "md", "report format: md|json")
	analyzeBatchCmd.Flags().IntVarP(&abJobs, "jobs", "j", 0, "files loaded concurrently (0 = GOMAXPROCS)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
	analyzeBatchCmd.Flags().BoolVar(&abMetrics, "metrics", false, "print load metrics (Prometheus text format) to stderr")
}
