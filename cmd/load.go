package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/Mahek1394/research-engineering-intern-assignment/internal/dataset"
	"github.com/Mahek1394/research-engineering-intern-assignment/internal/pipeline"
	"github.com/Mahek1394/research-engineering-intern-assignment/internal/session"
)

// loadFlags are the dataset loading and range flags shared by the data commands.
type loadFlags struct {
	start            string
	end              string
	fixedWindow      bool
	recompute        bool
	requireSentiment bool
	sheet            string
}

func (f *loadFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.start, "start", "", "first date of the range, inclusive (YYYY-MM-DD)")
	fs.StringVar(&f.end, "end", "", "last date of the range, inclusive (YYYY-MM-DD)")
	fs.BoolVar(&f.fixedWindow, "fixed-window", false, "keep only rows within the configured window while loading")
	fs.BoolVar(&f.recompute, "recompute-sentiment", false, "score every row even when the file supplies sentiment")
	fs.BoolVar(&f.requireSentiment, "require-sentiment", false, "require sentiment_score and sentiment_label columns")
	fs.StringVar(&f.sheet, "sheet", "", "XLSX: sheet name to read (default first sheet)")
}

// options merges the config with any flags set on cmd.
func (f *loadFlags) options(cmd *cobra.Command) (pipeline.LoadOptions, error) {
	c := currentConfig()
	ws, we, err := c.Window()
	if err != nil {
		return pipeline.LoadOptions{}, err
	}
	opt := pipeline.LoadOptions{
		RequireFixedWindow:      c.RequireFixedWindow,
		Window:                  pipeline.Window{Start: dataset.DateOf(ws), End: dataset.DateOf(we)},
		RecomputeSentiment:      c.RecomputeSentiment,
		RequireSentimentColumns: c.RequireSentimentColumns,
		Sheet:                   c.Sheet,
	}
	fs := cmd.Flags()
	if fs.Changed("fixed-window") {
		opt.RequireFixedWindow = f.fixedWindow
	}
	if fs.Changed("recompute-sentiment") {
		opt.RecomputeSentiment = f.recompute
	}
	if fs.Changed("require-sentiment") {
		opt.RequireSentimentColumns = f.requireSentiment
	}
	if fs.Changed("sheet") {
		opt.Sheet = f.sheet
	}
	return opt, nil
}

// bounds parses --start/--end. A missing side defaults to the dataset's
// first or last valid date. ok is false when neither flag is set.
func (f *loadFlags) bounds(ds *dataset.Dataset) (start, end dataset.Date, ok bool, err error) {
	if f.start == "" && f.end == "" {
		return dataset.InvalidDate, dataset.InvalidDate, false, nil
	}
	first, last, _ := ds.DateSpan()
	start, end = first, last
	if f.start != "" {
		if start = dataset.ParseDate(f.start); !start.Valid() {
			return start, end, false, fmt.Errorf("invalid --start: %q", f.start)
		}
	}
	if f.end != "" {
		if end = dataset.ParseDate(f.end); !end.Valid() {
			return start, end, false, fmt.Errorf("invalid --end: %q", f.end)
		}
	}
	if start.Valid() && end.Valid() && start.After(end) {
		return start, end, false, fmt.Errorf("--start %s is after --end %s", start, end)
	}
	return start, end, true, nil
}

// openSession loads path into a new session and applies the range flags.
// An empty dataset is reported as a warning, not an error.
func openSession(cmd *cobra.Command, path string, f *loadFlags) (*session.Session, error) {
	opt, err := f.options(cmd)
	if err != nil {
		return nil, err
	}
	s := session.New(newPipeline(opt))
	if err := s.LoadFile(path); err != nil {
		if !errors.Is(err, dataset.ErrEmptyDataset) {
			return nil, err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %v\n", err)
	}
	if err := f.applyRange(s); err != nil {
		return nil, err
	}
	logger.Debug("session ready", "session", s.ID, "path", path)
	return s, nil
}

func (f *loadFlags) applyRange(s *session.Session) error {
	start, end, ok, err := f.bounds(s.Dataset())
	if err != nil {
		return err
	}
	if ok {
		s.SetRange(start, end)
	}
	return nil
}

// writeMetrics prints the process metrics in the Prometheus text format.
func writeMetrics(w io.Writer) error {
	mfs, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

func parseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown", "text":
		return "md", nil
	case "json":
		return "json", nil
	}
	return "", fmt.Errorf("unsupported --format: %s (use md|json)", s)
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
