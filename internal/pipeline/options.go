package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Mahek1394/research-engineering-intern-assignment/internal/dataset"
)

// Window is an inclusive calendar interval.
type Window struct {
	Start dataset.Date
	End   dataset.Date
}

// DefaultWindow is the study period, July 2024.
func DefaultWindow() Window {
	return Window{
		Start: dataset.NewDate(2024, time.July, 1),
		End:   dataset.NewDate(2024, time.July, 31),
	}
}

func (w Window) String() string { return fmt.Sprintf("%s..%s", w.Start, w.End) }

// LoadOptions controls one load. The fields take part in the cache key, so
// loads of the same bytes under different options are cached separately.
type LoadOptions struct {
	// RequireFixedWindow keeps only rows dated within Window. Rows with an
	// invalid date are dropped when set.
	RequireFixedWindow bool
	// Window defaults to DefaultWindow when zero.
	Window Window
	// RecomputeSentiment scores every row even when the payload supplies a score.
	RecomputeSentiment bool
	// RequireSentimentColumns adds sentiment_score and sentiment_label to the
	// required header.
	RequireSentimentColumns bool
	// Sheet selects an XLSX worksheet.
	Sheet string
}

func (o LoadOptions) window() Window {
	if !o.Window.Start.Valid() && !o.Window.End.Valid() {
		return DefaultWindow()
	}
	return o.Window
}

func (o LoadOptions) fingerprint() string {
	return fmt.Sprintf("window=%t:%s;recompute=%t;sentiment-cols=%t;sheet=%s",
		o.RequireFixedWindow, o.window(), o.RecomputeSentiment, o.RequireSentimentColumns, o.Sheet)
}

// Options configures a Pipeline.
type Options struct {
	Load LoadOptions
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Registerer receives the pipeline metrics. A private registry is used when nil.
	Registerer prometheus.Registerer
}
