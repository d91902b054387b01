package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"github.com/Mahek1394/research-engineering-intern-assignment/internal/dataset"
	"github.com/Mahek1394/research-engineering-intern-assignment/internal/logging"
	"github.com/Mahek1394/research-engineering-intern-assignment/internal/parser"
	"github.com/Mahek1394/research-engineering-intern-assignment/internal/sentiment"
)

// Payload is an uploaded file: its name selects the format.
type Payload struct {
	Name string
	Data []byte
}

// ReadPayload reads a payload from disk.
func ReadPayload(path string) (Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Payload{}, fmt.Errorf("read file: %w", err)
	}
	return Payload{Name: path, Data: data}, nil
}

type entry struct {
	ds  *dataset.Dataset
	err error
}

// Pipeline turns payloads into datasets and memoizes the result by content.
// It is safe for concurrent use.
type Pipeline struct {
	analyzer *sentiment.Analyzer
	opt      LoadOptions
	log      *slog.Logger
	metrics  *metrics

	mu    sync.RWMutex
	cache map[string]entry
	group singleflight.Group
}

// New builds a pipeline. A nil analyzer uses the default lexicon and a nil
// logger discards.
func New(a *sentiment.Analyzer, opt Options) *Pipeline {
	if a == nil {
		a = sentiment.NewDefault()
	}
	log := opt.Logger
	if log == nil {
		log = logging.Discard()
	}
	reg := opt.Registerer
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return &Pipeline{
		analyzer: a,
		opt:      opt.Load,
		log:      log.With("component", "pipeline"),
		metrics:  newMetrics(reg),
		cache:    make(map[string]entry),
	}
}

// CacheKey identifies a load by format, options and payload bytes.
func CacheKey(format string, opt LoadOptions, data []byte) string {
	h := sha256.New()
	h.Write([]byte(format))
	h.Write([]byte{0})
	h.Write([]byte(opt.fingerprint()))
	h.Write([]byte{0})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Key returns the cache key Load would use for pl.
func (p *Pipeline) Key(pl Payload) string {
	return CacheKey(parser.Select(pl.Name).Format(), p.opt, pl.Data)
}

// Load runs the pipeline with the default options.
func (p *Pipeline) Load(pl Payload) (*dataset.Dataset, error) {
	return p.LoadWith(pl, p.opt)
}

// LoadWith parses, validates, normalizes and scores pl. Identical payloads
// under identical options return the same *dataset.Dataset.
//
// A *dataset.EmptyDatasetError comes with a valid empty dataset. Any other
// error comes with a nil dataset.
func (p *Pipeline) LoadWith(pl Payload, opt LoadOptions) (*dataset.Dataset, error) {
	key := CacheKey(parser.Select(pl.Name).Format(), opt, pl.Data)

	p.mu.RLock()
	e, ok := p.cache[key]
	p.mu.RUnlock()
	if ok {
		p.metrics.cacheHits.Inc()
		p.log.Debug("dataset cache hit", "name", pl.Name, "key", key[:12])
		return e.named(displayName(pl.Name))
	}

	v, err, _ := p.group.Do(key, func() (any, error) {
		p.mu.RLock()
		e, ok := p.cache[key]
		p.mu.RUnlock()
		if ok {
			return e, nil
		}
		ds, err := p.build(pl, opt)
		if ds == nil {
			return nil, err
		}
		e = entry{ds: ds, err: err}
		p.mu.Lock()
		p.cache[key] = e
		p.mu.Unlock()
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(entry).named(displayName(pl.Name))
}

// named presents a cached result under the name of the current upload. The
// cache key ignores names, so equal bytes uploaded under two names share
// records but not names.
func (e entry) named(name string) (*dataset.Dataset, error) {
	ds := e.ds.WithName(name)
	var empty *dataset.EmptyDatasetError
	if errors.As(e.err, &empty) && empty.Name != name {
		cp := *empty
		cp.Name = name
		return ds, &cp
	}
	return ds, e.err
}

// Forget drops a cached dataset.
func (p *Pipeline) Forget(key string) {
	p.mu.Lock()
	delete(p.cache, key)
	p.mu.Unlock()
}

// Len reports the number of cached datasets.
func (p *Pipeline) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.cache)
}

func (p *Pipeline) build(pl Payload, opt LoadOptions) (*dataset.Dataset, error) {
	start := time.Now()
	log := p.log.With("name", pl.Name, "bytes", len(pl.Data))

	tbl, err := parser.Parse(pl.Name, pl.Data, parser.Options{Sheet: opt.Sheet})
	if err != nil {
		p.metrics.loads.WithLabelValues(resultParseError).Inc()
		log.Warn("payload rejected", "error", err)
		return nil, &dataset.ParseError{Name: displayName(pl.Name), Err: err}
	}
	name := displayName(pl.Name)

	if err := dataset.ValidateColumns(tbl.Header, dataset.RequiredColumns(opt.RequireSentimentColumns)); err != nil {
		p.metrics.loads.WithLabelValues(resultMissingColumns).Inc()
		log.Warn("payload rejected", "error", err)
		return nil, err
	}

	norm := dataset.Normalize(tbl.Header, tbl.Rows)
	p.metrics.invalidDates.Add(float64(len(norm.InvalidDates)))
	for _, e := range norm.InvalidDates {
		log.Debug("date coerced to invalid", "row", e.Row, "value", e.Value)
	}
	if norm.Relabeled > 0 {
		log.Info("supplied sentiment labels re-derived from scores", "rows", norm.Relabeled)
	}

	records := norm.Records
	w := opt.window()
	if opt.RequireFixedWindow {
		kept := records[:0:0]
		for _, r := range records {
			if r.Date.Within(w.Start, w.End) {
				kept = append(kept, r)
			}
		}
		log.Debug("fixed window applied", "window", w.String(), "kept", len(kept), "dropped", len(records)-len(kept))
		records = kept
	}

	computed := 0
	for i := range records {
		r := &records[i]
		if !opt.RecomputeSentiment && r.Present.Has(dataset.HasSentiment) {
			continue
		}
		r.SentimentScore, r.SentimentLabel = p.analyzer.Classify(r.Selftext)
		r.Present |= dataset.HasSentiment
		computed++
	}
	p.metrics.scored.WithLabelValues(sourceComputed).Add(float64(computed))
	p.metrics.scored.WithLabelValues(sourceSupplied).Add(float64(len(records) - computed))

	ds := dataset.New(name, records)
	p.metrics.records.Add(float64(ds.Len()))
	log.Info("dataset loaded",
		"records", ds.Len(),
		"invalid_dates", len(norm.InvalidDates),
		"scored", computed,
		"duration", time.Since(start))

	if ds.Empty() {
		p.metrics.loads.WithLabelValues(resultEmpty).Inc()
		return ds, &dataset.EmptyDatasetError{
			Name:   name,
			Window: opt.RequireFixedWindow,
			Start:  w.Start,
			End:    w.End,
		}
	}
	p.metrics.loads.WithLabelValues(resultOK).Inc()
	return ds, nil
}

func displayName(name string) string {
	if name == "" {
		return ""
	}
	return filepath.Base(name)
}

// IsFatal reports whether err from Load means no dataset was produced.
func IsFatal(err error) bool {
	return err != nil && !errors.Is(err, dataset.ErrEmptyDataset)
}
