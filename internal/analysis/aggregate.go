package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Mahek1394/research-engineering-intern-assignment/internal/dataset"
	"github.com/Mahek1394/research-engineering-intern-assignment/internal/sentiment"
	"github.com/Mahek1394/research-engineering-intern-assignment/internal/utils"
)

// ErrNoValues is returned by MeanNumeric when no record has the field.
var ErrNoValues = errors.New("no values to aggregate")

// FieldError reports an aggregate requested over an unknown field or a field
// of the wrong kind.
type FieldError struct {
	Op    string
	Field dataset.Field
	Want  dataset.Kind
}

func (e *FieldError) Error() string {
	if e.Field.Kind() == dataset.KindUnknown {
		return fmt.Sprintf("%s: unknown field %q", e.Op, e.Field)
	}
	return fmt.Sprintf("%s: field %q is %s, want %s", e.Op, e.Field, e.Field.Kind(), e.Want)
}

// CategoryCount is one ranked value.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// counter tallies values and remembers first-seen order for tie breaks.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter { return &counter{counts: make(map[string]int)} }

func (c *counter) add(v string) {
	if _, ok := c.counts[v]; !ok {
		c.order = append(c.order, v)
	}
	c.counts[v]++
}

// top returns at most n values by count descending, ties in first-seen order.
func (c *counter) top(n int) []CategoryCount {
	out := make([]CategoryCount, 0, len(c.order))
	for _, v := range c.order {
		out = append(out, CategoryCount{Value: v, Count: c.counts[v]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n < 0 {
		n = 0
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func checkKind(op string, f dataset.Field, ok bool, want dataset.Kind) error {
	if f.Kind() == dataset.KindUnknown || !ok {
		return &FieldError{Op: op, Field: f, Want: want}
	}
	return nil
}

// TopNCategorical ranks the values of a categorical field. Empty values are
// skipped. The result has at most n entries.
func TopNCategorical(src dataset.Source, f dataset.Field, n int) ([]CategoryCount, error) {
	if err := checkKind("top", f, f.Categorical(), dataset.KindText); err != nil {
		return nil, err
	}
	c := newCounter()
	for i := 0; i < src.Len(); i++ {
		if v := src.At(i).Value(f); v != "" {
			c.add(v)
		}
	}
	return c.top(n), nil
}

// SumNumeric adds the present values of a numeric field. An empty source sums to 0.
func SumNumeric(src dataset.Source, f dataset.Field) (float64, error) {
	if err := checkKind("sum", f, f.Kind() == dataset.KindNumeric, dataset.KindNumeric); err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < src.Len(); i++ {
		if v, ok := src.At(i).Numeric(f); ok {
			sum += v
		}
	}
	return sum, nil
}

// MeanNumeric averages the present values of a numeric field. Absent values
// are skipped; ErrNoValues is returned when none are present.
func MeanNumeric(src dataset.Source, f dataset.Field) (float64, error) {
	s, err := SummarizeNumeric(src, f)
	if err != nil {
		return 0, err
	}
	if s.Count == 0 {
		return 0, fmt.Errorf("mean of %s: %w", f, ErrNoValues)
	}
	return s.Mean, nil
}

// NumericSummary describes the present values of one numeric field.
type NumericSummary struct {
	Field  dataset.Field `json:"field"`
	Label  string        `json:"label"`
	Count  int           `json:"count"`
	Sum    float64       `json:"sum"`
	Mean   float64       `json:"mean"`
	Median float64       `json:"median"`
	Min    float64       `json:"min"`
	Max    float64       `json:"max"`
	Std    float64       `json:"std"`
}

// SummarizeNumeric computes count, sum, mean, median, range and sample
// standard deviation. A field with no present values yields a zero summary.
func SummarizeNumeric(src dataset.Source, f dataset.Field) (NumericSummary, error) {
	s := NumericSummary{Field: f, Label: dataset.DisplayName(f)}
	if err := checkKind("summarize", f, f.Kind() == dataset.KindNumeric, dataset.KindNumeric); err != nil {
		return s, err
	}
	var (
		vals []float64
		mean float64
		m2   float64
	)
	for i := 0; i < src.Len(); i++ {
		x, ok := src.At(i).Numeric(f)
		if !ok {
			continue
		}
		vals = append(vals, x)
		s.Sum += x
		// Welford update
		delta := x - mean
		mean += delta / float64(len(vals))
		m2 += delta * (x - mean)
		if len(vals) == 1 || x < s.Min {
			s.Min = x
		}
		if len(vals) == 1 || x > s.Max {
			s.Max = x
		}
	}
	s.Count = len(vals)
	if s.Count == 0 {
		return s, nil
	}
	s.Mean = mean
	if s.Count > 1 {
		s.Std = math.Sqrt(m2 / float64(s.Count-1))
	}
	sort.Float64s(vals)
	s.Median = quantile(vals, 0.5)
	return s, nil
}

// WordFrequency counts lower-cased words of a text field across all records.
func WordFrequency(src dataset.Source, f dataset.Field, n int) ([]CategoryCount, error) {
	return wordFrequency(src, f, n, nil)
}

// WordFrequencyExcluding is WordFrequency with the given words left out.
func WordFrequencyExcluding(src dataset.Source, f dataset.Field, n int, stop map[string]struct{}) ([]CategoryCount, error) {
	return wordFrequency(src, f, n, stop)
}

func wordFrequency(src dataset.Source, f dataset.Field, n int, stop map[string]struct{}) ([]CategoryCount, error) {
	if err := checkKind("words", f, f.Kind() == dataset.KindText, dataset.KindText); err != nil {
		return nil, err
	}
	c := newCounter()
	for i := 0; i < src.Len(); i++ {
		for _, w := range utils.Words(src.At(i).Value(f)) {
			if _, skip := stop[w]; skip {
				continue
			}
			c.add(w)
		}
	}
	return c.top(n), nil
}

// SplitHashtags splits a raw hashtag cell into lower-cased tags without the
// leading '#'. Tags may be separated by '#', ',', ';' or whitespace.
func SplitHashtags(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		switch r {
		case '#', ',', ';', ' ', '\t', '\n', '\r':
			return true
		}
		return false
	})
	var out []string
	for _, p := range parts {
		out = append(out, utils.Words(p)...)
	}
	return out
}

// TopHashtags ranks hashtags across all records, rendered with a leading '#'.
func TopHashtags(src dataset.Source, n int) []CategoryCount {
	c := newCounter()
	for i := 0; i < src.Len(); i++ {
		for _, tag := range SplitHashtags(src.At(i).Hashtags) {
			c.add("#" + tag)
		}
	}
	return c.top(n)
}

// LabelShare is the count and percentage of one sentiment label.
type LabelShare struct {
	Label   sentiment.Label `json:"label"`
	Count   int             `json:"count"`
	Percent float64         `json:"percent"`
}

// SentimentBreakdown counts records per label in Positive, Neutral, Negative
// order. Records without a sentiment are not counted.
func SentimentBreakdown(src dataset.Source) []LabelShare {
	counts := make(map[sentiment.Label]int, len(sentiment.Labels))
	total := 0
	for i := 0; i < src.Len(); i++ {
		r := src.At(i)
		if !r.Present.Has(dataset.HasSentiment) {
			continue
		}
		counts[r.SentimentLabel]++
		total++
	}
	out := make([]LabelShare, 0, len(sentiment.Labels))
	for _, l := range sentiment.Labels {
		s := LabelShare{Label: l, Count: counts[l]}
		if total > 0 {
			s.Percent = float64(s.Count) * 100 / float64(total)
		}
		out = append(out, s)
	}
	return out
}

// DayEngagement aggregates the posts of one calendar day.
type DayEngagement struct {
	Date     dataset.Date `json:"date"`
	Posts    int          `json:"posts"`
	Likes    int          `json:"likes"`
	Comments int          `json:"comments"`
	// MeanUpvoteRatio is over posts with a ratio; HasUpvoteRatio is false when none had one.
	MeanUpvoteRatio float64 `json:"mean_upvote_ratio"`
	HasUpvoteRatio  bool    `json:"has_upvote_ratio"`
}

// DailyEngagement groups records by date in ascending order. Records with an
// invalid date are skipped.
func DailyEngagement(src dataset.Source) []DayEngagement {
	type acc struct {
		DayEngagement
		ratioSum float64
		ratioN   int
	}
	byDay := map[dataset.Date]*acc{}
	for i := 0; i < src.Len(); i++ {
		r := src.At(i)
		if !r.Date.Valid() {
			continue
		}
		d, ok := byDay[r.Date]
		if !ok {
			d = &acc{DayEngagement: DayEngagement{Date: r.Date}}
			byDay[r.Date] = d
		}
		d.Posts++
		if r.Present.Has(dataset.HasScore) {
			d.Likes += r.Score
		}
		if r.Present.Has(dataset.HasNumComments) {
			d.Comments += r.NumComments
		}
		if r.Present.Has(dataset.HasUpvoteRatio) {
			d.ratioSum += r.UpvoteRatio
			d.ratioN++
		}
	}
	out := make([]DayEngagement, 0, len(byDay))
	for _, d := range byDay {
		if d.ratioN > 0 {
			d.MeanUpvoteRatio = d.ratioSum / float64(d.ratioN)
			d.HasUpvoteRatio = true
		}
		out = append(out, d.DayEngagement)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
