package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Mahek1394/research-engineering-intern-assignment/internal/dataset"
	"github.com/Mahek1394/research-engineering-intern-assignment/internal/utils"
)

// ReportOptions sizes the ranked sections of a Report.
type ReportOptions struct {
	TopN     int
	Words    int
	Hashtags int
	// Stopwords drops common English words from the popular terms.
	Stopwords bool
	// Samples is the number of example posts listed.
	Samples int
}

// DefaultReportOptions returns reasonable defaults for a dashboard summary.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{TopN: 5, Words: 20, Hashtags: 10, Stopwords: true, Samples: 3}
}

// Report is a markdown-friendly summary of a dataset or a view of one.
type Report struct {
	Name         string                  `json:"name"`
	Total        int                     `json:"total_records"`
	Records      int                     `json:"records"`
	Start        dataset.Date            `json:"start"`
	End          dataset.Date            `json:"end"`
	InvalidDates int                     `json:"invalid_dates"`
	Engagement   []NumericSummary        `json:"engagement"`
	Sentiment    []LabelShare            `json:"sentiment"`
	Subreddits   []CategoryCount         `json:"top_subreddits"`
	Hashtags     []CategoryCount         `json:"top_hashtags"`
	Words        []CategoryCount         `json:"popular_terms"`
	Daily        []DayEngagement         `json:"daily"`
	Samples      []dataset.DisplayRecord `json:"samples"`
	Warnings     []string                `json:"warnings,omitempty"`
}

var engagementFields = []dataset.Field{dataset.FieldScore, dataset.FieldNumComments, dataset.FieldUpvoteRatio}

// BuildReport aggregates src. An empty source produces a report whose
// sections are empty and which carries a warning instead of failing.
func BuildReport(name string, src dataset.Source, opt ReportOptions) *Report {
	ds := src.Dataset()
	rep := &Report{
		Name:         name,
		Total:        ds.Len(),
		Records:      src.Len(),
		InvalidDates: ds.InvalidDates(),
	}
	if v, ok := src.(*dataset.View); ok {
		rep.Start, rep.End = v.Bounds()
	}
	for _, f := range engagementFields {
		s, _ := SummarizeNumeric(src, f)
		rep.Engagement = append(rep.Engagement, s)
	}
	rep.Sentiment = SentimentBreakdown(src)
	rep.Subreddits, _ = TopNCategorical(src, dataset.FieldSubreddit, opt.TopN)
	rep.Hashtags = TopHashtags(src, opt.Hashtags)
	var stop map[string]struct{}
	if opt.Stopwords {
		stop = stopwords
	}
	rep.Words, _ = WordFrequencyExcluding(src, dataset.FieldSelftext, opt.Words, stop)
	rep.Daily = DailyEngagement(src)
	for i := 0; i < src.Len() && i < opt.Samples; i++ {
		rep.Samples = append(rep.Samples, dataset.Display(src.At(i)))
	}

	if src.Len() == 0 {
		if rep.Start.Valid() {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("No posts between %s and %s.", rep.Start, rep.End))
		} else {
			rep.Warnings = append(rep.Warnings, "No posts to summarize.")
		}
	}
	if rep.InvalidDates > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d of %d rows have an unparseable date and are excluded from date ranges.", rep.InvalidDates, rep.Total))
	}
	if _, err := MeanNumeric(src, dataset.FieldUpvoteRatio); errors.Is(err, ErrNoValues) && src.Len() > 0 {
		rep.Warnings = append(rep.Warnings, "No upvote ratios present; mean upvote ratio omitted.")
	}
	return rep
}

// Markdown renders the report as bracketed plain-text sections.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.Records < r.Total {
		b.WriteString(fmt.Sprintf("Posts: %d (of %d)\n", r.Records, r.Total))
	} else {
		b.WriteString(fmt.Sprintf("Posts: %d\n", r.Records))
	}
	if r.Start.Valid() {
		b.WriteString(fmt.Sprintf("Range: %s to %s\n", r.Start, r.End))
	}

	b.WriteString("\n[ENGAGEMENT]\n")
	if r.Records == 0 {
		b.WriteString("(no data)\n")
	} else {
		for _, s := range r.Engagement {
			if s.Count == 0 {
				b.WriteString(fmt.Sprintf("- %s: no values\n", s.Label))
				continue
			}
			b.WriteString(fmt.Sprintf("- %s: total %.4g, mean %.4g, median %.4g (min %.4g, max %.4g, std %.4g, n=%d)\n",
				s.Label, s.Sum, s.Mean, s.Median, s.Min, s.Max, s.Std, s.Count))
		}
	}

	b.WriteString("\n[SENTIMENT]\n")
	if r.Records == 0 {
		b.WriteString("(no data)\n")
	} else {
		for _, s := range r.Sentiment {
			b.WriteString(fmt.Sprintf("- %s: %d (%.1f%%)\n", s.Label, s.Count, s.Percent))
		}
	}

	writeCounts(&b, "TOP SUBREDDITS", r.Subreddits)
	writeCounts(&b, "TOP HASHTAGS", r.Hashtags)
	writeCounts(&b, "POPULAR TERMS", r.Words)

	b.WriteString("\n[DAILY ENGAGEMENT]\n")
	if len(r.Daily) == 0 {
		b.WriteString("(no data)\n")
	}
	for _, d := range r.Daily {
		b.WriteString(fmt.Sprintf("- %s: posts %d, %s %d, %s %d", d.Date,
			d.Posts, dataset.DisplayName(dataset.FieldScore), d.Likes, dataset.DisplayName(dataset.FieldNumComments), d.Comments))
		if d.HasUpvoteRatio {
			b.WriteString(fmt.Sprintf(", upvote ratio %.2f", d.MeanUpvoteRatio))
		}
		b.WriteString("\n")
	}

	if len(r.Samples) > 0 {
		b.WriteString("\n[SAMPLE POSTS]\n")
		for _, s := range r.Samples {
			b.WriteString(fmt.Sprintf("- %s r/%s: %s [%s]\n", safeVal(s.Date), safeName(s.Subreddit), safeVal(utils.Truncate(s.Title, 80)), s.SentimentLabel))
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeCounts(b *strings.Builder, title string, counts []CategoryCount) {
	b.WriteString("\n[" + title + "]\n")
	if len(counts) == 0 {
		b.WriteString("(no data)\n")
		return
	}
	for i, kv := range counts {
		b.WriteString(fmt.Sprintf("%d. %s (%d)\n", i+1, safeVal(kv.Value), kv.Count))
	}
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

var stopwords = toSet(
	"a", "about", "after", "all", "also", "am", "an", "and", "any", "are", "as", "at",
	"be", "because", "been", "but", "by", "can", "could", "did", "do", "does", "for",
	"from", "had", "has", "have", "he", "her", "here", "him", "his", "how", "i", "if",
	"in", "into", "is", "it", "its", "just", "me", "more", "my", "no", "not", "of", "on",
	"or", "our", "out", "s", "she", "so", "some", "than", "that", "the", "their", "them",
	"then", "there", "these", "they", "this", "to", "up", "was", "we", "were", "what",
	"when", "which", "who", "will", "with", "would", "you", "your",
)

// Stopwords returns the common English words dropped from popular terms.
// The set is shared and must not be modified.
func Stopwords() map[string]struct{} { return stopwords }

func toSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
