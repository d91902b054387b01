package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/Mahek1394/research-engineering-intern-assignment/internal/sentiment"
)

// missingTokens are cell values treated as absent, as spreadsheet and
// dataframe exports commonly write them.
var missingTokens = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {}, "-NaN": {},
	"-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {}, "NA": {},
	"NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

func isMissing(v string) bool {
	if v == "" {
		return true
	}
	_, ok := missingTokens[strings.TrimSpace(v)]
	return ok
}

// Normalized is the output of Normalize.
type Normalized struct {
	Records []Record
	// InvalidDates lists rows whose date was replaced with InvalidDate.
	InvalidDates []*InvalidDateError
	// Relabeled counts rows whose supplied label disagreed with the supplied
	// score; the label is always re-derived from the score.
	Relabeled int
}

// Normalize converts validated rows into records. It never modifies rows.
// Missing text becomes "", unparseable dates become InvalidDate, and
// unparseable or out-of-range numbers are left absent. Rows shorter than the
// header are padded with empty cells.
func Normalize(header []string, rows [][]string) Normalized {
	idx := columnIndex(header)
	cell := func(row []string, f Field) string {
		i, ok := idx[string(f)]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}
	text := func(row []string, f Field) string {
		v := cell(row, f)
		if isMissing(v) {
			return ""
		}
		return v
	}

	out := Normalized{Records: make([]Record, 0, len(rows))}
	for n, row := range rows {
		r := Record{
			Index:     n,
			Row:       n + 1,
			Subreddit: strings.TrimSpace(text(row, FieldSubreddit)),
			Title:     text(row, FieldTitle),
			Selftext:  text(row, FieldSelftext),
			Hashtags:  strings.TrimSpace(text(row, FieldHashtags)),
		}
		rawDate := cell(row, FieldDate)
		if d, ok := parseDate(rawDate); ok {
			r.Date = d
		} else {
			r.Date = InvalidDate
			out.InvalidDates = append(out.InvalidDates, &InvalidDateError{Row: r.Row, Value: rawDate})
		}
		if v, ok := parseInt(cell(row, FieldScore)); ok {
			r.Score = v
			r.Present |= HasScore
		}
		if v, ok := parseInt(cell(row, FieldNumComments)); ok {
			r.NumComments = v
			r.Present |= HasNumComments
		}
		if v, ok := parseFloat(cell(row, FieldUpvoteRatio)); ok && v >= 0 && v <= 1 {
			r.UpvoteRatio = v
			r.Present |= HasUpvoteRatio
		}
		if v, ok := parseFloat(cell(row, FieldSentimentScore)); ok && v >= -1 && v <= 1 {
			r.SentimentScore = v
			r.SentimentLabel = sentiment.LabelFor(v)
			r.Present |= HasSentiment
			if supplied, ok := sentiment.ParseLabel(cell(row, FieldSentimentLabel)); ok && supplied != r.SentimentLabel {
				out.Relabeled++
			}
		}
		out.Records = append(out.Records, r)
	}
	return out
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if isMissing(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseInt accepts integers and integral floats such as "12.0".
func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		return i, true
	}
	f, ok := parseFloat(s)
	if !ok || f != math.Trunc(f) || math.Abs(f) >= math.MaxInt64 {
		return 0, false
	}
	return int(f), true
}
