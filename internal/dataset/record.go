package dataset

import (
	"strconv"

	"github.com/Mahek1394/research-engineering-intern-assignment/internal/sentiment"
)

// Presence flags which optional values of a record were parsed.
type Presence uint8

const (
	HasScore Presence = 1 << iota
	HasNumComments
	HasUpvoteRatio
	HasSentiment
)

func (p Presence) Has(f Presence) bool { return p&f != 0 }

// Record is one validated, normalized post.
type Record struct {
	// Index is the position within the owning Dataset.
	Index int `json:"-"`
	// Row is the 1-based data row in the source payload (header excluded).
	Row            int             `json:"row"`
	Date           Date            `json:"date"`
	Subreddit      string          `json:"subreddit"`
	Title          string          `json:"title"`
	Selftext       string          `json:"selftext"`
	Score          int             `json:"score"`
	NumComments    int             `json:"num_comments"`
	UpvoteRatio    float64         `json:"upvote_ratio"`
	Hashtags       string          `json:"hashtags"`
	SentimentScore float64         `json:"sentiment_score"`
	SentimentLabel sentiment.Label `json:"sentiment_label"`
	Present        Presence        `json:"-"`
}

// Numeric returns the value of a numeric field and whether it is present.
func (r Record) Numeric(f Field) (float64, bool) {
	switch f {
	case FieldScore:
		return float64(r.Score), r.Present.Has(HasScore)
	case FieldNumComments:
		return float64(r.NumComments), r.Present.Has(HasNumComments)
	case FieldUpvoteRatio:
		return r.UpvoteRatio, r.Present.Has(HasUpvoteRatio)
	case FieldSentimentScore:
		return r.SentimentScore, r.Present.Has(HasSentiment)
	}
	return 0, false
}

// Value renders a field in canonical text form. Absent values render as "".
func (r Record) Value(f Field) string {
	switch f {
	case FieldDate:
		return r.Date.String()
	case FieldSubreddit:
		return r.Subreddit
	case FieldTitle:
		return r.Title
	case FieldSelftext:
		return r.Selftext
	case FieldHashtags:
		return r.Hashtags
	case FieldSentimentLabel:
		if !r.Present.Has(HasSentiment) {
			return ""
		}
		return string(r.SentimentLabel)
	case FieldScore, FieldNumComments:
		v, ok := r.Numeric(f)
		if !ok {
			return ""
		}
		return strconv.Itoa(int(v))
	case FieldUpvoteRatio, FieldSentimentScore:
		v, ok := r.Numeric(f)
		if !ok {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// Source is read-only access to an ordered run of records.
type Source interface {
	Len() int
	// At returns a copy of the i-th record.
	At(i int) Record
	// Dataset returns the dataset owning the records.
	Dataset() *Dataset
}

// Dataset is the immutable result of one load, in source row order.
type Dataset struct {
	name    string
	records []Record
}

// New builds a dataset from records, assigning Index in order. The slice is copied.
func New(name string, records []Record) *Dataset {
	cp := make([]Record, len(records))
	copy(cp, records)
	for i := range cp {
		cp[i].Index = i
	}
	return &Dataset{name: name, records: cp}
}

func (d *Dataset) Name() string      { return d.name }
func (d *Dataset) Len() int          { return len(d.records) }
func (d *Dataset) At(i int) Record   { return d.records[i] }
func (d *Dataset) Dataset() *Dataset { return d }
func (d *Dataset) Empty() bool       { return len(d.records) == 0 }

// WithName returns the dataset under another name, sharing its records.
// d itself is returned when the name is unchanged.
func (d *Dataset) WithName(name string) *Dataset {
	if name == d.name {
		return d
	}
	return &Dataset{name: name, records: d.records}
}

// Records returns a copy of all records.
func (d *Dataset) Records() []Record {
	cp := make([]Record, len(d.records))
	copy(cp, d.records)
	return cp
}

// InvalidDates counts records carrying the invalid-date sentinel.
func (d *Dataset) InvalidDates() int {
	n := 0
	for _, r := range d.records {
		if !r.Date.Valid() {
			n++
		}
	}
	return n
}

// DateSpan returns the earliest and latest valid dates. ok is false when no
// record has a valid date.
func (d *Dataset) DateSpan() (first, last Date, ok bool) {
	for _, r := range d.records {
		if !r.Date.Valid() {
			continue
		}
		if !ok || r.Date.Before(first) {
			first = r.Date
		}
		if !ok || r.Date.After(last) {
			last = r.Date
		}
		ok = true
	}
	return first, last, ok
}

// View is a read-only selection of records from a Dataset.
type View struct {
	ds         *Dataset
	idx        []int
	start, end Date
}

func (v *View) Len() int          { return len(v.idx) }
func (v *View) At(i int) Record   { return v.ds.records[v.idx[i]] }
func (v *View) Dataset() *Dataset { return v.ds }

// Indices returns the selected dataset indices in order.
func (v *View) Indices() []int {
	cp := make([]int, len(v.idx))
	copy(cp, v.idx)
	return cp
}

// Bounds returns the interval that produced the view.
func (v *View) Bounds() (start, end Date) { return v.start, v.end }
