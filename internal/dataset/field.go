package dataset

// Field names a column of the post schema.
type Field string

const (
	FieldDate           Field = "date"
	FieldSubreddit      Field = "subreddit"
	FieldTitle          Field = "title"
	FieldSelftext       Field = "selftext"
	FieldScore          Field = "score"
	FieldNumComments    Field = "num_comments"
	FieldUpvoteRatio    Field = "upvote_ratio"
	FieldHashtags       Field = "hashtags"
	FieldSentimentScore Field = "sentiment_score"
	FieldSentimentLabel Field = "sentiment_label"
)

// Kind classifies how a field can be aggregated.
type Kind int

const (
	KindUnknown Kind = iota
	KindDate
	KindText
	KindNumeric
)

func (k Kind) String() string {
	switch k {
	case KindDate:
		return "date"
	case KindText:
		return "text"
	case KindNumeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// Kind reports the field's kind; unrecognized names are KindUnknown.
func (f Field) Kind() Kind {
	switch f {
	case FieldDate:
		return KindDate
	case FieldSubreddit, FieldTitle, FieldSelftext, FieldHashtags, FieldSentimentLabel:
		return KindText
	case FieldScore, FieldNumComments, FieldUpvoteRatio, FieldSentimentScore:
		return KindNumeric
	default:
		return KindUnknown
	}
}

// Categorical reports whether values of f can be counted by equality.
func (f Field) Categorical() bool {
	k := f.Kind()
	return k == KindText || k == KindDate
}

// BaseColumns is the column contract every payload must satisfy.
var BaseColumns = []Field{
	FieldDate, FieldSubreddit, FieldTitle, FieldSelftext,
	FieldScore, FieldNumComments, FieldUpvoteRatio, FieldHashtags,
}

// SentimentColumns are required additionally when precomputed sentiment is mandated.
var SentimentColumns = []Field{FieldSentimentScore, FieldSentimentLabel}

// AllColumns lists every known field in canonical order.
var AllColumns = append(append([]Field{}, BaseColumns...), SentimentColumns...)

// RequiredColumns returns the column names a payload must carry.
func RequiredColumns(withSentiment bool) []string {
	out := make([]string, 0, len(AllColumns))
	for _, f := range BaseColumns {
		out = append(out, string(f))
	}
	if withSentiment {
		for _, f := range SentimentColumns {
			out = append(out, string(f))
		}
	}
	return out
}

// ParseField resolves a column name to a known field.
func ParseField(name string) (Field, bool) {
	f := Field(name)
	if f.Kind() == KindUnknown {
		return "", false
	}
	return f, true
}
