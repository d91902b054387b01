package dataset

import "github.com/Mahek1394/research-engineering-intern-assignment/internal/sentiment"

var displayNames = map[Field]string{
	FieldScore:       "Likes",
	FieldNumComments: "Comments",
}

// DisplayName is the presentation label for a field. Filtering and
// aggregation keep using the underlying field names.
func DisplayName(f Field) string {
	if n, ok := displayNames[f]; ok {
		return n
	}
	return string(f)
}

// DisplayRecord is a record under presentation names.
type DisplayRecord struct {
	Date           string          `json:"date"`
	Subreddit      string          `json:"subreddit"`
	Title          string          `json:"title"`
	Selftext       string          `json:"selftext"`
	Likes          *int            `json:"Likes"`
	Comments       *int            `json:"Comments"`
	UpvoteRatio    *float64        `json:"upvote_ratio"`
	Hashtags       string          `json:"hashtags"`
	SentimentScore float64         `json:"sentiment_score"`
	SentimentLabel sentiment.Label `json:"sentiment_label"`
}

// Display renames a record for presentation. Absent numbers become nil.
func Display(r Record) DisplayRecord {
	d := DisplayRecord{
		Date:           r.Date.String(),
		Subreddit:      r.Subreddit,
		Title:          r.Title,
		Selftext:       r.Selftext,
		Hashtags:       r.Hashtags,
		SentimentScore: r.SentimentScore,
		SentimentLabel: r.SentimentLabel,
	}
	if r.Present.Has(HasScore) {
		v := r.Score
		d.Likes = &v
	}
	if r.Present.Has(HasNumComments) {
		v := r.NumComments
		d.Comments = &v
	}
	if r.Present.Has(HasUpvoteRatio) {
		v := r.UpvoteRatio
		d.UpvoteRatio = &v
	}
	return d
}
