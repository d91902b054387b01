package dataset_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mahek1394/research-engineering-intern-assignment/internal/dataset"
	"github.com/Mahek1394/research-engineering-intern-assignment/internal/sentiment"
)

var header = []string{"date", "subreddit", "title", "selftext", "score", "num_comments", "upvote_ratio", "hashtags"}

func TestValidateColumns(t *testing.T) {
	required := dataset.RequiredColumns(false)
	require.NoError(t, dataset.ValidateColumns(header, required))
	require.NoError(t, dataset.ValidateColumns([]string{"\ufeffdate", " subreddit", "title ", "selftext", "score", "num_comments", "upvote_ratio", "hashtags", "extra"}, required))

	err := dataset.ValidateColumns([]string{"title", "date", "score"}, required)
	var mc *dataset.MissingColumnsError
	require.ErrorAs(t, err, &mc)
	assert.Equal(t, []string{"hashtags", "num_comments", "selftext", "subreddit", "upvote_ratio"}, mc.Missing)
	assert.True(t, errors.Is(err, dataset.ErrMissingColumns))
	assert.Contains(t, err.Error(), "hashtags, num_comments, selftext, subreddit, upvote_ratio")
}

func TestValidateColumnsSentimentVariant(t *testing.T) {
	err := dataset.ValidateColumns(header, dataset.RequiredColumns(true))
	var mc *dataset.MissingColumnsError
	require.ErrorAs(t, err, &mc)
	assert.Equal(t, []string{"sentiment_label", "sentiment_score"}, mc.Missing)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		valid bool
	}{
		{"2024-07-01", "2024-07-01", true},
		{" 2024-07-15 13:45:00 ", "2024-07-15", true},
		{"2024-07-31T23:59:59Z", "2024-07-31", true},
		{"2024-07-01T22:30:00-05:00", "2024-07-01", true},
		{"2024/07/04", "2024-07-04", true},
		{"07/20/2024", "2024-07-20", true},
		{"July 3, 2024", "2024-07-03", true},
		{"not a date", "", false},
		{"", "", false},
		{"NaN", "", false},
	}
	for _, tt := range tests {
		d := dataset.ParseDate(tt.in)
		assert.Equal(t, tt.valid, d.Valid(), tt.in)
		assert.Equal(t, tt.want, d.String(), tt.in)
	}
	assert.Equal(t, dataset.InvalidDate, dataset.ParseDate("2024-13-45"))
}

func TestNormalizeDefaultsAndSentinels(t *testing.T) {
	rows := [][]string{
		{"2024-07-01", "golang", "Hello", "", "10", "3", "0.9", "#go"},
		{"garbage", "rust", "World", "NaN", "12.0", "x", "1.5", ""},
		{"2024-07-02", "python", "Short row"},
	}
	out := dataset.Normalize(header, rows)
	require.Len(t, out.Records, 3)

	r0 := out.Records[0]
	assert.Equal(t, 1, r0.Row)
	assert.Equal(t, "2024-07-01", r0.Date.String())
	assert.Equal(t, "", r0.Selftext)
	assert.Equal(t, 10, r0.Score)
	assert.True(t, r0.Present.Has(dataset.HasUpvoteRatio))
	assert.False(t, r0.Present.Has(dataset.HasSentiment))

	r1 := out.Records[1]
	assert.False(t, r1.Date.Valid())
	assert.Equal(t, "", r1.Selftext)
	assert.Equal(t, 12, r1.Score)
	assert.False(t, r1.Present.Has(dataset.HasNumComments))
	assert.False(t, r1.Present.Has(dataset.HasUpvoteRatio), "ratio outside [0,1] is absent")

	r2 := out.Records[2]
	assert.Equal(t, "", r2.Selftext)
	assert.False(t, r2.Present.Has(dataset.HasScore))

	require.Len(t, out.InvalidDates, 1)
	assert.Equal(t, 2, out.InvalidDates[0].Row)
	assert.ErrorIs(t, out.InvalidDates[0], dataset.ErrInvalidDate)

	// input rows are untouched
	assert.Equal(t, "NaN", rows[1][3])
}

func TestNormalizeLargeCounts(t *testing.T) {
	rows := [][]string{
		{"2024-07-01", "a", "t", "x", "3e9", "4200000000.0", "0.5", ""},
		{"2024-07-01", "a", "t", "x", "1e300", "12.5", "0.5", ""},
	}
	out := dataset.Normalize(header, rows)
	r0 := out.Records[0]
	require.True(t, r0.Present.Has(dataset.HasScore))
	assert.Equal(t, 3000000000, r0.Score)
	assert.Equal(t, 4200000000, r0.NumComments)
	assert.Equal(t, "3000000000", r0.Value(dataset.FieldScore))

	r1 := out.Records[1]
	assert.False(t, r1.Present.Has(dataset.HasScore), "out of int range")
	assert.False(t, r1.Present.Has(dataset.HasNumComments), "not integral")
}

func TestNormalizeIdempotent(t *testing.T) {
	rows := [][]string{
		{"2024-07-01 10:00:00", " golang ", "Hello", "null", "10.0", "3", "0.50", "#go #gophers"},
		{"bad", "rust", "World", "text", "", "7", "", ""},
	}
	first := dataset.Normalize(header, rows).Records

	canon := make([][]string, len(first))
	for i, r := range first {
		for _, name := range header {
			canon[i] = append(canon[i], r.Value(dataset.Field(name)))
		}
	}
	second := dataset.Normalize(header, canon).Records
	assert.Equal(t, first, second)
}

func TestNormalizeSuppliedSentiment(t *testing.T) {
	h := append(append([]string{}, header...), "sentiment_score", "sentiment_label")
	rows := [][]string{
		{"2024-07-01", "a", "t", "x", "1", "1", "0.5", "", "0.6", "Negative"},
		{"2024-07-01", "a", "t", "x", "1", "1", "0.5", "", "0.05", "Neutral"},
		{"2024-07-01", "a", "t", "x", "1", "1", "0.5", "", "4", "Positive"},
	}
	out := dataset.Normalize(h, rows)
	assert.Equal(t, sentiment.Positive, out.Records[0].SentimentLabel)
	assert.Equal(t, sentiment.Neutral, out.Records[1].SentimentLabel)
	assert.False(t, out.Records[2].Present.Has(dataset.HasSentiment))
	assert.Equal(t, 1, out.Relabeled)
}

func sample() *dataset.Dataset {
	rows := [][]string{
		{"2024-06-30", "a", "", "", "1", "1", "", ""},
		{"2024-07-01", "b", "", "", "1", "1", "", ""},
		{"oops", "c", "", "", "1", "1", "", ""},
		{"2024-07-15", "d", "", "", "1", "1", "", ""},
		{"2024-07-31", "e", "", "", "1", "1", "", ""},
		{"2024-08-01", "f", "", "", "1", "1", "", ""},
	}
	return dataset.New("sample.csv", dataset.Normalize(header, rows).Records)
}

func TestFilterInclusiveBounds(t *testing.T) {
	ds := sample()
	start := dataset.NewDate(2024, time.July, 1)
	end := dataset.NewDate(2024, time.July, 31)

	v := dataset.Filter(ds, start, end)
	assert.Equal(t, []int{1, 3, 4}, v.Indices())
	assert.Equal(t, "b", v.At(0).Subreddit)
	assert.Same(t, ds, v.Dataset())

	again := dataset.Filter(v, start, end)
	assert.Equal(t, v.Indices(), again.Indices())

	narrower := dataset.Filter(v, dataset.NewDate(2024, time.July, 10), end)
	assert.Equal(t, []int{3, 4}, narrower.Indices())
	assert.Equal(t, 6, ds.Len(), "filtering never mutates the dataset")
}

func TestFilterEmptyCases(t *testing.T) {
	ds := sample()
	june := dataset.Filter(ds, dataset.NewDate(2023, time.June, 1), dataset.NewDate(2023, time.June, 30))
	assert.Equal(t, 0, june.Len())
	reversed := dataset.Filter(ds, dataset.NewDate(2024, time.July, 31), dataset.NewDate(2024, time.July, 1))
	assert.Equal(t, 0, reversed.Len())
	invalid := dataset.Filter(ds, dataset.InvalidDate, dataset.NewDate(2024, time.July, 1))
	assert.Equal(t, 0, invalid.Len())
}

func TestDatasetAccessors(t *testing.T) {
	ds := sample()
	assert.Equal(t, 1, ds.InvalidDates())
	first, last, ok := ds.DateSpan()
	require.True(t, ok)
	assert.Equal(t, "2024-06-30", first.String())
	assert.Equal(t, "2024-08-01", last.String())

	recs := ds.Records()
	recs[0].Subreddit = "changed"
	assert.Equal(t, "a", ds.At(0).Subreddit)

	all := dataset.All(ds)
	assert.Equal(t, ds.Len(), all.Len())
}

func TestDisplayRenaming(t *testing.T) {
	assert.Equal(t, "Likes", dataset.DisplayName(dataset.FieldScore))
	assert.Equal(t, "Comments", dataset.DisplayName(dataset.FieldNumComments))
	assert.Equal(t, "upvote_ratio", dataset.DisplayName(dataset.FieldUpvoteRatio))

	r := sample().At(1)
	d := dataset.Display(r)
	require.NotNil(t, d.Likes)
	assert.Equal(t, 1, *d.Likes)
	assert.Nil(t, d.UpvoteRatio)
	assert.Equal(t, "2024-07-01", d.Date)
}

func TestFieldKinds(t *testing.T) {
	assert.Equal(t, dataset.KindNumeric, dataset.FieldScore.Kind())
	assert.True(t, dataset.FieldSubreddit.Categorical())
	assert.False(t, dataset.FieldUpvoteRatio.Categorical())
	_, ok := dataset.ParseField("likes")
	assert.False(t, ok)
}
