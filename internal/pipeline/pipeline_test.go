package pipeline_test

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Mahek1394/research-engineering-intern-assignment/internal/dataset"
	"github.com/Mahek1394/research-engineering-intern-assignment/internal/parser"
	"github.com/Mahek1394/research-engineering-intern-assignment/internal/pipeline"
	"github.com/Mahek1394/research-engineering-intern-assignment/internal/sentiment"
)

const header = "date,subreddit,title,selftext,score,num_comments,upvote_ratio,hashtags\n"

func payload(rows ...string) pipeline.Payload {
	return pipeline.Payload{Name: "posts.csv", Data: []byte(header + strings.Join(rows, "\n") + "\n")}
}

func newPipeline(t *testing.T, opt pipeline.LoadOptions) (*pipeline.Pipeline, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return pipeline.New(sentiment.NewDefault(), pipeline.Options{Load: opt, Registerer: reg}), reg
}

func TestLoadBasic(t *testing.T) {
	p, _ := newPipeline(t, pipeline.LoadOptions{})
	ds, err := p.Load(payload(
		"2024-07-01,golang,Hello,I love this!,10,3,0.9,#go",
		"2024-07-02,rust,World,,4,1,0.5,",
		"garbage,python,Misc,This is terrible.,1,0,,",
	))
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, "posts.csv", ds.Name())

	assert.Equal(t, sentiment.Positive, ds.At(0).SentimentLabel)

	// absent selftext scores neutral
	r1 := ds.At(1)
	assert.Equal(t, "", r1.Selftext)
	assert.Equal(t, 0.0, r1.SentimentScore)
	assert.Equal(t, sentiment.Neutral, r1.SentimentLabel)

	// bad dates are kept with the sentinel when no window is applied
	r2 := ds.At(2)
	assert.False(t, r2.Date.Valid())
	assert.Equal(t, sentiment.Negative, r2.SentimentLabel)
	assert.Equal(t, 1, ds.InvalidDates())

	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		assert.Equal(t, sentiment.LabelFor(r.SentimentScore), r.SentimentLabel)
	}
}

func TestLoadMemoizes(t *testing.T) {
	p, reg := newPipeline(t, pipeline.LoadOptions{})
	pl := payload("2024-07-01,golang,Hello,good,1,1,0.5,")

	first, err := p.Load(pl)
	require.NoError(t, err)
	second, err := p.Load(pipeline.Payload{Name: pl.Name, Data: append([]byte(nil), pl.Data...)})
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, p.Len())

	expected := `
# HELP socialdash_cache_hits_total Loads served from the dataset cache.
# TYPE socialdash_cache_hits_total counter
socialdash_cache_hits_total 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "socialdash_cache_hits_total"))

	p.Forget(p.Key(pl))
	assert.Equal(t, 0, p.Len())
	third, err := p.Load(pl)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestLoadConcurrentScoresOnce(t *testing.T) {
	p, reg := newPipeline(t, pipeline.LoadOptions{})
	pl := payload(
		"2024-07-01,a,t,I love this!,1,1,0.5,",
		"2024-07-02,b,t,This is terrible.,1,1,0.5,",
		"2024-07-03,c,t,,1,1,0.5,",
	)

	const n = 16
	got := make([]*dataset.Dataset, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds, err := p.Load(pl)
			if err == nil {
				got[i] = ds
			}
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		require.NotNil(t, got[i])
		assert.Same(t, got[0], got[i])
	}
	expected := `
# HELP socialdash_sentiment_scored_total Records by origin of their sentiment score.
# TYPE socialdash_sentiment_scored_total counter
socialdash_sentiment_scored_total{source="computed"} 3
socialdash_sentiment_scored_total{source="supplied"} 0
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "socialdash_sentiment_scored_total"))
}

func TestLoadMissingColumns(t *testing.T) {
	p, _ := newPipeline(t, pipeline.LoadOptions{})
	ds, err := p.Load(pipeline.Payload{Name: "x.csv", Data: []byte("date,subreddit,title,selftext,score,num_comments,upvote_ratio\n2024-07-01,a,b,c,1,2,0.5\n")})
	assert.Nil(t, ds)
	var mc *dataset.MissingColumnsError
	require.ErrorAs(t, err, &mc)
	assert.Equal(t, []string{"hashtags"}, mc.Missing)
	assert.True(t, pipeline.IsFatal(err))
	assert.Equal(t, 0, p.Len(), "failed loads are not cached")
}

func TestLoadRequireSentimentColumns(t *testing.T) {
	p, _ := newPipeline(t, pipeline.LoadOptions{RequireSentimentColumns: true})
	_, err := p.Load(payload("2024-07-01,a,t,x,1,1,0.5,"))
	var mc *dataset.MissingColumnsError
	require.ErrorAs(t, err, &mc)
	assert.Equal(t, []string{"sentiment_label", "sentiment_score"}, mc.Missing)
}

func TestLoadParseError(t *testing.T) {
	p, _ := newPipeline(t, pipeline.LoadOptions{})
	ds, err := p.Load(pipeline.Payload{Name: "empty.csv"})
	assert.Nil(t, ds)
	assert.True(t, errors.Is(err, dataset.ErrParse))
	assert.True(t, errors.Is(err, parser.ErrNoHeader))
	assert.Contains(t, err.Error(), "empty.csv")

	_, err = p.Load(pipeline.Payload{Name: "broken.xlsx", Data: []byte("plain text")})
	var pe *dataset.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "broken.xlsx", pe.Name)
}

func TestLoadFixedWindow(t *testing.T) {
	p, _ := newPipeline(t, pipeline.LoadOptions{RequireFixedWindow: true})
	ds, err := p.Load(payload(
		"2024-06-30,a,t,x,1,1,0.5,",
		"2024-07-01,b,t,x,1,1,0.5,",
		"garbage,c,t,x,1,1,0.5,",
		"2024-07-31 23:00:00,d,t,x,1,1,0.5,",
		"2024-08-01,e,t,x,1,1,0.5,",
	))
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "b", ds.At(0).Subreddit)
	assert.Equal(t, "d", ds.At(1).Subreddit)
	assert.Equal(t, 0, ds.InvalidDates())
}

func TestLoadCustomWindow(t *testing.T) {
	p, _ := newPipeline(t, pipeline.LoadOptions{
		RequireFixedWindow: true,
		Window:             pipeline.Window{Start: dataset.NewDate(2024, time.June, 1), End: dataset.NewDate(2024, time.June, 30)},
	})
	ds, err := p.Load(payload("2024-06-30,a,t,x,1,1,0.5,", "2024-07-01,b,t,x,1,1,0.5,"))
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, "a", ds.At(0).Subreddit)
}

func TestLoadEmptyWindowIsNotFatal(t *testing.T) {
	p, _ := newPipeline(t, pipeline.LoadOptions{RequireFixedWindow: true})
	ds, err := p.Load(payload("2024-06-01,a,t,x,1,1,0.5,", "2024-06-15,b,t,x,1,1,0.5,"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, dataset.ErrEmptyDataset))
	assert.False(t, pipeline.IsFatal(err))
	require.NotNil(t, ds)
	assert.True(t, ds.Empty())
	assert.Contains(t, err.Error(), "2024-07-01..2024-07-31")

	// the empty result is memoized like any other
	again, err2 := p.Load(payload("2024-06-01,a,t,x,1,1,0.5,", "2024-06-15,b,t,x,1,1,0.5,"))
	assert.Same(t, ds, again)
	assert.ErrorIs(t, err2, dataset.ErrEmptyDataset)
}

func TestLoadHeaderOnly(t *testing.T) {
	p, _ := newPipeline(t, pipeline.LoadOptions{})
	ds, err := p.Load(pipeline.Payload{Name: "posts.csv", Data: []byte(header)})
	assert.ErrorIs(t, err, dataset.ErrEmptyDataset)
	require.NotNil(t, ds)
	assert.Equal(t, 0, ds.Len())
}

func TestLoadSuppliedSentiment(t *testing.T) {
	data := []byte(strings.TrimSuffix(header, "\n") + ",sentiment_score,sentiment_label\n" +
		"2024-07-01,a,t,This is terrible.,1,1,0.5,,0.9,Negative\n" +
		"2024-07-02,b,t,I love this!,1,1,0.5,,,\n")
	pl := pipeline.Payload{Name: "scored.csv", Data: data}

	p, reg := newPipeline(t, pipeline.LoadOptions{RequireSentimentColumns: true})
	ds, err := p.Load(pl)
	require.NoError(t, err)
	assert.Equal(t, 0.9, ds.At(0).SentimentScore)
	assert.Equal(t, sentiment.Positive, ds.At(0).SentimentLabel, "label follows the supplied score")
	assert.Equal(t, sentiment.Positive, ds.At(1).SentimentLabel, "missing score is computed")

	expected := `
# HELP socialdash_sentiment_scored_total Records by origin of their sentiment score.
# TYPE socialdash_sentiment_scored_total counter
socialdash_sentiment_scored_total{source="computed"} 1
socialdash_sentiment_scored_total{source="supplied"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "socialdash_sentiment_scored_total"))

	recomputed, err := p.LoadWith(pl, pipeline.LoadOptions{RecomputeSentiment: true})
	require.NoError(t, err)
	assert.NotSame(t, ds, recomputed)
	assert.Equal(t, sentiment.Negative, recomputed.At(0).SentimentLabel)
	assert.Equal(t, 2, p.Len())
}

func TestCacheKey(t *testing.T) {
	data := []byte(header)
	base := pipeline.CacheKey("csv", pipeline.LoadOptions{}, data)
	assert.Equal(t, base, pipeline.CacheKey("csv", pipeline.LoadOptions{}, []byte(header)))
	assert.NotEqual(t, base, pipeline.CacheKey("tsv", pipeline.LoadOptions{}, data))
	assert.NotEqual(t, base, pipeline.CacheKey("csv", pipeline.LoadOptions{RequireFixedWindow: true}, data))
	assert.Equal(t,
		pipeline.CacheKey("csv", pipeline.LoadOptions{Window: pipeline.DefaultWindow()}, data),
		base, "zero window means the default window")
}

func TestLoadNameFollowsUpload(t *testing.T) {
	p, _ := newPipeline(t, pipeline.LoadOptions{})
	data := []byte(header + "2024-07-01,a,t,good,1,1,0.5,\n")

	a, err := p.Load(pipeline.Payload{Name: "exports/a.csv", Data: data})
	require.NoError(t, err)
	b, err := p.Load(pipeline.Payload{Name: "b.csv", Data: data})
	require.NoError(t, err)
	assert.Equal(t, "a.csv", a.Name())
	assert.Equal(t, "b.csv", b.Name())
	assert.Equal(t, a.Records(), b.Records())
	assert.Equal(t, 1, p.Len(), "equal bytes share one cache entry")

	again, err := p.Load(pipeline.Payload{Name: "a.csv", Data: data})
	require.NoError(t, err)
	assert.Same(t, a, again)

	empty := []byte(header)
	_, err = p.Load(pipeline.Payload{Name: "first.csv", Data: empty})
	require.ErrorIs(t, err, dataset.ErrEmptyDataset)
	ds, err := p.Load(pipeline.Payload{Name: "second.csv", Data: empty})
	require.ErrorIs(t, err, dataset.ErrEmptyDataset)
	assert.Equal(t, "second.csv", ds.Name())
	var ee *dataset.EmptyDatasetError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "second.csv", ee.Name)
}

func TestLoadXLSXDateCells(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"date", "subreddit", "title", "selftext", "score", "num_comments", "upvote_ratio", "hashtags"},
		{time.Date(2024, time.July, 5, 10, 30, 0, 0, time.UTC), "golang", "Hello", "I love this!", 10, 3, 0.9, "#go"},
		{time.Date(2024, time.August, 2, 0, 0, 0, 0, time.UTC), "rust", "Late", "", 4, 1, 0.5, ""},
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &rows[i]))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	p, _ := newPipeline(t, pipeline.LoadOptions{RequireFixedWindow: true})
	ds, err := p.Load(pipeline.Payload{Name: "posts.xlsx", Data: buf.Bytes()})
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, "2024-07-05", ds.At(0).Date.String())
	assert.Equal(t, 0, ds.InvalidDates())
	assert.Equal(t, 10, ds.At(0).Score)
}
