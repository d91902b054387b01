package sentiment

import (
	"math"
	"strings"
	"sync"

	"github.com/jonreiter/govader"
)

// base is the stock VADER analyzer. Building it parses the full lexicon, so
// it is done once and shared read-only.
var base = sync.OnceValue(govader.NewSentimentIntensityAnalyzer)

// Analyzer scores text polarity with the VADER rules against a fixed
// lexicon. It holds no mutable state after construction and is safe for
// concurrent use.
type Analyzer struct {
	sia *govader.SentimentIntensityAnalyzer
}

// New builds an analyzer over a private copy of lex. The VADER booster,
// negation and emoji tables are shared with the default analyzer.
func New(lex Lexicon) *Analyzer {
	b := base()
	words := make(map[string]float64, len(lex))
	for w, v := range lex {
		words[w] = v
	}
	return &Analyzer{sia: &govader.SentimentIntensityAnalyzer{
		Lexicon:   words,
		EmojiDict: b.EmojiDict,
		Constants: b.Constants,
	}}
}

// NewDefault builds an analyzer over the complete VADER lexicon.
func NewDefault() *Analyzer {
	return &Analyzer{sia: base()}
}

// Size reports the number of lexicon entries.
func (a *Analyzer) Size() int { return len(a.sia.Lexicon) }

// Classify scores text and returns the score with its label.
func (a *Analyzer) Classify(text string) (float64, Label) {
	s := a.Score(text)
	return s, LabelFor(s)
}

// Score returns the normalized compound polarity of text in [-1, 1], rounded
// to four decimals. Text with no lexicon hits scores 0.
func (a *Analyzer) Score(text string) float64 {
	// tokens are split on single spaces downstream
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return 0
	}
	c := a.sia.PolarityScores(text).Compound
	return math.Round(c*1e4) / 1e4
}
