package sentiment

import "strings"

// Label is the discrete sentiment class derived from a polarity score.
type Label string

const (
	Positive Label = "Positive"
	Neutral  Label = "Neutral"
	Negative Label = "Negative"
)

// Thresholds separating the three labels. Scores equal to a threshold are Neutral.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// Labels lists every label in display order.
var Labels = []Label{Positive, Neutral, Negative}

// LabelFor maps a polarity score to its label.
func LabelFor(score float64) Label {
	switch {
	case score > PositiveThreshold:
		return Positive
	case score < NegativeThreshold:
		return Negative
	default:
		return Neutral
	}
}

// ParseLabel accepts a label in any letter case.
func ParseLabel(s string) (Label, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return Positive, true
	case "neutral":
		return Neutral, true
	case "negative":
		return Negative, true
	}
	return "", false
}

func (l Label) String() string { return string(l) }
