package sentiment

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon maps lower-cased words (and emoticons) to a valence in [-4, 4].
type Lexicon map[string]float64

// DefaultLexicon returns a copy of the complete VADER lexicon.
func DefaultLexicon() Lexicon {
	b := base()
	lex := make(Lexicon, len(b.Lexicon))
	for w, v := range b.Lexicon {
		lex[w] = v
	}
	return lex
}

// lexiconFile is the YAML layout accepted by LoadLexiconFile.
type lexiconFile struct {
	Words map[string]float64 `yaml:"words"`
}

// LoadLexiconFile reads a YAML document of the form
//
//	words:
//	  superb: 3.0
//	  meh: -0.4
func LoadLexiconFile(path string) (Lexicon, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	var lf lexiconFile
	if err := yaml.Unmarshal(b, &lf); err != nil {
		return nil, fmt.Errorf("parse lexicon yaml: %w", err)
	}
	lex := make(Lexicon, len(lf.Words))
	for w, v := range lf.Words {
		if v < -4 || v > 4 {
			return nil, fmt.Errorf("lexicon word %q: valence %.2f outside [-4, 4]", w, v)
		}
		lex[strings.ToLower(strings.TrimSpace(w))] = v
	}
	return lex, nil
}

// Merge returns a new lexicon with the entries of other layered over l.
func (l Lexicon) Merge(other Lexicon) Lexicon {
	out := make(Lexicon, len(l)+len(other))
	for k, v := range l {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
