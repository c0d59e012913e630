package perturb

import (
	"strings"
	"testing"

	"perturbkit/internal/document"
	"perturbkit/internal/lexicon"

	"github.com/stretchr/testify/require"
)

func testLexicon() *lexicon.Lexicon {
	return lexicon.New(map[lexicon.Category][]string{
		lexicon.Women:   {"Mary", "Ann", "Linda"},
		lexicon.Men:     {"John", "Bob", "Tom"},
		lexicon.Last:    {"Smith", "Jones", "Brown"},
		lexicon.City:    {"Paris", "Lisbon", "Madrid"},
		lexicon.Country: {"France", "Portugal", "Spain"},
	})
}

func testPerturber(seed uint64) *Perturber {
	return NewSeeded(testLexicon(), seed)
}

// span marks the tokens [from, to) of a document as one entity.
type span struct {
	from, to int
	label    document.EntityType
}

// makeDoc tokenizes text on spaces, splitting off a trailing punctuation
// run, and attaches the given entity spans.
func makeDoc(t *testing.T, text string, spans ...span) document.Document {
	t.Helper()
	var toks []document.Token
	for _, w := range strings.Fields(text) {
		core := strings.TrimRight(w, ".!?,")
		if core != "" {
			pos := document.POSNoun
			if isDigits(core) {
				pos = document.POSNum
			}
			toks = append(toks, document.Token{Text: core, POS: pos})
		}
		for _, r := range w[len(core):] {
			toks = append(toks, document.Token{Text: string(r), POS: document.POSPunct})
		}
	}

	d := document.Document{Text: text, Tokens: toks}
	for _, s := range spans {
		var idx []int
		var words []string
		for i := s.from; i < s.to; i++ {
			d.Tokens[i].EntType = s.label
			d.Tokens[i].POS = document.POSPropn
			idx = append(idx, i)
			words = append(words, d.Tokens[i].Text)
		}
		d.Entities = append(d.Entities, document.Entity{Text: strings.Join(words, " "), Label: s.label, Tokens: idx})
	}
	require.NoError(t, d.Validate())
	return d
}
