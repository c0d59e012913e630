package perturb

import (
	"strings"

	"github.com/dlclark/regexp2"

	"perturbkit/internal/textutil"
)

type pair struct{ from, to string }

// Pattern alternation is tried in this order, so a shorter key listed
// first wins over a longer one sharing its prefix.
var contractionPairs = []pair{
	{"ain't", "is not"}, {"aren't", "are not"}, {"can't", "cannot"},
	{"can't've", "cannot have"}, {"could've", "could have"}, {"couldn't", "could not"},
	{"didn't", "did not"}, {"doesn't", "does not"}, {"don't", "do not"},
	{"hadn't", "had not"}, {"hasn't", "has not"}, {"haven't", "have not"},
	{"he'd", "he would"}, {"he'd've", "he would have"}, {"he'll", "he will"},
	{"he's", "he is"}, {"how'd", "how did"}, {"how'd'y", "how do you"},
	{"how'll", "how will"}, {"how's", "how is"},
	{"I'd", "I would"}, {"I'll", "I will"}, {"I'm", "I am"}, {"I've", "I have"},
	{"i'd", "i would"}, {"i'll", "i will"}, {"i'm", "i am"}, {"i've", "i have"},
	{"isn't", "is not"}, {"it'd", "it would"}, {"it'll", "it will"}, {"it's", "it is"},
	{"ma'am", "madam"}, {"might've", "might have"}, {"mightn't", "might not"},
	{"must've", "must have"}, {"mustn't", "must not"}, {"needn't", "need not"},
	{"oughtn't", "ought not"}, {"shan't", "shall not"},
	{"she'd", "she would"}, {"she'll", "she will"}, {"she's", "she is"},
	{"should've", "should have"}, {"shouldn't", "should not"},
	{"that'd", "that would"}, {"that's", "that is"},
	{"there'd", "there would"}, {"there's", "there is"},
	{"they'd", "they would"}, {"they'll", "they will"}, {"they're", "they are"}, {"they've", "they have"},
	{"wasn't", "was not"}, {"we'd", "we would"}, {"we'll", "we will"}, {"we're", "we are"}, {"we've", "we have"},
	{"weren't", "were not"}, {"what're", "what are"}, {"what's", "what is"},
	{"when's", "when is"}, {"where'd", "where did"}, {"where's", "where is"}, {"where've", "where have"},
	{"who'll", "who will"}, {"who's", "who is"}, {"who've", "who have"}, {"why's", "why is"},
	{"won't", "will not"}, {"would've", "would have"}, {"wouldn't", "would not"},
	{"you'd", "you would"}, {"you'd've", "you would have"}, {"you'll", "you will"},
	{"you're", "you are"}, {"you've", "you have"},
}

var expansionPairs = []pair{
	{"is not", "isn't"}, {"are not", "aren't"}, {"cannot", "can't"},
	{"could not", "couldn't"}, {"did not", "didn't"}, {"does not", "doesn't"},
	{"do not", "don't"}, {"had not", "hadn't"}, {"has not", "hasn't"},
	{"have not", "haven't"}, {"he is", "he's"}, {"how did", "how'd"}, {"how is", "how's"},
	{"I would", "I'd"}, {"I will", "I'll"}, {"I am", "I'm"},
	{"i would", "i'd"}, {"i will", "i'll"}, {"i am", "i'm"},
	{"it would", "it'd"}, {"it will", "it'll"}, {"it is", "it's"},
	{"might not", "mightn't"}, {"must not", "mustn't"}, {"need not", "needn't"},
	{"ought not", "oughtn't"}, {"shall not", "shan't"},
	{"she would", "she'd"}, {"she will", "she'll"}, {"she is", "she's"},
	{"should not", "shouldn't"}, {"that would", "that'd"}, {"that is", "that's"},
	{"there would", "there'd"}, {"there is", "there's"},
	{"they would", "they'd"}, {"they will", "they'll"}, {"they are", "they're"},
	{"was not", "wasn't"}, {"we would", "we'd"}, {"we will", "we'll"}, {"we are", "we're"},
	{"were not", "weren't"}, {"what are", "what're"}, {"what is", "what's"},
	{"when is", "when's"}, {"where did", "where'd"}, {"where is", "where's"},
	{"who will", "who'll"}, {"who is", "who's"}, {"who have", "who've"}, {"why is", "why's"},
	{"will not", "won't"}, {"would not", "wouldn't"},
	{"you would", "you'd"}, {"you will", "you'll"}, {"you are", "you're"},
}

// toggler rewrites every listed form found in a sentence. Lookup is exact
// first, then lower-cased; the first rune of the match is kept.
type toggler struct {
	re     *regexp2.Regexp
	lookup map[string]string
	suffix string
}

func newToggler(pairs []pair, suffix string) *toggler {
	alts := make([]string, len(pairs))
	lookup := make(map[string]string, len(pairs))
	for i, p := range pairs {
		alts[i] = regexp2.Escape(p.from)
		lookup[p.from] = p.to
	}
	expr := `\b(` + strings.Join(alts, "|") + `)\b` + regexp2.Escape(suffix)
	return &toggler{
		re:     regexp2.MustCompile(expr, regexp2.IgnoreCase),
		lookup: lookup,
		suffix: suffix,
	}
}

func (t *toggler) apply(sentence string) string {
	out, err := t.re.ReplaceFunc(sentence, func(m regexp2.Match) string {
		match := m.GroupByNumber(1).String()
		to, ok := t.lookup[match]
		if !ok {
			to = t.lookup[strings.ToLower(match)]
		}
		return textutil.KeepFirst(match, to) + t.suffix
	}, -1, -1)
	if err != nil {
		return sentence
	}
	return out
}

var (
	expander   = newToggler(contractionPairs, "")
	contractor = newToggler(expansionPairs, " ")
)

// ExpandContractions replaces every known contraction with its expansion
// ("Don't" -> "Do not").
func ExpandContractions(sentence string) string {
	return expander.apply(sentence)
}

// Contract replaces every known expanded form followed by a space with its
// contraction ("do not go" -> "don't go").
func Contract(sentence string) string {
	return contractor.apply(sentence)
}

// Contractions returns the expanded and the contracted sentence, keeping
// only those that differ from the input.
func Contractions(sentence string) []string {
	var out []string
	for _, t := range []string{ExpandContractions(sentence), Contract(sentence)} {
		if t != sentence {
			out = append(out, t)
		}
	}
	return out
}

// ContractionsRule adapts Contractions to a Rule over raw sentences.
func (p *Perturber) ContractionsRule() Rule[string, string] {
	return func(s string) *Output[string] {
		return List(Contractions(s), nil)
	}
}
