package perturb

import "perturbkit/internal/document"

// StripPunctuation drops trailing punctuation tokens and returns the text
// that remains. A document without trailing punctuation is returned whole.
func StripPunctuation(doc document.Document) string {
	k := len(doc.Tokens)
	for k > 0 && doc.Tokens[k-1].POS == document.POSPunct {
		k--
	}
	if k == len(doc.Tokens) {
		return doc.Text
	}
	return doc.Prefix(k)
}

// Punctuation proposes the sentence without trailing punctuation and the
// same sentence ending in a single period, keeping each only when it
// differs from the original text.
func Punctuation(doc document.Document) []string {
	s := StripPunctuation(doc)
	var out []string
	if s != doc.Text {
		out = append(out, s)
	}
	if s+"." != doc.Text {
		out = append(out, s+".")
	}
	return out
}

func (p *Perturber) PunctuationRule() Rule[document.Document, string] {
	return func(doc document.Document) *Output[string] {
		return List(Punctuation(doc), nil)
	}
}
