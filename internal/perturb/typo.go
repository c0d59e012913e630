package perturb

import "perturbkit/internal/document"

// AddTypos swaps typos randomly chosen pairs of adjacent characters. The
// same position may be drawn more than once; swaps apply in draw order.
// Strings shorter than two characters are returned unchanged.
func (p *Perturber) AddTypos(s string, typos int) string {
	r := []rune(s)
	if len(r) < 2 {
		return s
	}
	for i := 0; i < typos; i++ {
		pos := p.rng.IntN(len(r) - 1)
		r[pos], r[pos+1] = r[pos+1], r[pos]
	}
	return string(r)
}

// TyposRule produces exactly one typo variant per string. A string without
// an adjacent pair produces nothing.
func (p *Perturber) TyposRule(typos int) Rule[string, string] {
	return func(s string) *Output[string] {
		if len([]rune(s)) < 2 {
			return nil
		}
		return One(p.AddTypos(s, typos), Meta{})
	}
}

// TyposDocRule applies TyposRule to a document's text.
func (p *Perturber) TyposDocRule(typos int) Rule[document.Document, string] {
	return OnText(p.TyposRule(typos))
}

// OnText lifts a rule over raw strings to a rule over document text.
func OnText[V any](rule Rule[string, V]) Rule[document.Document, V] {
	return func(doc document.Document) *Output[V] {
		return rule(doc.Text)
	}
}
