package perturb

import (
	"math/big"
	"strings"
	"unicode/utf8"

	"perturbkit/internal/document"
	"perturbkit/internal/lexicon"
	"perturbkit/internal/textutil"
)

// namePool is how far past the sample count the name lists are read.
// Lists are ordered by frequency, so this keeps substitutes common.
const namePool = 90

// NameOptions controls person-name substitution.
type NameOptions struct {
	N int
	// FirstOnly replaces only the first name.
	FirstOnly bool
	// LastOnly replaces only the last name; a single-token name anywhere
	// in the document makes the rule produce nothing.
	LastOnly bool
}

// ChangeNames substitutes person names with names of the same gender.
// Spans whose first token is not a known first name are skipped, as are
// spans whose second token is longer than two characters and not a known
// last name.
func (p *Perturber) ChangeNames(doc document.Document, opts NameOptions) *Output[string] {
	n := samples(opts.N)
	var ret []string
	var metas []Meta

	for _, x := range doc.EntitiesOf(document.EntityPerson) {
		words := strings.Fields(x)
		if len(words) == 0 {
			continue
		}
		first := words[0]

		var sex lexicon.Category
		if p.lex.Has(lexicon.Women, lexicon.Capitalize(first)) {
			sex = lexicon.Women
		}
		if p.lex.Has(lexicon.Men, lexicon.Capitalize(first)) {
			sex = lexicon.Men
		}
		if sex == "" {
			continue
		}

		if len(words) > 1 {
			last := words[1]
			if utf8.RuneCountInString(last) > 2 && !p.lex.Has(lexicon.Last, lexicon.Capitalize(last)) {
				continue
			}
		} else if opts.LastOnly {
			return nil
		}

		firsts := p.choice(p.lex.Head(sex, namePool+n), n)
		target, toUse := first, firsts
		if !opts.FirstOnly {
			target = x
			if len(words) > 1 {
				lasts := p.choice(p.lex.Head(lexicon.Last, namePool+n), n)
				if opts.LastOnly {
					target, toUse = words[1], lasts
				} else {
					toUse = make([]string, 0, len(firsts))
					for i := range firsts {
						if i < len(lasts) {
							toUse = append(toUse, firsts[i]+" "+lasts[i])
						}
					}
				}
			}
		}

		ret, metas = substitute(doc.Text, target, toUse, ret, metas)
	}
	return p.sample(ret, metas, n)
}

// ChangeLocation substitutes cities with cities and countries with
// countries. Spans found in neither list are skipped; a span in both is
// treated as a city.
func (p *Perturber) ChangeLocation(doc document.Document, n int) *Output[string] {
	n = samples(n)
	var ret []string
	var metas []Meta

	for _, x := range doc.EntitiesOf(document.EntityGPE) {
		var cat lexicon.Category
		switch {
		case p.lex.Has(lexicon.City, x):
			cat = lexicon.City
		case p.lex.Has(lexicon.Country, x):
			cat = lexicon.Country
		default:
			continue
		}
		ret, metas = substitute(doc.Text, x, p.choice(p.lex.List(cat), n), ret, metas)
	}
	return p.sample(ret, metas, n)
}

// ChangeNumber perturbs every all-digit token by up to 20% of its value
// (plus one), never going below zero and never reproducing the original
// value. "2" and "4" are skipped since in casual text they usually stand
// for "to" and "for". Fewer than n variants per token may come back.
func (p *Perturber) ChangeNumber(doc document.Document, n int) *Output[string] {
	n = samples(n)
	var ret []string
	var metas []Meta

	for _, tok := range doc.Tokens {
		x := tok.Text
		if !isDigits(x) || x == "2" || x == "4" {
			continue
		}
		v, ok := new(big.Int).SetString(x, 10)
		if !ok {
			continue
		}
		one := big.NewInt(1)
		delta := new(big.Int).Quo(v, big.NewInt(5))
		delta.Add(delta, one)
		low := new(big.Int).Sub(v, one)
		if delta.Cmp(low) < 0 {
			low.Set(delta)
		}
		low.Neg(low)
		width := new(big.Int).Sub(delta, low)
		width.Add(width, one)

		var toUse []string
		for i := 0; i < 3*n && len(toUse) < n; i++ {
			off := p.bigN(width)
			off.Add(off, low)
			if off.Sign() == 0 {
				continue
			}
			toUse = append(toUse, off.Add(off, v).String())
		}
		ret, metas = substitute(doc.Text, x, toUse, ret, metas)
	}
	return p.sample(ret, metas, n)
}

// bigN returns a uniform value in [0, limit).
func (p *Perturber) bigN(limit *big.Int) *big.Int {
	if limit.IsInt64() {
		return big.NewInt(p.rng.Int64N(limit.Int64()))
	}
	bits := limit.BitLen()
	words := (bits + 63) / 64
	buf := make([]byte, words*8)
	for {
		for w := 0; w < words; w++ {
			u := p.rng.Uint64()
			for b := 0; b < 8; b++ {
				buf[w*8+b] = byte(u >> (8 * b))
			}
		}
		r := new(big.Int).SetBytes(buf)
		r.Rsh(r, uint(words*64-bits))
		if r.Cmp(limit) < 0 {
			return r
		}
	}
}

func (p *Perturber) NamesRule(opts NameOptions) Rule[document.Document, string] {
	return func(doc document.Document) *Output[string] {
		return p.ChangeNames(doc, opts)
	}
}

func (p *Perturber) LocationRule(n int) Rule[document.Document, string] {
	return func(doc document.Document) *Output[string] {
		return p.ChangeLocation(doc, n)
	}
}

func (p *Perturber) NumberRule(n int) Rule[document.Document, string] {
	return func(doc document.Document) *Output[string] {
		return p.ChangeNumber(doc, n)
	}
}

// substitute appends one variant of text per replacement, each replacing
// target on word boundaries, with matching metadata.
func substitute(text, target string, replacements []string, ret []string, metas []Meta) ([]string, []Meta) {
	if len(replacements) == 0 {
		return ret, metas
	}
	re := textutil.WordPattern(target)
	for _, y := range replacements {
		ret = append(ret, textutil.ReplaceAll(re, text, y))
		metas = append(metas, Meta{{Original: target, Replacement: y}})
	}
	return ret, metas
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
