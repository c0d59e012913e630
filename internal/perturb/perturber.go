// Package perturb generates controlled variants of annotated documents for
// behavioural testing of language models: name, location and number
// substitution, contraction toggling, trailing punctuation removal and
// adjacent-character typos. Run drives any rule across a corpus.
//
// A Perturber is not safe for concurrent use: all rules draw from its single
// random source.
package perturb

import (
	"math/rand/v2"
	"time"

	"perturbkit/internal/lexicon"
)

// Perturber carries the shared lexicon and random source every rule uses.
type Perturber struct {
	lex *lexicon.Lexicon
	rng *rand.Rand
}

// New creates a Perturber. A nil rng is replaced by a time-seeded source.
func New(lex *lexicon.Lexicon, rng *rand.Rand) *Perturber {
	if lex == nil {
		lex = lexicon.New(nil)
	}
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &Perturber{lex: lex, rng: rng}
}

// NewSeeded creates a Perturber whose output is reproducible for a seed.
func NewSeeded(lex *lexicon.Lexicon, seed uint64) *Perturber {
	return New(lex, rand.New(rand.NewPCG(seed, seed)))
}

func (p *Perturber) Lexicon() *lexicon.Lexicon {
	return p.lex
}

func (p *Perturber) Rand() *rand.Rand {
	return p.rng
}

// choice draws n items from list with replacement.
func (p *Perturber) choice(list []string, n int) []string {
	if len(list) == 0 || n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		out[i] = list[p.rng.IntN(len(list))]
	}
	return out
}

func samples(n int) int {
	if n <= 0 {
		return DefaultSamples
	}
	return n
}
