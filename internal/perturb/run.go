package perturb

import (
	"go.uber.org/zap"
)

// RunOptions controls how Run drives a rule over a corpus.
type RunOptions[T, V any] struct {
	// KeepOriginal puts the stringified original first in every group.
	KeepOriginal bool
	// ReturnsMeta collects metadata groups alongside variant groups.
	ReturnsMeta bool
	// NSamples stops after that many documents produced variants. When
	// set, documents are visited in random order. Zero means no cap.
	NSamples int
	// Original renders a document in variant form. Defaults to StringifyAs.
	Original func(T) (V, error)
	Logger   *zap.Logger
}

func NewRunOptions[T, V any]() RunOptions[T, V] {
	return RunOptions[T, V]{KeepOriginal: true}
}

// CorpusResult holds one group per document that produced variants.
// Meta is nil unless metadata was requested; Sources holds the corpus index
// each group came from.
type CorpusResult[V any] struct {
	Groups  [][]V    `json:"groups"`
	Meta    [][]Meta `json:"meta,omitempty"`
	Sources []int    `json:"sources"`
}

func (r *CorpusResult[V]) Len() int {
	return len(r.Groups)
}

// Run applies rule to every document of corpus and collects the variants.
// Documents for which the rule produces nothing are skipped entirely,
// including their kept original, and do not count toward NSamples.
func Run[T, V any](p *Perturber, corpus []T, rule Rule[T, V], opts RunOptions[T, V]) (*CorpusResult[V], error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	original := opts.Original
	if original == nil {
		original = func(d T) (V, error) { return StringifyAs[V](d) }
	}

	order := make([]int, len(corpus))
	for i := range order {
		order[i] = i
	}
	if opts.NSamples > 0 {
		p.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	res := &CorpusResult[V]{}
	if opts.ReturnsMeta {
		res.Meta = [][]Meta{}
	}
	skipped := 0
	for _, i := range order {
		d := corpus[i]
		var group []V
		var metas []Meta
		if opts.KeepOriginal {
			org, err := original(d)
			if err != nil {
				return nil, err
			}
			group = append(group, org)
			metas = append(metas, Meta{})
		}

		out := rule(d)
		if out.Len() == 0 {
			skipped++
			log.Debug("no perturbation produced", zap.Int("document", i))
			continue
		}

		om := align(out.Meta, len(out.Variants))
		switch out.Kind {
		case Single:
			group = append(group, out.Variants[0])
			metas = append(metas, om[0])
		default:
			group = append(group, out.Variants...)
			metas = append(metas, om...)
		}

		res.Groups = append(res.Groups, group)
		res.Sources = append(res.Sources, i)
		if opts.ReturnsMeta {
			res.Meta = append(res.Meta, metas)
		}
		if opts.NSamples > 0 && len(res.Groups) == opts.NSamples {
			break
		}
	}

	log.Debug("perturbation run finished",
		zap.Int("documents", len(corpus)),
		zap.Int("groups", len(res.Groups)),
		zap.Int("skipped", skipped))
	return res, nil
}
