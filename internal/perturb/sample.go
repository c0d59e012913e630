package perturb

import "math/rand/v2"

// Sample caps variants at n, drawing n indices uniformly at random without
// replacement when there are more. Each kept variant stays paired with its
// metadata; the order of kept items is the draw order. Empty input yields
// nil. metas may be nil, in which case empty metadata is attached.
func Sample[V any](rng *rand.Rand, variants []V, metas []Meta, n int) *Output[V] {
	if len(variants) == 0 || n <= 0 {
		return nil
	}
	metas = align(metas, len(variants))
	if len(variants) <= n {
		return List(variants, metas)
	}

	idxs := rng.Perm(len(variants))[:n]
	keptV := make([]V, n)
	keptM := make([]Meta, n)
	for i, idx := range idxs {
		keptV[i] = variants[idx]
		keptM[i] = metas[idx]
	}
	return List(keptV, keptM)
}

func (p *Perturber) sample(variants []string, metas []Meta, n int) *Output[string] {
	return Sample(p.rng, variants, metas, n)
}
