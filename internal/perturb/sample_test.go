package perturb

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidates(n int) ([]string, []Meta) {
	vs := make([]string, n)
	ms := make([]Meta, n)
	for i := range vs {
		vs[i] = fmt.Sprintf("v%d", i)
		ms[i] = Meta{{Original: "x", Replacement: vs[i]}}
	}
	return vs, ms
}

func TestSample_CapsWithoutReplacement(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42))
	vs, ms := candidates(15)

	out := Sample(rng, vs, ms, 10)
	require.NotNil(t, out)
	require.Len(t, out.Variants, 10)
	require.Len(t, out.Meta, 10)

	seen := map[string]bool{}
	for i, v := range out.Variants {
		assert.False(t, seen[v], "variant %q drawn twice", v)
		seen[v] = true
		assert.Equal(t, v, out.Meta[i][0].Replacement, "variant and metadata must stay paired")
	}
}

func TestSample_UnderCapKeepsAll(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	vs, ms := candidates(5)

	out := Sample(rng, vs, ms, 10)
	require.NotNil(t, out)
	assert.Equal(t, vs, out.Variants)
	assert.Equal(t, ms, out.Meta)
}

func TestSample_EmptyIsNil(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	assert.Nil(t, Sample[string](rng, nil, nil, 10))
	assert.Nil(t, Sample(rng, []string{"a"}, nil, 0))
}

func TestSample_MissingMetaIsPadded(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 3))
	out := Sample(rng, []string{"a", "b", "c"}, nil, 2)
	require.NotNil(t, out)
	require.Len(t, out.Meta, 2)
	for _, m := range out.Meta {
		assert.NotNil(t, m)
		assert.Empty(t, m)
	}
}
