package perturb

import (
	"math/big"
	"strconv"
	"strings"
	"testing"

	"perturbkit/internal/document"
	"perturbkit/internal/lexicon"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeNames_FullName(t *testing.T) {
	p := testPerturber(1)
	lex := p.Lexicon()
	doc := makeDoc(t, "John Smith went home.", span{0, 2, document.EntityPerson})

	out := p.ChangeNames(doc, NameOptions{N: 5})
	require.NotNil(t, out)
	assert.Equal(t, Many, out.Kind)
	require.Len(t, out.Variants, 5)
	require.Len(t, out.Meta, 5)

	for i, v := range out.Variants {
		m := out.Meta[i]
		require.Len(t, m, 1)
		assert.Equal(t, "John Smith", m[0].Original)

		parts := strings.Fields(m[0].Replacement)
		require.Len(t, parts, 2)
		assert.True(t, lex.Has(lexicon.Men, parts[0]), "first name %q should be male", parts[0])
		assert.True(t, lex.Has(lexicon.Last, parts[1]), "last name %q should be listed", parts[1])
		assert.Equal(t, m[0].Replacement+" went home.", v)
	}
}

func TestChangeNames_FirstOnly(t *testing.T) {
	p := testPerturber(2)
	doc := makeDoc(t, "Mary Jones called John.", span{0, 2, document.EntityPerson})

	out := p.ChangeNames(doc, NameOptions{N: 4, FirstOnly: true})
	require.NotNil(t, out)
	for i, v := range out.Variants {
		m := out.Meta[i][0]
		assert.Equal(t, "Mary", m.Original)
		assert.True(t, p.Lexicon().Has(lexicon.Women, m.Replacement))
		assert.Equal(t, m.Replacement+" Jones called John.", v)
	}
}

func TestChangeNames_LastOnly(t *testing.T) {
	p := testPerturber(3)
	doc := makeDoc(t, "Tom Brown left.", span{0, 2, document.EntityPerson})

	out := p.ChangeNames(doc, NameOptions{N: 3, LastOnly: true})
	require.NotNil(t, out)
	for i, v := range out.Variants {
		m := out.Meta[i][0]
		assert.Equal(t, "Brown", m.Original)
		assert.True(t, p.Lexicon().Has(lexicon.Last, m.Replacement))
		assert.Equal(t, "Tom "+m.Replacement+" left.", v)
	}

	// A single-token name leaves nothing to anchor a last name to.
	single := makeDoc(t, "Tom left.", span{0, 1, document.EntityPerson})
	assert.Nil(t, p.ChangeNames(single, NameOptions{N: 3, LastOnly: true}))
}

func TestChangeNames_SkipsIneligibleSpans(t *testing.T) {
	p := testPerturber(4)

	unknown := makeDoc(t, "Zork Smith went home.", span{0, 2, document.EntityPerson})
	assert.Nil(t, p.ChangeNames(unknown, NameOptions{}))

	badLast := makeDoc(t, "John Xavier went home.", span{0, 2, document.EntityPerson})
	assert.Nil(t, p.ChangeNames(badLast, NameOptions{}))

	shortLast := makeDoc(t, "John Li went home.", span{0, 2, document.EntityPerson})
	out := p.ChangeNames(shortLast, NameOptions{N: 2})
	require.NotNil(t, out)
	assert.Equal(t, "John Li", out.Meta[0][0].Original)

	// Only the eligible span of a mixed document is substituted.
	mixed := makeDoc(t, "Zork met Bob today.", span{0, 1, document.EntityPerson}, span{2, 3, document.EntityPerson})
	out = p.ChangeNames(mixed, NameOptions{N: 3})
	require.NotNil(t, out)
	for _, m := range out.Meta {
		assert.Equal(t, "Bob", m[0].Original)
	}
}

func TestChangeNames_CaseInsensitiveGender(t *testing.T) {
	p := testPerturber(5)
	doc := makeDoc(t, "mary smith sang.", span{0, 2, document.EntityPerson})

	out := p.ChangeNames(doc, NameOptions{N: 2})
	require.NotNil(t, out)
	parts := strings.Fields(out.Meta[0][0].Replacement)
	assert.True(t, p.Lexicon().Has(lexicon.Women, parts[0]))
}

func TestChangeNames_WholeWordOnly(t *testing.T) {
	p := testPerturber(6)
	doc := makeDoc(t, "Anna met Ann.", span{2, 3, document.EntityPerson})

	out := p.ChangeNames(doc, NameOptions{N: 5})
	require.NotNil(t, out)
	for i, v := range out.Variants {
		assert.Equal(t, "Anna met "+out.Meta[i][0].Replacement+".", v)
	}
}

func TestChangeNames_CapsAtN(t *testing.T) {
	p := testPerturber(7)
	doc := makeDoc(t, "John and Mary met Bob.",
		span{0, 1, document.EntityPerson}, span{2, 3, document.EntityPerson}, span{4, 5, document.EntityPerson})

	out := p.ChangeNames(doc, NameOptions{N: 4})
	require.NotNil(t, out)
	assert.Len(t, out.Variants, 4)
	assert.Len(t, out.Meta, 4)
}

func TestChangeLocation(t *testing.T) {
	p := testPerturber(8)
	doc := makeDoc(t, "I moved from Paris to Spain.", span{3, 4, document.EntityGPE}, span{5, 6, document.EntityGPE})

	out := p.ChangeLocation(doc, 20)
	require.NotNil(t, out)
	assert.Len(t, out.Variants, 20, "40 candidates are capped at 20")

	for i, v := range out.Variants {
		m := out.Meta[i][0]
		switch m.Original {
		case "Paris":
			assert.True(t, p.Lexicon().Has(lexicon.City, m.Replacement))
			assert.Equal(t, "I moved from "+m.Replacement+" to Spain.", v)
		case "Spain":
			assert.True(t, p.Lexicon().Has(lexicon.Country, m.Replacement))
			assert.Equal(t, "I moved from Paris to "+m.Replacement+".", v)
		default:
			t.Fatalf("unexpected original %q", m.Original)
		}
	}
}

func TestChangeLocation_Unlisted(t *testing.T) {
	p := testPerturber(9)
	doc := makeDoc(t, "We sailed to Narnia.", span{3, 4, document.EntityGPE})
	assert.Nil(t, p.ChangeLocation(doc, 5))
}

func TestChangeNumber_Range(t *testing.T) {
	p := testPerturber(10)
	doc := makeDoc(t, "I have 10 cats.")

	out := p.ChangeNumber(doc, 10)
	require.NotNil(t, out)
	assert.LessOrEqual(t, len(out.Variants), 10)

	for i, v := range out.Variants {
		m := out.Meta[i][0]
		assert.Equal(t, "10", m.Original)
		n, err := strconv.Atoi(m.Replacement)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 7)
		assert.LessOrEqual(t, n, 13)
		assert.NotEqual(t, 10, n)
		assert.Equal(t, "I have "+m.Replacement+" cats.", v)
	}
}

func TestChangeNumber_ExcludedLiterals(t *testing.T) {
	p := testPerturber(11)
	assert.Nil(t, p.ChangeNumber(makeDoc(t, "Give 2 me."), 10))
	assert.Nil(t, p.ChangeNumber(makeDoc(t, "This is 4 you."), 10))
	assert.Nil(t, p.ChangeNumber(makeDoc(t, "No numbers here."), 10))
}

func TestChangeNumber_SmallValuesStayPositive(t *testing.T) {
	p := testPerturber(12)

	out := p.ChangeNumber(makeDoc(t, "Only 1 left."), 5)
	require.NotNil(t, out)
	for _, m := range out.Meta {
		assert.Equal(t, "2", m[0].Replacement)
	}

	out = p.ChangeNumber(makeDoc(t, "Only 0 left."), 5)
	require.NotNil(t, out)
	for _, m := range out.Meta {
		assert.Equal(t, "1", m[0].Replacement)
	}
}

func TestChangeNumber_WordBoundary(t *testing.T) {
	p := testPerturber(13)
	doc := makeDoc(t, "Room 110 holds 10 chairs.")

	out := p.ChangeNumber(doc, 50)
	require.NotNil(t, out)
	for i, v := range out.Variants {
		m := out.Meta[i][0]
		if m.Original == "10" {
			assert.True(t, strings.HasPrefix(v, "Room 110 holds "), "110 must not be touched: %q", v)
		}
	}
}

func TestRules_Adapters(t *testing.T) {
	p := testPerturber(14)
	doc := makeDoc(t, "Bob flew to Lisbon with 30 bags.", span{0, 1, document.EntityPerson}, span{3, 4, document.EntityGPE})

	assert.NotNil(t, p.NamesRule(NameOptions{N: 2})(doc))
	assert.NotNil(t, p.LocationRule(2)(doc))
	assert.NotNil(t, p.NumberRule(2)(doc))
}

func TestChangeNames_AmbiguousFirstNameIsMale(t *testing.T) {
	lex := lexicon.New(map[lexicon.Category][]string{
		lexicon.Women: {"Alex", "Mary", "Ann"},
		lexicon.Men:   {"Alex", "John", "Tom"},
		lexicon.Last:  {"Smith"},
	})
	p := NewSeeded(lex, 15)
	doc := makeDoc(t, "Alex waved.", span{0, 1, document.EntityPerson})

	out := p.ChangeNames(doc, NameOptions{N: 10, FirstOnly: true})
	require.NotNil(t, out)
	for _, m := range out.Meta {
		assert.Contains(t, []string{"Alex", "John", "Tom"}, m[0].Replacement)
		assert.NotContains(t, []string{"Mary", "Ann"}, m[0].Replacement)
	}
}

func TestChangeLocation_CityBeforeCountry(t *testing.T) {
	lex := lexicon.New(map[lexicon.Category][]string{
		lexicon.City:    {"Georgia", "Paris", "Lisbon"},
		lexicon.Country: {"Georgia", "France", "Spain"},
	})
	p := NewSeeded(lex, 16)
	doc := makeDoc(t, "We drove to Georgia.", span{3, 4, document.EntityGPE})

	out := p.ChangeLocation(doc, 10)
	require.NotNil(t, out)
	for _, m := range out.Meta {
		assert.Contains(t, []string{"Georgia", "Paris", "Lisbon"}, m[0].Replacement)
		assert.NotContains(t, []string{"France", "Spain"}, m[0].Replacement)
	}
}

func TestChangeNumber_BeyondInt64(t *testing.T) {
	p := testPerturber(17)
	const huge = "123456789012345678901234567890"
	doc := makeDoc(t, "It costs "+huge+" coins.")

	out := p.ChangeNumber(doc, 5)
	require.NotNil(t, out)
	require.NotEmpty(t, out.Variants)

	orig, _ := new(big.Int).SetString(huge, 10)
	delta := new(big.Int).Quo(orig, big.NewInt(5))
	delta.Add(delta, big.NewInt(1))
	for i, v := range out.Variants {
		m := out.Meta[i][0]
		assert.Equal(t, huge, m.Original)
		got, ok := new(big.Int).SetString(m.Replacement, 10)
		require.True(t, ok, m.Replacement)
		diff := new(big.Int).Sub(got, orig)
		assert.NotZero(t, diff.Sign())
		assert.LessOrEqual(t, diff.CmpAbs(delta), 0)
		assert.Equal(t, "It costs "+m.Replacement+" coins.", v)
	}
}
