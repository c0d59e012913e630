package perturb

import "errors"

// DefaultSamples caps the variants a rule returns for one document when no
// explicit cap is given.
const DefaultSamples = 10

var ErrShapeMismatch = errors.New("original does not match variant type")

// Substitution records one replaced span.
type Substitution struct {
	Original    string `json:"original"`
	Replacement string `json:"replacement"`
}

// Meta describes how a variant was produced. It is empty for a kept
// original and for rules that do not track substitutions.
type Meta []Substitution

// Kind tells whether a rule produced one variant or a list of them.
type Kind int

const (
	Single Kind = iota
	Many
)

func (k Kind) String() string {
	if k == Single {
		return "single"
	}
	return "many"
}

// Output is the result of one rule invocation on one document. A nil
// *Output means the rule produced nothing for that document.
//
// Variants and Meta always have the same length.
type Output[V any] struct {
	Kind     Kind
	Variants []V
	Meta     []Meta
}

// One wraps a single variant.
func One[V any](v V, m Meta) *Output[V] {
	return &Output[V]{Kind: Single, Variants: []V{v}, Meta: []Meta{m}}
}

// List wraps a list of variants, padding metas with empty entries when the
// rule has none. An empty list yields nil.
func List[V any](vs []V, metas []Meta) *Output[V] {
	if len(vs) == 0 {
		return nil
	}
	return &Output[V]{Kind: Many, Variants: vs, Meta: align(metas, len(vs))}
}

func (o *Output[V]) Len() int {
	if o == nil {
		return 0
	}
	return len(o.Variants)
}

// Rule turns one input into zero or more variants.
type Rule[T, V any] func(T) *Output[V]

// align returns n metadata entries, filling missing or nil ones with empty
// Meta.
func align(metas []Meta, n int) []Meta {
	out := make([]Meta, n)
	copy(out, metas)
	for i := range out {
		if out[i] == nil {
			out[i] = Meta{}
		}
	}
	return out
}
