package document

import (
	"errors"
	"fmt"
	"strings"
)

// POS is a coarse part-of-speech tag (Universal Dependencies tag set).
type POS string

const (
	POSPunct POS = "PUNCT"
	POSPropn POS = "PROPN"
	POSNum   POS = "NUM"
	POSNoun  POS = "NOUN"
	POSVerb  POS = "VERB"
)

// EntityType is a named-entity label.
type EntityType string

const (
	EntityPerson EntityType = "PERSON"
	EntityGPE    EntityType = "GPE"
)

var ErrInvalidDocument = errors.New("invalid document")

type Token struct {
	Text    string     `json:"text"`
	POS     POS        `json:"pos"`
	EntType EntityType `json:"ent_type,omitempty"`
}

// Entity is a contiguous run of tokens carrying one label. Tokens holds
// indices into Document.Tokens.
type Entity struct {
	Text   string     `json:"text"`
	Label  EntityType `json:"label"`
	Tokens []int      `json:"tokens"`
}

// Document is text produced by an external annotation pipeline together
// with its tokens and entity spans. It is read-only once built.
type Document struct {
	Text     string   `json:"text"`
	Tokens   []Token  `json:"tokens"`
	Entities []Entity `json:"entities,omitempty"`
}

func (d Document) String() string {
	return d.Text
}

// Offsets locates each token in Text, searching left to right from the end
// of the previous token.
func (d Document) Offsets() ([]int, error) {
	out := make([]int, len(d.Tokens))
	cursor := 0
	for i, tok := range d.Tokens {
		idx := strings.Index(d.Text[cursor:], tok.Text)
		if idx < 0 {
			return nil, fmt.Errorf("%w: token %d %q not found after offset %d", ErrInvalidDocument, i, tok.Text, cursor)
		}
		out[i] = cursor + idx
		cursor = out[i] + len(tok.Text)
	}
	return out, nil
}

// Validate checks that tokens align with the text and entity indices are in
// range.
func (d Document) Validate() error {
	if _, err := d.Offsets(); err != nil {
		return err
	}
	for i, e := range d.Entities {
		for _, ti := range e.Tokens {
			if ti < 0 || ti >= len(d.Tokens) {
				return fmt.Errorf("%w: entity %d (%q) references token %d of %d", ErrInvalidDocument, i, e.Text, ti, len(d.Tokens))
			}
		}
	}
	return nil
}

// Prefix returns the document text up to the end of token k-1, including
// any whitespace before the first token. Text is returned unchanged when
// the tokens do not align with it.
func (d Document) Prefix(k int) string {
	if k <= 0 || len(d.Tokens) == 0 {
		return ""
	}
	if k > len(d.Tokens) {
		k = len(d.Tokens)
	}
	offs, err := d.Offsets()
	if err != nil {
		return d.Text
	}
	return d.Text[:offs[k-1]+len(d.Tokens[k-1].Text)]
}

// FullyTyped reports whether every token of e carries the given type.
// Tokens without their own type inherit the span label.
func (d Document) FullyTyped(e Entity, t EntityType) bool {
	if len(e.Tokens) == 0 {
		return e.Label == t
	}
	for _, ti := range e.Tokens {
		if ti < 0 || ti >= len(d.Tokens) {
			return false
		}
		typ := d.Tokens[ti].EntType
		if typ == "" {
			typ = e.Label
		}
		if typ != t {
			return false
		}
	}
	return true
}

// EntitiesOf returns the surface text of every span fully typed as t, in
// document order.
func (d Document) EntitiesOf(t EntityType) []string {
	var out []string
	for _, e := range d.Entities {
		if d.FullyTyped(e, t) {
			out = append(out, e.Text)
		}
	}
	return out
}
