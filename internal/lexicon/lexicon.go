// Package lexicon provides the read-only word lists the perturbation rules
// draw substitutes from: first names by gender, last names, cities and
// countries. A Lexicon is built once and shared; it is never mutated.
package lexicon

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

type Category string

const (
	Women   Category = "women"
	Men     Category = "men"
	Last    Category = "last"
	City    Category = "city"
	Country Category = "country"
)

// Required lists the categories every rule expects to find.
var Required = []Category{Women, Men, Last, City, Country}

var ErrMissingCategory = errors.New("lexicon category missing")

// Lexicon keeps each category both as an ordered list (for sampling) and as
// a set (for membership tests).
type Lexicon struct {
	lists map[Category][]string
	sets  map[Category]map[string]struct{}
}

// New builds a Lexicon from category lists. Entries are NFC-normalised so
// membership tests agree with normalised document text.
func New(data map[Category][]string) *Lexicon {
	l := &Lexicon{
		lists: make(map[Category][]string, len(data)),
		sets:  make(map[Category]map[string]struct{}, len(data)),
	}
	for cat, words := range data {
		list := make([]string, 0, len(words))
		set := make(map[string]struct{}, len(words))
		for _, w := range words {
			w = norm.NFC.String(w)
			list = append(list, w)
			set[w] = struct{}{}
		}
		l.lists[cat] = list
		l.sets[cat] = set
	}
	return l
}

// List returns the ordered entries of a category. Callers must not modify it.
func (l *Lexicon) List(cat Category) []string {
	return l.lists[cat]
}

// Head returns at most the first n entries of a category.
func (l *Lexicon) Head(cat Category, n int) []string {
	list := l.lists[cat]
	if n < len(list) {
		return list[:n]
	}
	return list
}

// Has reports whether word is an exact member of the category.
func (l *Lexicon) Has(cat Category, word string) bool {
	_, ok := l.sets[cat][word]
	return ok
}

// Categories returns the number of entries per category.
func (l *Lexicon) Categories() map[Category]int {
	out := make(map[Category]int, len(l.lists))
	for cat, list := range l.lists {
		out[cat] = len(list)
	}
	return out
}

// Validate checks that every required category is present and non-empty.
func (l *Lexicon) Validate() error {
	for _, cat := range Required {
		if len(l.lists[cat]) == 0 {
			return fmt.Errorf("%w: %s", ErrMissingCategory, cat)
		}
	}
	return nil
}

// Capitalize upper-cases the first rune and lower-cases the rest, which is
// the normal form name lists are keyed by ("mARY" -> "Mary").
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	head := cases.Upper(language.Und).String(string(r[:1]))
	return head + cases.Lower(language.Und).String(string(r[1:]))
}

// Load reads the names file (gender and last-name lists) and the basic
// lexicon file (city and country lists).
func Load(namesPath, basicPath string) (*Lexicon, error) {
	names, err := readLists(namesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load names: %w", err)
	}
	basic, err := readLists(basicPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load basic lexicon: %w", err)
	}

	data := make(map[Category][]string)
	for k, v := range names {
		data[Category(k)] = v
	}
	// basic.json carries many more word classes; only places are used.
	for _, cat := range []Category{City, Country} {
		if v, ok := basic[string(cat)]; ok {
			data[cat] = v
		}
	}

	lex := New(data)
	if err := lex.Validate(); err != nil {
		return nil, err
	}
	return lex, nil
}

// LoadDir loads names.json and basic.json from dir.
func LoadDir(dir string) (*Lexicon, error) {
	return Load(filepath.Join(dir, "names.json"), filepath.Join(dir, "basic.json"))
}

// readLists decodes a JSON object, keeping only members whose value is a
// list of strings.
func readLists(path string) (map[string][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	out := make(map[string][]string, len(obj))
	for k, v := range obj {
		var list []string
		if err := json.Unmarshal(v, &list); err != nil {
			continue
		}
		out[k] = list
	}
	return out, nil
}
