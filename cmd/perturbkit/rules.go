package main

import (
	"fmt"
	"sort"

	"perturbkit/internal/document"
	"perturbkit/internal/perturb"
)

// ruleSettings are the per-rule options accepted on the command line.
type ruleSettings struct {
	N         int
	Typos     int
	FirstOnly bool
	LastOnly  bool
}

type ruleFactory struct {
	needsLexicon bool
	build        func(p *perturb.Perturber, s ruleSettings) perturb.Rule[document.Document, string]
}

var ruleFactories = map[string]ruleFactory{
	"names": {true, func(p *perturb.Perturber, s ruleSettings) perturb.Rule[document.Document, string] {
		return p.NamesRule(perturb.NameOptions{N: s.N, FirstOnly: s.FirstOnly, LastOnly: s.LastOnly})
	}},
	"location": {true, func(p *perturb.Perturber, s ruleSettings) perturb.Rule[document.Document, string] {
		return p.LocationRule(s.N)
	}},
	"number": {false, func(p *perturb.Perturber, s ruleSettings) perturb.Rule[document.Document, string] {
		return p.NumberRule(s.N)
	}},
	"punctuation": {false, func(p *perturb.Perturber, _ ruleSettings) perturb.Rule[document.Document, string] {
		return p.PunctuationRule()
	}},
	"contractions": {false, func(p *perturb.Perturber, _ ruleSettings) perturb.Rule[document.Document, string] {
		return perturb.OnText(p.ContractionsRule())
	}},
	"typos": {false, func(p *perturb.Perturber, s ruleSettings) perturb.Rule[document.Document, string] {
		return p.TyposDocRule(s.Typos)
	}},
}

func ruleNames() []string {
	names := make([]string, 0, len(ruleFactories))
	for k := range ruleFactories {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func lookupRule(name string) (ruleFactory, error) {
	f, ok := ruleFactories[name]
	if !ok {
		return ruleFactory{}, fmt.Errorf("unknown rule %q (available: %v)", name, ruleNames())
	}
	return f, nil
}
