package grammar

import (
	"errors"

	"github.com/lattice-substrate/lang-conform/langerr"
)

// ErrNoNormalFormer is returned by Grammar.NormalForm when no transformer
// was supplied.
var ErrNoNormalFormer = errors.New("grammar: no normal-form transformer supplied")

// GrammarConfig carries an unrestricted context-free grammar. Production
// bodies are symbol sequences of any length ≥ 1; each symbol names either a
// declared nonterminal or a declared single-rune terminal.
type GrammarConfig struct {
	Terminals    []rune
	Nonterminals []string
	Productions  map[string][][]string
	Start        string
}

// Grammar is an immutable context-free grammar without the normal-form shape
// restriction. It has no decision procedure of its own: convert it through a
// NormalFormer first.
type Grammar struct {
	terminals    []rune
	nonterminals []string
	productions  map[string][][]string
	start        string
}

// NormalFormer converts an unrestricted grammar into an equivalent CNF
// grammar, or fails if the grammar is not representable within the modeled
// constructs. The conversion algorithm is external to this package.
type NormalFormer interface {
	NormalForm(g *Grammar) (*CNF, error)
}

// NewGrammar validates cfg and builds a Grammar. Validation mirrors NewCNF
// minus the body-shape rule: declarations must be duplicate-free and
// collision-free, the start symbol declared, and every body symbol declared.
// Empty bodies are rejected (no epsilon productions in this model).
func NewGrammar(cfg GrammarConfig) (*Grammar, error) {
	termSet, ids, err := declareSymbols(cfg.Terminals, cfg.Nonterminals)
	if err != nil {
		return nil, err
	}

	if _, ok := ids[cfg.Start]; !ok {
		return nil, langerr.Newf(langerr.InvalidStart, "start symbol %q not declared", cfg.Start)
	}

	productions := make(map[string][][]string, len(cfg.Productions))
	for left, bodies := range cfg.Productions {
		if _, ok := ids[left]; !ok {
			return nil, langerr.Newf(langerr.InvalidSymbol, "production head %q not declared", left)
		}
		copied := make([][]string, 0, len(bodies))
		for _, body := range bodies {
			if len(body) == 0 {
				return nil, langerr.Newf(langerr.InvalidSymbol,
					"production %s has an empty body (epsilon productions are not modeled)", left)
			}
			for _, sym := range body {
				if !declared(sym, termSet, ids) {
					return nil, langerr.Newf(langerr.InvalidSymbol,
						"production %s -> %v references undeclared symbol %q", left, body, sym)
				}
			}
			copied = append(copied, append([]string(nil), body...))
		}
		productions[left] = copied
	}

	return &Grammar{
		terminals:    append([]rune(nil), cfg.Terminals...),
		nonterminals: append([]string(nil), cfg.Nonterminals...),
		productions:  productions,
		start:        cfg.Start,
	}, nil
}

// NormalForm converts the grammar to CNF through nf.
func (g *Grammar) NormalForm(nf NormalFormer) (*CNF, error) {
	if nf == nil {
		return nil, ErrNoNormalFormer
	}
	return nf.NormalForm(g)
}

// Terminals returns the terminal symbols in declaration order.
func (g *Grammar) Terminals() []rune {
	return append([]rune(nil), g.terminals...)
}

// Nonterminals returns the nonterminal labels in declaration order.
func (g *Grammar) Nonterminals() []string {
	return append([]string(nil), g.nonterminals...)
}

// Start returns the designated start symbol.
func (g *Grammar) Start() string {
	return g.start
}

// Productions returns a copy of the production map.
func (g *Grammar) Productions() map[string][][]string {
	out := make(map[string][][]string, len(g.productions))
	for left, bodies := range g.productions {
		copied := make([][]string, len(bodies))
		for i, body := range bodies {
			copied[i] = append([]string(nil), body...)
		}
		out[left] = copied
	}
	return out
}
