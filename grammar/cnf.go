// Package grammar models context-free grammars and decides membership for
// grammars in Chomsky normal form via the CYK algorithm.
//
// Two grammar shapes exist. CNF restricts every production body to either a
// single terminal or exactly two nonterminals and is directly recognizable.
// Grammar places no shape restriction on bodies; it cannot be recognized
// directly and must first pass through a NormalFormer, an external transform
// whose algorithm this package deliberately does not supply.
//
// Terminals are runes; nonterminals are opaque string labels. The two
// identity spaces are disjoint: a single-rune nonterminal label that collides
// with a declared terminal is a construction error.
package grammar

import (
	"github.com/lattice-substrate/lang-conform/langerr"
)

// CNFConfig carries the four components of a Chomsky-normal-form grammar.
// Each production body is either []string{"a"} (one terminal) or
// []string{"B", "C"} (two nonterminals). All fields are deep-copied by NewCNF.
type CNFConfig struct {
	Terminals    []rune
	Nonterminals []string
	Productions  map[string][][]string
	Start        string
}

// CNF is an immutable grammar in Chomsky normal form.
type CNF struct {
	terminals    []rune
	nonterminals []string
	productions  map[string][][]string
	start        string

	// Interned recognition indexes, fixed at construction.
	ids       map[string]int // nonterminal label -> id
	startID   int
	termRules map[rune][]int // A -> r, keyed by r, values are ids of A
	pairRules []pairRule     // A -> B C
	prodCount int
}

// pairRule is an interned production A -> B C.
type pairRule struct {
	a, b, c int
}

// NewCNF validates cfg and builds a CNF grammar.
//
// Failure classes: INVALID_SYMBOL for duplicate or colliding declarations and
// for production bodies referencing undeclared symbols, INVALID_START for an
// undeclared start symbol, and NOT_IN_NORMAL_FORM for a body that is neither
// one terminal nor two nonterminals. Failures name the offending production.
func NewCNF(cfg CNFConfig) (*CNF, error) {
	termSet, ids, err := declareSymbols(cfg.Terminals, cfg.Nonterminals)
	if err != nil {
		return nil, err
	}

	startID, ok := ids[cfg.Start]
	if !ok {
		return nil, langerr.Newf(langerr.InvalidStart, "start symbol %q not declared", cfg.Start)
	}

	g := &CNF{
		terminals:    append([]rune(nil), cfg.Terminals...),
		nonterminals: append([]string(nil), cfg.Nonterminals...),
		productions:  make(map[string][][]string, len(cfg.Productions)),
		start:        cfg.Start,
		ids:          ids,
		startID:      startID,
		termRules:    make(map[rune][]int),
	}

	for left, bodies := range cfg.Productions {
		leftID, ok := ids[left]
		if !ok {
			return nil, langerr.Newf(langerr.InvalidSymbol, "production head %q not declared", left)
		}
		copied := make([][]string, 0, len(bodies))
		for _, body := range bodies {
			if err := g.internBody(leftID, left, body, termSet); err != nil {
				return nil, err
			}
			copied = append(copied, append([]string(nil), body...))
			g.prodCount++
		}
		g.productions[left] = copied
	}

	return g, nil
}

// internBody validates one production body and adds it to the recognition
// indexes.
func (g *CNF) internBody(leftID int, left string, body []string, termSet map[rune]bool) error {
	for _, sym := range body {
		if !declared(sym, termSet, g.ids) {
			return langerr.Newf(langerr.InvalidSymbol,
				"production %s -> %v references undeclared symbol %q", left, body, sym)
		}
	}
	switch len(body) {
	case 1:
		r, ok := terminalRune(body[0], termSet)
		if !ok {
			return langerr.Newf(langerr.NotInNormalForm,
				"production %s -> %v: single-symbol body must be a terminal", left, body)
		}
		g.termRules[r] = append(g.termRules[r], leftID)
	case 2:
		b, okB := g.ids[body[0]]
		c, okC := g.ids[body[1]]
		if !okB || !okC {
			return langerr.Newf(langerr.NotInNormalForm,
				"production %s -> %v: two-symbol body must be two nonterminals", left, body)
		}
		g.pairRules = append(g.pairRules, pairRule{a: leftID, b: b, c: c})
	default:
		return langerr.Newf(langerr.NotInNormalForm,
			"production %s -> %v: body length %d (want 1 or 2)", left, body, len(body))
	}
	return nil
}

// declareSymbols checks terminal/nonterminal declarations for duplicates and
// identity-space collisions and interns the nonterminals.
func declareSymbols(terminals []rune, nonterminals []string) (map[rune]bool, map[string]int, error) {
	termSet := make(map[rune]bool, len(terminals))
	for _, r := range terminals {
		if termSet[r] {
			return nil, nil, langerr.Newf(langerr.InvalidSymbol, "duplicate terminal %q", r)
		}
		termSet[r] = true
	}

	ids := make(map[string]int, len(nonterminals))
	for i, nt := range nonterminals {
		if nt == "" {
			return nil, nil, langerr.New(langerr.InvalidSymbol, "empty nonterminal label")
		}
		if _, dup := ids[nt]; dup {
			return nil, nil, langerr.Newf(langerr.InvalidSymbol, "duplicate nonterminal %q", nt)
		}
		if r, single := singleRune(nt); single && termSet[r] {
			return nil, nil, langerr.Newf(langerr.InvalidSymbol,
				"symbol %q declared as both terminal and nonterminal", nt)
		}
		ids[nt] = i
	}
	return termSet, ids, nil
}

// declared reports whether sym names a declared terminal or nonterminal.
func declared(sym string, termSet map[rune]bool, ids map[string]int) bool {
	if _, ok := ids[sym]; ok {
		return true
	}
	_, ok := terminalRune(sym, termSet)
	return ok
}

// terminalRune resolves sym as a declared single-rune terminal.
func terminalRune(sym string, termSet map[rune]bool) (rune, bool) {
	r, single := singleRune(sym)
	if !single || !termSet[r] {
		return 0, false
	}
	return r, true
}

func singleRune(s string) (rune, bool) {
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, false
	}
	return runes[0], true
}

// Terminals returns the terminal symbols in declaration order.
func (g *CNF) Terminals() []rune {
	return append([]rune(nil), g.terminals...)
}

// Nonterminals returns the nonterminal labels in declaration order.
func (g *CNF) Nonterminals() []string {
	return append([]string(nil), g.nonterminals...)
}

// Start returns the designated start symbol.
func (g *CNF) Start() string {
	return g.start
}

// Productions returns a copy of the production map in declaration shape.
func (g *CNF) Productions() map[string][][]string {
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

// ProductionCount is the total number of production bodies.
func (g *CNF) ProductionCount() int {
	return g.prodCount
}

// Decide implements the conform.Decider capability. Recognition of a string
// of declared terminals never fails; undeclared runes simply match no
// production and the string is not recognized.
func (g *CNF) Decide(input string) (bool, error) {
	return g.Recognizes(input), nil
}

// Symbols implements the conform.Decider capability: the terminal alphabet.
func (g *CNF) Symbols() []rune {
	return g.Terminals()
}

// Size is the sampling size metric: the total production count.
func (g *CNF) Size() int {
	return g.prodCount
}

// MinInputLen is 1: this normal form admits no empty production, so the
// empty string lies outside every CNF grammar's language and is excluded
// from sampling.
func (g *CNF) MinInputLen() int {
	return 1
}
