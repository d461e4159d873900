package grammar

import (
	"io"
	"sort"

	"golang.org/x/exp/ebnf"

	"github.com/lattice-substrate/lang-conform/langerr"
)

// FromEBNF reads a grammar written in EBNF notation and builds an
// unrestricted Grammar from it. name is used in parse error positions; start
// names the start production.
//
// Only the constructs the grammar model can represent are admitted:
// production bodies must be alternatives of sequences of production names and
// single-rune quoted tokens. Options, repetitions, groups, ranges, and empty
// bodies (epsilon) are outside the model and fail with INVALID_FILE naming
// the production. Production names should be capitalized; the EBNF notation
// treats lowercase names as lexical productions with extra constraints.
func FromEBNF(name string, src io.Reader, start string) (*Grammar, error) {
	parsed, err := ebnf.Parse(name, src)
	if err != nil {
		return nil, langerr.Wrap(langerr.InvalidFile, "parse EBNF", err)
	}
	if err := ebnf.Verify(parsed, start); err != nil {
		return nil, langerr.Wrap(langerr.InvalidFile, "verify EBNF", err)
	}

	nonterminals := make([]string, 0, len(parsed))
	for prodName := range parsed {
		nonterminals = append(nonterminals, prodName)
	}
	sort.Strings(nonterminals)

	var terminals []rune
	seen := make(map[rune]bool)
	productions := make(map[string][][]string, len(parsed))

	for _, prodName := range nonterminals {
		prod := parsed[prodName]
		if prod.Expr == nil {
			return nil, langerr.Newf(langerr.InvalidFile,
				"production %s is empty (epsilon productions are not modeled)", prodName)
		}
		var bodies [][]string
		for _, alt := range alternatives(prod.Expr) {
			body, err := bodySymbols(prodName, alt)
			if err != nil {
				return nil, err
			}
			for _, sym := range body {
				if r, single := singleRune(sym); single && !seen[r] {
					if _, isProd := parsed[sym]; !isProd {
						seen[r] = true
						terminals = append(terminals, r)
					}
				}
			}
			bodies = append(bodies, body)
		}
		productions[prodName] = bodies
	}

	return NewGrammar(GrammarConfig{
		Terminals:    terminals,
		Nonterminals: nonterminals,
		Productions:  productions,
		Start:        start,
	})
}

// alternatives splits a production body into its top-level alternatives.
func alternatives(expr ebnf.Expression) []ebnf.Expression {
	if alt, ok := expr.(ebnf.Alternative); ok {
		return alt
	}
	return []ebnf.Expression{expr}
}

// bodySymbols flattens one alternative into a symbol sequence.
func bodySymbols(prodName string, expr ebnf.Expression) ([]string, error) {
	seq, ok := expr.(ebnf.Sequence)
	if !ok {
		seq = ebnf.Sequence{expr}
	}
	body := make([]string, 0, len(seq))
	for _, e := range seq {
		switch v := e.(type) {
		case *ebnf.Name:
			body = append(body, v.String)
		case *ebnf.Token:
			r, single := singleRune(v.String)
			if !single {
				return nil, langerr.Newf(langerr.InvalidFile,
					"production %s: token %q is not a single terminal symbol", prodName, v.String)
			}
			body = append(body, string(r))
		case *ebnf.Option:
			return nil, langerr.Newf(langerr.InvalidFile,
				"production %s: options are not representable in this model", prodName)
		case *ebnf.Repetition:
			return nil, langerr.Newf(langerr.InvalidFile,
				"production %s: repetitions are not representable in this model", prodName)
		case *ebnf.Group:
			return nil, langerr.Newf(langerr.InvalidFile,
				"production %s: groups are not representable in this model", prodName)
		case *ebnf.Range:
			return nil, langerr.Newf(langerr.InvalidFile,
				"production %s: character ranges are not representable in this model", prodName)
		default:
			return nil, langerr.Newf(langerr.InvalidFile,
				"production %s: unsupported EBNF construct", prodName)
		}
	}
	return body, nil
}
