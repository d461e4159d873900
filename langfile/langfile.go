// Package langfile reads machine and grammar descriptions from strict JSON
// files.
//
// A description file holds exactly one model:
//
//	{"machine": {"states": ["q0","q1","q2"],
//	             "alphabet": "01",
//	             "transitions": {"q0": {"0": "q1", "1": "q0"}, …},
//	             "start": "q0",
//	             "accept": ["q2"]}}
//
//	{"grammar": {"terminals": "ab",
//	             "nonterminals": ["S","A","B"],
//	             "productions": {"S": [["A","B"]], "A": [["a"]], "B": [["b"]]},
//	             "start": "S"}}
//
// File-level constraints are enforced before model construction: the bytes
// must be valid UTF-8, the JSON must decode strictly (unknown fields and
// trailing data are rejected), exactly one of the two sections must be
// present, and transition symbol keys must be single runes. File-level
// violations are INVALID_FILE; the model constructors keep their own failure
// classes.
package langfile

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"unicode/utf8"

	"github.com/lattice-substrate/lang-conform/conform"
	"github.com/lattice-substrate/lang-conform/grammar"
	"github.com/lattice-substrate/lang-conform/langerr"
	"github.com/lattice-substrate/lang-conform/machine"
)

// Doc is a parsed description file.
type Doc struct {
	Machine *MachineDoc `json:"machine,omitempty"`
	Grammar *GrammarDoc `json:"grammar,omitempty"`
}

// MachineDoc is the JSON shape of a DFA description.
type MachineDoc struct {
	States      []string                     `json:"states"`
	Alphabet    string                       `json:"alphabet"`
	Transitions map[string]map[string]string `json:"transitions"`
	Start       string                       `json:"start"`
	Accept      []string                     `json:"accept"`
}

// GrammarDoc is the JSON shape of a CNF grammar description.
type GrammarDoc struct {
	Terminals    string                `json:"terminals"`
	Nonterminals []string              `json:"nonterminals"`
	Productions  map[string][][]string `json:"productions"`
	Start        string                `json:"start"`
}

// Parse decodes data into a Doc, enforcing the file-level constraints.
func Parse(data []byte) (*Doc, error) {
	if !utf8.Valid(data) {
		return nil, langerr.New(langerr.InvalidFile, "description is not valid UTF-8")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var doc Doc
	if err := dec.Decode(&doc); err != nil {
		return nil, langerr.Wrap(langerr.InvalidFile, "decode description", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, langerr.New(langerr.InvalidFile, "trailing data after description")
	}

	switch {
	case doc.Machine == nil && doc.Grammar == nil:
		return nil, langerr.New(langerr.InvalidFile, `description has neither "machine" nor "grammar"`)
	case doc.Machine != nil && doc.Grammar != nil:
		return nil, langerr.New(langerr.InvalidFile, `description has both "machine" and "grammar"`)
	}
	return &doc, nil
}

// Load reads and parses the description at path.
func Load(path string) (*Doc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, langerr.Wrap(langerr.InternalIO, "read description", err)
	}
	return Parse(data)
}

// Build constructs the described model behind the shared decision capability.
func (d *Doc) Build() (conform.Decider, error) {
	if d.Machine != nil {
		return d.Machine.Build()
	}
	return d.Grammar.Build()
}

// Build constructs and validates the described machine.
func (d *MachineDoc) Build() (*machine.Machine, error) {
	states := make([]machine.State, len(d.States))
	for i, s := range d.States {
		states[i] = machine.State(s)
	}

	trans := make(map[machine.State]map[rune]machine.State, len(d.Transitions))
	for state, row := range d.Transitions {
		copied := make(map[rune]machine.State, len(row))
		for symbol, target := range row {
			r, ok := singleRune(symbol)
			if !ok {
				return nil, langerr.Newf(langerr.InvalidFile,
					"transition symbol %q is not a single rune", symbol)
			}
			copied[r] = machine.State(target)
		}
		trans[machine.State(state)] = copied
	}

	accept := make([]machine.State, len(d.Accept))
	for i, s := range d.Accept {
		accept[i] = machine.State(s)
	}

	return machine.New(machine.Config{
		States:      states,
		Alphabet:    []rune(d.Alphabet),
		Transitions: trans,
		Start:       machine.State(d.Start),
		Accept:      accept,
	})
}

// Build constructs and validates the described grammar.
func (d *GrammarDoc) Build() (*grammar.CNF, error) {
	return grammar.NewCNF(grammar.CNFConfig{
		Terminals:    []rune(d.Terminals),
		Nonterminals: d.Nonterminals,
		Productions:  d.Productions,
		Start:        d.Start,
	})
}

func singleRune(s string) (rune, bool) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || r == utf8.RuneError && size == 1 {
		return 0, false
	}
	return r, true
}
