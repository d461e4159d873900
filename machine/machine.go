// Package machine models a deterministic finite acceptor (DFA).
//
// A Machine is validated entirely at construction time and is immutable
// afterwards: the transition function must be total over states × alphabet,
// the start state and every accept state must be declared, and every
// transition target must be declared. A missing entry is a construction
// error, never a runtime trap.
//
// Accepts is a pure function of (machine, input): O(len(input)) time and no
// allocation beyond the rune decoding of the input itself.
package machine

import (
	"github.com/lattice-substrate/lang-conform/langerr"
)

// State is an opaque state label.
type State string

// Config carries the five components of a DFA. All fields are deep-copied by
// New; callers may reuse or mutate the config afterwards.
type Config struct {
	States      []State
	Alphabet    []rune
	Transitions map[State]map[rune]State
	Start       State
	Accept      []State
}

// Machine is an immutable deterministic finite acceptor.
type Machine struct {
	states   []State
	alphabet []rune
	trans    map[State]map[rune]State
	start    State
	accept   map[State]bool

	stateSet  map[State]bool
	symbolSet map[rune]bool
}

// New validates cfg and builds a Machine.
//
// Failure classes: INVALID_SYMBOL for duplicate states or alphabet symbols,
// INVALID_START and INVALID_ACCEPT for undeclared designated states, and
// INCOMPLETE_TRANSITIONS when any (state, symbol) pair lacks an entry or a
// transition targets an undeclared state.
func New(cfg Config) (*Machine, error) {
	if len(cfg.States) == 0 {
		return nil, langerr.New(langerr.InvalidStart, "machine has no states")
	}

	stateSet := make(map[State]bool, len(cfg.States))
	for _, s := range cfg.States {
		if stateSet[s] {
			return nil, langerr.Newf(langerr.InvalidSymbol, "duplicate state %q", s)
		}
		stateSet[s] = true
	}

	symbolSet := make(map[rune]bool, len(cfg.Alphabet))
	for _, r := range cfg.Alphabet {
		if symbolSet[r] {
			return nil, langerr.Newf(langerr.InvalidSymbol, "duplicate alphabet symbol %q", r)
		}
		symbolSet[r] = true
	}

	if !stateSet[cfg.Start] {
		return nil, langerr.Newf(langerr.InvalidStart, "start state %q not declared", cfg.Start)
	}

	accept := make(map[State]bool, len(cfg.Accept))
	for _, s := range cfg.Accept {
		if !stateSet[s] {
			return nil, langerr.Newf(langerr.InvalidAccept, "accept state %q not declared", s)
		}
		accept[s] = true
	}

	// Totality: every state × symbol pair has exactly one declared target.
	trans := make(map[State]map[rune]State, len(cfg.States))
	for _, s := range cfg.States {
		row := cfg.Transitions[s]
		copied := make(map[rune]State, len(cfg.Alphabet))
		for _, r := range cfg.Alphabet {
			target, ok := row[r]
			if !ok {
				return nil, langerr.Newf(langerr.IncompleteTransitions,
					"no transition for state %q on symbol %q", s, r)
			}
			if !stateSet[target] {
				return nil, langerr.Newf(langerr.IncompleteTransitions,
					"transition (%q, %q) targets undeclared state %q", s, r, target)
			}
			copied[r] = target
		}
		trans[s] = copied
	}

	m := &Machine{
		states:    append([]State(nil), cfg.States...),
		alphabet:  append([]rune(nil), cfg.Alphabet...),
		trans:     trans,
		start:     cfg.Start,
		accept:    accept,
		stateSet:  stateSet,
		symbolSet: symbolSet,
	}
	return m, nil
}

// Accepts runs the machine on input and reports whether it halts in an
// accept state. An input symbol outside the declared alphabet fails with
// SYMBOL_NOT_IN_ALPHABET; that is a caller contract violation, not a reject.
func (m *Machine) Accepts(input string) (bool, error) {
	current := m.start
	for _, r := range input {
		if !m.symbolSet[r] {
			return false, langerr.Newf(langerr.SymbolNotInAlphabet, "symbol %q not in alphabet", r)
		}
		current = m.trans[current][r]
	}
	return m.accept[current], nil
}

// States returns the state labels in declaration order.
func (m *Machine) States() []State {
	return append([]State(nil), m.states...)
}

// Alphabet returns the alphabet symbols in declaration order.
func (m *Machine) Alphabet() []rune {
	return append([]rune(nil), m.alphabet...)
}

// Start returns the designated start state.
func (m *Machine) Start() State {
	return m.start
}

// IsAccept reports whether s is an accept state.
func (m *Machine) IsAccept(s State) bool {
	return m.accept[s]
}

// Next returns the transition target for (s, symbol). ok is false when
// either coordinate is undeclared.
func (m *Machine) Next(s State, symbol rune) (next State, ok bool) {
	if !m.stateSet[s] || !m.symbolSet[symbol] {
		return "", false
	}
	return m.trans[s][symbol], true
}

// Decide implements the conform.Decider capability.
func (m *Machine) Decide(input string) (bool, error) {
	return m.Accepts(input)
}

// Symbols implements the conform.Decider capability.
func (m *Machine) Symbols() []rune {
	return m.Alphabet()
}

// Size is the sampling size metric: the number of states.
func (m *Machine) Size() int {
	return len(m.states)
}

// MinInputLen is 0: the empty string is a valid acceptor input and is
// included when sampling.
func (m *Machine) MinInputLen() int {
	return 0
}
