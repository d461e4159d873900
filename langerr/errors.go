// Package langerr defines the failure taxonomy for lang-conform.
//
// Every error returned by the model constructors, the recognizers, the
// conformance checker, or the CLI maps to exactly one Class, which determines
// the exit code and lets callers distinguish a malformed model or malformed
// call from a valid test outcome. A counterexample found by the conformance
// or equivalence checker is never represented by this package: counterexamples
// are the designed success-path output of a check, not failures.
package langerr

import (
	"errors"
	"fmt"
)

// Class is a stable failure category.
type Class string

const (
	// InvalidStart: the designated start state or start symbol is not a
	// member of the declared state/nonterminal set.
	InvalidStart Class = "INVALID_START"

	// InvalidAccept: an accept state is not a member of the declared states.
	InvalidAccept Class = "INVALID_ACCEPT"

	// IncompleteTransitions: a (state, symbol) pair has no transition entry,
	// or a transition targets an undeclared state. The transition function
	// must be total over states × alphabet.
	IncompleteTransitions Class = "INCOMPLETE_TRANSITIONS"

	// InvalidSymbol: a declaration is malformed (duplicate or multi-rune
	// symbol) or a production references an undeclared terminal/nonterminal.
	InvalidSymbol Class = "INVALID_SYMBOL"

	// NotInNormalForm: a production body violates the Chomsky normal form
	// shape (one terminal, or exactly two nonterminals).
	NotInNormalForm Class = "NOT_IN_NORMAL_FORM"

	// SymbolNotInAlphabet: an acceptor was run on an input containing a
	// symbol that was never declared. Caller contract violation.
	SymbolNotInAlphabet Class = "SYMBOL_NOT_IN_ALPHABET"

	// AlphabetMismatch: equivalence checking was requested for two models
	// that do not share an alphabet.
	AlphabetMismatch Class = "ALPHABET_MISMATCH"

	// InvalidFile: a model description file violates file-level constraints
	// (encoding, strict JSON grammar, section shape) before model
	// construction, or an EBNF source uses constructs outside the model.
	InvalidFile Class = "INVALID_FILE"

	// CLIUsage: malformed command line.
	CLIUsage Class = "CLI_USAGE"

	// InternalIO: an I/O failure unrelated to input validity.
	InternalIO Class = "INTERNAL_IO"

	// InternalError: a bug; should be unreachable.
	InternalError Class = "INTERNAL_ERROR"
)

// ExitCode returns the process exit code for this failure class.
func (c Class) ExitCode() int {
	switch c {
	case InternalIO, InternalError:
		return 10
	default:
		return 2
	}
}

// Error is the structured error type for all lang-conform failures.
type Error struct {
	Class   Class
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("langerr: %s: %s: %v", e.Class, e.Message, e.Cause)
	}
	return fmt.Sprintf("langerr: %s: %s", e.Class, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given class and message.
func New(class Class, message string) *Error {
	return &Error{Class: class, Message: message}
}

// Newf creates a new Error with a formatted message.
func Newf(class Class, format string, args ...any) *Error {
	return &Error{Class: class, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(class Class, message string, cause error) *Error {
	return &Error{Class: class, Message: message, Cause: cause}
}

// ClassOf reports the failure class of err, walking wrapped errors.
// ok is false when no *Error is found in the chain.
func ClassOf(err error) (class Class, ok bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Class, true
	}
	return "", false
}
