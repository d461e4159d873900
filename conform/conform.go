// Package conform statistically checks decidable language models.
//
// Check samples random strings over a model's symbol set and compares the
// model's decision against an independent reference (a full-match regular
// expression or an arbitrary predicate). CheckEquivalence does the same for
// two models against each other. Both stop at the first disagreement and
// return it as a counterexample; a run with no disagreement is reported
// consistent, which is a statistical outcome, not a proof of equivalence.
//
// Sampling is driven by an explicit seeded PRNG: the same seed always yields
// the same sample sequence, so any counterexample run can be replayed from
// the seed recorded in its Report.
//
// A counterexample is never an error. Errors from this package always mean a
// malformed model or a malformed call.
package conform

import (
	"github.com/lattice-substrate/lang-conform/langerr"
)

// Sampling defaults, matching the tested-string budget of the models'
// reference behavior: up to 1000 samples with lengths bounded by 5 × the
// model's size metric.
const (
	DefaultTrials      = 1000
	DefaultScaleFactor = 5
)

// Decider is the capability shared by the language models under test.
// It is implemented by *machine.Machine and *grammar.CNF; the variant set is
// deliberately closed.
type Decider interface {
	// Decide reports language membership of input. An error is a caller
	// contract violation (for example an undeclared symbol), never a reject.
	Decide(input string) (bool, error)

	// Symbols is the alphabet to sample over.
	Symbols() []rune

	// Size is the model's size metric: states for an acceptor, total
	// production count for a grammar. It scales the sampled string length.
	Size() int

	// MinInputLen is the shortest string worth sampling: 0 for acceptors,
	// 1 for CNF grammars (which never derive the empty string).
	MinInputLen() int
}

// Options tunes a check. The zero value uses the defaults above with seed 0;
// 0 is a valid seed, used as given.
type Options struct {
	Trials      int
	ScaleFactor int
	Seed        int64
}

func (o Options) trials() int {
	if o.Trials > 0 {
		return o.Trials
	}
	return DefaultTrials
}

func (o Options) scaleFactor() int {
	if o.ScaleFactor > 0 {
		return o.ScaleFactor
	}
	return DefaultScaleFactor
}

// Report is the outcome of a check.
type Report struct {
	// Consistent is true when every executed trial agreed.
	Consistent bool

	// Counterexample is the first sampled string on which the decisions
	// disagreed. Meaningful only when Consistent is false; note that the
	// empty string is a legitimate counterexample for acceptors.
	Counterexample string

	// Trials is the number of samples actually executed.
	Trials int

	// Seed replays this exact run.
	Seed int64

	// MaxLen is the sampled length bound that was in effect.
	MaxLen int
}

// Check samples random strings over m's symbols and compares m against ref,
// stopping at the first mismatch.
//
// The length bound is ScaleFactor × m.Size(). A decision error from the model
// aborts the check and is returned as-is: it indicates a malformed model or
// call, not a test outcome.
func Check(m Decider, ref Reference, opts Options) (Report, error) {
	maxLen := opts.scaleFactor() * m.Size()
	return run(m.MinInputLen(), maxLen, m.Symbols(), opts, func(sample string) (bool, error) {
		got, err := m.Decide(sample)
		if err != nil {
			return false, err
		}
		want, err := ref.match(sample)
		if err != nil {
			return false, err
		}
		return got == want, nil
	})
}

// CheckEquivalence samples random strings over the models' shared alphabet
// and compares their decisions, stopping at the first disagreement.
//
// The models must share an alphabet (as rune sets); ALPHABET_MISMATCH
// otherwise. The length bound is ScaleFactor × max(a.Size(), b.Size()) and
// the minimum sampled length is max of the models' minimums, so the
// per-sample comparison is symmetric in a and b.
func CheckEquivalence(a, b Decider, opts Options) (Report, error) {
	symbols := a.Symbols()
	if !sameAlphabet(symbols, b.Symbols()) {
		return Report{}, langerr.Newf(langerr.AlphabetMismatch,
			"alphabets differ: %q vs %q", string(symbols), string(b.Symbols()))
	}

	size := a.Size()
	if s := b.Size(); s > size {
		size = s
	}
	minLen := a.MinInputLen()
	if l := b.MinInputLen(); l > minLen {
		minLen = l
	}

	maxLen := opts.scaleFactor() * size
	return run(minLen, maxLen, symbols, opts, func(sample string) (bool, error) {
		gotA, err := a.Decide(sample)
		if err != nil {
			return false, err
		}
		gotB, err := b.Decide(sample)
		if err != nil {
			return false, err
		}
		return gotA == gotB, nil
	})
}

// run executes the trial loop with first-failure semantics.
func run(minLen, maxLen int, symbols []rune, opts Options, agree func(string) (bool, error)) (Report, error) {
	report := Report{Seed: opts.Seed, MaxLen: maxLen}
	sampler := NewSampler(symbols, minLen, maxLen, opts.Seed)
	for i := 0; i < opts.trials(); i++ {
		sample := sampler.Next()
		report.Trials = i + 1
		ok, err := agree(sample)
		if err != nil {
			return Report{}, err
		}
		if !ok {
			report.Counterexample = sample
			return report, nil
		}
	}
	report.Consistent = true
	return report, nil
}

// sameAlphabet compares two alphabets as rune sets, ignoring declaration
// order.
func sameAlphabet(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[rune]bool, len(a))
	for _, r := range a {
		set[r] = true
	}
	for _, r := range b {
		if !set[r] {
			return false
		}
	}
	return true
}
