package conform

import (
	"regexp"

	"github.com/lattice-substrate/lang-conform/langerr"
)

// Reference is the ground truth a model is checked against: either a
// compiled full-match regular expression or an arbitrary predicate.
type Reference struct {
	re *regexp.Regexp
	fn func(string) bool
}

// Pattern builds a Reference from a regular expression matched against the
// entire sampled string (the pattern is anchored; "0|1(0|1)*" means the whole
// string, not a substring).
func Pattern(expr string) (Reference, error) {
	re, err := regexp.Compile(`\A(?:` + expr + `)\z`)
	if err != nil {
		return Reference{}, langerr.Wrap(langerr.InvalidFile, "compile pattern", err)
	}
	return Reference{re: re}, nil
}

// Predicate builds a Reference from an arbitrary membership function.
func Predicate(fn func(string) bool) Reference {
	return Reference{fn: fn}
}

func (r Reference) match(s string) (bool, error) {
	switch {
	case r.re != nil:
		return r.re.MatchString(s), nil
	case r.fn != nil:
		return r.fn(s), nil
	default:
		return false, langerr.New(langerr.InternalError, "empty reference")
	}
}
