package conform

import (
	"math/rand"
	"strings"
)

// Sampler produces a finite, restartable stream of random strings over an
// alphabet. Lengths are uniform in [minLen, maxLen] and symbols uniform over
// the alphabet. The PRNG is explicit and seeded: two samplers built with the
// same arguments produce identical streams, and Reset replays the stream
// from the beginning.
type Sampler struct {
	symbols []rune
	minLen  int
	maxLen  int
	seed    int64
	rng     *rand.Rand
}

// NewSampler builds a sampler. minLen is clamped to [0, maxLen]; an empty
// alphabet yields only strings of empty symbols, i.e. the empty string.
func NewSampler(symbols []rune, minLen, maxLen int, seed int64) *Sampler {
	if maxLen < 0 {
		maxLen = 0
	}
	if minLen < 0 {
		minLen = 0
	}
	if minLen > maxLen {
		minLen = maxLen
	}
	s := &Sampler{
		symbols: append([]rune(nil), symbols...),
		minLen:  minLen,
		maxLen:  maxLen,
		seed:    seed,
	}
	s.Reset()
	return s
}

// Next draws the next random string.
func (s *Sampler) Next() string {
	length := s.minLen
	if span := s.maxLen - s.minLen; span > 0 {
		length += s.rng.Intn(span + 1)
	}
	if len(s.symbols) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteRune(s.symbols[s.rng.Intn(len(s.symbols))])
	}
	return b.String()
}

// Reset restarts the stream from the seed: the next calls to Next replay the
// exact sequence produced after construction.
func (s *Sampler) Reset() {
	s.rng = rand.New(rand.NewSource(s.seed))
}

// Seed returns the seed this sampler replays from.
func (s *Sampler) Seed() int64 {
	return s.seed
}
