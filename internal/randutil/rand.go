// Package randutil provides the seeded random stream shared by a match.
//
// Every card dealt and every probabilistic CPU choice is drawn from one LCG
// in call order, so fixing the seed and the action sequence fixes the match.
package randutil

import rand "math/rand/v2"

const (
	lcgMultiplier = 1664525
	lcgIncrement  = 1013904223
	lcgModulus    = 1 << 32
)

// Source is the minimal random stream consumed by the deck and the CPU.
type Source interface {
	Float64() float64
}

// LCG is a 32-bit linear congruential generator:
// state = (state*1664525 + 1013904223) mod 2^32.
// It is not safe for concurrent use.
type LCG struct {
	state uint32
	draws uint64
}

// New returns an LCG seeded from the provided int64. Only the low 32 bits of
// the seed participate, matching the modulus of the generator.
func New(seed int64) *LCG {
	return &LCG{state: uint32(seed)}
}

func (l *LCG) next() uint32 {
	l.state = l.state*lcgMultiplier + lcgIncrement // wraps mod 2^32
	l.draws++
	return l.state
}

// Float64 advances the stream and returns state/2^32 in [0,1).
func (l *LCG) Float64() float64 {
	return float64(l.next()) / lcgModulus
}

// Uint64 implements math/rand/v2.Source by joining two consecutive states.
func (l *LCG) Uint64() uint64 {
	hi := uint64(l.next())
	lo := uint64(l.next())
	return hi<<32 | lo
}

// Draws reports how many states have been consumed since seeding.
func (l *LCG) Draws() uint64 {
	return l.draws
}

// State returns the current internal state, which can be fed back to
// Restore to resume the stream.
func (l *LCG) State() uint32 {
	return l.state
}

// Restore resets the generator to a state previously returned by State.
func (l *LCG) Restore(state uint32) {
	l.state = state
}

// Rand wraps the LCG in a *rand.Rand for callers that need the wider API.
// Values drawn through the wrapper advance the same stream.
func (l *LCG) Rand() *rand.Rand {
	return rand.New(l)
}

// Intn returns a uniform int in [0,n) using a single Float64 draw, the way
// the deck shuffle consumes the stream. It panics if n <= 0.
func Intn(src Source, n int) int {
	if n <= 0 {
		panic("randutil: invalid argument to Intn")
	}
	i := int(src.Float64() * float64(n))
	if i >= n { // guards float rounding at the top of the range
		i = n - 1
	}
	return i
}

// Scripted replays a fixed sequence of draws and then repeats the last one.
// It exists for tests that need to force a particular branch.
type Scripted struct {
	values []float64
	pos    int
}

// NewScripted returns a Source that yields values in order.
func NewScripted(values ...float64) *Scripted {
	if len(values) == 0 {
		values = []float64{0}
	}
	return &Scripted{values: values}
}

// Float64 returns the next scripted value.
func (s *Scripted) Float64() float64 {
	v := s.values[min(s.pos, len(s.values)-1)]
	s.pos++
	return v
}

// Consumed reports how many values have been drawn.
func (s *Scripted) Consumed() int {
	return s.pos
}
