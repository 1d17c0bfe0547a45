package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLCGKnownSequence(t *testing.T) {
	t.Parallel()

	rng := New(12345)
	want := []uint32{87628868, 71072467, 2332836374}
	for i, w := range want {
		got := rng.Float64()
		assert.Equal(t, w, rng.State(), "state after draw %d", i)
		assert.InDelta(t, float64(w)/(1<<32), got, 1e-15)
	}
	assert.Equal(t, uint64(3), rng.Draws())
}

func TestLCGZeroSeed(t *testing.T) {
	t.Parallel()

	rng := New(0)
	assert.InDelta(t, 0.23606797284446657, rng.Float64(), 1e-15)
}

func TestLCGSameSeedSameStream(t *testing.T) {
	t.Parallel()

	a, b := New(777), New(777)
	for i := 0; i < 1000; i++ {
		require.Equal(t, a.Float64(), b.Float64(), "draw %d diverged", i)
	}
}

func TestLCGRange(t *testing.T) {
	t.Parallel()

	rng := New(42)
	for i := 0; i < 10000; i++ {
		v := rng.Float64()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestLCGRestore(t *testing.T) {
	t.Parallel()

	rng := New(99)
	rng.Float64()
	saved := rng.State()
	first := rng.Float64()

	rng.Restore(saved)
	assert.Equal(t, first, rng.Float64())
}

func TestLCGAsRandSource(t *testing.T) {
	t.Parallel()

	a, b := New(5).Rand(), New(5).Rand()
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.IntN(52), b.IntN(52))
	}
}

func TestIntn(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Intn(NewScripted(0), 10))
	assert.Equal(t, 9, Intn(NewScripted(0.999999), 10))
	assert.Equal(t, 5, Intn(NewScripted(0.5), 10))
	assert.Panics(t, func() { Intn(NewScripted(0.5), 0) })
}

func TestScripted(t *testing.T) {
	t.Parallel()

	s := NewScripted(0.1, 0.9)
	assert.Equal(t, 0.1, s.Float64())
	assert.Equal(t, 0.9, s.Float64())
	assert.Equal(t, 0.9, s.Float64(), "last value repeats")
	assert.Equal(t, 3, s.Consumed())
}
