package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func received(ch <-chan bool) (bool, bool) {
	select {
	case v := <-ch:
		return v, true
	default:
		return false, false
	}
}

func TestRevealFiresAfterDelay(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := quartz.NewMock(t)
	s := New(clock, time.Second, nil)
	ch := s.Schedule()
	assert.True(t, s.Pending())

	clock.Advance(600 * time.Millisecond).MustWait(ctx)
	_, ok := received(ch)
	assert.False(t, ok, "reveal fired early")

	clock.Advance(400 * time.Millisecond).MustWait(ctx)
	v, ok := received(ch)
	require.True(t, ok)
	assert.True(t, v)
	assert.False(t, s.Pending())
	assert.False(t, s.Cancel())
}

func TestCancelAndReschedule(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := quartz.NewMock(t)
	s := New(clock, time.Second, nil)

	first := s.Schedule()
	second := s.Schedule()
	v, ok := received(first)
	require.True(t, ok, "rescheduling cancels the pending reveal")
	assert.False(t, v)

	assert.True(t, s.Cancel())
	v, ok = received(second)
	require.True(t, ok)
	assert.False(t, v)

	third := s.Schedule()
	clock.Advance(time.Second).MustWait(ctx)
	v, ok = received(third)
	require.True(t, ok)
	assert.True(t, v)
}

func TestZeroDelayRevealsImmediately(t *testing.T) {
	t.Parallel()

	s := New(quartz.NewMock(t), 0, nil)
	v, ok := received(s.Schedule())
	require.True(t, ok)
	assert.True(t, v)
	assert.False(t, s.Pending())
	assert.Equal(t, time.Duration(0), s.Delay())
}
