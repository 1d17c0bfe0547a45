// Package scheduler delays the reveal of CPU actions so a human can follow
// the table. It never touches engine state: the host applies the CPU's
// decision when the reveal fires.
package scheduler

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// Scheduler runs at most one pending reveal at a time.
type Scheduler struct {
	clock  quartz.Clock
	delay  time.Duration
	logger *log.Logger

	mu      sync.Mutex
	timer   *quartz.Timer
	waiting chan bool
}

// New returns a scheduler that reveals after delay. A nil clock uses real
// time; a delay of zero or less reveals immediately.
func New(clock quartz.Clock, delay time.Duration, logger *log.Logger) *Scheduler {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Scheduler{clock: clock, delay: delay, logger: logger.WithPrefix("scheduler")}
}

// Delay returns the reveal delay.
func (s *Scheduler) Delay() time.Duration { return s.delay }

// Schedule starts a reveal and returns a channel that receives true once the
// delay has elapsed, or false if the reveal is cancelled first. Scheduling
// again cancels the pending reveal.
func (s *Scheduler) Schedule() <-chan bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	ch := make(chan bool, 1)
	if s.delay <= 0 {
		ch <- true
		return ch
	}

	s.waiting = ch
	s.timer = s.clock.AfterFunc(s.delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.waiting != ch {
			return
		}
		s.timer, s.waiting = nil, nil
		ch <- true
	}, "scheduler", "reveal")
	s.logger.Debug("reveal scheduled", "delay", s.delay)
	return ch
}

// Cancel stops the pending reveal, reporting whether there was one.
func (s *Scheduler) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked()
}

// Pending reports whether a reveal is waiting to fire.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiting != nil
}

func (s *Scheduler) cancelLocked() bool {
	if s.waiting == nil {
		return false
	}
	s.timer.Stop()
	s.waiting <- false
	s.timer, s.waiting = nil, nil
	s.logger.Debug("reveal cancelled")
	return true
}
