// Package statistics accumulates per-hand results from simulated matches.
package statistics

import (
	"fmt"
	"math"
	"slices"

	"github.com/lox/holdem-ladder/internal/holdem"
)

// BigPotBB is the pot size, in big blinds, counted as a big pot.
const BigPotBB = 10

// HandResult is one hand from the tracked seat's point of view.
type HandResult struct {
	NetBB          float64      // big blinds won or lost
	Seed           int64        // match seed, for replay
	HandNumber     int          // hand within the match
	Button         bool         // tracked seat had the button
	WentToShowdown bool         // hand reached a showdown
	FinalPotSize   int          // pot awarded, in chips
	BigBlind       int          // big blind the hand was played at
	Street         holdem.Phase // street the hand ended on
}

// PositionStats tracks results for one seat role.
type PositionStats struct {
	Hands  int
	SumBB  float64
	SumBB2 float64
}

// Position indexes for PositionResults.
const (
	OnButton = iota
	InBigBlind
)

// Statistics tracks the hands of a simulation.
type Statistics struct {
	Hands  int
	SumBB  float64
	SumBB2 float64   // sum of squares, for variance
	Values []float64 // every result, for median and percentiles

	ShowdownWins    int
	NonShowdownWins int
	ShowdownBB      float64 // showdown wins and losses
	NonShowdownBB   float64 // fold wins and losses
	AllBB           float64

	PositionResults [2]PositionStats

	// Hands ended on each street.
	Streets map[holdem.Phase]int

	MaxPotChips int
	MaxPotBB    float64
	BigPots     int     // pots of at least BigPotBB
	BigPotsBB   float64 // result from big pots
}

// Mean returns the mean result in big blinds per hand.
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// Variance returns the sample variance.
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation.
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean.
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add records one hand.
func (s *Statistics) Add(result HandResult) {
	netBB := result.NetBB
	s.Hands++
	s.SumBB += netBB
	s.SumBB2 += netBB * netBB
	s.Values = append(s.Values, netBB)

	if netBB > 0 {
		if result.WentToShowdown {
			s.ShowdownWins++
		} else {
			s.NonShowdownWins++
		}
	}
	if result.WentToShowdown {
		s.ShowdownBB += netBB
	} else {
		s.NonShowdownBB += netBB
	}
	s.AllBB += netBB

	pos := InBigBlind
	if result.Button {
		pos = OnButton
	}
	s.PositionResults[pos].Hands++
	s.PositionResults[pos].SumBB += netBB
	s.PositionResults[pos].SumBB2 += netBB * netBB

	if s.Streets == nil {
		s.Streets = map[holdem.Phase]int{}
	}
	s.Streets[result.Street]++

	potBB := 0.0
	if result.BigBlind > 0 {
		potBB = float64(result.FinalPotSize) / float64(result.BigBlind)
	}
	if result.FinalPotSize > s.MaxPotChips {
		s.MaxPotChips = result.FinalPotSize
	}
	s.MaxPotBB = max(s.MaxPotBB, potBB)
	if potBB >= BigPotBB {
		s.BigPots++
		s.BigPotsBB += netBB
	}
}

// Merge folds other into s.
func (s *Statistics) Merge(other *Statistics) {
	s.Hands += other.Hands
	s.SumBB += other.SumBB
	s.SumBB2 += other.SumBB2
	s.Values = append(s.Values, other.Values...)
	s.ShowdownWins += other.ShowdownWins
	s.NonShowdownWins += other.NonShowdownWins
	s.ShowdownBB += other.ShowdownBB
	s.NonShowdownBB += other.NonShowdownBB
	s.AllBB += other.AllBB
	for i := range s.PositionResults {
		s.PositionResults[i].Hands += other.PositionResults[i].Hands
		s.PositionResults[i].SumBB += other.PositionResults[i].SumBB
		s.PositionResults[i].SumBB2 += other.PositionResults[i].SumBB2
	}
	if len(other.Streets) > 0 && s.Streets == nil {
		s.Streets = map[holdem.Phase]int{}
	}
	for street, n := range other.Streets {
		s.Streets[street] += n
	}
	s.MaxPotChips = max(s.MaxPotChips, other.MaxPotChips)
	s.MaxPotBB = max(s.MaxPotBB, other.MaxPotBB)
	s.BigPots += other.BigPots
	s.BigPotsBB += other.BigPotsBB
}

// Median returns the median result.
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the interpolated value at p, from 0.0 to 1.0.
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := slices.Clone(s.Values)
	slices.Sort(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// PositionMean returns the mean result for OnButton or InBigBlind.
func (s *Statistics) PositionMean(position int) float64 {
	if position < OnButton || position > InBigBlind {
		return 0
	}
	ps := s.PositionResults[position]
	if ps.Hands == 0 {
		return 0
	}
	return ps.SumBB / float64(ps.Hands)
}

// IsLedgerBalanced checks showdown and fold results add up to the total.
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllBB-s.ShowdownBB-s.NonShowdownBB) <= 1e-6
}

// Validate checks the counters are consistent with each other.
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllBB=%.6f, ShowdownBB=%.6f, NonShowdownBB=%.6f",
			s.AllBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if s.Hands <= 0 {
		return fmt.Errorf("invalid hands count: %d", s.Hands)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values array length (%d) does not match hands count (%d)", len(s.Values), s.Hands)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Hands {
		return fmt.Errorf("total wins (%d) exceeds total hands (%d)", wins, s.Hands)
	}
	if n := s.PositionResults[OnButton].Hands + s.PositionResults[InBigBlind].Hands; n != s.Hands {
		return fmt.Errorf("position hands total (%d) does not match total hands (%d)", n, s.Hands)
	}
	streets := 0
	for _, n := range s.Streets {
		streets += n
	}
	if streets != s.Hands {
		return fmt.Errorf("street hands total (%d) does not match total hands (%d)", streets, s.Hands)
	}
	return nil
}
