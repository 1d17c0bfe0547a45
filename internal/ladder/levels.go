// Package ladder runs heads-up matches over an escalating blind ladder.
//
// Blinds step up every two hands and both stacks are reset whenever a new
// level begins. A match ends when a seat busts, or as a deadlock once the
// final level is reached with both seats still holding chips.
package ladder

import (
	"errors"
	"fmt"
)

// HandsPerLevel is how many hands are played at each blind level.
const HandsPerLevel = 2

// ErrInvalidLadder is returned by Ladder.Validate.
var ErrInvalidLadder = errors.New("invalid blind ladder")

// BlindLevel is one rung of the ladder.
type BlindLevel struct {
	SmallBlind int `json:"small_blind"`
	BigBlind   int `json:"big_blind"`
	StackChips int `json:"stack_chips"`
}

func (b BlindLevel) String() string {
	return fmt.Sprintf("%d/%d", b.SmallBlind, b.BigBlind)
}

// Ladder is the ordered list of blind levels.
type Ladder []BlindLevel

// DefaultLadder starts at 10 big blinds deep and ends at one.
var DefaultLadder = Ladder{
	{SmallBlind: 50, BigBlind: 100, StackChips: 1000},
	{SmallBlind: 75, BigBlind: 150, StackChips: 1000},
	{SmallBlind: 100, BigBlind: 200, StackChips: 1000},
	{SmallBlind: 150, BigBlind: 300, StackChips: 1000},
	{SmallBlind: 200, BigBlind: 400, StackChips: 1000},
	{SmallBlind: 250, BigBlind: 500, StackChips: 1000},
	{SmallBlind: 300, BigBlind: 600, StackChips: 1000},
	{SmallBlind: 400, BigBlind: 800, StackChips: 1000},
	{SmallBlind: 500, BigBlind: 1000, StackChips: 1000},
}

// Validate checks every level is positive with SB < BB, and that blinds
// never decrease.
func (l Ladder) Validate() error {
	if len(l) == 0 {
		return fmt.Errorf("%w: no levels", ErrInvalidLadder)
	}
	for i, lvl := range l {
		if lvl.SmallBlind <= 0 || lvl.BigBlind <= lvl.SmallBlind || lvl.StackChips <= 0 {
			return fmt.Errorf("%w: level %d (%s, stack %d)", ErrInvalidLadder, i, lvl, lvl.StackChips)
		}
		if i > 0 && (lvl.SmallBlind < l[i-1].SmallBlind || lvl.BigBlind < l[i-1].BigBlind) {
			return fmt.Errorf("%w: level %d (%s) is below level %d (%s)", ErrInvalidLadder, i, lvl, i-1, l[i-1])
		}
	}
	return nil
}

// Final returns the index of the last level.
func (l Ladder) Final() int {
	return len(l) - 1
}

// LevelFor returns the level index for the hand after handsPlayed hands.
func (l Ladder) LevelFor(handsPlayed int) int {
	return min(max(handsPlayed, 0)/HandsPerLevel, l.Final())
}
