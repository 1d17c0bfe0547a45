package ladder

import (
	"context"
	"errors"
	"fmt"

	"github.com/lox/holdem-ladder/internal/holdem"
)

// ErrReplayDiverged is returned when a replayed match does not reproduce
// the recorded action log.
var ErrReplayDiverged = errors.New("replay diverged from the recorded log")

type replayAgent struct {
	queue []LoggedAction
	err   error
}

func (r *replayAgent) Decide(view holdem.Snapshot) (holdem.Action, int) {
	if len(r.queue) == 0 {
		r.err = fmt.Errorf("%w: no player action left for hand %d", ErrReplayDiverged, view.HandNumber)
		return holdem.Fold, 0
	}
	next := r.queue[0]
	r.queue = r.queue[1:]
	if next.Hand != view.HandNumber || next.Phase != view.Phase {
		r.err = fmt.Errorf("%w: recorded action for hand %d %s, table is at hand %d %s",
			ErrReplayDiverged, next.Hand, next.Phase, view.HandNumber, view.Phase)
	}
	// raises are logged with their resulting total, which is also the
	// raise-to target that reproduces them
	return next.Action, next.To
}

// Replay replays a recorded match: the CPU decides afresh from the seed
// while the player's recorded actions are fed back in. It fails with
// ErrReplayDiverged unless the full log is reproduced exactly.
func Replay(ctx context.Context, cfg Config, log []LoggedAction) (Result, error) {
	m, err := NewMatch(cfg)
	if err != nil {
		return Result{}, err
	}
	agent := &replayAgent{}
	for _, a := range log {
		if a.Seat == holdem.Player {
			agent.queue = append(agent.queue, a)
		}
	}

	res, err := m.Play(ctx, agent)
	if agent.err != nil {
		return Result{}, agent.err
	}
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrReplayDiverged, err)
	}

	got := m.Actions()
	if len(got) != len(log) {
		return Result{}, fmt.Errorf("%w: %d actions recorded, %d replayed", ErrReplayDiverged, len(log), len(got))
	}
	for i := range got {
		if got[i] != log[i] {
			return Result{}, fmt.Errorf("%w: action %d was %+v, replayed %+v", ErrReplayDiverged, i, log[i], got[i])
		}
	}
	return res, nil
}
