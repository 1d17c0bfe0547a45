package holdem

import (
	"errors"
	"fmt"
)

var (
	// ErrHandOver is returned for any action after the hand has finished or
	// before one has started.
	ErrHandOver = errors.New("hand is over")
	// ErrNotYourTurn is returned when a seat acts out of turn.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrIllegalAction is returned when the action is not legal in the
	// current betting state.
	ErrIllegalAction = errors.New("illegal action")
	// ErrInvalidConfig is returned by StartHand for unusable blinds or stacks.
	ErrInvalidConfig = errors.New("invalid hand config")
)

// ActionError describes a rejected action. The engine state is unchanged
// whenever one is returned.
type ActionError struct {
	Seat   Seat
	Action Action
	Reason string
	Err    error
}

func (e *ActionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s %s: %v", e.Seat, e.Action, e.Err)
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Seat, e.Action, e.Reason, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

func reject(seat Seat, action Action, err error, format string, args ...any) error {
	return &ActionError{
		Seat:   seat,
		Action: action,
		Reason: fmt.Sprintf(format, args...),
		Err:    err,
	}
}
