package session

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalTransition is returned when an action is not allowed in the
	// session's current phase. The session is left unchanged.
	ErrIllegalTransition = errors.New("illegal transition")

	// ErrChoiceOutOfRange is returned when a choice index does not exist on
	// the current node.
	ErrChoiceOutOfRange = errors.New("choice out of range")
)

// TransitionError describes a rejected action.
type TransitionError struct {
	Action string
	Phase  Phase
	Err    error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while %s: %v", e.Action, e.Phase, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}
