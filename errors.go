package fsm

import (
	"errors"
	"fmt"
)

// ErrNoInitial is returned by New when the configuration is nil or names no initial state.
var ErrNoInitial = errors.New("fsm: configuration has no initial state")

// ErrInvalidState is returned by SetState when the requested state is not declared
// in the configuration.
type ErrInvalidState struct {
	State State
}

func (e *ErrInvalidState) Error() string {
	return fmt.Sprintf("fsm: state %q is not declared in the configuration", e.State)
}

// ErrInvalidTransition is returned when no transition is declared for the given event
// from the current state. From may name an undeclared state if the FSM was moved
// there by a transition with an undeclared target.
type ErrInvalidTransition struct {
	From  State
	Event Event
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("fsm: no matching transition for event %q from state %q", e.Event, e.From)
}

// ErrConfig is returned when a configuration document cannot be decoded.
// Line and Column point into the source document and are zero when unknown.
type ErrConfig struct {
	Line   int
	Column int
	Msg    string
}

func (e *ErrConfig) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("fsm: invalid configuration at line %d, column %d: %s", e.Line, e.Column, e.Msg)
	}

	return fmt.Sprintf("fsm: invalid configuration: %s", e.Msg)
}
