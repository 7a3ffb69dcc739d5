package fsm

import "github.com/enetx/g"

// StateMachine is the interface implemented by SyncFSM. FSM offers the same
// methods, except that its Reset returns the FSM for chaining.
type StateMachine interface {
	Current() State
	SetState(State) error
	Trigger(Event) error
	Reset()
	States(...Event) g.Slice[State]
	Events() g.Slice[Event]
	Undo() bool
	Redo() bool
	CanUndo() bool
	CanRedo() bool
	ClearHistory()
	ToDOT() g.String
}
