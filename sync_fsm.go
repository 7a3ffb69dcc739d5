package fsm

import "github.com/enetx/g"

// Interface compliance check.
var _ StateMachine = (*SyncFSM)(nil)

// Current is the thread-safe version of FSM.Current.
func (sf *SyncFSM) Current() State {
	sf.mu.RLock()
	defer sf.mu.RUnlock()

	return sf.fsm.Current()
}

// SetState is the thread-safe version of FSM.SetState.
// It forcefully sets the current state, bypassing the transition table.
func (sf *SyncFSM) SetState(s State) error {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	return sf.fsm.SetState(s)
}

// Trigger is the thread-safe version of FSM.Trigger.
// It atomically executes a state transition in response to an event.
func (sf *SyncFSM) Trigger(event Event) error {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	return sf.fsm.Trigger(event)
}

// Reset is the thread-safe version of FSM.Reset.
func (sf *SyncFSM) Reset() {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	sf.fsm.Reset()
}

// States is the thread-safe version of FSM.States.
func (sf *SyncFSM) States(event ...Event) g.Slice[State] {
	sf.mu.RLock()
	defer sf.mu.RUnlock()

	return sf.fsm.States(event...)
}

// Events is the thread-safe version of FSM.Events.
func (sf *SyncFSM) Events() g.Slice[Event] {
	sf.mu.RLock()
	defer sf.mu.RUnlock()

	return sf.fsm.Events()
}

// Undo is the thread-safe version of FSM.Undo.
func (sf *SyncFSM) Undo() bool {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	return sf.fsm.Undo()
}

// Redo is the thread-safe version of FSM.Redo.
func (sf *SyncFSM) Redo() bool {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	return sf.fsm.Redo()
}

// CanUndo is the thread-safe version of FSM.CanUndo.
func (sf *SyncFSM) CanUndo() bool {
	sf.mu.RLock()
	defer sf.mu.RUnlock()

	return sf.fsm.CanUndo()
}

// CanRedo is the thread-safe version of FSM.CanRedo.
func (sf *SyncFSM) CanRedo() bool {
	sf.mu.RLock()
	defer sf.mu.RUnlock()

	return sf.fsm.CanRedo()
}

// ClearHistory is the thread-safe version of FSM.ClearHistory.
func (sf *SyncFSM) ClearHistory() {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	sf.fsm.ClearHistory()
}

// ToDOT is the thread-safe version of FSM.ToDOT.
// It generates a DOT language string representation of the FSM for visualization.
func (sf *SyncFSM) ToDOT() g.String {
	sf.mu.RLock()
	defer sf.mu.RUnlock()

	return sf.fsm.ToDOT()
}
