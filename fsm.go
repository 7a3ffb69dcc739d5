// Package fsm provides a configuration-driven finite state machine (FSM) with
// a single step of undo/redo history. States and event-triggered transitions are
// declared up front in a Config, built programmatically or decoded from YAML/JSON,
// and any number of FSM instances can run over the same Config.
// It is built with types and utilities from the github.com/enetx/g library.
package fsm

import (
	"github.com/enetx/g"
	"github.com/rs/zerolog"
)

// WithLogger sets the logger used for debug tracing of state changes.
// By default the FSM logs nothing.
func WithLogger(logger zerolog.Logger) Option {
	return func(f *FSM) {
		f.logger = logger
	}
}

// New creates an FSM positioned at the configuration's initial state.
// It returns ErrNoInitial if cfg is nil or has no initial state. No other
// validation is done: states and transition targets are checked lazily.
func New(cfg *Config, opts ...Option) (*FSM, error) {
	if cfg == nil || cfg.initial == "" {
		return nil, ErrNoInitial
	}

	f := &FSM{
		config:  cfg,
		current: cfg.initial,
		prev:    g.None[State](),
		next:    g.None[State](),
		logger:  zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// Clone creates a new FSM instance with the same configuration and logger
// but a fresh state and empty history.
func (f *FSM) Clone() *FSM {
	return &FSM{
		config:  f.config,
		current: f.config.initial,
		prev:    g.None[State](),
		next:    g.None[State](),
		logger:  f.logger,
	}
}

// Sync wraps the FSM into a SyncFSM for concurrent use.
// The FSM must not be used directly afterwards.
func (f *FSM) Sync() *SyncFSM { return &SyncFSM{fsm: f} }

// Config returns the configuration the FSM runs on.
func (f *FSM) Config() *Config { return f.config }

// Current returns the FSM's current state.
func (f *FSM) Current() State { return f.current }

// SetState moves the FSM to s directly, bypassing the transition table.
// It returns *ErrInvalidState and changes nothing if s is not declared.
// On success any pending redo is dropped.
func (f *FSM) SetState(s State) error {
	if !f.config.Has(s) {
		err := &ErrInvalidState{State: s}
		f.logger.Debug().Err(err).Str("from", string(f.current)).Msg("state change rejected")
		return err
	}

	from := f.move(s)
	f.logger.Debug().Str("from", string(from)).Str("to", string(s)).Msg("state changed")

	return nil
}

// Trigger takes the transition declared for event from the current state.
// It returns *ErrInvalidTransition and changes nothing if there is none.
// On success any pending redo is dropped.
// The target state is taken as declared, even if the configuration never declares it.
func (f *FSM) Trigger(event Event) error {
	def, ok := f.config.states[f.current]
	if !ok || !def.Has(event) {
		err := &ErrInvalidTransition{From: f.current, Event: event}
		f.logger.Debug().Err(err).Msg("trigger rejected")
		return err
	}

	to := def.targets[event]
	from := f.move(to)

	f.logger.Debug().
		Str("from", string(from)).
		Str("to", string(to)).
		Str("event", string(event)).
		Msg("transition")

	return nil
}

// move records the current state as the undo slot, drops any pending redo
// and makes to current. It returns the state that was left.
func (f *FSM) move(to State) State {
	from := f.current

	f.prev = g.Some(from)
	f.next = g.None[State]()
	f.current = to

	return from
}

// Reset moves the FSM back to the initial state. History is kept,
// so Undo after Reset returns to the state before the last change, not before the reset.
func (f *FSM) Reset() *FSM {
	f.current = f.config.initial
	f.logger.Debug().Str("to", string(f.current)).Msg("reset")

	return f
}

// States returns the declared states in declaration order.
// If an event is given, only states that declare a transition for it are returned.
// An empty event is the same as none.
func (f *FSM) States(event ...Event) g.Slice[State] {
	if len(event) == 0 || event[0] == "" {
		return f.config.States()
	}

	e := event[0]

	return f.config.order.
		Iter().
		Exclude(func(s State) bool { return !f.config.states[s].Has(e) }).
		Collect()
}

// Events returns the events that can be triggered from the current state,
// in declaration order.
func (f *FSM) Events() g.Slice[Event] {
	if def, ok := f.config.states[f.current]; ok {
		return def.Events()
	}

	return g.NewSlice[Event]()
}

// CanUndo reports whether Undo would change the state.
func (f *FSM) CanUndo() bool { return f.prev.IsSome() }

// CanRedo reports whether Redo would change the state.
func (f *FSM) CanRedo() bool { return f.next.IsSome() }

// Undo reverts the last state change. Only one step is kept: a second Undo
// without a change in between returns false.
func (f *FSM) Undo() bool {
	if f.prev.IsNone() {
		return false
	}

	from := f.current

	f.next = g.Some(from)
	f.current = f.prev.Some()
	f.prev = g.None[State]()

	f.logger.Debug().Str("from", string(from)).Str("to", string(f.current)).Msg("undo")

	return true
}

// Redo re-applies the change reverted by the last Undo.
func (f *FSM) Redo() bool {
	if f.next.IsNone() {
		return false
	}

	from := f.current

	f.prev = g.Some(from)
	f.current = f.next.Some()
	f.next = g.None[State]()

	f.logger.Debug().Str("from", string(from)).Str("to", string(f.current)).Msg("redo")

	return true
}

// ClearHistory forgets both the undo and the redo slot.
func (f *FSM) ClearHistory() {
	f.prev = g.None[State]()
	f.next = g.None[State]()

	f.logger.Debug().Msg("history cleared")
}
