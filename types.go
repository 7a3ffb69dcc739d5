package fsm

import (
	"sync"

	"github.com/enetx/g"
	"github.com/rs/zerolog"
)

type (
	// State represents a finite state in the FSM.
	State g.String
	// Event represents an event that triggers a transition.
	Event g.String

	// Option configures an FSM at construction time.
	Option func(*FSM)

	// StateDef is the transition table of a single state.
	// Events keep the order in which they were declared.
	StateDef struct {
		events  g.Slice[Event]
		targets g.Map[Event, State]
	}

	// Config is the declarative description of a state machine: an initial state
	// and an ordered table of states with their transitions.
	// A Config must not be modified once an FSM has been built from it;
	// it can then be shared read-only by any number of FSM instances.
	Config struct {
		initial State
		order   g.Slice[State]
		states  g.Map[State, *StateDef]
	}

	// FSM is the main state machine struct.
	// prev and next are the single-slot undo/redo history.
	FSM struct {
		config  *Config
		current State
		prev    g.Option[State]
		next    g.Option[State]
		logger  zerolog.Logger
	}

	// SyncFSM is a thread-safe wrapper around an FSM.
	// It protects all state-mutating and state-reading operations with a sync.RWMutex,
	// making it safe for use across multiple goroutines.
	SyncFSM struct {
		fsm *FSM
		mu  sync.RWMutex
	}
)
