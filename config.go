package fsm

import "github.com/enetx/g"

// NewConfig creates an empty configuration with the given initial state.
// The initial state is not declared automatically; declare it with State or Transition.
func NewConfig(initial State) *Config {
	return &Config{
		initial: initial,
		order:   g.NewSlice[State](),
		states:  g.NewMap[State, *StateDef](),
	}
}

// State declares a state. Declaring an existing state is a no-op
// and keeps its original position.
func (c *Config) State(s State) *Config {
	c.declare(s)
	return c
}

// Transition adds an edge from -> event -> to. The source state is declared if needed.
// The target is not declared and not validated: an undeclared target is only
// noticed when the FSM reaches it and tries to leave.
// Redefining an existing event on the same state replaces its target.
func (c *Config) Transition(from State, event Event, to State) *Config {
	c.declare(from).set(event, to)
	return c
}

func (c *Config) declare(s State) *StateDef {
	if c.states == nil {
		c.states = g.NewMap[State, *StateDef]()
	}

	if def, ok := c.states[s]; ok {
		return def
	}

	def := &StateDef{targets: g.NewMap[Event, State]()}
	c.states[s] = def
	c.order.Push(s)

	return def
}

// Initial returns the configured initial state, which may be empty.
func (c *Config) Initial() State { return c.initial }

// States returns all declared states in declaration order.
func (c *Config) States() g.Slice[State] { return c.order.Clone() }

// Has reports whether s is a declared state.
func (c *Config) Has(s State) bool { return c.states.Contains(s) }

// Transitions returns the transition table of a declared state.
func (c *Config) Transitions(s State) g.Option[StateDef] {
	def, ok := c.states[s]
	if !ok {
		return g.None[StateDef]()
	}

	return g.Some(*def)
}

func (d *StateDef) set(event Event, to State) {
	if !d.targets.Contains(event) {
		d.events.Push(event)
	}

	d.targets[event] = to
}

// Target returns the state the event leads to.
func (d StateDef) Target(event Event) g.Option[State] {
	to, ok := d.targets[event]
	if !ok {
		return g.None[State]()
	}

	return g.Some(to)
}

// Has reports whether the state defines a transition for the event.
func (d StateDef) Has(event Event) bool { return d.targets.Contains(event) }

// Events returns the events handled by the state in declaration order.
func (d StateDef) Events() g.Slice[Event] { return d.events.Clone() }
