package status

import (
	"fmt"
	"slices"
	"sync"

	"github.com/ccumaco/ai-frontend/internal/bus"
)

// Phase is one step of an async operation's lifecycle.
type Phase string

const (
	Idle      Phase = "IDLE"
	Pending   Phase = "PENDING"
	Fulfilled Phase = "FULFILLED"
	Rejected  Phase = "REJECTED"
)

// validTransitions defines allowed phase transitions.
var validTransitions = map[Phase][]Phase{
	Idle:      {Pending},
	Pending:   {Fulfilled, Rejected},
	Fulfilled: {Idle},
	Rejected:  {Idle},
}

// Machine tracks and enforces the lifecycle of a single dispatched operation
// such as "projects/fetchAll". A machine is not reused across dispatches.
type Machine struct {
	mu      sync.RWMutex
	op      string
	current Phase
	bus     *bus.Bus
}

// NewMachine creates a new machine for op starting in Idle.
func NewMachine(op string, b *bus.Bus) *Machine {
	return &Machine{
		op:      op,
		current: Idle,
		bus:     b,
	}
}

// Op returns the operation name.
func (m *Machine) Op() string {
	return m.op
}

// Current returns the current phase.
func (m *Machine) Current() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition attempts to move to a new phase. Returns error if transition is invalid.
func (m *Machine) Transition(to Phase) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	allowed := validTransitions[m.current]
	if !slices.Contains(allowed, to) {
		return fmt.Errorf("%s: invalid transition from %s to %s", m.op, m.current, to)
	}
	from := m.current
	m.current = to
	m.bus.PhaseChanged(PhaseChange{Op: m.op, From: from, To: to})
	return nil
}

// Begin moves an idle machine to Pending.
func (m *Machine) Begin() error {
	return m.Transition(Pending)
}

// Settle resolves a pending operation as Fulfilled (err == nil) or Rejected
// and returns the machine to Idle.
func (m *Machine) Settle(err error) error {
	to := Fulfilled
	if err != nil {
		to = Rejected
	}
	if terr := m.Transition(to); terr != nil {
		return terr
	}
	return m.Transition(Idle)
}

// PhaseChange is the payload for operation phase events.
type PhaseChange struct {
	Op   string
	From Phase
	To   Phase
}
