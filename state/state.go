package state

import (
	"errors"
	"fmt"
)

// Phase 是一个玩家回合内的子状态
type Phase int

const (
	Idle Phase = iota
	Rolling
	BranchChoice
	Moving
	Event
	Finished
)

var phaseNames = [...]string{
	Idle:         "idle",
	Rolling:      "rolling",
	BranchChoice: "branch_choice",
	Moving:       "moving",
	Event:        "event",
	Finished:     "finished",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// ErrTransitionNotAllowed is returned when a state transition is not allowed.
var ErrTransitionNotAllowed = errors.New("state transition not allowed")

// transitions lists every legal edge. Any live phase may drop back to Idle
// (the acting player disconnected) or jump to Finished (the game ended).
var transitions = map[Phase][]Phase{
	Idle:         {Rolling, Idle, Finished},
	Rolling:      {BranchChoice, Moving, Idle, Finished},
	BranchChoice: {Moving, Idle, Finished},
	Moving:       {Event, Idle, Finished},
	Event:        {Idle, Finished},
	Finished:     {},
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to Phase) bool {
	for _, p := range transitions[from] {
		if p == to {
			return true
		}
	}
	return false
}

// Machine tracks the turn phase of one room. It is not safe for concurrent
// use; the owning room serialises access.
type Machine struct {
	current  Phase
	seq      uint64
	onChange func(from, to Phase)
}

// NewMachine returns a machine in the Idle phase.
func NewMachine() *Machine {
	return &Machine{current: Idle}
}

// OnChange registers a hook invoked after every accepted transition.
func (m *Machine) OnChange(fn func(from, to Phase)) {
	m.onChange = fn
}

// Current returns the active phase.
func (m *Machine) Current() Phase {
	return m.current
}

// Seq increases on every accepted transition. Delayed continuations capture
// it and compare on firing to detect that the turn moved on without them.
func (m *Machine) Seq() uint64 {
	return m.seq
}

func (m *Machine) ChangeState(to Phase) error {
	from := m.current
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, from, to)
	}
	m.current = to
	m.seq++
	if m.onChange != nil {
		m.onChange(from, to)
	}
	return nil
}
