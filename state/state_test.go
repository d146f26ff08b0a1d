package state

import (
	"errors"
	"testing"
)

func TestStateMachine_InitialState(t *testing.T) {
	sm := NewMachine()

	if sm.Current() != Idle {
		t.Errorf("Expected initial phase idle, got %s", sm.Current())
	}
	if sm.Seq() != 0 {
		t.Errorf("Expected initial seq 0, got %d", sm.Seq())
	}
}

func TestStateMachine_ChangeState(t *testing.T) {
	sm := NewMachine()

	var seen [][2]Phase
	sm.OnChange(func(from, to Phase) { seen = append(seen, [2]Phase{from, to}) })

	path := []Phase{Rolling, BranchChoice, Moving, Event, Idle, Rolling, Moving, Idle, Finished}
	for _, p := range path {
		if err := sm.ChangeState(p); err != nil {
			t.Fatalf("ChangeState(%s) should be allowed, got: %v", p, err)
		}
	}

	if sm.Current() != Finished {
		t.Errorf("Expected finished, got %s", sm.Current())
	}
	if sm.Seq() != uint64(len(path)) {
		t.Errorf("Expected seq %d, got %d", len(path), sm.Seq())
	}
	if len(seen) != len(path) || seen[0] != [2]Phase{Idle, Rolling} {
		t.Errorf("OnChange hook saw %v", seen)
	}
}

func TestStateMachine_BlockedTransition(t *testing.T) {
	sm := NewMachine()

	blocked := []Phase{BranchChoice, Moving, Event}
	for _, p := range blocked {
		err := sm.ChangeState(p)
		if !errors.Is(err, ErrTransitionNotAllowed) {
			t.Errorf("Expected ErrTransitionNotAllowed for idle -> %s, got %v", p, err)
		}
	}
	if sm.Current() != Idle || sm.Seq() != 0 {
		t.Errorf("Blocked transitions must not change state, got %s seq %d", sm.Current(), sm.Seq())
	}

	_ = sm.ChangeState(Finished)
	if err := sm.ChangeState(Idle); !errors.Is(err, ErrTransitionNotAllowed) {
		t.Errorf("Finished must be terminal, got %v", err)
	}
}

func TestCanTransition_Table(t *testing.T) {
	cases := []struct {
		from, to Phase
		want     bool
	}{
		{Idle, Rolling, true},
		{Rolling, Moving, true},
		{Rolling, BranchChoice, true},
		{BranchChoice, Moving, true},
		{Moving, Event, true},
		{Moving, Idle, true},
		{Event, Idle, true},
		{Event, Rolling, false},
		{Moving, Rolling, false},
		{BranchChoice, Event, false},
		{Rolling, Rolling, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestPhase_String(t *testing.T) {
	if BranchChoice.String() != "branch_choice" {
		t.Errorf("Unexpected name %q", BranchChoice.String())
	}
	if Phase(42).String() != "phase(42)" {
		t.Errorf("Unexpected name for unknown phase %q", Phase(42).String())
	}
}
