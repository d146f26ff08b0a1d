package board

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_Shape(t *testing.T) {
	b := Default()

	if b.Len() != 35 {
		t.Fatalf("Expected 35 squares, got %d", b.Len())
	}
	if b.Square(0).Kind != KindStart {
		t.Errorf("Square 0 should be the start, got %s", b.Square(0).Kind)
	}
	if b.Square(34).Kind != KindGoal || len(b.Square(34).Next) != 0 {
		t.Errorf("Square 34 should be a goal with no edges")
	}

	branch := b.Square(10)
	if !branch.IsBranch() || branch.Next[0] != 11 || branch.Next[1] != 18 {
		t.Errorf("Square 10 should branch to 11 and 18, got %v", branch.Next)
	}
	if b.BranchLabel(10, 0) != "Mountain route" || b.BranchLabel(10, 1) != "Coast route" {
		t.Errorf("Unexpected branch labels: %v", branch.BranchLabels)
	}

	branches := 0
	for i := 0; i < b.Len(); i++ {
		if b.Square(i).IsBranch() {
			branches++
		}
	}
	if branches != 1 {
		t.Errorf("Expected exactly one branch square, got %d", branches)
	}
}

func TestDefault_EveryRouteReachesGoal(t *testing.T) {
	b := Default()
	for _, first := range b.Square(10).Next {
		cur, steps := first, 0
		for b.Square(cur).Kind != KindGoal {
			if b.Square(cur).IsBranch() {
				t.Fatalf("Unexpected second branch at %d", cur)
			}
			cur = b.Square(cur).Next[0]
			steps++
			if steps > b.Len() {
				t.Fatalf("Route from %d loops", first)
			}
		}
	}
}

func TestBranchLabel_Fallback(t *testing.T) {
	b, err := New([]Square{
		{Kind: KindBranch, Next: []int{1, 2}},
		{Kind: KindGoal},
		{Kind: KindGoal},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := b.BranchLabel(0, 1); got != "Route 2" {
		t.Errorf("Expected fallback label 'Route 2', got %q", got)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string][]Square{
		"empty":           {},
		"goal with edge":  {{Kind: KindGoal, Next: []int{0}}},
		"narrow branch":   {{Kind: KindBranch, Next: []int{1}}, {Kind: KindGoal}},
		"normal two edge": {{Kind: KindNormal, Next: []int{1, 1}}, {Kind: KindGoal}},
		"dangling edge":   {{Kind: KindStart, Next: []int{7}}, {Kind: KindGoal}},
		"unknown kind":    {{Kind: "warp", Next: []int{1}}, {Kind: KindGoal}},
		"bad random": {
			{Kind: KindStart, Next: []int{1}, Event: &Event{Kind: RandomMoney, MinAmount: 10, Amount: 5}},
			{Kind: KindGoal},
		},
		"labels mismatch": {
			{Kind: KindBranch, Next: []int{1, 2}, BranchLabels: []string{"only one"}},
			{Kind: KindGoal}, {Kind: KindGoal},
		},
	}

	for name, squares := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(squares)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !errors.Is(err, ErrBadSquare) && !errors.Is(err, ErrEmptyBoard) {
				t.Errorf("Unexpected error type: %v", err)
			}
		})
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	def := []byte(`
- type: start
  next: [1]
- type: normal
  next: [2]
  event: {kind: steal_money, amount: 100, text: steal}
- type: goal
  next: []
`)
	if err := os.WriteFile(path, def, 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b.Len() != 3 {
		t.Fatalf("Expected 3 squares, got %d", b.Len())
	}
	ev := b.Square(1).Event
	if ev == nil || ev.Kind != StealMoney || ev.Amount != 100 {
		t.Errorf("Unexpected event on square 1: %+v", ev)
	}
}
