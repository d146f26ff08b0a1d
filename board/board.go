// Package board describes the sugoroku track: a directed graph of squares where
// each square may carry a money event. A Board is never mutated after it is
// built, so every room shares the same value.
package board

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Kind is the role a square plays on the track.
type Kind string

const (
	KindStart  Kind = "start"
	KindNormal Kind = "normal"
	KindBranch Kind = "branch"
	KindGoal   Kind = "goal"
)

// EventKind tags the closed set of square events.
type EventKind string

const (
	GainMoney   EventKind = "gain_money"
	LoseMoney   EventKind = "lose_money"
	RandomMoney EventKind = "random_money"
	StealMoney  EventKind = "steal_money"
	GoalBonus   EventKind = "goal_bonus"
)

// Event is the money effect attached to a square. For RandomMoney, Amount is
// the inclusive maximum and MinAmount the inclusive minimum.
type Event struct {
	Kind      EventKind `json:"kind" yaml:"kind"`
	Amount    int       `json:"amount" yaml:"amount"`
	MinAmount int       `json:"min_amount,omitempty" yaml:"min_amount"`
	Text      string    `json:"text" yaml:"text"`
}

// Square is a node of the board graph.
type Square struct {
	Kind         Kind     `json:"type" yaml:"type"`
	Next         []int    `json:"next" yaml:"next"`
	Event        *Event   `json:"event" yaml:"event"`
	BranchLabels []string `json:"branch_labels,omitempty" yaml:"branch_labels"`
}

// IsBranch reports whether the square forces the player to pick a route.
func (s Square) IsBranch() bool { return len(s.Next) > 1 }

// Board is an immutable, index-addressed list of squares.
type Board struct {
	squares []Square
}

var (
	ErrEmptyBoard = errors.New("board has no squares")
	ErrBadSquare  = errors.New("invalid square")
)

// New validates squares and wraps them in a Board. The slice is copied.
func New(squares []Square) (*Board, error) {
	b := &Board{squares: make([]Square, len(squares))}
	copy(b.squares, squares)
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Load reads a board definition (a YAML or JSON list of squares) from path.
func Load(path string) (*Board, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var squares []Square
	if err := yaml.Unmarshal(raw, &squares); err != nil {
		return nil, fmt.Errorf("parse board %s: %w", path, err)
	}
	return New(squares)
}

// Len returns the number of squares.
func (b *Board) Len() int { return len(b.squares) }

// Square returns the square at index i. It panics if i is out of range,
// which Validate rules out for every edge target.
func (b *Board) Square(i int) Square { return b.squares[i] }

// Squares returns a copy of the squares for serialisation to clients.
func (b *Board) Squares() []Square {
	out := make([]Square, len(b.squares))
	copy(out, b.squares)
	return out
}

// BranchLabel returns the display label of option i at square idx.
func (b *Board) BranchLabel(idx, i int) string {
	sq := b.squares[idx]
	if i < len(sq.BranchLabels) && sq.BranchLabels[i] != "" {
		return sq.BranchLabels[i]
	}
	return fmt.Sprintf("Route %d", i+1)
}

// Validate enforces the structural rules of the graph: goal squares have no
// outgoing edges, branch squares at least two, every other square exactly one,
// and every edge points at an existing square.
func (b *Board) Validate() error {
	if len(b.squares) == 0 {
		return ErrEmptyBoard
	}
	for i, sq := range b.squares {
		switch sq.Kind {
		case KindGoal:
			if len(sq.Next) != 0 {
				return fmt.Errorf("%w %d: goal must have no outgoing edges", ErrBadSquare, i)
			}
		case KindBranch:
			if len(sq.Next) < 2 {
				return fmt.Errorf("%w %d: branch needs at least two edges", ErrBadSquare, i)
			}
			if len(sq.BranchLabels) != 0 && len(sq.BranchLabels) != len(sq.Next) {
				return fmt.Errorf("%w %d: branch labels must match edges", ErrBadSquare, i)
			}
		case KindStart, KindNormal:
			if len(sq.Next) != 1 {
				return fmt.Errorf("%w %d: %s square needs exactly one edge", ErrBadSquare, i, sq.Kind)
			}
		default:
			return fmt.Errorf("%w %d: unknown kind %q", ErrBadSquare, i, sq.Kind)
		}
		for _, n := range sq.Next {
			if n < 0 || n >= len(b.squares) {
				return fmt.Errorf("%w %d: edge to %d out of range", ErrBadSquare, i, n)
			}
		}
		if ev := sq.Event; ev != nil {
			if err := validateEvent(ev); err != nil {
				return fmt.Errorf("%w %d: %v", ErrBadSquare, i, err)
			}
		}
	}
	return nil
}

func validateEvent(ev *Event) error {
	switch ev.Kind {
	case GainMoney, LoseMoney, StealMoney:
		if ev.Amount < 0 {
			return fmt.Errorf("%s amount must not be negative", ev.Kind)
		}
	case RandomMoney:
		if ev.MinAmount > ev.Amount {
			return errors.New("random_money min_amount exceeds amount")
		}
	case GoalBonus:
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	return nil
}
