package room

import (
	"time"

	"github.com/wfunc/sugoroku/board"
	"github.com/wfunc/sugoroku/config"
)

// codeAlphabet leaves out 0/O and 1/I.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const diceFaces = 6

// Settings are the fixed rules shared by every room of a registry.
type Settings struct {
	Board          *board.Board
	MaxRooms       int
	MinPlayers     int
	MaxPlayers     int
	StartingMoney  int
	GoalBonuses    []int
	RoomCodeLength int
	NameMaxLength  int
	DiceDelay      time.Duration
	StepDelay      time.Duration
	MinMoveDelay   time.Duration
	TurnStartDelay time.Duration
	DestroyDelay   time.Duration
}

// DefaultSettings mirrors the configuration defaults with the built-in board.
func DefaultSettings() Settings {
	return Settings{
		Board:          board.Default(),
		MaxRooms:       20,
		MinPlayers:     2,
		MaxPlayers:     4,
		StartingMoney:  0,
		GoalBonuses:    []int{500, 300, 100, 0},
		RoomCodeLength: 5,
		NameMaxLength:  8,
		DiceDelay:      1500 * time.Millisecond,
		StepDelay:      400 * time.Millisecond,
		MinMoveDelay:   500 * time.Millisecond,
		TurnStartDelay: 500 * time.Millisecond,
		DestroyDelay:   5 * time.Second,
	}
}

// NewSettings builds Settings from the loaded game configuration.
func NewSettings(cfg config.GameConfig, b *board.Board) Settings {
	return Settings{
		Board:          b,
		MaxRooms:       cfg.MaxRooms,
		MinPlayers:     cfg.MinPlayers,
		MaxPlayers:     cfg.MaxPlayers,
		StartingMoney:  cfg.StartingMoney,
		GoalBonuses:    append([]int(nil), cfg.GoalBonuses...),
		RoomCodeLength: cfg.RoomCodeLength,
		NameMaxLength:  cfg.NameMaxLength,
		DiceDelay:      cfg.DiceDelay,
		StepDelay:      cfg.StepDelay,
		MinMoveDelay:   cfg.MinMoveDelay,
		TurnStartDelay: cfg.TurnStartDelay,
		DestroyDelay:   cfg.DestroyDelay,
	}
}

// bonusFor returns the goal bonus for the given 1-based finish order.
func (s Settings) bonusFor(order int) int {
	if order < 1 || order > len(s.GoalBonuses) {
		return 0
	}
	return s.GoalBonuses[order-1]
}

// moveDelay is how long clients get to animate a path before its event resolves.
func (s Settings) moveDelay(steps int) time.Duration {
	return max(time.Duration(steps)*s.StepDelay, s.MinMoveDelay)
}
