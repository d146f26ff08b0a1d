// Package event turns a square's event into money movements.
package event

import (
	"fmt"

	"github.com/wfunc/sugoroku/board"
)

// Rand is the source of uniform integers in [0, n).
type Rand interface {
	Intn(n int) int
}

// Holder is a seat as seen by the resolver.
type Holder struct {
	Seat      int
	Money     int
	Connected bool
}

// Outcome is what applying an event means for the room. Delta is credited to
// the actor; when Victim >= 0 the same amount is debited from that seat.
type Outcome struct {
	Delta       int
	Victim      int
	Description string
}

// Resolve computes the outcome of ev for the player in seat actor.
// GoalBonus always resolves to zero: finish bonuses come from the finish order.
func Resolve(ev board.Event, actor int, holders []Holder, rng Rand) Outcome {
	out := Outcome{Victim: -1}

	switch ev.Kind {
	case board.GainMoney:
		out.Delta = ev.Amount
	case board.LoseMoney:
		out.Delta = -ev.Amount
	case board.RandomMoney:
		out.Delta = ev.MinAmount + rng.Intn(ev.Amount-ev.MinAmount+1)
	case board.StealMoney:
		victim := richestOther(actor, holders)
		if victim != nil && victim.Money > 0 {
			out.Delta = min(ev.Amount, victim.Money)
			out.Victim = victim.Seat
		}
	case board.GoalBonus:
	}

	out.Description = describe(ev, out)
	return out
}

// richestOther returns the connected seat other than actor holding strictly
// the most money; ties keep the earliest seat.
func richestOther(actor int, holders []Holder) *Holder {
	var richest *Holder
	for i := range holders {
		h := &holders[i]
		if h.Seat == actor || !h.Connected {
			continue
		}
		if richest == nil || h.Money > richest.Money {
			richest = h
		}
	}
	return richest
}

func describe(ev board.Event, out Outcome) string {
	if out.Victim >= 0 {
		return fmt.Sprintf("%s (took %d from player %d)", ev.Text, out.Delta, out.Victim+1)
	}
	return fmt.Sprintf("%s (%+d)", ev.Text, out.Delta)
}
