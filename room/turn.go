package room

import (
	"fmt"
	"sort"
	"time"

	"github.com/wfunc/sugoroku/board"
	"github.com/wfunc/sugoroku/event"
	"github.com/wfunc/sugoroku/logger"
	"github.com/wfunc/sugoroku/models"
	"github.com/wfunc/sugoroku/network"
	"github.com/wfunc/sugoroku/session"
	"github.com/wfunc/sugoroku/state"
)

func precondition(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...))
}

// checkTurn validates that the room is playing, sess owns the current seat and
// the turn is in phase want.
func (r *Room) checkTurn(sess *session.Session, want state.Phase) (*Player, error) {
	if r.closed || r.status != StatusPlaying {
		return nil, precondition("room %s is %s", r.Code, r.status)
	}
	if !r.announced {
		return nil, precondition("first turn of room %s not announced yet", r.Code)
	}
	p := r.playerOf(sess)
	if p == nil || p.Index != r.current {
		return nil, precondition("not this session's turn")
	}
	if phase := r.turn.Current(); phase != want {
		return nil, precondition("turn phase is %s, want %s", phase, want)
	}
	return p, nil
}

// StartGame is sent by the host once enough players are seated.
func (r *Room) StartGame(sess *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.closed || r.status != StatusWaiting:
		return precondition("room %s is not waiting", r.Code)
	case r.host != sess:
		return precondition("only the host can start")
	case len(r.players) < r.mgr.settings.MinPlayers:
		return precondition("need %d players, have %d", r.mgr.settings.MinPlayers, len(r.players))
	}

	r.status = StatusPlaying
	r.current = 0
	r.startedAt = time.Now()
	r.announced = false

	r.broadcast(network.MsgGameStarted, network.GameStarted{
		Type:        network.MsgGameStarted,
		Board:       r.mgr.settings.Board.Squares(),
		Players:     r.snapshot(),
		FirstPlayer: r.current,
	})
	r.after(r.mgr.settings.TurnStartDelay, r.announceTurn)

	r.mgr.metrics.IncGamesStarted()
	logger.Log.Infof("Game started in room %s with %d players", r.Code, len(r.players))
	return nil
}

// Roll throws the die for the current player.
func (r *Room) Roll(sess *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.checkTurn(sess, state.Idle)
	if err != nil {
		return err
	}

	value := r.mgr.rng.Intn(diceFaces) + 1
	r.setPhase(state.Rolling)
	r.broadcast(network.MsgDiceResult, network.DiceResult{
		Type:        network.MsgDiceResult,
		PlayerIndex: p.Index,
		Value:       value,
	})

	idx := p.Index
	r.after(r.mgr.settings.DiceDelay, func() { r.move(idx, value) })
	return nil
}

// move walks the board for steps. It stops early on a goal and suspends at
// a branch square until the player picks a route.
func (r *Room) move(idx, steps int) {
	b := r.mgr.settings.Board
	p := r.players[idx]
	cur := p.Position
	path := []int{}

	for i := 0; i < steps; i++ {
		sq := b.Square(cur)
		if sq.Kind == board.KindGoal || len(sq.Next) == 0 {
			break
		}

		if sq.IsBranch() {
			p.Position = cur
			r.pending = &pendingBranch{player: idx, square: cur, remaining: steps - i}
			r.setPhase(state.BranchChoice)

			r.broadcast(network.MsgPlayerMoving, network.PlayerMoving{
				Type:        network.MsgPlayerMoving,
				PlayerIndex: idx,
				Path:        path,
			})
			r.sendTo(p.sess, network.MsgBranchChoiceRequest, network.BranchChoiceRequest{
				Type:        network.MsgBranchChoiceRequest,
				SquareIndex: cur,
				Options:     branchOptions(b, cur),
			})
			return
		}

		cur = sq.Next[0]
		path = append(path, cur)
		if b.Square(cur).Kind == board.KindGoal {
			break
		}
	}

	r.settle(p, cur, path)
}

func branchOptions(b *board.Board, idx int) []network.BranchOption {
	sq := b.Square(idx)
	options := make([]network.BranchOption, len(sq.Next))
	for i, next := range sq.Next {
		options[i] = network.BranchOption{Next: next, Label: b.BranchLabel(idx, i)}
	}
	return options
}

// BranchChoice applies the route picked at a pending branch and finishes the walk.
func (r *Room) BranchChoice(sess *session.Session, choice int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.checkTurn(sess, state.BranchChoice)
	if err != nil {
		return err
	}
	pb := r.pending
	if pb == nil || pb.player != p.Index {
		return precondition("no branch pending for seat %d", p.Index)
	}

	b := r.mgr.settings.Board
	sq := b.Square(pb.square)
	if choice < 0 || choice >= len(sq.Next) {
		return precondition("choice %d out of range", choice)
	}
	r.pending = nil

	cur := sq.Next[choice]
	path := []int{cur}
	for i := 1; i < pb.remaining; i++ {
		next := b.Square(cur)
		if next.Kind == board.KindGoal || len(next.Next) == 0 {
			break
		}
		// a second branch during the same roll follows its first route
		cur = next.Next[0]
		path = append(path, cur)
		if b.Square(cur).Kind == board.KindGoal {
			break
		}
	}

	r.settle(p, cur, path)
	return nil
}

// settle places p on its final square, announces the path and schedules
// the square's event once the animation is over.
func (r *Room) settle(p *Player, final int, path []int) {
	p.Position = final
	r.setPhase(state.Moving)

	r.broadcast(network.MsgPlayerMoving, network.PlayerMoving{
		Type:        network.MsgPlayerMoving,
		PlayerIndex: p.Index,
		Path:        path,
	})

	idx := p.Index
	r.after(r.mgr.settings.moveDelay(len(path)), func() { r.applySquareEvent(idx) })
}

func (r *Room) applySquareEvent(idx int) {
	p := r.players[idx]
	if !p.Connected || r.current != idx || r.turn.Current() != state.Moving {
		return
	}
	sq := r.mgr.settings.Board.Square(p.Position)

	if sq.Kind == board.KindGoal {
		if !p.Finished {
			r.finish(p)
			if r.active() == 0 {
				r.endGame()
				return
			}
		}
		r.advanceTurn()
		return
	}

	if sq.Event == nil {
		r.advanceTurn()
		return
	}

	holders := make([]event.Holder, len(r.players))
	for i, other := range r.players {
		holders[i] = event.Holder{Seat: other.Index, Money: other.Money, Connected: other.Connected}
	}
	out := event.Resolve(*sq.Event, idx, holders, r.mgr.rng)

	before := p.Money
	p.Money += out.Delta
	if out.Victim >= 0 {
		r.players[out.Victim].Money -= out.Delta
	}
	r.setPhase(state.Event)

	r.broadcast(network.MsgEventTriggered, network.EventTriggered{
		Type:        network.MsgEventTriggered,
		PlayerIndex: idx,
		SquareIndex: p.Position,
		Event: network.TriggeredEvent{
			Event:        *sq.Event,
			ActualAmount: out.Delta,
			Description:  out.Description,
		},
		MoneyBefore: before,
		MoneyAfter:  p.Money,
		Players:     r.snapshot(),
	})
	logger.Log.Debugf("Room %s seat %d: %s", r.Code, idx, out.Description)
}

// finish records p reaching the goal and pays the finish-order bonus.
func (r *Room) finish(p *Player) {
	p.Finished = true
	r.finishCount++
	p.FinishOrder = r.finishCount

	bonus := r.mgr.settings.bonusFor(p.FinishOrder)
	before := p.Money
	p.Money += bonus

	r.broadcast(network.MsgPlayerFinished, network.PlayerFinished{
		Type:        network.MsgPlayerFinished,
		PlayerIndex: p.Index,
		FinishOrder: p.FinishOrder,
		Bonus:       bonus,
		MoneyBefore: before,
		MoneyAfter:  p.Money,
	})
	logger.Log.Infof("Room %s: %s finished #%d (+%d)", r.Code, p.Name, p.FinishOrder, bonus)
}

// EventAck closes the event phase of the current player's turn.
func (r *Room) EventAck(sess *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.checkTurn(sess, state.Event); err != nil {
		return err
	}
	r.advanceTurn()
	return nil
}

// advanceTurn hands the turn to the next seat that is neither finished nor
// disconnected, wrapping around; the game ends when there is none.
func (r *Room) advanceTurn() {
	n := len(r.players)
	next := (r.current + 1) % n
	for attempts := 0; attempts < n; attempts++ {
		p := r.players[next]
		if !p.Finished && p.Connected {
			r.current = next
			r.setPhase(state.Idle)
			r.announceTurn()
			return
		}
		next = (next + 1) % n
	}
	r.endGame()
}

func (r *Room) announceTurn() {
	r.announced = true
	r.broadcast(network.MsgTurnStart, network.TurnStart{
		Type:          network.MsgTurnStart,
		CurrentPlayer: r.current,
		Players:       r.snapshot(),
	})
}

// endGame publishes the final ranking and schedules the room's destruction.
func (r *Room) endGame() {
	if r.status == StatusFinished {
		return
	}
	r.status = StatusFinished
	r.pending = nil
	r.setPhase(state.Finished)

	rankings := r.rankings()
	r.broadcast(network.MsgGameOver, network.GameOver{
		Type:     network.MsgGameOver,
		Rankings: rankings,
	})

	r.mgr.archiver.Archive(models.GameRecord{
		RoomCode:  r.Code,
		Players:   len(r.players),
		Rankings:  rankings,
		StartedAt: r.startedAt,
		EndedAt:   time.Now(),
	})
	r.mgr.metrics.IncGamesFinished()

	r.mgr.scheduler.AddTimer(r.mgr.settings.DestroyDelay, 0, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.mgr.destroyLocked(r)
	})
	logger.Log.Infof("Game ended in room %s", r.Code)
}

// rankings orders connected players: finishers by finish order, then the
// rest by money, richest first.
func (r *Room) rankings() []models.Ranking {
	ranked := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		if p.Connected {
			ranked = append(ranked, p)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Finished != b.Finished {
			return a.Finished
		}
		if a.Finished {
			return a.FinishOrder < b.FinishOrder
		}
		return a.Money > b.Money
	})

	out := make([]models.Ranking, len(ranked))
	for i, p := range ranked {
		out[i] = models.Ranking{
			Rank:        i + 1,
			PlayerIndex: p.Index,
			Name:        p.Name,
			Money:       p.Money,
			Finished:    p.Finished,
			FinishOrder: p.FinishOrder,
		}
	}
	return out
}
