// room/room.go
package room

import (
	"fmt"
	"sync"
	"time"

	"github.com/wfunc/sugoroku/logger"
	"github.com/wfunc/sugoroku/network"
	"github.com/wfunc/sugoroku/session"
	"github.com/wfunc/sugoroku/state"
)

// RoomStatus 表示房间的业务状态
type RoomStatus int

const (
	StatusWaiting RoomStatus = iota
	StatusPlaying
	StatusFinished
)

func (s RoomStatus) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusPlaying:
		return "playing"
	case StatusFinished:
		return "finished"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Player is one seat. Index is the seat number and only changes while the
// room is still waiting for the game to start.
type Player struct {
	Index       int
	Name        string
	Position    int
	Money       int
	Finished    bool
	FinishOrder int
	Connected   bool
	sess        *session.Session
}

// pendingBranch exists only while the turn phase is branch_choice.
type pendingBranch struct {
	player    int
	square    int
	remaining int
}

// Room 是游戏房间的核心结构。All fields below mu are guarded by it; every
// inbound action and every timer continuation holds it for the whole step.
type Room struct {
	Code      string
	CreatedAt time.Time

	mgr *Manager

	mu          sync.Mutex
	players     []*Player
	host        *session.Session
	status      RoomStatus
	current     int
	turn        *state.Machine
	finishCount int
	pending     *pendingBranch
	startedAt   time.Time
	announced   bool // a turn_start has gone out since the game started
	closed      bool
}

func newRoom(code string, mgr *Manager) *Room {
	r := &Room{
		Code:      code,
		CreatedAt: time.Now(),
		mgr:       mgr,
		status:    StatusWaiting,
		turn:      state.NewMachine(),
	}
	r.turn.OnChange(func(from, to state.Phase) {
		logger.Log.Debugf("Room %s turn phase %s -> %s", r.Code, from, to)
	})
	return r
}

// seat appends a new player for sess at the next index.
func (r *Room) seat(sess *session.Session, name string) *Player {
	p := &Player{
		Index:     len(r.players),
		Name:      name,
		Money:     r.mgr.settings.StartingMoney,
		Connected: true,
		sess:      sess,
	}
	r.players = append(r.players, p)
	return p
}

// playerOf returns the seat owned by sess, or nil.
func (r *Room) playerOf(sess *session.Session) *Player {
	for _, p := range r.players {
		if p.sess == sess {
			return p
		}
	}
	return nil
}

func (r *Room) setPhase(to state.Phase) {
	if err := r.turn.ChangeState(to); err != nil {
		logger.Log.Errorf("Room %s: %v", r.Code, err)
	}
}

// after schedules fn once delay has passed. On firing fn runs under the room
// lock, and only if the room is still playing and no turn transition has
// happened since scheduling.
func (r *Room) after(delay time.Duration, fn func()) {
	seq := r.turn.Seq()
	r.mgr.scheduler.AddTimer(delay, 0, func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		if r.closed || r.status != StatusPlaying || r.turn.Seq() != seq {
			logger.Log.Debugf("Room %s dropped stale continuation", r.Code)
			return
		}
		fn()
	})
}

// connected counts seats whose connection is still open.
func (r *Room) connected() int {
	n := 0
	for _, p := range r.players {
		if p.Connected {
			n++
		}
	}
	return n
}

// active counts seats that can still take a turn.
func (r *Room) active() int {
	n := 0
	for _, p := range r.players {
		if p.Connected && !p.Finished {
			n++
		}
	}
	return n
}

func (r *Room) recipients(exclude *session.Session) []*session.Session {
	out := make([]*session.Session, 0, len(r.players))
	for _, p := range r.players {
		if p.Connected && p.sess != nil && p.sess != exclude {
			out = append(out, p.sess)
		}
	}
	return out
}

func (r *Room) broadcast(msgType string, msg interface{}) {
	r.broadcastExcept(nil, msgType, msg)
}

func (r *Room) broadcastExcept(exclude *session.Session, msgType string, msg interface{}) {
	if err := r.mgr.broadcaster.Broadcast(r.recipients(exclude), msgType, msg); err != nil {
		logger.Log.Errorf("Room %s broadcast %s failed: %v", r.Code, msgType, err)
	}
}

func (r *Room) sendTo(sess *session.Session, msgType string, msg interface{}) {
	if err := r.mgr.broadcaster.SendTo(sess, msgType, msg); err != nil {
		logger.Log.Errorf("Room %s send %s failed: %v", r.Code, msgType, err)
	}
}

// snapshot returns the roster in seat order.
func (r *Room) snapshot() []network.PlayerInfo {
	out := make([]network.PlayerInfo, len(r.players))
	for i, p := range r.players {
		out[i] = network.PlayerInfo{
			Index:        p.Index,
			Name:         p.Name,
			Position:     p.Position,
			Money:        p.Money,
			Finished:     p.Finished,
			FinishOrder:  p.FinishOrder,
			Disconnected: !p.Connected,
			IsHost:       p.sess != nil && p.sess == r.host,
		}
	}
	return out
}

// --- 只读访问 ---

func (r *Room) Status() RoomStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Room) TurnPhase() state.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.turn.Current()
}

func (r *Room) CurrentPlayer() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Room) FinishCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finishCount
}

func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// Players returns a copy of the roster.
func (r *Room) Players() []network.PlayerInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}
