package room

import (
	"github.com/wfunc/sugoroku/logger"
	"github.com/wfunc/sugoroku/network"
	"github.com/wfunc/sugoroku/session"
	"github.com/wfunc/sugoroku/state"
)

// Disconnect reacts to sess losing its connection. What happens depends on
// the phase of the room it sat in.
func (m *Manager) Disconnect(sess *session.Session) {
	code := sess.RoomCode()
	if code == "" {
		return
	}
	defer sess.ClearRoom(code)

	r, ok := m.GetRoom(code)
	if !ok {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	switch r.status {
	case StatusWaiting:
		r.leaveWaiting(sess)
	case StatusPlaying:
		r.leavePlaying(sess)
	case StatusFinished:
		r.leaveFinished(sess)
	}
	logger.Log.Infof("%s disconnected from room %s", sess.Name(), code)
}

// leaveWaiting removes the seat and renumbers the rest densely.
func (r *Room) leaveWaiting(sess *session.Session) {
	p := r.playerOf(sess)
	if p == nil {
		return
	}

	kept := r.players[:0]
	for _, other := range r.players {
		if other != p {
			kept = append(kept, other)
		}
	}
	r.players = kept
	for i, other := range r.players {
		other.Index = i
	}

	if len(r.players) == 0 {
		r.mgr.destroyLocked(r)
		return
	}

	if r.host == sess {
		r.host = r.players[0].sess
		r.broadcast(network.MsgHostChanged, network.HostChanged{
			Type:         network.MsgHostChanged,
			NewHostIndex: 0,
		})
	}
	r.broadcast(network.MsgPlayerLeft, network.Roster{
		Type:    network.MsgPlayerLeft,
		Players: r.snapshot(),
	})
}

// leavePlaying keeps the seat but marks it disconnected so indices stay stable.
func (r *Room) leavePlaying(sess *session.Session) {
	p := r.playerOf(sess)
	if p == nil || !p.Connected {
		return
	}
	p.Connected = false

	r.broadcast(network.MsgPlayerDisconnected, network.PlayerDisconnected{
		Type:        network.MsgPlayerDisconnected,
		PlayerIndex: p.Index,
	})

	if r.current == p.Index {
		r.pending = nil
		if r.turn.Current() != state.Idle {
			// abandon whatever roll was in flight; its continuation goes stale
			r.setPhase(state.Idle)
		}
		r.advanceTurn()
		if r.status != StatusPlaying {
			return
		}
	}

	switch r.connected() {
	case 1:
		r.endGame()
	case 0:
		r.mgr.destroyLocked(r)
	}
}

// leaveFinished destroys the room once nobody is left to read the results.
func (r *Room) leaveFinished(sess *session.Session) {
	if p := r.playerOf(sess); p != nil {
		p.Connected = false
	}
	if r.connected() == 0 {
		r.mgr.destroyLocked(r)
	}
}
