package server

import (
	"fmt"
	"time"

	"github.com/wfunc/sugoroku/logger"
	"github.com/wfunc/sugoroku/network"
	"github.com/wfunc/sugoroku/room"
	"github.com/wfunc/sugoroku/session"
)

// dispatch decodes one client frame and routes it to the registry or the
// session's room. Malformed frames are dropped; the connection stays open.
func (s *GameServer) dispatch(sess *session.Session, raw []byte) {
	start := time.Now()
	in, err := network.DecodeInbound(raw)
	if err != nil {
		logger.Log.Warnf("Dropping message from session %s: %v", sess.GetID(), err)
		return
	}
	sess.Touch()

	switch in.Type {
	case network.MsgCreateRoom:
		_, err = s.roomManager.CreateRoom(sess, in.Name)
	case network.MsgJoinRoom:
		_, _, err = s.roomManager.JoinRoom(sess, in.Code, in.Name)
	case network.MsgStartGame, network.MsgRollDice, network.MsgBranchChoice, network.MsgEventAck:
		err = s.roomAction(sess, in)
	default:
		logger.Log.Warnf("Unknown message type %q from session %s", in.Type, sess.GetID())
		return
	}

	s.monitor.IncMessagesReceived(in.Type)
	s.report(sess, in.Type, err)
	s.monitor.ObserveMessageLatency(time.Since(start))
}

func (s *GameServer) roomAction(sess *session.Session, in *network.Inbound) error {
	r, ok := s.roomManager.RoomOf(sess)
	if !ok {
		return fmt.Errorf("%w: session is not in a room", room.ErrPrecondition)
	}

	switch in.Type {
	case network.MsgStartGame:
		return r.StartGame(sess)
	case network.MsgRollDice:
		return r.Roll(sess)
	case network.MsgBranchChoice:
		return r.BranchChoice(sess, *in.Choice)
	case network.MsgEventAck:
		return r.EventAck(sess)
	}
	return nil
}

// report answers user-facing failures with room_error and ignores the rest.
func (s *GameServer) report(sess *session.Session, msgType string, err error) {
	if err == nil {
		return
	}
	if !room.Reportable(err) {
		logger.Log.Debugf("Ignored %s from session %s: %v", msgType, sess.GetID(), err)
		return
	}

	s.monitor.IncRoomErrors(room.Reason(err))
	if err := s.broadcaster.SendTo(sess, network.MsgRoomError, network.RoomError{
		Type:    network.MsgRoomError,
		Message: err.Error(),
	}); err != nil {
		logger.Log.Warnf("Failed to send room_error to session %s: %v", sess.GetID(), err)
	}
}
