// broadcast/broadcast.go
package broadcast

import (
	"encoding/json"

	"github.com/wfunc/sugoroku/logger"
	"github.com/wfunc/sugoroku/session"
)

// Counter is notified once per delivered frame.
type Counter interface {
	IncMessagesSent(msgType string, n int)
}

// 基于房间的广播器：消息只编码一次，再按顺序发给每个接收者
type RoomBroadcaster struct {
	counter Counter
}

func NewRoomBroadcaster(counter Counter) *RoomBroadcaster {
	return &RoomBroadcaster{counter: counter}
}

// Broadcast sends msg to every recipient in order. Delivery failures are
// logged and skipped; the transport drops the connection on its own.
func (b *RoomBroadcaster) Broadcast(recipients []*session.Session, msgType string, msg interface{}) error {
	if len(recipients) == 0 {
		return nil
	}
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Log.Errorf("Error marshalling %s message: %v", msgType, err)
		return err
	}

	sent := 0
	for _, s := range recipients {
		if err := s.Send(data); err != nil {
			logger.Log.Warnf("Failed to send %s to session %s: %v", msgType, s.GetID(), err)
			continue
		}
		sent++
	}
	if b.counter != nil && sent > 0 {
		b.counter.IncMessagesSent(msgType, sent)
	}
	return nil
}

// SendTo delivers msg to a single session.
func (b *RoomBroadcaster) SendTo(s *session.Session, msgType string, msg interface{}) error {
	return b.Broadcast([]*session.Session{s}, msgType, msg)
}
