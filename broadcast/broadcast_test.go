package broadcast

import (
	"errors"
	"net"
	"testing"

	"github.com/wfunc/sugoroku/session"
)

type recordingConn struct {
	frames [][]byte
	fail   bool
}

func (c *recordingConn) Send(data []byte) error {
	if c.fail {
		return errors.New("broken pipe")
	}
	c.frames = append(c.frames, data)
	return nil
}

func (c *recordingConn) Close() error                 { return nil }
func (c *recordingConn) RemoteAddr() net.Addr         { return &net.TCPAddr{} }
func (c *recordingConn) ReadMessage() ([]byte, error) { return nil, nil }

type countingMetrics struct {
	byType map[string]int
}

func (m *countingMetrics) IncMessagesSent(msgType string, n int) {
	m.byType[msgType] += n
}

func TestRoomBroadcaster_Broadcast(t *testing.T) {
	metrics := &countingMetrics{byType: map[string]int{}}
	b := NewRoomBroadcaster(metrics)

	ok1, broken, ok2 := &recordingConn{}, &recordingConn{fail: true}, &recordingConn{}
	recipients := []*session.Session{
		session.NewSession("1", ok1),
		session.NewSession("2", broken),
		session.NewSession("3", ok2),
	}

	msg := map[string]string{"type": "turn_start"}
	if err := b.Broadcast(recipients, "turn_start", msg); err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}

	if len(ok1.frames) != 1 || len(ok2.frames) != 1 {
		t.Fatalf("Healthy recipients should get one frame each: %d, %d", len(ok1.frames), len(ok2.frames))
	}
	if string(ok1.frames[0]) != `{"type":"turn_start"}` {
		t.Errorf("Unexpected payload %s", ok1.frames[0])
	}
	if metrics.byType["turn_start"] != 2 {
		t.Errorf("Expected 2 delivered frames counted, got %d", metrics.byType["turn_start"])
	}
}

func TestRoomBroadcaster_MarshalError(t *testing.T) {
	b := NewRoomBroadcaster(nil)
	conn := &recordingConn{}
	err := b.SendTo(session.NewSession("1", conn), "bad", make(chan int))
	if err == nil {
		t.Fatal("Expected marshal error")
	}
	if len(conn.frames) != 0 {
		t.Error("Nothing should be sent when marshalling fails")
	}
}
