// network/connection.go
package network

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	sendBufferSize = 256
)

var (
	ErrClosed         = errors.New("connection closed")
	ErrSendBufferFull = errors.New("send buffer full")
)

// Connection is one client's bidirectional text-message channel.
type Connection interface {
	Send(data []byte) error
	Close() error
	RemoteAddr() net.Addr
	ReadMessage() ([]byte, error)
}

// WSConnection adapts a gorilla websocket. Writes go through a buffered queue
// drained by a single writer goroutine so Send never blocks the caller.
type WSConnection struct {
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	heartbeat time.Duration
}

// NewWSConnection wraps conn and starts its writer. heartbeat is the ping
// period; a peer that stays silent for two periods is dropped.
func NewWSConnection(conn *websocket.Conn, heartbeat time.Duration) *WSConnection {
	c := &WSConnection{
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
		done:      make(chan struct{}),
		heartbeat: heartbeat,
	}

	conn.SetReadLimit(maxMessageSize)
	if heartbeat > 0 {
		conn.SetReadDeadline(time.Now().Add(heartbeat * 2))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(heartbeat * 2))
		})
	}

	go c.writePump()
	return c
}

func (c *WSConnection) Send(data []byte) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	default:
		// 客户端消费过慢，直接断开
		c.Close()
		return ErrSendBufferFull
	}
}

func (c *WSConnection) ReadMessage() ([]byte, error) {
	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if kind == websocket.TextMessage || kind == websocket.BinaryMessage {
			return data, nil
		}
	}
}

func (c *WSConnection) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

func (c *WSConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *WSConnection) writePump() {
	var tick <-chan time.Time
	if c.heartbeat > 0 {
		ticker := time.NewTicker(c.heartbeat)
		defer ticker.Stop()
		tick = ticker.C
	}
	defer c.conn.Close()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.Close()
				return
			}
		case <-tick:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			c.flush()
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// flush writes whatever is still queued so a final game_over is not lost.
func (c *WSConnection) flush() {
	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		default:
			return
		}
	}
}
