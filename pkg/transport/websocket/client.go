package websocket

import (
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
)

// client is one upgraded socket. It implements transport.Conn.
type client struct {
	id     string
	opened time.Time
	conn   *ws.Conn
	send   chan []byte

	mu     sync.Mutex
	closed bool
}

func newClient(id string, conn *ws.Conn, buffer int) *client {
	return &client{
		id:     id,
		opened: time.Now().UTC(),
		conn:   conn,
		send:   make(chan []byte, buffer),
	}
}

func (c *client) ID() string          { return c.id }
func (c *client) OpenedAt() time.Time { return c.opened }

// enqueue never blocks: a full buffer is reported to the caller.
func (c *client) enqueue(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}
	select {
	case c.send <- msg:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// shutdown stops the write pump, which sends a close frame and closes the
// socket. Safe to call more than once.
func (c *client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *client) writePump(writeWait, pingPeriod time.Duration) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(ws.CloseMessage, ws.FormatCloseMessage(ws.CloseNormalClosure, ""))
				return
			}
			w, err := c.conn.NextWriter(ws.TextMessage)
			if err != nil {
				return
			}
			_, _ = w.Write(message)
			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(ws.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
