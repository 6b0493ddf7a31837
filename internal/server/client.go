package server

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Keep-alive: a ping every pingInterval, peer has pingTimeout to answer.
	pingInterval = 20 * time.Second
	pingTimeout  = 10 * time.Second
	pongWait     = pingInterval + pingTimeout

	writeWait = 10 * time.Second

	sendQueueSize = 16
)

// Client is the per-connection state. authenticated and userID are only
// touched from the connection's own read loop, so they need no lock.
type Client struct {
	id   uint64
	conn *websocket.Conn
	send chan []byte

	authenticated bool
	userID        uint32
}

func newClient(id uint64, conn *websocket.Conn) *Client {
	return &Client{
		id:   id,
		conn: conn,
		send: make(chan []byte, sendQueueSize),
	}
}

// enqueue hands a frame to the write pump. Frames are dropped if the peer
// stopped draining; the keep-alive will take the connection down shortly.
func (c *Client) enqueue(frame []byte) {
	select {
	case c.send <- frame:
	default:
		slog.Warn("send queue full, dropping frame", "conn", c.id)
	}
}

// writePump is the single writer for the connection: solicited responses
// from the send queue plus keep-alive pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				slog.Warn("write failed", "conn", c.id, "err", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.Warn("ping failed", "conn", c.id, "err", err)
				return
			}
		}
	}
}
