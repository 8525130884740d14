// Package ws adapts a gorilla/websocket connection to match.Communicator,
// carrying the line-oriented text frames of §6 over a single text-message
// WebSocket stream (one frame per message, no batching).
package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"cascadeengine/internal/wire"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Conn implements match.Communicator over a single WebSocket connection.
type Conn struct {
	ws *websocket.Conn
}

// Upgrade promotes an HTTP request to a WebSocket connection and wraps it.
func Upgrade(w http.ResponseWriter, r *http.Request) (*Conn, error) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	c.SetReadDeadline(time.Now().Add(pongWait))
	c.SetPongHandler(func(string) error {
		c.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	return &Conn{ws: c}, nil
}

// Read blocks for the next inbound text message and returns it as a frame
// line. Binary messages are skipped — the protocol is UTF-8 text only.
func (c *Conn) Read() (string, error) {
	for {
		kind, data, err := c.ws.ReadMessage()
		if err != nil {
			return "", err
		}
		if kind != websocket.TextMessage {
			continue
		}
		return string(data), nil
	}
}

// Send encodes i and writes it as a single text message.
func (c *Conn) Send(i wire.Instruction) error {
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, []byte(wire.Encode(i)))
}

// Close tears down the underlying connection.
func (c *Conn) Close() error {
	return c.ws.Close()
}

// KeepAlive pings the peer on pingPeriod until stop fires, closing the
// connection if a ping ever fails to send.
func (c *Conn) KeepAlive(stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.ws.Close()
				return
			}
		}
	}
}
