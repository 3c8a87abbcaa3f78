package hub

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relaychat/relay/internal/config"
	"github.com/relaychat/relay/pkg/log"
)

// Client is one active transport session. Its id is assigned at
// upgrade time and never reused.
type Client struct {
	ID   string
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte

	config config.WebSocketConfig
}

func NewClient(id string, hub *Hub, conn *websocket.Conn, cfg config.WebSocketConfig) *Client {
	buffer := cfg.SendBuffer
	if buffer <= 0 {
		buffer = 256
	}
	return &Client{
		ID:     id,
		Hub:    hub,
		Conn:   conn,
		Send:   make(chan []byte, buffer),
		config: cfg,
	}
}

// ReadPump reads frames until the connection dies, invoking onMessage
// per frame. onDisconnect runs exactly once, before the client is
// dropped from the hub, so state cleanup happens while the id is still
// resolvable.
func (c *Client) ReadPump(onMessage func(*Client, []byte), onDisconnect func(*Client)) {
	defer func() {
		onDisconnect(c)
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				l := log.L()
				l.Warn().Str(log.FieldConnectionID, c.ID).Err(err).Msg("websocket read error")
			}
			break
		}

		onMessage(c, message)
	}
}

// WritePump drains the send channel to the socket and keeps the
// connection alive with pings. One goroutine per client; the channel
// preserves FIFO order of everything dispatched to this connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendEvent marshals and queues one event for this client. A full
// send buffer drops the event rather than block the caller.
func (c *Client) SendEvent(event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	select {
	case c.Send <- data:
	default:
	}
	return nil
}
