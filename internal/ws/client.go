package ws

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Client wraps a gorilla connection with a write lock. The hub may broadcast
// from several goroutines while the read loop also pings; gorilla allows only
// one concurrent writer.
type Client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{conn: conn}
}

func (c *Client) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *Client) Close() error {
	return c.conn.Close()
}
