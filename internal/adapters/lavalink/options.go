package lavalink

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithDialer(d *websocket.Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

func WithReconnectDelay(d time.Duration) Option {
	return func(c *Client) { c.reconnect = d }
}

func WithClientName(name string) Option {
	return func(c *Client) { c.clientName = name }
}
