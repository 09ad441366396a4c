package lavalink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Handler recibe lo que manda el nodo por el websocket. Lo implementa Manager.
type Handler interface {
	OnReady(sessionID string, resumed bool)
	OnPlayerUpdate(guildID string, st PlayerState)
	OnTrackEnd(guildID, reason string)
	OnTrackException(guildID, message string)
	OnSocketClosed(guildID string, code int, reason string)
}

// Run mantiene el websocket abierto hasta que ctx se cancele. Se reconecta solo.
func (c *Client) Run(ctx context.Context, userID string, h Handler) error {
	for {
		err := c.session(ctx, userID, h)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Warn("[lavalink.ws] disconnected", "err", err, "retry_in", c.reconnect)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.reconnect):
		}
	}
}

func (c *Client) wsURL() string {
	u := c.baseURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + apiPrefix + "/websocket"
}

func (c *Client) session(ctx context.Context, userID string, h Handler) error {
	hdr := http.Header{}
	hdr.Set("Authorization", c.password)
	hdr.Set("User-Id", userID)
	hdr.Set("Client-Name", c.clientName)
	if sid := c.SessionID(); sid != "" {
		hdr.Set("Session-Id", sid)
	}

	conn, res, err := c.dialer.DialContext(ctx, c.wsURL(), hdr)
	if res != nil && res.Body != nil {
		res.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			conn.Close()
		case <-stop:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		c.dispatch(data, h)
	}
}

func (c *Client) dispatch(data []byte, h Handler) {
	var m wsMessage
	if err := json.Unmarshal(data, &m); err != nil {
		slog.Warn("[lavalink.ws] bad payload", "err", err)
		return
	}

	switch m.Op {
	case "ready":
		c.setSessionID(m.SessionID)
		h.OnReady(m.SessionID, m.Resumed)
	case "playerUpdate":
		h.OnPlayerUpdate(m.GuildID, m.State)
	case "event":
		switch m.Type {
		case "TrackEndEvent":
			h.OnTrackEnd(m.GuildID, m.Reason)
		case "TrackExceptionEvent":
			msg := ""
			if m.Exception != nil {
				msg = m.Exception.Message
			}
			h.OnTrackException(m.GuildID, msg)
		case "TrackStuckEvent":
			h.OnTrackException(m.GuildID, "track stuck")
		case "WebSocketClosedEvent":
			h.OnSocketClosed(m.GuildID, m.Code, m.Reason)
		}
	case "stats":
	default:
		slog.Debug("[lavalink.ws] unknown op", "op", m.Op)
	}
}
