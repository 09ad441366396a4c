package lavalink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const apiPrefix = "/v4"

type Client struct {
	password   string
	http       *http.Client
	dialer     *websocket.Dialer
	baseURL    string
	clientName string
	reconnect  time.Duration

	mu        sync.RWMutex
	sessionID string
}

// New: baseURL tipo http://host:2333 (sin /v4).
func New(baseURL, password string, opts ...Option) *Client {
	c := &Client{
		password:   password,
		http:       &http.Client{Timeout: 10 * time.Second},
		dialer:     websocket.DefaultDialer,
		baseURL:    strings.TrimRight(baseURL, "/"),
		clientName: "music-panel-bot/1.0",
		reconnect:  5 * time.Second,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

func (c *Client) setSessionID(id string) {
	c.mu.Lock()
	c.sessionID = id
	c.mu.Unlock()
}

// doJSON: construye URL, agrega Authorization, maneja 404 y 429 con Retry-After simple.
func (c *Client) doJSON(ctx context.Context, method, path string, q url.Values, in, out any) error {
	return c.send(ctx, method, path, q, in, out, false)
}

// send hace el request; con retried=true un 429 ya no se reintenta y sale como APIError.
func (c *Client) send(ctx context.Context, method, path string, q url.Values, in, out any, retried bool) error {
	u := c.baseURL + apiPrefix + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("lavalink encode: %w", err)
		}
		body = b
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("lavalink request: %w", err)
	}
	req.Header.Set("Authorization", c.password)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("lavalink http: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusTooManyRequests && !retried {
		if ra := res.Header.Get("Retry-After"); ra != "" {
			if sec, _ := strconv.Atoi(ra); sec > 0 {
				select {
				case <-time.After(time.Duration(sec) * time.Second):
				case <-ctx.Done():
					return ctx.Err()
				}
				return c.send(ctx, method, path, q, in, out, true)
			}
		}
	}

	if res.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return &APIError{Status: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
