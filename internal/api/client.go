package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/bryanchriswhite/FocusTabs/internal/tabs"
)

// Client talks to a control server over its unix socket.
type Client struct {
	socket string
	http   *http.Client
	dialer *websocket.Dialer
	base   string
}

// NewClient returns a client for the server listening on socket.
func NewClient(socket string) *Client {
	dial := func(ctx context.Context, _, _ string) (net.Conn, error) {
		var d net.Dialer
		return d.DialContext(ctx, "unix", socket)
	}
	return &Client{
		socket: socket,
		http:   &http.Client{Transport: &http.Transport{DialContext: dial}},
		dialer: &websocket.Dialer{NetDialContext: dial},
		base:   "http://focustabs",
	}
}

// Tabs returns the current tab list.
func (c *Client) Tabs(ctx context.Context) (tabs.Snapshot, error) {
	var snap tabs.Snapshot
	err := c.do(ctx, http.MethodGet, "/api/tabs", nil, &snap)
	return snap, err
}

// Select focuses the target tab and returns the resulting tab list.
func (c *Client) Select(ctx context.Context, t Target) (tabs.Snapshot, error) {
	var snap tabs.Snapshot
	err := c.do(ctx, http.MethodPost, "/api/tabs/select", t, &snap)
	return snap, err
}

// Close closes the target tab, or the selected one for an empty target.
func (c *Client) Close(ctx context.Context, t Target) error {
	return c.do(ctx, http.MethodPost, "/api/tabs/close", t, nil)
}

// Spawn starts a client with args appended to the container's command.
func (c *Client) Spawn(ctx context.Context, args []string) error {
	return c.do(ctx, http.MethodPost, "/api/spawn", SpawnRequest{Args: args}, nil)
}

// Health returns the server's version.
func (c *Client) Health(ctx context.Context) (string, error) {
	var resp map[string]string
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &resp); err != nil {
		return "", err
	}
	return resp["version"], nil
}

// Watch calls fn with the current tab list and then with every change
// until ctx is done, the server goes away or fn returns an error.
func (c *Client) Watch(ctx context.Context, fn func(tabs.Snapshot) error) error {
	url := strings.Replace(c.base, "http", "ws", 1) + "/api/tabs/stream"
	conn, _, err := c.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.socket, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		var snap tabs.Snapshot
		if err := conn.ReadJSON(&snap); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("stream: %w", err)
		}
		if err := fn(snap); err != nil {
			return err
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", c.socket, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
