package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/coder/websocket"

	"github.com/vaultrun/scaperoom-backend/pkg/protocol"
)

// Client is a team's single peer link to a host. Connection failures surface
// to the caller; there is no automatic retry.
type Client struct {
	conn *websocket.Conn
}

// Dial connects to the host at serverURL and attaches to the room named by
// code. A bad code comes back as an HTTP 404 on the handshake.
func Dial(ctx context.Context, serverURL, code string) (*Client, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	u.Path = "/ws"
	u.RawQuery = url.Values{"code": {code}}.Encode()

	conn, _, err := websocket.Dial(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("connect to room %s: %w", code, err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Send(ctx context.Context, env protocol.Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return c.conn.Write(ctx, websocket.MessageText, payload)
}

// Receive blocks until the next host envelope arrives or the link fails.
func (c *Client) Receive(ctx context.Context) (protocol.Envelope, error) {
	_, data, err := c.conn.Read(ctx)
	if err != nil {
		return protocol.Envelope{}, err
	}
	var env protocol.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return protocol.Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}

func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "bye")
}
