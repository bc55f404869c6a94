package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// WSClient streams user fills from the exchange websocket. Only the
// fill_watch tool uses it; the one-shot seeding actions stay on REST.
type WSClient struct {
	url  string
	conn *websocket.Conn
}

type wsSubscription struct {
	Type string `json:"type"`
	User string `json:"user,omitempty"`
}

type wsSubscribeMessage struct {
	Method       string         `json:"method"`
	Subscription wsSubscription `json:"subscription"`
}

type wsEnvelope struct {
	Channel string          `json:"channel"`
	Data    json.RawMessage `json:"data"`
}

type wsUserFills struct {
	User       string `json:"user"`
	Fills      []Fill `json:"fills"`
	IsSnapshot bool   `json:"isSnapshot,omitempty"`
}

// NewWSClient derives the websocket endpoint from an HTTP base URL.
func NewWSClient(baseURL string) *WSClient {
	url := strings.Replace(baseURL, "https://", "wss://", 1)
	url = strings.Replace(url, "http://", "ws://", 1)
	return &WSClient{url: url + "/ws"}
}

// Connect dials the websocket endpoint.
func (w *WSClient) Connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 15 * time.Second}
	conn, _, err := dialer.DialContext(ctx, w.url, nil)
	if err != nil {
		return fmt.Errorf("websocket connection failed: %w", err)
	}
	w.conn = conn
	return nil
}

// SubscribeUserFills subscribes to the fill feed for a 0x address.
func (w *WSClient) SubscribeUserFills(user string) error {
	if w.conn == nil {
		return fmt.Errorf("not connected")
	}
	return w.conn.WriteJSON(wsSubscribeMessage{
		Method:       "subscribe",
		Subscription: wsSubscription{Type: "userFills", User: user},
	})
}

// ReadFills blocks reading the stream and invokes handler per fill. It
// returns when the context is canceled or the connection drops. The initial
// snapshot batch is skipped; only live fills are delivered.
func (w *WSClient) ReadFills(ctx context.Context, handler func(Fill)) error {
	if w.conn == nil {
		return fmt.Errorf("not connected")
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		_, message, err := w.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("websocket read: %w", err)
		}
		var env wsEnvelope
		if err := json.Unmarshal(message, &env); err != nil {
			continue
		}
		if env.Channel != "userFills" {
			continue
		}
		var payload wsUserFills
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			continue
		}
		if payload.IsSnapshot {
			continue
		}
		for _, fill := range payload.Fills {
			handler(fill)
		}
	}
}

// Close shuts down the connection.
func (w *WSClient) Close() error {
	if w.conn == nil {
		return nil
	}
	return w.conn.Close()
}
