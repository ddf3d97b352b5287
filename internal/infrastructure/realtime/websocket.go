package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const defaultReconnectDelay = 5 * time.Second

// Frame is one message sent by the push server.
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

var frameOps = map[string]Op{
	"event_created": OpInsert,
	"event_updated": OpUpdate,
	"event_deleted": OpDelete,
}

// WSClient reads notifications from a WebSocket push server and publishes
// them on a Hub. It reconnects until its context is cancelled.
type WSClient struct {
	url            string
	hub            *Hub
	logger         *slog.Logger
	dialer         *websocket.Dialer
	reconnectDelay time.Duration
}

func NewWSClient(url string, hub *Hub, logger *slog.Logger) *WSClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &WSClient{
		url:            url,
		hub:            hub,
		logger:         logger,
		dialer:         websocket.DefaultDialer,
		reconnectDelay: defaultReconnectDelay,
	}
}

func (c *WSClient) Run(ctx context.Context) error {
	for {
		err := c.session(ctx)
		if ctx.Err() != nil {
			return nil
		}
		c.logger.Warn("⚠️ Connexion WebSocket perdue, nouvelle tentative", "url", c.url, "err", err, "delay", c.reconnectDelay)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.reconnectDelay):
		}
	}
}

func (c *WSClient) session(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	})
	defer stop()

	c.logger.Info("✅ Flux temps réel connecté", "url", c.url)
	for {
		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return errors.New("closed by server")
			}
			return fmt.Errorf("read: %w", err)
		}
		n, ok := DecodeFrame(frame)
		if !ok {
			c.logger.Debug("trame ignorée", "type", frame.Type)
			continue
		}
		c.hub.Publish(n)
	}
}

// DecodeFrame maps a server frame to a Notification. Unknown types and
// frames without an event id are rejected.
func DecodeFrame(frame Frame) (Notification, bool) {
	op, ok := frameOps[frame.Type]
	if !ok {
		return Notification{}, false
	}
	var data struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(frame.Data, &data); err != nil || data.ID == "" {
		return Notification{}, false
	}
	return Notification{Op: op, EventID: data.ID}, true
}
