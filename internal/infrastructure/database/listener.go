package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"invitefeed/internal/infrastructure/realtime"
)

// NotifyChannel is the channel written by the notify_invite_* triggers.
const NotifyChannel = "invite_events"

const listenRetryDelay = 5 * time.Second

// Listener turns Postgres NOTIFY messages into hub notifications. It holds
// one pooled connection for as long as it runs.
type Listener struct {
	pool    *pgxpool.Pool
	hub     *realtime.Hub
	channel string
	logger  *slog.Logger
}

func NewListener(pool *pgxpool.Pool, hub *realtime.Hub, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{pool: pool, hub: hub, channel: NotifyChannel, logger: logger}
}

// Run listens until ctx is cancelled, reconnecting after connection errors.
func (l *Listener) Run(ctx context.Context) error {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		l.logger.Warn("⚠️ Écoute Postgres interrompue, nouvelle tentative", "channel", l.channel, "err", err)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(listenRetryDelay):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	l.logger.Info("✅ Écoute des notifications Postgres", "channel", l.channel)

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		notification, err := decodePayload(n.Payload)
		if err != nil {
			l.logger.Warn("⚠️ Notification illisible ignorée", "payload", n.Payload, "err", err)
			continue
		}
		l.hub.Publish(notification)
	}
}

func decodePayload(payload string) (realtime.Notification, error) {
	var n realtime.Notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		return n, err
	}
	switch n.Op {
	case realtime.OpInsert, realtime.OpUpdate, realtime.OpDelete:
	default:
		return n, fmt.Errorf("unknown op %q", n.Op)
	}
	if n.EventID == "" {
		return n, fmt.Errorf("missing id")
	}
	return n, nil
}
