package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

// Listener holds a dedicated backend connection, LISTENs on the configured
// notification channel, and publishes every decoded payload to the hub.
// Backend triggers NOTIFY with a small JSON body naming the table and the
// affected conversation/user; anything beyond routing is ignored.
type Listener struct {
	dsn     string
	channel string
	hub     *Hub
	log     *slog.Logger

	retryWait time.Duration
}

func NewListener(log *slog.Logger, hub *Hub, dsn, channel string) *Listener {
	return &Listener{
		dsn:       dsn,
		channel:   channel,
		hub:       hub,
		log:       log,
		retryWait: 2 * time.Second,
	}
}

// Run listens until the context is cancelled. A dropped connection is
// re-established after a short wait; consumers miss nothing they cannot
// recover, since every reconnect is followed by their own reloads on the
// next event.
func (l *Listener) Run(ctx context.Context) error {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		l.log.Warn("notification connection lost, reconnecting", "error", err)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.retryWait):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", l.channel, err)
	}
	l.log.Info("listening for backend notifications", "channel", l.channel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("wait: %w", err)
		}

		var change Change
		if err := json.Unmarshal([]byte(notification.Payload), &change); err != nil {
			l.log.Debug("undecodable notification payload ignored", "error", err)
			continue
		}
		l.hub.Publish(change)
	}
}
