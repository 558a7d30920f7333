package broadcast

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"orderdesk/internal/core/ports"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const (
	listenerMinReconnect = 10 * time.Second
	listenerMaxReconnect = time.Minute
	listenerPingInterval = 90 * time.Second
)

// PostgresFanout uses LISTEN/NOTIFY on the service database, so no extra
// infrastructure is needed for multi-instance deployments.
type PostgresFanout struct {
	db      *sql.DB
	dsn     string
	channel string
	hub     *Hub
	log     logrus.FieldLogger
}

func NewPostgresFanout(db *sql.DB, dsn string, hub *Hub, log logrus.FieldLogger) *PostgresFanout {
	return &PostgresFanout{
		db:      db,
		dsn:     dsn,
		channel: Channel,
		hub:     hub,
		log:     log.WithField("component", "postgres_fanout"),
	}
}

// Publish sends the envelope with pg_notify. Payloads are a few hundred
// bytes, well under the 8000 byte NOTIFY limit.
func (f *PostgresFanout) Publish(ctx context.Context, room string, event string, payload ports.EntryEvent) error {
	raw, err := json.Marshal(Envelope{Room: room, Event: event, Payload: payload})
	if err != nil {
		return err
	}
	_, err = f.db.ExecContext(ctx, "SELECT pg_notify($1, $2)", f.channel, string(raw))
	return err
}

// Run listens and relays until ctx is done.
func (f *PostgresFanout) Run(ctx context.Context) error {
	listener := pq.NewListener(f.dsn, listenerMinReconnect, listenerMaxReconnect, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			f.log.WithField("event", ev).WithError(err).Warn("listener connection event")
		}
	})
	defer func() {
		_ = listener.Close()
	}()

	if err := listener.Listen(f.channel); err != nil {
		return err
	}
	f.log.WithField("channel", f.channel).Info("listening")

	pingCtx, stopPing := context.WithCancel(ctx)
	defer stopPing()
	go keepAlive(pingCtx, listenerPingInterval, listener.Ping)

	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-listener.Notify:
			if !ok {
				return nil
			}
			// nil after a reconnect; notifications sent meanwhile are lost.
			if n == nil {
				continue
			}
			relay(ctx, f.hub, f.log, []byte(n.Extra))
		}
	}
}

// keepAlive pings the listener connection every interval until ctx is done.
// Ticks that arrive while a ping is still running are dropped.
func keepAlive(ctx context.Context, every time.Duration, ping func() error) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = ping()
		}
	}
}
