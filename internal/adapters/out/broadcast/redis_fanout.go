package broadcast

import (
	"context"
	"encoding/json"

	"orderdesk/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisFanout publishes envelopes on a Redis channel and relays every message
// on that channel, its own included, to the local hub.
type RedisFanout struct {
	client  *redis.Client
	channel string
	hub     *Hub
	log     logrus.FieldLogger
}

func NewRedisFanout(client *redis.Client, hub *Hub, log logrus.FieldLogger) *RedisFanout {
	return &RedisFanout{
		client:  client,
		channel: Channel,
		hub:     hub,
		log:     log.WithField("component", "redis_fanout"),
	}
}

func (f *RedisFanout) Publish(ctx context.Context, room string, event string, payload ports.EntryEvent) error {
	raw, err := json.Marshal(Envelope{Room: room, Event: event, Payload: payload})
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, f.channel, raw).Err()
}

// Run subscribes and relays until ctx is done.
func (f *RedisFanout) Run(ctx context.Context) error {
	sub := f.client.Subscribe(ctx, f.channel)
	defer func() {
		_ = sub.Close()
	}()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	f.log.WithField("channel", f.channel).Info("subscribed")

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			relay(ctx, f.hub, f.log, []byte(msg.Payload))
		}
	}
}
