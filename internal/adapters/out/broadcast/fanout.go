package broadcast

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Fanout modes selected by BROADCAST_FANOUT.
const (
	FanoutLocal    = "local"
	FanoutRedis    = "redis"
	FanoutPostgres = "postgres"
)

// Channel is the pub/sub channel name shared by all instances.
const Channel = "orderdesk_assembly_events"

// relay hands an envelope received from another instance to local sessions.
func relay(ctx context.Context, hub *Hub, log logrus.FieldLogger, raw []byte) {
	env, err := decodeEnvelope(raw)
	if err != nil {
		log.WithError(err).Warn("undecodable broadcast envelope")
		return
	}
	frame, err := env.clientFrame()
	if err != nil {
		log.WithError(err).Warn("unencodable broadcast frame")
		return
	}
	if err = hub.Deliver(ctx, env.Room, frame); err != nil {
		log.WithField("room", env.Room).WithError(err).Warn("local delivery failed")
	}
}
