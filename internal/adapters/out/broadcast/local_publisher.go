package broadcast

import (
	"context"

	"orderdesk/internal/core/ports"
)

// LocalPublisher delivers to sessions connected to this instance only.
type LocalPublisher struct {
	hub *Hub
}

func NewLocalPublisher(hub *Hub) *LocalPublisher {
	return &LocalPublisher{hub: hub}
}

func (p *LocalPublisher) Publish(ctx context.Context, room string, event string, payload ports.EntryEvent) error {
	frame, err := Envelope{Room: room, Event: event, Payload: payload}.clientFrame()
	if err != nil {
		return err
	}
	return p.hub.Deliver(ctx, room, frame)
}
