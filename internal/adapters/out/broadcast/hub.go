package broadcast

import (
	"context"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

type membership struct {
	room   string
	member Member
}

type departure struct {
	room string
	id   string
}

type delivery struct {
	room string
	msg  []byte
}

// Hub owns the Registry. Membership changes and deliveries are serialized
// through its goroutine; callers never touch the registry directly.
type Hub struct {
	joins      chan membership
	leaves     chan departure
	deliveries chan delivery
	done       chan struct{}

	dropped atomic.Int64
	log     logrus.FieldLogger
}

func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		joins:      make(chan membership),
		leaves:     make(chan departure),
		deliveries: make(chan delivery, 256),
		done:       make(chan struct{}),
		log:        log.WithField("component", "broadcast_hub"),
	}
}

// Run processes joins, leaves and deliveries until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	registry := NewRegistry()
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-h.joins:
			registry = registry.Add(j.room, j.member)
		case l := <-h.leaves:
			registry = registry.Remove(l.room, l.id)
		case d := <-h.deliveries:
			for _, m := range registry.Members(d.room) {
				if !m.Send(d.msg) {
					h.dropped.Add(1)
					h.log.WithFields(logrus.Fields{
						"room":    d.room,
						"session": m.ID(),
					}).Debug("session too slow, message dropped")
				}
			}
		}
	}
}

func (h *Hub) Join(room string, m Member) {
	select {
	case h.joins <- membership{room: room, member: m}:
	case <-h.done:
	}
}

func (h *Hub) Leave(room string, id string) {
	select {
	case h.leaves <- departure{room: room, id: id}:
	case <-h.done:
	}
}

// Deliver hands msg to every member of room. It returns ctx.Err() when the
// hub is backed up for longer than ctx allows.
func (h *Hub) Deliver(ctx context.Context, room string, msg []byte) error {
	select {
	case h.deliveries <- delivery{room: room, msg: msg}:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dropped counts messages a slow session did not accept.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}
