package commands

import (
	"context"
	"time"

	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/ports"

	"github.com/sirupsen/logrus"
)

// publishTimeout bounds one broadcast. Publishing runs on a context detached
// from the request.
var publishTimeout = 2 * time.Second

// notifier publishes entry events after commit. Failures are logged and never
// returned: the write has already succeeded.
type notifier struct {
	publisher ports.Publisher
	clock     ports.Clock
	log       logrus.FieldLogger
}

func newNotifier(publisher ports.Publisher, clock ports.Clock, log logrus.FieldLogger) notifier {
	return notifier{publisher: publisher, clock: clock, log: log}
}

func (n notifier) entryChanged(ctx context.Context, event string, e *entry.Entry) {
	n.publish(ctx, event, e.ShipDate(), ports.EntryEvent{
		EntryID:     e.ID().String(),
		Status:      e.Status().String(),
		ShippedQty:  e.ShippedQty().String(),
		ConfirmedBy: e.ConfirmedBy(),
	})
}

func (n notifier) entryRemoved(ctx context.Context, event string, id kernel.UUID, shipDate kernel.ShipDate) {
	n.publish(ctx, event, shipDate, ports.EntryEvent{
		EntryID: id.String(),
		Status:  "deleted",
	})
}

func (n notifier) publish(ctx context.Context, event string, shipDate kernel.ShipDate, payload ports.EntryEvent) {
	if n.publisher == nil {
		return
	}
	payload.EventID = kernel.NewUUID().String()
	payload.At = n.clock.Now()
	room := ports.AssemblyRoom(shipDate)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := n.publisher.Publish(ctx, room, event, payload); err != nil {
		n.log.WithFields(logrus.Fields{
			"room":    room,
			"event":   event,
			"entryId": payload.EntryID,
		}).WithError(err).Warn("broadcast failed")
	}
}
