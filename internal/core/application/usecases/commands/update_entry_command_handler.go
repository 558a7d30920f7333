package commands

import (
	"context"

	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/ports"

	"github.com/sirupsen/logrus"
)

// UpdateEntryCommandHandler merges a patch into the stored entry. Unknown ids
// fail with ObjectNotFoundError.
type UpdateEntryCommandHandler struct {
	uowFactory EntryUoWFactory
	clock      ports.Clock
	notifier   notifier
}

func NewUpdateEntryCommandHandler(
	uowFactory EntryUoWFactory,
	publisher ports.Publisher,
	clock ports.Clock,
	log logrus.FieldLogger,
) *UpdateEntryCommandHandler {
	return &UpdateEntryCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		notifier:   newNotifier(publisher, clock, log),
	}
}

func (h *UpdateEntryCommandHandler) Handle(ctx context.Context, cmd UpdateEntryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	var previous kernel.ShipDate
	e, err := mutateEntry(ctx, h.uowFactory, cmd.EntryID(), func(e *entry.Entry) error {
		previous = e.ShipDate()
		return e.Apply(cmd.Patch(), cmd.Operator(), h.clock.Now())
	})
	if err != nil {
		return err
	}

	event := ports.EventEntryUpdated
	if p := cmd.Patch(); p.Status != nil && *p.Status == entry.Synced {
		event = ports.EventEntrySynced
	}
	// Moving the ship date moves the entry to another assembly room.
	if !previous.Equal(e.ShipDate()) {
		h.notifier.entryRemoved(ctx, ports.EventEntryDeleted, e.ID(), previous)
	}
	h.notifier.entryChanged(ctx, event, e)
	return nil
}
