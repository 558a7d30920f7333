package commands

import (
	"context"

	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/ports"

	"github.com/sirupsen/logrus"
)

// UnlockEntryCommandHandler reverses an entry to forming. The order line and
// the entry's link to it are left as they are; confirming again updates the
// same line.
type UnlockEntryCommandHandler struct {
	uowFactory EntryUoWFactory
	clock      ports.Clock
	notifier   notifier
}

func NewUnlockEntryCommandHandler(
	uowFactory EntryUoWFactory,
	publisher ports.Publisher,
	clock ports.Clock,
	log logrus.FieldLogger,
) *UnlockEntryCommandHandler {
	return &UnlockEntryCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		notifier:   newNotifier(publisher, clock, log),
	}
}

func (h *UnlockEntryCommandHandler) Handle(ctx context.Context, cmd UnlockEntryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	e, err := mutateEntry(ctx, h.uowFactory, cmd.EntryID(), func(e *entry.Entry) error {
		return e.Unlock(h.clock.Now())
	})
	if err != nil {
		return err
	}

	h.notifier.entryChanged(ctx, ports.EventEntryUnlocked, e)
	return nil
}

type MarkForReworkCommandHandler struct {
	uowFactory EntryUoWFactory
	clock      ports.Clock
	notifier   notifier
}

func NewMarkForReworkCommandHandler(
	uowFactory EntryUoWFactory,
	publisher ports.Publisher,
	clock ports.Clock,
	log logrus.FieldLogger,
) *MarkForReworkCommandHandler {
	return &MarkForReworkCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		notifier:   newNotifier(publisher, clock, log),
	}
}

func (h *MarkForReworkCommandHandler) Handle(ctx context.Context, cmd MarkForReworkCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	e, err := mutateEntry(ctx, h.uowFactory, cmd.EntryID(), func(e *entry.Entry) error {
		return e.MarkForRework(h.clock.Now())
	})
	if err != nil {
		return err
	}

	h.notifier.entryChanged(ctx, ports.EventEntryUpdated, e)
	return nil
}
