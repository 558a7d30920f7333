package commands

import (
	"context"

	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/ports"

	"github.com/sirupsen/logrus"
)

// CreateEntryCommandHandler resolves the row against master data, derives the
// shipment-batch-id and sum, and inserts the entry.
type CreateEntryCommandHandler struct {
	uowFactory EntryUoWFactory
	resolver   EntryResolver
	clock      ports.Clock
	notifier   notifier
}

func NewCreateEntryCommandHandler(
	uowFactory EntryUoWFactory,
	resolver EntryResolver,
	publisher ports.Publisher,
	clock ports.Clock,
	log logrus.FieldLogger,
) *CreateEntryCommandHandler {
	return &CreateEntryCommandHandler{
		uowFactory: uowFactory,
		resolver:   resolver,
		clock:      clock,
		notifier:   newNotifier(publisher, clock, log),
	}
}

func (h *CreateEntryCommandHandler) Handle(ctx context.Context, cmd CreateEntryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	res, err := h.resolver.ResolveKeys(ctx, resolverKeys([]EntryInput{cmd.Input()}))
	if err != nil {
		return err
	}
	row, err := resolveRow(cmd.Input(), res)
	if err != nil {
		return err
	}

	e, err := entry.NewEntry(cmd.EntryID(), row.fields, cmd.Status(), h.clock.Now())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.EntryRepository().Add(ctx, e); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifier.entryChanged(ctx, ports.EventEntryCreated, e)
	return nil
}
