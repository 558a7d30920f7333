package commands

import (
	"context"

	"orderdesk/internal/core/ports"

	"github.com/sirupsen/logrus"
)

type DeleteEntryCommandHandler struct {
	uowFactory EntryUoWFactory
	notifier   notifier
}

func NewDeleteEntryCommandHandler(
	uowFactory EntryUoWFactory,
	publisher ports.Publisher,
	clock ports.Clock,
	log logrus.FieldLogger,
) *DeleteEntryCommandHandler {
	return &DeleteEntryCommandHandler{
		uowFactory: uowFactory,
		notifier:   newNotifier(publisher, clock, log),
	}
}

// Handle deletes the entry. Unknown ids fail with ObjectNotFoundError.
func (h *DeleteEntryCommandHandler) Handle(ctx context.Context, cmd DeleteEntryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.EntryRepository()
	e, err := repo.Get(ctx, cmd.EntryID())
	if err != nil {
		return err
	}
	if err = repo.Delete(ctx, e.ID()); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifier.entryRemoved(ctx, ports.EventEntryDeleted, e.ID(), e.ShipDate())
	return nil
}
