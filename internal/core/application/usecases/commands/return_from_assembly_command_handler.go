package commands

import (
	"context"

	"orderdesk/internal/core/ports"

	"github.com/sirupsen/logrus"
)

// ReturnFromAssemblyCommandHandler takes a forming entry off the assembly
// floor: the entry is copied into the audit trail and then deleted.
type ReturnFromAssemblyCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
	notifier   notifier
}

func NewReturnFromAssemblyCommandHandler(
	uowFactory UoWFactory,
	publisher ports.Publisher,
	clock ports.Clock,
	log logrus.FieldLogger,
) *ReturnFromAssemblyCommandHandler {
	return &ReturnFromAssemblyCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		notifier:   newNotifier(publisher, clock, log),
	}
}

func (h *ReturnFromAssemblyCommandHandler) Handle(ctx context.Context, cmd ReturnFromAssemblyCommand) error {
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

	entries := uow.EntryRepository()
	e, err := entries.Get(ctx, cmd.EntryID())
	if err != nil {
		return err
	}
	if err = e.ValidateReturn(); err != nil {
		return err
	}

	err = uow.AuditRepository().RecordAssemblyReturn(ctx, ports.AssemblyReturn{
		EntryID:      e.ID(),
		BatchID:      e.BatchID(),
		ShipDate:     e.ShipDate(),
		CustomerID:   e.Customer().IDPtr(),
		CustomerName: e.Customer().Label(),
		ProductID:    e.Product().IDPtr(),
		ProductName:  e.Product().Label(),
		OrderedQty:   e.OrderedQty(),
		ShippedQty:   e.ShippedQty(),
		Reason:       cmd.Reason(),
		Comment:      cmd.Comment(),
		Operator:     cmd.Operator().Name(),
		ReturnedAt:   h.clock.Now(),
	})
	if err != nil {
		return err
	}

	if err = entries.Delete(ctx, e.ID()); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifier.entryRemoved(ctx, ports.EventEntryReturned, e.ID(), e.ShipDate())
	return nil
}
