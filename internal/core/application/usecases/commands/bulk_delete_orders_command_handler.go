package commands

import (
	"context"
	"errors"
	"time"

	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/ports"
	"orderdesk/internal/pkg/errs"

	"github.com/sirupsen/logrus"
)

type unwindOutcome int

const (
	unwindDeleted unwindOutcome = iota + 1
	unwindOrderDeleted
	unwindReset
	unwindSkipped
)

// BulkDeleteOrdersCommandHandler is the inverse of reconciliation. Each entry
// is unwound in its own transaction so one blocked or failing entry does not
// undo the others.
type BulkDeleteOrdersCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
	notifier   notifier
	log        logrus.FieldLogger
}

func NewBulkDeleteOrdersCommandHandler(
	uowFactory UoWFactory,
	publisher ports.Publisher,
	clock ports.Clock,
	log logrus.FieldLogger,
) *BulkDeleteOrdersCommandHandler {
	return &BulkDeleteOrdersCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		notifier:   newNotifier(publisher, clock, log),
		log:        log,
	}
}

func (h *BulkDeleteOrdersCommandHandler) Handle(ctx context.Context, cmd BulkDeleteOrdersCommand) (BulkDeleteOrdersResult, error) {
	if err := cmd.Validate(); err != nil {
		return BulkDeleteOrdersResult{}, err
	}

	result := BulkDeleteOrdersResult{
		Blocked: make([]BlockedEntry, 0),
		Failed:  make([]EntryFailure, 0),
	}

	for _, id := range cmd.EntryIDs() {
		outcome, e, err := h.unwind(ctx, id, cmd)

		var blocked *errs.BlockedError
		switch {
		case errors.As(err, &blocked):
			orderID, _ := blocked.ID.(kernel.UUID)
			result.Blocked = append(result.Blocked, BlockedEntry{EntryID: id, OrderID: orderID, Status: blocked.State})
			continue
		case err != nil:
			h.log.WithField("entryId", id.String()).WithError(err).Warn("order unwind failed")
			result.Failed = append(result.Failed, EntryFailure{EntryID: id, Error: err.Error()})
			continue
		}

		switch outcome {
		case unwindOrderDeleted:
			result.OrdersDeleted++
			result.Deleted++
		case unwindDeleted:
			result.Deleted++
		case unwindReset:
			result.Reset++
		case unwindSkipped:
			result.Skipped++
			continue
		}
		h.notifier.entryChanged(ctx, ports.EventEntryUpdated, e)
	}

	return result, nil
}

func (h *BulkDeleteOrdersCommandHandler) unwind(
	ctx context.Context,
	id kernel.UUID,
	cmd BulkDeleteOrdersCommand,
) (unwindOutcome, *entry.Entry, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	entries := uow.EntryRepository()
	orders := uow.OrderRepository()
	now := h.clock.Now()

	e, err := entries.Get(ctx, id)
	if err != nil {
		return 0, nil, err
	}

	lineID := e.OrderLineID()
	if lineID == nil {
		// Only a synced or rework entry can have lost its line. Draft and
		// forming entries have nothing to unwind.
		if e.Status() != entry.Synced && e.Status() != entry.Rework {
			return unwindSkipped, e, nil
		}
		return h.resetOnly(ctx, uow, e, now)
	}

	line, err := orders.GetLine(ctx, *lineID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return h.resetOnly(ctx, uow, e, now)
	}
	if err != nil {
		return 0, nil, err
	}

	o, err := orders.Get(ctx, line.OrderID())
	if err != nil {
		return 0, nil, err
	}
	if err = o.ValidateUnwind(); err != nil {
		return 0, nil, err
	}

	// The entry drops its link first so the line can go.
	e.ResetToForming(now)
	if err = entries.Update(ctx, e); err != nil {
		return 0, nil, err
	}

	orderDeleted, err := removeLine(ctx, orders, o, line, now)
	if err != nil {
		return 0, nil, err
	}

	err = uow.AuditRepository().RecordOrderDeletion(ctx, ports.OrderDeletion{
		OrderID:      o.ID(),
		OrderLineID:  line.ID(),
		EntryID:      e.ID(),
		OrderDeleted: orderDeleted,
		Reason:       cmd.Reason(),
		Operator:     cmd.Operator().Name(),
		DeletedAt:    now,
	})
	if err != nil {
		return 0, nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, nil, err
	}

	if orderDeleted {
		return unwindOrderDeleted, e, nil
	}
	return unwindDeleted, e, nil
}

// removeLine deletes the line and decrements the order totals; the order
// itself goes when no lines are left.
func removeLine(ctx context.Context, orders ports.OrderRepository, o *order.Order, line *order.OrderLine, now time.Time) (bool, error) {
	if err := o.RemoveLine(line, now); err != nil {
		return false, err
	}
	if err := orders.DeleteLine(ctx, line.ID()); err != nil {
		return false, err
	}

	remaining, err := orders.CountLines(ctx, o.ID())
	if err != nil {
		return false, err
	}
	if remaining == 0 {
		return true, orders.Delete(ctx, o.ID())
	}

	return false, orders.AdjustTotals(ctx, o.ID(), line.Amount().Neg(), line.Quantity().Neg())
}

func (h *BulkDeleteOrdersCommandHandler) resetOnly(ctx context.Context, uow UoW, e *entry.Entry, now time.Time) (unwindOutcome, *entry.Entry, error) {
	e.ResetToForming(now)
	if err := uow.EntryRepository().Update(ctx, e); err != nil {
		return 0, nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return 0, nil, err
	}
	return unwindReset, e, nil
}
