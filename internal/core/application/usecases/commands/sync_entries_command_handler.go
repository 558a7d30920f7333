package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/domain/services"
	"orderdesk/internal/core/ports"
	"orderdesk/internal/pkg/errs"

	"github.com/sirupsen/logrus"
)

// SyncMode selects the transaction scope of a sync request.
type SyncMode string

const (
	// SyncSequential commits every entry on its own; earlier entries stay
	// synced when a later one fails.
	SyncSequential SyncMode = "sequential"
	// SyncAtomic wraps the whole request in one transaction: any failed entry
	// rolls every entry back.
	SyncAtomic SyncMode = "atomic"
)

// ParseSyncMode accepts "sequential" (default for empty) and "atomic".
func ParseSyncMode(s string) (SyncMode, error) {
	switch SyncMode(s) {
	case "", SyncSequential:
		return SyncSequential, nil
	case SyncAtomic:
		return SyncAtomic, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("SYNC_MODE", fmt.Errorf("%q is not sequential or atomic", s))
	}
}

// reconcileAttempts bounds the upsert-by-retry loop. A second attempt always
// sees the competing writer's row; the third only guards against a writer
// that deleted it in between.
const reconcileAttempts = 3

const skipReasonUnresolved = "unresolved"

// SyncEntriesCommandHandler is the reconciliation engine.
//
// For each entry:
//  1. entries without a customer id or product id are skipped
//  2. the order is looked up by (customer, shipment-batch-id) and the line by
//     (order, product); an existing line is updated in place, a missing line is
//     created and the order totals grow by it, a missing order is created with
//     the dispatch day (override or today in the operating time zone)
//  3. a duplicate key on insert means a concurrent writer won the race: the
//     lookup is repeated and the found branch taken
//  4. the entry is linked to the line and flipped to synced; when another
//     entry already owns the line the link stays unset, the entry is still
//     synced and the collision is logged and reported as a conflict
//  5. entry:synced is published after commit
//
// Re-running sync for the same entry resolves the same order and line and
// updates them, so client retries are safe.
type SyncEntriesCommandHandler struct {
	uowFactory UoWFactory
	reconciler services.LineReconciler
	clock      ports.Clock
	mode       SyncMode
	notifier   notifier
	log        logrus.FieldLogger
}

func NewSyncEntriesCommandHandler(
	uowFactory UoWFactory,
	publisher ports.Publisher,
	clock ports.Clock,
	mode SyncMode,
	log logrus.FieldLogger,
) *SyncEntriesCommandHandler {
	if mode == "" {
		mode = SyncSequential
	}
	return &SyncEntriesCommandHandler{
		uowFactory: uowFactory,
		reconciler: services.NewLineReconciler(),
		clock:      clock,
		mode:       mode,
		notifier:   newNotifier(publisher, clock, log),
		log:        log,
	}
}

func (h *SyncEntriesCommandHandler) Handle(ctx context.Context, cmd SyncEntriesCommand) (SyncResult, error) {
	if err := cmd.Validate(); err != nil {
		return SyncResult{}, err
	}

	dispatchDay := kernel.ShipDateFromTime(h.clock.Now(), h.clock.Location())
	if d := cmd.DispatchDay(); d != nil {
		dispatchDay = *d
	}

	if h.mode == SyncAtomic {
		return h.handleAtomic(ctx, cmd, dispatchDay)
	}
	return h.handleSequential(ctx, cmd, dispatchDay), nil
}

func (h *SyncEntriesCommandHandler) handleSequential(ctx context.Context, cmd SyncEntriesCommand, dispatchDay kernel.ShipDate) SyncResult {
	result := SyncResult{Outcomes: make([]SyncOutcome, 0, len(cmd.EntryIDs()))}

	for _, id := range cmd.EntryIDs() {
		outcome, synced := h.syncInOwnTransaction(ctx, id, dispatchDay, cmd.Operator())
		result.add(outcome)
		if synced != nil {
			h.notifier.entryChanged(ctx, ports.EventEntrySynced, synced)
		}
	}

	return result
}

func (h *SyncEntriesCommandHandler) syncInOwnTransaction(
	ctx context.Context,
	id kernel.UUID,
	dispatchDay kernel.ShipDate,
	operator kernel.Operator,
) (SyncOutcome, *entry.Entry) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return h.failed(id, err), nil
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outcome, e := h.syncOne(ctx, uow, id, dispatchDay, operator)
	if e == nil {
		return outcome, nil
	}
	if err := uow.Commit(ctx); err != nil {
		return h.failed(id, err), nil
	}
	return outcome, e
}

func (h *SyncEntriesCommandHandler) handleAtomic(ctx context.Context, cmd SyncEntriesCommand, dispatchDay kernel.ShipDate) (SyncResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return SyncResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outcomes := make([]SyncOutcome, 0, len(cmd.EntryIDs()))
	synced := make([]*entry.Entry, 0, len(cmd.EntryIDs()))
	var failure error
	for _, id := range cmd.EntryIDs() {
		outcome, e := h.syncOne(ctx, uow, id, dispatchDay, cmd.Operator())
		outcomes = append(outcomes, outcome)
		if outcome.Outcome == OutcomeFailed {
			failure = outcome.Err
			break
		}
		if e != nil {
			synced = append(synced, e)
		}
	}

	if failure == nil {
		failure = uow.Commit(ctx)
	}

	result := SyncResult{Outcomes: make([]SyncOutcome, 0, len(cmd.EntryIDs()))}
	if failure != nil {
		// Nothing was written: report every entry that was not already
		// failed or skipped as rolled back.
		reported := make(map[kernel.UUID]struct{}, len(outcomes))
		for _, o := range outcomes {
			reported[o.EntryID] = struct{}{}
			if o.Outcome == OutcomeSynced || o.Outcome == OutcomeConflict {
				o = h.failed(o.EntryID, fmt.Errorf("rolled back: %w", failure))
			}
			result.add(o)
		}
		for _, id := range cmd.EntryIDs() {
			if _, ok := reported[id]; !ok {
				result.add(h.failed(id, fmt.Errorf("rolled back: %w", failure)))
			}
		}
		return result, nil
	}

	for _, o := range outcomes {
		result.add(o)
	}
	for _, e := range synced {
		h.notifier.entryChanged(ctx, ports.EventEntrySynced, e)
	}
	return result, nil
}

// syncOne reconciles one entry inside uow. The returned entry is non-nil when
// something was written and must be committed and published.
func (h *SyncEntriesCommandHandler) syncOne(
	ctx context.Context,
	uow UoW,
	id kernel.UUID,
	dispatchDay kernel.ShipDate,
	operator kernel.Operator,
) (SyncOutcome, *entry.Entry) {
	entries := uow.EntryRepository()
	orders := uow.OrderRepository()
	now := h.clock.Now()

	e, err := entries.Get(ctx, id)
	if err != nil {
		return h.failed(id, err), nil
	}
	if !e.HasReconcileKeys() {
		return SyncOutcome{EntryID: id, Outcome: OutcomeSkipped, Reason: skipReasonUnresolved}, nil
	}

	plan, err := h.reconcile(ctx, orders, e, dispatchDay, now)
	if err != nil {
		return h.failed(id, err), nil
	}
	lineID := plan.Line.ID()
	orderID := plan.Order.ID()

	conflict := false
	if !e.IsLinkedTo(lineID) {
		owner, err := entries.FindByOrderLine(ctx, lineID)
		switch {
		case err == nil && !owner.ID().IsEqual(e.ID()):
			conflict = true
		case err != nil && !errors.Is(err, errs.ErrObjectNotFound):
			return h.failed(id, err), nil
		}
	}

	if err = e.MarkSynced(operator, now); err != nil {
		return h.failed(id, err), nil
	}
	if conflict {
		e.Unlink()
	} else if err = e.LinkTo(lineID); err != nil {
		return h.failed(id, err), nil
	}

	err = entries.Update(ctx, e)
	if errors.Is(err, errs.ErrConflict) && !conflict {
		// Lost the race for the line between the ownership check and the write.
		conflict = true
		e.Unlink()
		err = entries.Update(ctx, e)
	}
	if err != nil {
		return h.failed(id, err), nil
	}

	outcome := SyncOutcome{
		EntryID:     id,
		Outcome:     OutcomeSynced,
		Action:      plan.Action.String(),
		OrderID:     &orderID,
		OrderLineID: &lineID,
	}
	if conflict {
		h.log.WithFields(logrus.Fields{
			"entryId":     id.String(),
			"orderId":     orderID.String(),
			"orderLineId": lineID.String(),
		}).Warn("order line already linked to another entry; entry synced without link")
		outcome.Outcome = OutcomeConflict
		outcome.Reason = "order line already linked to another entry"
	}
	return outcome, e
}

// reconcile finds or creates the order and line for e and persists the plan.
// Duplicate-key conflicts on insert are resolved by re-reading.
func (h *SyncEntriesCommandHandler) reconcile(
	ctx context.Context,
	orders ports.OrderRepository,
	e *entry.Entry,
	dispatchDay kernel.ShipDate,
	now time.Time,
) (services.Plan, error) {
	customerID, productID, err := services.ReconcileKeys(e)
	if err != nil {
		return services.Plan{}, err
	}

	var lastErr error
	for range reconcileAttempts {
		existingOrder, err := findOrder(ctx, orders, customerID, e.BatchID())
		if err != nil {
			return services.Plan{}, err
		}
		var existingLine *order.OrderLine
		if existingOrder != nil {
			if existingLine, err = findLine(ctx, orders, existingOrder.ID(), productID); err != nil {
				return services.Plan{}, err
			}
		}

		plan, err := h.reconciler.Plan(e, existingOrder, existingLine, dispatchDay, now)
		if err != nil {
			return services.Plan{}, err
		}

		err = persistPlan(ctx, orders, plan)
		if errors.Is(err, errs.ErrConflict) {
			lastErr = err
			continue
		}
		if err != nil {
			return services.Plan{}, err
		}
		return plan, nil
	}
	return services.Plan{}, lastErr
}

func persistPlan(ctx context.Context, orders ports.OrderRepository, plan services.Plan) error {
	switch plan.Action {
	case services.CreateOrder:
		if err := orders.Add(ctx, plan.Order); err != nil {
			return err
		}
		return orders.AddLine(ctx, plan.Line)
	case services.CreateLine:
		if err := orders.AddLine(ctx, plan.Line); err != nil {
			return err
		}
		return orders.AdjustTotals(ctx, plan.Order.ID(), plan.Line.Amount(), plan.Line.Quantity())
	case services.UpdateLine:
		return orders.UpdateLine(ctx, plan.Line)
	default:
		return fmt.Errorf("unknown reconciliation action %d", plan.Action)
	}
}

func findOrder(ctx context.Context, orders ports.OrderRepository, customerID int64, batchID kernel.BatchID) (*order.Order, error) {
	o, err := orders.FindByCustomerBatch(ctx, customerID, batchID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	return o, err
}

func findLine(ctx context.Context, orders ports.OrderRepository, orderID kernel.UUID, productID int64) (*order.OrderLine, error) {
	line, err := orders.FindLine(ctx, orderID, productID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	return line, err
}

func (h *SyncEntriesCommandHandler) failed(id kernel.UUID, err error) SyncOutcome {
	if !errors.Is(err, errs.ErrObjectNotFound) && !errs.IsValidation(err) && !errors.Is(err, errs.ErrInternal) {
		h.log.WithField("entryId", id.String()).WithError(err).Error("sync failed")
		err = errs.NewInternalError(id, err)
	}
	return SyncOutcome{EntryID: id, Outcome: OutcomeFailed, Reason: err.Error(), Err: err}
}
