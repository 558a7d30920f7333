package commands

import (
	"context"
	"errors"

	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/services"
	"orderdesk/internal/core/ports"
	"orderdesk/internal/pkg/errs"
)

var errNoOutcome = errors.New("reconciliation returned no outcome")

// EntrySyncer reconciles entries; implemented by SyncEntriesCommandHandler.
type EntrySyncer interface {
	Handle(ctx context.Context, cmd SyncEntriesCommand) (SyncResult, error)
}

// ConfirmEntryCommandHandler writes the shipped quantity in its own
// transaction and then reconciles the entry. The quantity stays recorded
// when reconciliation fails; the caller gets the reconciliation error.
type ConfirmEntryCommandHandler struct {
	uowFactory EntryUoWFactory
	syncer     EntrySyncer
	clock      ports.Clock
}

func NewConfirmEntryCommandHandler(uowFactory EntryUoWFactory, syncer EntrySyncer, clock ports.Clock) *ConfirmEntryCommandHandler {
	return &ConfirmEntryCommandHandler{
		uowFactory: uowFactory,
		syncer:     syncer,
		clock:      clock,
	}
}

func (h *ConfirmEntryCommandHandler) Handle(ctx context.Context, cmd ConfirmEntryCommand) (SyncOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return SyncOutcome{}, err
	}

	_, err := mutateEntry(ctx, h.uowFactory, cmd.EntryID(), func(e *entry.Entry) error {
		if !e.HasReconcileKeys() {
			return errs.NewValueIsInvalidErrorWithCause("entry", services.ErrEntryIsUnresolved)
		}
		e.SetShippedQty(cmd.ShippedQty(), h.clock.Now())
		return nil
	})
	if err != nil {
		return SyncOutcome{}, err
	}

	day := cmd.AssemblyDate()
	syncCmd, err := NewSyncEntriesCommand([]kernel.UUID{cmd.EntryID()}, &day, cmd.Operator())
	if err != nil {
		return SyncOutcome{}, err
	}
	result, err := h.syncer.Handle(ctx, syncCmd)
	if err != nil {
		return SyncOutcome{}, err
	}
	if len(result.Outcomes) == 0 {
		return SyncOutcome{}, errs.NewInternalError(cmd.EntryID(), errNoOutcome)
	}

	outcome := result.Outcomes[0]
	if outcome.Outcome == OutcomeFailed {
		return outcome, outcome.Err
	}
	return outcome, nil
}
