package commands

import (
	"errors"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

var ErrSyncEntriesCommandIsNotConstructed = errors.New(
	"SyncEntriesCommand must be created via NewSyncEntriesCommand constructor",
)

// SyncEntriesCommand reconciles confirmed entries into canonical orders.
//
// Example:
//
//	cmd, err := NewSyncEntriesCommand(ids, nil, operator)
//	result, err := handler.Handle(ctx, cmd)
//	fmt.Printf("%d synced, %d skipped\n", result.Synced, result.Skipped)
type SyncEntriesCommand struct {
	entryIDs    []kernel.UUID
	dispatchDay *kernel.ShipDate
	operator    kernel.Operator

	guard guard.ConstructorGuard
}

// NewSyncEntriesCommand builds the command. dispatchDay is optional; when nil,
// new orders are dispatched "today" in the operating time zone. Duplicate ids
// are collapsed.
func NewSyncEntriesCommand(entryIDs []kernel.UUID, dispatchDay *kernel.ShipDate, operator kernel.Operator) (SyncEntriesCommand, error) {
	if len(entryIDs) == 0 {
		return SyncEntriesCommand{}, errs.NewValueIsRequiredError("ids")
	}

	ids := make([]kernel.UUID, 0, len(entryIDs))
	seen := make(map[kernel.UUID]struct{}, len(entryIDs))
	for _, id := range entryIDs {
		if err := id.Validate(); err != nil {
			return SyncEntriesCommand{}, err
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if dispatchDay != nil {
		if err := dispatchDay.Validate(); err != nil {
			return SyncEntriesCommand{}, err
		}
	}
	if err := operator.Validate(); err != nil {
		return SyncEntriesCommand{}, err
	}

	return SyncEntriesCommand{
		entryIDs:    ids,
		dispatchDay: dispatchDay,
		operator:    operator,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c SyncEntriesCommand) Validate() error {
	return c.guard.Validate(ErrSyncEntriesCommandIsNotConstructed)
}

func (c SyncEntriesCommand) EntryIDs() []kernel.UUID       { return c.entryIDs }
func (c SyncEntriesCommand) DispatchDay() *kernel.ShipDate { return c.dispatchDay }
func (c SyncEntriesCommand) Operator() kernel.Operator     { return c.operator }

// Outcome is what reconciliation did with one entry.
type Outcome string

const (
	OutcomeSynced Outcome = "synced"
	// OutcomeSkipped: the entry has no customer or product id.
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
	// OutcomeConflict: the entry is synced but another entry already owns the
	// order line, so the link was left unset.
	OutcomeConflict Outcome = "conflict"
)

// SyncOutcome reports one entry of a sync request.
type SyncOutcome struct {
	EntryID     kernel.UUID  `json:"entryId"`
	Outcome     Outcome      `json:"outcome"`
	Action      string       `json:"action,omitempty"`
	OrderID     *kernel.UUID `json:"orderId,omitempty"`
	OrderLineID *kernel.UUID `json:"orderLineId,omitempty"`
	Reason      string       `json:"reason,omitempty"`

	// Err is the typed cause of a failed outcome.
	Err error `json:"-"`
}

type SyncResult struct {
	Synced    int           `json:"synced"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Conflicts int           `json:"conflicts"`
	Outcomes  []SyncOutcome `json:"outcomes"`
}

func (r *SyncResult) add(o SyncOutcome) {
	switch o.Outcome {
	case OutcomeSynced:
		r.Synced++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	case OutcomeConflict:
		r.Conflicts++
	}
	r.Outcomes = append(r.Outcomes, o)
}
