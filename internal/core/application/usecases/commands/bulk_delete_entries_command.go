package commands

import (
	"errors"
	"fmt"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

var ErrBulkDeleteEntriesCommandIsNotConstructed = errors.New(
	"BulkDeleteEntriesCommand must be created via NewBulkDeleteEntriesCommand or NewBulkDeleteEntriesByDateCommand",
)

// BulkDeleteEntriesCommand selects entries either by id or by ship date range.
// With excludeSynced, entries already reconciled are skipped, not deleted.
type BulkDeleteEntriesCommand struct {
	ids           []kernel.UUID
	from          *kernel.ShipDate
	to            *kernel.ShipDate
	excludeSynced bool

	guard guard.ConstructorGuard
}

func NewBulkDeleteEntriesCommand(ids []kernel.UUID, excludeSynced bool) (BulkDeleteEntriesCommand, error) {
	if len(ids) == 0 {
		return BulkDeleteEntriesCommand{}, errs.NewValueIsRequiredError("ids")
	}
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return BulkDeleteEntriesCommand{}, err
		}
	}
	return BulkDeleteEntriesCommand{ids: ids, excludeSynced: excludeSynced, guard: guard.NewConstructorGuard()}, nil
}

// NewBulkDeleteEntriesByDateCommand selects every entry shipping within [from, to].
func NewBulkDeleteEntriesByDateCommand(from kernel.ShipDate, to kernel.ShipDate, excludeSynced bool) (BulkDeleteEntriesCommand, error) {
	if err := errors.Join(from.Validate(), to.Validate()); err != nil {
		return BulkDeleteEntriesCommand{}, err
	}
	if to.Before(from) {
		return BulkDeleteEntriesCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"date range", fmt.Errorf("%s is before %s", to, from))
	}
	return BulkDeleteEntriesCommand{from: &from, to: &to, excludeSynced: excludeSynced, guard: guard.NewConstructorGuard()}, nil
}

func (c BulkDeleteEntriesCommand) Validate() error {
	return c.guard.Validate(ErrBulkDeleteEntriesCommandIsNotConstructed)
}

func (c BulkDeleteEntriesCommand) IDs() []kernel.UUID     { return c.ids }
func (c BulkDeleteEntriesCommand) From() *kernel.ShipDate { return c.from }
func (c BulkDeleteEntriesCommand) To() *kernel.ShipDate   { return c.to }
func (c BulkDeleteEntriesCommand) ExcludeSynced() bool    { return c.excludeSynced }

// EntryFailure reports one entry a bulk operation could not process.
type EntryFailure struct {
	EntryID kernel.UUID `json:"entryId"`
	Error   string      `json:"error"`
}

type BulkDeleteResult struct {
	Matched  int            `json:"matched"`
	Deleted  int            `json:"deleted"`
	Skipped  int            `json:"skipped"`
	Failed   int            `json:"failed"`
	Failures []EntryFailure `json:"failures"`
}
