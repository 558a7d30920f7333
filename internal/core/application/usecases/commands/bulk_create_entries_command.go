package commands

import (
	"errors"

	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

var ErrBulkCreateEntriesCommandIsNotConstructed = errors.New(
	"BulkCreateEntriesCommand must be created via NewBulkCreateEntriesCommand constructor",
)

// BulkCreateEntriesCommand inserts many intake rows at once (JSON bulk or an
// imported sheet). Rows are validated individually by the handler.
type BulkCreateEntriesCommand struct {
	rows   []EntryInput
	status entry.Status

	guard guard.ConstructorGuard
}

func NewBulkCreateEntriesCommand(rows []EntryInput, status entry.Status) (BulkCreateEntriesCommand, error) {
	if len(rows) == 0 {
		return BulkCreateEntriesCommand{}, errs.NewValueIsRequiredError("rows")
	}
	if status == entry.Unknown {
		status = entry.Draft
	}
	if err := status.ValidateInitial(); err != nil {
		return BulkCreateEntriesCommand{}, err
	}
	return BulkCreateEntriesCommand{rows: rows, status: status, guard: guard.NewConstructorGuard()}, nil
}

func (c BulkCreateEntriesCommand) Validate() error {
	return c.guard.Validate(ErrBulkCreateEntriesCommandIsNotConstructed)
}

func (c BulkCreateEntriesCommand) Rows() []EntryInput  { return c.rows }
func (c BulkCreateEntriesCommand) Status() entry.Status { return c.status }

// RowFailure reports one rejected row. Row is zero-based in input order.
type RowFailure struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// BulkCreateResult tells the operator what happened to every row and how many
// foreign keys were resolved.
type BulkCreateResult struct {
	Total             int           `json:"total"`
	Inserted          int           `json:"inserted"`
	Failed            int           `json:"failed"`
	ProductsResolved  int           `json:"productsResolved"`
	CustomersResolved int           `json:"customersResolved"`
	IDs               []kernel.UUID `json:"-"`
	Failures          []RowFailure  `json:"failures"`
}
