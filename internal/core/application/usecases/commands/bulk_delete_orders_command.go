package commands

import (
	"errors"
	"strings"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

var ErrBulkDeleteOrdersCommandIsNotConstructed = errors.New(
	"BulkDeleteOrdersCommand must be created via NewBulkDeleteOrdersCommand constructor",
)

// BulkDeleteOrdersCommand reverses reconciliation for the given entries.
type BulkDeleteOrdersCommand struct {
	entryIDs []kernel.UUID
	reason   string
	operator kernel.Operator

	guard guard.ConstructorGuard
}

func NewBulkDeleteOrdersCommand(entryIDs []kernel.UUID, reason string, operator kernel.Operator) (BulkDeleteOrdersCommand, error) {
	if len(entryIDs) == 0 {
		return BulkDeleteOrdersCommand{}, errs.NewValueIsRequiredError("entryIds")
	}
	for _, id := range entryIDs {
		if err := id.Validate(); err != nil {
			return BulkDeleteOrdersCommand{}, err
		}
	}
	if err := operator.Validate(); err != nil {
		return BulkDeleteOrdersCommand{}, err
	}

	return BulkDeleteOrdersCommand{
		entryIDs: entryIDs,
		reason:   strings.TrimSpace(reason),
		operator: operator,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c BulkDeleteOrdersCommand) Validate() error {
	return c.guard.Validate(ErrBulkDeleteOrdersCommandIsNotConstructed)
}

func (c BulkDeleteOrdersCommand) EntryIDs() []kernel.UUID   { return c.entryIDs }
func (c BulkDeleteOrdersCommand) Reason() string            { return c.reason }
func (c BulkDeleteOrdersCommand) Operator() kernel.Operator { return c.operator }

// BlockedEntry names an entry whose order is already past the point where
// reconciliation can be reversed.
type BlockedEntry struct {
	EntryID kernel.UUID `json:"entryId"`
	OrderID kernel.UUID `json:"orderId"`
	Status  string      `json:"status"`
}

// BulkDeleteOrdersResult counts per-entry outcomes:
//   - Deleted: an order line was removed and the entry reset to forming
//   - Reset: the entry had no (live) line and was reset to forming
//   - Skipped: the entry had no line and was already forming
type BulkDeleteOrdersResult struct {
	Deleted       int            `json:"deleted"`
	OrdersDeleted int            `json:"ordersDeleted"`
	Reset         int            `json:"reset"`
	Skipped       int            `json:"skipped"`
	Blocked       []BlockedEntry `json:"blocked"`
	Failed        []EntryFailure `json:"failed"`
}
