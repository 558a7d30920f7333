package queries

import (
	"errors"
	"fmt"

	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

var ErrListEntriesQueryIsNotConstructed = errors.New(
	"ListEntriesQuery must be created via NewListEntriesQuery constructor",
)

// DefaultListLimit caps listings when the caller does not ask for a limit.
const DefaultListLimit = 1000

// ListEntriesQuery filters the staging ledger. Every filter is optional.
type ListEntriesQuery struct {
	from       *kernel.ShipDate
	to         *kernel.ShipDate
	statuses   []entry.Status
	customerID *int64
	limit      int

	guard guard.ConstructorGuard
}

func NewListEntriesQuery(
	from, to *kernel.ShipDate,
	statuses []entry.Status,
	customerID *int64,
	limit int,
) (ListEntriesQuery, error) {
	if from != nil && to != nil && to.Before(*from) {
		return ListEntriesQuery{}, errs.NewValueIsInvalidErrorWithCause(
			"date range", fmt.Errorf("%s is before %s", to, from))
	}
	for _, s := range statuses {
		if err := s.Validate(); err != nil {
			return ListEntriesQuery{}, err
		}
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	return ListEntriesQuery{
		from:       from,
		to:         to,
		statuses:   statuses,
		customerID: customerID,
		limit:      limit,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q ListEntriesQuery) Validate() error {
	return q.guard.Validate(ErrListEntriesQueryIsNotConstructed)
}
