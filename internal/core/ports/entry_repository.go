// Package ports defines the contracts between the application core and its
// adapters: persistence, master data lookups, event publishing and time.
package ports

import (
	"context"

	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/domain/model/kernel"
)

// EntryFilter selects summary entries. Zero-valued fields do not filter.
type EntryFilter struct {
	IDs        []kernel.UUID
	From       *kernel.ShipDate
	To         *kernel.ShipDate
	Statuses   []entry.Status
	CustomerID *int64
	Limit      int
}

// EntryRepository persists the staging ledger.
type EntryRepository interface {
	// Add inserts a single entry.
	Add(ctx context.Context, e *entry.Entry) error

	// AddMany inserts entries as one batched statement set.
	AddMany(ctx context.Context, entries []*entry.Entry) error

	// Update writes the full entry state. Returns ObjectNotFoundError for an
	// unknown id and ConflictError when the order line is already linked to
	// another entry; in the latter case the surrounding transaction stays usable.
	Update(ctx context.Context, e *entry.Entry) error

	// Get returns ObjectNotFoundError for an unknown id.
	Get(ctx context.Context, id kernel.UUID) (*entry.Entry, error)

	// FindByOrderLine returns the entry linked to orderLineID, or ObjectNotFoundError.
	FindByOrderLine(ctx context.Context, orderLineID kernel.UUID) (*entry.Entry, error)

	// Find returns entries matching the filter ordered by ship date, customer name and creation time.
	Find(ctx context.Context, filter EntryFilter) ([]*entry.Entry, error)

	// Delete hard-deletes one entry. Returns ObjectNotFoundError for an unknown id.
	Delete(ctx context.Context, id kernel.UUID) error

	// DeleteMany hard-deletes the given ids, leaving rows whose status is one of
	// keep untouched, and returns the ids that actually went away. The status
	// check is part of the delete statement.
	DeleteMany(ctx context.Context, ids []kernel.UUID, keep ...entry.Status) ([]kernel.UUID, error)
}
