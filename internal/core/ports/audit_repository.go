package ports

import (
	"context"
	"time"

	"orderdesk/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// AssemblyReturn records an entry removed from assembly, with a copy of what
// was removed since the entry row itself is deleted.
type AssemblyReturn struct {
	EntryID      kernel.UUID
	BatchID      kernel.BatchID
	ShipDate     kernel.ShipDate
	CustomerID   *int64
	CustomerName string
	ProductID    *int64
	ProductName  string
	OrderedQty   decimal.Decimal
	ShippedQty   decimal.Decimal
	Reason       string
	Comment      string
	Operator     string
	ReturnedAt   time.Time
}

// OrderDeletion records one order line removed by bulk-delete-orders.
type OrderDeletion struct {
	OrderID      kernel.UUID
	OrderLineID  kernel.UUID
	EntryID      kernel.UUID
	OrderDeleted bool
	Reason       string
	Operator     string
	DeletedAt    time.Time
}

// AuditRepository stores the audit trail of destructive assembly operations.
type AuditRepository interface {
	RecordAssemblyReturn(ctx context.Context, r AssemblyReturn) error
	RecordOrderDeletion(ctx context.Context, d OrderDeletion) error
}
