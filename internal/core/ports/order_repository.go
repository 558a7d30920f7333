package ports

import (
	"context"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// OrderRepository persists canonical orders and their lines.
//
// Inserts never overwrite: a concurrent writer that already created the same
// (customer, batch) order or (order, product) line makes Add/AddLine return a
// ConflictError, and the caller re-reads the winner's row.
type OrderRepository interface {
	Add(ctx context.Context, o *order.Order) error
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// FindByCustomerBatch returns ObjectNotFoundError when no order exists yet.
	FindByCustomerBatch(ctx context.Context, customerID int64, batchID kernel.BatchID) (*order.Order, error)

	Delete(ctx context.Context, id kernel.UUID) error

	// AdjustTotals adds amount and weight (negative to subtract) to the stored
	// totals in a single statement, so concurrent line inserts do not lose updates.
	AdjustTotals(ctx context.Context, id kernel.UUID, amount decimal.Decimal, weight decimal.Decimal) error

	AddLine(ctx context.Context, line *order.OrderLine) error
	UpdateLine(ctx context.Context, line *order.OrderLine) error
	GetLine(ctx context.Context, id kernel.UUID) (*order.OrderLine, error)

	// FindLine returns ObjectNotFoundError when the order has no line for the product.
	FindLine(ctx context.Context, orderID kernel.UUID, productID int64) (*order.OrderLine, error)

	DeleteLine(ctx context.Context, id kernel.UUID) error
	Lines(ctx context.Context, orderID kernel.UUID) ([]*order.OrderLine, error)
	CountLines(ctx context.Context, orderID kernel.UUID) (int64, error)
}
