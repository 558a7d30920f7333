package order

import (
	"errors"
	"fmt"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrOrderLineIsNotConstructed = errs.NewValueIsRequiredError("OrderLine must be created via NewOrderLine constructor")

// LineValues are the quantities and prices carried from a confirmed entry.
// Quantity is the shipped quantity; amount is derived as price × quantity.
type LineValues struct {
	Quantity           decimal.Decimal
	Price              decimal.Decimal
	ShippedQty         decimal.Decimal
	DistributionCoef   decimal.Decimal
	WeightToDistribute decimal.Decimal
}

// OrderLine is one product on an order.
type OrderLine struct {
	id        kernel.UUID
	orderID   kernel.UUID
	productID int64
	values    LineValues
	amount    decimal.Decimal
	guard     guard.ConstructorGuard
}

// NewOrderLine creates a line for productID on orderID.
func NewOrderLine(id kernel.UUID, orderID kernel.UUID, productID int64, values LineValues) (*OrderLine, error) {
	l := &OrderLine{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		l.setID(id),
		l.setOrderID(orderID),
		l.setProductID(productID),
	); err != nil {
		return nil, err
	}
	l.setValues(values)

	return l, nil
}

// RestoreOrderLine rebuilds a line from storage with its stored amount.
func RestoreOrderLine(id kernel.UUID, orderID kernel.UUID, productID int64, values LineValues, amount decimal.Decimal) (*OrderLine, error) {
	l, err := NewOrderLine(id, orderID, productID, values)
	if err != nil {
		return nil, err
	}
	l.amount = amount
	return l, nil
}

func (l *OrderLine) Validate() error {
	if l == nil {
		return ErrOrderLineIsNotConstructed
	}
	return l.guard.Validate(ErrOrderLineIsNotConstructed)
}

func (l *OrderLine) ID() kernel.UUID                     { return l.id }
func (l *OrderLine) OrderID() kernel.UUID                { return l.orderID }
func (l *OrderLine) ProductID() int64                    { return l.productID }
func (l *OrderLine) Quantity() decimal.Decimal           { return l.values.Quantity }
func (l *OrderLine) Price() decimal.Decimal              { return l.values.Price }
func (l *OrderLine) Amount() decimal.Decimal             { return l.amount }
func (l *OrderLine) ShippedQty() decimal.Decimal         { return l.values.ShippedQty }
func (l *OrderLine) DistributionCoef() decimal.Decimal   { return l.values.DistributionCoef }
func (l *OrderLine) WeightToDistribute() decimal.Decimal { return l.values.WeightToDistribute }
func (l *OrderLine) Values() LineValues                  { return l.values }

// Update replaces the line values. It is not additive, and the owning
// order's totals are deliberately left alone.
func (l *OrderLine) Update(values LineValues) {
	l.setValues(values)
}

func (l *OrderLine) setValues(values LineValues) {
	l.values = values
	l.amount = values.Price.Mul(values.Quantity)
}

func (l *OrderLine) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	l.id = id
	return nil
}

func (l *OrderLine) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	l.orderID = orderID
	return nil
}

func (l *OrderLine) setProductID(productID int64) error {
	if productID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("productID is invalid", fmt.Errorf("%d is not greater than 0", productID))
	}
	l.productID = productID
	return nil
}
