package order

import (
	"errors"
	"fmt"
	"time"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrOrderIsNotConstructed = errs.NewValueIsRequiredError("Order must be created via NewOrder constructor")

// Order is the canonical shippable order for one customer and one shipment batch.
//
// Order follows these invariants:
//   - Must have a valid identifier, a positive customer id and a ship date
//   - batchID always equals shipDate.BatchID()
//   - totals change only through AddLine and RemoveLine
type Order struct {
	id          kernel.UUID
	customerID  int64
	shipDate    kernel.ShipDate
	batchID     kernel.BatchID
	status      Status
	dispatchDay kernel.ShipDate
	totalAmount decimal.Decimal
	totalWeight decimal.Decimal
	createdAt   time.Time
	updatedAt   time.Time
	guard       guard.ConstructorGuard
}

// NewOrder creates an empty order awaiting distribution.
//
// Parameters:
//   - id: identifier of the order
//   - customerID: resolved customer id (must be positive)
//   - shipDate: ship date shared by the reconciled entries
//   - dispatchDay: scheduled truck day, operationally distinct from shipDate
//   - now: creation timestamp
//
// Returns:
//   - *Order: order with zero totals; seed them with AddLine
//   - error: joined validation errors
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), 7, shipDate, today, time.Now())
//	if err != nil {
//	    return err
//	}
//	o.AddLine(line)
func NewOrder(id kernel.UUID, customerID int64, shipDate kernel.ShipDate, dispatchDay kernel.ShipDate, now time.Time) (*Order, error) {
	o := &Order{
		status:      AwaitingDistribution,
		totalAmount: decimal.Zero,
		totalWeight: decimal.Zero,
		createdAt:   now,
		updatedAt:   now,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setShipDate(shipDate),
		o.setDispatchDay(dispatchDay),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order from storage, including totals and status.
func RestoreOrder(
	id kernel.UUID,
	customerID int64,
	shipDate kernel.ShipDate,
	status Status,
	dispatchDay kernel.ShipDate,
	totalAmount decimal.Decimal,
	totalWeight decimal.Decimal,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	o := &Order{
		status:      status,
		totalAmount: totalAmount,
		totalWeight: totalWeight,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setShipDate(shipDate),
		o.setDispatchDay(dispatchDay),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID              { return o.id }
func (o *Order) CustomerID() int64            { return o.customerID }
func (o *Order) ShipDate() kernel.ShipDate    { return o.shipDate }
func (o *Order) BatchID() kernel.BatchID      { return o.batchID }
func (o *Order) Status() Status               { return o.status }
func (o *Order) DispatchDay() kernel.ShipDate { return o.dispatchDay }
func (o *Order) TotalAmount() decimal.Decimal { return o.totalAmount }
func (o *Order) TotalWeight() decimal.Decimal { return o.totalWeight }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) UpdatedAt() time.Time         { return o.updatedAt }

// AddLine accounts for a newly created line: totals grow by the line's amount
// and quantity.
func (o *Order) AddLine(line *OrderLine, now time.Time) error {
	if err := o.checkOwnership(line); err != nil {
		return err
	}
	o.totalAmount = o.totalAmount.Add(line.Amount())
	o.totalWeight = o.totalWeight.Add(line.Quantity())
	o.updatedAt = now
	return nil
}

// RemoveLine reverses AddLine for a line being deleted.
func (o *Order) RemoveLine(line *OrderLine, now time.Time) error {
	if err := o.checkOwnership(line); err != nil {
		return err
	}
	o.totalAmount = o.totalAmount.Sub(line.Amount())
	o.totalWeight = o.totalWeight.Sub(line.Quantity())
	o.updatedAt = now
	return nil
}

// ValidateUnwind checks that reconciliation into this order may be reversed.
func (o *Order) ValidateUnwind() error {
	if o.status.IsPastSafePoint() {
		return errs.NewBlockedError("order", o.id, o.status.String())
	}
	return nil
}

func (o *Order) checkOwnership(line *OrderLine) error {
	if err := line.Validate(); err != nil {
		return err
	}
	if !line.OrderID().IsEqual(o.id) {
		return errs.NewValueIsInvalidErrorWithCause(
			"order line is invalid",
			fmt.Errorf("line %s belongs to order %s, not %s", line.ID(), line.OrderID(), o.id),
		)
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(customerID int64) error {
	if customerID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("customerID is invalid", fmt.Errorf("%d is not greater than 0", customerID))
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setShipDate(shipDate kernel.ShipDate) error {
	if err := shipDate.Validate(); err != nil {
		return err
	}
	o.shipDate = shipDate
	o.batchID = shipDate.BatchID()
	return nil
}

func (o *Order) setDispatchDay(day kernel.ShipDate) error {
	if err := day.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("dispatchDay", err)
	}
	o.dispatchDay = day
	return nil
}
