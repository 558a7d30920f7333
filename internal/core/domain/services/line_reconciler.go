package services

import (
	"errors"
	"fmt"
	"time"

	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/pkg/errs"
)

// ErrEntryIsUnresolved is returned for entries lacking a customer id or a product id.
var ErrEntryIsUnresolved = errors.New("entry has no resolved customer or product")

// Action is what a reconciliation plan does to the store.
type Action int

const (
	// CreateOrder inserts a new order and its first line.
	CreateOrder Action = iota + 1
	// CreateLine inserts a new line on an existing order and grows its totals.
	CreateLine
	// UpdateLine replaces the values of an existing line; totals stay as they are.
	UpdateLine
)

func (a Action) String() string {
	switch a {
	case CreateOrder:
		return "create_order"
	case CreateLine:
		return "create_line"
	case UpdateLine:
		return "update_line"
	default:
		return "unknown"
	}
}

// Plan is the outcome of reconciling one entry against what the store holds.
// Order and Line are the aggregates to persist according to Action.
type Plan struct {
	Action Action
	Order  *order.Order
	Line   *order.OrderLine
}

// LineReconciler maps a confirmed entry onto the canonical order model.
//
// Business rules:
//   - The entry must carry both a customer id and a product id
//   - An existing order/line found by (customer, batch) and (order, product) is reused
//   - An existing line is updated in place: quantity is replaced, never summed
//   - A new line increments the order totals by its amount and quantity
//   - A new order takes the supplied dispatch day and starts awaiting distribution
//
// LineReconciler holds no state; it never talks to the store.
//
// Example usage:
//
//	plan, err := reconciler.Plan(e, foundOrder, foundLine, dispatchDay, time.Now())
//	switch plan.Action {
//	case services.CreateOrder: // insert plan.Order and plan.Line
//	case services.CreateLine:  // insert plan.Line, update plan.Order totals
//	case services.UpdateLine:  // update plan.Line
//	}
type LineReconciler struct{}

func NewLineReconciler() LineReconciler {
	return LineReconciler{}
}

// Plan computes the reconciliation plan for e.
//
// Parameters:
//   - e: the confirmed entry
//   - existingOrder: order found for (customer, batch), or nil
//   - existingLine: line found on existingOrder for the product, or nil
//   - dispatchDay: used only when a new order is created
//   - now: timestamp for created/updated aggregates
//
// Returns:
//   - Plan: the aggregates to persist, already mutated
//   - error: ErrEntryIsUnresolved, or a validation error
func (r LineReconciler) Plan(
	e *entry.Entry,
	existingOrder *order.Order,
	existingLine *order.OrderLine,
	dispatchDay kernel.ShipDate,
	now time.Time,
) (Plan, error) {
	if err := e.Validate(); err != nil {
		return Plan{}, err
	}
	customerID, productID, err := ReconcileKeys(e)
	if err != nil {
		return Plan{}, err
	}

	values := LineValuesOf(e)

	if existingOrder == nil {
		o, err := order.NewOrder(kernel.NewUUID(), customerID, e.ShipDate(), dispatchDay, now)
		if err != nil {
			return Plan{}, err
		}
		line, err := order.NewOrderLine(kernel.NewUUID(), o.ID(), productID, values)
		if err != nil {
			return Plan{}, err
		}
		if err := o.AddLine(line, now); err != nil {
			return Plan{}, err
		}
		return Plan{Action: CreateOrder, Order: o, Line: line}, nil
	}

	if existingOrder.CustomerID() != customerID || existingOrder.BatchID() != e.BatchID() {
		return Plan{}, errs.NewValueIsInvalidErrorWithCause("order is invalid",
			fmt.Errorf("order %s is not for customer %d batch %s", existingOrder.ID(), customerID, e.BatchID()))
	}

	if existingLine == nil {
		line, err := order.NewOrderLine(kernel.NewUUID(), existingOrder.ID(), productID, values)
		if err != nil {
			return Plan{}, err
		}
		if err := existingOrder.AddLine(line, now); err != nil {
			return Plan{}, err
		}
		return Plan{Action: CreateLine, Order: existingOrder, Line: line}, nil
	}

	if !existingLine.OrderID().IsEqual(existingOrder.ID()) || existingLine.ProductID() != productID {
		return Plan{}, errs.NewValueIsInvalidErrorWithCause("order line is invalid",
			fmt.Errorf("line %s is not product %d on order %s", existingLine.ID(), productID, existingOrder.ID()))
	}

	existingLine.Update(values)
	return Plan{Action: UpdateLine, Order: existingOrder, Line: existingLine}, nil
}

// ReconcileKeys returns the customer and product ids reconciliation matches on.
func ReconcileKeys(e *entry.Entry) (int64, int64, error) {
	customerID, hasCustomer := e.Customer().ID()
	productID, hasProduct := e.Product().ID()
	if !hasCustomer || !hasProduct {
		return 0, 0, ErrEntryIsUnresolved
	}
	return customerID, productID, nil
}

// LineValuesOf carries the entry's confirmed quantities onto a line.
// The line quantity is the shipped quantity.
func LineValuesOf(e *entry.Entry) order.LineValues {
	return order.LineValues{
		Quantity:           e.ShippedQty(),
		Price:              e.Price(),
		ShippedQty:         e.ShippedQty(),
		DistributionCoef:   e.DistributionCoef(),
		WeightToDistribute: e.WeightToDistribute(),
	}
}
