package entry

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	// ErrEntryIsNotConstructed is returned when an Entry was not built by NewEntry or RestoreEntry.
	ErrEntryIsNotConstructed = errs.NewValueIsRequiredError("Entry must be created via NewEntry constructor")

	// ErrCustomerIdentityIsRequired is returned when neither a customer id nor a name is known.
	ErrCustomerIdentityIsRequired = errs.NewValueIsRequiredError("customer identity (id or name)")
)

// Fields are the intake attributes of a summary entry. Derived values
// (shipment-batch-id, sumWithRevaluation) are never supplied by callers.
type Fields struct {
	ShipDate           kernel.ShipDate
	PaymentType        string
	Customer           kernel.Snapshot
	Product            kernel.Snapshot
	ProductCode        string
	ProductCategory    string
	District           string
	Location           string
	Price              decimal.Decimal
	OrderedQty         decimal.Decimal
	ShippedQty         decimal.Decimal
	DistributionCoef   decimal.Decimal
	WeightToDistribute decimal.Decimal
}

// Entry is the staging ledger aggregate root.
//
// Entry follows these invariants:
//   - Must have a valid identifier and ship date
//   - Must carry a customer identity (resolved id or denormalized name)
//   - batchID always equals shipDate.BatchID()
//   - sumWithRevaluation equals price × shippedQty after every mutation touching either
//   - confirmedBy/confirmedAt are only written by the transition to Synced
//   - orderLineID, when set, points at exactly one order line
type Entry struct {
	id                 kernel.UUID
	batchID            kernel.BatchID
	fields             Fields
	sumWithRevaluation decimal.Decimal
	status             Status
	confirmedBy        *string
	confirmedAt        *time.Time
	orderLineID        *kernel.UUID
	createdAt          time.Time
	updatedAt          time.Time
	guard              guard.ConstructorGuard
}

// NewEntry creates a summary entry from intake data.
//
// Parameters:
//   - id: identifier of the new entry
//   - fields: intake attributes; ship date and customer identity are required
//   - status: initial status, Draft or Forming
//   - now: creation timestamp
//
// Returns:
//   - *Entry: the entry with batchID and sumWithRevaluation derived
//   - error: joined validation errors
//
// Example:
//
//	date, _ := kernel.NewShipDate(2024, time.March, 5)
//	e, err := entry.NewEntry(kernel.NewUUID(), entry.Fields{
//	    ShipDate: date,
//	    Customer: kernel.ResolvedSnapshot(7, "Acme"),
//	}, entry.Draft, time.Now())
func NewEntry(id kernel.UUID, fields Fields, status Status, now time.Time) (*Entry, error) {
	e := &Entry{
		status:    status,
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		e.setID(id),
		e.setFields(fields),
		status.ValidateInitial(),
	); err != nil {
		return nil, err
	}

	return e, nil
}

// State is the persisted form of an entry, used by repositories to rebuild it.
type State struct {
	ID                 kernel.UUID
	Fields             Fields
	SumWithRevaluation decimal.Decimal
	Status             Status
	ConfirmedBy        *string
	ConfirmedAt        *time.Time
	OrderLineID        *kernel.UUID
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// RestoreEntry rebuilds an entry from storage. The stored sum is kept as is:
// it is recomputed only when a mutation touches price or shipped quantity.
func RestoreEntry(s State) (*Entry, error) {
	e := &Entry{
		sumWithRevaluation: s.SumWithRevaluation,
		status:             s.Status,
		confirmedBy:        s.ConfirmedBy,
		confirmedAt:        s.ConfirmedAt,
		orderLineID:        s.OrderLineID,
		createdAt:          s.CreatedAt,
		updatedAt:          s.UpdatedAt,
		guard:              guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		e.setID(s.ID),
		e.setFieldsKeepingSum(s.Fields),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}

	return e, nil
}

func (e *Entry) Validate() error {
	if e == nil {
		return ErrEntryIsNotConstructed
	}
	return e.guard.Validate(ErrEntryIsNotConstructed)
}

func (e *Entry) ID() kernel.UUID                     { return e.id }
func (e *Entry) BatchID() kernel.BatchID             { return e.batchID }
func (e *Entry) ShipDate() kernel.ShipDate           { return e.fields.ShipDate }
func (e *Entry) PaymentType() string                 { return e.fields.PaymentType }
func (e *Entry) Customer() kernel.Snapshot           { return e.fields.Customer }
func (e *Entry) Product() kernel.Snapshot            { return e.fields.Product }
func (e *Entry) ProductCode() string                 { return e.fields.ProductCode }
func (e *Entry) ProductCategory() string             { return e.fields.ProductCategory }
func (e *Entry) District() string                    { return e.fields.District }
func (e *Entry) Location() string                    { return e.fields.Location }
func (e *Entry) Price() decimal.Decimal              { return e.fields.Price }
func (e *Entry) OrderedQty() decimal.Decimal         { return e.fields.OrderedQty }
func (e *Entry) ShippedQty() decimal.Decimal         { return e.fields.ShippedQty }
func (e *Entry) SumWithRevaluation() decimal.Decimal { return e.sumWithRevaluation }
func (e *Entry) DistributionCoef() decimal.Decimal   { return e.fields.DistributionCoef }
func (e *Entry) WeightToDistribute() decimal.Decimal { return e.fields.WeightToDistribute }
func (e *Entry) Status() Status                      { return e.status }
func (e *Entry) ConfirmedBy() *string                { return e.confirmedBy }
func (e *Entry) ConfirmedAt() *time.Time             { return e.confirmedAt }
func (e *Entry) OrderLineID() *kernel.UUID           { return e.orderLineID }
func (e *Entry) CreatedAt() time.Time                { return e.createdAt }
func (e *Entry) UpdatedAt() time.Time                { return e.updatedAt }

// Fields returns a copy of the intake attributes.
func (e *Entry) Fields() Fields { return e.fields }

// State returns the persistable state of the entry.
func (e *Entry) State() State {
	return State{
		ID:                 e.id,
		Fields:             e.fields,
		SumWithRevaluation: e.sumWithRevaluation,
		Status:             e.status,
		ConfirmedBy:        e.confirmedBy,
		ConfirmedAt:        e.confirmedAt,
		OrderLineID:        e.orderLineID,
		CreatedAt:          e.createdAt,
		UpdatedAt:          e.updatedAt,
	}
}

// CustomerKey groups entries of one customer: the id when resolved, otherwise
// the lowercased name.
func (e *Entry) CustomerKey() string {
	if id, ok := e.fields.Customer.ID(); ok {
		return "id:" + strconv.FormatInt(id, 10)
	}
	return "name:" + strings.ToLower(e.fields.Customer.Label())
}

// HasReconcileKeys reports whether both customer and product ids are known.
// Entries without them cannot be matched to an order line.
func (e *Entry) HasReconcileKeys() bool {
	return e.fields.Customer.IsResolved() && e.fields.Product.IsResolved()
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	ShipDate           *kernel.ShipDate
	PaymentType        *string
	Customer           *kernel.Snapshot
	Product            *kernel.Snapshot
	ProductCode        *string
	ProductCategory    *string
	District           *string
	Location           *string
	Price              *decimal.Decimal
	OrderedQty         *decimal.Decimal
	ShippedQty         *decimal.Decimal
	DistributionCoef   *decimal.Decimal
	WeightToDistribute *decimal.Decimal
	Status             *Status
}

// IsEmpty reports a patch that changes nothing.
func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Apply merges a patch into the entry.
//
// The patch is merged against current state first; when price or shipped
// quantity is part of it, sumWithRevaluation is recomputed from the resulting
// values. A ship date change re-derives the shipment-batch-id. Setting the
// status to Synced stamps confirmedBy/confirmedAt from the operator.
//
// Parameters:
//   - p: the partial update
//   - operator: acting operator, required only when the patch sets Synced
//   - now: update timestamp
//
// Returns:
//   - error: validation error; the entry is left unchanged on failure
func (e *Entry) Apply(p Patch, operator kernel.Operator, now time.Time) error {
	next := e.fields

	if p.ShipDate != nil {
		next.ShipDate = *p.ShipDate
	}
	if p.PaymentType != nil {
		next.PaymentType = strings.TrimSpace(*p.PaymentType)
	}
	if p.Customer != nil {
		next.Customer = next.Customer.Merge(*p.Customer)
	}
	if p.Product != nil {
		next.Product = next.Product.Merge(*p.Product)
	}
	if p.ProductCode != nil {
		next.ProductCode = strings.TrimSpace(*p.ProductCode)
	}
	if p.ProductCategory != nil {
		next.ProductCategory = strings.TrimSpace(*p.ProductCategory)
	}
	if p.District != nil {
		next.District = strings.TrimSpace(*p.District)
	}
	if p.Location != nil {
		next.Location = strings.TrimSpace(*p.Location)
	}
	if p.Price != nil {
		next.Price = *p.Price
	}
	if p.OrderedQty != nil {
		next.OrderedQty = *p.OrderedQty
	}
	if p.ShippedQty != nil {
		next.ShippedQty = *p.ShippedQty
	}
	if p.DistributionCoef != nil {
		next.DistributionCoef = *p.DistributionCoef
	}
	if p.WeightToDistribute != nil {
		next.WeightToDistribute = *p.WeightToDistribute
	}

	if err := validateFields(next); err != nil {
		return err
	}

	status := e.status
	if p.Status != nil {
		if err := p.Status.Validate(); err != nil {
			return err
		}
		if *p.Status == Synced {
			if err := operator.Validate(); err != nil {
				return err
			}
		}
		status = *p.Status
	}

	recompute := p.Price != nil || p.ShippedQty != nil
	e.fields = next
	e.batchID = next.ShipDate.BatchID()
	if recompute {
		e.sumWithRevaluation = sumOf(next.Price, next.ShippedQty)
	}
	if p.Status != nil && *p.Status == Synced {
		e.stampConfirmation(operator, now)
	}
	e.status = status
	e.updatedAt = now
	return nil
}

// SetShippedQty records the quantity actually loaded at assembly and
// recomputes sumWithRevaluation.
func (e *Entry) SetShippedQty(qty decimal.Decimal, now time.Time) {
	e.fields.ShippedQty = qty
	e.sumWithRevaluation = sumOf(e.fields.Price, qty)
	e.updatedAt = now
}

// SendToAssembly moves a draft entry to forming.
func (e *Entry) SendToAssembly(now time.Time) error {
	next, err := e.status.SendToAssembly()
	if err != nil {
		return err
	}
	e.status = next
	e.updatedAt = now
	return nil
}

// MarkSynced flips the entry to synced and stamps the confirming operator.
// Linking to the order line is a separate step (LinkTo) because a link
// collision must not block the status transition.
func (e *Entry) MarkSynced(operator kernel.Operator, now time.Time) error {
	if err := operator.Validate(); err != nil {
		return err
	}
	next, err := e.status.Sync()
	if err != nil {
		return err
	}
	e.status = next
	e.stampConfirmation(operator, now)
	e.updatedAt = now
	return nil
}

// LinkTo records the order line this entry reconciled into.
func (e *Entry) LinkTo(orderLineID kernel.UUID) error {
	if err := orderLineID.Validate(); err != nil {
		return err
	}
	id := orderLineID
	e.orderLineID = &id
	return nil
}

// Unlink drops the order line link, leaving status and confirmation as they are.
func (e *Entry) Unlink() {
	e.orderLineID = nil
}

// IsLinkedTo reports whether the entry already points at orderLineID.
func (e *Entry) IsLinkedTo(orderLineID kernel.UUID) bool {
	return e.orderLineID != nil && e.orderLineID.IsEqual(orderLineID)
}

// Unlock returns the entry to forming. The order line and the link are kept:
// re-confirming later updates the same line.
func (e *Entry) Unlock(now time.Time) error {
	next, err := e.status.Unlock()
	if err != nil {
		return err
	}
	e.status = next
	e.updatedAt = now
	return nil
}

func (e *Entry) MarkForRework(now time.Time) error {
	next, err := e.status.MarkForRework()
	if err != nil {
		return err
	}
	e.status = next
	e.updatedAt = now
	return nil
}

// ValidateReturn checks the return-from-assembly precondition.
func (e *Entry) ValidateReturn() error {
	return e.status.ValidateReturn()
}

// ResetToForming undoes reconciliation for this entry: the link and the
// confirmation are cleared and the entry goes back to forming.
func (e *Entry) ResetToForming(now time.Time) {
	e.status = Forming
	e.orderLineID = nil
	e.confirmedBy = nil
	e.confirmedAt = nil
	e.updatedAt = now
}

func (e *Entry) stampConfirmation(operator kernel.Operator, now time.Time) {
	by := operator.Name()
	at := now
	e.confirmedBy = &by
	e.confirmedAt = &at
}

func (e *Entry) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.id = id
	return nil
}

func (e *Entry) setFields(f Fields) error {
	if err := e.setFieldsKeepingSum(f); err != nil {
		return err
	}
	e.sumWithRevaluation = sumOf(f.Price, f.ShippedQty)
	return nil
}

func (e *Entry) setFieldsKeepingSum(f Fields) error {
	f.PaymentType = strings.TrimSpace(f.PaymentType)
	f.ProductCode = strings.TrimSpace(f.ProductCode)
	f.ProductCategory = strings.TrimSpace(f.ProductCategory)
	f.District = strings.TrimSpace(f.District)
	f.Location = strings.TrimSpace(f.Location)
	if err := validateFields(f); err != nil {
		return err
	}
	e.fields = f
	e.batchID = f.ShipDate.BatchID()
	return nil
}

func validateFields(f Fields) error {
	var customerErr error
	if f.Customer.IsEmpty() {
		customerErr = ErrCustomerIdentityIsRequired
	}
	return errors.Join(f.ShipDate.Validate(), customerErr)
}

func sumOf(price, qty decimal.Decimal) decimal.Decimal {
	return price.Mul(qty)
}
