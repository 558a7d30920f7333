package commands

import (
	"errors"
	"fmt"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrConfirmEntryCommandIsNotConstructed = errors.New(
	"ConfirmEntryCommand must be created via NewConfirmEntryCommand constructor",
)

// ConfirmEntryCommand records the quantity actually assembled for an entry and
// reconciles it with dispatch day = assembly date.
type ConfirmEntryCommand struct {
	entryID      kernel.UUID
	shippedQty   decimal.Decimal
	assemblyDate kernel.ShipDate
	operator     kernel.Operator

	guard guard.ConstructorGuard
}

func NewConfirmEntryCommand(
	entryID kernel.UUID,
	shippedQty decimal.Decimal,
	assemblyDate kernel.ShipDate,
	operator kernel.Operator,
) (ConfirmEntryCommand, error) {
	if err := entryID.Validate(); err != nil {
		return ConfirmEntryCommand{}, err
	}
	if shippedQty.IsNegative() {
		return ConfirmEntryCommand{}, errs.NewValueIsInvalidErrorWithCause("shippedQty", fmt.Errorf("%s is negative", shippedQty))
	}
	if err := assemblyDate.Validate(); err != nil {
		return ConfirmEntryCommand{}, errs.NewValueIsRequiredErrorWithCause("assemblyDate", err)
	}
	if err := operator.Validate(); err != nil {
		return ConfirmEntryCommand{}, err
	}

	return ConfirmEntryCommand{
		entryID:      entryID,
		shippedQty:   shippedQty,
		assemblyDate: assemblyDate,
		operator:     operator,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmEntryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmEntryCommandIsNotConstructed)
}

func (c ConfirmEntryCommand) EntryID() kernel.UUID          { return c.entryID }
func (c ConfirmEntryCommand) ShippedQty() decimal.Decimal   { return c.shippedQty }
func (c ConfirmEntryCommand) AssemblyDate() kernel.ShipDate { return c.assemblyDate }
func (c ConfirmEntryCommand) Operator() kernel.Operator     { return c.operator }
