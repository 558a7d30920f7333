package commands

import (
	"errors"

	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

var ErrCreateEntryCommandIsNotConstructed = errors.New(
	"CreateEntryCommand must be created via NewCreateEntryCommand constructor",
)

// CreateEntryCommand registers a single summary entry from sales intake.
//
// Example:
//
//	cmd, err := NewCreateEntryCommand(kernel.NewUUID(), EntryInput{
//	    ShipDate:     "2024-03-05",
//	    CustomerName: "Acme Meats",
//	    ProductCode:  "P42",
//	}, entry.Draft)
type CreateEntryCommand struct {
	entryID kernel.UUID
	input   EntryInput
	status  entry.Status

	guard guard.ConstructorGuard
}

// NewCreateEntryCommand validates presence of the ship date and a customer
// identity before anything touches the store.
func NewCreateEntryCommand(entryID kernel.UUID, input EntryInput, status entry.Status) (CreateEntryCommand, error) {
	if status == entry.Unknown {
		status = entry.Draft
	}
	cmd := CreateEntryCommand{
		entryID: entryID,
		input:   input,
		status:  status,
		guard:   guard.NewConstructorGuard(),
	}

	var customerErr error
	if input.CustomerID == nil && firstNonEmpty(input.CustomerName) == "" {
		customerErr = entry.ErrCustomerIdentityIsRequired
	}
	var shipDateErr error
	if _, err := kernel.ParseShipDate(input.ShipDate); err != nil {
		shipDateErr = err
	}

	if err := errors.Join(
		entryID.Validate(),
		shipDateErr,
		customerErr,
		status.ValidateInitial(),
	); err != nil {
		return CreateEntryCommand{}, errs.NewValueIsInvalidErrorWithCause("entry", err)
	}

	return cmd, nil
}

func (c CreateEntryCommand) Validate() error {
	return c.guard.Validate(ErrCreateEntryCommandIsNotConstructed)
}

func (c CreateEntryCommand) EntryID() kernel.UUID { return c.entryID }
func (c CreateEntryCommand) Input() EntryInput    { return c.input }
func (c CreateEntryCommand) Status() entry.Status { return c.status }
