package commands

import (
	"errors"

	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

var ErrUpdateEntryCommandIsNotConstructed = errors.New(
	"UpdateEntryCommand must be created via NewUpdateEntryCommand constructor",
)

// UpdateEntryCommand applies a partial update to one entry on behalf of an operator.
type UpdateEntryCommand struct {
	entryID  kernel.UUID
	patch    entry.Patch
	operator kernel.Operator

	guard guard.ConstructorGuard
}

func NewUpdateEntryCommand(entryID kernel.UUID, patch entry.Patch, operator kernel.Operator) (UpdateEntryCommand, error) {
	var emptyErr error
	if patch.IsEmpty() {
		emptyErr = errs.NewValueIsRequiredError("patch")
	}
	if err := errors.Join(entryID.Validate(), operator.Validate(), emptyErr); err != nil {
		return UpdateEntryCommand{}, err
	}
	return UpdateEntryCommand{
		entryID:  entryID,
		patch:    patch,
		operator: operator,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateEntryCommand) Validate() error {
	return c.guard.Validate(ErrUpdateEntryCommandIsNotConstructed)
}

func (c UpdateEntryCommand) EntryID() kernel.UUID      { return c.entryID }
func (c UpdateEntryCommand) Patch() entry.Patch        { return c.patch }
func (c UpdateEntryCommand) Operator() kernel.Operator { return c.operator }
