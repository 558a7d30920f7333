package commands

import (
	"errors"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/guard"
)

var ErrDeleteEntryCommandIsNotConstructed = errors.New(
	"DeleteEntryCommand must be created via NewDeleteEntryCommand constructor",
)

// DeleteEntryCommand hard-deletes one entry.
type DeleteEntryCommand struct {
	entryID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewDeleteEntryCommand(entryID kernel.UUID) (DeleteEntryCommand, error) {
	if err := entryID.Validate(); err != nil {
		return DeleteEntryCommand{}, err
	}
	return DeleteEntryCommand{entryID: entryID, guard: guard.NewConstructorGuard()}, nil
}

func (c DeleteEntryCommand) Validate() error {
	return c.guard.Validate(ErrDeleteEntryCommandIsNotConstructed)
}

func (c DeleteEntryCommand) EntryID() kernel.UUID { return c.entryID }
