package commands

import (
	"errors"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/guard"
)

var ErrEntryCommandIsNotConstructed = errors.New(
	"entry command must be created via its constructor",
)

// UnlockEntryCommand returns a synced or rework entry to forming.
type UnlockEntryCommand struct {
	entryID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewUnlockEntryCommand(entryID kernel.UUID) (UnlockEntryCommand, error) {
	if err := entryID.Validate(); err != nil {
		return UnlockEntryCommand{}, err
	}
	return UnlockEntryCommand{entryID: entryID, guard: guard.NewConstructorGuard()}, nil
}

func (c UnlockEntryCommand) Validate() error {
	return c.guard.Validate(ErrEntryCommandIsNotConstructed)
}

func (c UnlockEntryCommand) EntryID() kernel.UUID { return c.entryID }

// MarkForReworkCommand flags a synced entry for correction.
type MarkForReworkCommand struct {
	entryID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewMarkForReworkCommand(entryID kernel.UUID) (MarkForReworkCommand, error) {
	if err := entryID.Validate(); err != nil {
		return MarkForReworkCommand{}, err
	}
	return MarkForReworkCommand{entryID: entryID, guard: guard.NewConstructorGuard()}, nil
}

func (c MarkForReworkCommand) Validate() error {
	return c.guard.Validate(ErrEntryCommandIsNotConstructed)
}

func (c MarkForReworkCommand) EntryID() kernel.UUID { return c.entryID }
