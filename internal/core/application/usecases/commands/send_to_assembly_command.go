package commands

import (
	"errors"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

var ErrSendToAssemblyCommandIsNotConstructed = errors.New(
	"SendToAssemblyCommand must be created via NewSendToAssemblyCommand constructor",
)

// SendToAssemblyCommand moves draft entries onto the assembly floor.
type SendToAssemblyCommand struct {
	entryIDs []kernel.UUID
	guard    guard.ConstructorGuard
}

func NewSendToAssemblyCommand(entryIDs []kernel.UUID) (SendToAssemblyCommand, error) {
	if len(entryIDs) == 0 {
		return SendToAssemblyCommand{}, errs.NewValueIsRequiredError("ids")
	}
	for _, id := range entryIDs {
		if err := id.Validate(); err != nil {
			return SendToAssemblyCommand{}, err
		}
	}
	return SendToAssemblyCommand{entryIDs: entryIDs, guard: guard.NewConstructorGuard()}, nil
}

func (c SendToAssemblyCommand) Validate() error {
	return c.guard.Validate(ErrSendToAssemblyCommandIsNotConstructed)
}

func (c SendToAssemblyCommand) EntryIDs() []kernel.UUID { return c.entryIDs }

type SendToAssemblyResult struct {
	Moved    int            `json:"moved"`
	Failed   int            `json:"failed"`
	Failures []EntryFailure `json:"failures"`
}
