package commands

import (
	"errors"
	"strings"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

var ErrReturnFromAssemblyCommandIsNotConstructed = errors.New(
	"ReturnFromAssemblyCommand must be created via NewReturnFromAssemblyCommand constructor",
)

type ReturnFromAssemblyCommand struct {
	entryID  kernel.UUID
	reason   string
	comment  string
	operator kernel.Operator

	guard guard.ConstructorGuard
}

// NewReturnFromAssemblyCommand requires a non-blank reason; comment is free text.
func NewReturnFromAssemblyCommand(entryID kernel.UUID, reason string, comment string, operator kernel.Operator) (ReturnFromAssemblyCommand, error) {
	if err := entryID.Validate(); err != nil {
		return ReturnFromAssemblyCommand{}, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ReturnFromAssemblyCommand{}, errs.NewValueIsRequiredError("reason")
	}
	if err := operator.Validate(); err != nil {
		return ReturnFromAssemblyCommand{}, err
	}

	return ReturnFromAssemblyCommand{
		entryID:  entryID,
		reason:   reason,
		comment:  strings.TrimSpace(comment),
		operator: operator,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c ReturnFromAssemblyCommand) Validate() error {
	return c.guard.Validate(ErrReturnFromAssemblyCommandIsNotConstructed)
}

func (c ReturnFromAssemblyCommand) EntryID() kernel.UUID      { return c.entryID }
func (c ReturnFromAssemblyCommand) Reason() string            { return c.reason }
func (c ReturnFromAssemblyCommand) Comment() string           { return c.comment }
func (c ReturnFromAssemblyCommand) Operator() kernel.Operator { return c.operator }
