package kernel

import (
	"strings"

	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

var ErrOperatorIsNotConstructed = errs.NewValueIsRequiredError("operator")

// Operator is the authenticated identity acting on a request. The core trusts
// it as given by the authorization collaborator.
type Operator struct {
	id    string
	name  string
	guard guard.ConstructorGuard
}

func NewOperator(id string, name string) (Operator, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Operator{}, errs.NewValueIsRequiredError("operator id")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = id
	}
	return Operator{id: id, name: name, guard: guard.NewConstructorGuard()}, nil
}

func (o Operator) Validate() error {
	return o.guard.Validate(ErrOperatorIsNotConstructed)
}

func (o Operator) ID() string   { return o.id }
func (o Operator) Name() string { return o.name }
