package commands

import (
	"context"

	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/ports"

	"github.com/sirupsen/logrus"
)

// SendToAssemblyCommandHandler transitions each entry draft → forming in its
// own transaction and reports per-entry failures.
type SendToAssemblyCommandHandler struct {
	uowFactory EntryUoWFactory
	clock      ports.Clock
	notifier   notifier
}

func NewSendToAssemblyCommandHandler(
	uowFactory EntryUoWFactory,
	publisher ports.Publisher,
	clock ports.Clock,
	log logrus.FieldLogger,
) *SendToAssemblyCommandHandler {
	return &SendToAssemblyCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		notifier:   newNotifier(publisher, clock, log),
	}
}

func (h *SendToAssemblyCommandHandler) Handle(ctx context.Context, cmd SendToAssemblyCommand) (SendToAssemblyResult, error) {
	if err := cmd.Validate(); err != nil {
		return SendToAssemblyResult{}, err
	}

	result := SendToAssemblyResult{Failures: make([]EntryFailure, 0)}
	for _, id := range cmd.EntryIDs() {
		e, err := mutateEntry(ctx, h.uowFactory, id, func(e *entry.Entry) error {
			return e.SendToAssembly(h.clock.Now())
		})
		if err != nil {
			result.Failed++
			result.Failures = append(result.Failures, EntryFailure{EntryID: id, Error: err.Error()})
			continue
		}
		result.Moved++
		h.notifier.entryChanged(ctx, ports.EventEntryUpdated, e)
	}
	return result, nil
}
