package commands

import (
	"context"
	"slices"

	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/ports"

	"github.com/sirupsen/logrus"
)

// BulkDeleteEntriesCommandHandler hard-deletes matching entries chunk by chunk.
// Every chunk commits independently.
type BulkDeleteEntriesCommandHandler struct {
	uowFactory EntryUoWFactory
	chunkSize  int
	notifier   notifier
	log        logrus.FieldLogger
}

func NewBulkDeleteEntriesCommandHandler(
	uowFactory EntryUoWFactory,
	publisher ports.Publisher,
	clock ports.Clock,
	chunkSize int,
	log logrus.FieldLogger,
) *BulkDeleteEntriesCommandHandler {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &BulkDeleteEntriesCommandHandler{
		uowFactory: uowFactory,
		chunkSize:  chunkSize,
		notifier:   newNotifier(publisher, clock, log),
		log:        log,
	}
}

func (h *BulkDeleteEntriesCommandHandler) Handle(ctx context.Context, cmd BulkDeleteEntriesCommand) (BulkDeleteResult, error) {
	if err := cmd.Validate(); err != nil {
		return BulkDeleteResult{}, err
	}

	matched, err := h.match(ctx, cmd)
	if err != nil {
		return BulkDeleteResult{}, err
	}

	result := BulkDeleteResult{Matched: len(matched), Failures: make([]EntryFailure, 0)}
	targets := make([]*entry.Entry, 0, len(matched))
	for _, e := range matched {
		if cmd.ExcludeSynced() && e.Status() == entry.Synced {
			result.Skipped++
			continue
		}
		targets = append(targets, e)
	}

	for start := 0; start < len(targets); start += h.chunkSize {
		chunk := targets[start:min(start+h.chunkSize, len(targets))]

		deleted, err := h.deleteChunk(ctx, chunk, cmd.ExcludeSynced())
		if err != nil {
			h.log.WithField("entries", len(chunk)).WithError(err).Error("bulk delete chunk failed")
			for _, e := range chunk {
				result.Failed++
				result.Failures = append(result.Failures, EntryFailure{EntryID: e.ID(), Error: err.Error()})
			}
			continue
		}

		// Rows synced after the match or deleted concurrently stay out of the
		// result and out of the broadcast.
		result.Deleted += len(deleted)
		result.Skipped += len(chunk) - len(deleted)
		for _, e := range chunk {
			if slices.ContainsFunc(deleted, e.ID().IsEqual) {
				h.notifier.entryRemoved(ctx, ports.EventEntryDeleted, e.ID(), e.ShipDate())
			}
		}
	}

	return result, nil
}

func (h *BulkDeleteEntriesCommandHandler) match(ctx context.Context, cmd BulkDeleteEntriesCommand) ([]*entry.Entry, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	filter := ports.EntryFilter{IDs: cmd.IDs(), From: cmd.From(), To: cmd.To()}
	return uow.EntryRepository().Find(ctx, filter)
}

func (h *BulkDeleteEntriesCommandHandler) deleteChunk(
	ctx context.Context,
	chunk []*entry.Entry,
	excludeSynced bool,
) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ids := make([]kernel.UUID, 0, len(chunk))
	for _, e := range chunk {
		ids = append(ids, e.ID())
	}

	var keep []entry.Status
	if excludeSynced {
		keep = append(keep, entry.Synced)
	}
	deleted, err := uow.EntryRepository().DeleteMany(ctx, ids, keep...)
	if err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return deleted, nil
}
