package commands

import (
	"cmp"
	"context"
	"slices"

	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/ports"

	"github.com/sirupsen/logrus"
)

// DefaultChunkSize bounds the rows written per transaction in bulk operations.
const DefaultChunkSize = 500

// BulkCreateEntriesCommandHandler runs the resolver once over all rows, then
// inserts in chunks. Each chunk commits on its own: a failing chunk marks its
// rows failed and leaves earlier chunks in place. Unresolved rows are inserted.
type BulkCreateEntriesCommandHandler struct {
	uowFactory EntryUoWFactory
	resolver   EntryResolver
	clock      ports.Clock
	chunkSize  int
	notifier   notifier
	log        logrus.FieldLogger
}

func NewBulkCreateEntriesCommandHandler(
	uowFactory EntryUoWFactory,
	resolver EntryResolver,
	publisher ports.Publisher,
	clock ports.Clock,
	chunkSize int,
	log logrus.FieldLogger,
) *BulkCreateEntriesCommandHandler {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &BulkCreateEntriesCommandHandler{
		uowFactory: uowFactory,
		resolver:   resolver,
		clock:      clock,
		chunkSize:  chunkSize,
		notifier:   newNotifier(publisher, clock, log),
		log:        log,
	}
}

type pendingRow struct {
	row   int
	entry *entry.Entry
}

func (h *BulkCreateEntriesCommandHandler) Handle(ctx context.Context, cmd BulkCreateEntriesCommand) (BulkCreateResult, error) {
	if err := cmd.Validate(); err != nil {
		return BulkCreateResult{}, err
	}

	rows := cmd.Rows()
	result := BulkCreateResult{Total: len(rows), Failures: make([]RowFailure, 0)}

	res, err := h.resolver.ResolveKeys(ctx, resolverKeys(rows))
	if err != nil {
		return BulkCreateResult{}, err
	}

	now := h.clock.Now()
	pending := make([]pendingRow, 0, len(rows))
	for i, in := range rows {
		resolved, err := resolveRow(in, res)
		if err != nil {
			result.fail(i, err)
			continue
		}
		e, err := entry.NewEntry(kernel.NewUUID(), resolved.fields, cmd.Status(), now)
		if err != nil {
			result.fail(i, err)
			continue
		}
		if resolved.productResolved {
			result.ProductsResolved++
		}
		if resolved.customerResolved {
			result.CustomersResolved++
		}
		pending = append(pending, pendingRow{row: i, entry: e})
	}

	for start := 0; start < len(pending); start += h.chunkSize {
		end := min(start+h.chunkSize, len(pending))
		chunk := pending[start:end]

		if err := h.insertChunk(ctx, chunk); err != nil {
			h.log.WithFields(logrus.Fields{
				"firstRow": chunk[0].row,
				"rows":     len(chunk),
			}).WithError(err).Error("bulk insert chunk failed")
			for _, p := range chunk {
				result.fail(p.row, err)
			}
			continue
		}

		for _, p := range chunk {
			result.Inserted++
			result.IDs = append(result.IDs, p.entry.ID())
			h.notifier.entryChanged(ctx, ports.EventEntryCreated, p.entry)
		}
	}

	slices.SortFunc(result.Failures, func(a, b RowFailure) int { return cmp.Compare(a.Row, b.Row) })
	return result, nil
}

func (h *BulkCreateEntriesCommandHandler) insertChunk(ctx context.Context, chunk []pendingRow) error {
	entries := make([]*entry.Entry, 0, len(chunk))
	for _, p := range chunk {
		entries = append(entries, p.entry)
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.EntryRepository().AddMany(ctx, entries); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func (r *BulkCreateResult) fail(row int, err error) {
	r.Failed++
	r.Failures = append(r.Failures, RowFailure{Row: row, Error: err.Error()})
}
