package commands

import (
	"context"

	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/domain/model/kernel"
)

// mutateEntry loads an entry, applies change and writes it back in one
// transaction. It returns the entry as committed.
func mutateEntry(
	ctx context.Context,
	uowFactory EntryUoWFactory,
	id kernel.UUID,
	change func(e *entry.Entry) error,
) (*entry.Entry, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.EntryRepository()
	e, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = change(e); err != nil {
		return nil, err
	}
	if err = repo.Update(ctx, e); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return e, nil
}
