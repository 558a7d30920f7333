package queries

import (
	"context"
	"errors"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"

	"gorm.io/gorm"
)

var ErrGetEntryQueryIsNotConstructed = errors.New(
	"GetEntryQuery must be created via NewGetEntryQuery constructor",
)

type GetEntryQuery struct {
	id    kernel.UUID
	guard guard.ConstructorGuard
}

func NewGetEntryQuery(id kernel.UUID) (GetEntryQuery, error) {
	if err := id.Validate(); err != nil {
		return GetEntryQuery{}, err
	}
	return GetEntryQuery{id: id, guard: guard.NewConstructorGuard()}, nil
}

func (q GetEntryQuery) Validate() error {
	return q.guard.Validate(ErrGetEntryQueryIsNotConstructed)
}

type GetEntryQueryHandler struct {
	db *gorm.DB
}

func NewGetEntryQueryHandler(db *gorm.DB) GetEntryQueryHandler {
	return GetEntryQueryHandler{db: db}
}

// Handle returns ObjectNotFoundError for an unknown id.
func (h GetEntryQueryHandler) Handle(ctx context.Context, query GetEntryQuery) (EntryView, error) {
	if err := query.Validate(); err != nil {
		return EntryView{}, err
	}

	entries, err := listEntries(ctx, h.db,
		`SELECT `+entryColumns+` FROM summary_entries WHERE id = ?`, query.id.Bytes())
	if err != nil {
		return EntryView{}, err
	}
	if len(entries) == 0 {
		return EntryView{}, errs.NewObjectNotFoundError("entry", query.id)
	}
	return entries[0], nil
}
