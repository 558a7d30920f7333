package entryrepo

import (
	"context"
	"errors"

	"orderdesk/internal/adapters/out/postgres/pgerr"
	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/ports"
	"orderdesk/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// insertBatchSize is the row count of one multi-row INSERT issued by AddMany.
const insertBatchSize = 100

// GormEntryRepository implements ports.EntryRepository using GORM.
type GormEntryRepository struct {
	db *gorm.DB
}

func NewGormEntryRepository(db *gorm.DB) *GormEntryRepository {
	return &GormEntryRepository{db: db}
}

func (r *GormEntryRepository) Add(ctx context.Context, e *entry.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	dto := fromDomain(e)
	err := r.db.WithContext(ctx).Create(&dto).Error
	if pgerr.IsUniqueViolation(err) {
		return errs.NewConflictErrorWithCause("entry", e.ID(), err)
	}
	return err
}

// AddMany inserts entries with multi-row INSERTs.
func (r *GormEntryRepository) AddMany(ctx context.Context, entries []*entry.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	dtos := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, fromDomain(e))
	}

	err := r.db.WithContext(ctx).CreateInBatches(&dtos, insertBatchSize).Error
	if pgerr.IsUniqueViolation(err) {
		return errs.NewConflictErrorWithCause("entry", "batch", err)
	}
	return err
}

// Update writes the full row behind a savepoint: a duplicate order_line_id
// becomes a ConflictError and the surrounding transaction stays usable.
func (r *GormEntryRepository) Update(ctx context.Context, e *entry.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	dto := fromDomain(e)
	db := r.db.WithContext(ctx)

	var rows int64
	err := pgerr.Guarded(db, "entry_update", func(tx *gorm.DB) error {
		result := tx.Model(&EntryDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
		rows = result.RowsAffected
		return result.Error
	})
	if pgerr.IsUniqueViolation(err) {
		return errs.NewConflictErrorWithCause("entry order line", e.ID(), err)
	}
	if err != nil {
		return err
	}
	if rows == 0 {
		return errs.NewObjectNotFoundError("entry", e.ID())
	}
	return nil
}

func (r *GormEntryRepository) Get(ctx context.Context, id kernel.UUID) (*entry.Entry, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto EntryDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("entry", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormEntryRepository) FindByOrderLine(ctx context.Context, orderLineID kernel.UUID) (*entry.Entry, error) {
	var dto EntryDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_line_id = ?", orderLineID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("entry with order line", orderLineID)
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormEntryRepository) Find(ctx context.Context, filter ports.EntryFilter) ([]*entry.Entry, error) {
	q := r.db.WithContext(ctx).Model(&EntryDTO{})
	if len(filter.IDs) > 0 {
		q = q.Where("id IN ?", uuids(filter.IDs))
	}
	if filter.From != nil {
		q = q.Where("ship_date >= ?", filter.From.String())
	}
	if filter.To != nil {
		q = q.Where("ship_date <= ?", filter.To.String())
	}
	if len(filter.Statuses) > 0 {
		names := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			names = append(names, s.String())
		}
		q = q.Where("status IN ?", names)
	}
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var dtos []EntryDTO
	if err := q.Order("ship_date, customer_name, created_at").Find(&dtos).Error; err != nil {
		return nil, err
	}

	entries := make([]*entry.Entry, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *GormEntryRepository) Delete(ctx context.Context, id kernel.UUID) error {
	result := r.db.WithContext(ctx).Delete(&EntryDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("entry", id)
	}
	return nil
}

func (r *GormEntryRepository) DeleteMany(
	ctx context.Context,
	ids []kernel.UUID,
	keep ...entry.Status,
) ([]kernel.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := r.db.WithContext(ctx).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
		Where("id IN ?", uuids(ids))
	if len(keep) > 0 {
		names := make([]string, 0, len(keep))
		for _, s := range keep {
			names = append(names, s.String())
		}
		q = q.Where("status NOT IN ?", names)
	}

	var gone []EntryDTO
	if err := q.Delete(&gone).Error; err != nil {
		return nil, err
	}
	deleted := make([]kernel.UUID, 0, len(gone))
	for _, dto := range gone {
		id, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}
		deleted = append(deleted, id)
	}
	return deleted, nil
}

func uuids(ids []kernel.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Bytes())
	}
	return out
}
