package masterdatarepo

import (
	"context"

	"orderdesk/internal/core/ports"

	"gorm.io/gorm"
)

// GormMasterDataReader implements ports.MasterDataReader. Each call is one
// SELECT ... IN (...) over the whole key set.
type GormMasterDataReader struct {
	db *gorm.DB
}

func NewGormMasterDataReader(db *gorm.DB) *GormMasterDataReader {
	return &GormMasterDataReader{db: db}
}

func (r *GormMasterDataReader) ProductsByCodes(ctx context.Context, codes []string) ([]ports.Product, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	return r.products(ctx, "code IN ?", codes)
}

func (r *GormMasterDataReader) ProductsByIDs(ctx context.Context, ids []int64) ([]ports.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.products(ctx, "id IN ?", ids)
}

func (r *GormMasterDataReader) CustomersByNames(ctx context.Context, names []string) ([]ports.Customer, error) {
	if len(names) == 0 {
		return nil, nil
	}
	return r.customers(ctx, "LOWER(name) IN ?", names)
}

func (r *GormMasterDataReader) CustomersByIDs(ctx context.Context, ids []int64) ([]ports.Customer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.customers(ctx, "id IN ?", ids)
}

func (r *GormMasterDataReader) products(ctx context.Context, where string, keys any) ([]ports.Product, error) {
	var dtos []ProductDTO
	if err := r.db.WithContext(ctx).Where(where, keys).Find(&dtos).Error; err != nil {
		return nil, err
	}

	out := make([]ports.Product, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, dto.toPort())
	}
	return out, nil
}

func (r *GormMasterDataReader) customers(ctx context.Context, where string, keys any) ([]ports.Customer, error) {
	var dtos []CustomerDTO
	if err := r.db.WithContext(ctx).Where(where, keys).Find(&dtos).Error; err != nil {
		return nil, err
	}

	out := make([]ports.Customer, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, dto.toPort())
	}
	return out, nil
}
