package orderrepo

import (
	"context"
	"errors"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
//
// Inserts use ON CONFLICT DO NOTHING: losing a race on (customer_id, idn) or
// (order_id, product_id) leaves the transaction intact and surfaces as a
// ConflictError, after which the caller re-reads the winner's row.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("order", aggregate.ID())
	}
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) FindByCustomerBatch(ctx context.Context, customerID int64, batchID kernel.BatchID) (*order.Order, error) {
	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND idn = ?", customerID, batchID.String()).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order for customer/idn", customerID)
		}
		return nil, err
	}

	return toDomain(dto)
}

// Delete removes the order; remaining lines go with it (ON DELETE CASCADE).
func (r *GormOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	result := r.db.WithContext(ctx).Delete(&OrderDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", id)
	}
	return nil
}

func (r *GormOrderRepository) AdjustTotals(ctx context.Context, id kernel.UUID, amount decimal.Decimal, weight decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", id.Bytes()).
		Updates(map[string]any{
			"total_amount": gorm.Expr("total_amount + ?", amount),
			"total_weight": gorm.Expr("total_weight + ?", weight),
			"updated_at":   gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", id)
	}
	return nil
}

func (r *GormOrderRepository) AddLine(ctx context.Context, line *order.OrderLine) error {
	if err := line.Validate(); err != nil {
		return err
	}

	dto := lineFromDomain(line)
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("order line", line.ID())
	}
	return nil
}

func (r *GormOrderRepository) UpdateLine(ctx context.Context, line *order.OrderLine) error {
	if err := line.Validate(); err != nil {
		return err
	}

	dto := lineFromDomain(line)
	result := r.db.WithContext(ctx).Model(&OrderLineDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order line", line.ID())
	}
	return nil
}

func (r *GormOrderRepository) GetLine(ctx context.Context, id kernel.UUID) (*order.OrderLine, error) {
	var dto OrderLineDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order line", id)
		}
		return nil, err
	}

	return lineToDomain(dto)
}

func (r *GormOrderRepository) FindLine(ctx context.Context, orderID kernel.UUID, productID int64) (*order.OrderLine, error) {
	var dto OrderLineDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND product_id = ?", orderID.Bytes(), productID).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order line for product", productID)
		}
		return nil, err
	}

	return lineToDomain(dto)
}

func (r *GormOrderRepository) DeleteLine(ctx context.Context, id kernel.UUID) error {
	result := r.db.WithContext(ctx).Delete(&OrderLineDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order line", id)
	}
	return nil
}

func (r *GormOrderRepository) Lines(ctx context.Context, orderID kernel.UUID) ([]*order.OrderLine, error) {
	var dtos []OrderLineDTO
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID.Bytes()).Order("product_id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	lines := make([]*order.OrderLine, 0, len(dtos))
	for _, dto := range dtos {
		l, err := lineToDomain(dto)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, nil
}

func (r *GormOrderRepository) CountLines(ctx context.Context, orderID kernel.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&OrderLineDTO{}).Where("order_id = ?", orderID.Bytes()).Count(&n).Error
	return n, err
}
