package auditrepo

import (
	"context"
	"time"

	"orderdesk/internal/core/ports"

	"gorm.io/gorm"
)

// GormAuditRepository implements ports.AuditRepository. Rows are never updated.
type GormAuditRepository struct {
	db *gorm.DB
}

func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

func (r *GormAuditRepository) RecordAssemblyReturn(ctx context.Context, ret ports.AssemblyReturn) error {
	dto := AssemblyReturnDTO{
		EntryID:      ret.EntryID.Bytes(),
		BatchID:      ret.BatchID.String(),
		ShipDate:     ret.ShipDate.Time(time.UTC),
		CustomerID:   ret.CustomerID,
		CustomerName: ret.CustomerName,
		ProductID:    ret.ProductID,
		ProductName:  ret.ProductName,
		OrderedQty:   ret.OrderedQty,
		ShippedQty:   ret.ShippedQty,
		Reason:       ret.Reason,
		Comment:      ret.Comment,
		Operator:     ret.Operator,
		ReturnedAt:   ret.ReturnedAt,
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormAuditRepository) RecordOrderDeletion(ctx context.Context, d ports.OrderDeletion) error {
	dto := OrderDeletionDTO{
		OrderID:      d.OrderID.Bytes(),
		OrderLineID:  d.OrderLineID.Bytes(),
		EntryID:      d.EntryID.Bytes(),
		OrderDeleted: d.OrderDeleted,
		Reason:       d.Reason,
		Operator:     d.Operator,
		DeletedAt:    d.DeletedAt,
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}
