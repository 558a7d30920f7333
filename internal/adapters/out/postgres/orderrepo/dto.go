// Package orderrepo persists canonical orders and their lines.
package orderrepo

import (
	"time"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the row of orders. (customer_id, idn) is unique: one order per
// customer per shipment batch.
type OrderDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID  int64           `gorm:"not null;uniqueIndex:ux_orders_customer_idn,priority:1"`
	BatchID     string          `gorm:"column:idn;type:varchar(8);not null;uniqueIndex:ux_orders_customer_idn,priority:2"`
	ShipDate    time.Time       `gorm:"type:date;not null"`
	Status      string          `gorm:"type:varchar(32);not null;index"`
	DispatchDay time.Time       `gorm:"type:date;not null"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	TotalWeight decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	CreatedAt   time.Time       `gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime:false"`

	Lines []OrderLineDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderLineDTO is the row of order_lines. (order_id, product_id) is unique.
type OrderLineDTO struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID            uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:ux_order_lines_order_product,priority:1"`
	ProductID          int64           `gorm:"not null;uniqueIndex:ux_order_lines_order_product,priority:2"`
	Quantity           decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	Price              decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	Amount             decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	ShippedQty         decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	DistributionCoef   decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	WeightToDistribute decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
}

func (OrderLineDTO) TableName() string {
	return "order_lines"
}

func fromDomain(o *order.Order) OrderDTO {
	return OrderDTO{
		ID:          o.ID().Bytes(),
		CustomerID:  o.CustomerID(),
		BatchID:     o.BatchID().String(),
		ShipDate:    o.ShipDate().Time(time.UTC),
		Status:      o.Status().String(),
		DispatchDay: o.DispatchDay().Time(time.UTC),
		TotalAmount: o.TotalAmount(),
		TotalWeight: o.TotalWeight(),
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		dto.CustomerID,
		kernel.ShipDateFromTime(dto.ShipDate, time.UTC),
		status,
		kernel.ShipDateFromTime(dto.DispatchDay, time.UTC),
		dto.TotalAmount,
		dto.TotalWeight,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}

func lineFromDomain(l *order.OrderLine) OrderLineDTO {
	return OrderLineDTO{
		ID:                 l.ID().Bytes(),
		OrderID:            l.OrderID().Bytes(),
		ProductID:          l.ProductID(),
		Quantity:           l.Quantity(),
		Price:              l.Price(),
		Amount:             l.Amount(),
		ShippedQty:         l.ShippedQty(),
		DistributionCoef:   l.DistributionCoef(),
		WeightToDistribute: l.WeightToDistribute(),
	}
}

func lineToDomain(dto OrderLineDTO) (*order.OrderLine, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	return order.RestoreOrderLine(id, orderID, dto.ProductID, order.LineValues{
		Quantity:           dto.Quantity,
		Price:              dto.Price,
		ShippedQty:         dto.ShippedQty,
		DistributionCoef:   dto.DistributionCoef,
		WeightToDistribute: dto.WeightToDistribute,
	}, dto.Amount)
}
