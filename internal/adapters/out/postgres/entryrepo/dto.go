// Package entryrepo persists the staging ledger in the summary_entries table.
package entryrepo

import (
	"time"

	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLineIndexName is the partial unique index keeping one entry per order line.
const OrderLineIndexName = "ux_summary_entries_order_line_id"

// EntryDTO is the row of summary_entries. Timestamps come from the domain, so
// gorm's automatic time tracking is switched off.
type EntryDTO struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BatchID            string          `gorm:"column:idn;type:varchar(8);not null;index"`
	ShipDate           time.Time       `gorm:"type:date;not null;index:idx_summary_entries_ship_date_status,priority:1"`
	PaymentType        string          `gorm:"type:varchar(32);not null;default:''"`
	CustomerID         *int64          `gorm:"index"`
	CustomerName       string          `gorm:"not null;default:''"`
	ProductID          *int64          `gorm:"index"`
	ProductCode        string          `gorm:"type:varchar(64);not null;default:''"`
	ProductName        string          `gorm:"not null;default:''"`
	ProductCategory    string          `gorm:"not null;default:''"`
	District           string          `gorm:"not null;default:''"`
	Location           string          `gorm:"not null;default:''"`
	Price              decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	OrderedQty         decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	ShippedQty         decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	SumWithRevaluation decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	DistributionCoef   decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	WeightToDistribute decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	Status             string          `gorm:"type:varchar(16);not null;index:idx_summary_entries_ship_date_status,priority:2"`
	ConfirmedBy        *string
	ConfirmedAt        *time.Time
	OrderLineID        *uuid.UUID `gorm:"type:uuid"`
	CreatedAt          time.Time  `gorm:"autoCreateTime:false"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime:false"`
}

func (EntryDTO) TableName() string {
	return "summary_entries"
}

func fromDomain(e *entry.Entry) EntryDTO {
	var lineID *uuid.UUID
	if id := e.OrderLineID(); id != nil {
		raw := id.Bytes()
		lineID = &raw
	}

	return EntryDTO{
		ID:                 e.ID().Bytes(),
		BatchID:            e.BatchID().String(),
		ShipDate:           e.ShipDate().Time(time.UTC),
		PaymentType:        e.PaymentType(),
		CustomerID:         e.Customer().IDPtr(),
		CustomerName:       e.Customer().Label(),
		ProductID:          e.Product().IDPtr(),
		ProductCode:        e.ProductCode(),
		ProductName:        e.Product().Label(),
		ProductCategory:    e.ProductCategory(),
		District:           e.District(),
		Location:           e.Location(),
		Price:              e.Price(),
		OrderedQty:         e.OrderedQty(),
		ShippedQty:         e.ShippedQty(),
		SumWithRevaluation: e.SumWithRevaluation(),
		DistributionCoef:   e.DistributionCoef(),
		WeightToDistribute: e.WeightToDistribute(),
		Status:             e.Status().String(),
		ConfirmedBy:        e.ConfirmedBy(),
		ConfirmedAt:        e.ConfirmedAt(),
		OrderLineID:        lineID,
		CreatedAt:          e.CreatedAt(),
		UpdatedAt:          e.UpdatedAt(),
	}
}

func toDomain(dto EntryDTO) (*entry.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := entry.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var lineID *kernel.UUID
	if dto.OrderLineID != nil {
		parsed, lineErr := kernel.UUIDFromBytes((*dto.OrderLineID)[:])
		if lineErr != nil {
			return nil, lineErr
		}
		lineID = &parsed
	}

	return entry.RestoreEntry(entry.State{
		ID: id,
		Fields: entry.Fields{
			ShipDate:           kernel.ShipDateFromTime(dto.ShipDate, time.UTC),
			PaymentType:        dto.PaymentType,
			Customer:           kernel.NewSnapshot(dto.CustomerID, dto.CustomerName),
			Product:            kernel.NewSnapshot(dto.ProductID, dto.ProductName),
			ProductCode:        dto.ProductCode,
			ProductCategory:    dto.ProductCategory,
			District:           dto.District,
			Location:           dto.Location,
			Price:              dto.Price,
			OrderedQty:         dto.OrderedQty,
			ShippedQty:         dto.ShippedQty,
			DistributionCoef:   dto.DistributionCoef,
			WeightToDistribute: dto.WeightToDistribute,
		},
		SumWithRevaluation: dto.SumWithRevaluation,
		Status:             status,
		ConfirmedBy:        dto.ConfirmedBy,
		ConfirmedAt:        dto.ConfirmedAt,
		OrderLineID:        lineID,
		CreatedAt:          dto.CreatedAt,
		UpdatedAt:          dto.UpdatedAt,
	})
}
