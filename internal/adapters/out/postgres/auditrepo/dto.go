// Package auditrepo keeps the append-only audit trail of assembly returns and
// order deletions.
package auditrepo

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AssemblyReturnDTO struct {
	ID           uint            `gorm:"primaryKey;autoIncrement"`
	EntryID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchID      string          `gorm:"column:idn;type:varchar(8);not null"`
	ShipDate     time.Time       `gorm:"type:date;not null;index"`
	CustomerID   *int64          `gorm:"index"`
	CustomerName string          `gorm:"not null;default:''"`
	ProductID    *int64          `gorm:"index"`
	ProductName  string          `gorm:"not null;default:''"`
	OrderedQty   decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	ShippedQty   decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	Reason       string          `gorm:"not null"`
	Comment      string          `gorm:"not null;default:''"`
	Operator     string          `gorm:"not null;default:''"`
	ReturnedAt   time.Time       `gorm:"not null;autoCreateTime:false"`
}

func (AssemblyReturnDTO) TableName() string {
	return "assembly_returns"
}

type OrderDeletionDTO struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	OrderID      uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderLineID  uuid.UUID `gorm:"type:uuid;not null"`
	EntryID      uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderDeleted bool      `gorm:"not null;default:false"`
	Reason       string    `gorm:"not null;default:''"`
	Operator     string    `gorm:"not null;default:''"`
	DeletedAt    time.Time `gorm:"not null"`
}

func (OrderDeletionDTO) TableName() string {
	return "order_deletions"
}
