package http

import (
	"orderdesk/internal/core/application/usecases/commands"
	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// EntryRequest is one intake row. Numeric fields accept numbers or numeric
// strings; unreadable values become zero.
type EntryRequest struct {
	ShipDate           string `json:"shipDate" validate:"required"`
	PaymentType        string `json:"paymentType" validate:"max=32"`
	CustomerID         *int64 `json:"customerId" validate:"omitempty,gt=0"`
	CustomerName       string `json:"customerName" validate:"max=255"`
	ProductID          *int64 `json:"productId" validate:"omitempty,gt=0"`
	ProductCode        string `json:"productCode" validate:"max=64"`
	ProductName        string `json:"productName" validate:"max=255"`
	District           string `json:"district"`
	Location           string `json:"location"`
	Price              any    `json:"price"`
	OrderedQty         any    `json:"orderedQty"`
	ShippedQty         any    `json:"shippedQty"`
	DistributionCoef   any    `json:"distributionCoef"`
	WeightToDistribute any    `json:"weightToDistribute"`
	Status             string `json:"status" validate:"omitempty,oneof=draft forming synced rework"`
}

func (r EntryRequest) input() commands.EntryInput {
	return commands.EntryInput{
		ShipDate:           r.ShipDate,
		PaymentType:        r.PaymentType,
		CustomerID:         r.CustomerID,
		CustomerName:       r.CustomerName,
		ProductID:          r.ProductID,
		ProductCode:        r.ProductCode,
		ProductName:        r.ProductName,
		District:           r.District,
		Location:           r.Location,
		Price:              kernel.Coerce(r.Price),
		OrderedQty:         kernel.Coerce(r.OrderedQty),
		ShippedQty:         kernel.Coerce(r.ShippedQty),
		DistributionCoef:   kernel.Coerce(r.DistributionCoef),
		WeightToDistribute: kernel.Coerce(r.WeightToDistribute),
	}
}

type BulkCreateRequest struct {
	Status string         `json:"status" validate:"omitempty,oneof=draft forming"`
	Rows   []EntryRequest `json:"rows" validate:"required,min=1,dive"`
}

// PatchRequest is a partial update; absent fields are left unchanged.
type PatchRequest struct {
	ShipDate           *string `json:"shipDate"`
	PaymentType        *string `json:"paymentType" validate:"omitempty,max=32"`
	CustomerID         *int64  `json:"customerId" validate:"omitempty,gt=0"`
	CustomerName       *string `json:"customerName"`
	ProductID          *int64  `json:"productId" validate:"omitempty,gt=0"`
	ProductCode        *string `json:"productCode"`
	ProductName        *string `json:"productName"`
	ProductCategory    *string `json:"productCategory"`
	District           *string `json:"district"`
	Location           *string `json:"location"`
	Price              any     `json:"price"`
	OrderedQty         any     `json:"orderedQty"`
	ShippedQty         any     `json:"shippedQty"`
	DistributionCoef   any     `json:"distributionCoef"`
	WeightToDistribute any     `json:"weightToDistribute"`
	Status             *string `json:"status" validate:"omitempty,oneof=draft forming synced rework"`
}

// patch converts the request. Customer and product snapshots are replaced as
// a whole when either their id or their name is present.
func (r PatchRequest) patch() (entry.Patch, error) {
	p := entry.Patch{
		PaymentType:        r.PaymentType,
		ProductCode:        r.ProductCode,
		ProductCategory:    r.ProductCategory,
		District:           r.District,
		Location:           r.Location,
		Price:              coerced(r.Price),
		OrderedQty:         coerced(r.OrderedQty),
		ShippedQty:         coerced(r.ShippedQty),
		DistributionCoef:   coerced(r.DistributionCoef),
		WeightToDistribute: coerced(r.WeightToDistribute),
	}
	if r.ShipDate != nil {
		d, err := kernel.ParseShipDate(*r.ShipDate)
		if err != nil {
			return entry.Patch{}, err
		}
		p.ShipDate = &d
	}
	if r.CustomerID != nil || r.CustomerName != nil {
		s := kernel.NewSnapshot(r.CustomerID, deref(r.CustomerName))
		p.Customer = &s
	}
	if r.ProductID != nil || r.ProductName != nil {
		s := kernel.NewSnapshot(r.ProductID, deref(r.ProductName))
		p.Product = &s
	}
	if r.Status != nil {
		s, err := entry.ParseStatus(*r.Status)
		if err != nil {
			return entry.Patch{}, err
		}
		p.Status = &s
	}
	return p, nil
}

type BulkDeleteRequest struct {
	IDs           []string `json:"ids" validate:"omitempty,dive,uuid"`
	From          string   `json:"from" validate:"required_without=IDs"`
	To            string   `json:"to" validate:"required_with=From"`
	ExcludeSynced bool     `json:"excludeSynced"`
}

type IDsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

type SyncRequest struct {
	IDs         []string `json:"ids" validate:"required,min=1,dive,uuid"`
	DispatchDay string   `json:"dispatchDay"`
}

type ConfirmRequest struct {
	ShippedQty   any    `json:"shippedQty" validate:"required"`
	AssemblyDate string `json:"assemblyDate" validate:"required"`
}

type ReturnRequest struct {
	Reason  string `json:"reason" validate:"required"`
	Comment string `json:"comment"`
}

type BulkDeleteOrdersRequest struct {
	EntryIDs []string `json:"entryIds" validate:"required,min=1,dive,uuid"`
	Reason   string   `json:"reason"`
}

func parseStatusOrDefault(raw string) (entry.Status, error) {
	if raw == "" {
		return entry.Unknown, nil
	}
	return entry.ParseStatus(raw)
}

func coerced(v any) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := kernel.Coerce(v)
	return &d
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
