package commands

import (
	"strings"

	"orderdesk/internal/core/application/resolver"
	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// EntryInput is one intake row as received from the HTTP surface or an import
// sheet. Numbers are already coerced; the ship date is kept as text so that a
// bad date fails only its own row in bulk intake.
type EntryInput struct {
	ShipDate           string
	PaymentType        string
	CustomerID         *int64
	CustomerName       string
	ProductID          *int64
	ProductCode        string
	ProductName        string
	District           string
	Location           string
	Price              decimal.Decimal
	OrderedQty         decimal.Decimal
	ShippedQty         decimal.Decimal
	DistributionCoef   decimal.Decimal
	WeightToDistribute decimal.Decimal
}

// resolverKeys collects every lookup key of the rows for a single resolve pass.
func resolverKeys(rows []EntryInput) resolver.Keys {
	var keys resolver.Keys
	for _, r := range rows {
		if r.ProductID != nil {
			keys.ProductIDs = append(keys.ProductIDs, *r.ProductID)
		} else {
			keys.ProductCodes = append(keys.ProductCodes, r.ProductCode)
		}
		if r.CustomerID != nil {
			keys.CustomerIDs = append(keys.CustomerIDs, *r.CustomerID)
		} else {
			keys.CustomerNames = append(keys.CustomerNames, r.CustomerName)
		}
	}
	return keys
}

// resolvedRow is an intake row with master data applied.
type resolvedRow struct {
	fields           entry.Fields
	productResolved  bool
	customerResolved bool
}

// resolveRow turns an intake row into entry fields. Resolved master data fills
// ids, labels, the product category and, unless supplied, district and location.
// Unresolved references keep the raw text as their label.
func resolveRow(in EntryInput, res resolver.Resolution) (resolvedRow, error) {
	shipDate, err := kernel.ParseShipDate(in.ShipDate)
	if err != nil {
		return resolvedRow{}, err
	}

	out := resolvedRow{fields: entry.Fields{
		ShipDate:           shipDate,
		PaymentType:        in.PaymentType,
		ProductCode:        strings.TrimSpace(in.ProductCode),
		District:           in.District,
		Location:           in.Location,
		Price:              in.Price,
		OrderedQty:         in.OrderedQty,
		ShippedQty:         in.ShippedQty,
		DistributionCoef:   in.DistributionCoef,
		WeightToDistribute: in.WeightToDistribute,
	}}

	customer, ok := lookupCustomer(in, res)
	if ok {
		out.customerResolved = true
		out.fields.Customer = kernel.ResolvedSnapshot(customer.ID, firstNonEmpty(in.CustomerName, customer.Name))
		if strings.TrimSpace(out.fields.District) == "" {
			out.fields.District = customer.District
		}
		if strings.TrimSpace(out.fields.Location) == "" {
			out.fields.Location = customer.Location
		}
	} else {
		// A caller-supplied id is kept even when master data does not know it.
		out.fields.Customer = kernel.NewSnapshot(in.CustomerID, in.CustomerName)
	}

	product, ok := lookupProduct(in, res)
	if ok {
		out.productResolved = true
		out.fields.Product = kernel.ResolvedSnapshot(product.ID, firstNonEmpty(in.ProductName, product.FullName))
		out.fields.ProductCode = firstNonEmpty(out.fields.ProductCode, product.Code)
		out.fields.ProductCategory = product.Category
	} else {
		out.fields.Product = kernel.NewSnapshot(in.ProductID, firstNonEmpty(in.ProductName, in.ProductCode))
	}

	return out, nil
}

func lookupCustomer(in EntryInput, res resolver.Resolution) (resolver.CustomerRef, bool) {
	if in.CustomerID != nil {
		return res.CustomerByID(*in.CustomerID)
	}
	return res.Customer(in.CustomerName)
}

func lookupProduct(in EntryInput, res resolver.Resolution) (resolver.ProductRef, bool) {
	if in.ProductID != nil {
		return res.ProductByID(*in.ProductID)
	}
	return res.Product(in.ProductCode)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
