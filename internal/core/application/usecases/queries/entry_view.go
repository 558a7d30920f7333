// Package queries contains the read side: entry listings, the assembly view
// and orders. Handlers read straight from PostgreSQL with raw SQL and return
// read models shaped for the HTTP surface.
package queries

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"orderdesk/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryView is the read model of a summary entry.
type EntryView struct {
	ID                 kernel.UUID     `json:"id"`
	BatchID            string          `json:"idn"`
	ShipDate           kernel.ShipDate `json:"shipDate"`
	PaymentType        string          `json:"paymentType"`
	CustomerID         *int64          `json:"customerId"`
	CustomerName       string          `json:"customerName"`
	ProductID          *int64          `json:"productId"`
	ProductCode        string          `json:"productCode"`
	ProductName        string          `json:"productName"`
	ProductCategory    string          `json:"productCategory"`
	District           string          `json:"district"`
	Location           string          `json:"location"`
	Price              decimal.Decimal `json:"price"`
	OrderedQty         decimal.Decimal `json:"orderedQty"`
	ShippedQty         decimal.Decimal `json:"shippedQty"`
	SumWithRevaluation decimal.Decimal `json:"sumWithRevaluation"`
	DistributionCoef   decimal.Decimal `json:"distributionCoef"`
	WeightToDistribute decimal.Decimal `json:"weightToDistribute"`
	Status             string          `json:"status"`
	ConfirmedBy        *string         `json:"confirmedBy"`
	ConfirmedAt        *time.Time      `json:"confirmedAt"`
	OrderLineID        *kernel.UUID    `json:"orderLineId"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// CustomerKey groups entries of the same customer: the id when resolved,
// otherwise the lowercased name.
func (v EntryView) CustomerKey() string {
	if v.CustomerID != nil {
		return "id:" + strconv.FormatInt(*v.CustomerID, 10)
	}
	return "name:" + strings.ToLower(strings.TrimSpace(v.CustomerName))
}

const entryColumns = `
	id, idn, ship_date, payment_type,
	customer_id, customer_name, product_id, product_code, product_name, product_category,
	district, location,
	price, ordered_qty, shipped_qty, sum_with_revaluation, distribution_coef, weight_to_distribute,
	status, confirmed_by, confirmed_at, order_line_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (EntryView, error) {
	var (
		v           EntryView
		id          uuid.UUID
		shipDate    time.Time
		customerID  sql.NullInt64
		productID   sql.NullInt64
		confirmedBy sql.NullString
		confirmedAt sql.NullTime
		orderLineID uuid.NullUUID
	)

	err := row.Scan(
		&id, &v.BatchID, &shipDate, &v.PaymentType,
		&customerID, &v.CustomerName, &productID, &v.ProductCode, &v.ProductName, &v.ProductCategory,
		&v.District, &v.Location,
		&v.Price, &v.OrderedQty, &v.ShippedQty, &v.SumWithRevaluation, &v.DistributionCoef, &v.WeightToDistribute,
		&v.Status, &confirmedBy, &confirmedAt, &orderLineID, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return EntryView{}, err
	}

	if v.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return EntryView{}, err
	}
	v.ShipDate = kernel.ShipDateFromTime(shipDate, time.UTC)
	if customerID.Valid {
		v.CustomerID = &customerID.Int64
	}
	if productID.Valid {
		v.ProductID = &productID.Int64
	}
	if confirmedBy.Valid {
		v.ConfirmedBy = &confirmedBy.String
	}
	if confirmedAt.Valid {
		v.ConfirmedAt = &confirmedAt.Time
	}
	if orderLineID.Valid {
		lineID, err := kernel.UUIDFromBytes(orderLineID.UUID[:])
		if err != nil {
			return EntryView{}, err
		}
		v.OrderLineID = &lineID
	}
	return v, nil
}
