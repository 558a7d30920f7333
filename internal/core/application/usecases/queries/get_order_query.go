package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

type GetOrderQuery struct {
	id    kernel.UUID
	guard guard.ConstructorGuard
}

func NewGetOrderQuery(id kernel.UUID) (GetOrderQuery, error) {
	if err := id.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{id: id, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

type OrderLineView struct {
	ID                 kernel.UUID     `json:"id"`
	ProductID          int64           `json:"productId"`
	Quantity           decimal.Decimal `json:"quantity"`
	Price              decimal.Decimal `json:"price"`
	Amount             decimal.Decimal `json:"amount"`
	ShippedQty         decimal.Decimal `json:"shippedQty"`
	DistributionCoef   decimal.Decimal `json:"distributionCoef"`
	WeightToDistribute decimal.Decimal `json:"weightToDistribute"`
	// EntryID is the entry linked to the line, if any.
	EntryID *kernel.UUID `json:"entryId"`
}

type OrderView struct {
	ID          kernel.UUID     `json:"id"`
	CustomerID  int64           `json:"customerId"`
	ShipDate    kernel.ShipDate `json:"shipDate"`
	BatchID     string          `json:"idn"`
	Status      string          `json:"status"`
	DispatchDay kernel.ShipDate `json:"dispatchDay"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	TotalWeight decimal.Decimal `json:"totalWeight"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Lines       []OrderLineView `json:"lines"`
}

// GetOrderQueryHandler returns an order with its lines and the entries linked
// to them.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	var (
		view        OrderView
		shipDate    time.Time
		dispatchDay time.Time
	)
	row := h.db.WithContext(ctx).Raw(`
		SELECT customer_id, ship_date, idn, status, dispatch_day,
			total_amount, total_weight, created_at, updated_at
		FROM orders
		WHERE id = ?`, query.id.Bytes()).Row()
	err := row.Scan(
		&view.CustomerID, &shipDate, &view.BatchID, &view.Status, &dispatchDay,
		&view.TotalAmount, &view.TotalWeight, &view.CreatedAt, &view.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return OrderView{}, errs.NewObjectNotFoundError("order", query.id)
	}
	if err != nil {
		return OrderView{}, err
	}
	view.ID = query.id
	view.ShipDate = kernel.ShipDateFromTime(shipDate, time.UTC)
	view.DispatchDay = kernel.ShipDateFromTime(dispatchDay, time.UTC)

	if view.Lines, err = h.lines(ctx, query.id); err != nil {
		return OrderView{}, err
	}
	return view, nil
}

func (h GetOrderQueryHandler) lines(ctx context.Context, orderID kernel.UUID) ([]OrderLineView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT l.id, l.product_id, l.quantity, l.price, l.amount,
			l.shipped_qty, l.distribution_coef, l.weight_to_distribute, e.id
		FROM order_lines l
		LEFT JOIN summary_entries e ON e.order_line_id = l.id
		WHERE l.order_id = ?
		ORDER BY l.product_id`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]OrderLineView, 0)
	for rows.Next() {
		var (
			line    OrderLineView
			id      uuid.UUID
			entryID uuid.NullUUID
		)
		err = rows.Scan(
			&id, &line.ProductID, &line.Quantity, &line.Price, &line.Amount,
			&line.ShippedQty, &line.DistributionCoef, &line.WeightToDistribute, &entryID,
		)
		if err != nil {
			return nil, err
		}
		if line.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if entryID.Valid {
			linked, err := kernel.UUIDFromBytes(entryID.UUID[:])
			if err != nil {
				return nil, err
			}
			line.EntryID = &linked
		}
		lines = append(lines, line)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
