package queries

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"

	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/guard"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrAssemblyViewQueryIsNotConstructed = errors.New(
	"AssemblyViewQuery must be created via NewAssemblyViewQuery constructor",
)

// AssemblyViewQuery loads what the warehouse floor works through on one date.
type AssemblyViewQuery struct {
	date  kernel.ShipDate
	guard guard.ConstructorGuard
}

func NewAssemblyViewQuery(date kernel.ShipDate) (AssemblyViewQuery, error) {
	if err := date.Validate(); err != nil {
		return AssemblyViewQuery{}, err
	}
	return AssemblyViewQuery{date: date, guard: guard.NewConstructorGuard()}, nil
}

func (q AssemblyViewQuery) Validate() error {
	return q.guard.Validate(ErrAssemblyViewQueryIsNotConstructed)
}

// CustomerGroup holds one customer's entries on the assembly floor.
type CustomerGroup struct {
	Key          string          `json:"key"`
	CustomerID   *int64          `json:"customerId"`
	CustomerName string          `json:"customerName"`
	District     string          `json:"district"`
	Location     string          `json:"location"`
	OrderedQty   decimal.Decimal `json:"orderedQty"`
	ShippedQty   decimal.Decimal `json:"shippedQty"`
	Sum          decimal.Decimal `json:"sum"`
	Synced       int             `json:"synced"`
	Forming      int             `json:"forming"`
	Entries      []EntryView     `json:"entries"`
}

type AssemblyView struct {
	Date   kernel.ShipDate `json:"date"`
	Groups []CustomerGroup `json:"groups"`
}

// AssemblyViewQueryHandler returns forming and synced entries of one ship
// date grouped by customer.
type AssemblyViewQueryHandler struct {
	db *gorm.DB
}

func NewAssemblyViewQueryHandler(db *gorm.DB) AssemblyViewQueryHandler {
	return AssemblyViewQueryHandler{db: db}
}

func (h AssemblyViewQueryHandler) Handle(ctx context.Context, query AssemblyViewQuery) (AssemblyView, error) {
	if err := query.Validate(); err != nil {
		return AssemblyView{}, err
	}

	entries, err := listEntries(ctx, h.db, `
		SELECT `+entryColumns+`
		FROM summary_entries
		WHERE ship_date = ? AND status IN ?
		ORDER BY customer_name, product_name, created_at`,
		query.date.String(),
		[]string{entry.Forming.String(), entry.Synced.String()},
	)
	if err != nil {
		return AssemblyView{}, err
	}

	return AssemblyView{Date: query.date, Groups: GroupByCustomer(entries)}, nil
}

// GroupByCustomer groups entries by CustomerKey. Groups are ordered by
// customer name (case-insensitive); entries keep their input order. District
// and location come from the first entry that has them.
func GroupByCustomer(entries []EntryView) []CustomerGroup {
	index := make(map[string]int)
	groups := make([]CustomerGroup, 0)

	for _, e := range entries {
		key := e.CustomerKey()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, CustomerGroup{
				Key:          key,
				CustomerID:   e.CustomerID,
				CustomerName: e.CustomerName,
				Entries:      make([]EntryView, 0, 1),
			})
		}

		g := &groups[i]
		if g.District == "" {
			g.District = e.District
		}
		if g.Location == "" {
			g.Location = e.Location
		}
		g.OrderedQty = g.OrderedQty.Add(e.OrderedQty)
		g.ShippedQty = g.ShippedQty.Add(e.ShippedQty)
		g.Sum = g.Sum.Add(e.SumWithRevaluation)
		switch e.Status {
		case entry.Synced.String():
			g.Synced++
		case entry.Forming.String():
			g.Forming++
		}
		g.Entries = append(g.Entries, e)
	}

	slices.SortStableFunc(groups, func(a, b CustomerGroup) int {
		return cmp.Or(
			cmp.Compare(strings.ToLower(a.CustomerName), strings.ToLower(b.CustomerName)),
			cmp.Compare(a.Key, b.Key),
		)
	})
	return groups
}
