package services_test

import (
	"testing"
	"time"

	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

func mustDate(t *testing.T, y int, m time.Month, d int) kernel.ShipDate {
	t.Helper()
	date, err := kernel.NewShipDate(y, m, d)
	require.NoError(t, err)
	return date
}

func newEntry(t *testing.T, customer, product kernel.Snapshot, shipped, price int64) *entry.Entry {
	t.Helper()
	e, err := entry.NewEntry(kernel.NewUUID(), entry.Fields{
		ShipDate:   mustDate(t, 2024, time.March, 5),
		Customer:   customer,
		Product:    product,
		Price:      decimal.NewFromInt(price),
		ShippedQty: decimal.NewFromInt(shipped),
	}, entry.Forming, now)
	require.NoError(t, err)
	return e
}

func TestLineReconciler_Plan(t *testing.T) {
	reconciler := services.NewLineReconciler()
	customer := kernel.ResolvedSnapshot(7, "Acme")
	product := kernel.ResolvedSnapshot(42, "Brisket")
	dispatch := mustDate(t, 2024, time.March, 4)

	t.Run("should create order seeded from the new line", func(t *testing.T) {
		e := newEntry(t, customer, product, 10, 5)

		plan, err := reconciler.Plan(e, nil, nil, dispatch, now)

		require.NoError(t, err)
		assert.Equal(t, services.CreateOrder, plan.Action)
		assert.Equal(t, int64(7), plan.Order.CustomerID())
		assert.Equal(t, e.BatchID(), plan.Order.BatchID())
		assert.True(t, plan.Order.DispatchDay().Equal(dispatch))
		assert.True(t, decimal.NewFromInt(50).Equal(plan.Order.TotalAmount()))
		assert.True(t, plan.Order.TotalAmount().Equal(plan.Line.Amount()))
		assert.Equal(t, order.AwaitingDistribution, plan.Order.Status())
	})

	t.Run("should add line to existing order and grow totals", func(t *testing.T) {
		first, err := reconciler.Plan(newEntry(t, customer, product, 10, 5), nil, nil, dispatch, now)
		require.NoError(t, err)
		other := newEntry(t, customer, kernel.ResolvedSnapshot(43, "Ribs"), 2, 3)

		plan, err := reconciler.Plan(other, first.Order, nil, dispatch, now)

		require.NoError(t, err)
		assert.Equal(t, services.CreateLine, plan.Action)
		assert.True(t, plan.Order.IsEqual(first.Order))
		assert.True(t, decimal.NewFromInt(56).Equal(plan.Order.TotalAmount()))
		assert.Equal(t, int64(43), plan.Line.ProductID())
	})

	t.Run("should replace quantity on existing line and keep totals", func(t *testing.T) {
		first, err := reconciler.Plan(newEntry(t, customer, product, 10, 5), nil, nil, dispatch, now)
		require.NoError(t, err)
		second := newEntry(t, customer, product, 4, 5)

		plan, err := reconciler.Plan(second, first.Order, first.Line, dispatch, now)

		require.NoError(t, err)
		assert.Equal(t, services.UpdateLine, plan.Action)
		assert.True(t, plan.Line.ID().IsEqual(first.Line.ID()))
		assert.True(t, decimal.NewFromInt(4).Equal(plan.Line.Quantity()))
		assert.True(t, decimal.NewFromInt(50).Equal(plan.Order.TotalAmount()))
	})

	t.Run("should refuse unresolved entries", func(t *testing.T) {
		e := newEntry(t, kernel.NewSnapshot(nil, "Walk-in"), product, 1, 1)

		_, err := reconciler.Plan(e, nil, nil, dispatch, now)

		assert.ErrorIs(t, err, services.ErrEntryIsUnresolved)
	})

	t.Run("should refuse an order for another customer", func(t *testing.T) {
		first, err := reconciler.Plan(newEntry(t, kernel.ResolvedSnapshot(8, "Other"), product, 1, 1), nil, nil, dispatch, now)
		require.NoError(t, err)

		_, err = reconciler.Plan(newEntry(t, customer, product, 1, 1), first.Order, nil, dispatch, now)

		assert.Error(t, err)
	})
}

func TestLineValuesOf(t *testing.T) {
	e, err := entry.NewEntry(kernel.NewUUID(), entry.Fields{
		ShipDate:           mustDate(t, 2024, time.March, 5),
		Customer:           kernel.ResolvedSnapshot(7, "Acme"),
		Price:              decimal.NewFromInt(5),
		OrderedQty:         decimal.NewFromInt(12),
		ShippedQty:         decimal.NewFromInt(10),
		DistributionCoef:   decimal.RequireFromString("0.5"),
		WeightToDistribute: decimal.RequireFromString("3.2"),
	}, entry.Forming, now)
	require.NoError(t, err)

	v := services.LineValuesOf(e)

	assert.True(t, decimal.NewFromInt(10).Equal(v.Quantity), "line quantity is the shipped quantity")
	assert.True(t, decimal.RequireFromString("0.5").Equal(v.DistributionCoef))
	assert.True(t, decimal.RequireFromString("3.2").Equal(v.WeightToDistribute))
}
