package order_test

import (
	"testing"
	"time"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

func shipDate(t *testing.T) kernel.ShipDate {
	t.Helper()
	d, err := kernel.NewShipDate(2024, time.March, 5)
	require.NoError(t, err)
	return d
}

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), 7, shipDate(t), shipDate(t).AddDays(-1), now)
	require.NoError(t, err)
	return o
}

func values(qty, price int64) order.LineValues {
	return order.LineValues{
		Quantity:   decimal.NewFromInt(qty),
		Price:      decimal.NewFromInt(price),
		ShippedQty: decimal.NewFromInt(qty),
	}
}

func TestNewOrder(t *testing.T) {
	t.Run("should create order awaiting distribution with zero totals", func(t *testing.T) {
		o := newOrder(t)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.AwaitingDistribution, o.Status())
		assert.Equal(t, kernel.BatchID("05032024"), o.BatchID())
		assert.True(t, o.TotalAmount().IsZero())
		assert.Equal(t, "2024-03-04", o.DispatchDay().String())
	})

	t.Run("should reject missing values", func(t *testing.T) {
		o, err := order.NewOrder(kernel.UUID{}, 0, kernel.ShipDate{}, kernel.ShipDate{}, now)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.ErrorIs(t, err, kernel.ErrShipDateIsNotConstructed)
	})
}

func TestOrder_Totals(t *testing.T) {
	t.Run("new line on new order seeds totals with line amount", func(t *testing.T) {
		o := newOrder(t)
		line, err := order.NewOrderLine(kernel.NewUUID(), o.ID(), 42, values(10, 5))
		require.NoError(t, err)

		require.NoError(t, o.AddLine(line, now))

		assert.True(t, decimal.NewFromInt(50).Equal(o.TotalAmount()))
		assert.True(t, decimal.NewFromInt(10).Equal(o.TotalWeight()))
		assert.True(t, line.Amount().Equal(o.TotalAmount()))
	})

	t.Run("updating a line leaves totals untouched", func(t *testing.T) {
		o := newOrder(t)
		line, err := order.NewOrderLine(kernel.NewUUID(), o.ID(), 42, values(10, 5))
		require.NoError(t, err)
		require.NoError(t, o.AddLine(line, now))

		line.Update(values(4, 5))

		assert.True(t, decimal.NewFromInt(4).Equal(line.Quantity()))
		assert.True(t, decimal.NewFromInt(20).Equal(line.Amount()))
		assert.True(t, decimal.NewFromInt(50).Equal(o.TotalAmount()))
	})

	t.Run("removing a line decrements by its current values", func(t *testing.T) {
		o := newOrder(t)
		a, _ := order.NewOrderLine(kernel.NewUUID(), o.ID(), 42, values(10, 5))
		b, _ := order.NewOrderLine(kernel.NewUUID(), o.ID(), 43, values(2, 3))
		require.NoError(t, o.AddLine(a, now))
		require.NoError(t, o.AddLine(b, now))

		require.NoError(t, o.RemoveLine(b, now))

		assert.True(t, decimal.NewFromInt(50).Equal(o.TotalAmount()))
		assert.True(t, decimal.NewFromInt(10).Equal(o.TotalWeight()))
	})

	t.Run("foreign line is rejected", func(t *testing.T) {
		o := newOrder(t)
		line, _ := order.NewOrderLine(kernel.NewUUID(), kernel.NewUUID(), 42, values(1, 1))

		err := o.AddLine(line, now)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.True(t, o.TotalAmount().IsZero())
	})
}

func TestOrder_ValidateUnwind(t *testing.T) {
	tests := []struct {
		status  order.Status
		blocked bool
	}{
		{order.AwaitingDistribution, false},
		{order.Distributing, true},
		{order.Shipped, true},
		{order.Delivered, true},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			o, err := order.RestoreOrder(kernel.NewUUID(), 7, shipDate(t), tt.status, shipDate(t),
				decimal.Zero, decimal.Zero, now, now)
			require.NoError(t, err)

			err = o.ValidateUnwind()
			if !tt.blocked {
				assert.NoError(t, err)
				return
			}
			var blocked *errs.BlockedError
			require.ErrorAs(t, err, &blocked)
			assert.Equal(t, tt.status.String(), blocked.State)
		})
	}
}

func TestParseStatus(t *testing.T) {
	s, err := order.ParseStatus("awaiting_distribution")
	require.NoError(t, err)
	assert.Equal(t, order.AwaitingDistribution, s)

	_, err = order.ParseStatus("unknown")
	assert.Error(t, err)
	assert.Error(t, order.Unknown.Validate())
}

func TestNewOrderLine(t *testing.T) {
	_, err := order.NewOrderLine(kernel.NewUUID(), kernel.NewUUID(), 0, values(1, 1))
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

	line, err := order.RestoreOrderLine(kernel.NewUUID(), kernel.NewUUID(), 42, values(3, 2), decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5).Equal(line.Amount()), "restored amount is kept")
}
