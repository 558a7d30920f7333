package entry_test

import (
	"testing"
	"time"

	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

func mustShipDate(t *testing.T, y int, m time.Month, d int) kernel.ShipDate {
	t.Helper()
	date, err := kernel.NewShipDate(y, m, d)
	require.NoError(t, err)
	return date
}

func validFields(t *testing.T) entry.Fields {
	return entry.Fields{
		ShipDate:    mustShipDate(t, 2024, time.March, 5),
		PaymentType: "cash",
		Customer:    kernel.ResolvedSnapshot(7, "Acme Meats"),
		Product:     kernel.ResolvedSnapshot(42, "Beef shoulder"),
		ProductCode: "P42",
		Price:       decimal.NewFromInt(5),
		OrderedQty:  decimal.NewFromInt(12),
		ShippedQty:  decimal.NewFromInt(10),
	}
}

func mustOperator(t *testing.T) kernel.Operator {
	t.Helper()
	op, err := kernel.NewOperator("u-1", "Anna")
	require.NoError(t, err)
	return op
}

func TestNewEntry(t *testing.T) {
	t.Run("should derive batch id and sum", func(t *testing.T) {
		e, err := entry.NewEntry(kernel.NewUUID(), validFields(t), entry.Draft, now)

		require.NoError(t, err)
		require.NoError(t, e.Validate())
		assert.Equal(t, kernel.BatchID("05032024"), e.BatchID())
		assert.True(t, decimal.NewFromInt(50).Equal(e.SumWithRevaluation()))
		assert.Equal(t, entry.Draft, e.Status())
		assert.Nil(t, e.ConfirmedBy())
		assert.Nil(t, e.ConfirmedAt())
		assert.Nil(t, e.OrderLineID())
	})

	t.Run("should accept customer name without id", func(t *testing.T) {
		f := validFields(t)
		f.Customer = kernel.NewSnapshot(nil, "Unknown Butcher")

		e, err := entry.NewEntry(kernel.NewUUID(), f, entry.Forming, now)

		require.NoError(t, err)
		assert.False(t, e.HasReconcileKeys())
		assert.Equal(t, "name:unknown butcher", e.CustomerKey())
	})

	t.Run("should require ship date and customer identity", func(t *testing.T) {
		f := validFields(t)
		f.ShipDate = kernel.ShipDate{}
		f.Customer = kernel.NewSnapshot(nil, "  ")

		e, err := entry.NewEntry(kernel.NewUUID(), f, entry.Draft, now)

		require.Error(t, err)
		assert.Nil(t, e)
		assert.ErrorIs(t, err, kernel.ErrShipDateIsNotConstructed)
		assert.ErrorIs(t, err, entry.ErrCustomerIdentityIsRequired)
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("should reject synced as initial status", func(t *testing.T) {
		_, err := entry.NewEntry(kernel.NewUUID(), validFields(t), entry.Synced, now)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestEntry_Apply(t *testing.T) {
	op := mustOperator(t)

	t.Run("should recompute sum from merged values when price changes", func(t *testing.T) {
		e, err := entry.NewEntry(kernel.NewUUID(), validFields(t), entry.Draft, now)
		require.NoError(t, err)
		price := decimal.NewFromInt(7)

		require.NoError(t, e.Apply(entry.Patch{Price: &price}, kernel.Operator{}, now))

		assert.True(t, decimal.NewFromInt(70).Equal(e.SumWithRevaluation()))
	})

	t.Run("should recompute sum when shipped qty changes", func(t *testing.T) {
		e, err := entry.NewEntry(kernel.NewUUID(), validFields(t), entry.Draft, now)
		require.NoError(t, err)
		qty := decimal.RequireFromString("2.5")

		require.NoError(t, e.Apply(entry.Patch{ShippedQty: &qty}, kernel.Operator{}, now))

		assert.True(t, decimal.RequireFromString("12.5").Equal(e.SumWithRevaluation()))
	})

	t.Run("should re-derive batch id on ship date change", func(t *testing.T) {
		e, err := entry.NewEntry(kernel.NewUUID(), validFields(t), entry.Draft, now)
		require.NoError(t, err)
		date := mustShipDate(t, 2024, time.April, 1)

		require.NoError(t, e.Apply(entry.Patch{ShipDate: &date}, kernel.Operator{}, now))

		assert.Equal(t, kernel.BatchID("01042024"), e.BatchID())
	})

	t.Run("should stamp confirmation when patch sets synced", func(t *testing.T) {
		e, err := entry.NewEntry(kernel.NewUUID(), validFields(t), entry.Forming, now)
		require.NoError(t, err)
		status := entry.Synced
		later := now.Add(time.Hour)

		require.NoError(t, e.Apply(entry.Patch{Status: &status}, op, later))

		assert.Equal(t, entry.Synced, e.Status())
		require.NotNil(t, e.ConfirmedBy())
		assert.Equal(t, "Anna", *e.ConfirmedBy())
		assert.Equal(t, later, *e.ConfirmedAt())
	})

	t.Run("should require operator to set synced", func(t *testing.T) {
		e, err := entry.NewEntry(kernel.NewUUID(), validFields(t), entry.Forming, now)
		require.NoError(t, err)
		status := entry.Synced

		err = e.Apply(entry.Patch{Status: &status}, kernel.Operator{}, now)

		assert.ErrorIs(t, err, kernel.ErrOperatorIsNotConstructed)
		assert.Equal(t, entry.Forming, e.Status())
	})

	t.Run("should not stamp confirmation for other statuses", func(t *testing.T) {
		e, err := entry.NewEntry(kernel.NewUUID(), validFields(t), entry.Draft, now)
		require.NoError(t, err)
		status := entry.Forming

		require.NoError(t, e.Apply(entry.Patch{Status: &status}, op, now))

		assert.Nil(t, e.ConfirmedBy())
	})

	t.Run("should leave entry unchanged on invalid patch", func(t *testing.T) {
		e, err := entry.NewEntry(kernel.NewUUID(), validFields(t), entry.Draft, now)
		require.NoError(t, err)
		var unset kernel.ShipDate
		renamed := kernel.NewSnapshot(nil, "Other")
		price := decimal.NewFromInt(100)

		err = e.Apply(entry.Patch{ShipDate: &unset, Customer: &renamed, Price: &price}, op, now)

		require.Error(t, err)
		assert.True(t, decimal.NewFromInt(5).Equal(e.Price()))
		assert.Equal(t, "Acme Meats", e.Customer().Label())
	})

	t.Run("should keep customer id on a label-only patch", func(t *testing.T) {
		e, err := entry.NewEntry(kernel.NewUUID(), validFields(t), entry.Draft, now)
		require.NoError(t, err)
		before, ok := e.Customer().ID()
		require.True(t, ok)
		renamed := kernel.NewSnapshot(nil, "Acme Meats Ltd")

		require.NoError(t, e.Apply(entry.Patch{Customer: &renamed}, op, now))

		after, ok := e.Customer().ID()
		require.True(t, ok)
		assert.Equal(t, before, after)
		assert.Equal(t, "Acme Meats Ltd", e.Customer().Label())
	})
}

func TestEntry_Lifecycle(t *testing.T) {
	op := mustOperator(t)

	e, err := entry.NewEntry(kernel.NewUUID(), validFields(t), entry.Draft, now)
	require.NoError(t, err)

	require.Error(t, e.ValidateReturn())
	require.NoError(t, e.SendToAssembly(now))
	assert.Equal(t, entry.Forming, e.Status())
	require.NoError(t, e.ValidateReturn())

	lineID := kernel.NewUUID()
	require.NoError(t, e.MarkSynced(op, now))
	require.NoError(t, e.LinkTo(lineID))
	assert.True(t, e.IsLinkedTo(lineID))
	assert.ErrorIs(t, e.ValidateReturn(), errs.ErrValueIsInvalid)

	require.NoError(t, e.MarkForRework(now))
	assert.Equal(t, entry.Rework, e.Status())

	require.NoError(t, e.Unlock(now))
	assert.Equal(t, entry.Forming, e.Status())
	assert.True(t, e.IsLinkedTo(lineID), "unlock keeps the order line link")

	e.ResetToForming(now)
	assert.Nil(t, e.OrderLineID())
	assert.Nil(t, e.ConfirmedBy())
	assert.Nil(t, e.ConfirmedAt())
}

func TestEntry_SetShippedQty(t *testing.T) {
	e, err := entry.NewEntry(kernel.NewUUID(), validFields(t), entry.Forming, now)
	require.NoError(t, err)

	e.SetShippedQty(decimal.NewFromInt(4), now)

	assert.True(t, decimal.NewFromInt(4).Equal(e.ShippedQty()))
	assert.True(t, decimal.NewFromInt(20).Equal(e.SumWithRevaluation()))
}

func TestRestoreEntry(t *testing.T) {
	line := kernel.NewUUID()
	by := "Anna"
	at := now

	e, err := entry.RestoreEntry(entry.State{
		ID:                 kernel.NewUUID(),
		Fields:             validFields(t),
		SumWithRevaluation: decimal.NewFromInt(49),
		Status:             entry.Synced,
		ConfirmedBy:        &by,
		ConfirmedAt:        &at,
		OrderLineID:        &line,
		CreatedAt:          now,
		UpdatedAt:          now,
	})

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(49).Equal(e.SumWithRevaluation()), "stored sum is kept")
	assert.Equal(t, kernel.BatchID("05032024"), e.BatchID())
	assert.True(t, e.IsLinkedTo(line))
}

func TestEntry_ZeroValue(t *testing.T) {
	var e *entry.Entry

	assert.ErrorIs(t, e.Validate(), entry.ErrEntryIsNotConstructed)
	assert.ErrorIs(t, (&entry.Entry{}).Validate(), entry.ErrEntryIsNotConstructed)
}
