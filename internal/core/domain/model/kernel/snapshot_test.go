package kernel_test

import (
	"encoding/json"
	"testing"

	"orderdesk/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	t.Run("resolved", func(t *testing.T) {
		s := kernel.ResolvedSnapshot(7, "  Acme Meats ")

		id, ok := s.ID()
		require.True(t, ok)
		assert.Equal(t, int64(7), id)
		assert.Equal(t, "Acme Meats", s.Label())
		assert.True(t, s.IsResolved())
	})

	t.Run("unresolved keeps label", func(t *testing.T) {
		s := kernel.NewSnapshot(nil, "P2")

		_, ok := s.ID()
		assert.False(t, ok)
		assert.Nil(t, s.IDPtr())
		assert.Equal(t, "P2", s.Label())
		assert.False(t, s.IsEmpty())
	})

	t.Run("non-positive id is unresolved", func(t *testing.T) {
		zero := int64(0)

		assert.False(t, kernel.NewSnapshot(&zero, "x").IsResolved())
	})

	t.Run("id is copied", func(t *testing.T) {
		id := int64(3)
		s := kernel.NewSnapshot(&id, "")
		id = 9

		got, _ := s.ID()
		assert.Equal(t, int64(3), got)
	})

	t.Run("merge keeps the part a patch leaves out", func(t *testing.T) {
		current := kernel.ResolvedSnapshot(7, "Acme Meats")

		renamed := current.Merge(kernel.NewSnapshot(nil, "Acme Meats Ltd"))
		id, ok := renamed.ID()
		require.True(t, ok)
		assert.Equal(t, int64(7), id)
		assert.Equal(t, "Acme Meats Ltd", renamed.Label())

		relinked := current.Merge(kernel.ResolvedSnapshot(9, ""))
		id, _ = relinked.ID()
		assert.Equal(t, int64(9), id)
		assert.Equal(t, "Acme Meats", relinked.Label())
	})
}

func TestOperator(t *testing.T) {
	op, err := kernel.NewOperator(" u-1 ", "")
	require.NoError(t, err)
	assert.Equal(t, "u-1", op.ID())
	assert.Equal(t, "u-1", op.Name())

	_, err = kernel.NewOperator("", "Anna")
	assert.Error(t, err)

	var zero kernel.Operator
	assert.ErrorIs(t, zero.Validate(), kernel.ErrOperatorIsNotConstructed)
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "0"},
		{"int", 4, "4"},
		{"float", 2.5, "2.5"},
		{"string with comma", "12,75", "12.75"},
		{"string with spaces", " 1 200,5 ", "1200.5"},
		{"json number", json.Number("3.25"), "3.25"},
		{"garbage", "abc", "0"},
		{"empty", "", "0"},
		{"unsupported type", struct{}{}, "0"},
		{"decimal", decimal.RequireFromString("9.99"), "9.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, decimal.RequireFromString(tt.want).Equal(kernel.Coerce(tt.in)), "got %s", kernel.Coerce(tt.in))
		})
	}
}
