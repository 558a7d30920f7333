package errs_test

import (
	"errors"
	"testing"

	"orderdesk/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("entryId", "123")

		assert.Equal(t, "entryId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("entryId", "123", cause)

		assert.Equal(t,
			"object not found: param is: entryId, ID is: 123 (cause: database connection failed)",
			err.Error())
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestValidationErrors(t *testing.T) {
	t.Run("value is invalid", func(t *testing.T) {
		err := errs.NewValueIsInvalidErrorWithCause("status", errors.New("unknown"))

		assert.Equal(t, "value is invalid: status (cause: unknown)", err.Error())
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("value is required", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("shipDate")

		assert.Equal(t, "value is required: shipDate", err.Error())
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("value is out of range strips newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)

		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("not found is not a validation error", func(t *testing.T) {
		assert.False(t, errs.IsValidation(errs.NewObjectNotFoundError("entry", "1")))
	})
}

func TestConflictError(t *testing.T) {
	err := errs.NewConflictError("orderLineId", "line-1")

	assert.Equal(t, "conflict: param is: orderLineId, ID is: line-1", err.Error())
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestBlockedError(t *testing.T) {
	err := errs.NewBlockedError("order", "o-1", "shipped")

	assert.Equal(t, "blocked: order o-1 is in state shipped", err.Error())
	assert.ErrorIs(t, err, errs.ErrBlocked)
}

func TestInternalError(t *testing.T) {
	cause := errors.New("connection reset")
	err := errs.NewInternalError("e-9", cause)

	assert.Equal(t, "internal error: ID is: e-9 (cause: connection reset)", err.Error())
	assert.ErrorIs(t, err, errs.ErrInternal)
	assert.ErrorIs(t, err, cause)
}
