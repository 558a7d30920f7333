package guard_test

import (
	"errors"
	"testing"

	"orderdesk/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed_guard_returns_nil", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		var g guard.ConstructorGuard
		expected := errors.New("entry must be created via NewEntry")

		err := g.Validate(expected)

		require.Error(t, err)
		assert.Equal(t, expected, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

func TestConstructorGuard_EmbeddedInCommand(t *testing.T) {
	errCmdNotConstructed := errors.New("ConfirmCommand must be created via NewConfirmCommand")

	type confirmCommand struct {
		entryID string
		guard   guard.ConstructorGuard
	}

	newConfirmCommand := func(entryID string) (confirmCommand, error) {
		if entryID == "" {
			return confirmCommand{}, errors.New("entry id is required")
		}
		return confirmCommand{entryID: entryID, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructed_command_is_valid", func(t *testing.T) {
		cmd, err := newConfirmCommand("e-1")

		require.NoError(t, err)
		require.NoError(t, cmd.guard.Validate(errCmdNotConstructed))
	})

	t.Run("zero_value_command_is_rejected", func(t *testing.T) {
		var cmd confirmCommand

		assert.ErrorIs(t, cmd.guard.Validate(errCmdNotConstructed), errCmdNotConstructed)
	})

	t.Run("guard_can_be_copied_by_value", func(t *testing.T) {
		cmd, err := newConfirmCommand("e-2")
		require.NoError(t, err)

		copied := cmd

		assert.NoError(t, copied.guard.Validate(errCmdNotConstructed))
	})
}
