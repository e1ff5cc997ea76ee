package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestFailure(t *testing.T) {
	t.Run("PlainError", func(t *testing.T) {
		result := Failure(errors.New("boom"))
		assert.Equal(t, ExitFailure, result.ExitCode)
	})

	t.Run("CommandError", func(t *testing.T) {
		result := Failure(NewCommandError(ExitDiscrepancy, "discrepancy of 35.00"))
		assert.Equal(t, ExitDiscrepancy, result.ExitCode)
		assert.EqualError(t, result.Err, "discrepancy of 35.00")
	})

	t.Run("WrappedCommandError", func(t *testing.T) {
		err := fmt.Errorf("reconcile: %w", NewCommandError(ExitUsage, ""))
		result := Failure(err)
		assert.Equal(t, ExitUsage, result.ExitCode)
	})
}

func TestSuccess(t *testing.T) {
	result := Success()
	assert.Equal(t, 0, result.ExitCode)
	assert.NoError(t, result.Err)
}

func TestCommandErrorMessage(t *testing.T) {
	assert.Equal(t, "command failed", NewCommandError(ExitFailure, "").Error())
}
