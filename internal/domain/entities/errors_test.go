//go:build unit

package entities_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
)

func TestClassifyStatus(t *testing.T) {
	t.Parallel()

	t.Run("should map each status family onto its kind", func(t *testing.T) {
		t.Parallel()

		// given
		cases := []struct {
			status  int
			matches func(error) bool
		}{
			{401, entities.IsAuthenticationError},
			{403, entities.IsAuthorizationError},
			{404, entities.IsNotFoundError},
			{409, entities.IsConflictError},
			{422, entities.IsConflictError},
		}

		// when / then
		for _, tc := range cases {
			err := entities.ClassifyStatus("request failed", tc.status, "")
			assert.True(t, tc.matches(err), "status %d mapped to the wrong kind", tc.status)
		}
	})

	t.Run("should preserve the status and body in the message", func(t *testing.T) {
		t.Parallel()

		// given
		err := entities.ClassifyStatus("failed to upload a.txt", 422, `{"message":"sha is required"}`)

		// then
		assert.Contains(t, err.Error(), "failed to upload a.txt")
		assert.Contains(t, err.Error(), "422")
		assert.Contains(t, err.Error(), "sha is required")
	})

	t.Run("should classify through wrapped errors", func(t *testing.T) {
		t.Parallel()

		// given
		inner := entities.ClassifyStatus("request failed", 404, "")
		wrapped := fmt.Errorf("syncing: %w", inner)

		// then
		assert.True(t, entities.IsNotFoundError(wrapped))
		assert.False(t, entities.IsConflictError(wrapped))
	})
}

func TestNewNetworkError(t *testing.T) {
	t.Parallel()

	t.Run("should carry no status and match the network predicate", func(t *testing.T) {
		t.Parallel()

		// given
		err := entities.NewNetworkError("could not reach server", errors.New("dial tcp: timeout"))

		// then
		assert.True(t, entities.IsNetworkError(err))
		assert.Contains(t, err.Error(), "dial tcp: timeout")
	})
}

func TestCommandOutput(t *testing.T) {
	t.Parallel()

	t.Run("should extract the combined output from a wrapped command error", func(t *testing.T) {
		t.Parallel()

		// given
		cmdErr := &entities.CommandError{
			Name:   "git",
			Args:   []string{"push"},
			Output: "! [rejected] main -> main (fetch first)",
			Err:    errors.New("exit status 1"),
		}
		wrapped := fmt.Errorf("push failed: %w", cmdErr)

		// when
		output := entities.CommandOutput(wrapped)

		// then
		assert.Equal(t, "! [rejected] main -> main (fetch first)", output)
	})

	t.Run("should fall back to the error text for other errors", func(t *testing.T) {
		t.Parallel()

		// when
		output := entities.CommandOutput(errors.New("plain failure"))

		// then
		assert.Equal(t, "plain failure", output)
	})

	t.Run("should return empty for nil", func(t *testing.T) {
		t.Parallel()

		// when / then
		assert.Empty(t, entities.CommandOutput(nil))
	})
}

func TestCommandErrorUnwrap(t *testing.T) {
	t.Parallel()

	t.Run("should expose the underlying exit error", func(t *testing.T) {
		t.Parallel()

		// given
		exit := errors.New("exit status 128")
		cmdErr := &entities.CommandError{Name: "git", Args: []string{"fetch"}, Err: exit}

		// then
		require.ErrorIs(t, cmdErr, exit)
		assert.Contains(t, cmdErr.Error(), "git fetch")
	})
}
