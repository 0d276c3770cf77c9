//go:build unit

package entities_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
)

func TestOperationHandleWait(t *testing.T) {
	t.Parallel()

	t.Run("should deliver every event before the final error", func(t *testing.T) {
		t.Parallel()

		// given
		events := make(chan entities.Event, 4)
		done := make(chan error, 1)
		events <- entities.Event{Kind: entities.EventLog, Message: "first"}
		events <- entities.Event{Kind: entities.EventProgress, Fraction: 0.5, Message: "half"}
		close(events)
		done <- errors.New("boom")
		handle := &entities.OperationHandle{Events: events, Done: done}

		// when
		var seen []string
		err := handle.Wait(func(ev entities.Event) { seen = append(seen, ev.Message) })

		// then
		require.EqualError(t, err, "boom")
		assert.Equal(t, []string{"first", "half"}, seen)
	})

	t.Run("should tolerate a nil sink", func(t *testing.T) {
		t.Parallel()

		// given
		events := make(chan entities.Event, 1)
		done := make(chan error, 1)
		events <- entities.Event{Kind: entities.EventLog, Message: "ignored"}
		close(events)
		done <- nil
		handle := &entities.OperationHandle{Events: events, Done: done}

		// when / then
		require.NoError(t, handle.Wait(nil))
	})
}
