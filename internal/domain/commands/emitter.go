package commands

import (
	"fmt"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
)

// Emitter publishes progress and log events for one running operation.
// Strategies write to it instead of invoking caller-supplied callbacks, so
// the retry logic stays independent of any front-end.
type Emitter struct {
	events chan<- entities.Event
}

// NewEmitter wraps an event channel. The channel is owned by the operation
// that created it and is closed when the operation finishes.
func NewEmitter(events chan<- entities.Event) *Emitter {
	return &Emitter{events: events}
}

// Log emits a plain log line.
func (it *Emitter) Log(message string) {
	it.events <- entities.Event{Kind: entities.EventLog, Message: message}
}

// Logf emits a formatted log line.
func (it *Emitter) Logf(format string, args ...any) {
	it.Log(fmt.Sprintf(format, args...))
}

// Progress emits a completion fraction in [0, 1] with a status message.
func (it *Emitter) Progress(fraction float64, message string) {
	it.events <- entities.Event{
		Kind:     entities.EventProgress,
		Fraction: fraction,
		Message:  message,
	}
}

// startOperation runs fn on its own goroutine and returns the caller's
// handle. The events channel is buffered so short bursts never block the
// operation, and it is closed before the final error is delivered.
func startOperation(fn func(emit *Emitter) error) *entities.OperationHandle {
	const eventBuffer = 64

	events := make(chan entities.Event, eventBuffer)
	done := make(chan error, 1)

	go func() {
		err := fn(NewEmitter(events))
		close(events)
		done <- err
	}()

	return &entities.OperationHandle{Events: events, Done: done}
}
