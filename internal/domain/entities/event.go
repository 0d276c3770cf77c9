package entities

// EventKind distinguishes the event types emitted by a running operation.
type EventKind int

const (
	// EventLog is a human-readable log line.
	EventLog EventKind = iota
	// EventProgress carries a completion fraction in [0, 1].
	EventProgress
)

// Event is a single progress or log notification emitted by an operation.
// Strategies produce events instead of invoking caller-supplied callbacks,
// keeping the core logic independent of any particular front-end.
type Event struct {
	Kind     EventKind
	Message  string
	Fraction float64
}

// OperationHandle is the caller's view of an operation running on its own
// goroutine. Events is closed when the operation finishes; Done then yields
// exactly one value: nil on success or the terminal error.
type OperationHandle struct {
	Events <-chan Event
	Done   <-chan error
}

// Wait drains the event stream, forwarding each event to sink (which may be
// nil), and returns the operation's final error.
func (h *OperationHandle) Wait(sink func(Event)) error {
	for ev := range h.Events {
		if sink != nil {
			sink(ev)
		}
	}
	return <-h.Done
}
