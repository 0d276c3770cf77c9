package entities

// SyncMode selects the transport used to reconcile a working tree with the
// remote repository.
type SyncMode string

const (
	// ModePush delivers the full commit history via the git wire protocol,
	// falling back to the contents API on recoverable failures.
	ModePush SyncMode = "push"
	// ModeContentAPI uploads every file individually via the contents API.
	ModeContentAPI SyncMode = "content-api"
)

// SyncOutcome aggregates per-file results of a directory sync.
type SyncOutcome struct {
	Succeeded int
	Failed    int
}

// Total returns the number of files processed.
func (o SyncOutcome) Total() int {
	return o.Succeeded + o.Failed
}
