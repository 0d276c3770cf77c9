package commands

import (
	"context"
	"strings"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

// tempRemoteName is the throwaway remote used to fetch diverging history.
const tempRemoteName = "temp-origin"

// pushState names the stations of the push recovery ladder. The ladder is an
// explicit state machine so every retry path is independently testable.
type pushState int

const (
	// pushAttempt is the direct push of HEAD onto the target branch.
	pushAttempt pushState = iota
	// pushRetrySmallPack retries once with a reduced pack size after a
	// mid-transfer disconnect.
	pushRetrySmallPack
	// pushMergeRemote fetches the remote branch, merges it preferring local
	// changes, and retries the push.
	pushMergeRemote
	// pushSucceeded and pushFailed are terminal.
	pushSucceeded
	pushFailed
)

// PushInput describes one push transport attempt.
type PushInput struct {
	// Path is the local working tree root.
	Path string
	// PushURL is the credential-embedded remote URL.
	PushURL string
	// Branch is the remote branch to push HEAD onto.
	Branch string
}

// PushStrategy delivers the full commit history over the git wire protocol,
// with a layered recovery ladder for transfer drops and diverging history.
type PushStrategy struct {
	local repositories.LocalRepository
}

// NewPushStrategy creates a push strategy over the given git adapter.
func NewPushStrategy(local repositories.LocalRepository) *PushStrategy {
	return &PushStrategy{local: local}
}

// Run walks the recovery ladder until a terminal state. Any error returned
// is terminal for this strategy; the orchestrator decides whether to fall
// back to the contents API.
func (it *PushStrategy) Run(ctx context.Context, emit *Emitter, in PushInput) error {
	it.local.ConfigureTransport(ctx, in.Path)

	state := pushAttempt
	var lastErr error

	for {
		switch state {
		case pushAttempt:
			emit.Logf("Pushing HEAD to branch '%s'...", in.Branch)
			lastErr = it.local.Push(ctx, in.Path, in.PushURL, in.Branch)
			state = nextPushState(state, lastErr)

		case pushRetrySmallPack:
			emit.Log("Network disconnect detected, retrying with smaller chunks...")
			it.local.ShrinkPack(ctx, in.Path)
			lastErr = it.local.Push(ctx, in.Path, in.PushURL, in.Branch)
			state = nextPushState(state, lastErr)

		case pushMergeRemote:
			emit.Log("Remote has existing commits; merging remote history (local changes win on conflicts)...")
			lastErr = it.mergeRemoteAndRetry(ctx, in)
			state = nextPushState(state, lastErr)

		case pushSucceeded:
			emit.Log("Push completed successfully")
			return nil

		case pushFailed:
			return lastErr
		}
	}
}

// nextPushState is the ladder's transition table. Each recovery state is
// entered at most once: RetrySmallPack may still escalate to MergeRemote,
// but MergeRemote only terminates.
func nextPushState(state pushState, err error) pushState {
	if err == nil {
		return pushSucceeded
	}

	output := entities.CommandOutput(err)

	switch state {
	case pushAttempt:
		if indicatesDisconnect(output) {
			return pushRetrySmallPack
		}
		if indicatesDivergence(output) {
			return pushMergeRemote
		}
	case pushRetrySmallPack:
		if indicatesDivergence(output) {
			return pushMergeRemote
		}
	}

	return pushFailed
}

// mergeRemoteAndRetry reconciles diverging remote history: fetch the remote
// branch through a temporary remote, merge it into the local branch with the
// "ours" policy, and push again. The temporary remote is removed on every
// exit path. The ours policy discards remote-only changes on conflicting
// paths; the caller has opted into overwrite semantics by pushing.
func (it *PushStrategy) mergeRemoteAndRetry(ctx context.Context, in PushInput) error {
	if err := it.local.Checkout(ctx, in.Path, in.Branch); err != nil {
		return err
	}

	// Clear any stale remote left behind by an interrupted run.
	it.local.RemoveRemote(ctx, in.Path, tempRemoteName)

	if err := it.local.AddRemote(ctx, in.Path, tempRemoteName, in.PushURL); err != nil {
		return err
	}
	defer it.local.RemoveRemote(ctx, in.Path, tempRemoteName)

	if err := it.local.Fetch(ctx, in.Path, tempRemoteName, in.Branch); err != nil {
		return err
	}

	if err := it.local.MergePreferLocal(ctx, in.Path, tempRemoteName+"/"+in.Branch); err != nil {
		return err
	}

	return it.local.Push(ctx, in.Path, in.PushURL, in.Branch)
}

// indicatesDisconnect matches git output for a transfer that died mid-flight.
func indicatesDisconnect(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "unexpected disconnect") ||
		strings.Contains(lower, "the remote end hung up")
}

// indicatesDivergence matches git output for a push rejected because the
// remote holds history the local branch does not.
func indicatesDivergence(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "fetch first") ||
		strings.Contains(lower, "non-fast-forward") ||
		strings.Contains(lower, "rejected")
}

// isFallbackEligible reports whether a terminal push failure belongs to the
// network or history-conflict class, the only classes where the contents API
// fallback is attempted. Authentication, authorization, and validation
// failures abort the whole operation instead.
func isFallbackEligible(err error) bool {
	if err == nil {
		return false
	}
	if entities.IsNetworkError(err) || entities.IsConflictError(err) {
		return true
	}
	output := entities.CommandOutput(err)
	return indicatesDisconnect(output) || indicatesDivergence(output)
}
