package repositories

import (
	"context"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
)

// LocalRepository wraps the git command surface used by the sync strategies.
// Every method shells out to git; non-zero exits surface as
// *entities.CommandError carrying the combined output.
type LocalRepository interface {
	// IsAvailable reports whether git is installed and on PATH.
	IsAvailable(ctx context.Context) bool

	// EnsureRepository initializes version control at path if absent,
	// configures a repository-local commit identity, guarantees a branch and
	// an initial commit exist, and returns the resulting current branch name
	// (which may differ from the requested one).
	EnsureRepository(
		ctx context.Context,
		path, branch string,
		identity entities.Identity,
	) (string, error)

	// CreateBranch branches off the current HEAD and checks the new branch
	// out. It fails when name already exists as a local reference.
	CreateBranch(ctx context.Context, path, name string) (string, error)

	// CommitAll stages everything and commits with the given message. A
	// clean tree is not an error.
	CommitAll(ctx context.Context, path, message string)

	// Checkout switches to branch, creating or resetting it (checkout -B).
	Checkout(ctx context.Context, path, branch string) error

	// ConfigureTransport raises the HTTP post buffer and low-speed timeout
	// for large payloads.
	ConfigureTransport(ctx context.Context, path string)

	// ShrinkPack lowers pack window memory and pack size, used when a push
	// dies mid-transfer.
	ShrinkPack(ctx context.Context, path string)

	// Push pushes HEAD onto branch at pushURL, setting the upstream ref.
	Push(ctx context.Context, path, pushURL, branch string) error

	// AddRemote registers a named remote; RemoveRemote deletes it and never
	// fails on an unknown name.
	AddRemote(ctx context.Context, path, name, remoteURL string) error
	RemoveRemote(ctx context.Context, path, name string)

	// Fetch fetches a single branch from the named remote.
	Fetch(ctx context.Context, path, remote, branch string) error

	// MergePreferLocal merges ref into the current branch, allowing
	// unrelated histories and resolving conflicts in favor of local changes.
	MergePreferLocal(ctx context.Context, path, ref string) error

	// CloneShallow clones a single branch at depth 1 into dir.
	CloneShallow(ctx context.Context, remoteURL, branch, dir string) error

	// SetLocalIdentity configures user.name/user.email for this clone only.
	SetLocalIdentity(ctx context.Context, path string, identity entities.Identity)

	// RemoveAllTracked deletes every tracked file (git rm -r -f .). An
	// already-empty tree is not an error.
	RemoveAllTracked(ctx context.Context, path string)

	// Status returns the porcelain status output; empty means clean.
	Status(ctx context.Context, path string) (string, error)

	// Commit records staged changes with the given message.
	Commit(ctx context.Context, path, message string) error
}
