package repositories

import (
	"context"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
)

// RemoteRepository abstracts the typed REST surface of the Gitea server.
// Credentials are passed explicitly on every call; implementations hold no
// ambient credential state.
type RemoteRepository interface {
	// CreateRepository creates a repository under the authenticated user, or
	// under ownerOrOrg when that differs from the username. An "already
	// exists" response is treated as success: the assumed slug is returned
	// either way, making creation idempotent.
	CreateRepository(
		ctx context.Context,
		creds entities.Credentials,
		ownerOrOrg, name string,
		private bool,
		defaultBranch string,
	) (string, error)

	// GetContents fetches the entry at path on the given branch. Exactly one
	// of the returns is populated: a single entry means a file (carrying its
	// SHA), a slice means a directory listing. A missing path yields a
	// NotFound-class error.
	GetContents(
		ctx context.Context,
		creds entities.Credentials,
		repo entities.Repository,
		path, branch string,
	) (*entities.ContentEntry, []entities.ContentEntry, error)

	// PutContents creates the file when sha is empty and updates it
	// otherwise. The server rejects updates whose sha does not match the
	// currently stored revision.
	PutContents(
		ctx context.Context,
		creds entities.Credentials,
		repo entities.Repository,
		path, branch string,
		content []byte,
		message, sha string,
	) error

	// DeleteContents removes the file; sha must match the stored revision.
	DeleteContents(
		ctx context.Context,
		creds entities.Credentials,
		repo entities.Repository,
		path, branch string,
		message, sha string,
	) error

	// SearchRepositories finds the user's repositories matching query,
	// deduplicated by slug and sorted case-insensitively by name.
	SearchRepositories(
		ctx context.Context,
		creds entities.Credentials,
		query string,
	) ([]entities.Repository, error)

	// ListRepositoriesForUser lists all repositories owned by the user.
	ListRepositoriesForUser(
		ctx context.Context,
		creds entities.Credentials,
	) ([]entities.Repository, error)

	// ListBranches lists the repository's branches sorted case-insensitively.
	ListBranches(
		ctx context.Context,
		creds entities.Credentials,
		repo entities.Repository,
	) ([]entities.Branch, error)
}

// RemoteRepositoryFactory builds a client for one server. The server URL and
// TLS policy are runtime inputs, so the DIG container provides a factory
// rather than a configured client.
type RemoteRepositoryFactory func(serverURL string, insecureSkipVerify bool) RemoteRepository
