package commands

import (
	"context"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

// Manage is the interface for repository and branch discovery.
type Manage interface {
	SearchRepositories(ctx context.Context, opts ManageOptions, query string) ([]entities.Repository, error)
	ListBranches(ctx context.Context, opts ManageOptions, repo entities.Repository) ([]entities.Branch, error)
}

// ManageOptions carries the server coordinates for discovery calls.
type ManageOptions struct {
	ServerURL          string
	Credentials        entities.Credentials
	InsecureSkipVerify bool
}

// ManageCommand exposes the discovery operations of the remote client. The
// calls are short-lived, so unlike sync and wipe they run synchronously on
// the caller's goroutine.
type ManageCommand struct {
	remoteFactory repositories.RemoteRepositoryFactory
}

// NewManageCommand creates a new ManageCommand.
func NewManageCommand(remoteFactory repositories.RemoteRepositoryFactory) *ManageCommand {
	return &ManageCommand{remoteFactory: remoteFactory}
}

// SearchRepositories finds the user's repositories matching query; a blank
// query lists everything.
func (it *ManageCommand) SearchRepositories(
	ctx context.Context,
	opts ManageOptions,
	query string,
) ([]entities.Repository, error) {
	remote := it.remoteFactory(opts.ServerURL, opts.InsecureSkipVerify)
	if query == "" {
		return remote.ListRepositoriesForUser(ctx, opts.Credentials)
	}
	return remote.SearchRepositories(ctx, opts.Credentials, query)
}

// ListBranches lists the branches of one repository.
func (it *ManageCommand) ListBranches(
	ctx context.Context,
	opts ManageOptions,
	repo entities.Repository,
) ([]entities.Branch, error) {
	remote := it.remoteFactory(opts.ServerURL, opts.InsecureSkipVerify)
	return remote.ListBranches(ctx, opts.Credentials, repo)
}
