package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

// Wipe is the interface for the branch wipe operation.
type Wipe interface {
	Start(ctx context.Context, opts WipeOptions) *entities.OperationHandle
}

// WipeOptions identifies the branch to empty.
type WipeOptions struct {
	ServerURL   string
	Credentials entities.Credentials
	Repo        entities.Repository
	Branch      string
}

// WipeCommand empties a remote branch while preserving its history: shallow
// clone, remove every tracked file, commit the deletions, push back.
type WipeCommand struct {
	local repositories.LocalRepository
}

// NewWipeCommand creates a new WipeCommand.
func NewWipeCommand(local repositories.LocalRepository) *WipeCommand {
	return &WipeCommand{local: local}
}

// Start launches the wipe on its own goroutine.
func (it *WipeCommand) Start(ctx context.Context, opts WipeOptions) *entities.OperationHandle {
	return startOperation(func(emit *Emitter) error {
		return it.run(ctx, emit, opts)
	})
}

func (it *WipeCommand) run(ctx context.Context, emit *Emitter, opts WipeOptions) error {
	tmp, err := os.MkdirTemp("", "giteasync-wipe-")
	if err != nil {
		return fmt.Errorf("creating temporary directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	emit.Logf("Working in temporary directory: %s", tmp)
	emit.Progress(0.1, "Cloning repository...")

	base := strings.TrimSuffix(opts.ServerURL, "/")
	remoteURL := base + "/" + opts.Repo.Owner + "/" + opts.Repo.Name + ".git"

	emit.Logf("Cloning %s branch '%s'...", opts.Repo.Slug(), opts.Branch)
	if cloneErr := it.local.CloneShallow(ctx, remoteURL, opts.Branch, tmp); cloneErr != nil {
		return fmt.Errorf("failed to clone repository: %w", cloneErr)
	}

	emit.Progress(0.3, "Configuring git identity...")
	identity := entities.DefaultIdentity(opts.Credentials.Username)
	it.local.SetLocalIdentity(ctx, tmp, identity)

	emit.Progress(0.5, "Removing all files...")
	emit.Log("Removing all tracked files from branch...")
	it.local.RemoveAllTracked(ctx, tmp)

	emit.Progress(0.7, "Checking for changes...")
	status, statusErr := it.local.Status(ctx, tmp)
	if statusErr != nil {
		return statusErr
	}
	if strings.TrimSpace(status) == "" {
		emit.Log("Branch is already empty - no changes to commit")
		emit.Progress(1, "Branch was already empty")
		return nil
	}

	emit.Progress(0.8, "Committing changes...")
	emit.Log("Committing file deletions...")
	if commitErr := it.local.Commit(ctx, tmp, "chore: empty branch "+opts.Branch); commitErr != nil {
		return fmt.Errorf("failed to commit changes: %w", commitErr)
	}

	emit.Progress(0.9, "Pushing changes...")
	emit.Log("Pushing changes to remote...")
	authURL := opts.Credentials.AuthenticatedURL(opts.ServerURL, opts.Repo)
	if pushErr := it.local.Push(ctx, tmp, authURL, opts.Branch); pushErr != nil {
		return fmt.Errorf("push failed: %w", pushErr)
	}

	emit.Progress(1, "Branch emptied successfully")
	emit.Log("Branch emptied successfully!")
	return nil
}
