package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

// Sync is the interface for the sync orchestrator.
type Sync interface {
	Start(ctx context.Context, opts SyncOptions) *entities.OperationHandle
}

// SyncOptions holds everything one reconciliation run needs. Credentials are
// carried by value and discarded with the operation.
type SyncOptions struct {
	// Path is a working tree directory, or a .zip file when ExtractZip is set.
	Path        string
	ServerURL   string
	Credentials entities.Credentials
	// OwnerOrOrg targets an organization when it differs from the username.
	OwnerOrOrg string
	// RepoName defaults to the archive or directory basename when blank.
	RepoName string
	// Branch is the default branch requested on creation and pushed to.
	Branch string
	// NewBranch, when set, is created from the current branch and used as
	// the sync target instead.
	NewBranch          string
	Private            bool
	InsecureSkipVerify bool
	ExtractZip         bool
	Mode               entities.SyncMode
}

// SyncCommand reconciles a local working tree with a remote repository:
// ensure the remote exists, then deliver the tree via the push transport
// with contents-API fallback, or via the contents API directly.
type SyncCommand struct {
	remoteFactory repositories.RemoteRepositoryFactory
	local         repositories.LocalRepository
	archive       repositories.ArchiveRepository
}

// NewSyncCommand creates a new SyncCommand.
func NewSyncCommand(
	remoteFactory repositories.RemoteRepositoryFactory,
	local repositories.LocalRepository,
	archive repositories.ArchiveRepository,
) *SyncCommand {
	return &SyncCommand{
		remoteFactory: remoteFactory,
		local:         local,
		archive:       archive,
	}
}

// Start launches the reconciliation on its own goroutine and returns the
// caller's handle to its event stream and completion signal.
func (it *SyncCommand) Start(ctx context.Context, opts SyncOptions) *entities.OperationHandle {
	return startOperation(func(emit *Emitter) error {
		return it.run(ctx, emit, opts)
	})
}

func (it *SyncCommand) run(ctx context.Context, emit *Emitter, opts SyncOptions) error {
	emit.Progress(0.05, "Validating inputs...")

	if err := it.validate(ctx, opts); err != nil {
		return err
	}

	emit.Progress(0.1, "Preparing files...")

	workdir, cleanup, err := it.resolveWorkdir(ctx, emit, opts)
	if err != nil {
		return err
	}
	if cleanup != "" {
		defer os.RemoveAll(cleanup)
	}

	repoName := resolveRepositoryName(opts, workdir)
	remote := it.remoteFactory(opts.ServerURL, opts.InsecureSkipVerify)

	emit.Progress(0.25, fmt.Sprintf("Creating/verifying repository: %s", repoName))

	slug, err := remote.CreateRepository(
		ctx, opts.Credentials, opts.OwnerOrOrg, repoName, opts.Private, opts.Branch,
	)
	if err != nil {
		return err
	}
	emit.Logf("Remote repository ready: %s", slug)

	repo, err := parseSlug(slug)
	if err != nil {
		return err
	}

	if opts.Mode == entities.ModePush {
		return it.runPushMode(ctx, emit, opts, remote, repo, workdir)
	}
	return it.runContentMode(ctx, emit, opts, remote, repo, workdir)
}

// runPushMode prepares the local repository, pushes, and falls back to the
// contents API on network- or history-conflict-class failures. Push failures
// leave the working tree unchanged, so the forced overwrite sync afterwards
// is safe and idempotent.
func (it *SyncCommand) runPushMode(
	ctx context.Context,
	emit *Emitter,
	opts SyncOptions,
	remote repositories.RemoteRepository,
	repo entities.Repository,
	workdir string,
) error {
	emit.Progress(0.35, "Preparing local git repository...")

	identity := entities.DefaultIdentity(opts.Credentials.Username)

	branch, err := it.local.EnsureRepository(ctx, workdir, opts.Branch, identity)
	if err != nil {
		return err
	}

	if opts.NewBranch != "" {
		emit.Progress(0.45, fmt.Sprintf("Creating branch: %s", opts.NewBranch))
		branch, err = it.local.CreateBranch(ctx, workdir, opts.NewBranch)
		if err != nil {
			return err
		}
	}

	emit.Progress(0.55, "Staging and committing changes...")
	it.local.CommitAll(ctx, workdir, "Sync commit")

	emit.Progress(0.7, fmt.Sprintf("Pushing to %s...", repo.Slug()))

	pushURL := opts.Credentials.AuthenticatedURL(opts.ServerURL, repo)
	pushErr := NewPushStrategy(it.local).Run(ctx, emit, PushInput{
		Path:    workdir,
		PushURL: pushURL,
		Branch:  branch,
	})
	if pushErr == nil {
		emit.Progress(1, "Push completed successfully")
		return nil
	}

	if !isFallbackEligible(pushErr) {
		return pushErr
	}

	emit.Log("Git push failed, switching to API upload as fallback...")
	emit.Progress(0.75, "Git push failed, switching to API upload...")

	outcome, upErr := NewContentStrategy(remote).UploadDirectory(ctx, emit, UploadInput{
		Creds:          opts.Credentials,
		Repo:           repo,
		Branch:         branch,
		Root:           workdir,
		ForceOverwrite: true,
	})
	if upErr != nil {
		return upErr
	}
	if outcome.Succeeded == 0 {
		return errors.New("both git push and API upload failed")
	}

	emit.Progress(1, fmt.Sprintf("API upload completed: %d files uploaded", outcome.Succeeded))
	return nil
}

// runContentMode uploads the tree directly, respecting any pre-existing
// remote content not covered by local files.
func (it *SyncCommand) runContentMode(
	ctx context.Context,
	emit *Emitter,
	opts SyncOptions,
	remote repositories.RemoteRepository,
	repo entities.Repository,
	workdir string,
) error {
	branch := opts.Branch
	if opts.NewBranch != "" {
		branch = opts.NewBranch
	}

	emit.Progress(0.35, fmt.Sprintf("Preparing API upload to %s...", repo.Slug()))

	outcome, err := NewContentStrategy(remote).UploadDirectory(ctx, emit, UploadInput{
		Creds:          opts.Credentials,
		Repo:           repo,
		Branch:         branch,
		Root:           workdir,
		ForceOverwrite: false,
	})
	if err != nil {
		return err
	}

	emit.Progress(1, fmt.Sprintf(
		"Upload completed: %d files uploaded, %d errors",
		outcome.Succeeded, outcome.Failed,
	))
	return nil
}

func (it *SyncCommand) validate(ctx context.Context, opts SyncOptions) error {
	if opts.ServerURL == "" || opts.Credentials.Username == "" {
		return errors.New("server URL and username are required")
	}
	if opts.Credentials.Secret == "" {
		return errors.New("provide a password or personal access token")
	}
	if opts.Path == "" {
		return errors.New("select a project folder or .zip")
	}
	if _, err := os.Stat(opts.Path); err != nil {
		return fmt.Errorf("selected path does not exist: %w", err)
	}
	if opts.Mode == entities.ModePush && !it.local.IsAvailable(ctx) {
		return errors.New("git is not installed or not on PATH")
	}
	return nil
}

// resolveWorkdir extracts ZIP inputs into a scoped temporary directory and
// returns the working tree plus the cleanup root (empty when none).
func (it *SyncCommand) resolveWorkdir(
	ctx context.Context,
	emit *Emitter,
	opts SyncOptions,
) (string, string, error) {
	info, err := os.Stat(opts.Path)
	if err != nil {
		return "", "", err
	}

	if info.IsDir() || !opts.ExtractZip || !isZipPath(opts.Path) {
		return opts.Path, "", nil
	}

	emit.Log("Extracting ZIP file...")
	workdir, cleanup, err := it.archive.ExtractToTemp(
		ctx, opts.Path,
		func(fraction float64, name string) {
			emit.Progress(0.1+fraction*0.1, fmt.Sprintf("Extracting %s", name))
		},
	)
	if err != nil {
		return "", "", err
	}

	emit.Progress(0.2, "ZIP extraction complete")
	return workdir, cleanup, nil
}

var invalidRepoNameChars = regexp.MustCompile(`[^\w\-.]`)

// resolveRepositoryName falls back to the archive or directory basename when
// no name was given, sanitized to the characters Gitea accepts.
func resolveRepositoryName(opts SyncOptions, workdir string) string {
	if opts.RepoName != "" {
		return opts.RepoName
	}

	var base string
	if isZipPath(opts.Path) {
		base = strings.TrimSuffix(filepath.Base(opts.Path), filepath.Ext(opts.Path))
	} else {
		base = filepath.Base(filepath.Clean(workdir))
	}

	name := invalidRepoNameChars.ReplaceAllString(base, "-")
	if name == "" || name == "." {
		return "new-repo"
	}
	return name
}

func isZipPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".zip")
}

// parseSlug splits an "owner/name" identifier.
func parseSlug(slug string) (entities.Repository, error) {
	owner, name, ok := strings.Cut(slug, "/")
	if !ok || owner == "" || name == "" {
		return entities.Repository{}, fmt.Errorf("malformed repository slug: %q", slug)
	}
	return entities.Repository{Owner: owner, Name: name}, nil
}
