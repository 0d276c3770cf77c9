package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
	logger "github.com/sirupsen/logrus"
)

// GitLocalRepository drives a git executable found on PATH. The engine
// deliberately shells out instead of embedding a git implementation so that
// transport behavior, credential helpers, and pack tuning match what the
// user's git does.
type GitLocalRepository struct{}

// NewGitLocalRepository creates a new GitLocalRepository.
func NewGitLocalRepository() repositories.LocalRepository {
	return &GitLocalRepository{}
}

// run executes one git invocation in dir, returning the combined output.
// Non-zero exits come back as *entities.CommandError.
func (it *GitLocalRepository) run(ctx context.Context, dir string, args ...string) (string, error) {
	logger.Debugf("running: git %s", strings.Join(redactArgs(args), " "))

	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}

	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), &entities.CommandError{
			Name:   "git",
			Args:   redactArgs(args),
			Dir:    dir,
			Output: string(out),
			Err:    err,
		}
	}
	return string(out), nil
}

// redactArgs strips userinfo from any URL-shaped argument so credentials
// never reach logs or error messages.
func redactArgs(args []string) []string {
	redacted := make([]string, len(args))
	for i, arg := range args {
		redacted[i] = redactURL(arg)
	}
	return redacted
}

func redactURL(arg string) string {
	schemeEnd := strings.Index(arg, "://")
	if schemeEnd < 0 {
		return arg
	}
	at := strings.Index(arg[schemeEnd+3:], "@")
	if at < 0 {
		return arg
	}
	return arg[:schemeEnd+3] + "***" + arg[schemeEnd+3+at:]
}

// IsAvailable reports whether git is installed and on PATH.
func (it *GitLocalRepository) IsAvailable(ctx context.Context) bool {
	_, err := it.run(ctx, "", "--version")
	return err == nil
}

// EnsureRepository initializes a repository at path if none exists,
// configures the commit identity, and guarantees a branch with at least one
// commit. The returned branch name is whatever HEAD resolves to afterwards.
func (it *GitLocalRepository) EnsureRepository(
	ctx context.Context,
	path, branch string,
	identity entities.Identity,
) (string, error) {
	if _, err := os.Stat(filepath.Join(path, ".git")); err != nil {
		logger.Infof("initializing repository in %s", path)
		if _, initErr := it.run(ctx, path, "init"); initErr != nil {
			return "", fmt.Errorf("git init failed: %w", initErr)
		}
	}

	it.SetLocalIdentity(ctx, path, identity)

	current := it.currentBranch(ctx, path)
	if current == "" || strings.EqualFold(current, "HEAD") {
		if _, err := it.run(ctx, path, "checkout", "-B", branch); err != nil {
			return "", fmt.Errorf("creating branch %s: %w", branch, err)
		}
	}

	// A branch without commits cannot be pushed; seed one if HEAD is unborn.
	if _, err := it.run(ctx, path, "rev-parse", "HEAD"); err != nil {
		if _, addErr := it.run(ctx, path, "add", "."); addErr != nil {
			return "", fmt.Errorf("staging initial files: %w", addErr)
		}
		if _, commitErr := it.run(ctx, path, "commit", "-m", "Initial commit"); commitErr != nil {
			return "", fmt.Errorf("creating initial commit: %w", commitErr)
		}
	}

	if resolved := it.currentBranch(ctx, path); resolved != "" {
		return resolved, nil
	}
	return branch, nil
}

func (it *GitLocalRepository) currentBranch(ctx context.Context, path string) string {
	out, err := it.run(ctx, path, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// CreateBranch branches off HEAD and checks the new branch out, failing
// when the name already exists locally.
func (it *GitLocalRepository) CreateBranch(ctx context.Context, path, name string) (string, error) {
	if _, err := it.run(ctx, path, "show-ref", "--verify", "--quiet", "refs/heads/"+name); err == nil {
		return "", fmt.Errorf("branch %q already exists", name)
	}
	if _, err := it.run(ctx, path, "checkout", "-b", name); err != nil {
		return "", fmt.Errorf("creating branch %s: %w", name, err)
	}
	return name, nil
}

// CommitAll stages everything and commits. A clean tree makes the commit a
// no-op, which is fine.
func (it *GitLocalRepository) CommitAll(ctx context.Context, path, message string) {
	if _, err := it.run(ctx, path, "add", "."); err != nil {
		logger.Debugf("git add reported: %v", err)
	}
	if _, err := it.run(ctx, path, "commit", "-m", message); err != nil {
		logger.Debugf("nothing to commit: %v", err)
	}
}

// Checkout switches to branch, creating or resetting it.
func (it *GitLocalRepository) Checkout(ctx context.Context, path, branch string) error {
	_, err := it.run(ctx, path, "checkout", "-B", branch)
	return err
}

// ConfigureTransport raises the HTTP buffers and timeouts so large payloads
// survive slow links.
func (it *GitLocalRepository) ConfigureTransport(ctx context.Context, path string) {
	it.setConfig(ctx, path, "http.postBuffer", "524288000")
	it.setConfig(ctx, path, "http.lowSpeedLimit", "1000")
	it.setConfig(ctx, path, "http.lowSpeedTime", "300")
}

// ShrinkPack lowers pack sizes so a retry sends many small packs instead of
// one large one.
func (it *GitLocalRepository) ShrinkPack(ctx context.Context, path string) {
	it.setConfig(ctx, path, "pack.windowMemory", "10m")
	it.setConfig(ctx, path, "pack.packSizeLimit", "20m")
}

func (it *GitLocalRepository) setConfig(ctx context.Context, path, key, value string) {
	if _, err := it.run(ctx, path, "config", "--local", key, value); err != nil {
		logger.Debugf("setting %s: %v", key, err)
	}
}

// Push pushes HEAD onto branch at pushURL, setting the upstream ref.
func (it *GitLocalRepository) Push(ctx context.Context, path, pushURL, branch string) error {
	_, err := it.run(ctx, path, "push", "--set-upstream", pushURL, "HEAD:"+branch)
	return err
}

// AddRemote registers a named remote.
func (it *GitLocalRepository) AddRemote(ctx context.Context, path, name, remoteURL string) error {
	_, err := it.run(ctx, path, "remote", "add", name, remoteURL)
	return err
}

// RemoveRemote deletes a named remote; an unknown name is not an error.
func (it *GitLocalRepository) RemoveRemote(ctx context.Context, path, name string) {
	if _, err := it.run(ctx, path, "remote", "remove", name); err != nil {
		logger.Debugf("removing remote %s: %v", name, err)
	}
}

// Fetch fetches a single branch from the named remote.
func (it *GitLocalRepository) Fetch(ctx context.Context, path, remote, branch string) error {
	_, err := it.run(ctx, path, "fetch", remote, branch)
	return err
}

// MergePreferLocal merges ref, allowing unrelated histories and resolving
// conflicts in favor of the local side.
func (it *GitLocalRepository) MergePreferLocal(ctx context.Context, path, ref string) error {
	_, err := it.run(
		ctx, path,
		"merge", "--no-edit", "--allow-unrelated-histories", "-X", "ours", ref,
	)
	return err
}

// CloneShallow clones a single branch at depth 1 into dir.
func (it *GitLocalRepository) CloneShallow(ctx context.Context, remoteURL, branch, dir string) error {
	_, err := it.run(
		ctx, dir,
		"clone", "--single-branch", "--branch", branch, "--depth", "1", remoteURL, ".",
	)
	return err
}

// SetLocalIdentity configures user.name/user.email for this clone only.
func (it *GitLocalRepository) SetLocalIdentity(ctx context.Context, path string, identity entities.Identity) {
	it.setConfig(ctx, path, "user.name", identity.Name)
	it.setConfig(ctx, path, "user.email", identity.Email)
}

// RemoveAllTracked deletes every tracked file; an empty tree is fine.
func (it *GitLocalRepository) RemoveAllTracked(ctx context.Context, path string) {
	if _, err := it.run(ctx, path, "rm", "-r", "-f", "."); err != nil {
		logger.Debugf("no tracked files to remove: %v", err)
	}
}

// Status returns the porcelain status output; empty means clean.
func (it *GitLocalRepository) Status(ctx context.Context, path string) (string, error) {
	return it.run(ctx, path, "status", "--porcelain")
}

// Commit records staged changes with the given message.
func (it *GitLocalRepository) Commit(ctx context.Context, path, message string) error {
	_, err := it.run(ctx, path, "commit", "-m", message)
	return err
}
