package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

// uploadState names the stations of the per-file conflict cascade.
type uploadState int

const (
	// uploadAttempt is the initial put, as update or create depending on
	// whether the probe found an existing file.
	uploadAttempt uploadState = iota
	// uploadRefreshRetry re-fetches the current revision token and retries
	// the update once with the fresh value.
	uploadRefreshRetry
	// uploadRecreate deletes the remote file with the fresh token and
	// recreates it without one. This guarantees eventual success against
	// pure token staleness, at the cost of an extra history entry.
	uploadRecreate
	// uploadSucceeded and uploadFailed are terminal.
	uploadSucceeded
	uploadFailed
)

// UploadInput describes one contents-API sync run.
type UploadInput struct {
	Creds  entities.Credentials
	Repo   entities.Repository
	Branch string
	// Root is the working tree to upload.
	Root string
	// ForceOverwrite marks the overwrite semantics used during push
	// fallback; existing files are updated with their current token either
	// way, the flag only changes the reporting.
	ForceOverwrite bool
}

// ContentStrategy reconciles a working tree file by file through the
// contents API, with optimistic-concurrency conflict handling per file.
type ContentStrategy struct {
	remote repositories.RemoteRepository
}

// NewContentStrategy creates a content strategy over the given API client.
func NewContentStrategy(remote repositories.RemoteRepository) *ContentStrategy {
	return &ContentStrategy{remote: remote}
}

// UploadDirectory uploads every regular file under the root sequentially,
// excluding version-control metadata and hidden files. A single file's
// failure never aborts the run; the outcome aggregates both counts.
func (it *ContentStrategy) UploadDirectory(
	ctx context.Context,
	emit *Emitter,
	in UploadInput,
) (entities.SyncOutcome, error) {
	files, err := collectWorkingTreeFiles(in.Root)
	if err != nil {
		return entities.SyncOutcome{}, fmt.Errorf("enumerating working tree: %w", err)
	}

	emit.Logf("Found %d files to upload", len(files))

	var outcome entities.SyncOutcome
	total := float64(len(files))

	for i, relPath := range files {
		base := float64(i) / total
		emit.Progress(base, fmt.Sprintf("Processing %d/%d: %s", i+1, len(files), relPath))

		fileProgress := func(fraction float64, message string) {
			emit.Progress(base+fraction/total, message)
		}

		if it.UploadFile(ctx, emit, in, relPath, fileProgress) {
			outcome.Succeeded++
		} else {
			outcome.Failed++
		}
	}

	emit.Progress(1, fmt.Sprintf(
		"Upload complete: %d succeeded, %d failed",
		outcome.Succeeded, outcome.Failed,
	))

	return outcome, nil
}

// UploadFile uploads a single file, walking the conflict cascade until a
// terminal state. It reports success as a boolean; the cascade's own events
// carry the error detail.
func (it *ContentStrategy) UploadFile(
	ctx context.Context,
	emit *Emitter,
	in UploadInput,
	relPath string,
	progress func(fraction float64, message string),
) bool {
	progress(0, fmt.Sprintf("Checking if %s exists...", relPath))

	update, sha := it.probeExisting(ctx, emit, in, relPath)

	progress(0.2, fmt.Sprintf("Reading %s...", relPath))

	content, err := os.ReadFile(filepath.Join(in.Root, filepath.FromSlash(relPath)))
	if err != nil {
		emit.Logf("ERROR: reading %s: %v", relPath, err)
		return false
	}

	progress(0.6, fmt.Sprintf("Uploading %s...", relPath))

	message := "Add " + relPath
	if update {
		message = "Update " + relPath
	}

	state := uploadAttempt
	var lastErr error
	freshSHA := ""

	for {
		switch state {
		case uploadAttempt:
			lastErr = it.remote.PutContents(
				ctx, in.Creds, in.Repo, relPath, in.Branch, content, message, sha,
			)
			if lastErr == nil {
				state = uploadSucceeded
			} else if isStaleTokenError(lastErr) {
				emit.Logf("Revision token error for %s, refreshing and retrying...", relPath)
				state = uploadRefreshRetry
			} else {
				state = uploadFailed
			}

		case uploadRefreshRetry:
			entry, _, probeErr := it.remote.GetContents(
				ctx, in.Creds, in.Repo, relPath, in.Branch,
			)
			if probeErr != nil || entry == nil {
				// No fresh token available: the file may be gone, try a
				// plain create.
				emit.Logf("Could not refresh token for %s, trying create as new file...", relPath)
				lastErr = it.remote.PutContents(
					ctx, in.Creds, in.Repo, relPath, in.Branch,
					content, "Add "+relPath, "",
				)
				state = terminalUploadState(lastErr)
				continue
			}

			freshSHA = entry.SHA
			lastErr = it.remote.PutContents(
				ctx, in.Creds, in.Repo, relPath, in.Branch,
				content, "Update "+relPath, freshSHA,
			)
			if lastErr == nil {
				emit.Logf("Fresh token retry succeeded for %s", relPath)
				state = uploadSucceeded
			} else {
				emit.Logf("Fresh token retry failed for %s, trying delete+create...", relPath)
				state = uploadRecreate
			}

		case uploadRecreate:
			if delErr := it.remote.DeleteContents(
				ctx, in.Creds, in.Repo, relPath, in.Branch,
				"Remove "+relPath+" for overwrite", freshSHA,
			); delErr != nil {
				emit.Logf("Delete also failed for %s: %v", relPath, delErr)
				lastErr = delErr
				state = uploadFailed
				continue
			}
			lastErr = it.remote.PutContents(
				ctx, in.Creds, in.Repo, relPath, in.Branch,
				content, "Add "+relPath+" (recreated)", "",
			)
			state = terminalUploadState(lastErr)

		case uploadSucceeded:
			progress(1, fmt.Sprintf("Completed %s", relPath))
			if update {
				emit.Logf("Updated %s successfully", relPath)
			} else {
				emit.Logf("Added %s successfully", relPath)
			}
			return true

		case uploadFailed:
			progress(1, fmt.Sprintf("Failed %s", relPath))
			emit.Logf("Failed to upload %s: %v", relPath, lastErr)
			return false
		}
	}
}

// probeExisting resolves whether the target path already holds a file and,
// if so, its current revision token. A directory hit or a missing path means
// create; an unreadable probe is treated as create too, per the original
// behavior of assuming a new file when existence cannot be determined.
func (it *ContentStrategy) probeExisting(
	ctx context.Context,
	emit *Emitter,
	in UploadInput,
	relPath string,
) (update bool, sha string) {
	entry, _, err := it.remote.GetContents(ctx, in.Creds, in.Repo, relPath, in.Branch)
	switch {
	case err == nil && entry != nil:
		if in.ForceOverwrite {
			emit.Logf("Force overwrite: %s (updating with current token)", relPath)
		}
		return true, entry.SHA
	case err == nil || entities.IsNotFoundError(err):
		return false, ""
	default:
		emit.Logf("Could not check if %s exists, assuming new file", relPath)
		return false, ""
	}
}

// terminalUploadState maps a final put result onto a terminal state.
func terminalUploadState(err error) uploadState {
	if err == nil {
		return uploadSucceeded
	}
	return uploadFailed
}

// isStaleTokenError reports whether a put failure is a stale, missing, or
// mismatched revision-token rejection. Gitea phrasings vary across versions,
// so both the conflict class and known body fragments are matched.
func isStaleTokenError(err error) bool {
	if entities.IsConflictError(err) {
		return true
	}

	var remoteErr *entities.RemoteError
	if !errors.As(err, &remoteErr) {
		return false
	}

	body := strings.ToLower(remoteErr.Body)
	return (strings.Contains(body, "sha") && strings.Contains(body, "required")) ||
		strings.Contains(body, "[sha]") ||
		strings.Contains(body, "sha mismatch") ||
		strings.Contains(body, "object does not exist")
}

// collectWorkingTreeFiles enumerates the regular files under root as
// forward-slash relative paths, in stable lexical order. Version-control
// metadata directories and hidden files are excluded.
func collectWorkingTreeFiles(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		name := d.Name()
		if d.IsDir() {
			if path != root && strings.HasPrefix(name, ".git") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}
