package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

const extractedDirPerm = 0o755

// ZipArchiveRepository unpacks .zip inputs into scoped temporary
// directories so zipped projects sync exactly like plain folders.
type ZipArchiveRepository struct{}

// NewZipArchiveRepository creates a new ZipArchiveRepository.
func NewZipArchiveRepository() repositories.ArchiveRepository {
	return &ZipArchiveRepository{}
}

// ExtractToTemp unpacks the archive into a fresh temporary directory. When
// the archive wraps everything in a single top-level folder, that folder is
// returned as the working directory; macOS resource-fork folders are
// ignored. The caller removes cleanupRoot when done.
func (it *ZipArchiveRepository) ExtractToTemp(
	ctx context.Context,
	archivePath string,
	progress repositories.ExtractProgress,
) (string, string, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", "", fmt.Errorf("opening archive: %w", err)
	}
	defer reader.Close()

	root, err := os.MkdirTemp("", "giteasync-zip-")
	if err != nil {
		return "", "", fmt.Errorf("creating temporary directory: %w", err)
	}

	total := len(reader.File)
	for i, file := range reader.File {
		if ctx.Err() != nil {
			os.RemoveAll(root)
			return "", "", ctx.Err()
		}
		if extractErr := it.extractEntry(root, file); extractErr != nil {
			os.RemoveAll(root)
			return "", "", extractErr
		}
		if progress != nil && total > 0 {
			progress(float64(i+1)/float64(total), file.Name)
		}
	}

	workdir, err := resolveWorkdir(root)
	if err != nil {
		os.RemoveAll(root)
		return "", "", err
	}
	return workdir, root, nil
}

func (it *ZipArchiveRepository) extractEntry(root string, file *zip.File) error {
	target, err := securePath(root, file.Name)
	if err != nil {
		return err
	}

	if file.FileInfo().IsDir() {
		return os.MkdirAll(target, extractedDirPerm)
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(target), extractedDirPerm); mkdirErr != nil {
		return fmt.Errorf("creating directory for %s: %w", file.Name, mkdirErr)
	}

	source, err := file.Open()
	if err != nil {
		return fmt.Errorf("opening archive entry %s: %w", file.Name, err)
	}
	defer source.Close()

	destination, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.Mode())
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	defer destination.Close()

	if _, copyErr := io.Copy(destination, source); copyErr != nil {
		return fmt.Errorf("extracting %s: %w", file.Name, copyErr)
	}
	return nil
}

// securePath joins an archive entry name under root and rejects entries
// that would escape it.
func securePath(root, name string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(name))
	if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry %q escapes extraction root", name)
	}
	return target, nil
}

// resolveWorkdir returns the single top-level folder when the archive has
// one, otherwise the extraction root itself.
func resolveWorkdir(root string) (string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", fmt.Errorf("reading extraction root: %w", err)
	}

	relevant := make([]os.DirEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Name() == "__MACOSX" {
			continue
		}
		relevant = append(relevant, entry)
	}

	if len(relevant) == 1 && relevant[0].IsDir() {
		return filepath.Join(root, relevant[0].Name()), nil
	}
	return root, nil
}
