//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

// StubArchiveRepository implements repositories.ArchiveRepository with a
// fixed extraction result.
type StubArchiveRepository struct {
	Workdir     string
	CleanupRoot string
	ExtractErr  error

	ExtractedArchives []string
}

var _ repositories.ArchiveRepository = (*StubArchiveRepository)(nil)

func (s *StubArchiveRepository) ExtractToTemp(
	_ context.Context,
	archivePath string,
	progress repositories.ExtractProgress,
) (string, string, error) {
	s.ExtractedArchives = append(s.ExtractedArchives, archivePath)
	if s.ExtractErr != nil {
		return "", "", s.ExtractErr
	}
	if progress != nil {
		progress(1, archivePath)
	}
	return s.Workdir, s.CleanupRoot, nil
}
