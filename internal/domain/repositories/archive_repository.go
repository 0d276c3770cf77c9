package repositories

import "context"

// ExtractProgress reports fractional extraction progress for one entry.
type ExtractProgress func(fraction float64, name string)

// ArchiveRepository turns an archive file into a working tree rooted in a
// scoped temporary directory.
type ArchiveRepository interface {
	// ExtractToTemp unpacks the archive and returns the working directory
	// plus a cleanup root that the caller must remove when done. When the
	// archive holds a single top-level folder, that folder becomes the
	// working directory.
	ExtractToTemp(
		ctx context.Context,
		archivePath string,
		progress ExtractProgress,
	) (workdir string, cleanupRoot string, err error)
}
