package repositories

import (
	"go.uber.org/dig"

	domain "github.com/rios0rios0/giteasync/internal/domain/repositories"
	"github.com/rios0rios0/giteasync/internal/infrastructure/repositories/archive"
	"github.com/rios0rios0/giteasync/internal/infrastructure/repositories/git"
	"github.com/rios0rios0/giteasync/internal/infrastructure/repositories/gitea"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// The remote client depends on runtime inputs (server URL, TLS policy),
	// so a factory is provided instead of a configured instance.
	if err := container.Provide(func() domain.RemoteRepositoryFactory {
		return gitea.NewRemoteRepository
	}); err != nil {
		return err
	}

	if err := container.Provide(git.NewGitLocalRepository); err != nil {
		return err
	}
	if err := container.Provide(archive.NewZipArchiveRepository); err != nil {
		return err
	}

	return nil
}
