package commands

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register command constructors
	if err := container.Provide(NewSyncCommand); err != nil {
		return err
	}
	if err := container.Provide(NewWipeCommand); err != nil {
		return err
	}
	if err := container.Provide(NewManageCommand); err != nil {
		return err
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *SyncCommand) Sync {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *WipeCommand) Wipe {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *ManageCommand) Manage {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
