package controllers

import (
	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"go.uber.org/dig"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	if err := container.Provide(NewPushController); err != nil {
		return err
	}
	if err := container.Provide(NewUploadController); err != nil {
		return err
	}
	if err := container.Provide(NewWipeController); err != nil {
		return err
	}
	if err := container.Provide(NewReposController); err != nil {
		return err
	}
	if err := container.Provide(NewBranchesController); err != nil {
		return err
	}
	if err := container.Provide(NewControllers); err != nil {
		return err
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	pushController *PushController,
	uploadController *UploadController,
	wipeController *WipeController,
	reposController *ReposController,
	branchesController *BranchesController,
) *[]entities.Controller {
	return &[]entities.Controller{
		pushController,
		uploadController,
		wipeController,
		reposController,
		branchesController,
	}
}
