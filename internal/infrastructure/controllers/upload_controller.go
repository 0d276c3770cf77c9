package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/giteasync/internal/domain/commands"
	"github.com/rios0rios0/giteasync/internal/domain/entities"
)

// UploadController handles the "upload" subcommand: sync a working tree
// file by file through the contents API, without requiring git locally.
type UploadController struct {
	command commands.Sync
}

// NewUploadController creates a new UploadController.
func NewUploadController(command commands.Sync) *UploadController {
	return &UploadController{command: command}
}

// GetBind returns the Cobra command metadata for the upload controller.
func (it *UploadController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "upload [path]",
		Short: "Sync a folder or .zip to a Gitea repository via the contents API",
		Long: `Create (or reuse) a remote repository and upload the given working
tree one file at a time through the contents API. Works without a git
installation. Existing remote files are updated in place; files that
fail to upload are reported at the end without aborting the rest.`,
	}
}

// Execute runs the contents-API sync.
func (it *UploadController) Execute(cmd *cobra.Command, args []string) {
	conn, err := resolveConnection(cmd)
	if err != nil {
		logger.Error(err)
		return
	}

	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	opts := syncOptionsFromFlags(cmd, conn, path)
	opts.Mode = entities.ModeContentAPI

	handle := it.command.Start(context.Background(), opts)
	if waitErr := handle.Wait(renderEvent); waitErr != nil {
		logger.Errorf("Upload failed: %v", waitErr)
	}
}

// AddFlags adds the upload-specific flags to the given Cobra command.
func (it *UploadController) AddFlags(cmd *cobra.Command) {
	addSyncFlags(cmd)
}
