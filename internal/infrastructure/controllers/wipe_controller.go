package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/giteasync/internal/domain/commands"
	"github.com/rios0rios0/giteasync/internal/domain/entities"
)

// WipeController handles the "wipe" subcommand: empty a remote branch while
// keeping its history.
type WipeController struct {
	command commands.Wipe
}

// NewWipeController creates a new WipeController.
func NewWipeController(command commands.Wipe) *WipeController {
	return &WipeController{command: command}
}

// GetBind returns the Cobra command metadata for the wipe controller.
func (it *WipeController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "wipe <owner/repo>",
		Short: "Remove every file from a remote branch, preserving history",
		Long: `Shallow-clone the branch, delete every tracked file, commit the
deletions, and push the result back. The branch history is kept; only
its tip becomes empty. A branch that is already empty is left alone.`,
	}
}

// Execute runs the branch wipe.
func (it *WipeController) Execute(cmd *cobra.Command, args []string) {
	conn, err := resolveConnection(cmd)
	if err != nil {
		logger.Error(err)
		return
	}

	if len(args) == 0 {
		logger.Error("a repository argument is required (owner/name)")
		return
	}
	repo, err := parseRepoArg(args[0])
	if err != nil {
		logger.Error(err)
		return
	}

	branch, _ := cmd.Flags().GetString("branch")
	if branch == "" {
		branch = conn.DefaultBranch
	}

	handle := it.command.Start(context.Background(), commands.WipeOptions{
		ServerURL:   conn.ServerURL,
		Credentials: conn.Credentials,
		Repo:        repo,
		Branch:      branch,
	})
	if waitErr := handle.Wait(renderEvent); waitErr != nil {
		logger.Errorf("Wipe failed: %v", waitErr)
	}
}

// AddFlags adds the wipe-specific flags to the given Cobra command.
func (it *WipeController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("branch", "", "Branch to empty (default: from config file, then main)")
}
