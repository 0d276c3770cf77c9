package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/giteasync/internal/domain/commands"
	"github.com/rios0rios0/giteasync/internal/domain/entities"
)

// BranchesController handles the "branches" subcommand: list the branches
// of one repository.
type BranchesController struct {
	command commands.Manage
}

// NewBranchesController creates a new BranchesController.
func NewBranchesController(command commands.Manage) *BranchesController {
	return &BranchesController{command: command}
}

// GetBind returns the Cobra command metadata for the branches controller.
func (it *BranchesController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "branches <owner/repo>",
		Short: "List the branches of a repository",
	}
}

// Execute lists the repository's branches.
func (it *BranchesController) Execute(cmd *cobra.Command, args []string) {
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

	branches, err := it.command.ListBranches(
		context.Background(),
		commands.ManageOptions{
			ServerURL:          conn.ServerURL,
			Credentials:        conn.Credentials,
			InsecureSkipVerify: conn.InsecureSkipVerify,
		},
		repo,
	)
	if err != nil {
		logger.Errorf("Listing branches failed: %v", err)
		return
	}

	if len(branches) == 0 {
		logger.Info("No branches found")
		return
	}
	for _, branch := range branches {
		logger.Info(branch.Name)
	}
}
