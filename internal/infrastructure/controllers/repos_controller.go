package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/giteasync/internal/domain/commands"
	"github.com/rios0rios0/giteasync/internal/domain/entities"
)

// ReposController handles the "repos" subcommand: list or search the user's
// repositories on the server.
type ReposController struct {
	command commands.Manage
}

// NewReposController creates a new ReposController.
func NewReposController(command commands.Manage) *ReposController {
	return &ReposController{command: command}
}

// GetBind returns the Cobra command metadata for the repos controller.
func (it *ReposController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "repos [query]",
		Short: "List or search your repositories on the server",
		Long: `List every repository owned by the authenticated user, or only those
whose name matches the given query.`,
	}
}

// Execute lists the matching repositories.
func (it *ReposController) Execute(cmd *cobra.Command, args []string) {
	conn, err := resolveConnection(cmd)
	if err != nil {
		logger.Error(err)
		return
	}

	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	repos, err := it.command.SearchRepositories(
		context.Background(),
		commands.ManageOptions{
			ServerURL:          conn.ServerURL,
			Credentials:        conn.Credentials,
			InsecureSkipVerify: conn.InsecureSkipVerify,
		},
		query,
	)
	if err != nil {
		logger.Errorf("Listing repositories failed: %v", err)
		return
	}

	if len(repos) == 0 {
		logger.Info("No repositories found")
		return
	}
	for _, repo := range repos {
		logger.Info(repo.Slug())
	}
}
