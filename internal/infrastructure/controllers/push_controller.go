package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/giteasync/internal/domain/commands"
	"github.com/rios0rios0/giteasync/internal/domain/entities"
)

// PushController handles the "push" subcommand: sync a working tree through
// the git push transport, falling back to the contents API when the push is
// rejected for network or history reasons.
type PushController struct {
	command commands.Sync
}

// NewPushController creates a new PushController.
func NewPushController(command commands.Sync) *PushController {
	return &PushController{command: command}
}

// GetBind returns the Cobra command metadata for the push controller.
func (it *PushController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "push [path]",
		Short: "Sync a folder or .zip to a Gitea repository via git push",
		Long: `Create (or reuse) a remote repository and push the given working tree
to it. Large or flaky transfers are retried with smaller packs, diverged
histories are merged preferring local content, and when the push still
fails for network or history reasons the files are uploaded one by one
through the contents API instead.`,
	}
}

// Execute runs the push-mode sync.
func (it *PushController) Execute(cmd *cobra.Command, args []string) {
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
	opts.Mode = entities.ModePush

	handle := it.command.Start(context.Background(), opts)
	if waitErr := handle.Wait(renderEvent); waitErr != nil {
		logger.Errorf("Sync failed: %v", waitErr)
	}
}

// AddFlags adds the push-specific flags to the given Cobra command.
func (it *PushController) AddFlags(cmd *cobra.Command) {
	addSyncFlags(cmd)
}

// syncOptionsFromFlags reads the flags shared by push and upload.
func syncOptionsFromFlags(cmd *cobra.Command, conn connection, path string) commands.SyncOptions {
	repoName, _ := cmd.Flags().GetString("repo")
	org, _ := cmd.Flags().GetString("org")
	branch, _ := cmd.Flags().GetString("branch")
	newBranch, _ := cmd.Flags().GetString("new-branch")
	private, _ := cmd.Flags().GetBool("private")
	extractZip, _ := cmd.Flags().GetBool("extract-zip")

	if branch == "" {
		branch = conn.DefaultBranch
	}

	return commands.SyncOptions{
		Path:               path,
		ServerURL:          conn.ServerURL,
		Credentials:        conn.Credentials,
		OwnerOrOrg:         org,
		RepoName:           repoName,
		Branch:             branch,
		NewBranch:          newBranch,
		Private:            private,
		InsecureSkipVerify: conn.InsecureSkipVerify,
		ExtractZip:         extractZip,
	}
}

// addSyncFlags registers the flags shared by push and upload.
func addSyncFlags(cmd *cobra.Command) {
	cmd.Flags().String("repo", "", "Repository name (default: folder or archive basename)")
	cmd.Flags().String("org", "", "Create the repository under this organization")
	cmd.Flags().String("branch", "", "Target branch (default: from config file, then main)")
	cmd.Flags().String("new-branch", "", "Create and sync to this new branch")
	cmd.Flags().Bool("private", false, "Create the repository as private")
	cmd.Flags().Bool("extract-zip", false, "Treat the path as a .zip archive and extract it first")
}
