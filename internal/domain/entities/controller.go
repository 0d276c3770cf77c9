package entities

import "github.com/spf13/cobra"

// ControllerBind holds the Cobra command metadata exposed by a controller.
type ControllerBind struct {
	Use   string
	Short string
	Long  string
}

// Controller is the contract between the CLI shell and the application:
// each controller binds one subcommand and executes it.
type Controller interface {
	GetBind() ControllerBind
	Execute(cmd *cobra.Command, args []string)
}
