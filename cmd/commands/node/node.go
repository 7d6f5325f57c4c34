package node

import (
	"github.com/spf13/cobra"
)

// NewCommand returns the "node" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage compute nodes across cloud providers",
		Long:  `Create, find, list, wait on, and destroy compute nodes on your configured cloud providers.`,
	}

	cmd.AddCommand(CreateCommand())
	cmd.AddCommand(DestroyCommand())
	cmd.AddCommand(FindCommand())
	cmd.AddCommand(ListCommand())
	cmd.AddCommand(WaitCommand())

	return cmd
}
