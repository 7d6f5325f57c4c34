package size

import (
	"github.com/spf13/cobra"
)

// NewCommand returns the "size" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "size",
		Short: "Inspect provider size catalogs",
		Long:  `List and look up the node sizes a provider offers.`,
	}

	cmd.AddCommand(FindCommand())
	cmd.AddCommand(ListCommand())

	return cmd
}
