package image

import (
	"github.com/spf13/cobra"
)

// NewCommand returns the "image" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Inspect provider image catalogs",
		Long:  `List and look up the machine images a provider offers.`,
	}

	cmd.AddCommand(FindCommand())
	cmd.AddCommand(ListCommand())

	return cmd
}
