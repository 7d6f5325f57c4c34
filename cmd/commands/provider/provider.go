package provider

import (
	"github.com/spf13/cobra"
)

// NewCommand returns the "provider" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provider",
		Short: "Inspect registered providers",
		Long:  `Show which cloud provider drivers this build of nodectl supports.`,
	}

	cmd.AddCommand(ListCommand())

	return cmd
}
