package provider

import (
	"fmt"

	"github.com/spf13/cobra"

	"cloudlift/nodectl/internal/providers"
)

// ListCommand returns the "provider list" command.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered providers",
		Long: `List the provider names accepted by --provider, one per line.

Examples:
  nodectl provider list`,
		Args:         cobra.ExactArgs(0),
		RunE:         runList,
		SilenceUsage: true,
	}

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	for _, name := range providers.List() {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
