package node

import (
	"fmt"

	"github.com/spf13/cobra"

	"cloudlift/nodectl/cmd/cmdutil"
	"cloudlift/nodectl/internal/output"
)

// ListCommand returns the "node list" command.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all nodes",
		Long: `List every node visible to the provider account.

Examples:
  nodectl node list --provider hetzner
  nodectl node list -o json`,
		Args:         cobra.ExactArgs(0),
		RunE:         runList,
		SilenceUsage: true,
	}

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	opts, err := cmdutil.Options(cmd)
	if err != nil {
		return err
	}
	format, err := cmdutil.Format(opts)
	if err != nil {
		return err
	}

	orch, err := cmdutil.Connect(cmd, opts)
	if err != nil {
		return err
	}

	nodes, err := orch.ListNodes(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list nodes: %w", err)
	}

	if len(nodes) == 0 {
		return output.Render(cmd.OutOrStdout(), format, output.MessageRecord("no nodes found"))
	}
	return output.Render(cmd.OutOrStdout(), format, output.Record{Data: output.NodeItems(nodes)})
}
