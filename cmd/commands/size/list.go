package size

import (
	"fmt"

	"github.com/spf13/cobra"

	"cloudlift/nodectl/cmd/cmdutil"
	"cloudlift/nodectl/internal/output"
)

// ListCommand returns the "size list" command.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available sizes",
		Long: `List every node size the provider offers.

Examples:
  nodectl size list --provider hetzner
  nodectl size list -o json`,
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

	sizes, err := orch.ListSizes(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list sizes: %w", err)
	}

	if len(sizes) == 0 {
		return output.Render(cmd.OutOrStdout(), format, output.MessageRecord("no sizes found"))
	}
	return output.Render(cmd.OutOrStdout(), format, output.Record{Data: output.SizeItems(sizes)})
}
