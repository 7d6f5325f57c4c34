package node

import (
	"fmt"

	"github.com/spf13/cobra"

	"cloudlift/nodectl/cmd/cmdutil"
	"cloudlift/nodectl/internal/domain"
	"cloudlift/nodectl/internal/lifecycle"
	"cloudlift/nodectl/internal/output"
)

// WaitCommand returns the "node wait" command.
func WaitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wait <name>",
		Short: "Wait for a node to reach running state",
		Long: `Poll a node until it reports the running state or the timeout budget
is spent. When the budget runs out the last observed node is printed
as-is, so the state column shows how far the node got.

Examples:
  nodectl node wait web-1
  nodectl node wait web-1 --timeout 2m -o json`,
		Args:         cobra.ExactArgs(1),
		RunE:         runWait,
		SilenceUsage: true,
	}

	cmd.Flags().Duration("timeout", lifecycle.DefaultWaitTimeout, "How long to wait before giving up")
	cmd.Flags().Duration("poll-period", lifecycle.DefaultPollPeriod, "Delay between node state polls")

	return cmd
}

func runWait(cmd *cobra.Command, args []string) error {
	opts, err := cmdutil.Options(cmd)
	if err != nil {
		return err
	}
	format, err := cmdutil.Format(opts)
	if err != nil {
		return err
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	pollPeriod, _ := cmd.Flags().GetDuration("poll-period")

	orch, err := cmdutil.Connect(cmd, opts, lifecycle.WithPollPeriod(pollPeriod))
	if err != nil {
		return err
	}

	node, err := orch.WaitForRunningNode(cmd.Context(), args[0], timeout)
	if err != nil {
		return err
	}

	rec := output.Record{Data: []output.Item{output.NodeItem(*node)}}
	if node.State != domain.StateRunning {
		rec.Message = fmt.Sprintf("node %q is still %s after %s", node.Name, node.State, timeout)
	}
	return output.Render(cmd.OutOrStdout(), format, rec)
}
