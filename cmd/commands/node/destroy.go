package node

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cloudlift/nodectl/cmd/cmdutil"
	"cloudlift/nodectl/internal/lifecycle"
	"cloudlift/nodectl/internal/output"
	"cloudlift/nodectl/internal/tui"
)

// DestroyCommand returns the "node destroy" command.
func DestroyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "destroy <name>",
		Short: "Destroy a node",
		Long: `Destroy a node by name.

The node is first given a chance to finish provisioning: destroy waits
for it to reach the running state (up to --wait-timeout) and then
deletes it. A confirmation prompt is shown unless --yes is passed.

Examples:
  # Interactive confirmation
  nodectl node destroy web-1 --provider hetzner

  # Non-interactive (scripting)
  nodectl node destroy web-1 --provider hetzner --yes`,
		Args:         cobra.ExactArgs(1),
		RunE:         runDestroy,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
	cmd.Flags().Duration("wait-timeout", lifecycle.DefaultWaitTimeout, "How long to wait for the node to reach running state first")
	cmd.Flags().Duration("poll-period", lifecycle.DefaultPollPeriod, "Delay between node state polls")

	return cmd
}

func runDestroy(cmd *cobra.Command, args []string) error {
	opts, err := cmdutil.Options(cmd)
	if err != nil {
		return err
	}
	format, err := cmdutil.Format(opts)
	if err != nil {
		return err
	}

	name := args[0]
	yes, _ := cmd.Flags().GetBool("yes")
	waitTimeout, _ := cmd.Flags().GetDuration("wait-timeout")
	pollPeriod, _ := cmd.Flags().GetDuration("poll-period")

	useInteractive := !yes
	if useInteractive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("refusing to destroy node %q without confirmation (pass --yes)", name)
		}

		confirmed, err := tui.ConfirmDestroy(name)
		if err != nil {
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Node destruction cancelled.")
				return nil
			}
			return err
		}
		if !confirmed {
			fmt.Fprintln(cmd.ErrOrStderr(), "Node destruction cancelled.")
			return nil
		}
	}

	orch, err := cmdutil.Connect(cmd, opts, lifecycle.WithPollPeriod(pollPeriod))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Destroying node %q...\n", name)

	if useInteractive {
		accessible := os.Getenv("ACCESSIBLE") != ""
		var destroyErr error
		spinErr := spinner.New().
			Title(fmt.Sprintf("Destroying node %q...", name)).
			Accessible(accessible).
			Output(cmd.ErrOrStderr()).
			Action(func() {
				destroyErr = orch.DestroyNode(cmd.Context(), name, waitTimeout)
			}).
			Run()
		if spinErr != nil {
			return spinErr
		}
		err = destroyErr
	} else {
		err = orch.DestroyNode(cmd.Context(), name, waitTimeout)
	}
	if err != nil {
		return fmt.Errorf("failed to destroy node: %w", err)
	}

	return output.Render(cmd.OutOrStdout(), format, output.MessageRecord(fmt.Sprintf("node %q destroyed", name)))
}
