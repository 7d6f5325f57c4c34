package node

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cloudlift/nodectl/cmd/cmdutil"
	"cloudlift/nodectl/internal/domain"
	"cloudlift/nodectl/internal/lifecycle"
	"cloudlift/nodectl/internal/output"
	"cloudlift/nodectl/internal/tui"
	"cloudlift/nodectl/internal/tui/styles"
	"cloudlift/nodectl/internal/util"
)

// CreateCommand returns the "node create" command.
func CreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new node",
		Long: `Create a new node with the specified provider.

All three of --name, --image, and --size are required unless you use
interactive mode. If any are missing and stdout is a terminal, a
wizard will guide you through the required choices.

Creating a node that already exists is a no-op: the existing node is
printed and no second node is provisioned.

Examples:
  # Minimal
  nodectl node create --provider hetzner --name web-1 --image "Ubuntu 24.04" --size 2048

  # Block until the node is running
  nodectl node create --provider hetzner \
    --name web-1 \
    --image "Ubuntu 24.04" \
    --size 2048 \
    --wait

  # JSON output for scripting (includes the one-time password)
  nodectl node create --provider hetzner \
    --name web-1 --image "Ubuntu 24.04" --size 2048 \
    -o json`,
		RunE:         runCreate,
		SilenceUsage: true,
	}

	// Required for flag mode
	cmd.Flags().String("name", "", "Node name (must be a valid hostname)")
	cmd.Flags().String("image", "", "Image name (e.g. \"Ubuntu 24.04\")")
	cmd.Flags().Int("size", 0, "Size RAM in MB (e.g. 2048)")

	// Optional
	cmd.Flags().Bool("wait", false, "Wait for the node to reach running state")
	cmd.Flags().Duration("wait-timeout", lifecycle.DefaultWaitTimeout, "How long --wait polls before giving up")
	cmd.Flags().Duration("poll-period", lifecycle.DefaultPollPeriod, "Delay between node state polls")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	opts, err := cmdutil.Options(cmd)
	if err != nil {
		return err
	}
	format, err := cmdutil.Format(opts)
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	imageName, _ := cmd.Flags().GetString("image")
	sizeRAM, _ := cmd.Flags().GetInt("size")
	wait, _ := cmd.Flags().GetBool("wait")
	waitTimeout, _ := cmd.Flags().GetDuration("wait-timeout")
	pollPeriod, _ := cmd.Flags().GetDuration("poll-period")

	var missing []string
	if name == "" {
		missing = append(missing, "--name")
	}
	if imageName == "" {
		missing = append(missing, "--image")
	}
	if sizeRAM <= 0 {
		missing = append(missing, "--size")
	}

	if name != "" {
		if err := util.ValidateNodeName(name); err != nil {
			return err
		}
	}

	useInteractive := len(missing) > 0
	if useInteractive && !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("missing required flag(s): %s (interactive mode requires a terminal)", strings.Join(missing, ", "))
	}

	orch, err := cmdutil.Connect(cmd, opts, lifecycle.WithPollPeriod(pollPeriod))
	if err != nil {
		return err
	}

	if useInteractive {
		req, err := tui.CreateNodeForm(orch, tui.CreateRequest{
			Name:      name,
			ImageName: imageName,
			SizeRAM:   sizeRAM,
			Wait:      wait,
		})
		if err != nil {
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Node creation cancelled.")
				return nil
			}
			return err
		}
		name = req.Name
		imageName = req.ImageName
		sizeRAM = req.SizeRAM
		wait = req.Wait
	}

	timeout := time.Duration(0)
	if wait {
		timeout = waitTimeout
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Creating node %q [image=%s, size=%d MB]\n", name, imageName, sizeRAM)

	var node *domain.Node
	if useInteractive {
		accessible := os.Getenv("ACCESSIBLE") != ""
		var createErr error
		spinErr := spinner.New().
			Title(fmt.Sprintf("Creating node %q...", name)).
			Accessible(accessible).
			Output(cmd.ErrOrStderr()).
			Action(func() {
				node, createErr = orch.CreateNode(cmd.Context(), name, imageName, sizeRAM, timeout)
			}).
			Run()
		if spinErr != nil {
			return spinErr
		}
		err = createErr
	} else {
		node, err = orch.CreateNode(cmd.Context(), name, imageName, sizeRAM, timeout)
	}
	if err != nil {
		return fmt.Errorf("failed to create node: %w", err)
	}

	if node.Password != "" && format == output.FormatTable {
		fmt.Fprintln(cmd.ErrOrStderr(), styles.WarningText.Render(
			"The provider returned a one-time password; it is only included in json and yaml output."))
	}

	return output.Render(cmd.OutOrStdout(), format, output.Record{Data: []output.Item{output.NodeItem(*node)}})
}
