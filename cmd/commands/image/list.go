package image

import (
	"fmt"

	"github.com/spf13/cobra"

	"cloudlift/nodectl/cmd/cmdutil"
	"cloudlift/nodectl/internal/output"
)

// ListCommand returns the "image list" command.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available images",
		Long: `List every machine image the provider offers.

Examples:
  nodectl image list --provider hetzner
  nodectl image list -o json`,
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

	images, err := orch.ListImages(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list images: %w", err)
	}

	if len(images) == 0 {
		return output.Render(cmd.OutOrStdout(), format, output.MessageRecord("no images found"))
	}
	return output.Render(cmd.OutOrStdout(), format, output.Record{Data: output.ImageItems(images)})
}
