package image

import (
	"github.com/spf13/cobra"

	"cloudlift/nodectl/cmd/cmdutil"
	"cloudlift/nodectl/internal/output"
)

// FindCommand returns the "image find" command.
func FindCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <name>",
		Short: "Find an image by name",
		Long: `Find the first image whose name matches exactly. Name matching is
case-sensitive and never fuzzy.

Examples:
  nodectl image find "Ubuntu 24.04"
  nodectl image find "Ubuntu 24.04" -o json`,
		Args:         cobra.ExactArgs(1),
		RunE:         runFind,
		SilenceUsage: true,
	}

	return cmd
}

func runFind(cmd *cobra.Command, args []string) error {
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

	img, err := orch.FindImage(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	return output.Render(cmd.OutOrStdout(), format, output.Record{Data: []output.Item{output.ImageItem(*img)}})
}
