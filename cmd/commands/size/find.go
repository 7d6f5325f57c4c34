package size

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cloudlift/nodectl/cmd/cmdutil"
	"cloudlift/nodectl/internal/output"
)

// FindCommand returns the "size find" command.
func FindCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <ram-mb>",
		Short: "Find a size by RAM",
		Long: `Find the first size with exactly the given amount of RAM in
megabytes. Matching is exact, not closest-fit.

Examples:
  nodectl size find 2048
  nodectl size find 2048 -o json`,
		Args:         cobra.ExactArgs(1),
		RunE:         runFind,
		SilenceUsage: true,
	}

	return cmd
}

func runFind(cmd *cobra.Command, args []string) error {
	ram, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid RAM value %q: expected megabytes as an integer", args[0])
	}

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

	size, err := orch.FindSize(cmd.Context(), ram)
	if err != nil {
		return err
	}

	return output.Render(cmd.OutOrStdout(), format, output.Record{Data: []output.Item{output.SizeItem(*size)}})
}
