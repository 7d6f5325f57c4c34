package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	cfgcmd "cloudlift/nodectl/cmd/commands/config"
	"cloudlift/nodectl/cmd/commands/image"
	"cloudlift/nodectl/cmd/commands/node"
	"cloudlift/nodectl/cmd/commands/provider"
	"cloudlift/nodectl/cmd/commands/size"
	"cloudlift/nodectl/internal/config"
	"cloudlift/nodectl/internal/output"
	"cloudlift/nodectl/internal/providers"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "nodectl",
		Short: "A CLI tool for managing compute nodes across cloud providers",
		Long: `nodectl manages compute nodes across multiple cloud providers through
one uniform set of commands. Nodes can be created, found, listed,
waited on, and destroyed; every provider reports the same node shape
and the same five lifecycle states.

Supported providers: Hetzner Cloud, DigitalOcean, Amazon EC2, and a
mock provider for dry runs.

Quick start:
  nodectl config set default-provider hetzner
  nodectl config set key <api-token>
  nodectl node list                 # List all nodes
  nodectl node create               # Interactive node creation
  nodectl node destroy web-1        # Destroy a node`,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("provider", "", "Cloud provider to use (falls back to NODECTL_PROVIDER, then the config file)")
	cmd.PersistentFlags().String("user", "", "API user or access key id (falls back to NODECTL_USER, then the config file)")
	cmd.PersistentFlags().String("key", "", "API token or secret key (falls back to NODECTL_KEY, then the config file)")
	cmd.PersistentFlags().StringP("output", "o", "", "Output format: table, json, or yaml")
	cmd.PersistentFlags().Bool("verbose", false, "Enable debug logging to stderr")

	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(image.NewCommand())
	cmd.AddCommand(node.NewCommand())
	cmd.AddCommand(provider.NewCommand())
	cmd.AddCommand(size.NewCommand())

	return cmd
}

// registerProviders installs every built-in driver into the registry.
func registerProviders() {
	providers.RegisterHetzner()
	providers.RegisterDigitalOcean()
	providers.RegisterEC2()
	providers.RegisterMock()
}

// Execute runs the root command. A failing command is reported as an
// output record whose message field carries the error, rendered in the
// requested format, and the process exits nonzero. This is called by
// main.main().
func Execute() {
	registerProviders()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var root = rootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil {
		_ = output.Render(os.Stdout, failureFormat(root), output.MessageRecord(err.Error()))
		os.Exit(1)
	}
}

// failureFormat resolves the output format once a command has already
// failed. An unusable or unset format falls back to the table renderer
// so the failure record is never swallowed.
func failureFormat(root *cobra.Command) output.Format {
	flagValue, _ := root.PersistentFlags().GetString("output")
	opts, err := config.Resolve(config.Options{Output: flagValue})
	if err != nil {
		return output.FormatTable
	}
	format, err := output.ParseFormat(opts.Output)
	if err != nil {
		return output.FormatTable
	}
	return format
}
