// Package cmdutil holds the option-resolution and connection plumbing
// shared by every command that talks to a provider.
package cmdutil

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cloudlift/nodectl/internal/config"
	"cloudlift/nodectl/internal/domain"
	"cloudlift/nodectl/internal/lifecycle"
	"cloudlift/nodectl/internal/logging"
	"cloudlift/nodectl/internal/output"
	"cloudlift/nodectl/internal/providers"
)

// Options resolves the effective global options for cmd: explicit
// flags win, then the NODECTL_* environment, then the config file.
func Options(cmd *cobra.Command) (*config.Options, error) {
	return config.Resolve(config.Options{
		Provider: flagValue(cmd, "provider"),
		User:     flagValue(cmd, "user"),
		Key:      flagValue(cmd, "key"),
		Output:   flagValue(cmd, "output"),
	})
}

// Format parses the resolved output format, defaulting to the table
// renderer when none was requested anywhere.
func Format(opts *config.Options) (output.Format, error) {
	if opts.Output == "" {
		return output.FormatTable, nil
	}
	return output.ParseFormat(opts.Output)
}

// Logger builds the per-invocation logger honoring --verbose.
func Logger(cmd *cobra.Command) *zap.Logger {
	verbose := false
	if f := cmd.Flag("verbose"); f != nil {
		verbose = f.Value.String() == "true"
	}
	return logging.New(verbose)
}

// Connect validates the connection options, authenticates against the
// selected provider, and wraps the connection in a lifecycle
// orchestrator. It is the first network touch of any command.
func Connect(cmd *cobra.Command, opts *config.Options, lcOpts ...lifecycle.Option) (*lifecycle.Orchestrator, error) {
	if err := opts.ValidateConnection(); err != nil {
		return nil, err
	}

	logger := Logger(cmd)
	conn, err := providers.Connect(cmd.Context(), opts.Provider, domain.Credentials{
		User: opts.User,
		Key:  opts.Key,
	}, logger)
	if err != nil {
		return nil, err
	}

	return lifecycle.New(conn, logger, lcOpts...), nil
}

// flagValue reads a flag defined on cmd or inherited from a parent.
func flagValue(cmd *cobra.Command, name string) string {
	f := cmd.Flag(name)
	if f == nil {
		return ""
	}
	return f.Value.String()
}
