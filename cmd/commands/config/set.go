package config

import (
	"fmt"
	"strings"

	"cloudlift/nodectl/internal/config"
	"cloudlift/nodectl/internal/output"
	"cloudlift/nodectl/internal/providers"
	"cloudlift/nodectl/internal/util"

	"github.com/spf13/cobra"
)

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a persistent configuration value.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  nodectl config set default-provider hetzner\n" +
			"  nodectl config set key <api-token>",
		Args:         cobra.ExactArgs(2),
		RunE:         runSet,
		SilenceUsage: true,
	}

	return cmd
}

// validators maps key names to optional pre-save validation functions.
// Keys not present in this map have no extra validation.
var validators = map[string]func(value string) error{
	"default-provider": validateProvider,
	"default-output":   validateOutput,
}

func runSet(cmd *cobra.Command, args []string) error {
	key := util.NormalizeKey(args[0])
	value := args[1]

	spec := config.Lookup(key)
	if spec == nil {
		return fmt.Errorf("unknown configuration key %q (valid: %s)", args[0], strings.Join(config.KeyNames(), ", "))
	}

	if validate, ok := validators[spec.Name]; ok {
		if err := validate(value); err != nil {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	normalized := normalizeValue(spec.Name, value)
	spec.Set(cfg, normalized)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if spec.Name == "key" {
		// Never echo the secret back.
		fmt.Fprintf(cmd.OutOrStdout(), "%s updated\n", spec.Name)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s set to %q\n", spec.Name, normalized)
	}
	return nil
}

// normalizeValue canonicalizes values for keys that name other things.
// Credentials are stored exactly as given.
func normalizeValue(key, value string) string {
	switch key {
	case "default-provider":
		return util.NormalizeProviderName(value)
	case "default-output":
		return util.NormalizeKey(value)
	}
	return value
}

// validateProvider checks that the given name is a registered provider.
func validateProvider(name string) error {
	normalized := util.NormalizeProviderName(name)
	known := providers.List()
	for _, p := range known {
		if p == normalized {
			return nil
		}
	}
	return fmt.Errorf("unknown provider %q (registered: %s)", name, strings.Join(known, ", "))
}

// validateOutput checks that the value names a known output format.
func validateOutput(value string) error {
	_, err := output.ParseFormat(value)
	return err
}
