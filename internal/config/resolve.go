package config

import (
	"fmt"
	"os"

	"cloudlift/nodectl/internal/domain"
)

// Environment variable names consulted when a flag is not set.
const (
	EnvProvider = "NODECTL_PROVIDER"
	EnvUser     = "NODECTL_USER"
	EnvKey      = "NODECTL_KEY"
	EnvOutput   = "NODECTL_OUTPUT"
)

// Options is the effective option set for one invocation. Unset fields
// are empty strings.
type Options struct {
	Provider string
	User     string
	Key      string
	Output   string
}

// Resolve layers the option sources: an explicit flag value wins, then
// the NODECTL_* environment, then the persisted config file.
func Resolve(flags Options) (*Options, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	opts := flags
	fill(&opts.Provider, EnvProvider, cfg.DefaultProvider)
	fill(&opts.User, EnvUser, cfg.User)
	fill(&opts.Key, EnvKey, cfg.Key)
	fill(&opts.Output, EnvOutput, cfg.DefaultOutput)
	return &opts, nil
}

func fill(field *string, envName, fromFile string) {
	if *field != "" {
		return
	}
	if v := os.Getenv(envName); v != "" {
		*field = v
		return
	}
	*field = fromFile
}

// ValidateConnection checks the fields a driver connection cannot be
// built without. It runs before any network call.
func (o *Options) ValidateConnection() error {
	required := []struct {
		name  string
		value string
	}{
		{"provider", o.Provider},
		{"user", o.User},
		{"key", o.Key},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("missing required option --%s: %w", r.name, domain.ErrMissingOption)
		}
	}
	return nil
}
