package config

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"cloudlift/nodectl/internal/config"
	"cloudlift/nodectl/internal/domain"
	"cloudlift/nodectl/internal/providers"
)

// setupTestConfig points the config package at a temp file and returns
// the path.
func setupTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	config.SetPath(path)
	t.Cleanup(config.ResetPath)
	return path
}

// registerTestProvider registers a stub provider in the global registry.
func registerTestProvider(t *testing.T, name string) {
	t.Helper()
	providers.Reset()
	t.Cleanup(providers.Reset)
	providers.Register(name, func(ctx context.Context, creds domain.Credentials, logger *zap.Logger) (domain.Connection, error) {
		return nil, nil
	})
}

// execConfig creates the config command, wires up output buffers, runs with the
// given args, and returns what was written to stdout and stderr.
func execConfig(t *testing.T, args ...string) (stdout, stderr string) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	cmd.Execute()
	return outBuf.String(), errBuf.String()
}

func TestSet_DefaultProvider(t *testing.T) {
	setupTestConfig(t)
	registerTestProvider(t, "hetzner")

	stdout, stderr := execConfig(t, "set", "default-provider", "hetzner")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, `"HETZNER"`) {
		t.Errorf("expected confirmation with canonical provider name, got: %s", stdout)
	}

	// Verify it was persisted.
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.DefaultProvider != "HETZNER" {
		t.Errorf("expected DefaultProvider %q, got %q", "HETZNER", cfg.DefaultProvider)
	}
}

func TestSet_DefaultProvider_UnknownProvider(t *testing.T) {
	setupTestConfig(t)
	registerTestProvider(t, "hetzner")

	_, stderr := execConfig(t, "set", "default-provider", "nonexistent")

	if !strings.Contains(stderr, "unknown provider") {
		t.Errorf("expected 'unknown provider' error, got: %s", stderr)
	}
}

func TestSet_UnknownKey(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "set", "bogus-key", "value")

	if !strings.Contains(stderr, "unknown configuration key") {
		t.Errorf("expected 'unknown configuration key' error, got: %s", stderr)
	}
}

func TestSet_DefaultProvider_CaseInsensitive(t *testing.T) {
	setupTestConfig(t)
	registerTestProvider(t, "hetzner")

	stdout, stderr := execConfig(t, "set", "default-provider", "Hetzner")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, `"HETZNER"`) {
		t.Errorf("expected normalized provider name, got: %s", stdout)
	}
}

func TestSet_KeyStoredVerbatimAndNotEchoed(t *testing.T) {
	setupTestConfig(t)

	secret := "S3cret-Token=="
	stdout, stderr := execConfig(t, "set", "key", secret)

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if strings.Contains(stdout, secret) {
		t.Errorf("secret leaked to stdout: %s", stdout)
	}
	if !strings.Contains(stdout, "key updated") {
		t.Errorf("expected 'key updated' confirmation, got: %s", stdout)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Key != secret {
		t.Errorf("expected Key stored verbatim %q, got %q", secret, cfg.Key)
	}
}

func TestSet_DefaultOutput(t *testing.T) {
	setupTestConfig(t)

	stdout, stderr := execConfig(t, "set", "default-output", "JSON")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, `"json"`) {
		t.Errorf("expected normalized output format, got: %s", stdout)
	}
}

func TestSet_DefaultOutput_Invalid(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "set", "default-output", "xml")

	if !strings.Contains(stderr, "unknown output format") {
		t.Errorf("expected 'unknown output format' error, got: %s", stderr)
	}
}
