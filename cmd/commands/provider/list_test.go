package provider

import (
	"bytes"
	"context"
	"testing"

	"go.uber.org/zap"

	"cloudlift/nodectl/internal/domain"
	"cloudlift/nodectl/internal/providers"
)

func stubFactory(ctx context.Context, creds domain.Credentials, logger *zap.Logger) (domain.Connection, error) {
	return nil, nil
}

func TestList_PrintsRegisteredNamesSorted(t *testing.T) {
	providers.Reset()
	t.Cleanup(providers.Reset)
	providers.Register("zeta", stubFactory)
	providers.Register("alpha", stubFactory)

	var out bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"list"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("provider list failed: %v", err)
	}

	if got, want := out.String(), "ALPHA\nZETA\n"; got != want {
		t.Errorf("provider list output = %q, want %q", got, want)
	}
}

func TestList_EmptyRegistry(t *testing.T) {
	providers.Reset()
	t.Cleanup(providers.Reset)

	var out bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"list"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("provider list failed: %v", err)
	}

	if out.String() != "" {
		t.Errorf("expected no output for empty registry, got %q", out.String())
	}
}
