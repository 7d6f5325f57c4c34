package util

import (
	"strings"
	"testing"
)

func TestValidateNodeName_Valid(t *testing.T) {
	valid := []string{
		"web-1",
		"my.node",
		"a1",
		"web-node-01",
		"prod.web.01",
		"Ab",
		"UPPERCASE",
		"MiXeD123",
		"123numeric",
		"a-b.c-d",
	}
	for _, name := range valid {
		t.Run(name, func(t *testing.T) {
			if err := ValidateNodeName(name); err != nil {
				t.Errorf("expected %q to be valid, got error: %v", name, err)
			}
		})
	}
}

func TestValidateNodeName_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		wantMsg string
	}{
		{"", "at least 2 characters"},
		{"a", "at least 2 characters"},
		{"this is a test", "invalid characters"},
		{"web node", "invalid characters"},
		{"-web", "must start with an alphanumeric"},
		{".web", "must start with an alphanumeric"},
		{"web-", "must not end with a hyphen"},
		{"web.", "must not end with a hyphen or period"},
		{"hello world!", "invalid characters"},
		{"web@node", "invalid characters"},
		{"name_with_underscores", "invalid characters"},
		{"web\tnode", "invalid characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeName(tt.name)
			if err == nil {
				t.Errorf("expected %q to be invalid, got nil", tt.name)
				return
			}
			if got := err.Error(); !strings.Contains(got, tt.wantMsg) {
				t.Errorf("expected error containing %q, got %q", tt.wantMsg, got)
			}
		})
	}
}

func TestNormalizeProviderName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hetzner", "HETZNER"},
		{"Hetzner", "HETZNER"},
		{"  ec2  ", "EC2"},
		{"DIGITALOCEAN", "DIGITALOCEAN"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeProviderName(tt.in); got != tt.want {
			t.Errorf("NormalizeProviderName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Provider", "provider"},
		{"  WAIT-seconds ", "wait-seconds"},
		{"key", "key"},
	}
	for _, tt := range tests {
		if got := NormalizeKey(tt.in); got != tt.want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
