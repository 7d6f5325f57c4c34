package util

import "strings"

// NormalizeKey lowercases and trims a string for use as a consistent lookup key.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeProviderName trims and uppercases a provider name so that
// registry lookups are case-insensitive ("hetzner", "Hetzner" and
// "HETZNER" all resolve to the same driver).
func NormalizeProviderName(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
