// Package styles provides the color palette and text styles for
// nodectl's interactive prompts. All visual constants live here so the
// prompt code can reference a single source of truth.
package styles

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	Gray   = lipgloss.Color("#888888")
	Muted  = lipgloss.Color("#555555")
	Yellow = lipgloss.Color("#FFD787")
	Red    = lipgloss.Color("#FF8787")
)

var (
	// Label is used for field names in summaries.
	Label = lipgloss.NewStyle().
		Foreground(Gray).
		Bold(true)

	// MutedText is for placeholders and less important info.
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	// WarningText is for hints the user should not scroll past.
	WarningText = lipgloss.NewStyle().
			Foreground(Yellow)

	// DangerText is for irreversible-action warnings.
	DangerText = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)
)
