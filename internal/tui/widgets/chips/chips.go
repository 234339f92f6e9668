// Package chips renders the document status chips shown in the status bar:
// modified marker, encoding, merge list size and text counters.
package chips

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"texttools/internal/tui/state"
)

// View renders tags in a stable order using colored chips when possible
// and ASCII fallbacks when color is disabled or not desired.
func View(tags []state.Tag, noColor bool) string {
	if len(tags) == 0 {
		return ""
	}
	// Honor NO_COLOR env var in addition to explicit param
	if !noColor && os.Getenv("NO_COLOR") != "" {
		noColor = true
	}

	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		parts = append(parts, renderChip(t, noColor))
	}
	return strings.Join(parts, " ")
}

func renderChip(t state.Tag, noColor bool) string {
	label := chipLabel(t)
	if noColor {
		return fmt.Sprintf("[%s]", label)
	}
	style := chipStyle(t)
	return style.Render(" " + label + " ")
}

func chipLabel(t state.Tag) string {
	switch t.Kind {
	case state.MODIFIED:
		return "Modified"
	case state.ENCODING:
		return strings.ToUpper(t.Text)
	case state.QUEUED:
		return fmt.Sprintf("Merge %d", t.Value)
	case state.LINES:
		return fmt.Sprintf("Ln %d", t.Value)
	case state.CHARS:
		return fmt.Sprintf("Ch %d", t.Value)
	default:
		return "Tag"
	}
}

func chipStyle(t state.Tag) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1).Bold(true)
	switch t.Kind {
	case state.MODIFIED:
		return base.Background(lipgloss.Color("#3D6DFF")).Foreground(lipgloss.Color("#FFFFFF"))
	case state.ENCODING:
		return base.Background(lipgloss.Color("#2AA876")).Foreground(lipgloss.Color("#FFFFFF"))
	case state.QUEUED:
		return base.Background(lipgloss.Color("#F0AD4E")).Foreground(lipgloss.Color("#111111"))
	case state.LINES:
		return base.Background(lipgloss.Color("#6C757D")).Foreground(lipgloss.Color("#FFFFFF"))
	case state.CHARS:
		return base.Background(lipgloss.Color("#5A5A5A")).Foreground(lipgloss.Color("#FFFFFF"))
	default:
		return base
	}
}
