package statusbar

import (
	"strings"

	"texttools/internal/tui/state"
)

type StatusBar struct{}

func NewStatusBar() StatusBar { return StatusBar{} }

// View composes the one-line footer: input mode, wrap state, the document
// chips and the most recent notice or operation message.
func (StatusBar) View(s state.UIState, chips, message string) string {
	mode := "[CMD]"
	if s.Mode == state.INSERT {
		mode = "[INSERT]"
	}
	wrap := "Wrap: Off"
	if s.Wrap {
		wrap = "Wrap: On"
	}

	parts := []string{mode, wrap}
	if chips != "" {
		parts = append(parts, chips)
	}
	if s.Notice != "" {
		parts = append(parts, s.Notice)
	}
	if message != "" {
		parts = append(parts, message)
	}
	return strings.Join(parts, "  ")
}
