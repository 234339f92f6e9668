package helpoverlay

import (
	"fmt"
	"strings"

	"texttools/internal/tui/state"
)

type HelpOverlay struct{}

func NewHelpOverlay() HelpOverlay { return HelpOverlay{} }

// View returns grouped keys help with the current mode indicated.
func (HelpOverlay) View(s state.UIState) string {
	mode := "CMD"
	if s.Mode == state.INSERT {
		mode = "INSERT"
	}
	sections := []struct {
		title string
		keys  []string
	}{
		{"Files", []string{"o: open file", "s: save", "S: save as", "u: convert to UTF-8"}},
		{"Cleaning", []string{"1: trim whitespace", "2: clean whitespace", "3: remove tabs", "d: preview cleaning"}},
		{"Editing", []string{"i/Enter: INSERT mode", "Esc: CMD mode", "f: find & replace", "c: copy all to clipboard"}},
		{"Merge", []string{"m: merge list", "a: add current file", "A: add from picker", "x: remove item", "K/J: move item", "Enter: run merge"}},
		{"View", []string{"v: toggle unified/side-by-side", "w: wrap on/off", "l: activity history", "L: save history", "?: this help", "q: quit"}},
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Help (Mode: %s)\n", mode)
	for _, sec := range sections {
		fmt.Fprintf(&b, "\n%s:\n", sec.title)
		for _, k := range sec.keys {
			fmt.Fprintf(&b, "  %s\n", k)
		}
	}
	return b.String()
}
