package tui

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"texttools/internal/settings"
)

var historyBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MarginTop(1)

// renderHistory draws the activity panel: the most recent lines in a
// bordered box, scrolled back by offset.
func renderHistory(lines []string, width, offset int) string {
	const maxLines = 12
	if len(lines) == 0 {
		return historyBorder.Render("(no activity yet)")
	}
	if offset > len(lines) {
		offset = len(lines)
	}
	start := len(lines) - maxLines - offset
	if start < 0 {
		start = 0
	}
	end := start + maxLines
	if end > len(lines) {
		end = len(lines)
	}

	// truncate to fit inside the border
	avail := width
	if avail <= 0 {
		avail = 100
	}
	avail -= 4
	if avail < 20 {
		avail = 20
	}
	out := make([]string, 0, end-start)
	for _, ln := range lines[start:end] {
		r := []rune(ln)
		if len(r) > avail {
			ln = string(r[:avail-1]) + "…"
		}
		out = append(out, ln)
	}
	return historyBorder.Render(strings.Join(out, "\n"))
}

// saveHistory writes the activity lines to a timestamped file under the
// settings directory and returns its path.
func saveHistory(lines []string) (string, error) {
	dir := filepath.Join(settings.Dir(), "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, time.Now().Format("20060102_150405")+".log")
	data := strings.Join(lines, "\n")
	if len(data) > 0 {
		data += "\n"
	}
	return path, os.WriteFile(path, []byte(data), 0o644)
}
