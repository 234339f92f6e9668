package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	dmp "github.com/sergi/go-diff/diffmatchpatch"
)

var (
	diffDelLine = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})
	diffAddLine = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "114"})
	diffDelChar = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"}).Underline(true)
	diffAddChar = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "114"}).Underline(true)
	faint       = lipgloss.NewStyle().Faint(true)
)

// renderUnifiedDiff renders the cleaning preview as a unified diff with
// line- and char-level highlights. Long runs of unchanged lines are
// collapsed to keep the preview close to the edits.
func renderUnifiedDiff(before, after string, wrap bool) string {
	if before == after {
		return "No changes\n"
	}
	bLines := strings.Split(before, "\n")
	aLines := strings.Split(after, "\n")
	var sb strings.Builder
	// Heuristic: if line counts match, do per-line char highlight; otherwise show raw blocks.
	if len(bLines) == len(aLines) && len(bLines) > 0 {
		var equal []string
		flushEqual := func() {
			const keep = 3
			if len(equal) <= 2*keep+1 {
				for _, l := range equal {
					sb.WriteString("  " + faint.Render(l) + "\n")
				}
			} else {
				for _, l := range equal[:keep] {
					sb.WriteString("  " + faint.Render(l) + "\n")
				}
				sb.WriteString(faint.Render(fmt.Sprintf("  ... %d lines unchanged ...", len(equal)-2*keep)) + "\n")
				for _, l := range equal[len(equal)-keep:] {
					sb.WriteString("  " + faint.Render(l) + "\n")
				}
			}
			equal = nil
		}
		for i := 0; i < len(bLines); i++ {
			bl := bLines[i]
			al := aLines[i]
			if bl == al {
				equal = append(equal, bl)
				continue
			}
			flushEqual()
			// char-level on pair
			d := dmp.New()
			diffs := d.DiffMain(bl, al, false)
			diffs = d.DiffCleanupSemantic(diffs)
			sb.WriteString(diffDelLine.Render("- "))
			for _, df := range diffs {
				switch df.Type {
				case dmp.DiffDelete:
					sb.WriteString(diffDelChar.Render(df.Text))
				case dmp.DiffEqual:
					sb.WriteString(diffDelLine.Render(df.Text))
				}
			}
			sb.WriteString("\n")
			sb.WriteString(diffAddLine.Render("+ "))
			for _, df := range diffs {
				switch df.Type {
				case dmp.DiffInsert:
					sb.WriteString(diffAddChar.Render(df.Text))
				case dmp.DiffEqual:
					sb.WriteString(diffAddLine.Render(df.Text))
				}
			}
			sb.WriteString("\n")
		}
		flushEqual()
		return sb.String()
	}
	// Fallback: show raw blocks
	sb.WriteString(titleStyle.Render("Before") + "\n")
	for _, l := range bLines {
		sb.WriteString(diffDelLine.Render("- ") + l + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(titleStyle.Render("After") + "\n")
	for _, l := range aLines {
		sb.WriteString(diffAddLine.Render("+ ") + l + "\n")
	}
	return sb.String()
}

// renderSideBySideDiff renders the preview in two columns.
// width is the max width of each column (best-effort).
func renderSideBySideDiff(before, after string, width int, wrap bool) string {
	bLines := strings.Split(before, "\n")
	aLines := strings.Split(after, "\n")
	max := len(bLines)
	if len(aLines) > max {
		max = len(aLines)
	}
	pad := func(s string, n int) string {
		if w := lipgloss.Width(s); w < n {
			return s + strings.Repeat(" ", n-w)
		}
		return s
	}
	var sb strings.Builder
	sb.WriteString(pad(titleStyle.Render("Before"), width) + "  |  " + titleStyle.Render("After") + "\n")
	for i := 0; i < max; i++ {
		var bl, al string
		if i < len(bLines) {
			bl = bLines[i]
		}
		if i < len(aLines) {
			al = aLines[i]
		}
		if bl == al {
			sb.WriteString(faint.Render(pad(bl, width)) + "  |  " + faint.Render(al) + "\n")
			continue
		}
		// char-level spans side-by-side
		d := dmp.New()
		diffs := d.DiffMain(bl, al, false)
		diffs = d.DiffCleanupSemantic(diffs)
		var lbuf, rbuf strings.Builder
		for _, df := range diffs {
			switch df.Type {
			case dmp.DiffDelete:
				lbuf.WriteString(diffDelChar.Render(df.Text))
			case dmp.DiffInsert:
				rbuf.WriteString(diffAddChar.Render(df.Text))
			case dmp.DiffEqual:
				lbuf.WriteString(diffDelLine.Render(df.Text))
				rbuf.WriteString(diffAddLine.Render(df.Text))
			}
		}
		left := pad(diffDelLine.Render("- ")+lbuf.String(), width)
		right := diffAddLine.Render("+ ") + rbuf.String()
		sb.WriteString(left + "  |  " + right + "\n")
	}
	return sb.String()
}
