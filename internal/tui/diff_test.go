package tui

import (
	"strings"
	"testing"
)

func TestUnifiedDiffNoChanges(t *testing.T) {
	out := renderUnifiedDiff("same\ntext", "same\ntext", false)
	if out != "No changes\n" {
		t.Fatalf("expected no-changes marker, got %q", out)
	}
}

func TestUnifiedDiffPairHighlight(t *testing.T) {
	out := renderUnifiedDiff("keep\nold value\nkeep2", "keep\nnew value\nkeep2", false)
	if !strings.Contains(out, "- ") || !strings.Contains(out, "+ ") {
		t.Fatalf("expected +/- lines in unified output:\n%s", out)
	}
	if !strings.Contains(out, "old") || !strings.Contains(out, "new") {
		t.Fatalf("expected both sides of the change:\n%s", out)
	}
	if !strings.Contains(out, "keep") {
		t.Fatalf("expected unchanged context lines:\n%s", out)
	}
}

func TestUnifiedDiffCollapsesLongEqualRuns(t *testing.T) {
	lines := make([]string, 0, 13)
	for i := 0; i < 12; i++ {
		lines = append(lines, "context")
	}
	before := strings.Join(append(lines, "old tail"), "\n")
	after := strings.Join(append(lines[:12:12], "new tail"), "\n")
	out := renderUnifiedDiff(before, after, false)
	if !strings.Contains(out, "lines unchanged") {
		t.Fatalf("expected collapsed equal run:\n%s", out)
	}
	if strings.Count(out, "context") != 6 {
		t.Fatalf("expected 3 context lines kept on each side, got:\n%s", out)
	}
}

func TestUnifiedDiffFallbackBlocks(t *testing.T) {
	out := renderUnifiedDiff("a\nb", "a", false)
	if !strings.Contains(out, "Before") || !strings.Contains(out, "After") {
		t.Fatalf("expected raw before/after blocks:\n%s", out)
	}
	if !strings.Contains(out, "- b") || !strings.Contains(out, "+ a") {
		t.Fatalf("expected prefixed raw lines:\n%s", out)
	}
}

func TestSideBySideDiff(t *testing.T) {
	out := renderSideBySideDiff("left line", "right line", 20, false)
	if !strings.HasPrefix(out, "Before") {
		t.Fatalf("missing side-by-side header:\n%s", out)
	}
	if !strings.Contains(out, "  |  ") {
		t.Fatalf("missing column separator:\n%s", out)
	}
	if !strings.Contains(out, "After") {
		t.Fatalf("missing after column title:\n%s", out)
	}
}
