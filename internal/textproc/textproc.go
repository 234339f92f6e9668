// Package textproc implements the text cleaning pipeline and the small
// string transforms built on top of it: whitespace trimming, space
// collapsing, indentation removal, find/replace and document merging.
//
// All transforms are line based. Input line endings are normalized to LF
// before processing, so CRLF and lone-CR files come out with plain LF.
package textproc

import (
	"regexp"
	"strings"
	"unicode"
)

// Options selects which cleaning passes Apply runs. Passes always run in a
// fixed order: trim, then space collapsing, then indentation removal.
type Options struct {
	TrimWhitespace  bool
	CleanWhitespace bool
	RemoveTabs      bool
}

// Enabled reports whether at least one pass is selected.
func (o Options) Enabled() bool {
	return o.TrimWhitespace || o.CleanWhitespace || o.RemoveTabs
}

// Apply runs the selected passes over text in pipeline order. With no
// passes selected the input is returned untouched.
func Apply(text string, o Options) string {
	if o.TrimWhitespace {
		text = TrimWhitespace(text)
	}
	if o.CleanWhitespace {
		text = CleanWhitespace(text)
	}
	if o.RemoveTabs {
		text = RemoveTabs(text)
	}
	return text
}

// splitLines breaks s into lines the same way every transform sees them:
// CRLF and CR are folded to LF, and a single trailing newline does not
// produce a final empty line. Empty input yields no lines.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// TrimWhitespace removes leading and trailing blank lines and strips
// trailing whitespace from every remaining line. Interior blank lines are
// kept.
func TrimWhitespace(text string) string {
	lines := splitLines(text)

	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	lines = lines[start:end]

	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return strings.Join(lines, "\n")
}

var spaceRun = regexp.MustCompile(" {2,}")

// CleanWhitespace collapses runs of two or more spaces into one space on
// each line. Tabs and line structure are untouched.
func CleanWhitespace(text string) string {
	lines := splitLines(text)
	for i, line := range lines {
		lines[i] = spaceRun.ReplaceAllString(line, " ")
	}
	return strings.Join(lines, "\n")
}

// RemoveTabs strips leading tabs and spaces from every line, flattening
// indentation. Interior and trailing whitespace stay put.
func RemoveTabs(text string) string {
	lines := splitLines(text)
	for i, line := range lines {
		lines[i] = strings.TrimLeft(line, " \t")
	}
	return strings.Join(lines, "\n")
}

// ReplaceAll substitutes every literal occurrence of find with replace and
// reports how many were replaced. An empty find leaves text untouched and
// reports zero.
func ReplaceAll(text, find, replace string) (string, int) {
	if find == "" {
		return text, 0
	}
	n := strings.Count(text, find)
	if n == 0 {
		return text, 0
	}
	return strings.ReplaceAll(text, find, replace), n
}

// Merge joins the given contents with sep between each pair. The separator
// is used verbatim.
func Merge(contents []string, sep string) string {
	return strings.Join(contents, sep)
}

var (
	escaper   = strings.NewReplacer("\\", `\\`, "\n", `\n`, "\t", `\t`, "\r", `\r`)
	unescaper = strings.NewReplacer(`\\`, "\\", `\n`, "\n", `\t`, "\t", `\r`, "\r")
)

// EscapeSeparator renders a merge separator with backslash escapes so it
// can be shown and edited on a single line.
func EscapeSeparator(sep string) string {
	return escaper.Replace(sep)
}

// UnescapeSeparator is the inverse of EscapeSeparator.
func UnescapeSeparator(s string) string {
	return unescaper.Replace(s)
}
