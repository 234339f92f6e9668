package state

import (
	"strings"
	"unicode/utf8"
)

// TagKind enumerates the types of status chips shown for the document.
type TagKind int

const (
	// Stable ordering for display: Modified, Encoding, Queued, Lines, Chars
	MODIFIED TagKind = iota
	ENCODING
	QUEUED
	LINES
	CHARS
)

// Tag represents a single status chip. Text is used for name-like tags
// (the encoding); Value is used for numeric counters. Unused fields are
// zero.
type Tag struct {
	Kind  TagKind
	Text  string
	Value int
}

// ComputeTags derives the status chips for the current document in their
// display order. MODIFIED appears only for dirty documents and QUEUED only
// when the merge list is non-empty.
func ComputeTags(encoding string, modified bool, queued int, content string) []Tag {
	var tags []Tag
	if modified {
		tags = append(tags, Tag{Kind: MODIFIED})
	}
	tags = append(tags, Tag{Kind: ENCODING, Text: encoding})
	if queued > 0 {
		tags = append(tags, Tag{Kind: QUEUED, Value: queued})
	}
	tags = append(tags,
		Tag{Kind: LINES, Value: countLines(content)},
		Tag{Kind: CHARS, Value: utf8.RuneCountInString(content)},
	)
	return tags
}

// countLines counts display lines: one more than the newline count, so
// empty content is a single line.
func countLines(content string) int {
	return strings.Count(content, "\n") + 1
}
