// Package session holds the state of the single open document and the
// merge list, and exposes every user-level operation on them: load, save,
// cleaning, find/replace, UTF-8 conversion and multi-file merging.
//
// A Session is single threaded. Operations run to completion on the
// caller's goroutine and report their outcome by calling the subscribed
// listeners synchronously before returning, so a caller always observes
// the events of an operation it just invoked.
package session

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"texttools/internal/document"
	"texttools/internal/textproc"
)

// Gateway is the disk access the session depends on.
type Gateway interface {
	Open(path string) (document.Document, error)
	Save(doc document.Document) error
}

const noDocumentMsg = "No document loaded"

// Session owns the current document and the merge list.
type Session struct {
	gw        Gateway
	log       *log.Logger
	current   *document.Document
	queue     *mergeQueue
	listeners []func(Event)
}

// New returns an empty session backed by gw.
func New(gw Gateway, logger *log.Logger) *Session {
	return &Session{gw: gw, log: logger, queue: newMergeQueue()}
}

// Subscribe registers fn to receive every subsequent event. Listeners are
// called synchronously in subscription order.
func (s *Session) Subscribe(fn func(Event)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Session) emit(ev Event) {
	for _, fn := range s.listeners {
		fn(ev)
	}
}

// Current returns a copy of the open document, if any.
func (s *Session) Current() (document.Document, bool) {
	if s.current == nil {
		return document.Document{}, false
	}
	return *s.current, true
}

// MergeNames returns the display names of the merge list in order.
func (s *Session) MergeNames() []string {
	return s.queue.displayNames()
}

// MergeSeparator returns the separator inserted between merged files.
func (s *Session) MergeSeparator() string {
	return s.queue.separator
}

// countNoun formats a count with its noun, e.g. "1 file", "3 files".
func countNoun(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

/* ---------- document operations ---------- */

// LoadFile opens path and makes it the current document. Success emits
// DocumentReplaced, EncodingChanged and a Status; failure emits Failed and
// leaves any previous document in place.
func (s *Session) LoadFile(path string) {
	doc, err := s.gw.Open(path)
	if err != nil {
		s.log.Warn("load failed", "path", path, "err", err)
		s.emit(Failed{Message: "Cannot open file: " + err.Error()})
		return
	}
	s.current = &doc
	s.emit(DocumentReplaced{Content: doc.Content})
	s.emit(EncodingChanged{Name: doc.Encoding})
	s.emit(Status{Message: fmt.Sprintf("Loaded %s (%s)", filepath.Base(path), doc.Encoding)})
}

// SaveFile writes content to path in the current document's encoding
// (UTF-8 when nothing is loaded) and makes the saved file the current
// document. Success emits Saved and a Status; failure emits Failed.
func (s *Session) SaveFile(path, content string) {
	enc := "utf-8"
	if s.current != nil {
		enc = s.current.Encoding
	}
	doc := document.Document{Path: path, Content: content, Encoding: enc}
	if err := s.gw.Save(doc); err != nil {
		s.log.Warn("save failed", "path", path, "err", err)
		s.emit(Failed{Message: "Cannot save file: " + err.Error()})
		return
	}
	s.current = &doc
	s.emit(Saved{Path: path})
	s.emit(Status{Message: "Saved " + filepath.Base(path)})
}

// ApplyCleaning runs the selected cleaning passes over the document. When
// liveText is non-nil it is used as the starting content, so unsaved
// editor text is cleaned rather than the last loaded state. The result
// replaces the document content and is emitted as ContentTransformed.
func (s *Session) ApplyCleaning(opts textproc.Options, liveText *string) {
	if s.current == nil {
		s.emit(Status{Message: noDocumentMsg})
		return
	}
	source := s.current.Content
	if liveText != nil {
		source = *liveText
	}
	result := textproc.Apply(source, opts)
	doc := s.current.WithContent(result)
	s.current = &doc
	s.emit(ContentTransformed{Content: result})
	s.emit(Status{Message: "Cleaning applied"})
}

// ReplaceAll substitutes every occurrence of find with replace. An empty
// find is ignored. liveText, when non-nil, is the starting content, as in
// ApplyCleaning. The status reports how many occurrences were replaced.
func (s *Session) ReplaceAll(find, replace string, liveText *string) {
	if s.current == nil {
		s.emit(Status{Message: noDocumentMsg})
		return
	}
	if find == "" {
		return
	}
	source := s.current.Content
	if liveText != nil {
		source = *liveText
	}
	result, n := textproc.ReplaceAll(source, find, replace)
	doc := s.current.WithContent(result)
	s.current = &doc
	s.emit(ContentTransformed{Content: result})
	s.emit(Status{Message: "Replaced " + countNoun(n, "occurrence", "occurrences")})
}

// ConvertToUTF8 re-saves the current document as UTF-8 with liveText as
// its content. Documents already in a UTF-8 encoding only get a Status.
// Success emits EncodingChanged, Saved and a Status; a failed write emits
// Failed and leaves the document unchanged.
func (s *Session) ConvertToUTF8(liveText string) {
	if s.current == nil {
		s.emit(Status{Message: noDocumentMsg})
		return
	}
	enc := strings.ReplaceAll(strings.ToLower(s.current.Encoding), "-", "")
	if enc == "utf8" || enc == "utf8sig" {
		s.emit(Status{Message: "Already UTF-8 encoded"})
		return
	}
	doc := document.Document{Path: s.current.Path, Content: liveText, Encoding: "utf-8"}
	if err := s.gw.Save(doc); err != nil {
		s.log.Warn("convert failed", "path", doc.Path, "err", err)
		s.emit(Failed{Message: "Cannot save file: " + err.Error()})
		return
	}
	s.current = &doc
	s.emit(EncodingChanged{Name: "utf-8"})
	s.emit(Saved{Path: doc.Path})
	s.emit(Status{Message: "Converted to UTF-8"})
}

/* ---------- merge operations ---------- */

// AddCurrentToMerge queues the current document's path. A document that
// never touched disk (no path) cannot be queued. Adding a path already in
// the list is a silent no-op.
func (s *Session) AddCurrentToMerge() {
	if s.current == nil || s.current.Path == "" {
		s.emit(Failed{Message: "No file loaded"})
		return
	}
	if s.queue.add(s.current.Path) {
		s.emit(MergeListChanged{Names: s.queue.displayNames()})
	}
}

// AddFilesToMerge queues each path in order, skipping ones already listed.
func (s *Session) AddFilesToMerge(paths []string) {
	if s.queue.addAll(paths) {
		s.emit(MergeListChanged{Names: s.queue.displayNames()})
	}
}

// RemoveFromMerge drops the list entry at index i.
func (s *Session) RemoveFromMerge(i int) {
	if s.queue.removeAt(i) {
		s.emit(MergeListChanged{Names: s.queue.displayNames()})
	}
}

// MoveMergeItem relocates the entry at from to land at index to, with to
// counted before the entry is taken out of the list: on [a b c],
// MoveMergeItem(0, 2) yields [b a c] and MoveMergeItem(2, 0) yields
// [c a b].
func (s *Session) MoveMergeItem(from, to int) {
	if s.queue.move(from, to) {
		s.emit(MergeListChanged{Names: s.queue.displayNames()})
	}
}

// SetMergeSeparator sets the text joined between merged files, verbatim.
func (s *Session) SetMergeSeparator(sep string) {
	s.queue.separator = sep
}

// ExecuteMerge reads every queued file in list order and joins their
// contents with the separator. The merged text becomes the current
// document: path-less, UTF-8, modified, so the user decides where it goes.
// The first unreadable file aborts the merge; the list is never cleared.
func (s *Session) ExecuteMerge() {
	if s.queue.len() == 0 {
		s.emit(Failed{Message: "No files in merge list"})
		return
	}
	paths := s.queue.all()
	contents := make([]string, 0, len(paths))
	for _, p := range paths {
		doc, err := s.gw.Open(p)
		if err != nil {
			s.log.Warn("merge read failed", "path", p, "err", err)
			s.emit(Failed{Message: fmt.Sprintf("Cannot read %s: %s", filepath.Base(p), err)})
			return
		}
		contents = append(contents, doc.Content)
	}
	merged := textproc.Merge(contents, s.queue.separator)
	s.current = &document.Document{Content: merged, Encoding: "utf-8", Modified: true}
	s.emit(DocumentReplaced{Content: merged})
	s.emit(Status{Message: "Merged " + countNoun(len(paths), "file", "files")})
}
