package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"texttools/internal/document"
	"texttools/internal/fileio"
	"texttools/internal/logging"
	"texttools/internal/textproc"
)

type fakeGateway struct {
	openFn func(path string) (document.Document, error)
	saveFn func(doc document.Document) error
	saved  []document.Document
}

func (f *fakeGateway) Open(path string) (document.Document, error) {
	if f.openFn != nil {
		return f.openFn(path)
	}
	return document.Document{}, errors.New("no file stubbed")
}

func (f *fakeGateway) Save(doc document.Document) error {
	if f.saveFn != nil {
		if err := f.saveFn(doc); err != nil {
			return err
		}
	}
	f.saved = append(f.saved, doc)
	return nil
}

// openStub returns an openFn serving fixed contents by path.
func openStub(contents map[string]document.Document) func(string) (document.Document, error) {
	return func(path string) (document.Document, error) {
		doc, ok := contents[path]
		if !ok {
			return document.Document{}, errors.New("stub: no such file")
		}
		return doc, nil
	}
}

type recorder struct {
	events []Event
}

func (r *recorder) record(ev Event) { r.events = append(r.events, ev) }
func (r *recorder) reset()          { r.events = nil }

// kinds returns one short name per recorded event, in order.
func (r *recorder) kinds() []string {
	var out []string
	for _, ev := range r.events {
		switch ev.(type) {
		case DocumentReplaced:
			out = append(out, "replaced")
		case ContentTransformed:
			out = append(out, "transformed")
		case EncodingChanged:
			out = append(out, "encoding")
		case Saved:
			out = append(out, "saved")
		case Failed:
			out = append(out, "failed")
		case Status:
			out = append(out, "status")
		case MergeListChanged:
			out = append(out, "mergelist")
		}
	}
	return out
}

func (r *recorder) statuses() []string {
	var out []string
	for _, ev := range r.events {
		if s, ok := ev.(Status); ok {
			out = append(out, s.Message)
		}
	}
	return out
}

func (r *recorder) failures() []string {
	var out []string
	for _, ev := range r.events {
		if f, ok := ev.(Failed); ok {
			out = append(out, f.Message)
		}
	}
	return out
}

func (r *recorder) transformed() []string {
	var out []string
	for _, ev := range r.events {
		if c, ok := ev.(ContentTransformed); ok {
			out = append(out, c.Content)
		}
	}
	return out
}

func (r *recorder) mergeLists() [][]string {
	var out [][]string
	for _, ev := range r.events {
		if m, ok := ev.(MergeListChanged); ok {
			out = append(out, m.Names)
		}
	}
	return out
}

func newTestSession(gw *fakeGateway) (*Session, *recorder) {
	s := New(gw, logging.Nop())
	r := &recorder{}
	s.Subscribe(r.record)
	return s, r
}

func loadedSession(t *testing.T, path, content, enc string) (*Session, *recorder, *fakeGateway) {
	t.Helper()
	gw := &fakeGateway{openFn: openStub(map[string]document.Document{
		path: {Path: path, Content: content, Encoding: enc},
	})}
	s, r := newTestSession(gw)
	s.LoadFile(path)
	r.reset()
	return s, r, gw
}

func TestLoadFile(t *testing.T) {
	t.Run("Should replace document and announce encoding and status", func(t *testing.T) {
		s, r, _ := loadedSessionEvents(t)
		require.Equal(t, []string{"replaced", "encoding", "status"}, r.kinds())
		assert.Equal(t, DocumentReplaced{Content: "hello world"}, r.events[0])
		assert.Equal(t, EncodingChanged{Name: "utf-8"}, r.events[1])
		assert.Equal(t, []string{"Loaded test.txt (utf-8)"}, r.statuses())

		doc, ok := s.Current()
		require.True(t, ok)
		assert.Equal(t, "/tmp/test.txt", doc.Path)
		assert.False(t, doc.Modified)
	})

	t.Run("Should emit a failure and keep no document when open fails", func(t *testing.T) {
		gw := &fakeGateway{openFn: func(string) (document.Document, error) {
			return document.Document{}, errors.New("boom")
		}}
		s, r := newTestSession(gw)
		s.LoadFile("/tmp/missing.txt")

		require.Equal(t, []string{"failed"}, r.kinds())
		assert.Contains(t, r.failures()[0], "Cannot open file")
		_, ok := s.Current()
		assert.False(t, ok)
	})

	t.Run("Should keep the previous document after a failed load", func(t *testing.T) {
		s, r, _ := loadedSession(t, "/tmp/a.txt", "keep", "utf-8")
		s.LoadFile("/tmp/other.txt")

		require.Equal(t, []string{"failed"}, r.kinds())
		doc, ok := s.Current()
		require.True(t, ok)
		assert.Equal(t, "keep", doc.Content)
	})
}

// loadedSessionEvents loads the canonical test file without resetting the
// recorder, so load events stay visible.
func loadedSessionEvents(t *testing.T) (*Session, *recorder, *fakeGateway) {
	t.Helper()
	gw := &fakeGateway{openFn: openStub(map[string]document.Document{
		"/tmp/test.txt": {Path: "/tmp/test.txt", Content: "hello world", Encoding: "utf-8"},
	})}
	s, r := newTestSession(gw)
	s.LoadFile("/tmp/test.txt")
	return s, r, gw
}

func TestSaveFile(t *testing.T) {
	t.Run("Should save with utf-8 when nothing is loaded", func(t *testing.T) {
		gw := &fakeGateway{}
		s, r := newTestSession(gw)
		s.SaveFile("/tmp/out.txt", "data")

		require.Equal(t, []string{"saved", "status"}, r.kinds())
		assert.Equal(t, Saved{Path: "/tmp/out.txt"}, r.events[0])
		assert.Equal(t, []string{"Saved out.txt"}, r.statuses())
		require.Len(t, gw.saved, 1)
		assert.Equal(t, "utf-8", gw.saved[0].Encoding)

		doc, ok := s.Current()
		require.True(t, ok)
		assert.Equal(t, "/tmp/out.txt", doc.Path)
		assert.Equal(t, "data", doc.Content)
	})

	t.Run("Should preserve the loaded encoding", func(t *testing.T) {
		s, _, gw := loadedSession(t, "/tmp/a.txt", "café", "iso-8859-1")
		s.SaveFile("/tmp/a.txt", "café!")

		require.Len(t, gw.saved, 1)
		assert.Equal(t, "iso-8859-1", gw.saved[0].Encoding)
	})

	t.Run("Should emit a failure and keep the document when save fails", func(t *testing.T) {
		s, r, gw := loadedSession(t, "/tmp/a.txt", "original", "utf-8")
		gw.saveFn = func(document.Document) error { return errors.New("disk full") }
		s.SaveFile("/tmp/a.txt", "changed")

		require.Equal(t, []string{"failed"}, r.kinds())
		assert.Contains(t, r.failures()[0], "Cannot save file")
		doc, _ := s.Current()
		assert.Equal(t, "original", doc.Content)
	})
}

func TestApplyCleaning(t *testing.T) {
	all := textproc.Options{TrimWhitespace: true, CleanWhitespace: true, RemoveTabs: true}

	t.Run("Should only report status when no document is loaded", func(t *testing.T) {
		s, r := newTestSession(&fakeGateway{})
		s.ApplyCleaning(all, nil)

		require.Equal(t, []string{"status"}, r.kinds())
		assert.Equal(t, []string{"No document loaded"}, r.statuses())
	})

	t.Run("Should transform the document content", func(t *testing.T) {
		s, r, _ := loadedSession(t, "/tmp/a.txt", "  hello   world  \n\n", "utf-8")
		s.ApplyCleaning(all, nil)

		require.Equal(t, []string{"transformed", "status"}, r.kinds())
		assert.Equal(t, []string{"hello world"}, r.transformed())
		assert.Equal(t, []string{"Cleaning applied"}, r.statuses())

		doc, _ := s.Current()
		assert.Equal(t, "hello world", doc.Content)
		assert.True(t, doc.Modified)
	})

	t.Run("Should clean live editor text over the stored content", func(t *testing.T) {
		s, r, _ := loadedSession(t, "/tmp/a.txt", "stored", "utf-8")
		live := "a    b"
		s.ApplyCleaning(textproc.Options{CleanWhitespace: true}, &live)

		assert.Equal(t, []string{"a b"}, r.transformed())
	})
}

func TestReplaceAll(t *testing.T) {
	t.Run("Should replace every occurrence and report the count", func(t *testing.T) {
		s, r, _ := loadedSession(t, "/tmp/a.txt", "hello world", "utf-8")
		s.ReplaceAll("hello", "goodbye", nil)

		require.Equal(t, []string{"transformed", "status"}, r.kinds())
		assert.Equal(t, []string{"goodbye world"}, r.transformed())
		assert.Equal(t, []string{"Replaced 1 occurrence"}, r.statuses())
	})

	t.Run("Should use the plural for several occurrences", func(t *testing.T) {
		s, r, _ := loadedSession(t, "/tmp/a.txt", "ha ha ha", "utf-8")
		s.ReplaceAll("ha", "ho", nil)

		assert.Equal(t, []string{"ho ho ho"}, r.transformed())
		assert.Equal(t, []string{"Replaced 3 occurrences"}, r.statuses())
	})

	t.Run("Should do nothing for an empty find", func(t *testing.T) {
		s, r, _ := loadedSession(t, "/tmp/a.txt", "hello", "utf-8")
		s.ReplaceAll("", "x", nil)

		assert.Empty(t, r.events)
	})

	t.Run("Should only report status when no document is loaded", func(t *testing.T) {
		s, r := newTestSession(&fakeGateway{})
		s.ReplaceAll("a", "b", nil)

		require.Equal(t, []string{"status"}, r.kinds())
		assert.Equal(t, []string{"No document loaded"}, r.statuses())
	})

	t.Run("Should report zero replacements when nothing matches", func(t *testing.T) {
		s, r, _ := loadedSession(t, "/tmp/a.txt", "abc", "utf-8")
		s.ReplaceAll("zzz", "x", nil)

		assert.Equal(t, []string{"abc"}, r.transformed())
		assert.Equal(t, []string{"Replaced 0 occurrences"}, r.statuses())
	})

	t.Run("Should replace within live editor text", func(t *testing.T) {
		s, r, _ := loadedSession(t, "/tmp/a.txt", "stored", "utf-8")
		live := "live live"
		s.ReplaceAll("live", "wire", &live)

		assert.Equal(t, []string{"wire wire"}, r.transformed())
		assert.Equal(t, []string{"Replaced 2 occurrences"}, r.statuses())
	})
}

func TestConvertToUTF8(t *testing.T) {
	t.Run("Should only report status when no document is loaded", func(t *testing.T) {
		s, r := newTestSession(&fakeGateway{})
		s.ConvertToUTF8("x")

		require.Equal(t, []string{"status"}, r.kinds())
		assert.Contains(t, r.statuses()[0], "No document")
	})

	t.Run("Should not rewrite a document already in utf-8", func(t *testing.T) {
		s, r, gw := loadedSession(t, "/tmp/a.txt", "hi", "utf-8")
		s.ConvertToUTF8("hi")

		require.Equal(t, []string{"status"}, r.kinds())
		assert.Contains(t, r.statuses()[0], "Already")
		assert.Empty(t, gw.saved)
	})

	t.Run("Should treat utf-8-sig as already utf-8 regardless of case", func(t *testing.T) {
		s, r, gw := loadedSession(t, "/tmp/a.txt", "hi", "UTF-8-SIG")
		s.ConvertToUTF8("hi")

		assert.Contains(t, r.statuses()[0], "Already")
		assert.Empty(t, gw.saved)
	})

	t.Run("Should re-save a legacy document as utf-8", func(t *testing.T) {
		s, r, gw := loadedSession(t, "/tmp/a.txt", "café", "iso-8859-1")
		s.ConvertToUTF8("café")

		require.Equal(t, []string{"encoding", "saved", "status"}, r.kinds())
		assert.Equal(t, EncodingChanged{Name: "utf-8"}, r.events[0])
		assert.Equal(t, Saved{Path: "/tmp/a.txt"}, r.events[1])
		assert.Equal(t, []string{"Converted to UTF-8"}, r.statuses())

		require.Len(t, gw.saved, 1)
		assert.Equal(t, document.Document{Path: "/tmp/a.txt", Content: "café", Encoding: "utf-8"}, gw.saved[0])

		doc, _ := s.Current()
		assert.Equal(t, "utf-8", doc.Encoding)
	})

	t.Run("Should keep the old encoding when the write fails", func(t *testing.T) {
		s, r, gw := loadedSession(t, "/tmp/a.txt", "café", "iso-8859-1")
		gw.saveFn = func(document.Document) error { return errors.New("denied") }
		s.ConvertToUTF8("café")

		require.Equal(t, []string{"failed"}, r.kinds())
		assert.Contains(t, r.failures()[0], "Cannot save file")
		doc, _ := s.Current()
		assert.Equal(t, "iso-8859-1", doc.Encoding)
	})
}

func TestMergeList(t *testing.T) {
	t.Run("Should queue the current file under its display name", func(t *testing.T) {
		s, r, _ := loadedSession(t, "/tmp/test.txt", "hi", "utf-8")
		s.AddCurrentToMerge()

		assert.Equal(t, [][]string{{"test.txt"}}, r.mergeLists())
	})

	t.Run("Should refuse to queue when nothing is loaded", func(t *testing.T) {
		s, r := newTestSession(&fakeGateway{})
		s.AddCurrentToMerge()

		require.Equal(t, []string{"failed"}, r.kinds())
		assert.Equal(t, []string{"No file loaded"}, r.failures())
	})

	t.Run("Should queue several files at once", func(t *testing.T) {
		s, r := newTestSession(&fakeGateway{})
		s.AddFilesToMerge([]string{"/x/a.txt", "/y/b.txt"})

		assert.Equal(t, [][]string{{"a.txt", "b.txt"}}, r.mergeLists())
	})

	t.Run("Should silently skip a duplicate add", func(t *testing.T) {
		s, r, _ := loadedSession(t, "/tmp/test.txt", "hi", "utf-8")
		s.AddCurrentToMerge()
		r.reset()
		s.AddCurrentToMerge()

		assert.Empty(t, r.events)
		assert.Equal(t, []string{"test.txt"}, s.MergeNames())
	})

	t.Run("Should remove by index", func(t *testing.T) {
		s, r := newTestSession(&fakeGateway{})
		s.AddFilesToMerge([]string{"/x/a.txt", "/y/b.txt"})
		r.reset()
		s.RemoveFromMerge(0)

		assert.Equal(t, [][]string{{"b.txt"}}, r.mergeLists())
	})

	t.Run("Should ignore an out-of-range remove", func(t *testing.T) {
		s, r := newTestSession(&fakeGateway{})
		s.AddFilesToMerge([]string{"/x/a.txt"})
		r.reset()
		s.RemoveFromMerge(5)
		s.RemoveFromMerge(-1)

		assert.Empty(t, r.events)
	})

	t.Run("Should move an item forward against pre-removal indexes", func(t *testing.T) {
		s, r := newTestSession(&fakeGateway{})
		s.AddFilesToMerge([]string{"/x/a.txt", "/x/b.txt", "/x/c.txt"})
		r.reset()
		s.MoveMergeItem(0, 2)

		assert.Equal(t, [][]string{{"b.txt", "a.txt", "c.txt"}}, r.mergeLists())
	})

	t.Run("Should move an item backward to the exact index", func(t *testing.T) {
		s, r := newTestSession(&fakeGateway{})
		s.AddFilesToMerge([]string{"/x/a.txt", "/x/b.txt", "/x/c.txt"})
		r.reset()
		s.MoveMergeItem(2, 0)

		assert.Equal(t, [][]string{{"c.txt", "a.txt", "b.txt"}}, r.mergeLists())
	})

	t.Run("Should ignore a move to the same or an invalid index", func(t *testing.T) {
		s, r := newTestSession(&fakeGateway{})
		s.AddFilesToMerge([]string{"/x/a.txt", "/x/b.txt"})
		r.reset()
		s.MoveMergeItem(1, 1)
		s.MoveMergeItem(0, 9)
		s.MoveMergeItem(-1, 0)

		assert.Empty(t, r.events)
	})
}

func TestExecuteMerge(t *testing.T) {
	stub := map[string]document.Document{
		"/x/a.txt": {Path: "/x/a.txt", Content: "A", Encoding: "utf-8"},
		"/x/b.txt": {Path: "/x/b.txt", Content: "B", Encoding: "iso-8859-1"},
	}

	t.Run("Should refuse an empty list", func(t *testing.T) {
		s, r := newTestSession(&fakeGateway{})
		s.ExecuteMerge()

		require.Equal(t, []string{"failed"}, r.kinds())
		assert.Equal(t, []string{"No files in merge list"}, r.failures())
	})

	t.Run("Should join contents with the separator into a path-less document", func(t *testing.T) {
		gw := &fakeGateway{openFn: openStub(stub)}
		s, r := newTestSession(gw)
		s.AddFilesToMerge([]string{"/x/a.txt", "/x/b.txt"})
		s.SetMergeSeparator("\n---\n")
		r.reset()
		s.ExecuteMerge()

		require.Equal(t, []string{"replaced", "status"}, r.kinds())
		assert.Equal(t, DocumentReplaced{Content: "A\n---\nB"}, r.events[0])
		assert.Equal(t, []string{"Merged 2 files"}, r.statuses())

		doc, ok := s.Current()
		require.True(t, ok)
		assert.Equal(t, "", doc.Path)
		assert.Equal(t, "utf-8", doc.Encoding)
		assert.True(t, doc.Modified)
		assert.Equal(t, []string{"a.txt", "b.txt"}, s.MergeNames())
	})

	t.Run("Should use the singular for one file", func(t *testing.T) {
		gw := &fakeGateway{openFn: openStub(stub)}
		s, r := newTestSession(gw)
		s.AddFilesToMerge([]string{"/x/a.txt"})
		r.reset()
		s.ExecuteMerge()

		assert.Equal(t, []string{"Merged 1 file"}, r.statuses())
	})

	t.Run("Should abort on the first unreadable file", func(t *testing.T) {
		gw := &fakeGateway{openFn: openStub(stub)}
		s, r := newTestSession(gw)
		s.AddFilesToMerge([]string{"/x/a.txt", "/x/gone.txt", "/x/b.txt"})
		r.reset()
		s.ExecuteMerge()

		require.Equal(t, []string{"failed"}, r.kinds())
		assert.Contains(t, r.failures()[0], "Cannot read gone.txt")
		_, ok := s.Current()
		assert.False(t, ok)
		assert.Len(t, s.MergeNames(), 3)
	})

	t.Run("Should refuse to queue the merged result until it is saved", func(t *testing.T) {
		gw := &fakeGateway{openFn: openStub(stub)}
		s, r := newTestSession(gw)
		s.AddFilesToMerge([]string{"/x/a.txt", "/x/b.txt"})
		s.ExecuteMerge()
		r.reset()
		s.AddCurrentToMerge()

		require.Equal(t, []string{"failed"}, r.kinds())
		assert.Equal(t, []string{"No file loaded"}, r.failures())
	})
}

func TestSessionWithDiskGateway(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("messy   text  \n\n"), 0o644))

	s, r := func() (*Session, *recorder) {
		s := New(fileio.New(logging.Nop()), logging.Nop())
		r := &recorder{}
		s.Subscribe(r.record)
		return s, r
	}()

	s.LoadFile(path)
	require.Equal(t, []string{"replaced", "encoding", "status"}, r.kinds())

	doc, ok := s.Current()
	require.True(t, ok)
	live := doc.Content
	s.ApplyCleaning(textproc.Options{TrimWhitespace: true, CleanWhitespace: true}, &live)

	doc, _ = s.Current()
	assert.Equal(t, "messy text", doc.Content)

	s.SaveFile(path, doc.Content)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "messy text", string(raw))
}
