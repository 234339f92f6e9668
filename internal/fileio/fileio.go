// Package fileio reads and writes documents on disk. Reads detect and
// decode the file's encoding; writes are atomic, going through a temp file
// in the destination directory followed by a rename so a crash never
// leaves a half-written file behind.
package fileio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"texttools/internal/document"
	"texttools/internal/encodings"
)

var (
	// ErrNotFound marks open or save failures caused by a missing file
	// or directory.
	ErrNotFound = errors.New("file not found")
	// ErrPermission marks failures caused by filesystem permissions.
	ErrPermission = errors.New("permission denied")
	// ErrEmptyPath is returned by Save when the document has no path.
	ErrEmptyPath = errors.New("empty file path")
)

// classify wraps err with the operation and file name, folding the os
// error into one of the package sentinels where it matches.
func classify(op, path string, err error) error {
	base := filepath.Base(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%s %s: %w", op, base, ErrNotFound)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%s %s: %w", op, base, ErrPermission)
	}
	return fmt.Errorf("%s %s: %w", op, base, err)
}

// Gateway performs all disk access for documents.
type Gateway struct {
	log *log.Logger
}

// New returns a Gateway logging through logger.
func New(logger *log.Logger) *Gateway {
	return &Gateway{log: logger}
}

// Open reads the file at path, detects its encoding and returns the
// decoded document. Decoding never fails; bytes the detected encoding
// cannot represent come back as U+FFFD.
func (g *Gateway) Open(path string) (document.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return document.Document{}, classify("open", path, err)
	}
	enc := encodings.Detect(raw)
	doc := document.Document{
		Path:     path,
		Content:  encodings.DecodeText(raw, enc),
		Encoding: enc,
	}
	g.log.Info("opened file", "path", path, "encoding", enc, "bytes", len(raw))
	return doc, nil
}

// Save writes doc.Content to doc.Path in doc.Encoding. The write goes to a
// temp file in the same directory which is then renamed over the
// destination; on any failure the temp file is removed and the previous
// file contents stay intact.
func (g *Gateway) Save(doc document.Document) error {
	if doc.Path == "" {
		return ErrEmptyPath
	}
	data, err := encodings.EncodeText(doc.Content, doc.Encoding)
	if err != nil {
		return fmt.Errorf("save %s: %w", filepath.Base(doc.Path), err)
	}

	dir := filepath.Dir(doc.Path)
	tmp, err := os.CreateTemp(dir, filepath.Base(doc.Path)+".tmp-*")
	if err != nil {
		return classify("save", doc.Path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return classify("save", doc.Path, err)
	}
	if err := tmp.Close(); err != nil {
		return classify("save", doc.Path, err)
	}
	if err := os.Rename(tmpName, doc.Path); err != nil {
		return classify("save", doc.Path, err)
	}
	g.log.Info("saved file", "path", doc.Path, "encoding", doc.Encoding, "bytes", len(data))
	return nil
}
