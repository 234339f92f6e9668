// Package document defines the in-memory representation of a text file.
package document

// Document is a snapshot of one text file: where it came from, its decoded
// content, the encoding it was read with, and whether it has unsaved edits.
// A merged or otherwise synthesized document has an empty Path.
type Document struct {
	Path     string
	Content  string
	Encoding string
	Modified bool
}

// WithContent returns a copy of d carrying text as its content and marked
// modified. The receiver is unchanged.
func (d Document) WithContent(text string) Document {
	d.Content = text
	d.Modified = true
	return d
}
