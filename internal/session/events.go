package session

// Event is a notification delivered synchronously to subscribers from
// inside a session operation. The concrete types below are the complete
// set; values are immutable snapshots safe to keep.
type Event interface {
	event()
}

// DocumentReplaced announces that a whole new document body is in effect,
// after a load or a merge.
type DocumentReplaced struct {
	Content string
}

// ContentTransformed announces an in-place transformation of the current
// content, such as cleaning or find/replace.
type ContentTransformed struct {
	Content string
}

// EncodingChanged announces the current document's encoding name.
type EncodingChanged struct {
	Name string
}

// Saved announces a successful write of the document at Path.
type Saved struct {
	Path string
}

// Failed carries a user-facing message for an operation that did not
// complete.
type Failed struct {
	Message string
}

// Status carries a user-facing progress or outcome message.
type Status struct {
	Message string
}

// MergeListChanged carries the display names of the merge list after any
// addition, removal or reorder.
type MergeListChanged struct {
	Names []string
}

func (DocumentReplaced) event()   {}
func (ContentTransformed) event() {}
func (EncodingChanged) event()    {}
func (Saved) event()              {}
func (Failed) event()             {}
func (Status) event()             {}
func (MergeListChanged) event()   {}
