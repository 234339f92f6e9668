package session

import "path/filepath"

// DefaultSeparator is the text inserted between merged files when the user
// has not chosen one.
const DefaultSeparator = "\n"

// mergeQueue holds the ordered file paths queued for merging. Paths are
// unique; adding a duplicate is a no-op.
type mergeQueue struct {
	paths     []string
	separator string
}

func newMergeQueue() *mergeQueue {
	return &mergeQueue{separator: DefaultSeparator}
}

// add appends path unless it is already queued, reporting whether the
// queue changed.
func (q *mergeQueue) add(path string) bool {
	for _, p := range q.paths {
		if p == path {
			return false
		}
	}
	q.paths = append(q.paths, path)
	return true
}

// addAll appends each path in order, skipping duplicates, and reports
// whether anything was added.
func (q *mergeQueue) addAll(paths []string) bool {
	changed := false
	for _, p := range paths {
		if q.add(p) {
			changed = true
		}
	}
	return changed
}

// removeAt deletes the entry at i, reporting whether i was in range.
func (q *mergeQueue) removeAt(i int) bool {
	if i < 0 || i >= len(q.paths) {
		return false
	}
	q.paths = append(q.paths[:i], q.paths[i+1:]...)
	return true
}

// move relocates the entry at from so it lands at index to, where to is
// interpreted against the list as it was before the entry came out. Moving
// forward therefore ends one short of to: on [a b c], move(0,2) gives
// [b a c] and move(2,0) gives [c a b]. Out-of-range indexes and from==to
// change nothing.
func (q *mergeQueue) move(from, to int) bool {
	n := len(q.paths)
	if from == to || from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	item := q.paths[from]
	rest := append(q.paths[:from:from], q.paths[from+1:]...)
	insert := to
	if to > from {
		insert--
	}
	q.paths = append(rest[:insert:insert], append([]string{item}, rest[insert:]...)...)
	return true
}

func (q *mergeQueue) len() int { return len(q.paths) }

// all returns a copy of the queued paths in order.
func (q *mergeQueue) all() []string {
	out := make([]string, len(q.paths))
	copy(out, q.paths)
	return out
}

// displayNames returns the base name of each queued path, in order.
func (q *mergeQueue) displayNames() []string {
	names := make([]string, len(q.paths))
	for i, p := range q.paths {
		names[i] = filepath.Base(p)
	}
	return names
}
