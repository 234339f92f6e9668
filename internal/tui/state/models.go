package state

// EditorMode represents the editor's current input mode.
type EditorMode int

const (
	CMD EditorMode = iota
	INSERT
)

// DiffMode controls how the cleaning preview is rendered.
type DiffMode int

const (
	Unified DiffMode = iota
	SideBySide
)

// UIState holds cross-screen UI state used by the status bar, the cleaning
// preview and the editor.
type UIState struct {
	// Mode & view
	Mode EditorMode
	Wrap bool
	View DiffMode

	// Layout
	Width  int
	Height int
	MinCol int

	// Cleaning pass toggles
	Trim     bool
	Collapse bool
	Tabs     bool

	// Notices and ephemeral messages
	Notice string
}
