package state

// ToggleWrap flips the Wrap flag and returns a new state copy.
func ToggleWrap(s UIState) UIState {
	s.Wrap = !s.Wrap
	return s
}

// ToggleMode switches between CMD and INSERT modes and sets a brief notice.
func ToggleMode(s UIState) UIState {
	if s.Mode == CMD {
		s.Mode = INSERT
		s.Notice = "[INSERT]"
	} else {
		s.Mode = CMD
		s.Notice = "[CMD]"
	}
	return s
}

// ToggleView switches the cleaning preview between Unified and SideBySide.
func ToggleView(s UIState) UIState {
	if s.View == Unified {
		s.View = SideBySide
	} else {
		s.View = Unified
	}
	return s
}

// Resize records the new terminal size and falls back to the unified
// preview when the window is too narrow for two columns.
// Threshold heuristic: need at least 2*MinCol plus 3 chars for separator/gutters.
func Resize(s UIState, width, height int) UIState {
	s.Width = width
	s.Height = height
	threshold := 2*s.MinCol + 3
	if s.View == SideBySide && s.Width < threshold {
		s.View = Unified
		s.Notice = "Narrow width: using unified view"
	}
	return s
}

func noticeFor(name string, on bool) string {
	if on {
		return name + ": on"
	}
	return name + ": off"
}

// ToggleTrim flips the trim cleaning pass and sets a notice.
func ToggleTrim(s UIState) UIState {
	s.Trim = !s.Trim
	s.Notice = noticeFor("Trim whitespace", s.Trim)
	return s
}

// ToggleCollapse flips the space collapsing pass and sets a notice.
func ToggleCollapse(s UIState) UIState {
	s.Collapse = !s.Collapse
	s.Notice = noticeFor("Clean whitespace", s.Collapse)
	return s
}

// ToggleTabs flips the indentation removal pass and sets a notice.
func ToggleTabs(s UIState) UIState {
	s.Tabs = !s.Tabs
	s.Notice = noticeFor("Remove tabs", s.Tabs)
	return s
}
