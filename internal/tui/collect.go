package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"texttools/internal/textproc"
)

type collectModel struct {
	list      []string
	cursor    int
	inputMode bool
	editSep   bool // input edits the separator instead of adding a path
	inputBuf  string
	suggest   []string
	separator string
	done      bool
	cancelled bool
	msg       string
}

// CollectMergePaths opens a small TUI to gather the files to merge and the
// separator. It returns the final list, the separator, and whether the user
// confirmed with enter rather than cancelling.
func CollectMergePaths(seed []string, separator string) (paths []string, sep string, ok bool, err error) {
	m := collectModel{list: append([]string{}, seed...), separator: separator}
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, rerr := p.Run()
	if rerr != nil {
		return nil, separator, false, rerr
	}
	fm, _ := final.(collectModel)
	if fm.cancelled {
		return nil, separator, false, nil
	}
	return fm.list, fm.separator, fm.done, nil
}

func (m collectModel) Init() tea.Cmd { return nil }

func (m *collectModel) addPath(path string) {
	if strings.TrimSpace(path) == "" {
		return
	}
	p := expandPath(path)
	if _, err := os.Stat(p); err != nil {
		m.msg = fmt.Sprintf("! not found: %s", p)
		return
	}
	m.list = append(m.list, p)
	m.inputBuf = ""
	m.msg = ""
}

// computeSuggestions offers directory-based completions for the input buffer.
func (m *collectModel) computeSuggestions() {
	in := m.inputBuf
	if strings.TrimSpace(in) == "" {
		m.suggest = nil
		return
	}
	expanded := in
	if strings.HasPrefix(in, "~") {
		expanded = expandPath(in)
	}
	dir := expanded
	base := ""
	if fi, err := os.Stat(expanded); err == nil && fi.IsDir() {
		// ok
	} else {
		dir = filepath.Dir(expanded)
		base = filepath.Base(expanded)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		m.suggest = nil
		return
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if base == "" || strings.Contains(strings.ToLower(name), strings.ToLower(base)) {
			cand := filepath.Join(dir, name)
			// present with ~/ when within home
			if h, _ := os.UserHomeDir(); h != "" && strings.HasPrefix(cand, h) {
				cand = "~" + strings.TrimPrefix(cand, h)
			}
			out = append(out, cand)
		}
		if len(out) >= 8 {
			break
		}
	}
	m.suggest = out
}

func expandPath(p string) string {
	p = strings.TrimSpace(p)
	if strings.HasPrefix(p, "~/") {
		if h, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(h, p[2:])
		}
	}
	p = os.ExpandEnv(p)
	if !filepath.IsAbs(p) {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
	}
	return p
}

func (m collectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		k := msg.String()
		if m.inputMode {
			switch k {
			case "enter":
				m.inputMode = false
				if m.editSep {
					m.separator = textproc.UnescapeSeparator(m.inputBuf)
					m.editSep = false
					m.inputBuf = ""
				} else {
					m.addPath(m.inputBuf)
				}
				return m, nil
			case "tab":
				if !m.editSep && len(m.suggest) > 0 {
					m.inputBuf = m.suggest[0]
				}
				return m, nil
			case "esc":
				m.inputMode = false
				m.editSep = false
				m.inputBuf = ""
				return m, nil
			default:
				if msg.Type == tea.KeyBackspace || msg.Type == tea.KeyCtrlH {
					if n := len([]rune(m.inputBuf)); n > 0 {
						r := []rune(m.inputBuf)
						m.inputBuf = string(r[:n-1])
					}
				} else if msg.Type == tea.KeyRunes {
					m.inputBuf += string(msg.Runes)
				}
				if !m.editSep {
					m.computeSuggestions()
				}
				return m, nil
			}
		}
		switch k {
		case "q", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		case "a":
			m.inputMode = true
			m.editSep = false
			m.inputBuf = ""
			m.suggest = nil
			return m, nil
		case "s":
			m.inputMode = true
			m.editSep = true
			m.inputBuf = textproc.EscapeSeparator(m.separator)
			return m, nil
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "j":
			if m.cursor < len(m.list)-1 {
				m.cursor++
			}
			return m, nil
		case "K":
			if m.cursor > 0 {
				m.list[m.cursor-1], m.list[m.cursor] = m.list[m.cursor], m.list[m.cursor-1]
				m.cursor--
			}
			return m, nil
		case "J":
			if m.cursor < len(m.list)-1 {
				m.list[m.cursor], m.list[m.cursor+1] = m.list[m.cursor+1], m.list[m.cursor]
				m.cursor++
			}
			return m, nil
		case "x", "delete":
			if len(m.list) > 0 && m.cursor >= 0 && m.cursor < len(m.list) {
				m.list = append(m.list[:m.cursor], m.list[m.cursor+1:]...)
				if m.cursor >= len(m.list) && m.cursor > 0 {
					m.cursor--
				}
			}
			return m, nil
		case "enter":
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m collectModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Merge files") + "\n\n")
	if m.msg != "" {
		b.WriteString(errorStyle.Render(m.msg) + "\n")
	}
	b.WriteString("Files:\n")
	if len(m.list) == 0 {
		b.WriteString("  (none)\n")
	}
	for i, p := range m.list {
		line := "  " + p
		if i == m.cursor {
			line = selStyle.Render("> " + p)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\nSeparator: " + textproc.EscapeSeparator(m.separator) + "\n")
	if m.inputMode {
		prompt := "Add path: "
		if m.editSep {
			prompt = "Separator: "
		}
		b.WriteString("\n" + prompt + m.inputBuf + "\n")
		for _, s := range m.suggest {
			b.WriteString(faintStyle.Render("  - "+s) + "\n")
		}
		if m.editSep {
			b.WriteString(faintStyle.Render(`enter: set   esc: cancel   (\n \t \\ escapes)`) + "\n")
		} else {
			b.WriteString(faintStyle.Render("enter: add   tab: autocomplete   esc: cancel") + "\n")
		}
	} else {
		b.WriteString("\n" + faintStyle.Render("Keys: a add   x delete   K/J move   s separator   enter merge   q quit") + "\n")
	}
	return b.String()
}
