// Package tui is the interactive terminal front end. It owns no document
// state of its own: every operation goes through the session, and the
// screens repaint from the events the session emits.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"texttools/internal/session"
	"texttools/internal/settings"
	"texttools/internal/textproc"
	"texttools/internal/tui/state"
	"texttools/internal/tui/widgets/chips"
	"texttools/internal/tui/widgets/helpoverlay"
	"texttools/internal/tui/widgets/statusbar"
)

// textExtensions are the file suffixes offered by the picker.
var textExtensions = []string{
	".txt", ".md", ".rst", ".csv", ".log", ".json", ".yaml", ".yml", ".toml",
	".xml", ".html", ".htm", ".css", ".js", ".ts", ".py", ".sh", ".bash",
	".conf", ".cfg", ".ini", ".env",
}

// eventBuffer collects session events raised during an Update call. The
// model is copied by value on every update, so the buffer is shared by
// pointer and drained by whichever copy triggered the operation.
type eventBuffer struct {
	pending []session.Event
}

func (b *eventBuffer) push(ev session.Event) { b.pending = append(b.pending, ev) }

func (b *eventBuffer) drain() []session.Event {
	evs := b.pending
	b.pending = nil
	return evs
}

// Run starts the editor TUI over sess, optionally loading path first. It
// blocks until the user quits.
func Run(sess *session.Session, prefs settings.Settings, logger *log.Logger, path string) error {
	m := newModel(sess, prefs, logger)
	sess.Subscribe(m.buf.push)
	if path != "" {
		sess.LoadFile(path)
	}
	m.applyEvents()
	logger.Debug("starting editor", "path", path)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// ===== Model =====

type screen string

const (
	screenEditor    screen = "editor"    // the text buffer
	screenBrowse    screen = "browse"    // pick a file to open or queue
	screenFind      screen = "find"      // find & replace prompt
	screenMerge     screen = "merge"     // merge list manager
	screenSaveAs    screen = "saveas"    // destination path prompt
	screenSeparator screen = "separator" // merge separator prompt
	screenDiff      screen = "diff"      // cleaning preview
	screenHelp      screen = "help"
)

type model struct {
	sess *session.Session
	log  *log.Logger
	buf  *eventBuffer

	ui     state.UIState
	screen screen

	editor    textarea.Model
	picker    filepicker.Model
	findInput textinput.Model
	replInput textinput.Model
	pathInput textinput.Model
	sepInput  textinput.Model
	findFocus int  // 0 find, 1 replace
	browseAdd bool // picker feeds the merge list instead of opening

	// mirrors of session state for rendering
	path       string
	enc        string
	status     string
	errLine    string
	mergeNames []string
	mergeSel   int

	// cleaning preview
	diffBefore string
	diffAfter  string

	// activity history panel
	history     []string
	showHistory bool
	histOffset  int

	statusBar statusbar.StatusBar
	help      helpoverlay.HelpOverlay
}

func newModel(sess *session.Session, prefs settings.Settings, logger *log.Logger) model {
	ta := textarea.New()
	ta.Placeholder = "Open a file with o, or press i and start typing..."
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.MaxWidth = 0
	ta.ShowLineNumbers = prefs.Editor.LineNumbers

	fp := filepicker.New()
	if prefs.Files.DefaultDirectory != "" {
		fp.CurrentDirectory = prefs.Files.DefaultDirectory
	}
	fp.AllowedTypes = textExtensions
	fp.AutoHeight = true

	fi := textinput.New()
	fi.Placeholder = "find"
	ri := textinput.New()
	ri.Placeholder = "replace with"
	pi := textinput.New()
	pi.Placeholder = "~/notes/out.txt"
	si := textinput.New()
	si.Placeholder = `\n`

	return model{
		sess:      sess,
		log:       logger,
		buf:       &eventBuffer{},
		ui:        state.UIState{Mode: state.CMD, Wrap: prefs.Editor.WordWrap, MinCol: 30},
		screen:    screenEditor,
		editor:    ta,
		picker:    fp,
		findInput: fi,
		replInput: ri,
		pathInput: pi,
		sepInput:  si,
		enc:       "utf-8",
		statusBar: statusbar.NewStatusBar(),
		help:      helpoverlay.NewHelpOverlay(),
	}
}

func (m model) Init() tea.Cmd { return nil }

// options maps the UI toggles onto the cleaning pipeline.
func (m model) options() textproc.Options {
	return textproc.Options{
		TrimWhitespace:  m.ui.Trim,
		CleanWhitespace: m.ui.Collapse,
		RemoveTabs:      m.ui.Tabs,
	}
}

// applyEvents drains the buffer and folds each event into the view state.
func (m *model) applyEvents() {
	for _, ev := range m.buf.drain() {
		switch ev := ev.(type) {
		case session.DocumentReplaced:
			m.editor.SetValue(ev.Content)
			m.syncFromSession()
			m.errLine = ""
			m.screen = screenEditor
		case session.ContentTransformed:
			m.editor.SetValue(ev.Content)
			m.syncFromSession()
			m.errLine = ""
		case session.EncodingChanged:
			m.enc = ev.Name
		case session.Saved:
			m.syncFromSession()
		case session.Failed:
			m.errLine = ev.Message
			m.remember("ERROR " + ev.Message)
		case session.Status:
			m.status = ev.Message
			m.errLine = ""
			m.remember(ev.Message)
		case session.MergeListChanged:
			m.mergeNames = ev.Names
			if m.mergeSel >= len(ev.Names) {
				m.mergeSel = len(ev.Names) - 1
			}
			if m.mergeSel < 0 {
				m.mergeSel = 0
			}
		}
	}
}

func (m *model) syncFromSession() {
	if doc, ok := m.sess.Current(); ok {
		m.path = doc.Path
		m.enc = doc.Encoding
	}
}

func (m *model) remember(line string) {
	m.history = append(m.history, time.Now().Format("15:04:05")+"  "+line)
	m.histOffset = 0
}

// applyCleaningLive runs the enabled cleaning passes over the editor text.
func (m *model) applyCleaningLive() {
	live := m.editor.Value()
	m.sess.ApplyCleaning(m.options(), &live)
	m.applyEvents()
}

func (m *model) saveEditor() {
	if m.path == "" {
		m.openSaveAs("")
		return
	}
	m.sess.SaveFile(m.path, m.editor.Value())
	m.applyEvents()
}

func (m *model) openSaveAs(seed string) {
	m.pathInput.SetValue(seed)
	m.pathInput.CursorEnd()
	m.pathInput.Focus()
	m.screen = screenSaveAs
}

// ===== Update =====

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ui = state.Resize(m.ui, msg.Width, msg.Height)
		w := msg.Width - 4
		if w < 20 {
			w = 20
		}
		h := msg.Height - 6
		if h < 3 {
			h = 3
		}
		m.editor.SetWidth(w)
		m.editor.SetHeight(h)
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.screen {
		case screenEditor:
			return m.updateEditor(msg)
		case screenBrowse:
			return m.updateBrowse(msg)
		case screenFind:
			return m.updateFind(msg)
		case screenMerge:
			return m.updateMerge(msg)
		case screenSaveAs:
			return m.updateSaveAs(msg)
		case screenSeparator:
			return m.updateSeparator(msg)
		case screenDiff:
			return m.updateDiff(msg)
		case screenHelp:
			m.screen = screenEditor
			return m, nil
		}
		return m, nil

	default:
		// cursor blinks, directory reads and other component messages
		return m.routeMsg(msg)
	}
}

// routeMsg forwards non-key messages to the component the current screen
// is built on.
func (m model) routeMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case screenEditor:
		m.editor, cmd = m.editor.Update(msg)
	case screenBrowse:
		m.picker, cmd = m.picker.Update(msg)
	case screenFind:
		if m.findFocus == 0 {
			m.findInput, cmd = m.findInput.Update(msg)
		} else {
			m.replInput, cmd = m.replInput.Update(msg)
		}
	case screenSaveAs:
		m.pathInput, cmd = m.pathInput.Update(msg)
	case screenSeparator:
		m.sepInput, cmd = m.sepInput.Update(msg)
	}
	return m, cmd
}

func (m model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ui.Mode == state.INSERT {
		switch msg.String() {
		case "esc":
			m.ui = state.ToggleMode(m.ui)
			m.editor.Blur()
			return m, nil
		case "ctrl+s":
			m.saveEditor()
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		default:
			var cmd tea.Cmd
			m.editor, cmd = m.editor.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "i", "enter":
		m.ui = state.ToggleMode(m.ui)
		return m, m.editor.Focus()
	case "o":
		m.browseAdd = false
		m.screen = screenBrowse
		return m, m.picker.Init()
	case "s":
		m.saveEditor()
		return m, nil
	case "S":
		m.openSaveAs(m.path)
		return m, nil
	case "f":
		m.findFocus = 0
		m.replInput.Blur()
		m.screen = screenFind
		return m, m.findInput.Focus()
	case "m":
		m.screen = screenMerge
		return m, nil
	case "u":
		m.sess.ConvertToUTF8(m.editor.Value())
		m.applyEvents()
		return m, nil
	case "d":
		m.diffBefore = m.editor.Value()
		m.diffAfter = textproc.Apply(m.diffBefore, m.options())
		m.screen = screenDiff
		return m, nil
	case "1":
		m.ui = state.ToggleTrim(m.ui)
		m.applyCleaningLive()
		return m, nil
	case "2":
		m.ui = state.ToggleCollapse(m.ui)
		m.applyCleaningLive()
		return m, nil
	case "3":
		m.ui = state.ToggleTabs(m.ui)
		m.applyCleaningLive()
		return m, nil
	case "c":
		if err := clipboard.WriteAll(m.editor.Value()); err != nil {
			m.log.Warn("clipboard write failed", "error", err)
			m.errLine = "Clipboard unavailable: " + err.Error()
		} else {
			m.status = "Copied to clipboard"
		}
		return m, nil
	case "w":
		m.ui = state.ToggleWrap(m.ui)
		return m, nil
	case "v":
		m.ui = state.ToggleView(m.ui)
		return m, nil
	case "l":
		m.showHistory = !m.showHistory
		m.histOffset = 0
		return m, nil
	case "L":
		if path, err := saveHistory(m.history); err == nil {
			m.status = "Saved history to " + path
		} else {
			m.errLine = "Save failed: " + err.Error()
		}
		return m, nil
	case "j", "down":
		if m.showHistory && m.histOffset > 0 {
			m.histOffset--
		}
		return m, nil
	case "k", "up":
		if m.showHistory && m.histOffset < len(m.history) {
			m.histOffset++
		}
		return m, nil
	case "?":
		m.screen = screenHelp
		return m, nil
	}
	return m, nil
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.browseAdd {
			m.screen = screenMerge
		} else {
			m.screen = screenEditor
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		if m.browseAdd {
			m.sess.AddFilesToMerge([]string{path})
			m.applyEvents()
			m.screen = screenMerge
		} else {
			// on success the DocumentReplaced event switches to the editor;
			// on failure we stay here with the error line showing
			m.sess.LoadFile(path)
			m.applyEvents()
		}
		return m, cmd
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.errLine = "Not a text file: " + filepath.Base(path)
	}
	return m, cmd
}

func (m model) updateFind(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.findInput.Blur()
		m.replInput.Blur()
		m.screen = screenEditor
		return m, nil
	case "tab", "shift+tab":
		if m.findFocus == 0 {
			m.findFocus = 1
			m.findInput.Blur()
			return m, m.replInput.Focus()
		}
		m.findFocus = 0
		m.replInput.Blur()
		return m, m.findInput.Focus()
	case "enter":
		live := m.editor.Value()
		m.sess.ReplaceAll(m.findInput.Value(), m.replInput.Value(), &live)
		m.applyEvents()
		m.findInput.Blur()
		m.replInput.Blur()
		m.screen = screenEditor
		return m, nil
	}
	return m.routeMsg(msg)
}

func (m model) updateMerge(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "b":
		m.screen = screenEditor
		return m, nil
	case "up", "k":
		if m.mergeSel > 0 {
			m.mergeSel--
		}
		return m, nil
	case "down", "j":
		if m.mergeSel < len(m.mergeNames)-1 {
			m.mergeSel++
		}
		return m, nil
	case "K":
		if m.mergeSel > 0 {
			m.sess.MoveMergeItem(m.mergeSel, m.mergeSel-1)
			m.mergeSel--
			m.applyEvents()
		}
		return m, nil
	case "J":
		// moving the next item up one slot pushes the selection down
		if m.mergeSel+1 < len(m.mergeNames) {
			m.sess.MoveMergeItem(m.mergeSel+1, m.mergeSel)
			m.mergeSel++
			m.applyEvents()
		}
		return m, nil
	case "x", "delete":
		m.sess.RemoveFromMerge(m.mergeSel)
		m.applyEvents()
		return m, nil
	case "a":
		m.sess.AddCurrentToMerge()
		m.applyEvents()
		return m, nil
	case "A":
		m.browseAdd = true
		m.screen = screenBrowse
		return m, m.picker.Init()
	case "s":
		m.sepInput.SetValue(textproc.EscapeSeparator(m.sess.MergeSeparator()))
		m.sepInput.CursorEnd()
		m.screen = screenSeparator
		return m, m.sepInput.Focus()
	case "enter":
		m.sess.ExecuteMerge()
		m.applyEvents()
		return m, nil
	}
	return m, nil
}

func (m model) updateSaveAs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.pathInput.Blur()
		m.screen = screenEditor
		return m, nil
	case "enter":
		target := strings.TrimSpace(m.pathInput.Value())
		if target != "" {
			target = expandPath(target)
		}
		m.sess.SaveFile(target, m.editor.Value())
		m.applyEvents()
		if m.errLine == "" {
			m.pathInput.Blur()
			m.screen = screenEditor
		}
		return m, nil
	}
	return m.routeMsg(msg)
}

func (m model) updateSeparator(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.sepInput.Blur()
		m.screen = screenMerge
		return m, nil
	case "enter":
		m.sess.SetMergeSeparator(textproc.UnescapeSeparator(m.sepInput.Value()))
		m.sepInput.Blur()
		m.screen = screenMerge
		return m, nil
	}
	return m.routeMsg(msg)
}

func (m model) updateDiff(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "v":
		m.ui = state.ToggleView(m.ui)
		return m, nil
	case "w":
		m.ui = state.ToggleWrap(m.ui)
		return m, nil
	case "enter":
		m.applyCleaningLive()
		m.screen = screenEditor
		return m, nil
	case "esc", "d", "b":
		m.screen = screenEditor
		return m, nil
	}
	return m, nil
}

// ===== Views =====

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	selStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "205", Dark: "213"}).Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"}).Bold(true)
)

func (m model) View() string {
	switch m.screen {
	case screenEditor:
		return m.viewEditor()
	case screenBrowse:
		return m.viewBrowse()
	case screenFind:
		return m.viewFind()
	case screenMerge:
		return m.viewMerge()
	case screenSaveAs:
		return m.viewSaveAs()
	case screenSeparator:
		return m.viewSeparator()
	case screenDiff:
		return m.viewDiff()
	case screenHelp:
		return m.viewHelp()
	default:
		return ""
	}
}

func (m model) displayName() string {
	if m.path == "" {
		return "untitled"
	}
	return filepath.Base(m.path)
}

func (m model) modified() bool {
	if doc, ok := m.sess.Current(); ok {
		return doc.Modified || m.editor.Value() != doc.Content
	}
	return m.editor.Value() != ""
}

func (m model) statusLine() string {
	tags := state.ComputeTags(m.enc, m.modified(), len(m.mergeNames), m.editor.Value())
	return m.statusBar.View(m.ui, chips.View(tags, false), m.status)
}

func (m model) viewEditor() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TextTools - "+m.displayName()) + "\n")
	b.WriteString(m.editor.View() + "\n")
	b.WriteString(m.statusLine() + "\n")
	if m.errLine != "" {
		b.WriteString(errorStyle.Render(m.errLine) + "\n")
	}
	if m.showHistory {
		b.WriteString(renderHistory(m.history, m.ui.Width, m.histOffset) + "\n")
	}
	if m.ui.Mode == state.INSERT {
		b.WriteString(faintStyle.Render("Esc: command mode   Ctrl+S: save") + "\n")
	} else {
		b.WriteString(faintStyle.Render("i: edit   o: open   s: save   f: find   m: merge   1/2/3: cleaning   d: preview   u: utf-8   ?: help   q: quit") + "\n")
	}
	return b.String()
}

func (m model) viewBrowse() string {
	var b strings.Builder
	title := "Open file"
	if m.browseAdd {
		title = "Add to merge list"
	}
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(faintStyle.Render(m.picker.CurrentDirectory) + "\n\n")
	b.WriteString(m.picker.View() + "\n")
	if m.errLine != "" {
		b.WriteString(errorStyle.Render(m.errLine) + "\n")
	}
	b.WriteString(faintStyle.Render("enter: select   esc: back") + "\n")
	return b.String()
}

func (m model) viewFind() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Find & replace") + "\n\n")
	b.WriteString("Find:    " + m.findInput.View() + "\n")
	b.WriteString("Replace: " + m.replInput.View() + "\n\n")
	b.WriteString(faintStyle.Render("tab: switch field   enter: replace all   esc: cancel") + "\n")
	return b.String()
}

func (m model) viewMerge() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Merge list") + "\n")
	if len(m.mergeNames) == 0 {
		b.WriteString("  (no files queued)\n")
	} else {
		for i, name := range m.mergeNames {
			line := fmt.Sprintf("  %d. %s", i+1, name)
			if i == m.mergeSel {
				line = selStyle.Render(fmt.Sprintf("> %d. %s", i+1, name))
			}
			b.WriteString(line + "\n")
		}
	}
	b.WriteString("\n" + faintStyle.Render("Separator: "+textproc.EscapeSeparator(m.sess.MergeSeparator())) + "\n")
	b.WriteString(m.statusLine() + "\n")
	if m.errLine != "" {
		b.WriteString(errorStyle.Render(m.errLine) + "\n")
	}
	b.WriteString(faintStyle.Render("a: add current   A: add file   x: remove   K/J: move   s: separator   enter: merge   b: back   q: quit") + "\n")
	return b.String()
}

func (m model) viewSaveAs() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Save as") + "\n\n")
	b.WriteString("Path: " + m.pathInput.View() + "\n\n")
	if m.errLine != "" {
		b.WriteString(errorStyle.Render(m.errLine) + "\n")
	}
	b.WriteString(faintStyle.Render("enter: save   esc: cancel") + "\n")
	return b.String()
}

func (m model) viewSeparator() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Merge separator") + "\n\n")
	b.WriteString("Separator: " + m.sepInput.View() + "\n")
	b.WriteString(faintStyle.Render(`Escapes: \n newline, \t tab, \\ backslash`) + "\n\n")
	b.WriteString(faintStyle.Render("enter: set   esc: cancel") + "\n")
	return b.String()
}

func (m model) viewDiff() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Cleaning preview") + "\n")
	b.WriteString(faintStyle.Render(m.cleaningSummary()) + "\n\n")
	if m.ui.View == state.SideBySide {
		col := (m.ui.Width - 7) / 2
		if col < 10 {
			col = 10
		}
		b.WriteString(renderSideBySideDiff(m.diffBefore, m.diffAfter, col, m.ui.Wrap))
	} else {
		b.WriteString(renderUnifiedDiff(m.diffBefore, m.diffAfter, m.ui.Wrap))
	}
	b.WriteString("\n" + faintStyle.Render("enter: apply   v: view   esc: back") + "\n")
	return b.String()
}

func (m model) cleaningSummary() string {
	var on []string
	if m.ui.Trim {
		on = append(on, "trim whitespace")
	}
	if m.ui.Collapse {
		on = append(on, "clean whitespace")
	}
	if m.ui.Tabs {
		on = append(on, "remove tabs")
	}
	if len(on) == 0 {
		return "No cleaning passes enabled (1/2/3 to toggle)"
	}
	return "Passes: " + strings.Join(on, ", ")
}

func (m model) viewHelp() string {
	return m.help.View(m.ui) + "\n" + faintStyle.Render("any key: back") + "\n"
}
