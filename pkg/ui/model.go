package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/structless/pkg/config"
	"github.com/vanderheijden86/structless/pkg/debug"
	"github.com/vanderheijden86/structless/pkg/outline"
	"github.com/vanderheijden86/structless/pkg/syntax"
	"github.com/vanderheijden86/structless/pkg/watcher"
)

// Default dimensions used until the terminal reports its size.
const (
	defaultWidth  = 100
	defaultHeight = 30
)

// statusTTL is how long a transient status message stays in the footer.
const statusTTL = 3 * time.Second

// FileChangedMsg is sent when the input file changes on disk.
type FileChangedMsg struct{}

// FileErrorMsg is sent when watching the input fails, for example because
// it was removed.
type FileErrorMsg struct {
	Err error
}

// statusClearMsg clears the status message it was scheduled for.
type statusClearMsg struct {
	seq int
}

// WatchFileCmd returns a command that waits for the next change or error
// of w. Model re-arms it after every message, so all reloads go through
// the single Update loop.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-w.Changed():
			return FileChangedMsg{}
		case err := <-w.Errors():
			return FileErrorMsg{Err: err}
		}
	}
}

// Options configures a Model.
type Options struct {
	// Path is the input path; "" or "-" is standard input.
	Path string
	// Config supplies display settings.
	Config config.Config
	// Policy is the initial fold policy.
	Policy outline.FoldPolicy
	// Folds remembers fold state between runs; nil disables it.
	Folds *FoldStore
	// Watcher drives live reload; nil disables it.
	Watcher *watcher.Watcher
	// Reload re-reads and re-parses the input after a change.
	Reload func() (*syntax.Tree, error)
	// CopyText writes to the clipboard; defaults to clipboard.WriteAll.
	CopyText func(string) error
}

// Model is the Bubble Tea model of the viewer. All view state lives in the
// outline engine; Model adds input modes and layout.
type Model struct {
	engine *outline.Engine
	opts   Options

	theme   Theme
	keys    KeyMap
	help    help.Model
	search  textinput.Model
	outline OutlineView
	source  SourceView

	searching bool
	showHelp  bool
	helpText  string
	helpWidth int

	width  int
	height int

	statusMsg     string
	statusIsError bool
	statusSeq     int
}

// NewModel returns a model browsing tree. Remembered folds are restored
// when opts.Folds has state for the input.
func NewModel(tree *syntax.Tree, opts Options) Model {
	if opts.CopyText == nil {
		opts.CopyText = clipboard.WriteAll
	}
	theme := DefaultTheme(lipgloss.DefaultRenderer())

	engine := outline.New(tree, opts.Policy)
	if paths, ok := opts.Folds.Load(opts.Path, tree.Grammar); ok {
		n := engine.RestoreFolds(paths)
		debug.Log("restored %d of %d folds for %s", n, len(paths), opts.Path)
	}

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search"
	search.PromptStyle = theme.SearchPrompt
	search.Cursor.Style = theme.SearchPrompt

	h := help.New()
	h.ShortSeparator = " · "

	m := Model{
		engine:  engine,
		opts:    opts,
		theme:   theme,
		keys:    DefaultKeyMap(),
		help:    h,
		search:  search,
		outline: NewOutlineView(theme, opts.Config.UI.KindWidth, opts.Config.UI.ShowRanges),
		source: NewSourceView(theme, opts.Config.UI.HighlightStyle,
			syntax.LexerName(tree.Grammar, tree.Source, opts.Path)),
		width:  defaultWidth,
		height: defaultHeight,
	}
	m.layout()
	return m
}

// Init starts watching the input when live reload is enabled.
func (m Model) Init() tea.Cmd {
	if m.opts.Watcher != nil {
		return WatchFileCmd(m.opts.Watcher)
	}
	return nil
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case FileChangedMsg:
		cmd := tea.Batch(m.reload(), m.Init())
		return m, cmd

	case FileErrorMsg:
		cmd := tea.Batch(m.setStatus(fmt.Sprintf("watch: %v", msg.Err), true), m.Init())
		return m, cmd

	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.statusMsg = ""
			m.statusIsError = false
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.searching {
		return m.handleSearchKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.ensureHelp()
		return m, nil
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.layout()
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.ClearSearch):
		if m.engine.Search() != "" {
			m.search.SetValue("")
			m.apply(outline.Event{Op: outline.OpSearch})
			m.layout()
		}
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		cmd := m.copySelected()
		return m, cmd
	}

	if m.engine.Mode() == outline.ModeSource {
		switch {
		case key.Matches(msg, m.keys.PageUp):
			m.source.viewport.PageUp()
			return m, nil
		case key.Matches(msg, m.keys.PageDown):
			m.source.viewport.PageDown()
			return m, nil
		}
	}

	for _, b := range m.keys.opBindings() {
		if key.Matches(msg, b.binding) {
			m.apply(outline.Event{Op: b.op, N: m.pageSize()})
			return m, nil
		}
	}
	return m, nil
}

// handleMouse scrolls the source pane, or moves the cursor with the wheel
// in the outline.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.engine.Mode() == outline.ModeSource {
		cmd := m.source.Update(msg)
		return m, cmd
	}
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.apply(outline.Event{Op: outline.OpUp})
	case tea.MouseButtonWheelDown:
		m.apply(outline.Event{Op: outline.OpDown})
	}
	return m, nil
}

// handleSearchKeys edits the search term. The filter follows every
// keystroke; enter and esc leave editing and keep the term.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.layout()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.apply(outline.Event{Op: outline.OpSearch, Term: m.search.Value()})
	return m, cmd
}

// apply runs one engine transition, then persists folds and keeps the
// views in sync.
func (m *Model) apply(ev outline.Event) {
	if m.engine.Apply(ev) {
		m.saveFolds()
	}
	m.sync()
}

// sync scrolls the outline to the cursor and loads the selection into the
// source view.
func (m *Model) sync() {
	m.outline.Follow(m.engine.Cursor(), len(m.engine.Lines()))
	if m.engine.Mode() == outline.ModeSource {
		m.source.Show(m.engine.Tree(), m.engine.Selected())
	}
}

func (m *Model) saveFolds() {
	if m.opts.Folds == nil {
		return
	}
	err := m.opts.Folds.Save(m.opts.Path, m.engine.Tree().Grammar, m.engine.Folds().Paths())
	if err != nil {
		debug.Log("saving folds: %v", err)
	}
}

// reload re-parses the input and swaps the tree in, keeping folds and
// selection by path. On failure the current tree stays.
func (m *Model) reload() tea.Cmd {
	if m.opts.Reload == nil {
		return nil
	}
	tree, err := m.opts.Reload()
	if err != nil {
		return m.setStatus(fmt.Sprintf("reload failed: %v", err), true)
	}
	m.engine.Replace(tree)
	m.source.SetLexer(syntax.LexerName(tree.Grammar, tree.Source, m.opts.Path))
	m.sync()
	debug.Dump("reload", struct {
		Grammar  syntax.Grammar
		Nodes    int
		Lines    int
		Selected string
	}{tree.Grammar, tree.Len(), len(m.engine.Lines()), m.engine.Selected().Kind})
	return m.setStatus(fmt.Sprintf("reloaded (%d nodes)", tree.Len()), false)
}

func (m *Model) copySelected() tea.Cmd {
	text := m.engine.SelectedText()
	if err := m.opts.CopyText(text); err != nil {
		return m.setStatus(fmt.Sprintf("clipboard: %v", err), true)
	}
	return m.setStatus(fmt.Sprintf("copied %d bytes (%s)", len(text), m.engine.Selected().Kind), false)
}

// setStatus shows msg in the footer and schedules its removal.
func (m *Model) setStatus(msg string, isError bool) tea.Cmd {
	m.statusSeq++
	m.statusMsg = msg
	m.statusIsError = isError
	seq := m.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusClearMsg{seq: seq}
	})
}

// layout sizes the body below the header and above the search bar and
// footer.
func (m *Model) layout() {
	h := m.bodyHeight()
	m.outline.SetSize(m.width, h)
	m.source.SetSize(m.width, h)
	m.search.Width = max(m.width-4, 1)
	m.help.Width = m.width
	m.sync()
}

func (m Model) searchBarVisible() bool {
	return m.searching || m.engine.Search() != ""
}

func (m Model) bodyHeight() int {
	h := m.height - 2 // header and footer
	if m.searchBarVisible() {
		h--
	}
	return max(h, 1)
}

func (m Model) pageSize() int {
	return m.outline.VisibleCount(len(m.engine.Lines()))
}

func (m *Model) ensureHelp() {
	if m.helpText == "" || m.helpWidth != m.width {
		m.helpText = renderHelp(m.keys, m.width)
		m.helpWidth = m.width
	}
}

// View renders header, body, search bar and footer.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.renderHeader())
	sb.WriteByte('\n')

	switch {
	case m.showHelp:
		sb.WriteString(clipLines(m.helpText, m.bodyHeight()))
	case m.engine.Mode() == outline.ModeSource:
		sb.WriteString(m.source.View())
	default:
		sb.WriteString(m.outline.View(m.engine))
	}
	sb.WriteByte('\n')

	if m.searchBarVisible() {
		sb.WriteString(m.renderSearchBar())
		sb.WriteByte('\n')
	}
	sb.WriteString(m.renderFooter())
	return sb.String()
}

func (m Model) renderHeader() string {
	name := m.opts.Path
	switch name {
	case "", "-":
		name = "<stdin>"
	default:
		name = filepath.Base(name)
	}
	info := fmt.Sprintf("%s · %s · %d/%d · %s",
		name, m.engine.Tree().Grammar, m.engine.Cursor()+1, len(m.engine.Lines()), m.engine.Mode())
	return m.theme.Header.Width(max(m.width, 1)).Render(truncate("structless  "+info, max(m.width-2, 1)))
}

func (m Model) renderSearchBar() string {
	bar := m.search.View()
	if !m.searching {
		bar = m.theme.SearchPrompt.Render("/") + m.engine.Search()
	}
	if m.engine.NoMatches() {
		bar += "  " + m.theme.SearchNoMatches.Render("no matches")
	}
	if m.searching {
		bar += "  " + RenderKeyHint("enter/esc", "done")
	}
	return bar
}

func (m Model) renderFooter() string {
	if m.statusMsg != "" {
		style := m.theme.StatusOK
		prefix := "✓ "
		if m.statusIsError {
			style = m.theme.StatusError
			prefix = "✗ "
		}
		return style.Render(truncate(prefix+m.statusMsg, max(m.width-4, 1)))
	}
	if m.showHelp {
		return m.theme.MutedText.Render("press any key to close help")
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

// clipLines returns at most n lines of s.
func clipLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

// Engine returns the outline engine, for inspection.
func (m Model) Engine() *outline.Engine { return m.engine }

// Searching reports whether the search term is being edited.
func (m Model) Searching() bool { return m.searching }

// HelpVisible reports whether the help overlay is shown.
func (m Model) HelpVisible() bool { return m.showHelp }

// Status returns the footer status message and whether it is an error.
func (m Model) Status() (string, bool) { return m.statusMsg, m.statusIsError }

// OutlineOffset returns the index of the first rendered outline line.
func (m Model) OutlineOffset() int { return m.outline.Offset() }
