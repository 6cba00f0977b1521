package ui_test

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/structless/pkg/config"
	"github.com/vanderheijden86/structless/pkg/outline"
	"github.com/vanderheijden86/structless/pkg/syntax"
	"github.com/vanderheijden86/structless/pkg/testutil"
	"github.com/vanderheijden86/structless/pkg/ui"
)

const scenario = "a(b(c)d)e"

func newModel(t *testing.T, policy outline.FoldPolicy, mutate func(*ui.Options)) ui.Model {
	t.Helper()
	opts := ui.Options{
		Config:   config.DefaultConfig(),
		Policy:   policy,
		CopyText: func(string) error { return nil },
	}
	if mutate != nil {
		mutate(&opts)
	}
	return ui.NewModel(testutil.Parse(scenario), opts)
}

func sendKey(t *testing.T, m ui.Model, keys string) ui.Model {
	t.Helper()
	for _, r := range keys {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(ui.Model)
	}
	return m
}

func sendSpecialKey(t *testing.T, m ui.Model, k tea.KeyType) ui.Model {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: k})
	return updated.(ui.Model)
}

func TestNavigationKeys(t *testing.T) {
	m := newModel(t, outline.Unfolded, nil)

	m = sendKey(t, m, "j")
	if got := m.Engine().Cursor(); got != 1 {
		t.Fatalf("j: cursor = %d, want 1", got)
	}
	m = sendSpecialKey(t, m, tea.KeyDown)
	if got := m.Engine().Cursor(); got != 2 {
		t.Fatalf("down: cursor = %d, want 2", got)
	}
	m = sendKey(t, m, "G")
	if got := m.Engine().Cursor(); got != 14 {
		t.Errorf("G: cursor = %d, want 14", got)
	}
	m = sendKey(t, m, "j")
	if got := m.Engine().Cursor(); got != 14 {
		t.Errorf("j at bottom: cursor = %d, want 14", got)
	}
	m = sendKey(t, m, "g")
	m = sendKey(t, m, "k")
	if got := m.Engine().Cursor(); got != 0 {
		t.Errorf("k at top: cursor = %d, want 0", got)
	}
}

func TestStructureKeys(t *testing.T) {
	m := newModel(t, outline.Unfolded, nil)
	m = sendKey(t, m, "j") // a
	m = sendKey(t, m, "]") // (b(c)d)
	if got := m.Engine().SelectedText(); got != "(b(c)d)" {
		t.Fatalf("] selected %q", got)
	}
	m = sendKey(t, m, "l") // unfolded, so steps into the first child
	if got := m.Engine().SelectedText(); got != "(" {
		t.Errorf("l selected %q, want (", got)
	}
	m = sendKey(t, m, "p")
	if got := m.Engine().SelectedText(); got != "(b(c)d)" {
		t.Errorf("p selected %q", got)
	}
	m = sendKey(t, m, "[")
	if got := m.Engine().SelectedText(); got != "a" {
		t.Errorf("[ selected %q", got)
	}
}

func TestFoldKeys(t *testing.T) {
	m := newModel(t, outline.Folded, nil)
	if got := len(m.Engine().Lines()); got != 1 {
		t.Fatalf("folded start: %d lines", got)
	}

	m = sendKey(t, m, " ")
	if got := len(m.Engine().Lines()); got != 5 {
		t.Errorf("space: %d lines, want 5", got)
	}
	m = sendKey(t, m, "=")
	if got := len(m.Engine().Lines()); got != 15 {
		t.Errorf("=: %d lines, want 15", got)
	}
	m = sendKey(t, m, "-")
	if got := len(m.Engine().Lines()); got != 1 {
		t.Errorf("-: %d lines, want 1", got)
	}
	m = sendSpecialKey(t, m, tea.KeyRight)
	if got := len(m.Engine().Lines()); got != 5 {
		t.Errorf("right: %d lines, want 5", got)
	}
	// A second unfold on the unfolded root cascades.
	m = sendKey(t, m, "d")
	if got := len(m.Engine().Lines()); got != 15 {
		t.Errorf("cascading unfold: %d lines, want 15", got)
	}
	m = sendSpecialKey(t, m, tea.KeyLeft)
	if got := len(m.Engine().Lines()); got != 1 {
		t.Errorf("left: %d lines, want 1", got)
	}
}

func TestSearchMode(t *testing.T) {
	m := newModel(t, outline.Unfolded, nil)

	m = sendKey(t, m, "/")
	if !m.Searching() {
		t.Fatal("/ should start search editing")
	}
	m = sendKey(t, m, "c")
	if m.Engine().Search() != "c" {
		t.Fatalf("search term = %q", m.Engine().Search())
	}
	if got := len(m.Engine().Lines()); got != 7 {
		t.Errorf("filtered to %d lines, want 7", got)
	}

	// Normal-mode keys are text while editing.
	m = sendKey(t, m, "q")
	if m.Engine().Search() != "cq" || !m.Engine().NoMatches() {
		t.Errorf("term = %q, noMatches = %v", m.Engine().Search(), m.Engine().NoMatches())
	}
	if !strings.Contains(m.View(), "no matches") {
		t.Error("view should say no matches")
	}
	m = sendSpecialKey(t, m, tea.KeyBackspace)
	if m.Engine().Search() != "c" {
		t.Errorf("after backspace term = %q", m.Engine().Search())
	}

	m = sendSpecialKey(t, m, tea.KeyEnter)
	if m.Searching() || m.Engine().Search() != "c" {
		t.Errorf("enter should leave editing and keep the term (searching=%v term=%q)", m.Searching(), m.Engine().Search())
	}
	if m.Engine().Mode() != outline.ModeOutline {
		t.Error("enter while editing must not toggle the view")
	}

	m = sendSpecialKey(t, m, tea.KeyEsc)
	if m.Engine().Search() != "" || len(m.Engine().Lines()) != 15 {
		t.Errorf("esc should clear the search, term %q, %d lines", m.Engine().Search(), len(m.Engine().Lines()))
	}
}

func TestToggleViewShowsSource(t *testing.T) {
	m := newModel(t, outline.Unfolded, nil)
	m = sendKey(t, m, "jj")

	m = sendSpecialKey(t, m, tea.KeyEnter)
	if m.Engine().Mode() != outline.ModeSource {
		t.Fatalf("mode = %s", m.Engine().Mode())
	}
	view := m.View()
	if !strings.Contains(view, "delimited [1,8)") || !strings.Contains(view, "(b(c)d)") {
		t.Errorf("source view missing node text:\n%s", view)
	}

	m = sendSpecialKey(t, m, tea.KeyEnter)
	if m.Engine().Mode() != outline.ModeOutline || m.Engine().Cursor() != 2 {
		t.Errorf("back to %s with cursor %d", m.Engine().Mode(), m.Engine().Cursor())
	}
}

func TestOutlineRows(t *testing.T) {
	m := newModel(t, outline.Unfolded, nil)
	view := m.View()
	for _, want := range []string{"// end delimited", "// end source_file", "just_text", "(b(c)d)"} {
		if !strings.Contains(view, want) {
			t.Errorf("outline view missing %q:\n%s", want, view)
		}
	}
	if !strings.Contains(view, "1/15") {
		t.Errorf("header should show the position:\n%s", view)
	}
}

func TestWindowedRendering(t *testing.T) {
	m := newModel(t, outline.Unfolded, nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 8})
	m = updated.(ui.Model)

	m = sendKey(t, m, "G")
	if got := m.OutlineOffset(); got != 10 {
		t.Errorf("offset = %d, want 10", got)
	}
	if view := m.View(); !strings.Contains(view, "11-15 of 15") {
		t.Errorf("missing position indicator:\n%s", view)
	}

	m = sendSpecialKey(t, m, tea.KeyPgUp)
	if got := m.Engine().Cursor(); got != 9 {
		t.Errorf("page up: cursor = %d, want 9", got)
	}
}

func TestHelpOverlay(t *testing.T) {
	m := newModel(t, outline.Unfolded, nil)
	m = sendKey(t, m, "?")
	if !m.HelpVisible() {
		t.Fatal("? should show help")
	}
	if !strings.Contains(m.View(), "Movement") {
		t.Errorf("help overlay should list key groups:\n%s", m.View())
	}
	m = sendKey(t, m, "j")
	if m.HelpVisible() || m.Engine().Cursor() != 0 {
		t.Errorf("any key closes help without acting (visible=%v cursor=%d)", m.HelpVisible(), m.Engine().Cursor())
	}
}

func TestQuit(t *testing.T) {
	m := newModel(t, outline.Unfolded, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
}

func TestCopySelected(t *testing.T) {
	var copied string
	m := newModel(t, outline.Unfolded, func(o *ui.Options) {
		o.CopyText = func(s string) error { copied = s; return nil }
	})
	m = sendKey(t, m, "jy")
	if copied != "a" {
		t.Errorf("copied %q, want a", copied)
	}
	if msg, isErr := m.Status(); isErr || !strings.Contains(msg, "copied 1 bytes") {
		t.Errorf("status = %q (error=%v)", msg, isErr)
	}

	m = newModel(t, outline.Unfolded, func(o *ui.Options) {
		o.CopyText = func(string) error { return errors.New("no clipboard") }
	})
	m = sendKey(t, m, "y")
	if msg, isErr := m.Status(); !isErr || !strings.Contains(msg, "no clipboard") {
		t.Errorf("status = %q (error=%v)", msg, isErr)
	}
}

func TestFoldPersistence(t *testing.T) {
	input := testutil.WriteSource(t, "in.txt", scenario)
	store := ui.NewFoldStore(t.TempDir())
	withStore := func(o *ui.Options) {
		o.Path = input
		o.Folds = store
	}

	m := newModel(t, outline.Folded, withStore)
	m = sendKey(t, m, " ")
	if got := len(m.Engine().Lines()); got != 5 {
		t.Fatalf("after toggle: %d lines", got)
	}

	again := newModel(t, outline.Folded, withStore)
	if got := len(again.Engine().Lines()); got != 5 {
		t.Errorf("restored model shows %d lines, want 5", got)
	}
}

func TestReload(t *testing.T) {
	next := testutil.Parse(scenario + "f(g)")
	var fail bool
	m := newModel(t, outline.Unfolded, func(o *ui.Options) {
		o.Reload = func() (*syntax.Tree, error) {
			if fail {
				return nil, errors.New("boom")
			}
			return next, nil
		}
	})
	m = sendKey(t, m, "jj")

	updated, cmd := m.Update(ui.FileChangedMsg{})
	m = updated.(ui.Model)
	if cmd == nil {
		t.Error("reload should schedule the status timeout")
	}
	if m.Engine().Tree() != next {
		t.Fatal("tree not replaced")
	}
	if got := m.Engine().SelectedText(); got != "(b(c)d)" {
		t.Errorf("selection after reload = %q", got)
	}
	if msg, _ := m.Status(); !strings.Contains(msg, "reloaded") {
		t.Errorf("status = %q", msg)
	}

	fail = true
	updated, _ = m.Update(ui.FileChangedMsg{})
	m = updated.(ui.Model)
	if m.Engine().Tree() != next {
		t.Error("failed reload must keep the current tree")
	}
	if msg, isErr := m.Status(); !isErr || !strings.Contains(msg, "boom") {
		t.Errorf("status = %q (error=%v)", msg, isErr)
	}
}

func TestPlainLine(t *testing.T) {
	tree := testutil.Parse(scenario)
	lines := outline.Flatten(tree.Root, 0, nil)
	if got := ui.PlainLine(tree, lines[1], 10); got != "  just_text   a" {
		t.Errorf("PlainLine = %q", got)
	}
	if got := ui.PlainLine(tree, lines[len(lines)-1], 10); got != "// end source_file" {
		t.Errorf("PlainLine(end) = %q", got)
	}
}

func TestMouseWheel(t *testing.T) {
	tall := "(" + strings.Repeat("x\n", 40) + ")"
	opts := ui.Options{
		Config:   config.DefaultConfig(),
		Policy:   outline.Unfolded,
		CopyText: func(string) error { return nil },
	}
	m := ui.NewModel(testutil.Parse(tall), opts)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 12})
	m = updated.(ui.Model)

	wheel := func(m ui.Model, b tea.MouseButton) ui.Model {
		updated, _ := m.Update(tea.MouseMsg{Button: b, Action: tea.MouseActionPress})
		return updated.(ui.Model)
	}

	m = wheel(m, tea.MouseButtonWheelDown)
	if m.Engine().Cursor() != 1 {
		t.Fatalf("wheel down in the outline: cursor = %d, want 1", m.Engine().Cursor())
	}
	m = wheel(m, tea.MouseButtonWheelUp)
	if m.Engine().Cursor() != 0 {
		t.Fatalf("wheel up in the outline: cursor = %d, want 0", m.Engine().Cursor())
	}

	m = sendSpecialKey(t, m, tea.KeyEnter)
	if m.Engine().Mode() != outline.ModeSource {
		t.Fatalf("mode = %s", m.Engine().Mode())
	}
	if view := m.View(); !strings.Contains(view, "  0%") {
		t.Fatalf("source view should start at the top:\n%s", view)
	}
	m = wheel(m, tea.MouseButtonWheelDown)
	if view := m.View(); strings.Contains(view, "  0%") {
		t.Errorf("wheel should scroll the source view:\n%s", view)
	}
	if m.Engine().Cursor() != 0 {
		t.Errorf("wheel in source mode moved the cursor to %d", m.Engine().Cursor())
	}
}
