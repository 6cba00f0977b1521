package outline_test

import (
	"testing"

	"github.com/vanderheijden86/structless/pkg/outline"
	"github.com/vanderheijden86/structless/pkg/testutil"
)

// Unfolded lines of "a(b(c)d)e":
//
//	0 start source_file    5 start (c)     10 d
//	1 a                    6 (             11 )
//	2 start (b(c)d)        7 c             12 end (b(c)d)
//	3 (                    8 )             13 e
//	4 b                    9 end (c)       14 end source_file
func newScenarioEngine(t *testing.T) *outline.Engine {
	t.Helper()
	e := outline.New(testutil.Parse("a(b(c)d)e"), outline.Unfolded)
	if got := len(e.Lines()); got != 15 {
		t.Fatalf("unfolded scenario has %d lines, want 15", got)
	}
	return e
}

func selectedText(e *outline.Engine) string {
	return e.SelectedText()
}

func TestNewFoldedShowsRootOnly(t *testing.T) {
	e := outline.New(testutil.Parse("a(b(c)d)e"), outline.Folded)
	if len(e.Lines()) != 1 || e.Cursor() != 0 {
		t.Fatalf("folded start: %d lines, cursor %d", len(e.Lines()), e.Cursor())
	}
	if e.Mode() != outline.ModeOutline {
		t.Errorf("initial mode = %s", e.Mode())
	}

	e.Unfold()
	if got := len(e.Lines()); got != 5 {
		t.Errorf("after unfolding the root: %d lines, want 5", got)
	}
	if e.Cursor() != 0 || e.SelectedLine().Kind != outline.Start {
		t.Errorf("cursor should stay on the root Start line, got %d %s", e.Cursor(), e.SelectedLine().Kind)
	}
}

func TestMoveClamps(t *testing.T) {
	e := newScenarioEngine(t)
	e.MoveUp()
	if e.Cursor() != 0 {
		t.Errorf("MoveUp at top: cursor %d", e.Cursor())
	}
	e.Bottom()
	e.MoveDown()
	if e.Cursor() != 14 {
		t.Errorf("MoveDown at bottom: cursor %d", e.Cursor())
	}
	e.PageUp(100)
	if e.Cursor() != 0 {
		t.Errorf("PageUp(100): cursor %d", e.Cursor())
	}
	e.PageDown(4)
	if e.Cursor() != 4 || selectedText(e) != "b" {
		t.Errorf("PageDown(4): cursor %d on %q", e.Cursor(), selectedText(e))
	}
	e.PageDown(0)
	if e.Cursor() != 5 {
		t.Errorf("PageDown(0) should move at least one line, cursor %d", e.Cursor())
	}
	e.Top()
	if e.Cursor() != 0 {
		t.Errorf("Top: cursor %d", e.Cursor())
	}
}

func TestFoldKeepsSelection(t *testing.T) {
	e := newScenarioEngine(t)
	e.PageDown(7)
	if selectedText(e) != "c" {
		t.Fatalf("expected c selected, got %q", selectedText(e))
	}
	e.Parent()
	if e.Cursor() != 5 || selectedText(e) != "(c)" {
		t.Fatalf("Parent: cursor %d on %q", e.Cursor(), selectedText(e))
	}
	e.Fold()
	if len(e.Lines()) != 11 || e.Cursor() != 5 || e.SelectedLine().Kind != outline.Whole {
		t.Errorf("Fold: %d lines, cursor %d (%s)", len(e.Lines()), e.Cursor(), e.SelectedLine().Kind)
	}
}

func TestFoldFromEndLine(t *testing.T) {
	e := newScenarioEngine(t)
	e.PageDown(12)
	if l := e.SelectedLine(); l.Kind != outline.End || e.Tree().Text(l.Node) != "(b(c)d)" {
		t.Fatalf("expected the End line of the outer group, got %s", l)
	}
	e.Fold()
	if e.Cursor() != 2 || e.SelectedLine().Kind != outline.Whole {
		t.Errorf("fold from End line: cursor %d %s, want 2 whole", e.Cursor(), e.SelectedLine().Kind)
	}
}

func TestFoldPastCursorClamps(t *testing.T) {
	e := newScenarioEngine(t)
	e.Bottom()
	e.Top()
	e.Fold() // fold the root: one line left
	if len(e.Lines()) != 1 || e.Cursor() != 0 {
		t.Errorf("after folding the root: %d lines, cursor %d", len(e.Lines()), e.Cursor())
	}
}

func TestExpandOrEnterAndCollapseOrParent(t *testing.T) {
	e := newScenarioEngine(t)
	e.PageDown(2) // outer group
	if !e.CollapseOrParent() {
		t.Fatal("CollapseOrParent on an expanded node should fold it")
	}
	if e.SelectedLine().Kind != outline.Whole {
		t.Fatalf("outer group should be folded, got %s", e.SelectedLine())
	}
	if e.CollapseOrParent() {
		t.Fatal("CollapseOrParent on a folded node should not change folds")
	}
	if e.Cursor() != 0 {
		t.Fatalf("CollapseOrParent on a folded node should select the parent, cursor %d", e.Cursor())
	}

	e.PageDown(2)
	if !e.ExpandOrEnter() {
		t.Fatal("ExpandOrEnter on a folded node should unfold it")
	}
	if e.ExpandOrEnter() {
		t.Fatal("ExpandOrEnter on an expanded node should not change folds")
	}
	if selectedText(e) != "(" || e.Cursor() != 3 {
		t.Errorf("ExpandOrEnter should enter the first child, cursor %d on %q", e.Cursor(), selectedText(e))
	}
}

func TestSiblingNavigation(t *testing.T) {
	e := outline.New(testutil.Parse("(a)(b)(c)"), outline.Unfolded)
	e.MoveDown() // first group
	e.NextSibling()
	if selectedText(e) != "(b)" {
		t.Fatalf("NextSibling: %q", selectedText(e))
	}
	e.NextSibling()
	e.NextSibling()
	if selectedText(e) != "(c)" {
		t.Fatalf("NextSibling at the last sibling should stay, got %q", selectedText(e))
	}
	e.PrevSibling()
	e.PrevSibling()
	if selectedText(e) != "(a)" {
		t.Fatalf("PrevSibling: %q", selectedText(e))
	}
	e.PrevSibling()
	if selectedText(e) != "(a)" {
		t.Fatalf("PrevSibling at the first sibling should stay, got %q", selectedText(e))
	}
	e.FirstChild()
	if selectedText(e) != "(" {
		t.Errorf("FirstChild: %q", selectedText(e))
	}
}

func TestSiblingSkipsFilteredNodes(t *testing.T) {
	e := outline.New(testutil.Parse("(xa)(b)(xc)"), outline.Unfolded)
	e.SetSearch("x")
	e.MoveDown()
	if selectedText(e) != "(xa)" {
		t.Fatalf("first visible group = %q", selectedText(e))
	}
	e.NextSibling()
	if selectedText(e) != "(xc)" {
		t.Errorf("NextSibling should skip the filtered-out group, got %q", selectedText(e))
	}
}

func TestRootHasNoSiblingsOrParent(t *testing.T) {
	e := newScenarioEngine(t)
	for _, op := range []func(){e.Parent, e.NextSibling, e.PrevSibling} {
		op()
		if e.Cursor() != 0 {
			t.Fatalf("navigation from the root moved the cursor to %d", e.Cursor())
		}
	}
}

func TestSearchNoMatchesFallsBack(t *testing.T) {
	e := newScenarioEngine(t)
	e.PageDown(7)
	e.SetSearch("zzz")
	if !e.NoMatches() {
		t.Error("NoMatches should report true")
	}
	if len(e.Lines()) != 15 {
		t.Errorf("fallback list has %d lines, want the full 15", len(e.Lines()))
	}
	if selectedText(e) != "c" {
		t.Errorf("selection should survive a fallback, got %q", selectedText(e))
	}
	e.SetSearch("")
	if e.NoMatches() {
		t.Error("NoMatches should clear with the term")
	}
}

func TestSearchDeepLeaf(t *testing.T) {
	e := outline.New(testutil.Parse("x(y(needle)z)w"), outline.Unfolded)
	e.SetSearch("needle")
	lines := e.Lines()
	if len(lines) != 7 || e.NoMatches() {
		t.Fatalf("search: %d lines, NoMatches=%v", len(lines), e.NoMatches())
	}
	assertWellNested(t, lines)
	if e.Cursor() != 0 {
		t.Errorf("root stays visible, cursor should stay 0, got %d", e.Cursor())
	}

	e.PageDown(3)
	if selectedText(e) != "needle" {
		t.Fatalf("selected %q", selectedText(e))
	}
	e.SetSearch("")
	if selectedText(e) != "needle" || len(e.Lines()) != 15 {
		t.Errorf("clearing the search should keep the selection, got %q in %d lines", selectedText(e), len(e.Lines()))
	}
}

func TestSearchFilteredSelectionFallsToAncestor(t *testing.T) {
	e := outline.New(testutil.Parse("x(y(needle)z)w"), outline.Unfolded)
	e.PageDown(4) // "y"
	if selectedText(e) != "y" {
		t.Fatalf("selected %q", selectedText(e))
	}
	e.SetSearch("needle")
	if selectedText(e) != "(y(needle)z)" {
		t.Errorf("selection should fall back to the visible parent, got %q", selectedText(e))
	}
}

func TestToggleViewModeTwice(t *testing.T) {
	e := newScenarioEngine(t)
	e.PageDown(6)
	e.ToggleViewMode()
	if e.Mode() != outline.ModeSource {
		t.Fatalf("mode = %s", e.Mode())
	}
	e.ToggleViewMode()
	if e.Mode() != outline.ModeOutline || e.Cursor() != 6 {
		t.Errorf("after two toggles: mode %s cursor %d", e.Mode(), e.Cursor())
	}
}

func TestOneLineTree(t *testing.T) {
	e := outline.New(testutil.Parse(""), outline.Unfolded)
	for _, ev := range []outline.Event{
		{Op: outline.OpUp}, {Op: outline.OpDown}, {Op: outline.OpPageDown, N: 10},
		{Op: outline.OpBottom}, {Op: outline.OpFold}, {Op: outline.OpUnfold},
		{Op: outline.OpToggle}, {Op: outline.OpParent}, {Op: outline.OpFirstChild},
		{Op: outline.OpSearch, Term: "nothing"}, {Op: outline.OpExpandOrEnter},
	} {
		e.Apply(ev)
		if len(e.Lines()) != 1 || e.Cursor() != 0 {
			t.Fatalf("after %s: %d lines, cursor %d", ev, len(e.Lines()), e.Cursor())
		}
	}
}

func TestApplyReportsFoldChanges(t *testing.T) {
	e := newScenarioEngine(t)
	tests := []struct {
		ev   outline.Event
		want bool
	}{
		{outline.Event{Op: outline.OpDown}, false},
		{outline.Event{Op: outline.OpSearch, Term: "b"}, false},
		{outline.Event{Op: outline.OpSearch}, false},
		{outline.Event{Op: outline.OpToggle}, true},
		{outline.Event{Op: outline.OpFoldAll}, true},
		{outline.Event{Op: outline.OpUnfoldAll}, true},
		{outline.Event{Op: outline.OpToggleView}, false},
	}
	for _, tt := range tests {
		if got := e.Apply(tt.ev); got != tt.want {
			t.Errorf("Apply(%s) = %v, want %v", tt.ev, got, tt.want)
		}
	}
}

func TestEventString(t *testing.T) {
	tests := map[string]outline.Event{
		"down":          {Op: outline.OpDown},
		"page-up(5)":    {Op: outline.OpPageUp, N: 5},
		`search("foo")`: {Op: outline.OpSearch, Term: "foo"},
		"op(99)":        {Op: outline.Op(99)},
	}
	for want, ev := range tests {
		if got := ev.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func TestReplaceKeepsFoldsAndSelection(t *testing.T) {
	e := newScenarioEngine(t)
	e.PageDown(5)
	e.Fold()

	e.Replace(testutil.Parse("a(b(c)d)e(f)"))
	if selectedText(e) != "(c)" || e.SelectedLine().Kind != outline.Whole {
		t.Fatalf("selection after replace: %q %s", selectedText(e), e.SelectedLine().Kind)
	}
	if e.Cursor() != 5 {
		t.Errorf("cursor = %d, want 5", e.Cursor())
	}

	e.Replace(testutil.Parse("a"))
	if e.Selected() != e.Tree().Root {
		t.Errorf("vanished selection should fall back to the root, got %q", selectedText(e))
	}
}

func TestReplaceKeepsSearch(t *testing.T) {
	e := newScenarioEngine(t)
	e.SetSearch("c")
	e.Replace(testutil.Parse("x(c)"))
	for _, l := range e.Lines() {
		if !e.Tree().Contains(l.Node, "c") {
			t.Errorf("line %s does not match the active search", l)
		}
	}
	if e.Search() != "c" {
		t.Errorf("search term = %q", e.Search())
	}
}

func TestRestoreFolds(t *testing.T) {
	e := newScenarioEngine(t)
	// "1" is the (b(c)d) block; folding it leaves a Whole line in the middle.
	if n := e.RestoreFolds([]string{"1", "9.9", "bogus"}); n != 1 {
		t.Fatalf("restored %d paths, want 1", n)
	}
	if got := len(e.Lines()); got != 5 {
		t.Errorf("lines after restore = %d, want 5", got)
	}
	if got := e.Folds().Paths(); len(got) != 1 || got[0] != "1" {
		t.Errorf("Paths() = %v", got)
	}
	if e.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", e.Cursor())
	}
}
