package outline

import (
	"fmt"

	"github.com/vanderheijden86/structless/pkg/debug"
	"github.com/vanderheijden86/structless/pkg/syntax"
)

// ViewMode selects what the viewer shows for the current selection.
type ViewMode int

const (
	// ModeOutline shows the flattened, filtered line list.
	ModeOutline ViewMode = iota
	// ModeSource shows the raw text of the selected node.
	ModeSource
)

func (m ViewMode) String() string {
	if m == ModeSource {
		return "source"
	}
	return "outline"
}

// Op names one state transition of the engine.
type Op int

const (
	OpNone Op = iota
	OpUp
	OpDown
	OpPageUp
	OpPageDown
	OpTop
	OpBottom
	OpUnfold
	OpFold
	OpToggle
	OpExpandOrEnter
	OpCollapseOrParent
	OpParent
	OpNextSibling
	OpPrevSibling
	OpFirstChild
	OpFoldAll
	OpUnfoldAll
	OpSearch
	OpToggleView
)

var opNames = [...]string{
	OpNone:             "none",
	OpUp:               "up",
	OpDown:             "down",
	OpPageUp:           "page-up",
	OpPageDown:         "page-down",
	OpTop:              "top",
	OpBottom:           "bottom",
	OpUnfold:           "unfold",
	OpFold:             "fold",
	OpToggle:           "toggle",
	OpExpandOrEnter:    "expand-or-enter",
	OpCollapseOrParent: "collapse-or-parent",
	OpParent:           "parent",
	OpNextSibling:      "next-sibling",
	OpPrevSibling:      "prev-sibling",
	OpFirstChild:       "first-child",
	OpFoldAll:          "fold-all",
	OpUnfoldAll:        "unfold-all",
	OpSearch:           "search",
	OpToggleView:       "toggle-view",
}

func (o Op) String() string {
	if o >= 0 && int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Event is one input to Apply. N is the page size for OpPageUp and
// OpPageDown; Term is the new search term for OpSearch.
type Event struct {
	Op   Op
	N    int
	Term string
}

func (e Event) String() string {
	switch e.Op {
	case OpPageUp, OpPageDown:
		return fmt.Sprintf("%s(%d)", e.Op, e.N)
	case OpSearch:
		return fmt.Sprintf("%s(%q)", e.Op, e.Term)
	}
	return e.Op.String()
}

// Engine holds the view state over one tree: fold set, search term, cursor
// and view mode, plus the visible lines derived from them.
//
// The visible list is never empty. When a search term matches nothing the
// full list stays visible and NoMatches reports true.
type Engine struct {
	tree   *syntax.Tree
	policy FoldPolicy
	folds  *FoldSet
	term   string
	cursor int
	mode   ViewMode

	lines     []Line // visible lines
	noMatches bool
}

// New returns an engine over tree with the cursor on the first line.
func New(tree *syntax.Tree, policy FoldPolicy) *Engine {
	e := &Engine{
		tree:   tree,
		policy: policy,
		folds:  NewFoldSet(tree, policy),
	}
	e.recompute()
	return e
}

// Tree returns the tree being browsed.
func (e *Engine) Tree() *syntax.Tree { return e.tree }

// Folds returns the live fold set.
func (e *Engine) Folds() *FoldSet { return e.folds }

// Policy returns the fold policy new nodes follow.
func (e *Engine) Policy() FoldPolicy { return e.policy }

// Lines returns the visible lines. The slice must not be modified.
func (e *Engine) Lines() []Line { return e.lines }

// Cursor returns the index of the selected line.
func (e *Engine) Cursor() int { return e.cursor }

// Search returns the active search term.
func (e *Engine) Search() string { return e.term }

// Mode returns the current view mode.
func (e *Engine) Mode() ViewMode { return e.mode }

// NoMatches reports whether the active search term matched no line.
func (e *Engine) NoMatches() bool { return e.noMatches }

// SelectedLine returns the line under the cursor.
func (e *Engine) SelectedLine() Line { return e.lines[e.cursor] }

// Selected returns the node under the cursor.
func (e *Engine) Selected() *syntax.Node { return e.lines[e.cursor].Node }

// SelectedText returns the source text of the selected node.
func (e *Engine) SelectedText() string { return e.tree.Text(e.Selected()) }

// Apply performs one transition. It reports whether the fold set changed,
// which is when callers persist it.
func (e *Engine) Apply(ev Event) (foldsChanged bool) {
	before := e.cursor
	switch ev.Op {
	case OpUp:
		e.MoveUp()
	case OpDown:
		e.MoveDown()
	case OpPageUp:
		e.PageUp(ev.N)
	case OpPageDown:
		e.PageDown(ev.N)
	case OpTop:
		e.Top()
	case OpBottom:
		e.Bottom()
	case OpUnfold:
		e.Unfold()
		foldsChanged = true
	case OpFold:
		e.Fold()
		foldsChanged = true
	case OpToggle:
		e.Toggle()
		foldsChanged = true
	case OpExpandOrEnter:
		foldsChanged = e.ExpandOrEnter()
	case OpCollapseOrParent:
		foldsChanged = e.CollapseOrParent()
	case OpParent:
		e.Parent()
	case OpNextSibling:
		e.NextSibling()
	case OpPrevSibling:
		e.PrevSibling()
	case OpFirstChild:
		e.FirstChild()
	case OpFoldAll:
		e.FoldAll()
		foldsChanged = true
	case OpUnfoldAll:
		e.UnfoldAll()
		foldsChanged = true
	case OpSearch:
		e.SetSearch(ev.Term)
	case OpToggleView:
		e.ToggleViewMode()
	}
	debug.Log("apply %s cursor %d->%d lines=%d folded=%d", ev, before, e.cursor, len(e.lines), e.folds.Len())
	return foldsChanged
}

// MoveUp selects the previous line, stopping at the first.
func (e *Engine) MoveUp() {
	if e.cursor > 0 {
		e.cursor--
	}
}

// MoveDown selects the next line, stopping at the last.
func (e *Engine) MoveDown() {
	if e.cursor < len(e.lines)-1 {
		e.cursor++
	}
}

// PageUp moves the cursor up by n lines.
func (e *Engine) PageUp(n int) {
	e.setCursor(e.cursor - max(n, 1))
}

// PageDown moves the cursor down by n lines.
func (e *Engine) PageDown(n int) {
	e.setCursor(e.cursor + max(n, 1))
}

// Top selects the first line.
func (e *Engine) Top() { e.cursor = 0 }

// Bottom selects the last line.
func (e *Engine) Bottom() { e.cursor = len(e.lines) - 1 }

// Unfold applies the cascading unfold to the selected node.
func (e *Engine) Unfold() {
	line := e.SelectedLine()
	e.folds.Unfold(line.Node)
	e.refresh(line, e.cursor)
}

// Fold applies the cascading fold to the selected node.
func (e *Engine) Fold() {
	line := e.SelectedLine()
	e.folds.Fold(line.Node)
	e.refresh(line, e.cursor)
}

// Toggle folds the selected node if it is unfolded and unfolds it otherwise.
func (e *Engine) Toggle() {
	line := e.SelectedLine()
	e.folds.Toggle(line.Node)
	e.refresh(line, e.cursor)
}

// FoldAll folds every node.
func (e *Engine) FoldAll() {
	line := e.SelectedLine()
	e.folds.FoldAll()
	e.refresh(line, e.cursor)
}

// UnfoldAll unfolds every node.
func (e *Engine) UnfoldAll() {
	line := e.SelectedLine()
	e.folds.UnfoldAll()
	e.refresh(line, e.cursor)
}

// RestoreFolds replaces the fold set with the nodes at the given tree
// paths, as returned by FoldSet.Paths, and keeps the selection. It returns
// how many paths matched a node.
func (e *Engine) RestoreFolds(paths []string) int {
	line := e.SelectedLine()
	n := e.folds.RestorePaths(paths)
	e.refresh(line, e.cursor)
	return n
}

// ExpandOrEnter unfolds the selected node if it is folded and has
// children; otherwise it steps to its first visible child. It reports
// whether the fold set changed.
func (e *Engine) ExpandOrEnter() bool {
	n := e.Selected()
	if !n.IsLeaf() && e.folds.IsFolded(n.ID) {
		e.Unfold()
		return true
	}
	e.FirstChild()
	return false
}

// CollapseOrParent folds the selected node if it is expanded; otherwise it
// steps to the parent. It reports whether the fold set changed.
func (e *Engine) CollapseOrParent() bool {
	n := e.Selected()
	if !n.IsLeaf() && !e.folds.IsFolded(n.ID) {
		e.Fold()
		return true
	}
	e.Parent()
	return false
}

// Parent selects the nearest visible ancestor of the selected node.
func (e *Engine) Parent() {
	for p := e.Selected().Parent; p != nil; p = p.Parent {
		if i := e.indexOf(p); i >= 0 {
			e.cursor = i
			return
		}
	}
}

// NextSibling selects the next visible sibling of the selected node. When
// the node has none, the cursor stays put.
func (e *Engine) NextSibling() {
	n := e.Selected()
	if n.Parent == nil {
		return
	}
	siblings := n.Parent.Children
	for i := syntax.ChildIndex(n) + 1; i < len(siblings); i++ {
		if j := e.indexOf(siblings[i]); j >= 0 {
			e.cursor = j
			return
		}
	}
}

// PrevSibling selects the previous visible sibling of the selected node.
func (e *Engine) PrevSibling() {
	n := e.Selected()
	if n.Parent == nil {
		return
	}
	siblings := n.Parent.Children
	for i := syntax.ChildIndex(n) - 1; i >= 0; i-- {
		if j := e.indexOf(siblings[i]); j >= 0 {
			e.cursor = j
			return
		}
	}
}

// FirstChild selects the first visible child of the selected node.
func (e *Engine) FirstChild() {
	for _, c := range e.Selected().Children {
		if j := e.indexOf(c); j >= 0 {
			e.cursor = j
			return
		}
	}
}

// SetSearch replaces the search term and refilters. The selection follows
// its node when the node is still visible.
func (e *Engine) SetSearch(term string) {
	if term == e.term {
		return
	}
	line := e.SelectedLine()
	e.term = term
	e.refresh(line, 0)
}

// ToggleViewMode flips between the outline and source views. The cursor
// is not touched.
func (e *Engine) ToggleViewMode() {
	if e.mode == ModeOutline {
		e.mode = ModeSource
	} else {
		e.mode = ModeOutline
	}
}

// Replace swaps in a re-parsed tree. Fold states carry over by tree path,
// as does the selection; when the selected path no longer exists the
// deepest surviving ancestor is selected.
func (e *Engine) Replace(tree *syntax.Tree) {
	sel := e.SelectedLine()
	path := e.tree.Path(sel.Node)
	e.folds = e.folds.Transfer(tree, e.policy)
	e.tree = tree

	target := tree.NodeAtPath(path)
	for target == nil && len(path) > 0 {
		path = path[:len(path)-1]
		target = tree.NodeAtPath(path)
	}
	e.recompute()
	e.remap(target, sel.Kind, e.cursor)
	debug.Log("replace: %d nodes, cursor=%d", tree.Len(), e.cursor)
}

// recompute derives the visible lines from the tree, folds and term and
// clamps the cursor.
func (e *Engine) recompute() {
	all := Flatten(e.tree.Root, 0, e.folds.IsFolded)
	visible := Filter(e.tree, all, e.term)
	e.noMatches = len(visible) == 0
	if e.noMatches {
		visible = all
	}
	e.lines = visible
	e.setCursor(e.cursor)
}

// refresh recomputes and moves the cursor back to the previously selected
// line, see remap.
func (e *Engine) refresh(prev Line, fallback int) {
	e.recompute()
	e.remap(prev.Node, prev.Kind, fallback)
}

// remap selects the line of n, preferring one of kind, then the nearest
// visible ancestor of n, and finally index fallback clamped to the list.
func (e *Engine) remap(n *syntax.Node, kind LineKind, fallback int) {
	if n != nil {
		if i := e.indexOfKind(n, kind); i >= 0 {
			e.cursor = i
			return
		}
		for cur := n; cur != nil; cur = cur.Parent {
			if i := e.indexOf(cur); i >= 0 {
				e.cursor = i
				return
			}
		}
	}
	e.setCursor(fallback)
}

// indexOf returns the index of the Start or Whole line of n, or -1.
func (e *Engine) indexOf(n *syntax.Node) int {
	for i, l := range e.lines {
		if l.Node == n && l.Kind != End {
			return i
		}
	}
	return -1
}

// indexOfKind returns the index of n's line of the given kind, or of any
// line of n when no line has that kind. It returns -1 if n is not visible.
func (e *Engine) indexOfKind(n *syntax.Node, kind LineKind) int {
	other := -1
	for i, l := range e.lines {
		if l.Node != n {
			continue
		}
		if l.Kind == kind {
			return i
		}
		if other < 0 || (e.lines[other].Kind == End && l.Kind != End) {
			other = i
		}
	}
	return other
}

func (e *Engine) setCursor(i int) {
	e.cursor = max(0, min(i, len(e.lines)-1))
}
