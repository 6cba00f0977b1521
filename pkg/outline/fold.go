package outline

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vanderheijden86/structless/pkg/syntax"
)

// FoldPolicy decides the fold state of nodes the user has not touched yet.
type FoldPolicy int

const (
	// Folded starts with every node folded, so only the root line shows.
	Folded FoldPolicy = iota
	// Unfolded starts with the whole tree expanded.
	Unfolded
)

// DefaultFoldPolicy is used when the configuration names none.
const DefaultFoldPolicy = Folded

// ErrUnknownFoldPolicy is returned by ParseFoldPolicy.
var ErrUnknownFoldPolicy = errors.New("unknown fold policy")

func (p FoldPolicy) String() string {
	if p == Unfolded {
		return "unfolded"
	}
	return "folded"
}

// ParseFoldPolicy maps "folded" or "unfolded" to a FoldPolicy.
func ParseFoldPolicy(s string) (FoldPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "folded", "":
		return Folded, nil
	case "unfolded":
		return Unfolded, nil
	}
	return DefaultFoldPolicy, fmt.Errorf("%w %q (want folded or unfolded)", ErrUnknownFoldPolicy, s)
}

// FoldSet is the set of folded nodes of one tree.
//
// Fold and Unfold cascade: applying one to a node already in the target
// state pushes the state down to every descendant instead.
type FoldSet struct {
	tree   *syntax.Tree
	folded map[syntax.NodeID]struct{}
}

// NewFoldSet returns the initial fold set of tree under policy.
func NewFoldSet(tree *syntax.Tree, policy FoldPolicy) *FoldSet {
	f := &FoldSet{tree: tree, folded: make(map[syntax.NodeID]struct{})}
	if policy == Folded {
		f.FoldAll()
	}
	return f
}

// IsFolded reports whether id is in the set.
func (f *FoldSet) IsFolded(id syntax.NodeID) bool {
	_, ok := f.folded[id]
	return ok
}

// Len returns the number of folded nodes.
func (f *FoldSet) Len() int {
	return len(f.folded)
}

// Fold folds n. If n is already folded, every descendant of n is folded
// instead, which takes effect once n is unfolded again. It reports whether
// the cascading path was taken.
func (f *FoldSet) Fold(n *syntax.Node) (cascaded bool) {
	if n == nil {
		return false
	}
	if !f.IsFolded(n.ID) {
		f.folded[n.ID] = struct{}{}
		return false
	}
	for _, d := range f.tree.Descendants(n) {
		f.folded[d.ID] = struct{}{}
	}
	return true
}

// Unfold unfolds n. If n is already unfolded, every descendant of n is
// unfolded instead, expanding the whole subtree. It reports whether the
// cascading path was taken.
func (f *FoldSet) Unfold(n *syntax.Node) (cascaded bool) {
	if n == nil {
		return false
	}
	if f.IsFolded(n.ID) {
		delete(f.folded, n.ID)
		return false
	}
	for _, d := range f.tree.Descendants(n) {
		delete(f.folded, d.ID)
	}
	return true
}

// Toggle folds n if it is unfolded and unfolds it otherwise. It never
// cascades.
func (f *FoldSet) Toggle(n *syntax.Node) {
	if n == nil {
		return
	}
	if f.IsFolded(n.ID) {
		delete(f.folded, n.ID)
	} else {
		f.folded[n.ID] = struct{}{}
	}
}

// FoldAll folds every node of the tree.
func (f *FoldSet) FoldAll() {
	f.folded[f.tree.Root.ID] = struct{}{}
	for _, d := range f.tree.Descendants(f.tree.Root) {
		f.folded[d.ID] = struct{}{}
	}
}

// UnfoldAll empties the set.
func (f *FoldSet) UnfoldAll() {
	clear(f.folded)
}

// Paths returns the tree paths of the folded nodes, formatted with
// syntax.FormatPath and sorted.
func (f *FoldSet) Paths() []string {
	out := make([]string, 0, len(f.folded))
	for id := range f.folded {
		if n := f.tree.Node(id); n != nil {
			out = append(out, syntax.FormatPath(f.tree.Path(n)))
		}
	}
	sort.Strings(out)
	return out
}

// RestorePaths replaces the set with the nodes at the given paths. Paths
// that are malformed or no longer exist are skipped. It returns how many
// were restored.
func (f *FoldSet) RestorePaths(paths []string) int {
	clear(f.folded)
	restored := 0
	for _, s := range paths {
		p, ok := syntax.ParsePath(s)
		if !ok {
			continue
		}
		if n := f.tree.NodeAtPath(p); n != nil {
			f.folded[n.ID] = struct{}{}
			restored++
		}
	}
	return restored
}

// Transfer builds the fold set of a re-parsed tree. Nodes found at the same
// path in both trees keep their fold state; new nodes follow policy.
func (f *FoldSet) Transfer(to *syntax.Tree, policy FoldPolicy) *FoldSet {
	next := &FoldSet{tree: to, folded: make(map[syntax.NodeID]struct{})}
	// Walk both trees in lock step. Below a path the old tree lacks, old
	// stays nil.
	type pair struct{ old, cur *syntax.Node }
	stack := []pair{{f.tree.Root, to.Root}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.old != nil {
			if f.IsFolded(p.old.ID) {
				next.folded[p.cur.ID] = struct{}{}
			}
		} else if policy == Folded {
			next.folded[p.cur.ID] = struct{}{}
		}
		for i, c := range p.cur.Children {
			var oc *syntax.Node
			if p.old != nil && i < len(p.old.Children) {
				oc = p.old.Children[i]
			}
			stack = append(stack, pair{oc, c})
		}
	}
	return next
}
