package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vanderheijden86/structless/pkg/syntax"
)

// TestingT is the subset of testing.TB that assertions need. Both
// *testing.T and *rapid.T satisfy it.
type TestingT interface {
	Helper()
	Errorf(format string, args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
}

// AssertTreeShape verifies the structural invariants every parsed tree
// must hold: IDs are dense and in pre-order, parent links match child
// lists, and every node's byte range lies inside its parent's. Sibling
// ranges must also be ordered and disjoint, except for go trees where
// go/ast nests positions across fields (see AssertSiblingsOrdered).
func AssertTreeShape(t TestingT, tree *syntax.Tree) {
	t.Helper()
	if tree.Root == nil {
		t.Fatal("tree has no root")
	}
	if tree.Root.Parent != nil {
		t.Errorf("root %d has a parent", tree.Root.ID)
	}
	order := append([]*syntax.Node{tree.Root}, tree.Descendants(tree.Root)...)
	if len(order) != tree.Len() {
		t.Errorf("reachable nodes = %d, tree.Len() = %d", len(order), tree.Len())
	}
	for i, n := range order {
		if int(n.ID) != i {
			t.Errorf("node at pre-order position %d has ID %d", i, n.ID)
		}
		if tree.Node(n.ID) != n {
			t.Errorf("tree.Node(%d) does not return the node", n.ID)
		}
		if n.Start < 0 || n.End < n.Start || n.End > len(tree.Source) {
			t.Errorf("node %d (%s) has bad range [%d,%d) for %d bytes", n.ID, n.Kind, n.Start, n.End, len(tree.Source))
		}
		for _, c := range n.Children {
			if c.Parent != n {
				t.Errorf("child %d of %d has parent %v", c.ID, n.ID, c.Parent)
			}
			if c.Start < n.Start || c.End > n.End {
				t.Errorf("child %d [%d,%d) escapes parent %d [%d,%d)", c.ID, c.Start, c.End, n.ID, n.Start, n.End)
			}
		}
	}
	if tree.Grammar != syntax.GrammarGo {
		AssertSiblingsOrdered(t, tree)
	}
}

// AssertSiblingsOrdered checks that each node's children appear in source
// order and do not overlap: every child starts at or after the end of the
// one before it.
func AssertSiblingsOrdered(t TestingT, tree *syntax.Tree) {
	t.Helper()
	for _, n := range append([]*syntax.Node{tree.Root}, tree.Descendants(tree.Root)...) {
		for i := 1; i < len(n.Children); i++ {
			prev, c := n.Children[i-1], n.Children[i]
			if c.Start < prev.End {
				t.Errorf("%s child %d %s [%d,%d) overlaps sibling %d %s [%d,%d)",
					n.Kind, c.ID, c.Kind, c.Start, c.End, prev.ID, prev.Kind, prev.Start, prev.End)
			}
		}
	}
}

// Kinds returns the kinds of n's children in order.
func Kinds(n *syntax.Node) []string {
	out := make([]string, len(n.Children))
	for i, c := range n.Children {
		out[i] = c.Kind
	}
	return out
}

// FindKind returns the first node of the given kind in pre-order, or nil.
func FindKind(tree *syntax.Tree, kind string) *syntax.Node {
	if tree.Root.Kind == kind {
		return tree.Root
	}
	for _, n := range tree.Descendants(tree.Root) {
		if n.Kind == kind {
			return n
		}
	}
	return nil
}

// FindText returns the first node in pre-order whose text equals text.
func FindText(tree *syntax.Tree, text string) *syntax.Node {
	if tree.Text(tree.Root) == text {
		return tree.Root
	}
	for _, n := range tree.Descendants(tree.Root) {
		if tree.Text(n) == text {
			return n
		}
	}
	return nil
}

// WriteSource writes content to name inside a fresh temp dir and returns
// the file path.
func WriteSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
