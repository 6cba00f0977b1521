package outline_test

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/vanderheijden86/structless/pkg/outline"
	"github.com/vanderheijden86/structless/pkg/syntax"
	"github.com/vanderheijden86/structless/pkg/testutil"
)

// assertWellNested checks that Start/End pairs nest like brackets, that
// every line sits one level below the node that encloses it and that the
// list is closed at the end.
func assertWellNested(t testutil.TestingT, lines []outline.Line) {
	t.Helper()
	var open []outline.Line
	for i, l := range lines {
		if l.Kind == outline.End {
			if len(open) == 0 {
				t.Fatalf("line %d: End of %d with nothing open", i, l.Node.ID)
			}
			top := open[len(open)-1]
			if top.Node != l.Node || top.Indent != l.Indent {
				t.Fatalf("line %d: End %s does not match open Start %s", i, l, top)
			}
			open = open[:len(open)-1]
			continue
		}
		if len(open) > 0 {
			top := open[len(open)-1]
			if l.Indent != top.Indent+1 {
				t.Fatalf("line %d: %s inside %s has wrong indent", i, l, top)
			}
			if l.Node.Parent != top.Node {
				t.Fatalf("line %d: %s is not a child of enclosing %s", i, l, top)
			}
		} else if l.Indent != 0 {
			t.Fatalf("line %d: top-level line %s has indent %d", i, l, l.Indent)
		}
		if l.Kind == outline.Start {
			open = append(open, l)
		}
	}
	if len(open) != 0 {
		t.Fatalf("%d Start lines never closed", len(open))
	}
}

func render(tree *syntax.Tree, lines []outline.Line) string {
	var b strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&b, "%s%s %s %q\n", strings.Repeat("  ", l.Indent), l.Kind, l.Node.Kind, tree.Text(l.Node))
	}
	return b.String()
}

func noneFolded(syntax.NodeID) bool { return false }

func TestFlattenUnfolded(t *testing.T) {
	tree := testutil.Parse("a(b)")
	lines := outline.Flatten(tree.Root, 0, noneFolded)

	want := `start source_file "a(b)"
  whole just_text "a"
  start delimited "(b)"
    whole paren_start "("
    whole just_text "b"
    whole paren_end ")"
  end delimited "(b)"
end source_file "a(b)"
`
	if got := render(tree, lines); got != want {
		t.Errorf("Flatten =\n%s\nwant\n%s", got, want)
	}
	assertWellNested(t, lines)
}

func TestFlattenFoldedNodeIsWhole(t *testing.T) {
	tree := testutil.Parse("a(b)")
	d := testutil.FindKind(tree, "delimited")
	lines := outline.Flatten(tree.Root, 0, func(id syntax.NodeID) bool { return id == d.ID })

	kinds := make([]string, len(lines))
	for i, l := range lines {
		kinds[i] = l.Kind.String() + ":" + l.Node.Kind
	}
	want := []string{"start:source_file", "whole:just_text", "whole:delimited", "end:source_file"}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("lines = %v, want %v", kinds, want)
	}
}

func TestFlattenFoldedRootIsOneLine(t *testing.T) {
	tree := testutil.QuickBalanced(3, 3)
	lines := outline.Flatten(tree.Root, 0, func(id syntax.NodeID) bool { return id == tree.Root.ID })
	if len(lines) != 1 || lines[0].Kind != outline.Whole {
		t.Errorf("folded root should flatten to one Whole line, got %d lines", len(lines))
	}
}

func TestFlattenStartIndent(t *testing.T) {
	tree := testutil.ChainTree(3)
	lines := outline.Flatten(tree.Root, 2, nil)
	if lines[0].Indent != 2 || lines[len(lines)-1].Indent != 2 {
		t.Errorf("outermost lines should use the starting indent, got %d and %d", lines[0].Indent, lines[len(lines)-1].Indent)
	}
	if lines[2].Indent != 4 {
		t.Errorf("grandchild indent = %d, want 4", lines[2].Indent)
	}
}

func TestFlattenNilNode(t *testing.T) {
	if lines := outline.Flatten(nil, 0, nil); lines != nil {
		t.Errorf("Flatten(nil) = %v", lines)
	}
}

// A folded innermost node on a three-node chain yields two Start/End pairs
// around one Whole line.
func TestFlattenChainWithFoldedLeafParent(t *testing.T) {
	tree := testutil.ChainTree(3)
	c := tree.Root.Children[0].Children[0]
	lines := outline.Flatten(tree.Root, 0, func(id syntax.NodeID) bool { return id == c.ID })
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), render(tree, lines))
	}
	wantKinds := []outline.LineKind{outline.Start, outline.Start, outline.Whole, outline.End, outline.End}
	for i, l := range lines {
		if l.Kind != wantKinds[i] {
			t.Errorf("line %d kind = %s, want %s", i, l.Kind, wantKinds[i])
		}
	}
	if lines[2].Node != c {
		t.Error("Whole line should be the folded node")
	}
}

func TestFlattenParsedScenario(t *testing.T) {
	tree := testutil.Parse("a(b(c)d)e")
	inner := testutil.FindText(tree, "(c)")
	lines := outline.Flatten(tree.Root, 0, func(id syntax.NodeID) bool { return id == inner.ID })

	want := `start source_file "a(b(c)d)e"
  whole just_text "a"
  start delimited "(b(c)d)"
    whole paren_start "("
    whole just_text "b"
    whole delimited "(c)"
    whole just_text "d"
    whole paren_end ")"
  end delimited "(b(c)d)"
  whole just_text "e"
end source_file "a(b(c)d)e"
`
	if got := render(tree, lines); got != want {
		t.Errorf("Flatten =\n%s\nwant\n%s", got, want)
	}
}

func TestFilterIdentity(t *testing.T) {
	tree := testutil.QuickRandom(60)
	lines := outline.Flatten(tree.Root, 0, noneFolded)
	got := outline.Filter(tree, lines, "")
	if len(got) != len(lines) || (len(lines) > 0 && &got[0] != &lines[0]) {
		t.Error("empty term should return the same slice")
	}
}

func TestFilterKeepsAncestors(t *testing.T) {
	tree := testutil.Parse("x(y(needle)z)w")
	lines := outline.Filter(tree, outline.Flatten(tree.Root, 0, noneFolded), "needle")

	want := `start source_file "x(y(needle)z)w"
  start delimited "(y(needle)z)"
    start delimited "(needle)"
      whole just_text "needle"
    end delimited "(needle)"
  end delimited "(y(needle)z)"
end source_file "x(y(needle)z)w"
`
	if got := render(tree, lines); got != want {
		t.Errorf("Filter =\n%s\nwant\n%s", got, want)
	}
	assertWellNested(t, lines)
}

func TestFilterIsCaseSensitive(t *testing.T) {
	tree := testutil.Parse("(Foo)")
	lines := outline.Flatten(tree.Root, 0, noneFolded)
	if got := outline.Filter(tree, lines, "foo"); len(got) != 0 {
		t.Errorf("lowercase term matched %d lines", len(got))
	}
	if got := outline.Filter(tree, lines, "Foo"); len(got) == 0 {
		t.Error("exact-case term matched nothing")
	}
}

func TestLineKindString(t *testing.T) {
	for k, want := range map[outline.LineKind]string{outline.Start: "start", outline.End: "end", outline.Whole: "whole"} {
		if k.String() != want {
			t.Errorf("%d.String() = %q", k, k.String())
		}
	}
}
