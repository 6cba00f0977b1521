// Package outline turns an immutable syntax tree into the navigable list of
// lines the viewer shows, and owns every piece of mutable view state: which
// nodes are folded, the search term, the cursor and the view mode.
//
// Every operation is total. Nothing here returns an error; structural
// changes that would leave the cursor dangling are corrected by remapping
// or clamping it.
package outline

import (
	"fmt"

	"github.com/vanderheijden86/structless/pkg/metrics"
	"github.com/vanderheijden86/structless/pkg/syntax"
)

// LineKind says which part of a node a line stands for.
type LineKind int

const (
	// Start opens an unfolded node with children.
	Start LineKind = iota
	// End closes the node opened by the matching Start line.
	End
	// Whole is a leaf or a folded node shown as a single line.
	Whole
)

func (k LineKind) String() string {
	switch k {
	case Start:
		return "start"
	case End:
		return "end"
	case Whole:
		return "whole"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Line is one row of the outline. Lines are derived on every change and
// never stored across recomputations.
type Line struct {
	Node   *syntax.Node
	Indent int
	Kind   LineKind
}

func (l Line) String() string {
	return fmt.Sprintf("%d:%s@%d", l.Node.ID, l.Kind, l.Indent)
}

// Flatten emits the outline of the subtree at node. A folded node or a
// leaf becomes one Whole line; any other node becomes a Start line, the
// lines of its children at indent+1 and an End line at its own indent.
//
// The traversal keeps its own stack, so depth is bounded by memory rather
// than by the goroutine stack.
func Flatten(node *syntax.Node, indent int, isFolded func(syntax.NodeID) bool) []Line {
	if node == nil {
		return nil
	}
	defer metrics.Timer(metrics.Flatten)()

	type frame struct {
		node    *syntax.Node
		indent  int
		closing bool
	}
	var lines []Line
	stack := []frame{{node: node, indent: indent}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.closing {
			lines = append(lines, Line{Node: f.node, Indent: f.indent, Kind: End})
			continue
		}
		if f.node.IsLeaf() || (isFolded != nil && isFolded(f.node.ID)) {
			lines = append(lines, Line{Node: f.node, Indent: f.indent, Kind: Whole})
			continue
		}
		lines = append(lines, Line{Node: f.node, Indent: f.indent, Kind: Start})
		stack = append(stack, frame{node: f.node, indent: f.indent, closing: true})
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.Children[i], indent: f.indent + 1})
		}
	}
	return lines
}

// Filter keeps the lines whose node text contains term. Matching is a
// case-sensitive substring test on the node's byte range. An empty term
// returns lines unchanged.
//
// A kept line's ancestors span its text, so they are kept too and the
// result stays well nested.
func Filter(tree *syntax.Tree, lines []Line, term string) []Line {
	if term == "" {
		return lines
	}
	defer metrics.Timer(metrics.Filter)()

	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if tree.Contains(l.Node, term) {
			out = append(out, l)
		}
	}
	return out
}
