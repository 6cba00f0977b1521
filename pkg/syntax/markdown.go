package syntax

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var markdownParser = goldmark.New(goldmark.WithExtensions(extension.GFM))

// parseMarkdown converts a goldmark AST into a Tree. Block nodes take their
// range from their line segments and text nodes from their segment; nodes
// goldmark gives no position (lists, emphasis, links, ...) cover their
// children. A positionless node without children collapses to an empty
// range at the end of the previous node.
func parseMarkdown(src []byte) *Tree {
	doc := markdownParser.Parser().Parse(text.NewReader(src))

	b := NewBuilder(src, GrammarMarkdown)
	lastEnd := 0
	type frame struct {
		node     *Node
		known    bool
		knownEnd int
	}
	var frames []frame

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			start, end, known := markdownSpan(n)
			if n.Kind() == ast.KindDocument {
				start, end, known = 0, len(src), true
			}
			if !known {
				start = len(src)
			}
			node := b.Open(n.Kind().String(), start)
			frames = append(frames, frame{node: node, known: known, knownEnd: end})
			return ast.WalkContinue, nil
		}

		f := frames[len(frames)-1]
		frames = frames[:len(frames)-1]
		end := f.knownEnd
		if !f.known {
			end = lastEnd
		}
		node := b.Close(end)
		if !f.known {
			coverChildren(node, lastEnd)
		}
		if node.End > lastEnd {
			lastEnd = node.End
		}
		return ast.WalkContinue, nil
	})
	return b.Finish("Document")
}

// coverChildren sets a positionless node's range to the union of its
// children's ranges, or to the empty range at fallback when it has none.
func coverChildren(n *Node, fallback int) {
	if len(n.Children) == 0 {
		n.Start, n.End = fallback, fallback
		return
	}
	n.Start, n.End = n.Children[0].Start, n.Children[0].End
	for _, c := range n.Children[1:] {
		n.Start = min(n.Start, c.Start)
		n.End = max(n.End, c.End)
	}
}

// markdownSpan returns the byte range goldmark recorded for n, if any.
func markdownSpan(n ast.Node) (start, end int, ok bool) {
	switch v := n.(type) {
	case *ast.Text:
		return v.Segment.Start, v.Segment.Stop, true
	case *ast.RawHTML:
		if v.Segments != nil && v.Segments.Len() > 0 {
			return v.Segments.At(0).Start, v.Segments.At(v.Segments.Len() - 1).Stop, true
		}
		return 0, 0, false
	}
	if n.Type() == ast.TypeInline {
		return 0, 0, false
	}
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return 0, 0, false
	}
	return lines.At(0).Start, lines.At(lines.Len() - 1).Stop, true
}
