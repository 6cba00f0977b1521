// tree.go - outline view: one row per visible line with windowed rendering.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/structless/pkg/metrics"
	"github.com/vanderheijden86/structless/pkg/outline"
	"github.com/vanderheijden86/structless/pkg/syntax"
)

// maxRowBytes bounds how much node text is examined per row.
const maxRowBytes = 4096

// OutlineView renders the engine's visible lines. It owns only the scroll
// offset; the lines and cursor belong to the engine.
type OutlineView struct {
	theme      Theme
	kindWidth  int
	showRanges bool
	width      int
	height     int
	offset     int // index of the first rendered line
}

// NewOutlineView returns a view with the given kind column width.
func NewOutlineView(theme Theme, kindWidth int, showRanges bool) OutlineView {
	if kindWidth < 1 {
		kindWidth = 15
	}
	return OutlineView{theme: theme, kindWidth: kindWidth, showRanges: showRanges}
}

// SetSize sets the available width and height, position indicator included.
func (v *OutlineView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Offset returns the index of the first rendered line.
func (v OutlineView) Offset() int { return v.offset }

// VisibleCount returns how many rows fit for a list of total lines,
// reserving one row for the position indicator when scrolling is needed.
func (v OutlineView) VisibleCount(total int) int {
	visible := v.height
	if visible <= 0 {
		visible = 20
	}
	if total > visible {
		visible--
	}
	return max(visible, 1)
}

// Follow scrolls just enough to keep cursor on screen.
func (v *OutlineView) Follow(cursor, total int) {
	if total == 0 {
		v.offset = 0
		return
	}
	visible := v.VisibleCount(total)
	if cursor < v.offset {
		v.offset = cursor
	}
	if cursor >= v.offset+visible {
		v.offset = cursor - visible + 1
	}
	v.offset = max(0, min(v.offset, total-visible))
}

// visibleRange returns the half-open range of lines to render.
func (v OutlineView) visibleRange(total int) (start, end int) {
	visible := v.VisibleCount(total)
	start = max(v.offset, 0)
	end = start + visible
	if end > total {
		end = total
		start = max(end-visible, 0)
	}
	return start, end
}

// View renders the rows of e between the current offset and the bottom of
// the view.
func (v OutlineView) View(e *outline.Engine) string {
	defer metrics.Timer(metrics.Render)()

	lines := e.Lines()
	tree := e.Tree()
	selected := e.Selected()
	start, end := v.visibleRange(len(lines))

	var sb strings.Builder
	for i := start; i < end; i++ {
		row := v.renderLine(tree, lines[i], lines[i].Node == selected, e.Folds(), e.Search())
		if i == e.Cursor() {
			row = v.theme.Selected.Width(max(v.width-1, 1)).Render(row)
		} else {
			row = " " + row
		}
		sb.WriteString(row)
		if i < end-1 {
			sb.WriteByte('\n')
		}
	}

	if len(lines) > v.VisibleCount(len(lines)) {
		sb.WriteByte('\n')
		sb.WriteString(v.renderPositionIndicator(start, end, len(lines)))
	}
	return sb.String()
}

// renderPositionIndicator shows "start-end of total" (1-indexed).
func (v OutlineView) renderPositionIndicator(start, end, total int) string {
	return v.theme.MutedText.Render(fmt.Sprintf(" %d-%d of %d", start+1, end, total))
}

// renderLine renders one row without selection styling. nodeSelected is
// true for every line of the selected node, so a Start line's matching End
// line is marked too.
func (v OutlineView) renderLine(tree *syntax.Tree, line outline.Line, nodeSelected bool, folds *outline.FoldSet, term string) string {
	t := v.theme
	indent := strings.Repeat(" ", line.Indent)
	n := line.Node

	if line.Kind == outline.End {
		style := t.EndText
		if nodeSelected {
			style = t.EndSelected
		}
		return indent + style.Render("// end "+n.Kind)
	}

	kindStyle := t.KindText
	if nodeSelected {
		kindStyle = t.KindSelected
	}

	marker := "  "
	switch {
	case n.IsLeaf():
	case line.Kind == outline.Start:
		marker = t.MutedText.Render("▾ ")
	case folds.IsFolded(n.ID):
		marker = t.FoldIndicator.Render("▸ ")
	}

	prefix := indent + kindStyle.Render(kindColumn(n.Kind, v.kindWidth)) + " " + marker
	used := lipgloss.Width(prefix) + 2

	suffix := ""
	if v.showRanges {
		suffix = " " + t.RangeText.Render(fmt.Sprintf("[%d,%d)", n.Start, n.End))
		used += lipgloss.Width(suffix)
	}

	room := v.width - used
	if v.width <= 0 {
		room = 80
	}
	text := truncate(oneLine(firstBytes(tree.Text(n), maxRowBytes)), max(room, 1))
	return prefix + v.highlightTerm(text, term) + suffix
}

// highlightTerm styles the node text, marking occurrences of term.
func (v OutlineView) highlightTerm(text, term string) string {
	t := v.theme
	if term == "" || !strings.Contains(text, term) {
		return t.NodeText.Render(text)
	}
	var sb strings.Builder
	for {
		i := strings.Index(text, term)
		if i < 0 {
			sb.WriteString(t.NodeText.Render(text))
			break
		}
		if i > 0 {
			sb.WriteString(t.NodeText.Render(text[:i]))
		}
		sb.WriteString(t.MatchText.Render(term))
		text = text[i+len(term):]
		if text == "" {
			break
		}
	}
	return sb.String()
}

// PlainLine renders line as unstyled text, the format of --dump.
func PlainLine(tree *syntax.Tree, line outline.Line, kindWidth int) string {
	indent := strings.Repeat(" ", line.Indent)
	n := line.Node
	if line.Kind == outline.End {
		return indent + "// end " + n.Kind
	}
	return indent + kindColumn(n.Kind, kindWidth) + "   " + oneLine(tree.Text(n))
}
