// source.go - source view: the selected node's text, highlighted with chroma.
package ui

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/colorprofile"

	"github.com/vanderheijden86/structless/pkg/syntax"
)

// SourceView shows the text of one node in a scrollable viewport.
type SourceView struct {
	theme     Theme
	viewport  viewport.Model
	styleName string
	lexerName string // "" renders plain text

	tree *syntax.Tree
	node *syntax.Node
}

// NewSourceView returns a view highlighting with the named chroma style
// and lexer.
func NewSourceView(theme Theme, styleName, lexerName string) SourceView {
	return SourceView{
		theme:     theme,
		viewport:  viewport.New(80, 20),
		styleName: styleName,
		lexerName: lexerName,
	}
}

// SetSize sets the outer size; one row is used by the title.
func (s *SourceView) SetSize(width, height int) {
	s.viewport.Width = max(width, 1)
	s.viewport.Height = max(height-1, 1)
}

// SetLexer changes the lexer, for example after a reload.
func (s *SourceView) SetLexer(name string) {
	if name != s.lexerName {
		s.lexerName = name
		s.node = nil
	}
}

// Show loads n into the viewport. It is a no-op when n is already shown.
func (s *SourceView) Show(tree *syntax.Tree, n *syntax.Node) {
	if s.tree == tree && s.node == n {
		return
	}
	s.tree, s.node = tree, n
	text := tree.Text(n)
	content, err := Highlight(text, s.lexerName, s.styleName)
	if err != nil {
		content = text
	}
	s.viewport.SetContent(content)
	s.viewport.GotoTop()
}

// Update scrolls the viewport.
func (s *SourceView) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return cmd
}

// ScrollPercent returns the viewport position in [0,1].
func (s SourceView) ScrollPercent() float64 {
	return s.viewport.ScrollPercent()
}

// View renders the title row and the viewport.
func (s SourceView) View() string {
	if s.node == nil {
		return ""
	}
	n := s.node
	title := fmt.Sprintf("%s [%d,%d)", n.Kind, n.Start, n.End)
	if p := s.tree.Path(n); len(p) > 0 {
		title += "  path " + syntax.FormatPath(p)
	}
	if s.viewport.TotalLineCount() > s.viewport.Height {
		title += fmt.Sprintf("  %3.0f%%", s.viewport.ScrollPercent()*100)
	}
	return s.theme.SourceBorderHead.Render(truncate(title, s.viewport.Width)) + "\n" + s.viewport.View()
}

// Highlight renders text with the named chroma lexer and style for the
// detected terminal profile. An empty or unknown lexer name returns text
// unchanged, as does a terminal without color.
func Highlight(text, lexerName, styleName string) (string, error) {
	if lexerName == "" {
		return text, nil
	}
	lexer := lexers.Get(lexerName)
	if lexer == nil {
		return text, nil
	}
	formatter := formatterFor(TermProfile)
	if formatter == nil {
		return text, nil
	}
	style := styles.Get(styleName)

	it, err := chroma.Coalesce(lexer).Tokenise(nil, text)
	if err != nil {
		return "", fmt.Errorf("tokenising: %w", err)
	}
	var sb strings.Builder
	if err := formatter.Format(&sb, style, it); err != nil {
		return "", fmt.Errorf("formatting: %w", err)
	}
	return sb.String(), nil
}

func formatterFor(p colorprofile.Profile) chroma.Formatter {
	switch {
	case p >= colorprofile.TrueColor:
		return formatters.Get("terminal16m")
	case p >= colorprofile.ANSI256:
		return formatters.Get("terminal256")
	case p >= colorprofile.ANSI:
		return formatters.Get("terminal16")
	}
	return nil
}
