package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var helpSections = []string{"Movement", "Folding", "Structure", "Views and search"}

// HelpMarkdown returns the help overlay text as markdown, one table per
// FullHelp group.
func HelpMarkdown(k KeyMap) string {
	var sb strings.Builder
	sb.WriteString("# structless\n\n")
	sb.WriteString("Browse a document as a foldable outline of its parse tree. ")
	sb.WriteString("Folding an already folded node folds everything below it; ")
	sb.WriteString("unfolding an already unfolded node unfolds everything below it.\n\n")
	for i, group := range k.FullHelp() {
		title := "Keys"
		if i < len(helpSections) {
			title = helpSections[i]
		}
		fmt.Fprintf(&sb, "## %s\n\n| Key | Action |\n|---|---|\n", title)
		for _, b := range group {
			h := b.Help()
			fmt.Fprintf(&sb, "| `%s` | %s |\n", strings.Join(b.Keys(), "` `"), h.Desc)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("While editing the search term, `enter` or `esc` returns to the outline and keeps the term.\n")
	return sb.String()
}

// renderHelp renders the help markdown for width columns with glamour,
// falling back to the raw markdown.
func renderHelp(k KeyMap, width int) string {
	md := HelpMarkdown(k)
	style := "notty"
	if TermProfile >= colorprofile.ANSI {
		style = "light"
		if lipgloss.HasDarkBackground() {
			style = "dark"
		}
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n ")
}
