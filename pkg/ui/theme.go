package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Outline
	Text      lipgloss.AdaptiveColor // node text
	Kind      lipgloss.AdaptiveColor // kind column
	EndMarker lipgloss.AdaptiveColor // "// end" rows
	Folded    lipgloss.AdaptiveColor // fold indicator of a folded node
	Match     lipgloss.AdaptiveColor // search term inside node text

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style

	// Pre-computed row styles, created once instead of per frame.
	KindText         lipgloss.Style
	KindSelected     lipgloss.Style
	NodeText         lipgloss.Style
	EndText          lipgloss.Style
	EndSelected      lipgloss.Style
	FoldIndicator    lipgloss.Style
	MatchText        lipgloss.Style
	MutedText        lipgloss.Style
	RangeText        lipgloss.Style
	PrimaryBold      lipgloss.Style
	SearchPrompt     lipgloss.Style
	SearchNoMatches  lipgloss.Style
	StatusOK         lipgloss.Style
	StatusError      lipgloss.Style
	SourceBorder     lipgloss.Style
	SourceBorderHead lipgloss.Style
}

// DefaultTheme returns the Dracula-inspired theme (adaptive).
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}, // Dim

		Text:      lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}, // Cyan
		Kind:      lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		EndMarker: lipgloss.AdaptiveColor{Light: "#888888", Dark: "#44475A"},
		Folded:    lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}, // Orange
		Match:     lipgloss.AdaptiveColor{Light: "#808000", Dark: "#F1FA8C"}, // Yellow

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.KindText = r.NewStyle().Foreground(t.Kind).Faint(true)
	t.KindSelected = r.NewStyle().Foreground(t.Kind)
	t.NodeText = r.NewStyle().Foreground(t.Text)
	t.EndText = r.NewStyle().Foreground(t.EndMarker)
	t.EndSelected = r.NewStyle().Foreground(ColorDanger)
	t.FoldIndicator = r.NewStyle().Foreground(t.Folded).Bold(true)
	t.MatchText = r.NewStyle().Foreground(t.Match).Bold(true).Underline(true)
	t.MutedText = r.NewStyle().Foreground(ColorMuted)
	t.RangeText = r.NewStyle().Foreground(ColorMuted).Italic(true)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.SearchPrompt = r.NewStyle().Foreground(ColorWarning).Bold(true)
	t.SearchNoMatches = r.NewStyle().Foreground(ColorDanger).Italic(true)
	t.StatusOK = r.NewStyle().
		Background(ColorSuccessBg).
		Foreground(ColorSuccess).
		Bold(true).
		Padding(0, 2)
	t.StatusError = r.NewStyle().
		Background(ColorDangerBg).
		Foreground(ColorDanger).
		Bold(true).
		Padding(0, 2)
	t.SourceBorder = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border)
	t.SourceBorderHead = r.NewStyle().Foreground(t.Primary).Bold(true)

	return t
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
