package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/vanderheijden86/structless/pkg/outline"
)

// KeyMap holds the normal-mode bindings. It implements help.KeyMap for the
// footer.
type KeyMap struct {
	Up               key.Binding
	Down             key.Binding
	PageUp           key.Binding
	PageDown         key.Binding
	Top              key.Binding
	Bottom           key.Binding
	Unfold           key.Binding
	Fold             key.Binding
	Toggle           key.Binding
	ExpandOrEnter    key.Binding
	CollapseOrParent key.Binding
	Parent           key.Binding
	NextSibling      key.Binding
	PrevSibling      key.Binding
	FoldAll          key.Binding
	UnfoldAll        key.Binding
	ToggleView       key.Binding
	Search           key.Binding
	ClearSearch      key.Binding
	Copy             key.Binding
	Help             key.Binding
	Quit             key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:               key.NewBinding(key.WithKeys("up", "k", "w"), key.WithHelp("↑/k", "up")),
		Down:             key.NewBinding(key.WithKeys("down", "j", "s"), key.WithHelp("↓/j", "down")),
		PageUp:           key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:         key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Top:              key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:           key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Unfold:           key.NewBinding(key.WithKeys("right", "d"), key.WithHelp("→/d", "unfold")),
		Fold:             key.NewBinding(key.WithKeys("left", "a"), key.WithHelp("←/a", "fold")),
		Toggle:           key.NewBinding(key.WithKeys(" ", "tab"), key.WithHelp("space", "toggle")),
		ExpandOrEnter:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "expand/child")),
		CollapseOrParent: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "collapse/parent")),
		Parent:           key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "parent")),
		NextSibling:      key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next sibling")),
		PrevSibling:      key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev sibling")),
		FoldAll:          key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "fold all")),
		UnfoldAll:        key.NewBinding(key.WithKeys("=", "+"), key.WithHelp("=", "unfold all")),
		ToggleView:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "source")),
		Search:           key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		ClearSearch:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
		Copy:             key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Help:             key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:             key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp returns the footer bindings.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.ToggleView, k.Search, k.Help, k.Quit}
}

// FullHelp returns every binding, grouped.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Unfold, k.Fold, k.Toggle, k.FoldAll, k.UnfoldAll},
		{k.ExpandOrEnter, k.CollapseOrParent, k.Parent, k.NextSibling, k.PrevSibling},
		{k.ToggleView, k.Search, k.ClearSearch, k.Copy, k.Help, k.Quit},
	}
}

// opBindings pairs each engine operation with its binding, in match order.
func (k KeyMap) opBindings() []struct {
	binding key.Binding
	op      outline.Op
} {
	return []struct {
		binding key.Binding
		op      outline.Op
	}{
		{k.Up, outline.OpUp},
		{k.Down, outline.OpDown},
		{k.PageUp, outline.OpPageUp},
		{k.PageDown, outline.OpPageDown},
		{k.Top, outline.OpTop},
		{k.Bottom, outline.OpBottom},
		{k.Unfold, outline.OpUnfold},
		{k.Fold, outline.OpFold},
		{k.Toggle, outline.OpToggle},
		{k.ExpandOrEnter, outline.OpExpandOrEnter},
		{k.CollapseOrParent, outline.OpCollapseOrParent},
		{k.Parent, outline.OpParent},
		{k.NextSibling, outline.OpNextSibling},
		{k.PrevSibling, outline.OpPrevSibling},
		{k.FoldAll, outline.OpFoldAll},
		{k.UnfoldAll, outline.OpUnfoldAll},
		{k.ToggleView, outline.OpToggleView},
	}
}
