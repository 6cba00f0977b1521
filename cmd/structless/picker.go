package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/structless/pkg/syntax"
)

var errPickerCancelled = errors.New("grammar selection cancelled")

func joinNames() string {
	return strings.Join(syntax.GrammarNames(), ", ")
}

// grammarOptions lists every grammar with its description.
func grammarOptions() []huh.Option[syntax.Grammar] {
	grammars := syntax.Grammars()
	opts := make([]huh.Option[syntax.Grammar], 0, len(grammars))
	for _, g := range grammars {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%-11s %s", g, g.Description()), g))
	}
	return opts
}

// pickGrammar asks the user for a grammar, preselecting def. The prompt
// is drawn on stderr so --dump output stays clean.
func pickGrammar(def syntax.Grammar) (syntax.Grammar, error) {
	in, closeIn, err := promptInput()
	if err != nil {
		return def, err
	}
	defer closeIn()

	choice := def
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[syntax.Grammar]().
				Title("Grammar").
				Description("How should the input be parsed?").
				Options(grammarOptions()...).
				Value(&choice),
		),
	).WithTheme(huh.ThemeDracula()).WithInput(in).WithOutput(os.Stderr)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return def, errPickerCancelled
		}
		return def, err
	}
	return choice, nil
}

// promptInput returns a reader for interactive keys: stdin when it is a
// terminal, the controlling terminal otherwise.
func promptInput() (io.Reader, func(), error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return os.Stdin, func() {}, nil
	}
	tty, err := os.Open("/dev/tty")
	if err != nil {
		return nil, nil, fmt.Errorf("--grammar %s needs a terminal: %w", askGrammar, err)
	}
	return tty, func() { tty.Close() }, nil
}
