package syntax

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/structless/pkg/debug"
	"github.com/vanderheijden86/structless/pkg/metrics"
)

// Grammar selects the parser used to turn source text into a Tree.
type Grammar int

const (
	GrammarStructless Grammar = iota // delimiter structure of arbitrary text (default)
	GrammarJSON
	GrammarGo
	GrammarMarkdown
	GrammarCode // chroma token stream nested by brackets
	numGrammars
)

// DefaultGrammar is used when neither the user nor the file type picks one.
const DefaultGrammar = GrammarStructless

// ErrUnknownGrammar is returned for grammar names outside the enumeration.
var ErrUnknownGrammar = errors.New("unknown grammar")

// String returns the grammar's flag name.
func (g Grammar) String() string {
	switch g {
	case GrammarStructless:
		return "structless"
	case GrammarJSON:
		return "json"
	case GrammarGo:
		return "go"
	case GrammarMarkdown:
		return "markdown"
	case GrammarCode:
		return "code"
	default:
		return fmt.Sprintf("grammar(%d)", int(g))
	}
}

// Description is a one-line summary used by the grammar picker.
func (g Grammar) Description() string {
	switch g {
	case GrammarStructless:
		return "Brackets, braces, parens and strings in any text"
	case GrammarJSON:
		return "JSON documents"
	case GrammarGo:
		return "Go source files"
	case GrammarMarkdown:
		return "Markdown documents"
	case GrammarCode:
		return "Any language chroma can lex, nested by brackets"
	default:
		return ""
	}
}

// Grammars returns every selectable grammar in display order.
func Grammars() []Grammar {
	out := make([]Grammar, 0, numGrammars)
	for g := Grammar(0); g < numGrammars; g++ {
		out = append(out, g)
	}
	return out
}

// GrammarNames returns the flag names of all grammars.
func GrammarNames() []string {
	names := make([]string, 0, numGrammars)
	for _, g := range Grammars() {
		names = append(names, g.String())
	}
	return names
}

// ParseGrammar maps a flag value to a Grammar. Matching is case-insensitive.
func ParseGrammar(name string) (Grammar, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "unknown", "text", "":
		return GrammarStructless, nil
	case "golang":
		return GrammarGo, nil
	case "md":
		return GrammarMarkdown, nil
	}
	for _, g := range Grammars() {
		if g.String() == name {
			return g, nil
		}
	}
	return DefaultGrammar, fmt.Errorf("%w %q (want one of %s)", ErrUnknownGrammar, name, strings.Join(GrammarNames(), ", "))
}

var extensionGrammars = map[string]Grammar{
	".json":     GrammarJSON,
	".geojson":  GrammarJSON,
	".go":       GrammarGo,
	".md":       GrammarMarkdown,
	".markdown": GrammarMarkdown,
}

// GrammarForPath picks a grammar from the file extension. overrides maps
// extensions (with leading dot) to grammar names and takes precedence.
// Paths without a known extension fall back to the code grammar when chroma
// recognises the file name, and to fallback otherwise.
func GrammarForPath(path string, overrides map[string]string, fallback Grammar) Grammar {
	if path == "" || path == "-" {
		return fallback
	}
	ext := strings.ToLower(filepath.Ext(path))
	if name, ok := overrides[ext]; ok {
		if g, err := ParseGrammar(name); err == nil {
			return g
		}
		debug.Log("ignoring grammar override %s=%q", ext, name)
	}
	if g, ok := extensionGrammars[ext]; ok {
		return g
	}
	if lexerForPath(path) != nil {
		return GrammarCode
	}
	return fallback
}

// ParseError reports source the selected grammar cannot accept.
type ParseError struct {
	Grammar Grammar
	Offset  int
	Msg     string
}

func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s: byte %d: %s", e.Grammar, e.Offset, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Grammar, e.Msg)
}

// Parse builds a tree for source with grammar g. path is only used as a
// hint (Go file name in error messages, chroma lexer selection).
func Parse(g Grammar, source []byte, path string) (*Tree, error) {
	defer metrics.Timer(metrics.Parse)()
	defer debug.LogEnterExit("syntax.Parse " + g.String())()

	var (
		tree *Tree
		err  error
	)
	switch g {
	case GrammarStructless:
		tree = parseStructless(source)
	case GrammarJSON:
		tree, err = parseJSON(source)
	case GrammarGo:
		tree, err = parseGo(source, path)
	case GrammarMarkdown:
		tree = parseMarkdown(source)
	case GrammarCode:
		tree, err = parseCode(source, path)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownGrammar, g)
	}
	if err != nil {
		return nil, err
	}
	debug.Log("parsed %d bytes into %d nodes with %s", len(source), tree.Len(), g)
	return tree, nil
}
