package syntax

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

func lexerForPath(path string) chroma.Lexer {
	if path == "" || path == "-" {
		return nil
	}
	return lexers.Match(filepath.Base(path))
}

func lexerFor(src []byte, path string) chroma.Lexer {
	if l := lexerForPath(path); l != nil {
		return l
	}
	if l := lexers.Analyse(string(src)); l != nil {
		return l
	}
	return lexers.Fallback
}

// LexerName returns the chroma lexer name used to highlight text parsed
// with grammar g, or "" when the text should be shown unhighlighted.
func LexerName(g Grammar, src []byte, path string) string {
	switch g {
	case GrammarJSON:
		return "json"
	case GrammarGo:
		return "go"
	case GrammarMarkdown:
		return "markdown"
	case GrammarCode:
		l := lexerFor(src, path)
		if l == lexers.Fallback {
			return ""
		}
		return l.Config().Name
	default:
		return ""
	}
}

// parseCode tokenises src with a chroma lexer and nests the token stream
// by bracket punctuation: every opening bracket starts a "block" node that
// ends at the matching closer. Whitespace is dropped; every other token
// becomes a leaf whose kind is its chroma token type.
func parseCode(src []byte, path string) (*Tree, error) {
	lexer := lexerFor(src, path)
	iter, err := lexer.Tokenise(&chroma.TokeniseOptions{State: "root"}, string(src))
	if err != nil {
		return nil, &ParseError{Grammar: GrammarCode, Offset: -1, Msg: fmt.Sprintf("%s lexer: %v", lexer.Config().Name, err)}
	}

	b := NewBuilder(src, GrammarCode)
	b.Open("source", 0)
	var closers []byte

	off := 0
	for tok := iter(); tok != chroma.EOF; tok = iter() {
		start := off
		end := off + len(tok.Value)
		off = end
		if start >= len(src) {
			break
		}
		if end > len(src) {
			end = len(src)
		}
		if strings.TrimSpace(tok.Value) == "" {
			continue
		}
		if !isBracketToken(tok.Type) {
			b.Leaf(tok.Type.String(), start, end)
			continue
		}
		// Punctuation tokens may hold several characters ("):" in Python),
		// so brackets are located byte by byte.
		kind := tok.Type.String()
		run := -1
		flush := func(at int) {
			if run >= 0 {
				b.Leaf(kind, run, at)
				run = -1
			}
		}
		for i := start; i < end; i++ {
			c := src[i]
			if d, ok := openerKinds(c); ok {
				flush(i)
				b.Open("block", i)
				b.Leaf(d.startKind, i, i+1)
				closers = append(closers, d.close)
				continue
			}
			if d, ok := closerKinds(c); ok {
				if n := len(closers); n > 0 && closers[n-1] == c {
					flush(i)
					b.Leaf(d.endKind, i, i+1)
					b.Close(i + 1)
					closers = closers[:n-1]
					continue
				}
			}
			if isCodeSpace(c) {
				flush(i)
				continue
			}
			if run < 0 {
				run = i
			}
		}
		flush(end)
	}
	return b.Finish("source"), nil
}

func isBracketToken(t chroma.TokenType) bool {
	return t.InCategory(chroma.Punctuation) || t.InCategory(chroma.Operator) || t == chroma.Text
}

func isCodeSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
