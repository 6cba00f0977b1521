package syntax

import (
	"errors"
	"fmt"
	goast "go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strings"
)

// parseGo parses Go source with the standard library parser. Node kinds
// are the go/ast type names (File, FuncDecl, BlockStmt, ...).
//
// Children follow go/ast field order, not source order, so sibling ranges
// may overlap: a FuncDecl's Name lies inside its FuncType, which starts at
// the func keyword. Containment in the parent still holds.
func parseGo(src []byte, path string) (*Tree, error) {
	if path == "" || path == "-" {
		path = "stdin.go"
	}
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.ParseComments)
	if err != nil {
		var list scanner.ErrorList
		if errors.As(err, &list) && len(list) > 0 {
			return nil, &ParseError{Grammar: GrammarGo, Offset: list[0].Pos.Offset, Msg: list[0].Msg}
		}
		return nil, &ParseError{Grammar: GrammarGo, Offset: -1, Msg: err.Error()}
	}

	offset := func(p token.Pos) int {
		if !p.IsValid() {
			return 0
		}
		off := fset.Position(p).Offset
		if off > len(src) {
			return len(src)
		}
		return off
	}

	b := NewBuilder(src, GrammarGo)
	var open []goast.Node
	goast.Inspect(file, func(n goast.Node) bool {
		if n == nil {
			if len(open) == 0 {
				return false
			}
			last := open[len(open)-1]
			open = open[:len(open)-1]
			end := offset(last.End())
			if _, ok := last.(*goast.File); ok {
				end = len(src)
			}
			b.Close(end)
			return false
		}
		if !n.Pos().IsValid() {
			return false
		}
		start := offset(n.Pos())
		if _, ok := n.(*goast.File); ok {
			start = 0
		}
		b.Open(goKind(n), start)
		open = append(open, n)
		return true
	})
	return b.Finish("File"), nil
}

func goKind(n goast.Node) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
}
