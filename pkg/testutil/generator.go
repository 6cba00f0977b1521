// Package testutil provides fixture trees and sources for outline tests.
// Seeded generators produce deterministic output for reproducible tests;
// the rapid generators feed property tests.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/structless/pkg/syntax"
)

// GeneratorConfig controls source generation.
type GeneratorConfig struct {
	Seed     int64    // Random seed for determinism (0 = use current time)
	Words    []string // Vocabulary for text runs (default: lorem-style words)
	MaxDepth int      // Deepest bracket nesting Random will produce (default: 6)
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:     42,
		Words:    []string{"alpha", "beta", "gamma", "delta", "x", "y", "foo", "bar"},
		MaxDepth: 6,
	}
}

// Generator creates structless sources with known shapes.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if len(cfg.Words) == 0 {
		cfg.Words = DefaultConfig().Words
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 6
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Chain returns depth nested paren groups around a single word:
// "n0(n1(n2))" for depth 2.
func (g *Generator) Chain(depth int) string {
	var b strings.Builder
	for i := 0; i < depth; i++ {
		fmt.Fprintf(&b, "n%d(", i)
	}
	fmt.Fprintf(&b, "n%d", depth)
	b.WriteString(strings.Repeat(")", depth))
	return b.String()
}

// Balanced returns a source whose bracket groups form a complete tree of
// the given depth where every group holds breadth child groups.
func (g *Generator) Balanced(depth, breadth int) string {
	var b strings.Builder
	var emit func(level int, label string)
	emit = func(level int, label string) {
		b.WriteString(label)
		if level == depth {
			return
		}
		b.WriteByte('{')
		for i := 0; i < breadth; i++ {
			if i > 0 {
				b.WriteByte(' ')
			}
			emit(level+1, fmt.Sprintf("%s.%d", label, i))
		}
		b.WriteByte('}')
	}
	emit(0, "r")
	return b.String()
}

// Random returns a source of roughly size tokens mixing words, nested
// brackets and strings. Brackets are always balanced.
func (g *Generator) Random(size int) string {
	var b strings.Builder
	var closers []byte
	opens := []string{"(", "[", "{"}
	closeFor := map[string]byte{"(": ')', "[": ']', "{": '}'}
	for i := 0; i < size; i++ {
		switch r := g.rng.Intn(10); {
		case r < 3 && len(closers) < g.cfg.MaxDepth:
			o := opens[g.rng.Intn(len(opens))]
			b.WriteString(o)
			closers = append(closers, closeFor[o])
		case r < 5 && len(closers) > 0:
			b.WriteByte(closers[len(closers)-1])
			closers = closers[:len(closers)-1]
		case r == 5:
			fmt.Fprintf(&b, "%q", g.word())
		case r == 6:
			b.WriteByte('\n')
		default:
			b.WriteString(g.word())
			b.WriteByte(' ')
		}
	}
	for len(closers) > 0 {
		b.WriteByte(closers[len(closers)-1])
		closers = closers[:len(closers)-1]
	}
	return b.String()
}

func (g *Generator) word() string {
	return g.cfg.Words[g.rng.Intn(len(g.cfg.Words))]
}

// ChainTree builds a tree that is a single path root -> n1 -> ... of size
// nodes, without going through a parser. Node i spans the bytes i through
// 2*size-1-i of a bracket-shaped source, so every node's text is distinct.
func ChainTree(size int) *syntax.Tree {
	if size < 1 {
		size = 1
	}
	src := []byte(strings.Repeat("(", size-1) + "x" + strings.Repeat(")", size-1))
	b := syntax.NewBuilder(src, syntax.GrammarStructless)
	for i := 0; i < size-1; i++ {
		b.Open(fmt.Sprintf("level%d", i), i)
	}
	b.Leaf(fmt.Sprintf("level%d", size-1), size-1, size)
	for i := size - 2; i >= 0; i-- {
		b.Close(len(src) - i)
	}
	return b.Finish("level0")
}

// Parse parses src with the structless grammar and panics on failure,
// which that grammar never reports.
func Parse(src string) *syntax.Tree {
	t, err := syntax.Parse(syntax.GrammarStructless, []byte(src), "")
	if err != nil {
		panic(err)
	}
	return t
}

// QuickChain parses a Chain of the given depth.
func QuickChain(depth int) *syntax.Tree {
	return Parse(NewDefault().Chain(depth))
}

// QuickBalanced parses a Balanced source.
func QuickBalanced(depth, breadth int) *syntax.Tree {
	return Parse(NewDefault().Balanced(depth, breadth))
}

// QuickRandom parses a deterministic Random source.
func QuickRandom(size int) *syntax.Tree {
	return Parse(NewDefault().Random(size))
}

// RapidSource draws arbitrary structless sources, including unbalanced
// brackets and unterminated strings.
func RapidSource() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		pieces := rapid.SliceOfN(rapid.SampledFrom([]string{
			"(", ")", "[", "]", "{", "}", `"`, `\n`, "\n", " ",
			"a", "b", "ab", "foo", "x(y)", `"s"`, "é",
		}), 0, 40).Draw(t, "pieces")
		return strings.Join(pieces, "")
	})
}

// RapidTree draws a parsed tree from RapidSource.
func RapidTree() *rapid.Generator[*syntax.Tree] {
	return rapid.Custom(func(t *rapid.T) *syntax.Tree {
		return Parse(RapidSource().Draw(t, "source"))
	})
}
