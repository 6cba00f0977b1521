package syntax

// Builder assembles a Tree in document order. Parsers call Open when they
// enter a node, Leaf for childless nodes and Close when they leave a node.
// IDs are handed out in call order, which is pre-order.
//
// Close widens a node's range to cover all of its children, so every node
// of a finished tree contains the ranges of its descendants.
type Builder struct {
	source  []byte
	grammar Grammar
	nodes   []*Node
	stack   []*Node
	root    *Node
}

// NewBuilder returns a builder for the given source buffer.
func NewBuilder(source []byte, grammar Grammar) *Builder {
	return &Builder{source: source, grammar: grammar}
}

func (b *Builder) newNode(kind string, start, end int) *Node {
	n := &Node{
		ID:    NodeID(len(b.nodes)),
		Kind:  kind,
		Start: start,
		End:   end,
	}
	b.nodes = append(b.nodes, n)
	if len(b.stack) > 0 {
		parent := b.stack[len(b.stack)-1]
		n.Parent = parent
		parent.Children = append(parent.Children, n)
	} else if b.root == nil {
		b.root = n
	} else {
		// A second top-level node: adopt it under the existing root so the
		// tree stays single-rooted.
		n.Parent = b.root
		b.root.Children = append(b.root.Children, n)
	}
	return n
}

// Open starts a node that will receive children until the matching Close.
func (b *Builder) Open(kind string, start int) *Node {
	n := b.newNode(kind, start, start)
	b.stack = append(b.stack, n)
	return n
}

// Leaf adds a childless node under the currently open node.
func (b *Builder) Leaf(kind string, start, end int) *Node {
	if end < start {
		end = start
	}
	return b.newNode(kind, start, end)
}

// Close ends the innermost open node at byte offset end.
func (b *Builder) Close(end int) *Node {
	if len(b.stack) == 0 {
		return nil
	}
	n := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	n.End = end
	widen(n)
	return n
}

// Depth returns the number of currently open nodes.
func (b *Builder) Depth() int {
	return len(b.stack)
}

// Finish closes any node left open at the end of the source and returns
// the completed tree. An empty builder yields a single empty root of kind
// rootKind.
func (b *Builder) Finish(rootKind string) *Tree {
	for len(b.stack) > 0 {
		b.Close(len(b.source))
	}
	if b.root == nil {
		b.newNode(rootKind, 0, len(b.source))
	}
	widen(b.root)
	return &Tree{
		Source:  b.source,
		Root:    b.root,
		Grammar: b.grammar,
		nodes:   b.nodes,
	}
}

func widen(n *Node) {
	if n.End < n.Start {
		n.End = n.Start
	}
	for _, c := range n.Children {
		if c.Start < n.Start {
			n.Start = c.Start
		}
		if c.End > n.End {
			n.End = c.End
		}
	}
}
