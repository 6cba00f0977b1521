// Package syntax provides the immutable parse trees the navigator browses.
//
// A Tree is built once per input (or once per re-parse when watching a file)
// and is never mutated afterwards. Every Node carries a dense NodeID that is
// unique within its Tree, a kind label, a byte range [Start, End) into the
// source text and its ordered children.
//
// Trees are produced by the grammar parsers in this package (see Parse) or
// assembled directly with a Builder, which is what the tests do.
package syntax

import (
	"bytes"
	"strconv"
	"strings"
)

// NodeID identifies a node within one Tree. IDs are assigned in pre-order,
// so the root is always 0 and a parent's ID is smaller than its children's.
type NodeID int

// Node is one element of a parse tree. Nodes are owned by their Tree and
// must be treated as read-only.
type Node struct {
	ID       NodeID
	Kind     string
	Start    int // inclusive byte offset
	End      int // exclusive byte offset
	Children []*Node
	Parent   *Node
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Tree is an immutable parse tree over a source buffer.
type Tree struct {
	Source  []byte
	Root    *Node
	Grammar Grammar

	nodes []*Node // indexed by NodeID
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node with the given ID, or nil if the ID is out of range.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// Text returns the source text spanned by n.
func (t *Tree) Text(n *Node) string {
	if n == nil {
		return ""
	}
	start, end := clampRange(n.Start, n.End, len(t.Source))
	return string(t.Source[start:end])
}

// Contains reports whether the source text of n contains term.
// It avoids allocating a string for the node text.
func (t *Tree) Contains(n *Node, term string) bool {
	if term == "" {
		return true
	}
	if n == nil {
		return false
	}
	start, end := clampRange(n.Start, n.End, len(t.Source))
	return bytes.Contains(t.Source[start:end], []byte(term))
}

// Descendants returns every node below n in pre-order, excluding n itself.
// The traversal uses an explicit stack so very deep trees cannot overflow
// the goroutine stack.
func (t *Tree) Descendants(n *Node) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	stack := make([]*Node, 0, 16)
	for i := len(n.Children) - 1; i >= 0; i-- {
		stack = append(stack, n.Children[i])
	}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur)
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
	return out
}

// Depth returns the number of ancestors of n (the root has depth 0).
func (t *Tree) Depth(n *Node) int {
	depth := 0
	for p := n.Parent; p != nil; p = p.Parent {
		depth++
	}
	return depth
}

// IsAncestor reports whether a is a strict ancestor of n.
func IsAncestor(a, n *Node) bool {
	if a == nil || n == nil {
		return false
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p == a {
			return true
		}
	}
	return false
}

// ChildIndex returns the position of n among its parent's children, or -1
// for the root.
func ChildIndex(n *Node) int {
	if n == nil || n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// Path returns the child-index path from the root to n. The root's path is
// empty. Paths survive re-parsing of an unchanged (or locally edited)
// document, unlike NodeIDs.
func (t *Tree) Path(n *Node) []int {
	var path []int
	for cur := n; cur != nil && cur.Parent != nil; cur = cur.Parent {
		path = append(path, ChildIndex(cur))
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// NodeAtPath resolves a child-index path. It returns nil when the path no
// longer exists in this tree.
func (t *Tree) NodeAtPath(path []int) *Node {
	cur := t.Root
	for _, idx := range path {
		if cur == nil || idx < 0 || idx >= len(cur.Children) {
			return nil
		}
		cur = cur.Children[idx]
	}
	return cur
}

// FormatPath renders a path as dot-separated indices ("" for the root).
func FormatPath(path []int) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ".")
}

// ParsePath is the inverse of FormatPath.
func ParsePath(s string) ([]int, bool) {
	if s == "" {
		return []int{}, true
	}
	parts := strings.Split(s, ".")
	path := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, false
		}
		path[i] = n
	}
	return path, true
}

func clampRange(start, end, size int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > size {
		end = size
	}
	if start > end {
		start = end
	}
	return start, end
}
