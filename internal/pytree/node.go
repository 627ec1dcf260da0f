// Package pytree defines the annotated syntax tree contract the diagnostic
// engine consumes. The upstream parser/inference collaborator produces these
// nodes; the engine assumes nothing beyond a dispatchable kind, a source
// position, child links and optional inference annotations.
package pytree

import "pyrite/internal/source"

// Node is one node of the annotated tree. Children appear in source order.
type Node struct {
	Kind Kind
	Pos  source.Position

	// Name carries the identifier payload for defs, names and attributes.
	Name string
	// Value carries the literal payload for constants.
	Value string
	// Inferred is the resolved type or attribute owner reported by the
	// inference collaborator; empty when inference failed or does not apply.
	Inferred string

	Parent   *Node
	Children []*Node
}

// Add appends children, wiring their Parent links, and returns the node.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c == nil {
			continue
		}
		c.Parent = n
		n.Children = append(n.Children, c)
	}
	return n
}

// New builds a node of the given kind at pos.
func New(kind Kind, pos source.Position, children ...*Node) *Node {
	n := &Node{Kind: kind, Pos: pos}
	return n.Add(children...)
}

// Named builds a node carrying an identifier payload.
func Named(kind Kind, name string, pos source.Position, children ...*Node) *Node {
	n := New(kind, pos, children...)
	n.Name = name
	return n
}

// Walk applies fn to n and every descendant in depth-first source order,
// stopping a subtree early when fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// CountStatements returns the number of analyzable statements in the subtree.
func (n *Node) CountStatements() int {
	count := 0
	n.Walk(func(node *Node) bool {
		if node.Kind.IsStatement() {
			count++
		}
		return true
	})
	return count
}

// ObjectPath returns the dotted path of enclosing class/function definitions
// for the node, e.g. "Config.load". Empty at module level.
func (n *Node) ObjectPath() string {
	var parts []string
	for cur := n; cur != nil; cur = cur.Parent {
		if (cur.Kind == KindClassDef || cur.Kind == KindFunctionDef) && cur.Name != "" {
			parts = append(parts, cur.Name)
		}
	}
	// parts were collected innermost-first
	path := ""
	for i := len(parts) - 1; i >= 0; i-- {
		if path != "" {
			path += "."
		}
		path += parts[i]
	}
	return path
}
