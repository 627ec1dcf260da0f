package suppress

import "pyrite/internal/pytree"

// Scope is the line range of a module, a function/class body, or one arm of
// a multi-branch statement. Scopes form a tree mirroring source nesting;
// every line belongs to exactly one innermost scope.
type Scope struct {
	Parent   *Scope
	Children []*Scope
	// Start/End are the inclusive physical line range of the scope.
	Start int
	End   int
	Depth int
}

// Contains reports whether the line falls inside the scope's range.
func (s *Scope) Contains(line int) bool {
	return s.Start <= line && line <= s.End
}

// InnermostAt descends to the deepest scope containing the line.
// Lines outside every child stay with the receiver.
func (s *Scope) InnermostAt(line int) *Scope {
	if !s.Contains(line) {
		return s
	}
	for _, child := range s.Children {
		if child.Contains(line) {
			return child.InnermostAt(line)
		}
	}
	return s
}

// Within reports whether s equals other or is nested anywhere inside it.
func (s *Scope) Within(other *Scope) bool {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur == other {
			return true
		}
	}
	return false
}

// BuildScopes derives the scope tree from the annotated tree. lastLine extends
// the module scope to the physical end of the file, so pragmas below the last
// statement still resolve.
func BuildScopes(root *pytree.Node, lastLine int) *Scope {
	end := lastLine
	if root != nil && root.Pos.EndLine > end {
		end = root.Pos.EndLine
	}
	if end < 1 {
		end = 1
	}
	module := &Scope{Start: 1, End: end}
	if root != nil {
		for _, child := range root.Children {
			buildInto(module, child)
		}
	}
	return module
}

func buildInto(parent *Scope, n *pytree.Node) {
	cur := parent
	if n.Kind.OpensScope() && n.Kind != pytree.KindModule {
		cur = &Scope{
			Parent: parent,
			Start:  n.Pos.Line,
			End:    n.Pos.EndLine,
			Depth:  parent.Depth + 1,
		}
		parent.Children = append(parent.Children, cur)
	}
	for _, child := range n.Children {
		buildInto(cur, child)
	}
}
