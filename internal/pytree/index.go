package pytree

import (
	"sort"

	"pyrite/internal/source"
)

// StatementIndex resolves a physical line to the innermost simple logical
// statement covering it. The suppression engine uses it to widen a
// line-local pragma written on any physical line of a multi-line statement
// to the statement's full span. Block statements are deliberately absent: a
// pragma on an if/def/class header line covers that physical line only,
// never the body the statement's span encloses.
type StatementIndex struct {
	spans []source.Position // sorted by (Line, then wider first)
}

// NewStatementIndex collects the simple-statement spans of the tree.
func NewStatementIndex(root *Node) *StatementIndex {
	idx := &StatementIndex{}
	if root == nil {
		return idx
	}
	root.Walk(func(n *Node) bool {
		if n.Kind.IsStatement() && !n.Kind.IsBlockStatement() {
			idx.spans = append(idx.spans, n.Pos)
		}
		return true
	})
	sort.Slice(idx.spans, func(i, j int) bool {
		if idx.spans[i].Line != idx.spans[j].Line {
			return idx.spans[i].Line < idx.spans[j].Line
		}
		return idx.spans[i].EndLine > idx.spans[j].EndLine
	})
	return idx
}

// Innermost returns the tightest statement span covering the line.
// ok is false when no statement covers it (blank lines, bare comments).
func (idx *StatementIndex) Innermost(line int) (span source.Position, ok bool) {
	// Scan candidates starting at or before the line; the tightest covering
	// span is the one with the latest start and, among those, smallest end.
	for i := range idx.spans {
		sp := idx.spans[i]
		if sp.Line > line {
			break
		}
		if !sp.Covers(line) {
			continue
		}
		if !ok || sp.Line > span.Line || (sp.Line == span.Line && sp.EndLine < span.EndLine) {
			span, ok = sp, true
		}
	}
	return span, ok
}
