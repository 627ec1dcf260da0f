package pytree

import (
	"testing"

	"pyrite/internal/source"
)

func TestNode_ObjectPath(t *testing.T) {
	method := Named(KindFunctionDef, "load", source.Span(3, 5, 6, 1))
	cls := Named(KindClassDef, "Config", source.Span(2, 1, 7, 1)).Add(method)
	mod := New(KindModule, source.Span(1, 1, 10, 1)).Add(cls)

	call := New(KindCall, source.At(4, 9))
	method.Add(New(KindExprStmt, source.At(4, 9), call))

	tests := []struct {
		name     string
		node     *Node
		expected string
	}{
		{name: "module level", node: mod, expected: ""},
		{name: "class", node: cls, expected: "Config"},
		{name: "method", node: method, expected: "Config.load"},
		{name: "expr inside method", node: call, expected: "Config.load"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.ObjectPath(); got != tt.expected {
				t.Errorf("ObjectPath() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNode_CountStatements(t *testing.T) {
	mod := New(KindModule, source.Span(1, 1, 5, 1)).Add(
		New(KindAssign, source.At(1, 1)),
		New(KindIf, source.Span(2, 1, 4, 10),
			New(KindBranch, source.Span(2, 1, 3, 10),
				New(KindExprStmt, source.At(3, 5), New(KindCall, source.At(3, 5))),
			),
		),
		New(KindPass, source.At(5, 1)),
	)

	// assign + if + exprstmt + pass; module, branch and call are not statements
	if got := mod.CountStatements(); got != 4 {
		t.Errorf("CountStatements() = %d, want 4", got)
	}
}

func TestStatementIndex_Innermost(t *testing.T) {
	// x = call(      # line 2..4 logical statement
	//     a,
	// )
	mod := New(KindModule, source.Span(1, 1, 9, 1)).Add(
		New(KindAssign, source.At(1, 1)),
		New(KindAssign, source.Span(2, 1, 4, 2)),
		New(KindPass, source.At(6, 1)),
		Named(KindFunctionDef, "f", source.Span(7, 1, 9, 13)).Add(
			New(KindAssign, source.At(8, 5)),
			New(KindReturn, source.At(9, 5)),
		),
	)
	idx := NewStatementIndex(mod)

	tests := []struct {
		name      string
		line      int
		wantStart int
		wantEnd   int
		wantOK    bool
	}{
		{name: "single-line statement", line: 1, wantStart: 1, wantEnd: 1, wantOK: true},
		{name: "start of multi-line", line: 2, wantStart: 2, wantEnd: 4, wantOK: true},
		{name: "continuation line", line: 3, wantStart: 2, wantEnd: 4, wantOK: true},
		{name: "final physical line", line: 4, wantStart: 2, wantEnd: 4, wantOK: true},
		{name: "blank line", line: 5, wantStart: 0, wantEnd: 0, wantOK: false},
		{name: "block header line is not indexed", line: 7, wantStart: 0, wantEnd: 0, wantOK: false},
		{name: "statement inside block body", line: 8, wantStart: 8, wantEnd: 8, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span, ok := idx.Innermost(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("Innermost(%d) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if ok && (span.Line != tt.wantStart || span.EndLine != tt.wantEnd) {
				t.Errorf("Innermost(%d) = [%d..%d], want [%d..%d]",
					tt.line, span.Line, span.EndLine, tt.wantStart, tt.wantEnd)
			}
		})
	}
}
