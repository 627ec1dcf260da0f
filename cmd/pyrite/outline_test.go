package main

import (
	"strings"
	"testing"

	"pyrite/internal/pytree"
	"pyrite/internal/source"
)

func outlineOf(t *testing.T, src string) *pytree.Node {
	t.Helper()
	fileSet := source.NewFileSet()
	id := fileSet.AddVirtual("mod.py", []byte(src))
	root, err := buildOutline(fileSet.Get(id))
	if err != nil {
		t.Fatalf("buildOutline: %v", err)
	}
	return root
}

func findKind(root *pytree.Node, kind pytree.Kind) *pytree.Node {
	var found *pytree.Node
	root.Walk(func(n *pytree.Node) bool {
		if found == nil && n != root && n.Kind == kind {
			found = n
		}
		return found == nil
	})
	return found
}

func TestOutlineFunctionArguments(t *testing.T) {
	root := outlineOf(t, strings.Join([]string{
		"def process(items, *, limit=10,",
		"            verbose: bool = False, **extra):",
		"    return items",
		"",
	}, "\n"))

	fn := findKind(root, pytree.KindFunctionDef)
	if fn == nil {
		t.Fatal("no function definition recovered")
	}
	if fn.Name != "process" {
		t.Fatalf("function name = %q, want process", fn.Name)
	}
	args := findKind(fn, pytree.KindArguments)
	if args == nil {
		t.Fatal("no arguments node")
	}
	var names []string
	for _, a := range args.Children {
		names = append(names, a.Name)
	}
	want := []string{"items", "limit", "verbose", "extra"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("argument names = %v, want %v", names, want)
	}
}

func TestOutlineMethodObjectPath(t *testing.T) {
	root := outlineOf(t, strings.Join([]string{
		"class Shape:",
		"    def area(self):",
		"        pass",
		"",
	}, "\n"))

	passNode := findKind(root, pytree.KindPass)
	if passNode == nil {
		t.Fatal("no pass statement recovered")
	}
	if got := passNode.ObjectPath(); got != "Shape.area" {
		t.Fatalf("object path = %q, want Shape.area", got)
	}
}

func TestOutlineBranchSpansBody(t *testing.T) {
	root := outlineOf(t, strings.Join([]string{
		"if ready:",
		"    x = 1",
		"    y = 2",
		"else:",
		"    x = 0",
		"",
	}, "\n"))

	cond := findKind(root, pytree.KindIf)
	if cond == nil {
		t.Fatal("no if statement recovered")
	}
	branch := findKind(cond, pytree.KindBranch)
	if branch == nil {
		t.Fatal("if has no branch arm")
	}
	if branch.Pos.Line != 1 || branch.Pos.EndLine != 3 {
		t.Fatalf("branch span = %d..%d, want 1..3", branch.Pos.Line, branch.Pos.EndLine)
	}
	// The else arm attaches as its own branch at module level.
	count := 0
	for _, c := range root.Children {
		if c.Kind == pytree.KindBranch {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("module-level branch arms = %d, want 1", count)
	}
}

func TestOutlineStatementKinds(t *testing.T) {
	root := outlineOf(t, strings.Join([]string{
		"import os",
		"total = 0",
		"total += 1",
		"print(total)",
		"# comment only",
		"",
	}, "\n"))

	wantKinds := []pytree.Kind{
		pytree.KindImport, pytree.KindAssign, pytree.KindAugAssign, pytree.KindExprStmt,
	}
	if len(root.Children) != len(wantKinds) {
		t.Fatalf("module children = %d, want %d", len(root.Children), len(wantKinds))
	}
	for i, want := range wantKinds {
		if root.Children[i].Kind != want {
			t.Fatalf("child %d kind = %v, want %v", i, root.Children[i].Kind, want)
		}
	}
	if got := root.CountStatements(); got != 4 {
		t.Fatalf("statement count = %d, want 4", got)
	}
}

func TestOutlineComparisonIsNotAssignment(t *testing.T) {
	root := outlineOf(t, "check(a == b, c <= d)\n")
	if len(root.Children) != 1 || root.Children[0].Kind != pytree.KindExprStmt {
		t.Fatalf("comparison parsed as %v, want exprstmt", root.Children[0].Kind)
	}
}
