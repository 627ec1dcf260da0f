package walker

import (
	"fmt"
	"strings"
	"testing"

	"pyrite/internal/checkers"
	"pyrite/internal/msg"
	"pyrite/internal/pytree"
	"pyrite/internal/source"
)

type traceChecker struct {
	name   string
	prio   int
	kinds  []pytree.Kind
	log    *[]string
	panics bool
}

func (c *traceChecker) Name() string               { return c.name }
func (c *traceChecker) Priority() int              { return c.prio }
func (c *traceChecker) Messages() []msg.Definition { return nil }

func (c *traceChecker) Hooks() map[pytree.Kind]checkers.Hooks {
	out := make(map[pytree.Kind]checkers.Hooks)
	for _, k := range c.kinds {
		out[k] = checkers.Hooks{
			Enter: func(_ checkers.Reporter, n *pytree.Node) {
				if c.panics {
					panic("boom")
				}
				*c.log = append(*c.log, fmt.Sprintf("enter:%s:%s:%s", c.name, n.Kind, n.Name))
			},
			Exit: func(_ checkers.Reporter, n *pytree.Node) {
				*c.log = append(*c.log, fmt.Sprintf("exit:%s:%s:%s", c.name, n.Kind, n.Name))
			},
		}
	}
	return out
}

type nopReporter struct{}

func (nopReporter) Report(string, *pytree.Node, ...any)                               {}
func (nopReporter) ReportAt(string, source.Position, ...any)                          {}
func (nopReporter) ReportWithConfidence(string, *pytree.Node, msg.Confidence, ...any) {}

func testTree() *pytree.Node {
	return pytree.New(pytree.KindModule, source.Span(1, 1, 5, 1)).Add(
		pytree.Named(pytree.KindFunctionDef, "f", source.Span(1, 1, 3, 1),
			pytree.Named(pytree.KindCall, "inner", source.At(2, 5)),
		),
		pytree.Named(pytree.KindCall, "outer", source.At(5, 1)),
	)
}

func TestWalker_Order(t *testing.T) {
	var log []string
	reg := checkers.NewRegistry(msg.NewCatalog())
	for _, c := range []*traceChecker{
		{name: "second", prio: 2, kinds: []pytree.Kind{pytree.KindCall}, log: &log},
		{name: "first", prio: 1, kinds: []pytree.Kind{pytree.KindCall}, log: &log},
	} {
		if err := reg.Add(c); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	reg.Finalize()

	faults := New(reg).Walk(testTree(), nopReporter{})
	if len(faults) != 0 {
		t.Fatalf("unexpected faults: %+v", faults)
	}

	want := []string{
		"enter:first:call:inner",
		"enter:second:call:inner",
		"exit:second:call:inner",
		"exit:first:call:inner",
		"enter:first:call:outer",
		"enter:second:call:outer",
		"exit:second:call:outer",
		"exit:first:call:outer",
	}
	if got := strings.Join(log, "\n"); got != strings.Join(want, "\n") {
		t.Errorf("dispatch order:\n%s\nwant:\n%s", got, strings.Join(want, "\n"))
	}
}

func TestWalker_FaultContainment(t *testing.T) {
	var log []string
	reg := checkers.NewRegistry(msg.NewCatalog())
	bad := &traceChecker{name: "bad", prio: 1, kinds: []pytree.Kind{pytree.KindCall}, log: &log, panics: true}
	good := &traceChecker{name: "good", prio: 2, kinds: []pytree.Kind{pytree.KindCall}, log: &log}
	if err := reg.Add(bad); err != nil {
		t.Fatalf("Add(bad): %v", err)
	}
	if err := reg.Add(good); err != nil {
		t.Fatalf("Add(good): %v", err)
	}
	reg.Finalize()

	faults := New(reg).Walk(testTree(), nopReporter{})

	// Both call nodes fault for "bad"; "good" still saw every node.
	if len(faults) != 2 {
		t.Fatalf("got %d faults, want 2: %+v", len(faults), faults)
	}
	for _, f := range faults {
		if f.Checker != "bad" {
			t.Errorf("fault attributed to %q, want bad", f.Checker)
		}
		if f.Err == nil || !strings.Contains(f.Err.Error(), "boom") {
			t.Errorf("fault error = %v, want the panic payload", f.Err)
		}
	}
	enters := 0
	for _, entry := range log {
		if strings.HasPrefix(entry, "enter:good:") {
			enters++
		}
	}
	if enters != 2 {
		t.Errorf("good checker entered %d nodes, want 2", enters)
	}
}

type rawStub struct {
	name  string
	lines *[]string
}

func (r *rawStub) Name() string               { return r.name }
func (r *rawStub) Priority() int              { return 0 }
func (r *rawStub) Messages() []msg.Definition { return nil }
func (r *rawStub) CheckRaw(_ checkers.Reporter, f *source.File) {
	for i := 1; i <= f.LineCount(); i++ {
		*r.lines = append(*r.lines, f.Line(i))
	}
}

func TestWalker_RawPass(t *testing.T) {
	var seen []string
	reg := checkers.NewRegistry(msg.NewCatalog())
	if err := reg.AddRaw(&rawStub{name: "lines", lines: &seen}); err != nil {
		t.Fatalf("AddRaw: %v", err)
	}
	reg.Finalize()

	fs := source.NewFileSet()
	id := fs.AddVirtual("t.py", []byte("a = 1\nb = 2\n"))
	faults := New(reg).RawPass(fs.Get(id), nopReporter{})
	if len(faults) != 0 {
		t.Fatalf("unexpected faults: %+v", faults)
	}
	if len(seen) != 2 || seen[0] != "a = 1" || seen[1] != "b = 2" {
		t.Errorf("raw pass saw %v", seen)
	}
}
