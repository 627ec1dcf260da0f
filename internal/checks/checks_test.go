package checks

import (
	"strings"
	"testing"

	"pyrite/internal/msg"
	"pyrite/internal/pytree"
	"pyrite/internal/source"
)

// recorder collects raw reports for assertions.
type recorder struct {
	calls []recorded
}

type recorded struct {
	id   string
	pos  source.Position
	args []any
}

func (r *recorder) Report(id string, n *pytree.Node, args ...any) {
	pos := source.Position{}
	if n != nil {
		pos = n.Pos
	}
	r.calls = append(r.calls, recorded{id: id, pos: pos, args: args})
}

func (r *recorder) ReportAt(id string, pos source.Position, args ...any) {
	r.calls = append(r.calls, recorded{id: id, pos: pos, args: args})
}

func (r *recorder) ReportWithConfidence(id string, n *pytree.Node, _ msg.Confidence, args ...any) {
	r.Report(id, n, args...)
}

func virtualFile(t *testing.T, content string) *source.File {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.py", []byte(content))
	return fs.Get(id)
}

func TestLineLength(t *testing.T) {
	c := NewLineLength()
	if err := c.SetOption("max-line-length", "10"); err != nil {
		t.Fatalf("SetOption: %v", err)
	}

	file := virtualFile(t, "short\n"+strings.Repeat("x", 15)+"\nok\n")
	rec := &recorder{}
	c.CheckRaw(rec, file)

	if len(rec.calls) != 1 {
		t.Fatalf("got %d reports, want 1: %+v", len(rec.calls), rec.calls)
	}
	got := rec.calls[0]
	if got.id != "C0301" || got.pos.Line != 2 {
		t.Fatalf("unexpected report %+v", got)
	}
	if got.args[0] != 15 || got.args[1] != 10 {
		t.Fatalf("args = %v, want [15 10]", got.args)
	}
}

func TestLineLengthOptionValidation(t *testing.T) {
	c := NewLineLength()
	if err := c.SetOption("max-line-length", "zero"); err == nil {
		t.Error("accepted a non-numeric limit")
	}
	if err := c.SetOption("max-line-length", "0"); err == nil {
		t.Error("accepted a zero limit")
	}
	if err := c.SetOption("no-such-option", "1"); err == nil {
		t.Error("accepted an unknown option")
	}
}

func TestFixme(t *testing.T) {
	c := NewFixme()
	file := virtualFile(t, strings.Join([]string{
		"x = 1  # TODO rework this",
		"y = 2  # done",
		"# fixme: lower case still counts",
		"todo = 3",
	}, "\n") + "\n")

	rec := &recorder{}
	c.CheckRaw(rec, file)

	if len(rec.calls) != 2 {
		t.Fatalf("got %d reports, want 2: %+v", len(rec.calls), rec.calls)
	}
	if rec.calls[0].pos.Line != 1 || rec.calls[1].pos.Line != 3 {
		t.Fatalf("lines = %d,%d, want 1,3", rec.calls[0].pos.Line, rec.calls[1].pos.Line)
	}
}

func TestDesignTooManyArguments(t *testing.T) {
	c := NewDesign()
	if err := c.SetOption("max-args", "2"); err != nil {
		t.Fatalf("SetOption: %v", err)
	}

	args := pytree.New(pytree.KindArguments, source.At(3, 10),
		pytree.Named(pytree.KindArg, "a", source.At(3, 11)),
		pytree.Named(pytree.KindArg, "b", source.At(3, 14)),
		pytree.Named(pytree.KindArg, "c", source.At(3, 17)),
	)
	fn := pytree.Named(pytree.KindFunctionDef, "wide", source.At(3, 1), args)

	rec := &recorder{}
	c.Hooks()[pytree.KindFunctionDef].Enter(rec, fn)

	if len(rec.calls) != 1 {
		t.Fatalf("got %d reports, want 1", len(rec.calls))
	}
	if rec.calls[0].id != "R0913" || rec.calls[0].args[0] != 3 {
		t.Fatalf("unexpected report %+v", rec.calls[0])
	}
}

func TestDupNameReduceAndFinish(t *testing.T) {
	module := func(c *DupName, mod string, names ...string) {
		c.OpenFile(mod+".py", mod)
		hook := c.Hooks()[pytree.KindFunctionDef].Enter
		root := pytree.New(pytree.KindModule, source.At(1, 1))
		for i, name := range names {
			fn := pytree.Named(pytree.KindFunctionDef, name, source.At(i+1, 1))
			root.Add(fn)
			hook(nil, fn)
		}
	}

	a := NewDupName()
	module(a, "alpha", "helper", "only_in_alpha")
	b := NewDupName()
	module(b, "beta", "helper")

	if err := a.Reduce(b); err != nil {
		t.Fatalf("Reduce: %v", err)
	}

	rec := &recorder{}
	a.Finish(rec)

	if len(rec.calls) != 1 {
		t.Fatalf("got %d reports, want 1: %+v", len(rec.calls), rec.calls)
	}
	got := rec.calls[0]
	if got.id != "R0801" || got.args[0] != "helper" || got.args[1] != 2 {
		t.Fatalf("unexpected report %+v", got)
	}
	if got.args[2] != "alpha, beta" {
		t.Fatalf("module list = %v", got.args[2])
	}
}

func TestDupNameIgnoresNested(t *testing.T) {
	c := NewDupName()
	c.OpenFile("a.py", "a")

	outer := pytree.Named(pytree.KindFunctionDef, "outer", source.At(1, 1))
	inner := pytree.Named(pytree.KindFunctionDef, "inner", source.At(2, 5))
	root := pytree.New(pytree.KindModule, source.At(1, 1), outer)
	outer.Add(inner)
	_ = root

	hook := c.Hooks()[pytree.KindFunctionDef].Enter
	hook(nil, outer)
	hook(nil, inner)

	if _, ok := c.names["inner"]; ok {
		t.Error("nested definition was recorded")
	}
	if _, ok := c.names["outer"]; !ok {
		t.Error("top-level definition was not recorded")
	}
}

func TestNewRegistryWires(t *testing.T) {
	catalog := msg.NewBuiltinCatalog()
	reg, err := NewRegistry(catalog)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	reg.Finalize()

	if len(reg.Raw()) != 2 {
		t.Errorf("raw checkers = %d, want 2", len(reg.Raw()))
	}
	if len(reg.Checkers()) != 2 {
		t.Errorf("tree checkers = %d, want 2", len(reg.Checkers()))
	}
	if len(reg.Stateful()) != 1 {
		t.Errorf("stateful checkers = %d, want 1", len(reg.Stateful()))
	}
	for _, id := range []string{"C0301", "W0511", "R0913", "R0801"} {
		if _, ok := catalog.Lookup(id); !ok {
			t.Errorf("message %s not registered", id)
		}
	}
}

func TestNewRegistryConfigure(t *testing.T) {
	reg, err := NewRegistry(msg.NewBuiltinCatalog())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if err := reg.Configure(map[string]map[string]string{
		"format": {"max-line-length": "10"},
	}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	reg.Finalize()

	rec := &recorder{}
	file := virtualFile(t, "x = 1\nlong_name = value\n")
	for _, raw := range reg.Raw() {
		raw.CheckRaw(rec, file)
	}
	if len(rec.calls) != 1 || rec.calls[0].id != "C0301" {
		t.Fatalf("reports = %+v, want one C0301 on the long line", rec.calls)
	}
	if rec.calls[0].pos.Line != 2 {
		t.Errorf("report on line %d, want 2", rec.calls[0].pos.Line)
	}
}
