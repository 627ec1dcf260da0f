// Package walker drives the single depth-first traversal per file, dispatching
// subscribed checker hooks and containing their failures.
package walker

import (
	"fmt"

	"pyrite/internal/checkers"
	"pyrite/internal/pytree"
	"pyrite/internal/source"
)

// Fault captures a recovered checker hook failure. The caller converts faults
// into fatal findings; traversal itself never aborts on one.
type Fault struct {
	Checker string
	Pos     source.Position
	Err     error
}

// checkerNamer is implemented by reporters that attribute unknown-id reports
// to the checker whose hook is currently running.
type checkerNamer interface {
	SetChecker(name string)
}

// Walker runs one traversal over a finalized registry.
type Walker struct {
	reg *checkers.Registry
}

// New creates a walker over the registry.
func New(reg *checkers.Registry) *Walker {
	return &Walker{reg: reg}
}

// Walk visits every node depth-first: enter hooks in ascending priority,
// children in source order, exit hooks in descending priority. A hook panic
// is contained to that hook; remaining hooks and nodes still run.
func (w *Walker) Walk(root *pytree.Node, rep checkers.Reporter) []Fault {
	var faults []Fault
	w.walkNode(root, rep, &faults)
	return faults
}

func (w *Walker) walkNode(n *pytree.Node, rep checkers.Reporter, faults *[]Fault) {
	if n == nil {
		return
	}
	namer, _ := rep.(checkerNamer)
	for _, h := range w.reg.EnterHandles(n.Kind) {
		if namer != nil {
			namer.SetChecker(h.Checker)
		}
		if err := safeCall(h.Hook, rep, n); err != nil {
			*faults = append(*faults, Fault{Checker: h.Checker, Pos: n.Pos, Err: err})
		}
	}
	for _, child := range n.Children {
		w.walkNode(child, rep, faults)
	}
	for _, h := range w.reg.ExitHandles(n.Kind) {
		if namer != nil {
			namer.SetChecker(h.Checker)
		}
		if err := safeCall(h.Hook, rep, n); err != nil {
			*faults = append(*faults, Fault{Checker: h.Checker, Pos: n.Pos, Err: err})
		}
	}
	if namer != nil {
		namer.SetChecker("")
	}
}

// RawPass runs the text-stream checkers over the file in priority order,
// with the same containment rules as tree hooks.
func (w *Walker) RawPass(file *source.File, rep checkers.Reporter) []Fault {
	var faults []Fault
	namer, _ := rep.(checkerNamer)
	for _, c := range w.reg.Raw() {
		if namer != nil {
			namer.SetChecker(c.Name())
		}
		if err := safeRaw(c, rep, file); err != nil {
			faults = append(faults, Fault{Checker: c.Name(), Pos: source.At(1, 1), Err: err})
		}
	}
	if namer != nil {
		namer.SetChecker("")
	}
	return faults
}

func safeCall(hook checkers.HookFunc, rep checkers.Reporter, n *pytree.Node) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("hook panic: %v", rec)
		}
	}()
	hook(rep, n)
	return nil
}

func safeRaw(c checkers.RawChecker, rep checkers.Reporter, file *source.File) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("raw pass panic: %v", rec)
		}
	}()
	c.CheckRaw(rep, file)
	return nil
}
