package checks

import (
	"fmt"
	"sort"
	"strings"

	"pyrite/internal/checkers"
	"pyrite/internal/msg"
	"pyrite/internal/pytree"
	"pyrite/internal/source"
)

// DupName records every top-level definition name across the whole run and,
// after the reduce step, flags names defined in more than one module.
type DupName struct {
	// names maps a definition name to the modules defining it.
	names map[string][]string
	path  string
}

// NewDupName creates an empty instance; each worker gets its own.
func NewDupName() *DupName {
	return &DupName{names: make(map[string][]string)}
}

func (c *DupName) Name() string  { return "duplication" }
func (c *DupName) Priority() int { return 30 }

func (c *DupName) Messages() []msg.Definition {
	return []msg.Definition{{
		ID:                "R0801",
		Symbol:            "duplicate-name",
		Template:          "%q is defined in %d modules: %s",
		Description:       "The same top-level name exists in several modules.",
		DefaultConfidence: msg.ConfidenceHigh,
	}}
}

func (c *DupName) OpenFile(path, module string) {
	c.path = module
}

func (c *DupName) Hooks() map[pytree.Kind]checkers.Hooks {
	record := func(rep checkers.Reporter, n *pytree.Node) {
		// Only module-level definitions participate; nested ones are scoped.
		if n.Name == "" || (n.Parent != nil && n.Parent.Kind != pytree.KindModule) {
			return
		}
		c.names[n.Name] = append(c.names[n.Name], c.path)
	}
	return map[pytree.Kind]checkers.Hooks{
		pytree.KindFunctionDef: {Enter: record},
		pytree.KindClassDef:    {Enter: record},
	}
}

func (c *DupName) Reduce(other checkers.Stateful) error {
	o, ok := other.(*DupName)
	if !ok {
		return fmt.Errorf("cannot reduce %T into DupName", other)
	}
	for name, modules := range o.names {
		c.names[name] = append(c.names[name], modules...)
	}
	return nil
}

func (c *DupName) Finish(rep checkers.Reporter) {
	names := make([]string, 0, len(c.names))
	for name := range c.names {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		modules := uniqueSorted(c.names[name])
		if len(modules) > 1 {
			rep.ReportAt("R0801", source.At(1, 1), name, len(modules), strings.Join(modules, ", "))
		}
	}
}

func uniqueSorted(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
