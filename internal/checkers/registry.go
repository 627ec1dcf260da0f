package checkers

import (
	"errors"
	"fmt"
	"sort"

	"pyrite/internal/msg"
	"pyrite/internal/pytree"
)

// Handle is one subscribed checker hook, resolved for direct dispatch.
type Handle struct {
	Checker string
	Hook    HookFunc
}

var (
	// ErrFinalized indicates a mutation after Finalize.
	ErrFinalized = errors.New("registry already finalized")
	// ErrDuplicateChecker indicates two checkers sharing a name.
	ErrDuplicateChecker = errors.New("duplicate checker")
)

// Registry is the ordered set of checker plugins for one worker. Adding a
// checker registers its declared messages with the catalog; Finalize inverts
// the subscriptions into per-kind dispatch tables so the walker pays only for
// subscribers of the kind at hand.
type Registry struct {
	catalog   *msg.Catalog
	checkers  []Checker
	raw       []RawChecker
	names     map[string]bool
	enter     [][]Handle
	exit      [][]Handle
	finalized bool
}

// NewRegistry creates an empty registry bound to the catalog.
func NewRegistry(catalog *msg.Catalog) *Registry {
	return &Registry{
		catalog: catalog,
		names:   make(map[string]bool),
	}
}

// Add registers a tree checker and its messages.
func (r *Registry) Add(c Checker) error {
	if r.finalized {
		return ErrFinalized
	}
	if r.names[c.Name()] {
		return fmt.Errorf("%w: %s", ErrDuplicateChecker, c.Name())
	}
	if err := r.catalog.Register(c.Messages()...); err != nil {
		return fmt.Errorf("checker %s: %w", c.Name(), err)
	}
	r.names[c.Name()] = true
	r.checkers = append(r.checkers, c)
	return nil
}

// AddRaw registers a token/text-stream checker and its messages.
func (r *Registry) AddRaw(c RawChecker) error {
	if r.finalized {
		return ErrFinalized
	}
	if r.names[c.Name()] {
		return fmt.Errorf("%w: %s", ErrDuplicateChecker, c.Name())
	}
	if err := r.catalog.Register(c.Messages()...); err != nil {
		return fmt.Errorf("checker %s: %w", c.Name(), err)
	}
	r.names[c.Name()] = true
	r.raw = append(r.raw, c)
	return nil
}

// Configure applies per-checker option values. Every named checker must exist
// and implement Configurable; option names are validated by the checker's own
// SetOption.
func (r *Registry) Configure(options map[string]map[string]string) error {
	if r.finalized {
		return ErrFinalized
	}
	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c, ok := r.lookup(name)
		if !ok {
			return fmt.Errorf("unknown checker %q", name)
		}
		conf, ok := c.(Configurable)
		if !ok {
			return fmt.Errorf("checker %q has no options", name)
		}
		opts := options[name]
		keys := make([]string, 0, len(opts))
		for key := range opts {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if err := conf.SetOption(key, opts[key]); err != nil {
				return fmt.Errorf("checker %q: %w", name, err)
			}
		}
	}
	return nil
}

func (r *Registry) lookup(name string) (any, bool) {
	for _, c := range r.checkers {
		if c.Name() == name {
			return c, true
		}
	}
	for _, c := range r.raw {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// Finalize builds the dispatch tables. The registry is immutable afterwards.
func (r *Registry) Finalize() {
	if r.finalized {
		return
	}
	ordered := make([]Checker, len(r.checkers))
	copy(ordered, r.checkers)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority() != ordered[j].Priority() {
			return ordered[i].Priority() < ordered[j].Priority()
		}
		return ordered[i].Name() < ordered[j].Name()
	})
	r.checkers = ordered

	sort.SliceStable(r.raw, func(i, j int) bool {
		if r.raw[i].Priority() != r.raw[j].Priority() {
			return r.raw[i].Priority() < r.raw[j].Priority()
		}
		return r.raw[i].Name() < r.raw[j].Name()
	})

	r.enter = make([][]Handle, pytree.Count())
	r.exit = make([][]Handle, pytree.Count())
	for _, c := range ordered {
		for kind, hooks := range c.Hooks() {
			if hooks.Enter != nil {
				r.enter[kind] = append(r.enter[kind], Handle{Checker: c.Name(), Hook: hooks.Enter})
			}
			if hooks.Exit != nil {
				r.exit[kind] = append(r.exit[kind], Handle{Checker: c.Name(), Hook: hooks.Exit})
			}
		}
	}
	// Exit hooks run in descending priority; store them pre-reversed so the
	// walker's loop stays allocation-free.
	for kind := range r.exit {
		hooks := r.exit[kind]
		for i, j := 0, len(hooks)-1; i < j; i, j = i+1, j-1 {
			hooks[i], hooks[j] = hooks[j], hooks[i]
		}
	}
	r.finalized = true
}

// EnterHandles returns the enter hooks for a kind in ascending priority.
func (r *Registry) EnterHandles(kind pytree.Kind) []Handle {
	return r.enter[kind]
}

// ExitHandles returns the exit hooks for a kind in descending priority.
func (r *Registry) ExitHandles(kind pytree.Kind) []Handle {
	return r.exit[kind]
}

// Checkers returns the ordered tree checkers.
func (r *Registry) Checkers() []Checker {
	return r.checkers
}

// Raw returns the ordered raw checkers.
func (r *Registry) Raw() []RawChecker {
	return r.raw
}

// Stateful returns the checkers declaring cross-file state.
func (r *Registry) Stateful() []Stateful {
	var out []Stateful
	for _, c := range r.checkers {
		if s, ok := c.(Stateful); ok {
			out = append(out, s)
		}
	}
	return out
}

// OpenFile notifies FileAware checkers that a new file starts.
func (r *Registry) OpenFile(path, module string) {
	for _, c := range r.checkers {
		if fa, ok := c.(FileAware); ok {
			fa.OpenFile(path, module)
		}
	}
	for _, c := range r.raw {
		if fa, ok := c.(FileAware); ok {
			fa.OpenFile(path, module)
		}
	}
}
