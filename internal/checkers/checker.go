// Package checkers defines the plugin contract rule implementations build on
// and the registry that turns declared subscriptions into dispatch tables.
package checkers

import (
	"pyrite/internal/msg"
	"pyrite/internal/pytree"
	"pyrite/internal/source"
)

// Reporter is the bound report entry point hooks receive. Implementations
// apply catalog resolution, version/confidence/suppression filtering and
// forward accepted findings; a call never fails loudly.
type Reporter interface {
	// Report files a finding for the message at the node's position.
	Report(id string, node *pytree.Node, args ...any)
	// ReportAt files a finding at an explicit position, for raw checkers
	// and engine-internal findings with no node.
	ReportAt(id string, pos source.Position, args ...any)
	// ReportWithConfidence overrides the message's default confidence.
	ReportWithConfidence(id string, node *pytree.Node, conf msg.Confidence, args ...any)
}

// HookFunc observes one node on the way in or out of the traversal.
type HookFunc func(rep Reporter, n *pytree.Node)

// Hooks pairs the enter/exit observers for one node kind. Either may be nil.
type Hooks struct {
	Enter HookFunc
	Exit  HookFunc
}

// Checker is a tree-walking plugin. A checker is constructed once and reused
// across files; per-file state must be reset in OpenFile when implemented.
type Checker interface {
	// Name is the unique registry key, e.g. "basic" or "typecheck".
	Name() string
	// Priority orders dispatch on a node; lower runs earlier on enter.
	Priority() int
	// Messages declares every definition the checker may report.
	Messages() []msg.Definition
	// Hooks maps node kinds to the checker's observers.
	Hooks() map[pytree.Kind]Hooks
}

// RawChecker scans the unparsed source text in a separate pass sharing the
// same reporting pipeline.
type RawChecker interface {
	Name() string
	Priority() int
	Messages() []msg.Definition
	CheckRaw(rep Reporter, file *source.File)
}

// FileAware checkers get told when a file opens so per-file state can reset.
// Checkers holding declared cross-file state keep it across these calls.
type FileAware interface {
	OpenFile(path, module string)
}

// Stateful marks checkers carrying cross-file state. Each worker owns its own
// instance; after the per-file phase the runner merges the partial states
// pairwise and then calls Finish once on the surviving instance.
type Stateful interface {
	Checker
	// Reduce folds another worker's partial state into this instance.
	Reduce(other Stateful) error
	// Finish reports findings that only whole-run state can produce.
	Finish(rep Reporter)
}

// Option describes one tunable knob in a checker's options schema.
type Option struct {
	Name    string
	Help    string
	Default string
}

// Configurable checkers expose an options schema settable from configuration.
type Configurable interface {
	Options() []Option
	SetOption(name, value string) error
}
