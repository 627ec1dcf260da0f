package msg

import "pyrite/internal/source"

// Finding is one accepted, user-visible diagnostic instance. It carries the
// complete fixed field set downstream renderers rely on; the engine never
// mutates a finding after handing it to the aggregator.
type Finding struct {
	MessageID  string
	Symbol     string
	Category   Category
	Confidence Confidence
	Text       string
	Path       string
	Pos        source.Position
	// Module is the dotted module name the file maps to.
	Module string
	// ObjectPath is the dotted path of enclosing definitions, "" at module level.
	ObjectPath string
}
