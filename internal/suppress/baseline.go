package suppress

import (
	"strings"

	"pyrite/internal/msg"
)

// BaselineEntry is one configuration-level enable/disable declaration.
// Target is a case-folded id, symbol, category name or "all".
type BaselineEntry struct {
	Target string
	Enable bool
}

// Baseline is the configured enablement state applied before any inline
// pragma. Entries are evaluated in declaration order; the last matching entry
// wins and the default is enabled.
type Baseline struct {
	entries []BaselineEntry
}

// NewBaseline builds a baseline from ordered entries.
func NewBaseline(entries []BaselineEntry) Baseline {
	return Baseline{entries: entries}
}

// Append adds one declaration to the end of the evaluation order.
func (b *Baseline) Append(target string, enable bool) {
	b.entries = append(b.entries, BaselineEntry{Target: strings.ToLower(target), Enable: enable})
}

// Resolve returns the configured state for the definition.
func (b Baseline) Resolve(def *msg.Definition) bool {
	enabled := true
	for _, e := range b.entries {
		if baselineMatches(e.Target, def) {
			enabled = e.Enable
		}
	}
	return enabled
}

func baselineMatches(target string, def *msg.Definition) bool {
	if target == "all" {
		return true
	}
	if cat, ok := msg.CategoryFromName(target); ok {
		return cat == def.Category()
	}
	if strings.EqualFold(target, def.ID) || strings.EqualFold(target, def.Symbol) {
		return true
	}
	for _, old := range def.OldNames {
		if strings.EqualFold(target, old.ID) || strings.EqualFold(target, old.Symbol) {
			return true
		}
	}
	return false
}
