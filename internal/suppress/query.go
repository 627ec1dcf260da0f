package suppress

// IsEnabled reports whether the message may be emitted at the given line.
// Point intervals are checked first, then scope transitions along the line's
// scope chain (nearest preceding transition wins), then the configured
// baseline. Every negative answer marks the deciding entry as consulted for
// useless-suppression tracking.
func (st *State) IsEnabled(idOrSymbol string, line int) bool {
	return st.query(idOrSymbol, line, true)
}

// isEnabledQuiet answers without touching consulted flags. The useless-
// suppression sweep uses it so its own findings respect suppression without
// recursively generating more bookkeeping.
func (st *State) isEnabledQuiet(idOrSymbol string, line int) bool {
	return st.query(idOrSymbol, line, false)
}

func (st *State) query(idOrSymbol string, line int, consult bool) bool {
	def, ok := st.catalog.Lookup(idOrSymbol)
	if !ok {
		return true
	}

	// Line-local intervals take precedence and only ever disable.
	for i := range st.points {
		p := &st.points[i]
		if line < p.start || line > p.end {
			continue
		}
		if !p.m.matches(def) {
			continue
		}
		if consult {
			p.consulted = true
		}
		return false
	}

	// Nearest preceding transition visible from this line's scope chain.
	// Transitions are sorted by (line, seq); the last match is the nearest,
	// and sibling-branch transitions fail the Within check.
	chain := st.scopes.InnermostAt(line)
	var best *transition
	for i := range st.trans {
		t := &st.trans[i]
		if t.line > line {
			break
		}
		if !t.m.matches(def) {
			continue
		}
		if !chain.Within(t.scope) {
			continue
		}
		best = t
	}
	if best != nil {
		if !best.enabled && consult {
			best.consulted = true
		}
		return best.enabled
	}

	return st.baseline.Resolve(def)
}
