package suppress

import (
	"sort"

	"pyrite/internal/msg"
)

// Unused describes a disable pragma that never suppressed anything.
type Unused struct {
	Line   int
	Col    int
	Target string
}

// SweepUnconsulted returns, at end of file, every disable entry that was
// never the reason a finding got dropped. Enable transitions are exempt.
// Entries whose useless-suppression finding would itself be suppressed at
// their line are filtered out here; the check never marks consulted flags, so
// the sweep cannot recursively feed itself.
func (st *State) SweepUnconsulted() []Unused {
	var out []Unused

	for i := range st.points {
		p := &st.points[i]
		if p.consulted {
			continue
		}
		if !st.isEnabledQuiet(msg.IDUselessSuppression, p.pragmaLine) {
			continue
		}
		out = append(out, Unused{Line: p.pragmaLine, Col: p.pragmaCol, Target: p.m.raw})
	}

	for i := range st.trans {
		t := &st.trans[i]
		if t.enabled || t.consulted {
			continue
		}
		if !st.isEnabledQuiet(msg.IDUselessSuppression, t.line) {
			continue
		}
		out = append(out, Unused{Line: t.line, Col: t.pragmaCol, Target: t.m.raw})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Target < out[j].Target
	})
	return out
}
