package suppress

import (
	"sort"
	"strings"

	"pyrite/internal/msg"
	"pyrite/internal/pragma"
	"pyrite/internal/pytree"
)

type matchKind uint8

const (
	matchID matchKind = iota
	matchCategory
	matchAll
)

// matcher is one resolved pragma target.
type matcher struct {
	kind matchKind
	id   string // canonical message id for matchID
	cat  msg.Category
	raw  string // target as written (folded), for useless-suppression text
}

func (m matcher) matches(def *msg.Definition) bool {
	switch m.kind {
	case matchAll:
		return true
	case matchCategory:
		return m.cat == def.Category()
	default:
		return m.id == def.ID
	}
}

// pointEntry is a line-local suppression interval. Only disables exist at
// point level; enables are always scope transitions.
type pointEntry struct {
	m          matcher
	start, end int // inclusive physical line range
	pragmaLine int
	pragmaCol  int
	consulted  bool
}

// transition is one scope-level enable/disable switch.
type transition struct {
	m         matcher
	scope     *Scope
	line      int
	seq       int
	enabled   bool
	pragmaCol int
	consulted bool
}

// State answers per-line enablement queries for one file.
type State struct {
	catalog  *msg.Catalog
	baseline Baseline
	scopes   *Scope
	points   []pointEntry
	trans    []transition // sorted by (line, seq)
	target   msg.LangVersion
}

// TargetProblem records a pragma target that could not be resolved.
type TargetProblem struct {
	Line   int
	Col    int
	Target string
	// Removed is true when the name existed in an earlier release.
	Removed     bool
	RemovedNote string
}

// BuildInput carries everything construction needs.
type BuildInput struct {
	Directives []pragma.Directive
	Scopes     *Scope
	Statements *pytree.StatementIndex
	Catalog    *msg.Catalog
	Baseline   Baseline
	Target     msg.LangVersion
}

// Build converts the file's pragmas and scope structure into a queryable
// suppression state. Unresolvable targets are returned for reporting; targets
// naming messages outside the configured version window are dropped silently
// and never participate in useless-suppression bookkeeping.
func Build(in BuildInput) (*State, []TargetProblem) {
	st := &State{
		catalog:  in.Catalog,
		baseline: in.Baseline,
		scopes:   in.Scopes,
		target:   in.Target,
	}

	dirs := make([]pragma.Directive, len(in.Directives))
	copy(dirs, in.Directives)
	sort.SliceStable(dirs, func(i, j int) bool { return dirs[i].Line < dirs[j].Line })

	var problems []TargetProblem
	seq := 0
	for _, d := range dirs {
		for _, target := range d.Targets {
			m, ok, problem := st.resolveTarget(target, d)
			if problem != nil {
				problems = append(problems, *problem)
				continue
			}
			if !ok {
				continue // out of version window: invisible
			}

			switch d.Kind {
			case pragma.DisableLine:
				start, end := d.Line, d.Line
				if in.Statements != nil {
					// A pragma on any physical line of a multi-line logical
					// statement covers the statement's full span.
					if span, found := in.Statements.Innermost(d.Line); found {
						start, end = span.Line, span.EndLine
					}
				}
				st.points = append(st.points, pointEntry{
					m: m, start: start, end: end, pragmaLine: d.Line, pragmaCol: d.Col,
				})

			case pragma.DisableNext:
				next := d.Line + 1
				start, end := next, next
				if in.Statements != nil {
					if span, found := in.Statements.Innermost(next); found {
						start, end = span.Line, span.EndLine
					}
				}
				st.points = append(st.points, pointEntry{
					m: m, start: start, end: end, pragmaLine: d.Line, pragmaCol: d.Col,
				})

			case pragma.DisableScope, pragma.EnableScope:
				scope := in.Scopes.InnermostAt(d.Line)
				st.trans = append(st.trans, transition{
					m:         m,
					scope:     scope,
					line:      d.Line,
					seq:       seq,
					enabled:   d.Kind == pragma.EnableScope,
					pragmaCol: d.Col,
				})
			}
			seq++
		}
	}

	sort.SliceStable(st.trans, func(i, j int) bool {
		if st.trans[i].line != st.trans[j].line {
			return st.trans[i].line < st.trans[j].line
		}
		return st.trans[i].seq < st.trans[j].seq
	})
	return st, problems
}

// resolveTarget maps a folded target to a matcher. ok=false with nil problem
// means the target is valid but invisible at the configured version.
func (st *State) resolveTarget(target string, d pragma.Directive) (matcher, bool, *TargetProblem) {
	if target == "all" {
		return matcher{kind: matchAll, raw: target}, true, nil
	}
	if cat, ok := msg.CategoryFromName(target); ok {
		return matcher{kind: matchCategory, cat: cat, raw: target}, true, nil
	}

	def, ok := st.catalog.Lookup(CanonicalID(target))
	if !ok {
		def, ok = st.catalog.Lookup(target)
	}
	if !ok {
		problem := &TargetProblem{Line: d.Line, Col: d.Col, Target: target}
		if note, removed := st.catalog.WasRemoved(CanonicalID(target)); removed {
			problem.Removed, problem.RemovedNote = true, note
		} else if note, removed := st.catalog.WasRemoved(target); removed {
			problem.Removed, problem.RemovedNote = true, note
		}
		return matcher{}, false, problem
	}
	if !def.InWindow(st.target) {
		return matcher{}, false, nil
	}
	return matcher{kind: matchID, id: def.ID, raw: target}, true, nil
}

// CanonicalID upper-cases the category letter of an id-shaped target so the
// folded pragma text matches catalog ids.
func CanonicalID(target string) string {
	if len(target) == 5 && target[0] >= 'a' && target[0] <= 'z' {
		digits := true
		for _, b := range []byte(target[1:]) {
			if b < '0' || b > '9' {
				digits = false
				break
			}
		}
		if digits {
			return strings.ToUpper(target[:1]) + target[1:]
		}
	}
	return target
}
