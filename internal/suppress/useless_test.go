package suppress

import (
	"testing"

	"pyrite/internal/pragma"
)

func TestSweep_UselessScopeDisable(t *testing.T) {
	st, _ := buildState(t, []pragma.Directive{dir(4, pragma.DisableScope, "c0301")}, stateOpts{})

	// No query ever returned false because of the pragma.
	unused := st.SweepUnconsulted()
	if len(unused) != 1 {
		t.Fatalf("got %d unused entries, want 1: %+v", len(unused), unused)
	}
	if unused[0].Line != 4 || unused[0].Target != "c0301" {
		t.Errorf("unused = %+v, want line 4 target c0301", unused[0])
	}
}

func TestSweep_ConsultedDisableIsNotUseless(t *testing.T) {
	st, _ := buildState(t, []pragma.Directive{dir(4, pragma.DisableScope, "c0301")}, stateOpts{})

	// A suppressed violation consults the transition.
	if st.IsEnabled("C0301", 6) {
		t.Fatalf("line 6 should be suppressed")
	}
	if unused := st.SweepUnconsulted(); len(unused) != 0 {
		t.Errorf("consulted disable must not be reported: %+v", unused)
	}
}

func TestSweep_PositiveQueriesDoNotConsult(t *testing.T) {
	st, _ := buildState(t, []pragma.Directive{dir(4, pragma.DisableScope, "c0301")}, stateOpts{})

	// Queries for other messages or other lines leave the pragma unused.
	st.IsEnabled("W0611", 6)
	st.IsEnabled("C0301", 18)
	if unused := st.SweepUnconsulted(); len(unused) != 1 {
		t.Errorf("got %d unused entries, want 1", len(unused))
	}
}

func TestSweep_LineAndNextPragmas(t *testing.T) {
	st, _ := buildState(t, []pragma.Directive{
		dir(3, pragma.DisableLine, "c0301"),
		dir(7, pragma.DisableNext, "w0611"),
	}, stateOpts{})

	if st.IsEnabled("C0301", 3) {
		t.Fatalf("line 3 suppressed")
	}
	unused := st.SweepUnconsulted()
	if len(unused) != 1 {
		t.Fatalf("got %d unused entries, want 1: %+v", len(unused), unused)
	}
	if unused[0].Line != 7 || unused[0].Target != "w0611" {
		t.Errorf("unused = %+v, want the disable-next on line 7", unused[0])
	}
}

func TestSweep_EnableIsNeverUseless(t *testing.T) {
	st, _ := buildState(t, []pragma.Directive{dir(4, pragma.EnableScope, "c0301")}, stateOpts{})
	if unused := st.SweepUnconsulted(); len(unused) != 0 {
		t.Errorf("enable transitions are exempt: %+v", unused)
	}
}

func TestSweep_RespectsSuppressionNonRecursively(t *testing.T) {
	// The useless disable sits in a scope where useless-suppression itself
	// is disabled; the sweep must stay silent about it and must not flag the
	// I0021 disable as useless in turn just because of its own bookkeeping.
	st, _ := buildState(t, []pragma.Directive{
		dir(3, pragma.DisableScope, "useless-suppression"),
		dir(4, pragma.DisableScope, "c0301"),
	}, stateOpts{})

	// Both entries are unconsulted, but their useless-suppression findings
	// fall inside the scope where I0021 is off -- including the I0021
	// disable itself, which suppresses its own report.
	if unused := st.SweepUnconsulted(); len(unused) != 0 {
		t.Errorf("sweep must stay silent under a useless-suppression disable: %+v", unused)
	}
}
