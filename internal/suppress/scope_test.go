package suppress

import (
	"testing"
)

func TestScope_InnermostAt(t *testing.T) {
	scopes := BuildScopes(testTree(), 20)

	tests := []struct {
		name      string
		line      int
		wantStart int
		wantEnd   int
	}{
		{name: "module line", line: 1, wantStart: 1, wantEnd: 20},
		{name: "function body", line: 5, wantStart: 2, wantEnd: 8},
		{name: "first branch", line: 11, wantStart: 10, wantEnd: 12},
		{name: "second branch", line: 14, wantStart: 13, wantEnd: 16},
		{name: "between scopes", line: 9, wantStart: 1, wantEnd: 20},
		{name: "after everything", line: 19, wantStart: 1, wantEnd: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scopes.InnermostAt(tt.line)
			if s.Start != tt.wantStart || s.End != tt.wantEnd {
				t.Errorf("InnermostAt(%d) = [%d..%d], want [%d..%d]",
					tt.line, s.Start, s.End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestScope_Within(t *testing.T) {
	scopes := BuildScopes(testTree(), 20)
	fn := scopes.InnermostAt(5)
	branch := scopes.InnermostAt(11)

	if !fn.Within(scopes) {
		t.Errorf("function scope is within the module scope")
	}
	if !branch.Within(scopes) {
		t.Errorf("branch scope is within the module scope")
	}
	if branch.Within(fn) {
		t.Errorf("branch is not inside the function")
	}
	if scopes.Within(fn) {
		t.Errorf("module is not inside the function")
	}
}

func TestBuildScopes_EmptyTree(t *testing.T) {
	scopes := BuildScopes(nil, 0)
	if scopes.Start != 1 || scopes.End != 1 {
		t.Errorf("empty module scope = [%d..%d], want [1..1]", scopes.Start, scopes.End)
	}
	if got := scopes.InnermostAt(1); got != scopes {
		t.Errorf("InnermostAt on empty tree must return the module scope")
	}
}
