package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pyrite/internal/msg"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func testCatalog(t *testing.T) *msg.Catalog {
	t.Helper()
	cat := msg.NewBuiltinCatalog()
	err := cat.Register(
		msg.Definition{ID: "C0301", Symbol: "line-too-long", Template: "line too long (%d/%d)"},
		msg.Definition{ID: "W0611", Symbol: "unused-import", Template: "unused import %s"},
	)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	cat.MarkRemoved("folded into line-too-long", "C0330", "bad-continuation")
	return cat
}

func TestLoadFull(t *testing.T) {
	path := writeConfig(t, `
[run]
jobs = 4
file-timeout = "30s"
target-version = "3.12"
confidence = "inference"

[messages]
disable = ["all"]
enable = ["W0611", "error"]

[score]
formula = "10 - error"
fail-under = 8.5
fail-on = ["unused-import"]

[output]
format = "json"
color = "off"
`)
	cfg, err := Load(path, testCatalog(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Jobs != 4 {
		t.Errorf("Jobs = %d, want 4", cfg.Jobs)
	}
	if cfg.FileTimeout != 30*time.Second {
		t.Errorf("FileTimeout = %v, want 30s", cfg.FileTimeout)
	}
	if got := cfg.TargetVersion.String(); got != "3.12" {
		t.Errorf("TargetVersion = %s, want 3.12", got)
	}
	if cfg.MinConfidence != msg.ConfidenceInference {
		t.Errorf("MinConfidence = %v, want INFERENCE", cfg.MinConfidence)
	}
	if cfg.Formula != "10 - error" {
		t.Errorf("Formula = %q", cfg.Formula)
	}
	if !cfg.FailUnderSet || cfg.FailUnder != 8.5 {
		t.Errorf("FailUnder = %v (set=%v), want 8.5", cfg.FailUnder, cfg.FailUnderSet)
	}
	if len(cfg.FailOn) != 1 || cfg.FailOn[0] != "unused-import" {
		t.Errorf("FailOn = %v", cfg.FailOn)
	}
	if cfg.Format != "json" || cfg.Color != "off" {
		t.Errorf("output = %s/%s", cfg.Format, cfg.Color)
	}
}

func TestLoadBaselineOrder(t *testing.T) {
	path := writeConfig(t, `
[messages]
disable = ["all"]
enable = ["unused-import"]
`)
	cfg, err := Load(path, testCatalog(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	unused := msg.Definition{ID: "W0611", Symbol: "unused-import", Template: "x"}
	long := msg.Definition{ID: "C0301", Symbol: "line-too-long", Template: "x"}
	if !cfg.Baseline.Resolve(&unused) {
		t.Error("unused-import should be re-enabled after disable=all")
	}
	if cfg.Baseline.Resolve(&long) {
		t.Error("line-too-long should stay disabled under disable=all")
	}
}

func TestLoadLowerCasedID(t *testing.T) {
	path := writeConfig(t, `
[messages]
disable = ["c0301"]
`)
	cfg, err := Load(path, testCatalog(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	long := msg.Definition{ID: "C0301", Symbol: "line-too-long", Template: "x"}
	if cfg.Baseline.Resolve(&long) {
		t.Error("line-too-long should be disabled by its lower-cased id")
	}
}

func TestLoadCheckerOptions(t *testing.T) {
	path := writeConfig(t, `
[checkers.format]
max-line-length = 100

[checkers.fixme]
notes = "TODO,HACK"
`)
	cfg, err := Load(path, testCatalog(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.CheckerOptions["format"]["max-line-length"]; got != "100" {
		t.Errorf("max-line-length = %q, want %q", got, "100")
	}
	if got := cfg.CheckerOptions["fixme"]["notes"]; got != "TODO,HACK" {
		t.Errorf("notes = %q, want %q", got, "TODO,HACK")
	}
}

func TestLoadCheckerOptionBadValue(t *testing.T) {
	path := writeConfig(t, `
[checkers.format]
max-line-length = [100]
`)
	_, err := Load(path, testCatalog(t))
	if err == nil {
		t.Fatal("Load accepted a non-scalar checker option")
	}
	if !strings.Contains(err.Error(), "checkers.format") {
		t.Errorf("error %q does not name the offending table", err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "unknown message",
			body: "[messages]\ndisable = [\"no-such-check\"]\n",
			want: "unknown message",
		},
		{
			name: "unknown key",
			body: "[run]\njbos = 4\n",
			want: "unknown key",
		},
		{
			name: "negative jobs",
			body: "[run]\njobs = -1\n",
			want: "jobs",
		},
		{
			name: "bad timeout",
			body: "[run]\nfile-timeout = \"soon\"\n",
			want: "file-timeout",
		},
		{
			name: "bad confidence",
			body: "[run]\nconfidence = \"gut-feeling\"\n",
			want: "confidence",
		},
		{
			name: "bad formula",
			body: "[score]\nformula = \"10 - bogus\"\n",
			want: "formula",
		},
		{
			name: "bad format",
			body: "[output]\nformat = \"xml\"\n",
			want: "format",
		},
		{
			name: "bad color",
			body: "[output]\ncolor = \"sometimes\"\n",
			want: "color",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.body)
			_, err := Load(path, testCatalog(t))
			if err == nil {
				t.Fatal("Load accepted invalid config")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadRemovedMessageIsNote(t *testing.T) {
	path := writeConfig(t, `
[messages]
disable = ["bad-continuation"]
`)
	cfg, err := Load(path, testCatalog(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Notes) != 1 {
		t.Fatalf("Notes = %v, want one removed-message note", cfg.Notes)
	}
	if !strings.Contains(cfg.Notes[0], "bad-continuation") {
		t.Errorf("note %q does not name the removed message", cfg.Notes[0])
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "pkg")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	want := filepath.Join(root, FileName)
	if err := os.WriteFile(want, []byte(""), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, ok, err := Find(nested)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !ok {
		t.Fatal("Find did not locate the config upward")
	}
	if got != want {
		t.Fatalf("Find = %q, want %q", got, want)
	}
}
