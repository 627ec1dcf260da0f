// Package pragma extracts inline suppression directives from source text.
// A directive is a comment of the form
//
//	# pylint: disable=c0301,line-too-long
//
// with keywords disable, enable and disable-next. Keywords and targets are
// case-folded before matching; malformed directives are surfaced as problems
// instead of being dropped silently.
package pragma

import (
	"strings"

	"golang.org/x/text/cases"

	"pyrite/internal/source"
)

// Kind describes how a directive propagates.
type Kind uint8

const (
	// DisableLine suppresses targets on the directive's own physical line
	// (widened to the full logical statement by the suppression engine).
	DisableLine Kind = iota
	// DisableNext suppresses targets on the single following physical line.
	DisableNext
	// DisableScope suppresses targets for the rest of the enclosing scope.
	DisableScope
	// EnableScope re-enables targets for the rest of the enclosing scope.
	EnableScope
)

func (k Kind) String() string {
	switch k {
	case DisableLine:
		return "disable-line"
	case DisableNext:
		return "disable-next"
	case DisableScope:
		return "disable"
	case EnableScope:
		return "enable"
	}
	return "unknown"
}

// Directive is one parsed pragma comment.
type Directive struct {
	Line int
	Col  int // 1-based column of the comment hash
	Kind Kind
	// Targets are case-folded ids/symbols/category names or "all".
	Targets []string
	// Raw preserves the directive text for problem reporting.
	Raw string
}

// ProblemKind classifies a rejected or suspicious directive.
type ProblemKind uint8

const (
	// ProblemUnrecognized marks directives with unknown keywords or no targets.
	ProblemUnrecognized ProblemKind = iota
	// ProblemDeprecated marks directives using retired keyword spellings.
	ProblemDeprecated
)

// Problem is a directive the scanner could not accept as-is.
type Problem struct {
	Line int
	Col  int
	Kind ProblemKind
	Text string
	// Hint names the replacement keyword for deprecated spellings.
	Hint string
}

// Result holds everything extracted from one file.
type Result struct {
	Directives []Directive
	Problems   []Problem
}

const marker = "pylint:"

var fold = cases.Fold()

// Scan extracts directives from every line of the file.
func Scan(f *source.File) Result {
	var res Result
	for line := 1; line <= f.LineCount(); line++ {
		text := f.Line(line)
		col, comment, hasCode := splitComment(text)
		if comment == "" {
			continue
		}
		at := markerIndex(comment)
		if at < 0 {
			continue
		}
		body := strings.TrimSpace(comment[at+len(marker):])
		// A later comment or separator ends the directive.
		if cut := strings.IndexAny(body, "#;"); cut >= 0 {
			body = strings.TrimSpace(body[:cut])
		}
		res.scanDirective(line, col, body, hasCode)
	}
	return res
}

// scanDirective parses one "keyword=targets" body.
func (r *Result) scanDirective(line, col int, body string, trailing bool) {
	keyword, rest, found := strings.Cut(body, "=")
	keyword = fold.String(strings.TrimSpace(keyword))
	if !found || keyword == "" {
		r.Problems = append(r.Problems, Problem{
			Line: line, Col: col, Kind: ProblemUnrecognized, Text: body,
		})
		return
	}

	var kind Kind
	switch keyword {
	case "disable":
		kind = DisableScope
		if trailing {
			kind = DisableLine
		}
	case "disable-next":
		kind = DisableNext
	case "enable":
		kind = EnableScope
	case "disable-msg", "enable-msg":
		// Retired spellings still work but get flagged.
		hint := strings.TrimSuffix(keyword, "-msg")
		r.Problems = append(r.Problems, Problem{
			Line: line, Col: col, Kind: ProblemDeprecated, Text: keyword, Hint: hint,
		})
		kind = EnableScope
		if hint == "disable" {
			kind = DisableScope
			if trailing {
				kind = DisableLine
			}
		}
	default:
		r.Problems = append(r.Problems, Problem{
			Line: line, Col: col, Kind: ProblemUnrecognized, Text: body,
		})
		return
	}

	targets := parseTargets(rest)
	if len(targets) == 0 {
		r.Problems = append(r.Problems, Problem{
			Line: line, Col: col, Kind: ProblemUnrecognized, Text: body,
		})
		return
	}

	r.Directives = append(r.Directives, Directive{
		Line: line, Col: col, Kind: kind, Targets: targets, Raw: body,
	})
}

// markerIndex finds the marker with an ASCII case-insensitive scan of the
// original text. Folding the whole comment first would yield offsets in
// folded coordinates, which drift from the original once a length-changing
// fold appears before the marker.
func markerIndex(s string) int {
	for i := 0; i+len(marker) <= len(s); i++ {
		if asciiFoldEq(s[i:i+len(marker)], marker) {
			return i
		}
	}
	return -1
}

// asciiFoldEq compares s against an already-lowercase ASCII pattern of the
// same length.
func asciiFoldEq(s, lower string) bool {
	for i := 0; i < len(lower); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != lower[i] {
			return false
		}
	}
	return true
}

func parseTargets(rest string) []string {
	parts := strings.Split(rest, ",")
	targets := make([]string, 0, len(parts))
	for _, p := range parts {
		p = fold.String(strings.TrimSpace(p))
		if p != "" {
			targets = append(targets, p)
		}
	}
	return targets
}

// splitComment finds the first comment hash outside of string literals.
// Returns the 1-based column of the hash, the comment text after it, and
// whether non-blank code precedes it.
func splitComment(text string) (col int, comment string, hasCode bool) {
	var quote byte
	escaped := false
	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case escaped:
			escaped = false
		case quote != 0:
			if ch == '\\' {
				escaped = true
			} else if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == '#':
			return i + 1, text[i+1:], strings.TrimSpace(text[:i]) != ""
		}
	}
	return 0, "", false
}
