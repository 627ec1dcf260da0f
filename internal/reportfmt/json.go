package reportfmt

import (
	"encoding/json"
	"io"

	"pyrite/internal/aggregate"
	"pyrite/internal/source"
)

// FindingJSON is the fixed serialization schema for one finding. Optional
// fields are pointers so absent values serialize as explicit nulls rather
// than disappearing from the object.
type FindingJSON struct {
	Path       string  `json:"path"`
	Line       int     `json:"line"`
	Column     int     `json:"column"`
	EndLine    *int    `json:"endLine"`
	EndColumn  *int    `json:"endColumn"`
	MessageID  string  `json:"messageId"`
	Symbol     string  `json:"symbol"`
	Category   string  `json:"category"`
	Confidence string  `json:"confidence"`
	Text       string  `json:"text"`
	Module     *string `json:"module"`
	ObjectPath *string `json:"objectPath"`
}

// StatsJSON summarizes the run for machine consumers.
type StatsJSON struct {
	ByCategory map[string]int `json:"byCategory"`
	Statements int            `json:"statements"`
	Files      int            `json:"files"`
	Score      float64        `json:"score"`
	ExitCode   int            `json:"exitCode"`
}

// RunJSON is the root JSON document.
type RunJSON struct {
	Findings []FindingJSON `json:"findings"`
	Count    int           `json:"count"`
	Stats    StatsJSON     `json:"stats"`
}

// BuildRunOutput assembles the JSON document without serializing it.
func BuildRunOutput(run *aggregate.Run, fileSet *source.FileSet, opts JSONOpts) RunJSON {
	items := run.Bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	findings := make([]FindingJSON, 0, maxItems)
	for i := 0; i < maxItems; i++ {
		f := items[i]
		fj := FindingJSON{
			Path:       displayPath(f.Path, fileSet, opts.PathMode),
			Line:       f.Pos.Line,
			Column:     f.Pos.Col,
			MessageID:  f.MessageID,
			Symbol:     f.Symbol,
			Category:   f.Category.String(),
			Confidence: f.Confidence.String(),
			Text:       f.Text,
		}
		if f.Pos.EndLine != 0 {
			end := f.Pos.EndLine
			fj.EndLine = &end
		}
		if f.Pos.EndCol != 0 {
			end := f.Pos.EndCol
			fj.EndColumn = &end
		}
		if f.Module != "" {
			m := f.Module
			fj.Module = &m
		}
		if f.ObjectPath != "" {
			o := f.ObjectPath
			fj.ObjectPath = &o
		}
		findings = append(findings, fj)
	}

	byCategory := make(map[string]int, len(run.Stats.ByCategory))
	for cat, n := range run.Stats.ByCategory {
		byCategory[cat.String()] = n
	}

	return RunJSON{
		Findings: findings,
		Count:    len(findings),
		Stats: StatsJSON{
			ByCategory: byCategory,
			Statements: run.Stats.Statements,
			Files:      run.Stats.Files,
			Score:      run.Score,
			ExitCode:   run.ExitCode,
		},
	}
}

// JSON renders the run as an indented JSON document.
func JSON(w io.Writer, run *aggregate.Run, fileSet *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildRunOutput(run, fileSet, opts))
}
