package reportfmt

import (
	"encoding/json"
	"io"
	"sort"

	"pyrite/internal/aggregate"
	"pyrite/internal/msg"
	"pyrite/internal/source"
)

const (
	sarifVersion   = "2.1.0"
	sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string            `json:"id"`
	Name             string            `json:"name,omitempty"`
	ShortDescription *sarifMessage     `json:"shortDescription,omitempty"`
	Properties       map[string]string `json:"properties,omitempty"`
}

type sarifInvocation struct {
	CommandLine         string `json:"commandLine,omitempty"`
	ExecutionSuccessful bool   `json:"executionSuccessful"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
	LogicalLocations []sarifLogical        `json:"logicalLocations,omitempty"`
}

type sarifLogical struct {
	FullyQualifiedName string `json:"fullyQualifiedName"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// sarifLevel maps categories onto the SARIF level vocabulary.
func sarifLevel(cat msg.Category) string {
	switch cat {
	case msg.CatFatal, msg.CatError:
		return "error"
	case msg.CatWarning:
		return "warning"
	}
	return "note"
}

// Sarif renders the run as a SARIF v2.1.0 log with one run and one rule entry
// per distinct message id.
func Sarif(w io.Writer, run *aggregate.Run, fileSet *source.FileSet, meta SarifRunMeta) error {
	items := run.Bag.Items()

	ruleSeen := make(map[string]sarifRule)
	results := make([]sarifResult, 0, len(items))
	for _, f := range items {
		if _, ok := ruleSeen[f.MessageID]; !ok {
			ruleSeen[f.MessageID] = sarifRule{
				ID:   f.MessageID,
				Name: f.Symbol,
				Properties: map[string]string{
					"category": f.Category.String(),
				},
			}
		}

		loc := sarifLocation{
			PhysicalLocation: sarifPhysicalLocation{
				ArtifactLocation: sarifArtifact{URI: displayPath(f.Path, fileSet, PathModeRelative)},
				Region: sarifRegion{
					StartLine:   f.Pos.Line,
					StartColumn: f.Pos.Col,
					EndLine:     f.Pos.EndLine,
					EndColumn:   f.Pos.EndCol,
				},
			},
		}
		if f.ObjectPath != "" {
			loc.LogicalLocations = []sarifLogical{{FullyQualifiedName: f.Module + "." + f.ObjectPath}}
		}

		results = append(results, sarifResult{
			RuleID:    f.MessageID,
			Level:     sarifLevel(f.Category),
			Message:   sarifMessage{Text: f.Text},
			Locations: []sarifLocation{loc},
		})
	}

	rules := make([]sarifRule, 0, len(ruleSeen))
	for _, r := range ruleSeen {
		rules = append(rules, r)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })

	doc := sarifLog{
		Schema:  sarifSchemaURI,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    meta.ToolName,
				Version: meta.ToolVersion,
				Rules:   rules,
			}},
			Results: results,
		}},
	}
	if len(meta.InvocationArgs) > 0 {
		cmd := meta.InvocationArgs[0]
		for _, a := range meta.InvocationArgs[1:] {
			cmd += " " + a
		}
		doc.Runs[0].Invocations = []sarifInvocation{{
			CommandLine:         cmd,
			ExecutionSuccessful: run.Stats.ByCategory[msg.CatFatal] == 0,
		}}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}
