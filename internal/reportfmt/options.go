// Package reportfmt renders a finalized run in the supported output formats.
package reportfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// TextOpts configures the human-readable renderer.
type TextOpts struct {
	Color    bool
	PathMode PathMode
	// Context prints the offending source line with a caret underline.
	Context bool
	// PreviousScore enables the score delta line when set.
	PreviousScore    float64
	HasPreviousScore bool
}

// JSONOpts configures JSON output.
type JSONOpts struct {
	PathMode PathMode
	// Max truncates the rendered list, not the underlying bag.
	Max int
}

// SarifRunMeta provides tool metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
}
