package msg

// Well-known ids the engine itself reports with. Checkers never declare these.
const (
	IDAnalysisFailed     = "F0001"
	IDCheckerFault       = "F0002"
	IDUnrecognizedOption = "E0011"
	IDUnknownOptionValue = "W0012"
	IDUselessSuppression = "I0021"
	IDDeprecatedPragma   = "I0022"
)

// Builtin returns the engine's own message definitions.
func Builtin() []Definition {
	return []Definition{
		{
			ID:                IDAnalysisFailed,
			Symbol:            "analysis-failed",
			Template:          "analysis failed: %s",
			Description:       "The file could not be fully analyzed; partial results were discarded.",
			DefaultConfidence: ConfidenceHigh,
		},
		{
			ID:                IDCheckerFault,
			Symbol:            "checker-fault",
			Template:          "internal failure in checker %q: %v",
			Description:       "A checker hook failed; remaining checkers kept running.",
			DefaultConfidence: ConfidenceHigh,
		},
		{
			ID:                IDUnrecognizedOption,
			Symbol:            "unrecognized-inline-option",
			Template:          "unrecognized inline option %q",
			DefaultConfidence: ConfidenceHigh,
		},
		{
			ID:                IDUnknownOptionValue,
			Symbol:            "unknown-option-value",
			Template:          "unknown message %q referenced in %s",
			DefaultConfidence: ConfidenceHigh,
		},
		{
			ID:                IDUselessSuppression,
			Symbol:            "useless-suppression",
			Template:          "useless suppression of %q",
			Description:       "The suppressed message never would have fired in that scope.",
			DefaultConfidence: ConfidenceHigh,
		},
		{
			ID:                IDDeprecatedPragma,
			Symbol:            "deprecated-pragma",
			Template:          "pragma keyword %q is deprecated, use %q instead",
			DefaultConfidence: ConfidenceHigh,
		},
	}
}

// NewBuiltinCatalog builds a catalog pre-populated with the engine messages.
func NewBuiltinCatalog() *Catalog {
	c := NewCatalog()
	if err := c.Register(Builtin()...); err != nil {
		// The builtin set is static; a conflict here is a programming error.
		panic(err)
	}
	c.MarkRemoved("dropped in 1.0, suppression is tracked automatically",
		"I0011", "locally-disabled", "I0012", "locally-enabled")
	return c
}
