package msg

// Confidence expresses how certain the engine is that a finding is real,
// from exact textual evidence down to a failed inference guess.
type Confidence uint8

const (
	// ConfidenceUndefined means the checker declared no certainty level.
	ConfidenceUndefined Confidence = iota
	// ConfidenceInferenceFailure marks findings emitted after inference gave up.
	ConfidenceInferenceFailure
	// ConfidenceInference marks findings based on resolved type/attribute data.
	ConfidenceInference
	// ConfidenceControlFlow marks findings based on flow analysis.
	ConfidenceControlFlow
	// ConfidenceHigh marks findings backed by direct textual evidence.
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceUndefined:
		return "UNDEFINED"
	case ConfidenceInferenceFailure:
		return "INFERENCE_FAILURE"
	case ConfidenceInference:
		return "INFERENCE"
	case ConfidenceControlFlow:
		return "CONTROL_FLOW"
	case ConfidenceHigh:
		return "HIGH"
	}
	return "UNDEFINED"
}

// ParseConfidence resolves a confidence by name; input must be upper-cased.
func ParseConfidence(name string) (Confidence, bool) {
	switch name {
	case "UNDEFINED":
		return ConfidenceUndefined, true
	case "INFERENCE_FAILURE":
		return ConfidenceInferenceFailure, true
	case "INFERENCE":
		return ConfidenceInference, true
	case "CONTROL_FLOW":
		return ConfidenceControlFlow, true
	case "HIGH":
		return ConfidenceHigh, true
	}
	return ConfidenceUndefined, false
}
