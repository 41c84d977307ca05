package model

// Verdict categories. Mutually exclusive.
const (
	VerdictAI    = "ai"
	VerdictHuman = "human"
	VerdictMixed = "mixed"
	VerdictError = "error"
)

// Signal severity levels.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Signal is a human-readable advisory attached to a verdict. Signals explain
// the verdict but are not themselves authoritative; order reflects detection
// order, not importance.
type Signal struct {
	Label    string `json:"label"`
	Severity string `json:"severity"`
}

// DetectionVerdict is the response body for every /detect endpoint, including
// the error-shaped outcome when all providers are exhausted.
type DetectionVerdict struct {
	Verdict          string   `json:"verdict"`
	Message          string   `json:"message,omitempty"`
	AIProbability    float64  `json:"ai_probability"`
	HumanProbability float64  `json:"human_probability"`
	Confidence       int      `json:"confidence"`
	Signals          []Signal `json:"signals"`
	ModelUsed        string   `json:"model_used"`
	ProcessingTimeMS int64    `json:"processing_time_ms"`
}
