package assessment

// StepResult is the audit record of one completed step. IsPositive and
// HumanDecision hold the operator's final decision, which may differ from the
// collaborator's suggestion.
type StepResult struct {
	StepName       string `json:"step_name"`
	AIAnalysis     string `json:"ai_analysis"`
	AISuggestion   bool   `json:"ai_suggestion"`
	IsPositive     bool   `json:"is_positive"`
	HumanDecision  string `json:"human_decision"`
	HumanRationale string `json:"human_rationale,omitempty"`
}

// Overridden reports whether the operator disagreed with the collaborator.
func (r StepResult) Overridden() bool { return r.IsPositive != r.AISuggestion }

// Positive returns the results whose final decision is positive, in order.
func Positive(results []StepResult) []StepResult {
	var out []StepResult
	for _, r := range results {
		if r.IsPositive {
			out = append(out, r)
		}
	}
	return out
}
