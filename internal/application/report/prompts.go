package report

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/aiact-classifier/internal/domain/assessment"
	"github.com/bryanwahyu/aiact-classifier/internal/domain/usecase"
)

// SummaryPrompt asks for a narrative over every step. Override rationales are
// quoted verbatim and flagged so the narrative has to answer them.
func SummaryPrompt(u usecase.UseCase, results []assessment.StepResult) string {
	var log strings.Builder
	for i, r := range results {
		if i > 0 {
			log.WriteString("\n")
		}
		fmt.Fprintf(&log, "- %s: Your decision was %q.\n  - AI Rationale: %s", r.StepName, r.HumanDecision, r.AIAnalysis)
		if r.HumanRationale != "" {
			fmt.Fprintf(&log, "\n  - Your Rationale for Disagreement: %s", r.HumanRationale)
		}
	}

	return fmt.Sprintf(`As an expert on the EU AI Act, you have completed a step-by-step risk analysis for an AI system, including human oversight.
Now, synthesize all the findings into a final, cohesive summary.
Do not simply list the steps. Instead, create a brief narrative that explains the final risk classification based on the key findings from the analysis.
Crucially, if the human operator provided their own rationale for disagreeing with the AI, you must incorporate and address that reasoning in your final summary.

Use Case Description: %q

Analysis Log (including human decisions and rationale):
%s

Provide the final summary below.`, u.Description, log.String())
}

// MitigationPrompt asks for mitigation advice using only the positive
// findings.
func MitigationPrompt(tier assessment.Tier, u usecase.UseCase, results []assessment.StepResult) string {
	var findings []string
	for _, r := range assessment.Positive(results) {
		findings = append(findings, fmt.Sprintf("For the %q, the AI found: %s", r.StepName, r.AIAnalysis))
	}

	return fmt.Sprintf(`An AI system has been classified as %q under the EU AI Act.
Use Case: %q
Key Risk Findings:
%s

Based on these findings, provide a concise, actionable list of suggestions to mitigate the identified risks.
- If the risk is "Unacceptable Risk", explain clearly that mitigation is not possible and the practice must be avoided.
- If "High-Risk", suggest steps related to conformity assessments, data governance, transparency, and human oversight.
- If "Limited Risk", suggest specific transparency measures that need to be implemented (e.g., informing users they are interacting with an AI).

Your suggestions should be practical and directly related to the findings.`, tier.String(), u.Description, strings.Join(findings, "\n"))
}
