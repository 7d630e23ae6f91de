package usecase

import "fmt"

// OptimizePrompt asks for a restatement of description fit for a formal
// EU AI Act risk assessment.
func OptimizePrompt(description string) string {
	return fmt.Sprintf(`Please reformulate the following AI use case description into a clear, concise, and structured paragraph suitable for a formal risk assessment under the EU AI Act. Focus on the core functionality, the data used, the intended users, and the decision-making process it influences. Return only the optimized paragraph.

User Input: %q

Optimized Description:`, description)
}
