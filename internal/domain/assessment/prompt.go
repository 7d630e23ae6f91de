package assessment

import "fmt"

const promptPreamble = `As an expert on the EU AI Act, analyze this AI use case: "%s". `

// BuildPrompt renders the assessment prompt for a step kind. Each prompt asks
// for a JSON object holding the kind's answer key and a reason that cites the
// relevant clauses.
func BuildPrompt(kind Kind, description string) string {
	head := fmt.Sprintf(promptPreamble, description)
	switch kind {
	case KindUnacceptable:
		return head + `Does it fall under a 'Prohibited AI Practice' leading to an 'Unacceptable Risk' as defined in the EU AI Act? ` +
			`Provide a detailed assessment and a concise explanation. In your reason, you MUST cite the specific clauses (e.g., Article 5). ` +
			`Respond in JSON format with: {"is_prohibited": boolean, "reason": string}`
	case KindHighRisk:
		return head + `Determine if it falls under any of the 'High-Risk' categories as listed in the EU AI Act (e.g., Annex III). ` +
			`Provide a detailed assessment and a concise explanation. In your reason, you MUST cite the specific category (e.g., Annex III, point 1(a)). ` +
			`Respond in JSON format with: {"is_high_risk": boolean, "reason": string}`
	case KindLimitedRisk:
		return head + `Determine if it requires transparency obligations, categorizing it as 'Limited Risk' (e.g., systems interacting with humans, deep fakes). ` +
			`Provide a detailed assessment and a concise explanation. In your reason, you MUST cite the relevant parts of the EU AI Act (e.g., Article 50). ` +
			`Respond in JSON format with: {"is_limited_risk": boolean, "reason": string}`
	default:
		return ""
	}
}
