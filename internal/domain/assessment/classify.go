package assessment

// precedence is authoritative: the first step name with a positive result
// decides the tier, wherever that result sits in the sequence.
var precedence = []struct {
	step string
	tier Tier
}{
	{StepUnacceptable, TierUnacceptable},
	{StepHighRisk, TierHigh},
	{StepLimitedRisk, TierLimited},
}

// Classify derives the final tier from result content. It does not rely on
// the workflow having exited early and accepts any number of positive flags.
func Classify(results []StepResult) Tier {
	positive := make(map[string]bool, len(results))
	for _, r := range results {
		if r.IsPositive {
			positive[r.StepName] = true
		}
	}
	for _, p := range precedence {
		if positive[p.step] {
			return p.tier
		}
	}
	return TierMinimal
}
