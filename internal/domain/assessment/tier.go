package assessment

import "fmt"

// Tier is the risk classification of a use case under the EU AI Act.
type Tier int

const (
	// TierPending means no classification has been made yet.
	TierPending Tier = iota
	TierMinimal
	TierLimited
	TierHigh
	TierUnacceptable
)

var tierLabels = map[Tier]string{
	TierPending:      "Pending Analysis",
	TierMinimal:      "Minimal/No Risk",
	TierLimited:      "Limited Risk",
	TierHigh:         "High-Risk",
	TierUnacceptable: "Unacceptable Risk",
}

func (t Tier) String() string {
	if l, ok := tierLabels[t]; ok {
		return l
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// Severity orders determined tiers: Unacceptable > High > Limited > Minimal.
// Pending has no severity and reports zero.
func (t Tier) Severity() int {
	if t < TierMinimal || t > TierUnacceptable {
		return 0
	}
	return int(t)
}

// Determined reports whether t is a final classification.
func (t Tier) Determined() bool { return t.Severity() > 0 }

// NeedsMitigation reports whether a report for t carries mitigation advice.
func (t Tier) NeedsMitigation() bool { return t.Determined() && t != TierMinimal }

// ParseTier maps a label back to its tier.
func ParseTier(s string) (Tier, error) {
	for t, l := range tierLabels {
		if l == s {
			return t, nil
		}
	}
	return TierPending, fmt.Errorf("unknown risk tier %q", s)
}

func (t Tier) MarshalText() ([]byte, error) {
	if _, ok := tierLabels[t]; !ok {
		return nil, fmt.Errorf("unknown risk tier %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(b []byte) error {
	v, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
