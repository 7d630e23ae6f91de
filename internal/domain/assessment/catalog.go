package assessment

import (
	"errors"
	"fmt"
	"strings"
)

// Kind tags the legal question asked by a step.
type Kind int

const (
	KindUnacceptable Kind = iota + 1
	KindHighRisk
	KindLimitedRisk
)

func (k Kind) Valid() bool { return k >= KindUnacceptable && k <= KindLimitedRisk }

func (k Kind) String() string {
	switch k {
	case KindUnacceptable:
		return "unacceptable"
	case KindHighRisk:
		return "high_risk"
	case KindLimitedRisk:
		return "limited_risk"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Step names. The aggregator keys on these.
const (
	StepUnacceptable = "Unacceptable Risk Check"
	StepHighRisk     = "High-Risk Check"
	StepLimitedRisk  = "Limited Risk Check"
)

// Step is one yes/no question of the analysis sequence.
type Step struct {
	ID          int    `json:"id"`
	Kind        Kind   `json:"-"`
	Name        string `json:"name"`
	Question    string `json:"question"`
	Description string `json:"description"`
	// AnswerKey is the boolean field the assessment collaborator fills in.
	AnswerKey           string `json:"answer_key"`
	AIPositiveLabel     string `json:"ai_positive_label"`
	AINegativeLabel     string `json:"ai_negative_label"`
	HumanPositiveAction string `json:"human_positive_action"`
	HumanNegativeAction string `json:"human_negative_action"`
	PositiveRisk        Tier   `json:"positive_risk"`
	NegativeRisk        Tier   `json:"negative_risk"`
}

// Prompt renders the assessment prompt for a use-case description.
func (s Step) Prompt(description string) string { return BuildPrompt(s.Kind, description) }

// HumanLabel is the display label for the operator's decision.
func (s Step) HumanLabel(decision bool) string {
	if decision {
		return s.HumanPositiveAction
	}
	return s.HumanNegativeAction
}

// AILabel is the display label for the collaborator's suggestion.
func (s Step) AILabel(positive bool) string {
	if positive {
		return s.AIPositiveLabel
	}
	return s.AINegativeLabel
}

// EndsWorkflow reports whether confirming decision at this step settles the
// classification so later steps are skipped.
func (s Step) EndsWorkflow(decision bool) bool {
	return decision && (s.PositiveRisk == TierUnacceptable || s.PositiveRisk == TierHigh)
}

var (
	ErrEmptyCatalog = errors.New("catalog has no steps")
	ErrInvalidStep  = errors.New("invalid catalog step")
)

// Catalog is the fixed, ordered list of steps. Step IDs run 1..N.
type Catalog struct {
	steps []Step
}

// NewCatalog validates the steps and returns a catalog over a private copy.
func NewCatalog(steps ...Step) (*Catalog, error) {
	if len(steps) == 0 {
		return nil, ErrEmptyCatalog
	}
	seen := make(map[string]bool, len(steps))
	for i, s := range steps {
		if s.ID != i+1 {
			return nil, fmt.Errorf("%w: step at position %d has id %d", ErrInvalidStep, i+1, s.ID)
		}
		if strings.TrimSpace(s.Name) == "" {
			return nil, fmt.Errorf("%w: step %d has no name", ErrInvalidStep, s.ID)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("%w: duplicate step name %q", ErrInvalidStep, s.Name)
		}
		if !s.Kind.Valid() {
			return nil, fmt.Errorf("%w: step %d has unknown kind %d", ErrInvalidStep, s.ID, int(s.Kind))
		}
		if s.AnswerKey == "" {
			return nil, fmt.Errorf("%w: step %d has no answer key", ErrInvalidStep, s.ID)
		}
		seen[s.Name] = true
	}
	return &Catalog{steps: append([]Step(nil), steps...)}, nil
}

// MustCatalog is NewCatalog for static definitions.
func MustCatalog(steps ...Step) *Catalog {
	c, err := NewCatalog(steps...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Len() int { return len(c.steps) }

// Step returns the step with the given 1-based id.
func (c *Catalog) Step(id int) (Step, bool) {
	if id < 1 || id > len(c.steps) {
		return Step{}, false
	}
	return c.steps[id-1], true
}

func (c *Catalog) Steps() []Step { return append([]Step(nil), c.steps...) }

var defaultCatalog = MustCatalog(
	Step{
		ID:                  1,
		Kind:                KindUnacceptable,
		Name:                StepUnacceptable,
		Question:            `Does this use case fall into an "Unacceptable Risk" category?`,
		Description:         "Evaluates if the AI practice is explicitly banned under the EU AI Act, such as social scoring or manipulation.",
		AnswerKey:           "is_prohibited",
		AIPositiveLabel:     "Potential Unacceptable Risk",
		AINegativeLabel:     "Not an Unacceptable Risk",
		HumanPositiveAction: "Confirm as Unacceptable",
		HumanNegativeAction: "Not Unacceptable, Continue",
		PositiveRisk:        TierUnacceptable,
		NegativeRisk:        TierPending,
	},
	Step{
		ID:                  2,
		Kind:                KindHighRisk,
		Name:                StepHighRisk,
		Question:            `Is this a "High-Risk" application as defined by the EU AI Act?`,
		Description:         "Determines if the AI is used in critical areas listed in the Act, like recruitment or medical devices.",
		AnswerKey:           "is_high_risk",
		AIPositiveLabel:     "Potential High-Risk Practice",
		AINegativeLabel:     "Not a High-Risk Practice",
		HumanPositiveAction: "Confirm as High-Risk",
		HumanNegativeAction: "Not High-Risk, Continue",
		PositiveRisk:        TierHigh,
		NegativeRisk:        TierPending,
	},
	Step{
		ID:                  3,
		Kind:                KindLimitedRisk,
		Name:                StepLimitedRisk,
		Question:            "Does this system require transparency obligations (Limited Risk)?",
		Description:         "Checks for transparency obligations under the Act, such as for chatbots or deepfakes.",
		AnswerKey:           "is_limited_risk",
		AIPositiveLabel:     "Potential Limited Risk",
		AINegativeLabel:     "Not a Limited Risk Practice",
		HumanPositiveAction: "Confirm as Limited Risk",
		HumanNegativeAction: "Not Limited Risk, Continue",
		PositiveRisk:        TierLimited,
		NegativeRisk:        TierMinimal,
	},
)

// DefaultCatalog returns the three-step EU AI Act analysis.
func DefaultCatalog() *Catalog { return defaultCatalog }
