package workflow

import (
	"github.com/bryanwahyu/aiact-classifier/internal/domain/assessment"
	"github.com/bryanwahyu/aiact-classifier/internal/domain/usecase"
)

// Suggestion is the collaborator's answer as shown to the operator.
type Suggestion struct {
	IsPositive bool   `json:"is_positive"`
	Label      string `json:"label"`
	Reason     string `json:"reason"`
}

// View is a detached copy of a session for rendering and export.
type View struct {
	ID              string                  `json:"id"`
	Generation      uint64                  `json:"generation"`
	Phase           Phase                   `json:"phase"`
	UseCase         *usecase.UseCase        `json:"use_case,omitempty"`
	CurrentStep     int                     `json:"current_step"`
	TotalSteps      int                     `json:"total_steps"`
	Step            *assessment.Step        `json:"step,omitempty"`
	Suggestion      *Suggestion             `json:"suggestion,omitempty"`
	PendingDecision *bool                   `json:"pending_decision,omitempty"`
	Results         []assessment.StepResult `json:"results"`
	Completed       bool                    `json:"completed"`
	FinalTier       assessment.Tier         `json:"final_tier"`
	Summary         string                  `json:"summary"`
	Mitigation      string                  `json:"mitigation"`
	LoadingReport   bool                    `json:"loading_report"`
	Progress        []StepProgress          `json:"progress"`
}

// Snapshot copies the session state.
func (s *Session) Snapshot() View {
	v := View{
		ID:            s.id,
		Generation:    s.generation,
		Phase:         s.phase,
		CurrentStep:   s.current,
		TotalSteps:    s.catalog.Len(),
		Results:       s.Results(),
		Completed:     s.phase == PhaseFinished,
		FinalTier:     s.tier,
		Summary:       s.summary,
		Mitigation:    s.mitigation,
		LoadingReport: s.loading,
		Progress:      s.Progress(),
	}
	if v.Results == nil {
		v.Results = []assessment.StepResult{}
	}
	if s.useCase != nil {
		u := *s.useCase
		v.UseCase = &u
	}
	if s.phase != PhaseNotStarted && s.phase != PhaseFinished {
		if st, ok := s.catalog.Step(s.current); ok {
			v.Step = &st
			if s.outcome != nil {
				v.Suggestion = &Suggestion{
					IsPositive: s.outcome.IsPositive,
					Label:      st.AILabel(s.outcome.IsPositive),
					Reason:     s.outcome.Reason,
				}
			}
		}
	}
	if s.pending != nil {
		d := *s.pending
		v.PendingDecision = &d
	}
	return v
}

// Overrides returns the results where the operator disagreed with the
// collaborator.
func (v View) Overrides() []assessment.StepResult {
	var out []assessment.StepResult
	for _, r := range v.Results {
		if r.Overridden() {
			out = append(out, r)
		}
	}
	return out
}
