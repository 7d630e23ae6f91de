// Package workflow drives one classification session through the analysis
// steps: assessment, human decision, optional override rationale, and the
// early-exit rule that ends the run once the tier is settled.
//
// A Session is single-writer state. Callers serialize access; the generation
// counter lets them drop collaborator responses that arrive after a reset.
package workflow

import (
	"errors"
	"strings"

	"github.com/bryanwahyu/aiact-classifier/internal/domain/assessment"
	"github.com/bryanwahyu/aiact-classifier/internal/domain/usecase"
)

// Phase is the position of a session in the state machine.
type Phase string

const (
	PhaseNotStarted         Phase = "not_started"
	PhaseAwaitingAssessment Phase = "awaiting_assessment"
	PhaseAwaitingDecision   Phase = "awaiting_decision"
	PhaseAwaitingRationale  Phase = "awaiting_rationale"
	PhaseFinished           Phase = "finished"
)

var (
	ErrInvalidPhase      = errors.New("operation not allowed in current phase")
	ErrStale             = errors.New("stale generation")
	ErrRationaleRequired = errors.New("override requires a non-empty rationale")
	ErrReportStarted     = errors.New("report generation already started")
)

// Session is the mutable state of one classification run.
type Session struct {
	id      string
	catalog *assessment.Catalog

	generation uint64
	useCase    *usecase.UseCase
	phase      Phase
	current    int
	outcome    *assessment.Outcome
	pending    *bool
	results    []assessment.StepResult
	tier       assessment.Tier

	summary       string
	mitigation    string
	loading       bool
	reportStarted bool
}

// New returns a session in PhaseNotStarted. A nil catalog means the default
// EU AI Act catalog.
func New(id string, catalog *assessment.Catalog) *Session {
	if catalog == nil {
		catalog = assessment.DefaultCatalog()
	}
	return &Session{id: id, catalog: catalog, phase: PhaseNotStarted}
}

func (s *Session) ID() string { return s.id }
func (s *Session) Generation() uint64 { return s.generation }
func (s *Session) Phase() Phase { return s.phase }
func (s *Session) CurrentStep() int { return s.current }
func (s *Session) Catalog() *assessment.Catalog { return s.catalog }
func (s *Session) Finished() bool { return s.phase == PhaseFinished }
func (s *Session) Tier() assessment.Tier { return s.tier }
func (s *Session) Summary() string { return s.summary }
func (s *Session) Mitigation() string { return s.mitigation }
func (s *Session) LoadingReport() bool { return s.loading }
func (s *Session) Outcome() *assessment.Outcome { return copyOutcome(s.outcome) }
func (s *Session) Results() []assessment.StepResult {
	return append([]assessment.StepResult(nil), s.results...)
}

// UseCase returns the selected use case, if any.
func (s *Session) UseCase() (usecase.UseCase, bool) {
	if s.useCase == nil {
		return usecase.UseCase{}, false
	}
	return *s.useCase, true
}

// Begin discards any previous run and starts the first step for u. The
// returned generation tags the assessment request for step 1.
func (s *Session) Begin(u usecase.UseCase) uint64 {
	s.clear()
	s.useCase = &u
	s.phase = PhaseAwaitingAssessment
	s.current = 1
	return s.generation
}

// Reset discards all state and returns to PhaseNotStarted. In-flight
// responses tagged with an older generation are rejected afterwards.
func (s *Session) Reset() uint64 {
	s.clear()
	return s.generation
}

func (s *Session) clear() {
	s.generation++
	s.useCase = nil
	s.phase = PhaseNotStarted
	s.current = 0
	s.outcome = nil
	s.pending = nil
	s.results = nil
	s.tier = assessment.TierPending
	s.summary = ""
	s.mitigation = ""
	s.loading = false
	s.reportStarted = false
}

// Request is an assessment the caller must obtain from the collaborator.
type Request struct {
	Generation uint64
	Step       assessment.Step
	Prompt     string
}

// Prompt returns the assessment request for the current step.
func (s *Session) Prompt() (Request, error) {
	if s.phase != PhaseAwaitingAssessment || s.useCase == nil {
		return Request{}, ErrInvalidPhase
	}
	step, _ := s.catalog.Step(s.current)
	return Request{
		Generation: s.generation,
		Step:       step,
		Prompt:     step.Prompt(s.useCase.Description),
	}, nil
}

// ApplyAssessment records the collaborator's outcome for the current step.
func (s *Session) ApplyAssessment(gen uint64, o assessment.Outcome) error {
	if gen != s.generation {
		return ErrStale
	}
	if s.phase != PhaseAwaitingAssessment {
		return ErrInvalidPhase
	}
	s.outcome = &o
	s.phase = PhaseAwaitingDecision
	return nil
}

// Transition describes the effect of a decision.
type Transition struct {
	Phase Phase `json:"phase"`
	// Result is set when the step was finalized.
	Result *assessment.StepResult `json:"result,omitempty"`
	// EarlyExit is set when a confirmed Unacceptable or High-Risk finding
	// skipped the remaining steps.
	EarlyExit bool `json:"early_exit"`
}

// Decide applies the operator's decision for the current step. Agreement with
// the suggestion finalizes the step. An override finalizes only with a
// non-blank rationale; without one the session waits in
// PhaseAwaitingRationale.
func (s *Session) Decide(decision bool, rationale string) (Transition, error) {
	if s.phase != PhaseAwaitingDecision {
		return Transition{}, ErrInvalidPhase
	}
	if decision == s.outcome.IsPositive {
		return s.finalize(decision, ""), nil
	}
	if blank(rationale) {
		s.pending = &decision
		s.phase = PhaseAwaitingRationale
		return Transition{Phase: s.phase}, nil
	}
	return s.finalize(decision, rationale), nil
}

// SubmitRationale finalizes a pending override.
func (s *Session) SubmitRationale(rationale string) (Transition, error) {
	if s.phase != PhaseAwaitingRationale {
		return Transition{}, ErrInvalidPhase
	}
	if blank(rationale) {
		return Transition{}, ErrRationaleRequired
	}
	return s.finalize(*s.pending, rationale), nil
}

// CancelOverride abandons a pending override and returns to the decision.
func (s *Session) CancelOverride() error {
	if s.phase != PhaseAwaitingRationale {
		return ErrInvalidPhase
	}
	s.pending = nil
	s.phase = PhaseAwaitingDecision
	return nil
}

func (s *Session) finalize(decision bool, rationale string) Transition {
	step, _ := s.catalog.Step(s.current)
	r := assessment.StepResult{
		StepName:       step.Name,
		AIAnalysis:     s.outcome.Reason,
		AISuggestion:   s.outcome.IsPositive,
		IsPositive:     decision,
		HumanDecision:  step.HumanLabel(decision),
		HumanRationale: rationale,
	}
	s.results = append(s.results, r)
	s.outcome = nil
	s.pending = nil

	t := Transition{Result: &r}
	switch {
	case step.EndsWorkflow(decision):
		t.EarlyExit = s.current < s.catalog.Len()
		s.finish()
	case s.current >= s.catalog.Len():
		s.finish()
	default:
		s.current++
		s.phase = PhaseAwaitingAssessment
	}
	t.Phase = s.phase
	return t
}

func (s *Session) finish() {
	s.phase = PhaseFinished
	s.tier = assessment.Classify(s.results)
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func copyOutcome(o *assessment.Outcome) *assessment.Outcome {
	if o == nil {
		return nil
	}
	c := *o
	return &c
}
