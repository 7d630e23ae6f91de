package workflow

// StepStatus is how a step is shown in the progress list.
type StepStatus string

const (
	StatusCompleted StepStatus = "completed"
	StatusSkipped   StepStatus = "skipped"
	StatusCurrent   StepStatus = "current"
	StatusPending   StepStatus = "pending"
)

type StepProgress struct {
	Step   int        `json:"step"`
	Name   string     `json:"name"`
	Status StepStatus `json:"status"`
}

// Progress reports every catalog step. A step counts as completed only when a
// result carries its name, so steps bypassed by an early exit show as
// skipped.
func (s *Session) Progress() []StepProgress {
	done := make(map[string]bool, len(s.results))
	for _, r := range s.results {
		done[r.StepName] = true
	}

	steps := s.catalog.Steps()
	out := make([]StepProgress, 0, len(steps))
	for _, st := range steps {
		p := StepProgress{Step: st.ID, Name: st.Name, Status: StatusPending}
		switch {
		case done[st.Name]:
			p.Status = StatusCompleted
		case s.phase == PhaseFinished:
			p.Status = StatusSkipped
		case s.phase != PhaseNotStarted && st.ID == s.current:
			p.Status = StatusCurrent
		}
		out = append(out, p)
	}
	return out
}
