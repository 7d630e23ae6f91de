package workflow

// BeginReport marks a finished session as generating its report. It may be
// called once per run; the returned generation tags the report texts.
func (s *Session) BeginReport() (uint64, error) {
	if s.phase != PhaseFinished {
		return 0, ErrInvalidPhase
	}
	if s.reportStarted {
		return 0, ErrReportStarted
	}
	s.reportStarted = true
	s.loading = true
	return s.generation, nil
}

// ApplySummary stores the executive summary.
func (s *Session) ApplySummary(gen uint64, text string) error {
	if gen != s.generation {
		return ErrStale
	}
	s.summary = text
	return nil
}

// ApplyMitigation stores the mitigation suggestions.
func (s *Session) ApplyMitigation(gen uint64, text string) error {
	if gen != s.generation {
		return ErrStale
	}
	s.mitigation = text
	return nil
}

// EndReport clears the loading flag.
func (s *Session) EndReport(gen uint64) error {
	if gen != s.generation {
		return ErrStale
	}
	s.loading = false
	return nil
}
