package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/bryanwahyu/aiact-classifier/internal/application"
	"github.com/bryanwahyu/aiact-classifier/internal/domain/ai"
	"github.com/bryanwahyu/aiact-classifier/internal/domain/assessment"
	"github.com/bryanwahyu/aiact-classifier/internal/domain/usecase"
	"github.com/bryanwahyu/aiact-classifier/internal/domain/workflow"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type assessReply struct {
	raw string
	err error
}

// fakeClient answers from scripts in call order. An exhausted script answers
// with a negative assessment or an empty text.
type fakeClient struct {
	mu        sync.Mutex
	assess    []assessReply
	generate  []string
	genErr    error
	prompts   []string
	gate      chan struct{}
	started   chan struct{}
	generated int
}

func (f *fakeClient) Provider() string { return "fake" }

func (f *fakeClient) Assess(ctx context.Context, prompt string) (json.RawMessage, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	gate, started := f.gate, f.started
	var r assessReply
	if len(f.assess) > 0 {
		r, f.assess = f.assess[0], f.assess[1:]
	} else {
		r = assessReply{raw: `{"reason":"nothing"}`}
	}
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	if r.err != nil {
		return nil, r.err
	}
	return json.RawMessage(r.raw), nil
}

func (f *fakeClient) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generated++
	if f.genErr != nil {
		return "", f.genErr
	}
	if len(f.generate) == 0 {
		return "", nil
	}
	t := f.generate[0]
	f.generate = f.generate[1:]
	return t, nil
}

type countingRecorder struct {
	mu                                             sync.Mutex
	sessions, assessments, failed, overrides, reps int
}

func (r *countingRecorder) SessionCreated() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions++
}

func (r *countingRecorder) AssessmentCompleted(failed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assessments++
	if failed {
		r.failed++
	}
}

func (r *countingRecorder) StepFinalized(overridden bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if overridden {
		r.overrides++
	}
}

func (r *countingRecorder) ReportCompleted(bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reps++
}

type stubExporter struct{}

func (stubExporter) Export(v View, format string) (Document, error) {
	if format != FormatMarkdown && format != FormatJSON {
		return Document{}, ErrUnknownFormat
	}
	return Document{Name: "report.md", ContentType: "text/markdown", Body: []byte(v.Summary)}, nil
}

type stubPublisher struct {
	name string
	body []byte
}

func (p *stubPublisher) Publish(_ context.Context, name, _ string, body []byte) (string, error) {
	p.name, p.body = name, body
	return "http://minio.local/reports/" + name, nil
}

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T, c *fakeClient, opts ...Option) *Service {
	t.Helper()
	opts = append([]Option{
		WithLogger(zap.NewNop()),
		WithClock(application.ClockFunc(func() time.Time { return fixedNow })),
		WithExporter(stubExporter{}),
	}, opts...)
	s := New(c, opts...)
	t.Cleanup(s.Close)
	return s
}

func TestSelect_RunsFirstAssessment(t *testing.T) {
	c := &fakeClient{assess: []assessReply{{raw: `{"is_prohibited": true, "reason": "social scoring"}`}}}
	s := newService(t, c)
	v := s.Create()

	v, err := s.Select(context.Background(), v.ID, Selection{UseCaseID: 2})
	require.NoError(t, err)
	assert.Equal(t, workflow.PhaseAwaitingDecision, v.Phase)
	require.NotNil(t, v.Suggestion)
	assert.True(t, v.Suggestion.IsPositive)
	assert.Equal(t, "social scoring", v.Suggestion.Reason)
	assert.Equal(t, fixedNow, v.CreatedAt)
	require.Len(t, c.prompts, 1)
	assert.Contains(t, c.prompts[0], "job candidates")
}

func TestSelect_Validation(t *testing.T) {
	s := newService(t, &fakeClient{})
	v := s.Create()

	_, err := s.Select(context.Background(), v.ID, Selection{UseCaseID: 99})
	assert.ErrorIs(t, err, usecase.ErrUnknownPreset)
	_, err = s.Select(context.Background(), v.ID, Selection{Description: "   "})
	assert.ErrorIs(t, err, usecase.ErrEmptyDescription)
	_, err = s.Select(context.Background(), "missing", Selection{UseCaseID: 1})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSelect_CustomDescription(t *testing.T) {
	s := newService(t, &fakeClient{})
	v := s.Create()

	v, err := s.Select(context.Background(), v.ID, Selection{Description: "a chatbot for fans"})
	require.NoError(t, err)
	require.NotNil(t, v.UseCase)
	assert.True(t, v.UseCase.IsCustom())
	assert.Greater(t, v.UseCase.ID, 1000)
}

func TestFullRun_HighRiskReport(t *testing.T) {
	c := &fakeClient{
		assess: []assessReply{
			{raw: `{"is_prohibited": false, "reason": "no banned practice"}`},
			{raw: `{"is_high_risk": true, "reason": "Annex III employment"}`},
		},
		generate: []string{"summary text", "mitigation text"},
	}
	rec := &countingRecorder{}
	s := newService(t, c, WithRecorder(rec))
	id := s.Create().ID

	_, err := s.Select(context.Background(), id, Selection{UseCaseID: 2})
	require.NoError(t, err)
	v, err := s.Decide(context.Background(), id, false, "")
	require.NoError(t, err)
	assert.Equal(t, workflow.PhaseAwaitingDecision, v.Phase)
	assert.Equal(t, 2, v.CurrentStep)

	v, err = s.Decide(context.Background(), id, true, "")
	require.NoError(t, err)
	assert.True(t, v.Completed)
	assert.Equal(t, assessment.TierHigh, v.FinalTier)

	s.Wait()
	v, err = s.Get(id)
	require.NoError(t, err)
	assert.False(t, v.LoadingReport)
	assert.Equal(t, "summary text", v.Summary)
	assert.Equal(t, "mitigation text", v.Mitigation)
	assert.Len(t, v.Results, 2)

	assert.Equal(t, 1, rec.sessions)
	assert.Equal(t, 2, rec.assessments)
	assert.Equal(t, 0, rec.failed)
	assert.Equal(t, 1, rec.reps)
}

func TestDecide_OverrideFlow(t *testing.T) {
	c := &fakeClient{assess: []assessReply{{raw: `{"is_prohibited": true, "reason": "manipulative"}`}}}
	rec := &countingRecorder{}
	s := newService(t, c, WithRecorder(rec))
	id := s.Create().ID
	_, err := s.Select(context.Background(), id, Selection{UseCaseID: 4})
	require.NoError(t, err)

	v, err := s.Decide(context.Background(), id, false, "")
	require.NoError(t, err)
	assert.Equal(t, workflow.PhaseAwaitingRationale, v.Phase)

	_, err = s.SubmitRationale(context.Background(), id, "   ")
	assert.ErrorIs(t, err, workflow.ErrRationaleRequired)

	v, err = s.CancelOverride(id)
	require.NoError(t, err)
	assert.Equal(t, workflow.PhaseAwaitingDecision, v.Phase)

	_, err = s.Decide(context.Background(), id, false, "")
	require.NoError(t, err)
	v, err = s.SubmitRationale(context.Background(), id, "It only suggests melodies.")
	require.NoError(t, err)
	assert.Equal(t, 2, v.CurrentStep)
	require.Len(t, v.Results, 1)
	assert.Equal(t, "It only suggests melodies.", v.Results[0].HumanRationale)
	assert.Equal(t, 1, rec.overrides)
}

func TestAssessmentFailuresBecomeNegative(t *testing.T) {
	tests := []struct {
		name   string
		reply  assessReply
		reason string
	}{
		{"not configured", assessReply{err: ai.ErrNotConfigured}, assessment.ReasonNotConfigured},
		{"empty", assessReply{err: ai.ErrEmptyResponse}, assessment.ReasonNoResponse},
		{"provider error", assessReply{err: errors.New("connection refused")}, "Error: connection refused"},
		{"unparsable", assessReply{raw: `not json`}, "Error: unparsable assessment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newService(t, &fakeClient{assess: []assessReply{tt.reply}})
			id := s.Create().ID
			v, err := s.Select(context.Background(), id, Selection{UseCaseID: 1})
			require.NoError(t, err)
			require.NotNil(t, v.Suggestion)
			assert.False(t, v.Suggestion.IsPositive)
			assert.Contains(t, v.Suggestion.Reason, tt.reason)
			assert.Equal(t, workflow.PhaseAwaitingDecision, v.Phase)
		})
	}
}

func TestBusyAndStaleAfterReset(t *testing.T) {
	c := &fakeClient{
		assess:  []assessReply{{raw: `{"is_prohibited": true, "reason": "late"}`}},
		gate:    make(chan struct{}),
		started: make(chan struct{}),
	}
	s := newService(t, c)
	id := s.Create().ID

	done := make(chan View)
	go func() {
		v, err := s.Select(context.Background(), id, Selection{UseCaseID: 1})
		assert.NoError(t, err)
		done <- v
	}()
	<-c.started

	_, err := s.Decide(context.Background(), id, true, "")
	assert.ErrorIs(t, err, ErrBusy)
	_, err = s.Select(context.Background(), id, Selection{UseCaseID: 2})
	assert.ErrorIs(t, err, ErrBusy)

	_, err = s.Reset(id)
	require.NoError(t, err)

	close(c.gate)
	v := <-done
	assert.Equal(t, workflow.PhaseNotStarted, v.Phase)
	assert.Nil(t, v.Suggestion)
	assert.Empty(t, v.Results)
}

func TestReport_MissingCredential(t *testing.T) {
	c := &fakeClient{
		assess: []assessReply{{err: ai.ErrNotConfigured}, {err: ai.ErrNotConfigured}, {err: ai.ErrNotConfigured}},
		genErr: ai.ErrNotConfigured,
	}
	s := newService(t, c)
	id := s.Create().ID
	_, err := s.Select(context.Background(), id, Selection{UseCaseID: 5})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = s.Decide(context.Background(), id, false, "")
		require.NoError(t, err)
	}
	s.Wait()

	v, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, assessment.TierMinimal, v.FinalTier)
	assert.Equal(t, assessment.ReasonNotConfigured, v.Summary)
	assert.Empty(t, v.Mitigation)
	assert.Equal(t, 1, c.generated)
}

func TestReport_GenerationErrorClearsLoading(t *testing.T) {
	c := &fakeClient{
		assess: []assessReply{{raw: `{"is_prohibited": true, "reason": "x"}`}},
		genErr: ai.ErrQuotaExceeded,
	}
	s := newService(t, c)
	id := s.Create().ID
	_, err := s.Select(context.Background(), id, Selection{UseCaseID: 1})
	require.NoError(t, err)
	_, err = s.Decide(context.Background(), id, true, "")
	require.NoError(t, err)
	s.Wait()

	v, err := s.Get(id)
	require.NoError(t, err)
	assert.False(t, v.LoadingReport)
	assert.Empty(t, v.Summary)
	assert.Equal(t, assessment.TierUnacceptable, v.FinalTier)
}

func TestReportAndPublish(t *testing.T) {
	c := &fakeClient{
		assess:   []assessReply{{raw: `{"is_prohibited": true, "reason": "x"}`}},
		generate: []string{"the summary", "avoid it"},
	}
	pub := &stubPublisher{}
	s := newService(t, c, WithPublisher(pub))
	id := s.Create().ID

	_, err := s.Report(id, FormatMarkdown)
	assert.ErrorIs(t, err, workflow.ErrInvalidPhase)

	_, err = s.Select(context.Background(), id, Selection{UseCaseID: 1})
	require.NoError(t, err)
	_, err = s.Decide(context.Background(), id, true, "")
	require.NoError(t, err)
	s.Wait()

	doc, err := s.Report(id, FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "the summary", string(doc.Body))

	_, err = s.Report(id, "pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	p, err := s.Publish(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id+"/report.md", p.Name)
	assert.Equal(t, "http://minio.local/reports/"+p.Name, p.URL)
	assert.Equal(t, "the summary", string(pub.body))
}

func TestPublish_Disabled(t *testing.T) {
	s := newService(t, &fakeClient{})
	_, err := s.Publish(context.Background(), s.Create().ID)
	assert.ErrorIs(t, err, ErrPublishingDisabled)
}

func TestOptimizeDescription(t *testing.T) {
	s := newService(t, &fakeClient{generate: []string{"  A formal paragraph.  "}})
	out, err := s.OptimizeDescription(context.Background(), " a bot ")
	require.NoError(t, err)
	assert.Equal(t, "a bot", out.Original)
	assert.Equal(t, "A formal paragraph.", out.Optimized)

	_, err = s.OptimizeDescription(context.Background(), "  ")
	assert.ErrorIs(t, err, usecase.ErrEmptyDescription)

	s = newService(t, &fakeClient{genErr: ai.ErrNotConfigured})
	out, err = s.OptimizeDescription(context.Background(), "a bot")
	require.NoError(t, err)
	assert.Equal(t, assessment.ReasonNotConfigured, out.Optimized)

	s = newService(t, &fakeClient{genErr: ai.ErrQuotaExceeded})
	_, err = s.OptimizeDescription(context.Background(), "a bot")
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
}

func TestDeleteAndProgress(t *testing.T) {
	s := newService(t, &fakeClient{})
	id := s.Create().ID
	assert.Equal(t, 1, s.Len())

	p, err := s.Progress(id)
	require.NoError(t, err)
	assert.Len(t, p, 3)

	require.NoError(t, s.Delete(id))
	assert.ErrorIs(t, s.Delete(id), ErrSessionNotFound)
	_, err = s.Get(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestWithCatalog_EarlyExitMidCatalog(t *testing.T) {
	def := assessment.DefaultCatalog().Steps()
	disclosure := def[2]
	disclosure.Name = "Disclosure Pre-Check"
	steps := []assessment.Step{def[0], disclosure, def[1], def[2]}
	for i := range steps {
		steps[i].ID = i + 1
	}
	catalog, err := assessment.NewCatalog(steps...)
	require.NoError(t, err)

	c := &fakeClient{assess: []assessReply{
		{raw: `{"is_prohibited": false, "reason": "no banned practice"}`},
		{raw: `{"is_limited_risk": false, "reason": "no disclosure duty"}`},
		{raw: `{"is_high_risk": true, "reason": "Annex III employment"}`},
	}}
	s := newService(t, c, WithCatalog(catalog))
	require.Len(t, s.Steps(), 4)
	id := s.Create().ID

	v, err := s.Select(context.Background(), id, Selection{UseCaseID: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, v.TotalSteps)

	for _, d := range []bool{false, false} {
		v, err = s.Decide(context.Background(), id, d, "")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, v.CurrentStep)
	require.NotNil(t, v.Step)
	assert.Equal(t, assessment.StepHighRisk, v.Step.Name)

	v, err = s.Decide(context.Background(), id, true, "")
	require.NoError(t, err)
	assert.True(t, v.Completed)
	assert.Equal(t, assessment.TierHigh, v.FinalTier)
	assert.Len(t, v.Results, 3)
	assert.Len(t, c.prompts, 3)

	p, err := s.Progress(id)
	require.NoError(t, err)
	require.Len(t, p, 4)
	assert.Equal(t, workflow.StatusSkipped, p[3].Status)

	s.Wait()
}

// slowWriter holds report generation until release is closed or the context
// ends.
type slowWriter struct {
	*fakeClient
	release chan struct{}
}

func (w *slowWriter) Generate(ctx context.Context, _ string) (string, error) {
	select {
	case <-w.release:
		return "drained", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func finishUnacceptable(t *testing.T, s *Service) string {
	t.Helper()
	id := s.Create().ID
	_, err := s.Select(context.Background(), id, Selection{UseCaseID: 1})
	require.NoError(t, err)
	v, err := s.Decide(context.Background(), id, true, "")
	require.NoError(t, err)
	require.True(t, v.Completed)
	return id
}

func TestShutdown_DrainsReports(t *testing.T) {
	c := &slowWriter{
		fakeClient: &fakeClient{assess: []assessReply{{raw: `{"is_prohibited": true, "reason": "social scoring"}`}}},
		release:    make(chan struct{}),
	}
	s := New(c, WithExporter(stubExporter{}))
	id := finishUnacceptable(t, s)

	done := make(chan error, 1)
	go func() { done <- s.Shutdown(context.Background()) }()

	select {
	case <-done:
		t.Fatal("Shutdown returned while a report was still generating")
	case <-time.After(20 * time.Millisecond):
	}
	close(c.release)
	require.NoError(t, <-done)

	v, err := s.Get(id)
	require.NoError(t, err)
	assert.False(t, v.LoadingReport)
	assert.Equal(t, "drained", v.Summary)
	assert.Equal(t, "drained", v.Mitigation)
}

func TestShutdown_DeadlineCancelsReports(t *testing.T) {
	c := &slowWriter{
		fakeClient: &fakeClient{assess: []assessReply{{raw: `{"is_prohibited": true, "reason": "social scoring"}`}}},
		release:    make(chan struct{}),
	}
	s := New(c, WithExporter(stubExporter{}))
	id := finishUnacceptable(t, s)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Shutdown(ctx), context.DeadlineExceeded)

	v, err := s.Get(id)
	require.NoError(t, err)
	assert.False(t, v.LoadingReport)
	assert.Empty(t, v.Summary)
}
