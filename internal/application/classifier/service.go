// Package classifier runs classification sessions against the LLM
// collaborator. Sessions live in process memory only.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/aiact-classifier/internal/application"
	"github.com/bryanwahyu/aiact-classifier/internal/application/report"
	"github.com/bryanwahyu/aiact-classifier/internal/domain/ai"
	"github.com/bryanwahyu/aiact-classifier/internal/domain/assessment"
	"github.com/bryanwahyu/aiact-classifier/internal/domain/usecase"
	"github.com/bryanwahyu/aiact-classifier/internal/domain/workflow"
)

// customIDBase keeps custom use-case ids clear of the presets.
const customIDBase = 1000

type Option func(*Service)

func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = l } }
func WithClock(c application.Clock) Option { return func(s *Service) { s.clock = c } }
func WithExporter(e Exporter) Option { return func(s *Service) { s.exporter = e } }
func WithPublisher(p Publisher) Option { return func(s *Service) { s.publisher = p } }
func WithRecorder(r Recorder) Option { return func(s *Service) { s.metrics = r } }
func WithCatalog(c *assessment.Catalog) Option { return func(s *Service) { s.catalog = c } }

type Service struct {
	ai        ai.Client
	reports   *report.Assembler
	exporter  Exporter
	publisher Publisher
	metrics   Recorder
	clock     application.Clock
	log       *zap.Logger
	catalog   *assessment.Catalog

	mu       sync.RWMutex
	sessions map[string]*entry
	customID atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type entry struct {
	mu        sync.Mutex
	session   *workflow.Session
	inflight  bool
	flightGen uint64
	createdAt time.Time
	updatedAt time.Time
}

// busy reports whether an assessment for the current generation is running.
func (e *entry) busy() bool {
	return e.inflight && e.flightGen == e.session.Generation()
}

func New(client ai.Client, opts ...Option) *Service {
	s := &Service{
		ai:       client,
		metrics:  nopRecorder{},
		clock:    application.SystemClock{},
		log:      zap.NewNop(),
		catalog:  assessment.DefaultCatalog(),
		sessions: make(map[string]*entry),
	}
	for _, o := range opts {
		o(s)
	}
	s.reports = report.NewAssembler(client, s.log.Named("report"))
	s.customID.Store(customIDBase)
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// Steps returns the analysis catalog.
func (s *Service) Steps() []assessment.Step { return s.catalog.Steps() }

// Provider names the configured AI backend.
func (s *Service) Provider() string { return s.ai.Provider() }

// Create registers an empty session.
func (s *Service) Create() View {
	now := s.clock.Now()
	e := &entry{
		session:   workflow.New(uuid.NewString(), s.catalog),
		createdAt: now,
		updatedAt: now,
	}
	s.mu.Lock()
	s.sessions[e.session.ID()] = e
	s.mu.Unlock()

	s.metrics.SessionCreated()
	s.log.Info("session created", zap.String("session", e.session.ID()))
	return viewOf(e)
}

// Get returns a snapshot of the session.
func (s *Service) Get(id string) (View, error) {
	e, err := s.lookup(id)
	if err != nil {
		return View{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return viewOf(e), nil
}

// Delete drops the session. In-flight responses for it are discarded.
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	s.log.Info("session deleted", zap.String("session", id))
	return nil
}

// Len is the number of live sessions.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Selection picks a preset by id or supplies a custom description.
type Selection struct {
	UseCaseID   int
	Description string
}

func (s *Service) resolve(sel Selection) (usecase.UseCase, error) {
	if strings.TrimSpace(sel.Description) != "" {
		return usecase.Custom(int(s.customID.Add(1)), sel.Description)
	}
	if sel.UseCaseID == 0 {
		return usecase.UseCase{}, usecase.ErrEmptyDescription
	}
	return usecase.Lookup(sel.UseCaseID)
}

// Select starts (or restarts) the workflow for a use case and waits for the
// first assessment.
func (s *Service) Select(ctx context.Context, id string, sel Selection) (View, error) {
	u, err := s.resolve(sel)
	if err != nil {
		return View{}, err
	}
	return s.mutate(ctx, id, func(sess *workflow.Session) error {
		sess.Begin(u)
		s.log.Info("use case selected",
			zap.String("session", id),
			zap.Int("use_case", u.ID),
			zap.String("title", u.Title))
		return nil
	})
}

// Decide submits the operator's decision for the current step. When the step
// is finalized and another follows, its assessment is awaited before
// returning.
func (s *Service) Decide(ctx context.Context, id string, decision bool, rationale string) (View, error) {
	return s.mutate(ctx, id, func(sess *workflow.Session) error {
		tr, err := sess.Decide(decision, rationale)
		if err != nil {
			return err
		}
		s.finalized(id, tr)
		return nil
	})
}

// SubmitRationale completes a pending override.
func (s *Service) SubmitRationale(ctx context.Context, id, rationale string) (View, error) {
	return s.mutate(ctx, id, func(sess *workflow.Session) error {
		tr, err := sess.SubmitRationale(rationale)
		if err != nil {
			return err
		}
		s.finalized(id, tr)
		return nil
	})
}

// CancelOverride returns to the decision prompt.
func (s *Service) CancelOverride(id string) (View, error) {
	return s.mutate(context.Background(), id, (*workflow.Session).CancelOverride)
}

// Reset discards the session's run. It is allowed while an assessment is in
// flight; that response is then dropped.
func (s *Service) Reset(id string) (View, error) {
	e, err := s.lookup(id)
	if err != nil {
		return View{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Reset()
	e.updatedAt = s.clock.Now()
	s.log.Info("session reset", zap.String("session", id))
	return viewOf(e), nil
}

// Progress lists the step statuses.
func (s *Service) Progress(id string) ([]workflow.StepProgress, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Progress(), nil
}

func (s *Service) finalized(id string, tr workflow.Transition) {
	if tr.Result == nil {
		s.log.Info("override awaiting rationale", zap.String("session", id))
		return
	}
	s.metrics.StepFinalized(tr.Result.Overridden())
	s.log.Info("step finalized",
		zap.String("session", id),
		zap.String("step", tr.Result.StepName),
		zap.Bool("decision", tr.Result.IsPositive),
		zap.Bool("overridden", tr.Result.Overridden()),
		zap.Bool("early_exit", tr.EarlyExit))
}

// mutate applies fn under the session lock, then runs whatever collaborator
// work the new state requires: an assessment is awaited, a report is started
// in the background.
func (s *Service) mutate(ctx context.Context, id string, fn func(*workflow.Session) error) (View, error) {
	e, err := s.lookup(id)
	if err != nil {
		return View{}, err
	}

	e.mu.Lock()
	if e.busy() {
		e.mu.Unlock()
		return View{}, ErrBusy
	}
	if err := fn(e.session); err != nil {
		e.mu.Unlock()
		return View{}, err
	}
	e.updatedAt = s.clock.Now()

	req, err := e.session.Prompt()
	pending := err == nil
	if pending {
		e.inflight = true
		e.flightGen = req.Generation
	}
	s.startReport(e)
	e.mu.Unlock()

	if pending {
		s.assess(ctx, e, req)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return viewOf(e), nil
}

// assess obtains the outcome for req outside the session lock. The call is
// not cut short when the caller goes away.
func (s *Service) assess(ctx context.Context, e *entry, req workflow.Request) {
	start := s.clock.Now()
	raw, err := s.ai.Assess(context.WithoutCancel(ctx), req.Prompt)
	outcome, failed := s.outcome(req.Step, raw, err)
	s.metrics.AssessmentCompleted(failed)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inflight && e.flightGen == req.Generation {
		e.inflight = false
	}
	if err := e.session.ApplyAssessment(req.Generation, outcome); err != nil {
		s.log.Debug("assessment dropped",
			zap.String("session", e.session.ID()),
			zap.Uint64("generation", req.Generation),
			zap.Error(err))
		return
	}
	e.updatedAt = s.clock.Now()
	s.log.Info("step assessed",
		zap.String("session", e.session.ID()),
		zap.String("step", req.Step.Name),
		zap.Bool("suggestion", outcome.IsPositive),
		zap.Bool("failed", failed),
		zap.Duration("elapsed", s.clock.Now().Sub(start)))
}

// outcome maps a collaborator answer to a step outcome. Failures become a
// negative outcome carrying the reason so the workflow can continue.
func (s *Service) outcome(step assessment.Step, raw []byte, err error) (assessment.Outcome, bool) {
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		return assessment.Unavailable(assessment.ReasonNotConfigured), true
	case errors.Is(err, ai.ErrEmptyResponse):
		return assessment.Unavailable(assessment.ReasonNoResponse), true
	case err != nil:
		s.log.Warn("assessment failed", zap.String("step", step.Name), zap.Error(err))
		return assessment.Unavailable("Error: " + err.Error()), true
	}
	o, perr := assessment.ParseOutcome(step, raw)
	if perr != nil {
		s.log.Warn("assessment unparsable", zap.String("step", step.Name), zap.Error(perr))
		return assessment.Unavailable("Error: " + perr.Error()), true
	}
	return o, false
}

// startReport launches report generation once the session has finished.
// Called with e.mu held.
func (s *Service) startReport(e *entry) {
	gen, err := e.session.BeginReport()
	if err != nil {
		return
	}
	u, _ := e.session.UseCase()
	in := report.Input{UseCase: u, Results: e.session.Results(), Tier: e.session.Tier()}

	s.log.Info("classification finished",
		zap.String("session", e.session.ID()),
		zap.Stringer("tier", in.Tier),
		zap.Int("steps", len(in.Results)))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := s.reports.Assemble(s.ctx, in, &sessionSink{svc: s, e: e, gen: gen})

		e.mu.Lock()
		defer e.mu.Unlock()
		if endErr := e.session.EndReport(gen); endErr != nil {
			return
		}
		e.updatedAt = s.clock.Now()
		s.metrics.ReportCompleted(err != nil)
	}()
}

// sessionSink applies report texts to one generation of a session.
type sessionSink struct {
	svc *Service
	e   *entry
	gen uint64
}

func (k *sessionSink) SetSummary(text string) error {
	return k.apply(func(sess *workflow.Session) error { return sess.ApplySummary(k.gen, text) })
}

func (k *sessionSink) SetMitigation(text string) error {
	return k.apply(func(sess *workflow.Session) error { return sess.ApplyMitigation(k.gen, text) })
}

func (k *sessionSink) apply(fn func(*workflow.Session) error) error {
	k.e.mu.Lock()
	defer k.e.mu.Unlock()
	if err := fn(k.e.session); err != nil {
		return err
	}
	k.e.updatedAt = k.svc.clock.Now()
	return nil
}

// Wait blocks until background report generation has drained.
func (s *Service) Wait() { s.wg.Wait() }

// Close cancels background report generation and waits for it.
func (s *Service) Close() {
	s.cancel()
	s.wg.Wait()
}

// Shutdown lets running report generation finish. If ctx ends first the rest
// is cancelled, and Shutdown still waits for it before returning ctx.Err().
func (s *Service) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	defer s.cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.cancel()
		<-done
		return ctx.Err()
	}
}

// Optimized carries both texts so callers can revert.
type Optimized struct {
	Original  string `json:"original"`
	Optimized string `json:"optimized"`
}

// OptimizeDescription asks the collaborator to restate a use-case
// description.
func (s *Service) OptimizeDescription(ctx context.Context, description string) (Optimized, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Optimized{}, usecase.ErrEmptyDescription
	}
	out := Optimized{Original: description}
	text, err := s.ai.Generate(ctx, usecase.OptimizePrompt(description))
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		out.Optimized = assessment.ReasonNotConfigured
		return out, nil
	case err != nil:
		return Optimized{}, fmt.Errorf("optimize description: %w", err)
	}
	out.Optimized = strings.TrimSpace(text)
	return out, nil
}

// Report exports a finished session whose report texts are settled.
func (s *Service) Report(id, format string) (Document, error) {
	if s.exporter == nil {
		return Document{}, ErrExportDisabled
	}
	e, err := s.lookup(id)
	if err != nil {
		return Document{}, err
	}
	e.mu.Lock()
	if !e.session.Finished() {
		e.mu.Unlock()
		return Document{}, workflow.ErrInvalidPhase
	}
	if e.session.LoadingReport() {
		e.mu.Unlock()
		return Document{}, ErrBusy
	}
	v := viewOf(e)
	e.mu.Unlock()

	return s.exporter.Export(v, format)
}

// Published is where a report was uploaded.
type Published struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Publish exports the Markdown report and uploads it.
func (s *Service) Publish(ctx context.Context, id string) (Published, error) {
	if s.publisher == nil {
		return Published{}, ErrPublishingDisabled
	}
	doc, err := s.Report(id, FormatMarkdown)
	if err != nil {
		return Published{}, err
	}
	name := id + "/" + doc.Name
	url, err := s.publisher.Publish(ctx, name, doc.ContentType, doc.Body)
	if err != nil {
		return Published{}, fmt.Errorf("publish report: %w", err)
	}
	s.log.Info("report published", zap.String("session", id), zap.String("url", url))
	return Published{Name: name, URL: url}, nil
}

func (s *Service) lookup(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

func viewOf(e *entry) View {
	return View{View: e.session.Snapshot(), CreatedAt: e.createdAt, UpdatedAt: e.updatedAt}
}
