package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bryanwahyu/aiact-classifier/internal/domain/ai"
	"github.com/bryanwahyu/aiact-classifier/internal/domain/assessment"
	"github.com/bryanwahyu/aiact-classifier/internal/domain/usecase"
)

type reply struct {
	text string
	err  error
}

// scriptedGenerator returns its replies in order and records every prompt.
type scriptedGenerator struct {
	replies []reply
	prompts []string
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if len(g.replies) == 0 {
		return "", errors.New("unexpected call")
	}
	r := g.replies[0]
	g.replies = g.replies[1:]
	return r.text, r.err
}

type recordingSink struct {
	summary, mitigation *string
	calls               []string
	err                 error
}

func (s *recordingSink) SetSummary(text string) error {
	s.calls = append(s.calls, "summary")
	s.summary = &text
	return s.err
}

func (s *recordingSink) SetMitigation(text string) error {
	s.calls = append(s.calls, "mitigation")
	s.mitigation = &text
	return s.err
}

var cv = usecase.UseCase{ID: 2, Title: "CV", Description: "ranks job candidates"}

func highRiskInput() Input {
	return Input{
		UseCase: cv,
		Tier:    assessment.TierHigh,
		Results: []assessment.StepResult{
			{StepName: assessment.StepUnacceptable, AIAnalysis: "no manipulation", AISuggestion: true, IsPositive: false, HumanDecision: "Not Unacceptable, Continue", HumanRationale: "It only ranks, it does not manipulate."},
			{StepName: assessment.StepHighRisk, AIAnalysis: "Annex III employment", AISuggestion: true, IsPositive: true, HumanDecision: "Confirm as High-Risk"},
		},
	}
}

func TestAssemble_SummaryThenMitigation(t *testing.T) {
	gen := &scriptedGenerator{replies: []reply{{text: "the summary"}, {text: "the mitigation"}}}
	sink := &recordingSink{}

	err := NewAssembler(gen, zap.NewNop()).Assemble(context.Background(), highRiskInput(), sink)
	require.NoError(t, err)

	assert.Equal(t, []string{"summary", "mitigation"}, sink.calls)
	assert.Equal(t, "the summary", *sink.summary)
	assert.Equal(t, "the mitigation", *sink.mitigation)

	require.Len(t, gen.prompts, 2)
	assert.Contains(t, gen.prompts[0], "ranks job candidates")
	assert.Contains(t, gen.prompts[0], "Your Rationale for Disagreement: It only ranks, it does not manipulate.")
	assert.Contains(t, gen.prompts[1], `"High-Risk"`)
	assert.Contains(t, gen.prompts[1], "Annex III employment")
	assert.NotContains(t, gen.prompts[1], "no manipulation")
}

func TestAssemble_MinimalSkipsMitigation(t *testing.T) {
	gen := &scriptedGenerator{replies: []reply{{text: "all clear"}}}
	sink := &recordingSink{}
	in := Input{UseCase: cv, Tier: assessment.TierMinimal, Results: []assessment.StepResult{{StepName: assessment.StepUnacceptable}}}

	require.NoError(t, NewAssembler(gen, nil).Assemble(context.Background(), in, sink))
	assert.Len(t, gen.prompts, 1)
	require.NotNil(t, sink.mitigation)
	assert.Empty(t, *sink.mitigation)
}

func TestAssemble_NotConfigured(t *testing.T) {
	gen := &scriptedGenerator{replies: []reply{{err: ai.ErrNotConfigured}, {err: ai.ErrNotConfigured}}}
	sink := &recordingSink{}

	require.NoError(t, NewAssembler(gen, nil).Assemble(context.Background(), highRiskInput(), sink))
	assert.Equal(t, assessment.ReasonNotConfigured, *sink.summary)
	assert.Equal(t, assessment.ReasonNotConfigured, *sink.mitigation)
}

func TestAssemble_ErrorIsLoggedAndStops(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	boom := errors.New("boom")
	gen := &scriptedGenerator{replies: []reply{{err: boom}}}
	sink := &recordingSink{}

	err := NewAssembler(gen, zap.New(core)).Assemble(context.Background(), highRiskInput(), sink)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, sink.calls)
	assert.Len(t, gen.prompts, 1)

	entries := logs.FilterMessage("report generation failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "final summary", entries[0].ContextMap()["purpose"])
}

func TestAssemble_MitigationErrorKeepsSummary(t *testing.T) {
	gen := &scriptedGenerator{replies: []reply{{text: "the summary"}, {err: ai.ErrQuotaExceeded}}}
	sink := &recordingSink{}

	err := NewAssembler(gen, nil).Assemble(context.Background(), highRiskInput(), sink)
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
	assert.Equal(t, "the summary", *sink.summary)
	assert.Nil(t, sink.mitigation)
}

func TestAssemble_SinkErrorStops(t *testing.T) {
	stale := errors.New("stale")
	gen := &scriptedGenerator{replies: []reply{{text: "s"}, {text: "m"}}}
	sink := &recordingSink{err: stale}

	err := NewAssembler(gen, nil).Assemble(context.Background(), highRiskInput(), sink)
	assert.ErrorIs(t, err, stale)
	assert.Len(t, gen.prompts, 1)
}

func TestSummaryPrompt_NoRationaleLine(t *testing.T) {
	p := SummaryPrompt(cv, []assessment.StepResult{{StepName: "X", HumanDecision: "ok", AIAnalysis: "fine"}})
	assert.Contains(t, p, `- X: Your decision was "ok".`)
	assert.NotContains(t, p, "Disagreement:")
}
