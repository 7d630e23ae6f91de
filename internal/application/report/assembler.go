// Package report produces the summary and mitigation sections of a finished
// classification.
package report

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/aiact-classifier/internal/domain/ai"
	"github.com/bryanwahyu/aiact-classifier/internal/domain/assessment"
	"github.com/bryanwahyu/aiact-classifier/internal/domain/usecase"
)

// Input is what the report is built from.
type Input struct {
	UseCase usecase.UseCase
	Results []assessment.StepResult
	Tier    assessment.Tier
}

// Sink receives section texts as they arrive. An error stops assembly; the
// classifier returns one when the session moved on to a newer generation.
type Sink interface {
	SetSummary(text string) error
	SetMitigation(text string) error
}

type Assembler struct {
	gen ai.Generator
	log *zap.Logger
}

func NewAssembler(gen ai.Generator, log *zap.Logger) *Assembler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assembler{gen: gen, log: log}
}

// Assemble requests the summary, then the mitigation when the tier calls for
// one. Requests never overlap. A failed request is logged and ends assembly,
// leaving the section texts at their last stored values.
func (a *Assembler) Assemble(ctx context.Context, in Input, sink Sink) error {
	summary, err := a.generate(ctx, "final summary", SummaryPrompt(in.UseCase, in.Results))
	if err != nil {
		return err
	}
	if err := sink.SetSummary(summary); err != nil {
		return err
	}

	if !in.Tier.NeedsMitigation() {
		a.log.Debug("no mitigation needed", zap.Stringer("tier", in.Tier))
		return sink.SetMitigation("")
	}
	mitigation, err := a.generate(ctx, "mitigation suggestions", MitigationPrompt(in.Tier, in.UseCase, in.Results))
	if err != nil {
		return err
	}
	return sink.SetMitigation(mitigation)
}

func (a *Assembler) generate(ctx context.Context, purpose, prompt string) (string, error) {
	start := time.Now()
	text, err := a.gen.Generate(ctx, prompt)
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		a.log.Warn("ai not configured", zap.String("purpose", purpose))
		return assessment.ReasonNotConfigured, nil
	case err != nil:
		a.log.Error("report generation failed",
			zap.String("purpose", purpose),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", err
	}
	a.log.Debug("report section generated",
		zap.String("purpose", purpose),
		zap.Int("prompt_len", len(prompt)),
		zap.Int("text_len", len(text)),
		zap.Duration("elapsed", time.Since(start)))
	return text, nil
}
