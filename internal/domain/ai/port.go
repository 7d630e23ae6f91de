package ai

import (
	"context"
	"encoding/json"
)

// Assessor answers one analysis step with a JSON object carrying the step's
// boolean answer key and a "reason" string.
type Assessor interface {
	Assess(ctx context.Context, prompt string) (json.RawMessage, error)
}

// Generator produces free text for report sections and description rewrites.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client is the LLM collaborator used by the classifier.
type Client interface {
	Assessor
	Generator
	// Provider names the backend for logs and readiness checks.
	Provider() string
}
