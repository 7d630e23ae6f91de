package assessment

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Fixed reasons used when the collaborator cannot answer.
const (
	ReasonNoResponse    = "No response from AI."
	ReasonNotConfigured = "API Key not configured."
	ReasonUnknownError  = "An unknown error occurred while contacting the AI."
)

var ErrUnparsable = errors.New("unparsable assessment")

// Outcome is the collaborator's answer to one step.
type Outcome struct {
	IsPositive bool   `json:"is_positive"`
	Reason     string `json:"reason"`
}

// Unavailable is the neutral negative outcome substituted when the
// collaborator fails.
func Unavailable(reason string) Outcome {
	if strings.TrimSpace(reason) == "" {
		reason = ReasonUnknownError
	}
	return Outcome{IsPositive: false, Reason: reason}
}

// ParseOutcome decodes a JSON object answer for step. A missing answer key
// reads as false.
func ParseOutcome(step Step, raw []byte) (Outcome, error) {
	body := stripFence(string(raw))
	if body == "" {
		return Outcome{}, fmt.Errorf("%w: empty response", ErrUnparsable)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}

	var out Outcome
	if v, ok := fields[step.AnswerKey]; ok {
		if err := json.Unmarshal(v, &out.IsPositive); err != nil {
			return Outcome{}, fmt.Errorf("%w: %s is not a boolean", ErrUnparsable, step.AnswerKey)
		}
	}
	if v, ok := fields["reason"]; ok {
		if err := json.Unmarshal(v, &out.Reason); err != nil {
			return Outcome{}, fmt.Errorf("%w: reason is not a string", ErrUnparsable)
		}
	}
	return out, nil
}

// stripFence removes a markdown code fence some models wrap JSON in.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
