package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrNotConfigured is returned without any network I/O when no API key is set.
var ErrNotConfigured = errors.New("ai api key not configured")

// ErrEmptyResponse means the provider answered with no content.
var ErrEmptyResponse = errors.New("ai returned no content")
