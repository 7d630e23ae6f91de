package middleware

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Input validation and sanitization utilities

const (
	MaxDescriptionLen = 4000
	MaxRationaleLen   = 2000
	MaxCitationLen    = 20000
)

// ValidateSessionID checks the id is a UUID.
func ValidateSessionID(id string) error {
	if id == "" {
		return fmt.Errorf("session ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid session ID format")
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}

// ValidateLength rejects text longer than max runes.
func ValidateLength(field, text string, max int) error {
	if n := utf8.RuneCountInString(text); n > max {
		return fmt.Errorf("%s too long (%d characters, max %d)", field, n, max)
	}
	return nil
}

// ValidateFormat normalizes a report format, defaulting to markdown.
func ValidateFormat(format string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "", "markdown", "md":
		return "markdown", nil
	case "json":
		return "json", nil
	default:
		return "", fmt.Errorf("invalid format: %s (allowed: markdown, json)", format)
	}
}
