// Package usecase holds the AI systems an operator can classify.
package usecase

import (
	"errors"
	"strings"
)

// UseCase describes the AI system under assessment.
type UseCase struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

const (
	CustomTitle    = "Custom Use Case"
	CustomCategory = "User-Defined"
)

var (
	ErrEmptyDescription = errors.New("use case description is empty")
	ErrUnknownPreset    = errors.New("unknown use case")
)

var presets = []UseCase{
	{
		ID:          1,
		Title:       "AI-Powered A&R Scouting",
		Description: "An AI system that analyzes streaming data, social media trends, and demo submissions to identify and rank promising new artists for potential record deals.",
		Category:    "Talent Acquisition",
	},
	{
		ID:          2,
		Title:       "AI-Powered CV Screening",
		Description: "An AI tool that automatically filters and ranks job candidates' resumes for corporate roles based on learned patterns from historical data, used for hiring decisions.",
		Category:    "Human Resources",
	},
	{
		ID:          3,
		Title:       "Dynamic Royalty Auditing",
		Description: "An AI that continuously monitors and audits royalty payments across millions of streams and licenses to detect and flag potential discrepancies or fraud.",
		Category:    "Finance & Royalties",
	},
	{
		ID:          4,
		Title:       "Generative AI for Music Ideas",
		Description: "A tool for artists that generates novel melodies, chord progressions, or beats based on text prompts or musical inputs, intended for creative inspiration.",
		Category:    "Creative Tools",
	},
	{
		ID:          5,
		Title:       "Personalized Fan Engagement Chatbot",
		Description: "A chatbot using an artist's persona to interact with fans on their website, answer questions about tour dates, and promote merchandise. Users are notified they are talking to an AI.",
		Category:    "Fan Engagement",
	},
	{
		ID:          6,
		Title:       "Copyright Infringement Detection",
		Description: "An AI that scans user-generated content platforms (e.g., YouTube) to identify unauthorized use of a music catalog and automates the initial takedown notice process.",
		Category:    "Rights Management",
	},
}

// Presets returns the built-in use cases.
func Presets() []UseCase { return append([]UseCase(nil), presets...) }

// Lookup finds a preset by id.
func Lookup(id int) (UseCase, error) {
	for _, u := range presets {
		if u.ID == id {
			return u, nil
		}
	}
	return UseCase{}, ErrUnknownPreset
}

// Custom wraps an operator-written description. id distinguishes custom use
// cases from each other and from presets.
func Custom(id int, description string) (UseCase, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return UseCase{}, ErrEmptyDescription
	}
	return UseCase{
		ID:          id,
		Title:       CustomTitle,
		Description: description,
		Category:    CustomCategory,
	}, nil
}

// IsCustom reports whether u was written by the operator.
func (u UseCase) IsCustom() bool { return u.Category == CustomCategory }
