// Package export renders finished classification sessions as documents.
package export

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bryanwahyu/aiact-classifier/internal/application/classifier"
	"github.com/bryanwahyu/aiact-classifier/internal/domain/citation"
)

const (
	ContentTypeMarkdown = "text/markdown; charset=utf-8"
	ContentTypeJSON     = "application/json"
)

var (
	tags       = regexp.MustCompile(`<[^>]*>`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Clean strips markup and collapses whitespace to single spaces.
func Clean(s string) string {
	s = tags.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// FileName is the report file name for a use-case title.
func FileName(title, ext string) string {
	return "EU-AI-Act-Report_" + whitespace.ReplaceAllStringFunc(title, func(m string) string {
		return strings.Repeat("_", len([]rune(m)))
	}) + ext
}

type Exporter struct {
	now       func() time.Time
	citations *citation.Resolver
}

func New() *Exporter {
	return &Exporter{now: time.Now, citations: citation.Default()}
}

// Export implements classifier.Exporter.
func (e *Exporter) Export(v classifier.View, format string) (classifier.Document, error) {
	title := "Untitled"
	if v.UseCase != nil {
		title = v.UseCase.Title
	}
	switch format {
	case classifier.FormatMarkdown:
		return classifier.Document{
			Name:        FileName(title, ".md"),
			ContentType: ContentTypeMarkdown,
			Body:        []byte(e.Markdown(v)),
		}, nil
	case classifier.FormatJSON:
		body, err := json.MarshalIndent(struct {
			classifier.View
			GeneratedAt time.Time `json:"generated_at"`
		}{v, e.now().UTC()}, "", "  ")
		if err != nil {
			return classifier.Document{}, fmt.Errorf("encode report: %w", err)
		}
		return classifier.Document{Name: FileName(title, ".json"), ContentType: ContentTypeJSON, Body: body}, nil
	default:
		return classifier.Document{}, fmt.Errorf("%w: %q", classifier.ErrUnknownFormat, format)
	}
}

// Markdown lays out the report. Every free-text field is cleaned first.
func (e *Exporter) Markdown(v classifier.View) string {
	var b strings.Builder
	b.WriteString("# EU AI Act Compliance Report\n\n")

	if u := v.UseCase; u != nil {
		fmt.Fprintf(&b, "**Use Case:** %s\n\n", Clean(u.Title))
		if u.Category != "" {
			fmt.Fprintf(&b, "**Category:** %s\n\n", Clean(u.Category))
		}
		fmt.Fprintf(&b, "**Description:** %s\n\n", Clean(u.Description))
	}
	fmt.Fprintf(&b, "**Final Risk Classification:** %s\n\n", v.FinalTier)

	if s := Clean(v.Summary); s != "" {
		fmt.Fprintf(&b, "## Executive Summary\n\n%s\n\n", s)
	}

	b.WriteString("## Detailed Step-by-Step Analysis\n\n")
	for _, r := range v.Results {
		fmt.Fprintf(&b, "### %s\n\n", Clean(r.StepName))
		fmt.Fprintf(&b, "- **AI Suggestion Rationale:** %s\n", Clean(r.AIAnalysis))
		fmt.Fprintf(&b, "- **Human Decision:** %s\n", Clean(r.HumanDecision))
		if rat := Clean(r.HumanRationale); rat != "" {
			fmt.Fprintf(&b, "- **Human Rationale for Disagreement:** %s\n", rat)
		}
		b.WriteString("\n")
	}

	if m := Clean(v.Mitigation); m != "" {
		fmt.Fprintf(&b, "## Mitigation Suggestions\n\n%s\n\n", m)
	}

	if refs := e.references(v); len(refs) > 0 {
		b.WriteString("## Legal References\n\n")
		for _, r := range refs {
			fmt.Fprintf(&b, "- %s\n", r.Title)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "---\n\n_Report generated on: %s_\n", e.now().UTC().Format("2006-01-02"))
	return b.String()
}

// references resolves the citations found in the report texts, first
// occurrence first, unknown citations dropped.
func (e *Exporter) references(v classifier.View) []citation.Entry {
	texts := []string{v.Summary, v.Mitigation}
	for _, r := range v.Results {
		texts = append(texts, r.AIAnalysis, r.HumanRationale)
	}

	seen := map[string]bool{}
	var out []citation.Entry
	for _, t := range texts {
		for _, c := range citation.Find(t) {
			entry := e.citations.Resolve(c)
			if entry.Key == "" || seen[entry.Key] {
				continue
			}
			seen[entry.Key] = true
			out = append(out, entry)
		}
	}
	return out
}
