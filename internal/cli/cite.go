package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/aiact-classifier/internal/domain/citation"
)

// CitationResult pairs a citation token with its resolved entry.
type CitationResult struct {
	Citation string         `json:"citation"`
	Entry    citation.Entry `json:"entry"`
}

// NewCiteCommand creates the cite command.
func NewCiteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cite <text>",
		Short: "Explain EU AI Act citations",
		Long: `Resolve every citation found in the text, such as "Article 5(1)" or
"Annex III, point 4(a)". Text without a citation token is resolved as a whole.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCitations(cmd.OutOrStdout(), rootOpts.Format, lookupCitations(strings.Join(args, " ")))
		},
	}
}

func lookupCitations(text string) []CitationResult {
	tokens := citation.Find(text)
	if len(tokens) == 0 {
		tokens = []string{strings.TrimSpace(text)}
	}
	out := make([]CitationResult, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, CitationResult{Citation: t, Entry: citation.Resolve(t)})
	}
	return out
}

func writeCitations(w io.Writer, format string, results []CitationResult) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s -> %s\n%s\n", r.Citation, r.Entry.Title, r.Entry.Text)
	}
	return nil
}
