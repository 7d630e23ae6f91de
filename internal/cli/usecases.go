package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/aiact-classifier/internal/domain/usecase"
)

// NewUseCasesCommand creates the use-cases command.
func NewUseCasesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "use-cases",
		Short:        "List the preset use cases",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeUseCases(cmd.OutOrStdout(), rootOpts.Format, usecase.Presets())
		},
	}
}

func writeUseCases(w io.Writer, format string, list []usecase.UseCase) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}
	for _, u := range list {
		fmt.Fprintf(w, "%d. %s [%s]\n   %s\n", u.ID, u.Title, u.Category, u.Description)
	}
	return nil
}
