package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/aiact-classifier/internal/application/classifier"
	"github.com/bryanwahyu/aiact-classifier/internal/config"
	"github.com/bryanwahyu/aiact-classifier/internal/domain/workflow"
	"github.com/bryanwahyu/aiact-classifier/internal/infra/export"
)

var errInputClosed = errors.New("input closed before the workflow finished")

// RunOptions holds flags for the run command.
type RunOptions struct {
	UseCaseID   int
	Description string
	AcceptAll   bool
	Out         string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Classify a use case interactively",
		Long: `Run the classification workflow for a preset (--use-case) or a custom
description (--description). Each step shows the AI assessment and asks for
your decision; disagreeing with the AI requires a rationale. The report is
printed when the workflow finishes.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.UseCaseID == 0 && strings.TrimSpace(opts.Description) == "" {
				return errors.New("one of --use-case or --description is required")
			}
			return runWorkflow(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().IntVar(&opts.UseCaseID, "use-case", 0, "preset use case id (see use-cases)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "custom use case description")
	cmd.Flags().BoolVarP(&opts.AcceptAll, "yes", "y", false, "accept every AI suggestion without prompting")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "write the report to a file instead of stdout")
	cmd.MarkFlagsMutuallyExclusive("use-case", "description")

	return cmd
}

func runWorkflow(cmd *cobra.Command, rootOpts *RootOptions, opts *RunOptions) error {
	ctx := cmd.Context()
	cfg, err := config.Load(rootOpts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := rootOpts.logger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	client, err := rootOpts.newClient(ctx, cfg.AI, log)
	if err != nil {
		return err
	}

	svc := classifier.New(client, classifier.WithLogger(log), classifier.WithExporter(export.New()))
	defer svc.Close()

	out := cmd.OutOrStdout()
	p := &prompter{in: bufio.NewScanner(cmd.InOrStdin()), out: out}

	v := svc.Create()
	fmt.Fprintln(out, "Assessing...")
	v, err = svc.Select(ctx, v.ID, classifier.Selection{UseCaseID: opts.UseCaseID, Description: opts.Description})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Use case: %s\n", v.UseCase.Title)

	for !v.Completed {
		if v.Phase != workflow.PhaseAwaitingDecision || v.Step == nil || v.Suggestion == nil {
			return fmt.Errorf("unexpected phase %s", v.Phase)
		}
		fmt.Fprintf(out, "\nStep %d/%d: %s\n%s\n", v.CurrentStep, v.TotalSteps, v.Step.Name, v.Step.Question)
		fmt.Fprintf(out, "AI: %s\n  %s\n", v.Suggestion.Label, v.Suggestion.Reason)

		decision, rationale := v.Suggestion.IsPositive, ""
		if !opts.AcceptAll {
			if decision, err = p.yesNo("Your answer [y/n]: "); err != nil {
				return err
			}
			if decision != v.Suggestion.IsPositive {
				if rationale, err = p.line("You disagree with the AI. Rationale: "); err != nil {
					return err
				}
			}
		}
		if v, err = svc.Decide(ctx, v.ID, decision, rationale); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "\nFinal classification: %s\nGenerating report...\n", v.FinalTier)
	svc.Wait()

	format := classifier.FormatMarkdown
	if rootOpts.Format == "json" {
		format = classifier.FormatJSON
	}
	doc, err := svc.Report(v.ID, format)
	if err != nil {
		return err
	}
	if opts.Out != "" {
		if err := os.WriteFile(opts.Out, doc.Body, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(out, "Report written to %s\n", opts.Out)
		return nil
	}
	fmt.Fprintln(out)
	_, err = out.Write(doc.Body)
	return err
}

// prompter reads answers line by line.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func (p *prompter) read(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *prompter) yesNo(prompt string) (bool, error) {
	for {
		s, err := p.read(prompt)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(s) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please answer y or n.")
	}
}

// line re-asks until the answer is not blank.
func (p *prompter) line(prompt string) (string, error) {
	for {
		s, err := p.read(prompt)
		if err != nil {
			return "", err
		}
		if s != "" {
			return s, nil
		}
	}
}
