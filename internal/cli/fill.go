package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formrules/pkg/fill"
	"github.com/goliatone/go-formrules/pkg/submission"
)

// NewFillCommand creates the interactive fill command.
func NewFillCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		formPath      string
		dataPath      string
		outputPath    string
		skipPrefilled bool
		maxAttempts   int
	)

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill a form interactively in the terminal",
		Long: `Fill prompts for every visible field, re-evaluating the rules after
each answer. When the form can be submitted the accepted values are written
as JSON; otherwise the reasons are printed and the command fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := readForm(formPath)
			if err != nil {
				return err
			}
			prefill, err := readData(dataPath, cmd.InOrStdin())
			if err != nil {
				return err
			}

			session := fill.NewSession(
				fill.WithPromptDriver(promptDriver(cmd)),
				fill.WithLogger(rootOpts.Logger()),
				fill.WithMaxAttempts(maxAttempts),
				fill.WithSkipPrefilled(skipPrefilled),
			)
			data, _, err := session.Run(cmd.Context(), form, prefill)
			if err != nil {
				return err
			}

			gate := submission.NewGate(submission.WithLogger(rootOpts.Logger()))
			receipt, err := gate.Accept(cmd.Context(), form, data)
			if rejection, ok := submission.IsRejected(err); ok {
				if err := writeJSON(cmd.ErrOrStderr(), rejection); err != nil {
					return err
				}
				return fmt.Errorf("form %q cannot be submitted", form.ID)
			}
			if err != nil {
				return err
			}

			payload, err := jsonBytes(receipt)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), outputPath, payload)
		},
	}

	cmd.Flags().StringVarP(&formPath, "form", "f", "", "form definition file (JSON or YAML)")
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "prefill values file (JSON or YAML object)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the receipt to this file instead of stdout")
	cmd.Flags().BoolVar(&skipPrefilled, "skip-prefilled", false, "do not prompt for fields whose prefilled value is valid")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 3, "re-prompt limit for invalid answers (0 for no limit)")
	_ = cmd.MarkFlagRequired("form")

	return cmd
}

// promptDriverKey lets tests swap the terminal driver through the command
// context.
type promptDriverKey struct{}

func promptDriver(cmd *cobra.Command) fill.PromptDriver {
	if driver, ok := cmd.Context().Value(promptDriverKey{}).(fill.PromptDriver); ok {
		return driver
	}
	return fill.NewSurveyDriver(cmd.ErrOrStderr())
}
