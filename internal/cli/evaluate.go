package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// NewEvaluateCommand creates the evaluate command.
func NewEvaluateCommand(rootOpts *RootOptions) *cobra.Command {
	var formPath, dataPath string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate a form definition against a snapshot of values",
		Long: `Evaluate prints the engine result for the given values as JSON:
visible fields in display order, per-field validity and whether the form
can be submitted. Values are read from a JSON or YAML object; "-" reads stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := readForm(formPath)
			if err != nil {
				return err
			}
			data, err := readData(dataPath, cmd.InOrStdin())
			if err != nil {
				return err
			}

			result := form.Evaluate(data)
			rootOpts.Logger().Debug("evaluated form",
				slog.String("form", form.ID),
				slog.Bool("can_submit", result.CanSubmit),
				slog.Int("visible", len(result.VisibleFields)),
			)
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&formPath, "form", "f", "", "form definition file (JSON or YAML)")
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "values file (JSON or YAML object, - for stdin)")
	_ = cmd.MarkFlagRequired("form")

	return cmd
}
