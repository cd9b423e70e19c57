package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formrules/pkg/rules"
)

var errLintFailed = errors.New("lint: rule set has problems")

// NewLintCommand creates the lint command.
func NewLintCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		formPath string
		asJSON   bool
		strict   bool
	)

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Report rules that reference unknown fields or kinds",
		Long: `Lint checks every rule against the form's fields. Errors (unknown
fields, conditions or actions) make the command fail; --strict also fails
on warnings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := readForm(formPath)
			if err != nil {
				return err
			}
			issues := form.Lint()

			out := cmd.OutOrStdout()
			if asJSON {
				if issues == nil {
					issues = []rules.Issue{}
				}
				if err := writeJSON(out, issues); err != nil {
					return err
				}
			} else {
				for _, issue := range issues {
					fmt.Fprintln(out, issue.String())
				}
				if len(issues) == 0 {
					fmt.Fprintf(out, "%s: %d rules, no issues\n", form.ID, len(form.Rules))
				}
			}

			if failed(issues, strict) {
				return errLintFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formPath, "form", "f", "", "form definition file (JSON or YAML)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print issues as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on warnings as well as errors")
	_ = cmd.MarkFlagRequired("form")

	return cmd
}

func failed(issues []rules.Issue, strict bool) bool {
	for _, issue := range issues {
		switch issue.Severity {
		case rules.SeverityError:
			return true
		case rules.SeverityWarning:
			if strict {
				return true
			}
		}
	}
	return false
}
