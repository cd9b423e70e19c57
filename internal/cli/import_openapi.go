package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formrules/pkg/definition"
	"github.com/goliatone/go-formrules/pkg/openapi"
)

// NewImportOpenAPICommand creates the import-openapi command.
func NewImportOpenAPICommand(rootOpts *RootOptions) *cobra.Command {
	var (
		source      string
		operationID string
		outputPath  string
		opts        openapi.ImportOptions
	)

	cmd := &cobra.Command{
		Use:   "import-openapi",
		Short: "Derive a form definition from an OpenAPI operation",
		Long: `import-openapi turns the request body schema of one operation into a
form definition. Rules are read from the operation's x-formrules extension.
The source may be a file path or an http(s) URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				form definition.Form
				err  error
			)
			location := strings.TrimSpace(source)
			if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
				form, err = openapi.ImportURL(cmd.Context(), location, operationID, opts)
			} else {
				form, err = openapi.ImportFile(cmd.Context(), location, operationID, opts)
			}
			if err != nil {
				return err
			}

			for _, issue := range form.Lint() {
				rootOpts.Logger().Warn("imported rule issue", slog.String("form", form.ID), slog.String("issue", issue.String()))
			}

			payload, err := definition.Marshal(form)
			if err != nil {
				return fmt.Errorf("encode definition: %w", err)
			}
			return writeOutput(cmd.OutOrStdout(), outputPath, payload)
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "OpenAPI document path or URL")
	cmd.Flags().StringVar(&operationID, "operation", "", "operation id whose request body becomes the form")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the YAML definition to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.Validate, "validate", false, "validate the OpenAPI document before importing")
	cmd.Flags().BoolVar(&opts.AllowExternalRefs, "external-refs", false, "follow $refs to other files")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("operation")

	return cmd
}
