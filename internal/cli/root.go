package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formrules/internal/logging"
)

// Version is overridden at build time with -ldflags "-X".
var Version = "dev"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	LogLevel string
	EnvFile  string

	logger *slog.Logger
}

// Logger returns the logger configured from --log-level.
func (o *RootOptions) Logger() *slog.Logger {
	if o.logger == nil {
		return logging.NewNop()
	}
	return o.logger
}

// NewRootCommand creates the root command for the formrules CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "formrules",
		Short: "Evaluate, lint and serve rule-driven forms",
		Long: `formrules evaluates conditional form rules: which fields are visible,
which are valid and whether the form may be submitted.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(opts.LogLevel)
			if err != nil {
				return err
			}
			opts.logger = logging.NewWithWriter(cmd.ErrOrStderr(), level)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "read configuration from this env file instead of ./.env")

	cmd.AddCommand(NewEvaluateCommand(opts))
	cmd.AddCommand(NewLintCommand(opts))
	cmd.AddCommand(NewFillCommand(opts))
	cmd.AddCommand(NewImportOpenAPICommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// NewVersionCommand prints the build version.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of formrules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "formrules version %s\n", Version)
			return err
		},
	}
}
