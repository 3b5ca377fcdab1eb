package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agbru/fanbatch/internal/config"
	apperrors "github.com/agbru/fanbatch/internal/errors"
)

// NewRootCommand builds the fanbatch command. The process exit code of a
// completed run is stored in exitCode.
func NewRootCommand(exitCode *int) *cobra.Command {
	cfg := config.Default()
	cmd := &cobra.Command{
		Use:   "fanbatch",
		Short: "Run a fixed batch of concurrent workers and summarize their outcomes",
		Long: `fanbatch launches every worker of a batch at once, waits for all of them to
finish, then collects exactly one outcome per worker and prints a verdict:
SUCCESS when every worker succeeded, PARTIAL when all reported but some
failed, ERROR when outcomes are missing or a send was rejected.

Without --batch the built-in three-worker reference batch is run.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return apperrors.NewConfigError("unexpected arguments: %s", strings.Join(args, " "))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Finalize(&cfg, cmd.Flags()); err != nil {
				return err
			}
			a := &Application{Config: cfg, Out: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr()}
			*exitCode = a.Run(cmd.Context())
			return nil
		},
	}
	cmd.SetVersionTemplate(VersionString() + "\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperrors.NewConfigError("%v", err)
	})
	config.RegisterFlags(cmd.Flags(), &cfg)
	cmd.Flags().SortFlags = false
	return cmd
}

// Execute runs the command line args and returns the process exit code.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) int {
	exitCode := apperrors.ExitSuccess
	cmd := NewRootCommand(&exitCode)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		var cfgErr apperrors.ConfigError
		if errors.As(err, &cfgErr) {
			fmt.Fprintf(errOut, "Run '%s --help' for usage.\n", cmd.Name())
		}
		return apperrors.ExitCodeFor(err)
	}
	return exitCode
}
