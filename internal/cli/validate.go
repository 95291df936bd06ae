package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/pointflow/internal/compiler"
	"github.com/roach88/pointflow/internal/errs"
	"github.com/roach88/pointflow/internal/proc"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool         `json:"valid"`
	Program string       `json:"program"`
	Proc    string       `json:"proc"`
	Options proc.Options `json:"options"`
}

func (r ValidationResult) String() string {
	return fmt.Sprintf("✓ %s: valid %s program", r.Program, r.Proc)
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <program.cue>",
		Short: "Check that a program compiles and its proc can be built",
		Long: `Compile a CUE program and construct the proc it names without
processing any points. Syntax errors, unknown procs and invalid options are
reported with their code and location.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	runID := opts.runID()
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
		RunID:     runID,
	}

	if _, err := os.Stat(path); err != nil {
		return WrapExitError(ExitCommandError, "program not found", err)
	}

	cat := errs.DefaultCatalog()
	spec, err := compiler.New(cat).CompileFile(path)
	if err != nil {
		return formatter.Fail(ExitFailure, "invalid program", err)
	}
	formatter.VerboseLog("Compiled %s: proc %q with %d option(s)", path, spec.Name, len(spec.Options))

	logger := newLogger(opts.Verbose, io.Discard)
	params := proc.Params{
		Host: proc.NewCollector(logger),
		Program: proc.ProgramContext{
			RunID:   runID,
			Catalog: cat,
			Logger:  logger,
		},
	}
	if _, err := compiler.Build(spec, proc.DefaultRegistry(), params); err != nil {
		return formatter.Fail(ExitFailure, "invalid program", err)
	}

	return formatter.Success(ValidationResult{
		Valid:   true,
		Program: path,
		Proc:    spec.Name,
		Options: spec.Options,
	})
}
