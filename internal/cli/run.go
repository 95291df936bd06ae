package cli

import (
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/pointflow/internal/compiler"
	"github.com/roach88/pointflow/internal/errs"
	"github.com/roach88/pointflow/internal/point"
	"github.com/roach88/pointflow/internal/pointio"
	"github.com/roach88/pointflow/internal/proc"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Program string
	Proc    string
	Columns []string
	Arrays  bool
	Epsilon bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <input>",
		Short: "Run a proc over a batch of points",
		Long: `Run a proc once over every point of the input and write the emitted
points to stdout as JSON lines.

The input is a JSON array of objects or one JSON object per line. Files
ending in .gz, .zst or .zstd are decompressed; "-" reads stdin. The proc is
configured either by a CUE program or by flags, not both.

Example:
  pointflow run --columns user,sys metrics.jsonl
  pointflow run --program split.cue metrics.json.zst
  pointflow run --arrays=false --format json - < points.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProc(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Program, "program", "", "CUE program configuring the proc")
	cmd.Flags().StringVar(&opts.Proc, "proc", proc.SplitName, "registered proc name")
	cmd.Flags().StringSliceVar(&opts.Columns, "columns", nil, "fields to split on (default: all but time and name)")
	cmd.Flags().BoolVar(&opts.Arrays, "arrays", true, "emit one point per array element")
	cmd.Flags().BoolVar(&opts.Epsilon, "epsilon", false, "flag every input time as epsilon")

	return cmd
}

// newLogger returns a text logger on w, at debug level when verbose.
func newLogger(verbose bool, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	return slog.New(handler)
}

func runProc(opts *RunOptions, input string, cmd *cobra.Command) error {
	runID := opts.runID()
	logger := newLogger(opts.Verbose, cmd.ErrOrStderr()).With("run_id", runID)
	cat := errs.DefaultCatalog()

	// stdout carries points, so errors go to stderr.
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.ErrOrStderr(),
		Verbose: opts.Verbose,
		RunID:   runID,
	}

	host := proc.NewCollector(logger)
	params := proc.Params{
		Host: host,
		Program: proc.ProgramContext{
			RunID:   runID,
			Catalog: cat,
			Logger:  logger,
		},
	}

	p, err := buildFromFlags(opts, cmd, cat, params)
	if err != nil {
		if _, ok := errs.As(err); ok {
			return formatter.Fail(ExitFailure, "failed to build proc", err)
		}
		return WrapExitError(ExitCommandError, "failed to build proc", err)
	}
	logger.Debug("proc built", "proc", p.Name())

	points, err := readPoints(input, cmd.InOrStdin(), cat)
	if err != nil {
		if _, ok := errs.As(err); ok {
			return formatter.Fail(ExitFailure, "failed to read input", err)
		}
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}
	logger.Debug("input decoded", "points", len(points))

	if err := proc.NormalizeInput(points, opts.Epsilon, cat); err != nil {
		return formatter.Fail(ExitFailure, "failed to normalize time", err)
	}

	p.Process(points)

	out := host.Points()
	if err := pointio.WriteJSONLines(cmd.OutOrStdout(), point.Denormalize(out)); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}

	logger.Info("batch processed",
		"proc", p.Name(),
		"input", len(points),
		"output", len(out),
		"warnings", len(host.Warnings()),
	)
	return nil
}

// buildFromFlags constructs the proc from --program or from the proc flags.
func buildFromFlags(opts *RunOptions, cmd *cobra.Command, cat *errs.Catalog, params proc.Params) (proc.Proc, error) {
	flags := cmd.Flags()
	if opts.Program != "" {
		if flags.Changed("proc") || flags.Changed("columns") || flags.Changed("arrays") {
			return nil, errors.New("--program cannot be combined with --proc, --columns or --arrays")
		}
		spec, err := compiler.New(cat).CompileFile(opts.Program)
		if err != nil {
			return nil, err
		}
		return compiler.Build(spec, proc.DefaultRegistry(), params)
	}

	options := proc.Options{}
	if flags.Changed("columns") {
		options["columns"] = opts.Columns
	}
	if flags.Changed("arrays") {
		options["arrays"] = opts.Arrays
	}
	return proc.DefaultRegistry().Build(opts.Proc, options, params)
}

// readPoints decodes the input file, or stdin when path is "-".
func readPoints(path string, stdin io.Reader, cat *errs.Catalog) ([]*point.Point, error) {
	var r io.Reader = stdin
	if path != "-" {
		rc, err := pointio.Open(path)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		r = rc
	}
	return pointio.NewDecoder(cat).Decode(r)
}
