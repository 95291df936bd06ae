package harness

import (
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/pointflow/internal/compiler"
	"github.com/roach88/pointflow/internal/errs"
	"github.com/roach88/pointflow/internal/point"
	"github.com/roach88/pointflow/internal/proc"
	"github.com/roach88/pointflow/internal/testutil"
)

// Result is the outcome of running one scenario.
type Result struct {
	// Pass is false when any expectation failed.
	Pass bool `json:"pass"`

	// Output is the emitted batch in external form.
	Output []*point.Point `json:"output"`

	// Warnings are the errors of all warning events, in order.
	Warnings []*errs.Error `json:"warnings,omitempty"`

	// BuildError is the error that prevented the proc from being built.
	BuildError error `json:"-"`

	// Errors lists failed expectations.
	Errors []string `json:"errors,omitempty"`
}

// AddError records a failed expectation.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

// Harness runs scenarios against a proc registry.
type Harness struct {
	registry *proc.Registry
	catalog  *errs.Catalog
	runIDs   proc.RunIDGenerator
	logger   *slog.Logger
}

// New returns a Harness for registry, using the default catalog, a fixed run
// id and a logger that discards. A nil registry means proc.DefaultRegistry.
func New(registry *proc.Registry) *Harness {
	if registry == nil {
		registry = proc.DefaultRegistry()
	}
	return &Harness{
		registry: registry,
		catalog:  errs.DefaultCatalog(),
		runIDs:   testutil.NewFixedRunIDGenerator(""),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger returns h logging proc events to logger.
func (h *Harness) WithLogger(logger *slog.Logger) *Harness {
	c := *h
	c.logger = logger
	return &c
}

// WithRunIDs returns h drawing run ids from gen.
func (h *Harness) WithRunIDs(gen proc.RunIDGenerator) *Harness {
	c := *h
	c.runIDs = gen
	return &c
}

// Run executes a scenario with a default Harness.
func Run(scenario *Scenario) (*Result, error) {
	return New(nil).Run(scenario)
}

// Run executes the scenario and evaluates its expectations.
//
// Execution flow:
// 1. Build the proc (from the registry or the CUE program)
// 2. Clone and normalize the input batch
// 3. Process the batch once
// 4. Denormalize the emitted points
// 5. Compare against the expectations
//
// The returned error reports a scenario that could not be executed at all
// (unreadable program, invalid input time). Proc construction errors are
// expected outcomes and land in Result.BuildError.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	runID := h.runIDs.Generate()
	logger := h.logger.With("run_id", runID, "scenario", scenario.Name)
	host := proc.NewCollector(logger)
	params := proc.Params{
		Host: host,
		Program: proc.ProgramContext{
			RunID:   runID,
			Catalog: h.catalog,
			Logger:  logger,
		},
	}

	result := &Result{Pass: true, Output: []*point.Point{}}

	p, err := h.build(scenario, params)
	if err != nil {
		if _, ok := errs.As(err); !ok {
			return nil, err
		}
		result.BuildError = err
		Check(scenario, result)
		return result, nil
	}

	input := make([]*point.Point, len(scenario.Input))
	for i, pt := range scenario.Input {
		input[i] = pt.Clone()
	}
	if err := proc.NormalizeInput(input, scenario.Epsilon, h.catalog); err != nil {
		return nil, err
	}

	p.Process(input)

	result.Output = slices.Collect(point.Denormalize(host.Points()))
	result.Warnings = host.Warnings()
	Check(scenario, result)
	return result, nil
}

func (h *Harness) build(scenario *Scenario, params proc.Params) (proc.Proc, error) {
	if scenario.Program != "" {
		spec, err := compiler.New(h.catalog).CompileFile(scenario.Program)
		if err != nil {
			return nil, err
		}
		return compiler.Build(spec, h.registry, params)
	}
	return h.registry.Build(scenario.Proc, proc.Options(scenario.Options), params)
}
