package proc

import (
	"slices"

	"github.com/roach88/pointflow/internal/errs"
)

// Constructor builds a proc from its options.
type Constructor func(opts Options, params Params) (Proc, error)

// Registration pairs a constructor with its tooling descriptor.
type Registration struct {
	New  Constructor
	Info Info
}

// Registry maps proc names to constructors.
type Registry struct {
	procs map[string]Registration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{procs: make(map[string]Registration)}
}

// DefaultRegistry returns a registry holding every proc in this package.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(SplitName, Registration{
		New: func(opts Options, params Params) (Proc, error) {
			s, err := NewSplit(opts, params)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
		Info: SplitInfo(),
	})
	return r
}

// Register adds or replaces a proc.
func (r *Registry) Register(name string, reg Registration) {
	r.procs[name] = reg
}

// Lookup returns the registration for name.
func (r *Registry) Lookup(name string) (Registration, bool) {
	reg, ok := r.procs[name]
	return reg, ok
}

// Names returns the registered proc names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.procs))
	for name := range r.procs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Build constructs the named proc. Errors that carry no location of their
// own are attributed to params.Location.
func (r *Registry) Build(name string, opts Options, params Params) (Proc, error) {
	build := func() (Proc, error) {
		reg, ok := r.procs[name]
		if !ok {
			return nil, params.catalog().Compile(errs.CodeUnknownProc, errs.Info{"proc": name})
		}
		return reg.New(opts, params)
	}
	if params.Location.IsZero() {
		return build()
	}
	return errs.LocateValue(build, params.Location)
}
