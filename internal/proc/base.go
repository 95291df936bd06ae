package proc

import (
	"maps"

	"github.com/roach88/pointflow/internal/errs"
	"github.com/roach88/pointflow/internal/point"
)

// Base carries what every proc needs from its host: its name, construction
// parameters and error helpers. Concrete procs embed it.
type Base struct {
	name   string
	params Params
	cat    *errs.Catalog
}

// NewBase returns a Base for a proc called name. Without a Host, emitted
// batches and events are dropped.
func NewBase(name string, params Params) Base {
	if params.Host == nil {
		params.Host = discardHost{}
	}
	return Base{name: name, params: params, cat: params.catalog()}
}

type discardHost struct{}

func (discardHost) Emit([]*point.Point) {}
func (discardHost) Trigger(EventKind, *errs.Error) {}

// Name returns the proc name.
func (b *Base) Name() string {
	return b.name
}

// Location returns the proc's program location.
func (b *Base) Location() errs.Location {
	return b.params.Location
}

// Emit forwards a batch to the host.
func (b *Base) Emit(batch []*point.Point) {
	b.params.Host.Emit(batch)
}

// Trigger forwards an event to the host.
func (b *Base) Trigger(kind EventKind, err *errs.Error) {
	b.params.Host.Trigger(kind, err)
}

// CompileError builds a compile-kind error naming this proc.
func (b *Base) CompileError(code string, info errs.Info) *errs.Error {
	return b.cat.Compile(code, b.withProc(info))
}

// RuntimeError builds a runtime-kind error naming this proc.
func (b *Base) RuntimeError(code string, info errs.Info) *errs.Error {
	return b.cat.Runtime(code, b.withProc(info))
}

// withProc returns a copy of info naming this proc.
func (b *Base) withProc(info errs.Info) errs.Info {
	out := maps.Clone(info)
	if out == nil {
		out = errs.Info{}
	}
	if _, ok := out["proc"]; !ok {
		out["proc"] = b.name
	}
	return out
}
