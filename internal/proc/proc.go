// Package proc defines the contract between dataflow procs and the host graph
// that drives them, and implements the split proc.
//
// A host constructs a proc through a Registry, hands it batches with Process,
// and receives results through the Host interface: Emit for finished output
// batches and Trigger for non-fatal conditions. Process is synchronous and
// keeps no state between batches; the host serializes calls per instance.
//
// Buffering and merging of multiple upstreams (fan-in) is the host's job and
// is not reproduced here.
package proc

import (
	"log/slog"

	"github.com/roach88/pointflow/internal/errs"
	"github.com/roach88/pointflow/internal/point"
)

// EventKind names a Trigger event.
type EventKind string

const (
	EventWarning EventKind = "warning"
	EventError   EventKind = "error"
)

// Proc is a transform node in the dataflow graph.
type Proc interface {
	Name() string
	Process(batch []*point.Point)
}

// Host receives a proc's output.
type Host interface {
	// Emit delivers one finished output batch.
	Emit(batch []*point.Point)

	// Trigger reports a condition that does not stop processing.
	Trigger(kind EventKind, err *errs.Error)
}

// ProgramContext carries program-wide collaborators shared by every proc of
// one program.
type ProgramContext struct {
	RunID   string
	Catalog *errs.Catalog
	Logger  *slog.Logger
}

// Params are the construction parameters the host passes besides options.
type Params struct {
	// Location is where the proc appears in the program. Construction
	// errors without a location of their own are attributed to it.
	Location errs.Location
	Host     Host
	Program  ProgramContext
}

// catalog returns the program's catalog, falling back to the default one.
func (p Params) catalog() *errs.Catalog {
	if p.Program.Catalog != nil {
		return p.Program.Catalog
	}
	return errs.DefaultCatalog()
}

// Info describes a proc to tooling.
type Info struct {
	Type    string                `json:"type"`
	Options map[string]OptionInfo `json:"options"`
}

// OptionInfo documents one proc option.
type OptionInfo struct {
	Type        string `json:"type"`
	Default     any    `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}
