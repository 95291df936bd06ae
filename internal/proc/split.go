package proc

import (
	"slices"

	"github.com/roach88/pointflow/internal/errs"
	"github.com/roach88/pointflow/internal/point"
	"github.com/roach88/pointflow/internal/values"
)

// SplitName is the registered name of the split proc.
const SplitName = "split"

var splitInfo = Info{
	Type: "proc",
	Options: map[string]OptionInfo{
		"columns": {
			Type:        "array",
			Description: "fields to split on; defaults to every field except time and name",
		},
		"arrays": {
			Type:        "boolean",
			Default:     true,
			Description: "emit one point per element of array-valued fields",
		},
	},
}

// SplitInfo returns the split proc's tooling descriptor.
func SplitInfo() Info {
	return splitInfo
}

// Split melts points: each (field, value) pair among the split fields becomes
// its own point carrying name=field and value=value, plus every field that
// was not split. With arrays enabled an array value yields one point per
// element.
type Split struct {
	Base
	columns []string
	arrays  bool
}

// NewSplit validates options and returns a split proc.
// Options: columns ([]string, optional), arrays (bool, default true).
func NewSplit(opts Options, params Params) (*Split, error) {
	s := &Split{Base: NewBase(SplitName, params)}
	if err := s.ValidateOptions(opts, "arrays", "columns"); err != nil {
		return nil, err
	}

	columns, ok, err := s.StringList(opts, "columns")
	if err != nil {
		return nil, err
	}
	if ok {
		if slices.Contains(columns, point.FieldName) {
			return nil, s.CompileError(errs.CodeSplitName, nil)
		}
		s.columns = columns
	}
	s.arrays = s.Bool(opts, "arrays", true)
	return s, nil
}

// Columns returns the configured split columns, nil when splitting on every
// field.
func (s *Split) Columns() []string {
	return slices.Clone(s.columns)
}

// Arrays reports whether array values are exploded.
func (s *Split) Arrays() bool {
	return s.arrays
}

// Process splits every point of the batch and emits all results as a single
// batch. A configured column missing from a point triggers a FIELD-NOT-FOUND
// warning; the point is still processed.
func (s *Split) Process(batch []*point.Point) {
	out := make([]*point.Point, 0, len(batch))
	for _, p := range batch {
		var split *point.Point
		if s.columns != nil {
			split = p.Pick(s.columns...)
		} else {
			split = p.Omit(point.FieldTime, point.FieldName)
		}
		keep := p.Omit(split.Keys()...)

		for _, col := range s.columns {
			if !p.Has(col) {
				s.Trigger(EventWarning, s.RuntimeError(errs.CodeFieldNotFound, errs.Info{"field": col}))
			}
		}

		for field, value := range split.All() {
			elems := []any{value}
			if s.arrays && values.IsArray(value) {
				elems = values.Elements(value)
			}
			for _, elem := range elems {
				melted := keep.Clone()
				melted.Set(point.FieldName, field)
				melted.Set(point.FieldValue, elem)
				out = append(out, melted)
			}
		}
	}
	s.Emit(out)
}
