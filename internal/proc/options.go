package proc

import (
	"slices"

	"github.com/roach88/pointflow/internal/errs"
	"github.com/roach88/pointflow/internal/values"
)

// Options are the options a proc was invoked with.
type Options map[string]any

// ValidateOptions fails with UNKNOWN-OPTION for the first option, in name
// order, that is not in allowed.
func (b *Base) ValidateOptions(opts Options, allowed ...string) error {
	names := make([]string, 0, len(opts))
	for name := range opts {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if !slices.Contains(allowed, name) {
			return b.CompileError(errs.CodeUnknownOption, errs.Info{"option": name})
		}
	}
	return nil
}

// StringList reads an option holding a list of strings. ok is false when the
// option is absent.
func (b *Base) StringList(opts Options, name string) (list []string, ok bool, err error) {
	raw, present := opts[name]
	if !present || raw == nil {
		return nil, false, nil
	}
	invalid := func() error {
		return b.CompileError(errs.CodeInvalidOptionType, errs.Info{
			"option": name,
			"type":   "an array of strings",
		})
	}
	if s, isStrings := raw.([]string); isStrings {
		return slices.Clone(s), true, nil
	}
	if !values.IsArray(raw) {
		return nil, false, invalid()
	}
	elems := values.Elements(raw)
	list = make([]string, len(elems))
	for i, elem := range elems {
		s, isString := elem.(string)
		if !isString {
			return nil, false, invalid()
		}
		list[i] = s
	}
	return list, true, nil
}

// Bool reads a boolean option with truthiness coercion, or def when absent.
func (b *Base) Bool(opts Options, name string, def bool) bool {
	raw, present := opts[name]
	if !present {
		return def
	}
	return values.Truthy(raw)
}
