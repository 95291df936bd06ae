package compiler

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/pointflow/internal/errs"
	"github.com/roach88/pointflow/internal/proc"
)

// ProcSpec is a compiled proc invocation.
type ProcSpec struct {
	Name     string        `json:"proc"`
	Options  proc.Options  `json:"options"`
	Location errs.Location `json:"location"`
}

// Compiler compiles CUE programs. It is not safe for concurrent use.
type Compiler struct {
	cat *errs.Catalog
	ctx *cue.Context
}

// New returns a Compiler building errors from cat (nil means the default
// catalog).
func New(cat *errs.Catalog) *Compiler {
	if cat == nil {
		cat = errs.DefaultCatalog()
	}
	return &Compiler{cat: cat, ctx: cuecontext.New()}
}

// CompileFile reads and compiles the program at path.
func (c *Compiler) CompileFile(path string) (*ProcSpec, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	return c.Compile(path, src)
}

// Compile compiles program source. filename is used for locations only.
func (c *Compiler) Compile(filename string, src []byte) (*ProcSpec, error) {
	v := c.ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, c.syntaxError(err, filename)
	}

	procVal := v.LookupPath(cue.ParsePath("proc"))
	if !procVal.Exists() {
		return nil, c.cat.Compile(errs.CodeProgramMissingProc, errs.Info{
			errs.LocationKey: fileLocation(filename),
		})
	}
	name, err := procVal.String()
	if err != nil {
		return nil, c.invalid("proc", "a string", procVal.Pos())
	}

	spec := &ProcSpec{
		Name:     name,
		Options:  proc.Options{},
		Location: location(procVal.Pos()),
	}

	optsVal := v.LookupPath(cue.ParsePath("options"))
	if optsVal.Exists() {
		if optsVal.IncompleteKind() != cue.StructKind {
			return nil, c.invalid("options", "a struct", optsVal.Pos())
		}
		iter, err := optsVal.Fields()
		if err != nil {
			return nil, c.syntaxError(err, filename)
		}
		for iter.Next() {
			val, err := c.toGo(iter.Value())
			if err != nil {
				return nil, err
			}
			spec.Options[iter.Label()] = val
		}
	}

	return spec, nil
}

// Build constructs the proc spec describes. When params has no location the
// program location is used.
func Build(spec *ProcSpec, reg *proc.Registry, params proc.Params) (proc.Proc, error) {
	if params.Location.IsZero() {
		params.Location = spec.Location
	}
	return reg.Build(spec.Name, spec.Options, params)
}

// toGo converts a concrete CUE value to a point-style Go value: numbers are
// float64, lists []any, structs map[string]any.
func (c *Compiler) toGo(v cue.Value) (any, error) {
	if def, ok := v.Default(); ok {
		v = def
	}
	path := v.Path().String()

	switch v.IncompleteKind() {
	case cue.NullKind:
		return nil, nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, c.invalid(path, "a concrete bool", v.Pos())
		}
		return b, nil
	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return nil, c.invalid(path, "a concrete int", v.Pos())
		}
		return float64(i), nil
	case cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		if err != nil {
			return nil, c.invalid(path, "a concrete number", v.Pos())
		}
		return f, nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, c.invalid(path, "a concrete string", v.Pos())
		}
		return s, nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, c.invalid(path, "a concrete list", v.Pos())
		}
		list := []any{}
		for iter.Next() {
			elem, err := c.toGo(iter.Value())
			if err != nil {
				return nil, err
			}
			list = append(list, elem)
		}
		return list, nil
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, c.invalid(path, "a concrete struct", v.Pos())
		}
		obj := map[string]any{}
		for iter.Next() {
			elem, err := c.toGo(iter.Value())
			if err != nil {
				return nil, err
			}
			obj[iter.Label()] = elem
		}
		return obj, nil
	default:
		return nil, c.invalid(path, "a concrete value", v.Pos())
	}
}

func (c *Compiler) invalid(field, typ string, pos token.Pos) *errs.Error {
	info := errs.Info{"field": field, "type": typ}
	if pos.IsValid() {
		info[errs.LocationKey] = location(pos)
	}
	return c.cat.Compile(errs.CodeProgramInvalid, info)
}

// syntaxError converts the first CUE error to a located syntax error.
func (c *Compiler) syntaxError(err error, filename string) *errs.Error {
	info := errs.Info{"detail": err.Error()}
	all := cueerrors.Errors(err)
	if len(all) > 0 {
		first := all[0]
		info["detail"] = first.Error()
		if positions := cueerrors.Positions(first); len(positions) > 0 {
			info[errs.LocationKey] = location(positions[0])
		}
	}
	if _, ok := info[errs.LocationKey]; !ok {
		info[errs.LocationKey] = fileLocation(filename)
	}
	return c.cat.Syntax(errs.CodeProgramSyntax, info)
}

func location(pos token.Pos) errs.Location {
	p := errs.Position{Offset: pos.Offset(), Line: pos.Line(), Column: pos.Column()}
	return errs.Location{Filename: pos.Filename(), Start: p, End: p}
}

func fileLocation(filename string) errs.Location {
	start := errs.Position{Line: 1, Column: 1}
	return errs.Location{Filename: filename, Start: start, End: start}
}
