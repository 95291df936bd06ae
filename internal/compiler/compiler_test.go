package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pointflow/internal/errs"
	"github.com/roach88/pointflow/internal/point"
	"github.com/roach88/pointflow/internal/proc"
)

func TestCompile_Split(t *testing.T) {
	spec, err := New(nil).Compile("split.cue", []byte(`
proc: "split"
options: {
	columns: ["user", "sys"]
	arrays:  false
	limit:   3
}
`))
	require.NoError(t, err)

	assert.Equal(t, "split", spec.Name)
	assert.Equal(t, proc.Options{
		"columns": []any{"user", "sys"},
		"arrays":  false,
		"limit":   3.0,
	}, spec.Options)
	assert.Equal(t, "split.cue", spec.Location.Filename)
	assert.Equal(t, 2, spec.Location.Start.Line)
}

func TestCompile_NoOptions(t *testing.T) {
	spec, err := New(nil).Compile("p.cue", []byte(`proc: "split"`))
	require.NoError(t, err)
	assert.Empty(t, spec.Options)
}

func TestCompile_Defaults(t *testing.T) {
	spec, err := New(nil).Compile("p.cue", []byte(`
proc: "split"
options: arrays: *true | bool
`))
	require.NoError(t, err)
	assert.Equal(t, true, spec.Options["arrays"])
}

func TestCompile_SyntaxError(t *testing.T) {
	_, err := New(nil).Compile("bad.cue", []byte("proc: \"split\"\noptions: {\n"))

	e, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.KindSyntax, e.Kind)
	assert.Equal(t, errs.CodeProgramSyntax, e.Code)
	loc, ok := e.Location()
	require.True(t, ok)
	assert.Equal(t, "bad.cue", loc.Filename)
	assert.NotEmpty(t, e.Message)
}

func TestCompile_MissingProc(t *testing.T) {
	_, err := New(nil).Compile("p.cue", []byte(`options: {}`))

	assert.True(t, errs.IsCompile(err))
	assert.Equal(t, errs.CodeProgramMissingProc, errs.CodeOf(err))
}

func TestCompile_InvalidShapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"proc not a string", `proc: 5`},
		{"options not a struct", "proc: \"split\"\noptions: [1]"},
		{"incomplete option", "proc: \"split\"\noptions: arrays: bool"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(nil).Compile("p.cue", []byte(tt.src))
			e, ok := errs.As(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, errs.KindCompile, e.Kind)
			assert.Equal(t, errs.CodeProgramInvalid, e.Code)
		})
	}
}

func TestCompileFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.cue")
	require.NoError(t, os.WriteFile(path, []byte(`proc: "split"`), 0o644))

	spec, err := New(nil).CompileFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, spec.Location.Filename)

	_, err = New(nil).CompileFile(filepath.Join(t.TempDir(), "missing.cue"))
	assert.Error(t, err)
}

func TestBuild_AttachesProgramLocation(t *testing.T) {
	spec, err := New(nil).Compile("p.cue", []byte("\nproc: \"split\"\noptions: columns: [\"name\"]\n"))
	require.NoError(t, err)

	_, err = Build(spec, proc.DefaultRegistry(), proc.Params{Host: proc.NewCollector(nil)})

	e, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.CodeSplitName, e.Code)
	loc, ok := e.Location()
	require.True(t, ok)
	assert.Equal(t, spec.Location, loc)
	assert.Equal(t, 2, loc.Start.Line)
}

func TestBuild_RunsProc(t *testing.T) {
	spec, err := New(nil).Compile("p.cue", []byte(`proc: "split", options: arrays: false`))
	require.NoError(t, err)
	host := proc.NewCollector(nil)

	p, err := Build(spec, proc.DefaultRegistry(), proc.Params{Host: host})
	require.NoError(t, err)
	p.Process([]*point.Point{point.New(point.F("a", []any{1.0, 2.0}))})

	assert.Len(t, host.Points(), 1)
}
