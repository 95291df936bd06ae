package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pointflow/internal/errs"
	"github.com/roach88/pointflow/internal/point"
)

func TestRegistry_BuildWithoutHost(t *testing.T) {
	p, err := DefaultRegistry().Build(SplitName, Options{"columns": []any{"missing"}}, Params{})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		p.Process([]*point.Point{point.New(F("a", 1.0))})
	})
}

func TestBase_ErrorsDoNotModifyCallerInfo(t *testing.T) {
	b := NewBase(SplitName, Params{})
	info := errs.Info{"field": "x"}

	runtimeErr := b.RuntimeError(errs.CodeFieldNotFound, info)
	compileErr := b.CompileError(errs.CodeFieldNotFound, info)

	assert.Equal(t, errs.Info{"field": "x"}, info)
	assert.Equal(t, errs.Info{"field": "x", "proc": SplitName}, runtimeErr.Info)
	assert.Equal(t, errs.Info{"field": "x", "proc": SplitName}, compileErr.Info)

	runtimeErr.Info["extra"] = true
	assert.NotContains(t, compileErr.Info, "extra")
}

func TestBase_ExplicitProcKept(t *testing.T) {
	b := NewBase(SplitName, Params{})

	e := b.RuntimeError(errs.CodeFieldNotFound, errs.Info{"proc": "other", "field": "x"})

	assert.Equal(t, "other", e.Info["proc"])
	assert.Equal(t, `other: field "x" does not exist`, e.Message)
}
