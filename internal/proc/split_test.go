package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pointflow/internal/errs"
	"github.com/roach88/pointflow/internal/point"
)

var F = point.F

func newSplit(t *testing.T, opts Options) (*Split, *Collector) {
	t.Helper()
	c := NewCollector(nil)
	s, err := NewSplit(opts, Params{Host: c})
	require.NoError(t, err)
	return s, c
}

func TestNewSplit_Defaults(t *testing.T) {
	s, _ := newSplit(t, nil)

	assert.Equal(t, "split", s.Name())
	assert.Nil(t, s.Columns())
	assert.True(t, s.Arrays())
}

func TestNewSplit_RejectsNameColumn(t *testing.T) {
	_, err := NewSplit(Options{"columns": []any{"name"}}, Params{Host: NewCollector(nil)})

	require.Error(t, err)
	assert.True(t, errs.IsCompile(err))
	assert.Equal(t, errs.CodeSplitName, errs.CodeOf(err))
}

func TestNewSplit_RejectsUnknownOption(t *testing.T) {
	_, err := NewSplit(Options{"arrays": true, "colums": []any{"a"}}, Params{Host: NewCollector(nil)})

	e, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.KindCompile, e.Kind)
	assert.Equal(t, errs.CodeUnknownOption, e.Code)
	assert.Equal(t, `split does not support option "colums"`, e.Message)
}

func TestNewSplit_RejectsBadColumns(t *testing.T) {
	for _, bad := range []any{"a", []any{"a", 1.0}} {
		_, err := NewSplit(Options{"columns": bad}, Params{Host: NewCollector(nil)})
		assert.Equal(t, errs.CodeInvalidOptionType, errs.CodeOf(err), "%v", bad)
	}
}

func TestNewSplit_ArraysCoerced(t *testing.T) {
	s, _ := newSplit(t, Options{"arrays": 0.0})
	assert.False(t, s.Arrays())

	s, _ = newSplit(t, Options{"arrays": "yes"})
	assert.True(t, s.Arrays())
}

func TestSplit_ExplodesArrays(t *testing.T) {
	s, c := newSplit(t, nil)

	s.Process([]*point.Point{point.New(F("a", []any{1.0, 2.0}), F("b", 5.0))})

	require.Len(t, c.Batches, 1)
	assert.Equal(t, []*point.Point{
		point.New(F("name", "a"), F("value", 1.0)),
		point.New(F("name", "a"), F("value", 2.0)),
		point.New(F("name", "b"), F("value", 5.0)),
	}, c.Batches[0])
	assert.Empty(t, c.Events)
}

func TestSplit_ArraysDisabled(t *testing.T) {
	s, c := newSplit(t, Options{"arrays": false})

	s.Process([]*point.Point{point.New(F("a", []any{1.0, 2.0}), F("b", 5.0))})

	assert.Equal(t, []*point.Point{
		point.New(F("name", "a"), F("value", []any{1.0, 2.0})),
		point.New(F("name", "b"), F("value", 5.0)),
	}, c.Points())
}

func TestSplit_DefaultExcludesTimeAndName(t *testing.T) {
	s, c := newSplit(t, nil)

	s.Process([]*point.Point{
		point.New(F("time", 10.0), F("name", "cpu"), F("user", 1.0), F("sys", 2.0)),
	})

	assert.Equal(t, []*point.Point{
		point.New(F("time", 10.0), F("name", "user"), F("value", 1.0)),
		point.New(F("time", 10.0), F("name", "sys"), F("value", 2.0)),
	}, c.Points())
}

func TestSplit_ColumnsKeepOtherFields(t *testing.T) {
	s, c := newSplit(t, Options{"columns": []any{"b", "a"}})

	s.Process([]*point.Point{point.New(F("host", "h1"), F("a", 1.0), F("b", 2.0), F("c", 3.0))})

	assert.Equal(t, []*point.Point{
		point.New(F("host", "h1"), F("c", 3.0), F("name", "b"), F("value", 2.0)),
		point.New(F("host", "h1"), F("c", 3.0), F("name", "a"), F("value", 1.0)),
	}, c.Points())
}

func TestSplit_MissingColumnWarns(t *testing.T) {
	s, c := newSplit(t, Options{"columns": []any{"missing"}})

	require.NotPanics(t, func() {
		s.Process([]*point.Point{point.New(F("a", 1.0))})
	})

	require.Len(t, c.Batches, 1)
	assert.Empty(t, c.Batches[0])
	require.Len(t, c.Events, 1)
	ev := c.Events[0]
	assert.Equal(t, EventWarning, ev.Kind)
	assert.Equal(t, errs.KindRuntime, ev.Err.Kind)
	assert.Equal(t, errs.CodeFieldNotFound, ev.Err.Code)
	assert.Equal(t, "missing", ev.Err.Info["field"])
	assert.Equal(t, `split: field "missing" does not exist`, ev.Err.Message)
}

func TestSplit_MissingColumnDoesNotStopBatch(t *testing.T) {
	s, c := newSplit(t, Options{"columns": []any{"a", "b"}})

	s.Process([]*point.Point{
		point.New(F("a", 1.0)),
		point.New(F("a", 2.0), F("b", 3.0)),
	})

	assert.Len(t, c.Warnings(), 1)
	assert.Equal(t, []*point.Point{
		point.New(F("name", "a"), F("value", 1.0)),
		point.New(F("name", "a"), F("value", 2.0)),
		point.New(F("name", "b"), F("value", 3.0)),
	}, c.Points())
}

func TestSplit_OutputsAreIndependent(t *testing.T) {
	s, c := newSplit(t, nil)
	in := point.New(F("time", 1.0), F("a", []any{1.0, 2.0}))

	s.Process([]*point.Point{in})

	out := c.Points()
	require.Len(t, out, 2)
	out[0].Set("extra", true)
	assert.False(t, out[1].Has("extra"))
	assert.Equal(t, []string{"time", "a"}, in.Keys(), "input is not modified")
}

func TestSplit_EmptyBatchStillEmits(t *testing.T) {
	s, c := newSplit(t, nil)

	s.Process(nil)
	s.Process([]*point.Point{})

	require.Len(t, c.Batches, 2)
	assert.Empty(t, c.Batches[0])
}

func TestSplit_EmptyArrayYieldsNothing(t *testing.T) {
	s, c := newSplit(t, nil)

	s.Process([]*point.Point{point.New(F("a", []any{}), F("b", 1.0))})

	assert.Equal(t, []*point.Point{point.New(F("name", "b"), F("value", 1.0))}, c.Points())
}

func TestSplitInfo(t *testing.T) {
	info := SplitInfo()
	assert.Equal(t, "proc", info.Type)
	assert.Contains(t, info.Options, "columns")
	assert.Contains(t, info.Options, "arrays")
}
