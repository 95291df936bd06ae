package proc

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/pointflow/internal/errs"
	"github.com/roach88/pointflow/internal/point"
)

func TestCollector_RecordsAndLogs(t *testing.T) {
	var buf bytes.Buffer
	c := NewCollector(slog.New(slog.NewTextHandler(&buf, nil)))
	cat := errs.DefaultCatalog()

	c.Emit([]*point.Point{point.New(F("a", 1.0))})
	c.Emit([]*point.Point{point.New(F("b", 2.0))})
	c.Trigger(EventWarning, cat.Runtime(errs.CodeFieldNotFound, errs.Info{"proc": "split", "field": "x"}))
	c.Trigger(EventError, cat.Runtime(errs.CodeInvalidTime, errs.Info{"value": "?"}))

	assert.Len(t, c.Points(), 2)
	assert.Len(t, c.Events, 2)
	assert.Len(t, c.Warnings(), 1)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "field=x")
	assert.Contains(t, buf.String(), "level=ERROR")
}
