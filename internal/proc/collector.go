package proc

import (
	"io"
	"log/slog"

	"github.com/roach88/pointflow/internal/errs"
	"github.com/roach88/pointflow/internal/point"
)

// Event is one Trigger call recorded by a Collector.
type Event struct {
	Kind EventKind
	Err  *errs.Error
}

// Collector is a Host that keeps everything a proc emits and triggers.
// Events are also logged: warnings at warn level, anything else at error.
type Collector struct {
	Batches [][]*point.Point
	Events  []Event

	logger *slog.Logger
}

// NewCollector returns a Collector logging to logger (nil discards).
func NewCollector(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Collector{logger: logger}
}

// Emit implements Host.
func (c *Collector) Emit(batch []*point.Point) {
	c.Batches = append(c.Batches, batch)
	c.logger.Debug("batch emitted", "points", len(batch))
}

// Trigger implements Host.
func (c *Collector) Trigger(kind EventKind, err *errs.Error) {
	c.Events = append(c.Events, Event{Kind: kind, Err: err})

	attrs := []any{"code", err.Code}
	if p, ok := err.Info["proc"]; ok {
		attrs = append(attrs, "proc", p)
	}
	if f, ok := err.Info["field"]; ok {
		attrs = append(attrs, "field", f)
	}
	if kind == EventWarning {
		c.logger.Warn(err.Message, attrs...)
		return
	}
	c.logger.Error(err.Message, attrs...)
}

// Points returns every emitted point in emission order.
func (c *Collector) Points() []*point.Point {
	var out []*point.Point
	for _, batch := range c.Batches {
		out = append(out, batch...)
	}
	return out
}

// Warnings returns the errors of every warning event.
func (c *Collector) Warnings() []*errs.Error {
	var out []*errs.Error
	for _, ev := range c.Events {
		if ev.Kind == EventWarning {
			out = append(out, ev.Err)
		}
	}
	return out
}
