package point

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"slices"

	"github.com/roach88/pointflow/internal/values"
)

// Reserved field names.
const (
	FieldTime  = "time"
	FieldName  = "name"
	FieldValue = "value"
)

// Point is an ordered record.
//
// The zero value is an empty point ready to use.
type Point struct {
	keys   []string
	fields map[string]any
}

// Field is a name/value pair used to build points.
type Field struct {
	Name  string
	Value any
}

// F is a shorthand for Field.
// Example: point.New(point.F("host", "a"), point.F("cpu", 0.5))
func F(name string, value any) Field {
	return Field{Name: name, Value: value}
}

// New returns a point holding fields in order. A repeated name keeps its
// first position and its last value.
func New(fields ...Field) *Point {
	p := &Point{
		keys:   make([]string, 0, len(fields)),
		fields: make(map[string]any, len(fields)),
	}
	for _, f := range fields {
		p.Set(f.Name, f.Value)
	}
	return p
}

// Len returns the number of fields.
func (p *Point) Len() int {
	return len(p.keys)
}

// Has reports whether the field is present. A field holding nil is present.
func (p *Point) Has(name string) bool {
	_, ok := p.fields[name]
	return ok
}

// Get returns the field's value and whether it is present.
func (p *Point) Get(name string) (any, bool) {
	v, ok := p.fields[name]
	return v, ok
}

// Set writes a field. New fields go to the end; existing fields keep their
// position.
func (p *Point) Set(name string, value any) {
	if p.fields == nil {
		p.fields = make(map[string]any)
	}
	if _, ok := p.fields[name]; !ok {
		p.keys = append(p.keys, name)
	}
	p.fields[name] = value
}

// Delete removes a field if present.
func (p *Point) Delete(name string) {
	if _, ok := p.fields[name]; !ok {
		return
	}
	delete(p.fields, name)
	p.keys = slices.DeleteFunc(p.keys, func(k string) bool { return k == name })
}

// Keys returns the field names in order. The slice is a copy.
func (p *Point) Keys() []string {
	return slices.Clone(p.keys)
}

// All iterates fields in order.
func (p *Point) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range p.keys {
			if !yield(k, p.fields[k]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy: field values are shared, the field set is not.
func (p *Point) Clone() *Point {
	c := &Point{
		keys:   slices.Clone(p.keys),
		fields: make(map[string]any, len(p.fields)),
	}
	for k, v := range p.fields {
		c.fields[k] = v
	}
	return c
}

// Pick returns a new point with only the named fields that are present, in
// the order the names are given.
func (p *Point) Pick(names ...string) *Point {
	out := New()
	for _, name := range names {
		if v, ok := p.fields[name]; ok {
			out.Set(name, v)
		}
	}
	return out
}

// Omit returns a new point without the named fields, in p's order.
func (p *Point) Omit(names ...string) *Point {
	out := New()
	for _, k := range p.keys {
		if !slices.Contains(names, k) {
			out.Set(k, p.fields[k])
		}
	}
	return out
}

// ToJSONCompatible returns a copy of p with every value in external form.
func (p *Point) ToJSONCompatible() any {
	out := New()
	for k, v := range p.All() {
		out.Set(k, values.ToJSONCompatible(v))
	}
	return out
}

// String renders p as JSON, for diagnostics.
func (p *Point) String() string {
	data, err := p.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<point: %v>", err)
	}
	return string(data)
}

// MarshalJSON encodes p as a JSON object in field order.
func (p *Point) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := json.Marshal(p.fields[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
