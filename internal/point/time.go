package point

import (
	"fmt"
	"iter"
	"math"

	"github.com/roach88/pointflow/internal/moment"
	"github.com/roach88/pointflow/internal/values"
)

// TimeError reports a time field that could not be converted.
type TimeError struct {
	Index int
	Value any
	Err   error
}

func (e *TimeError) Error() string {
	return fmt.Sprintf("point %d: cannot convert time %v: %v", e.Index, e.Value, e.Err)
}

func (e *TimeError) Unwrap() error {
	return e.Err
}

// NormalizeTime converts the time field of every point to a *moment.Moment,
// in place, and returns the same slice.
//
// Numbers and numeric strings are seconds since the epoch, with null, blank
// strings and booleans coerced to numbers as in JavaScript. Other values are
// parsed as an ISO-8601 date, then with moment.Parse. Points whose time is
// absent or already a Moment are left alone, so a second call is a no-op.
// When epsilon is set, each converted Moment is flagged with it.
//
// On failure a *TimeError is returned; points before the failing one are
// already converted.
func NormalizeTime(points []*Point, epsilon bool) ([]*Point, error) {
	for i, p := range points {
		raw, ok := p.Get(FieldTime)
		if !ok {
			continue
		}
		if _, done := raw.(*moment.Moment); done {
			continue
		}
		m, err := toMoment(raw)
		if err != nil {
			return points, &TimeError{Index: i, Value: raw, Err: err}
		}
		if epsilon {
			m.Epsilon = true
		}
		p.Set(FieldTime, m)
	}
	return points, nil
}

func toMoment(raw any) (*moment.Moment, error) {
	if secs, ok := numericSeconds(raw); ok {
		if m, err := moment.FromSeconds(secs); err == nil {
			return m, nil
		}
	} else if s, ok := raw.(string); ok {
		if m, err := moment.ParseDate(s); err == nil {
			return m, nil
		}
	}
	return moment.Parse(raw)
}

// numericSeconds converts raw to a number the way JavaScript's Number() does:
// null, booleans and blank strings count as numbers, other strings only when
// they parse completely.
func numericSeconds(raw any) (float64, bool) {
	n := values.ToNumber(raw)
	return n, !math.IsNaN(n)
}

// Denormalize yields each point converted to its external form. The sequence
// is lazy and can be ranged over more than once; every pass converts afresh
// and never modifies the input points.
func Denormalize(points []*Point) iter.Seq[*Point] {
	return func(yield func(*Point) bool) {
		for _, p := range points {
			if !yield(p.ToJSONCompatible().(*Point)) {
				return
			}
		}
	}
}

// IsInteger reports whether x is a finite number with no fractional part.
func IsInteger(x any) bool {
	n, ok := values.Number(x)
	if !ok || math.IsInf(n, 0) || math.IsNaN(n) {
		return false
	}
	return math.Mod(n, 1) == 0
}
