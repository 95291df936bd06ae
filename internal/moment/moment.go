// Package moment holds the runtime's internal timestamp type.
//
// Only what the processing core touches lives here: construction from raw
// point values, millisecond difference, ordering and the canonical external
// form. Calendar arithmetic belongs to the full moment library and is not
// reproduced.
package moment

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// CanonicalLayout is the external form of a Moment: UTC, millisecond precision.
const CanonicalLayout = "2006-01-02T15:04:05.000Z"

// maxMillis bounds the representable instant to ±100,000,000 days around the
// epoch, the same range a JavaScript Date accepts.
const maxMillis = 8.64e15

// ErrInvalid is returned when a raw value cannot be turned into a Moment.
var ErrInvalid = errors.New("invalid moment")

// Moment is an instant with millisecond precision, always held in UTC.
type Moment struct {
	t time.Time

	// Epsilon marks a moment that sits infinitesimally after its instant.
	// It is carried through untouched; comparison ignores it.
	Epsilon bool
}

// FromTime returns the Moment for t, truncated to the millisecond.
func FromTime(t time.Time) *Moment {
	return &Moment{t: t.UTC().Truncate(time.Millisecond)}
}

// FromMillis returns the Moment ms milliseconds after the Unix epoch.
// Fractional milliseconds are truncated toward zero.
func FromMillis(ms float64) (*Moment, error) {
	if math.IsNaN(ms) || math.Abs(ms) > maxMillis {
		return nil, fmt.Errorf("%w: %v ms out of range", ErrInvalid, ms)
	}
	return &Moment{t: time.UnixMilli(int64(ms)).UTC()}, nil
}

// FromSeconds returns the Moment s seconds after the Unix epoch.
func FromSeconds(s float64) (*Moment, error) {
	return FromMillis(s * 1000)
}

// Time returns the instant as a time.Time in UTC.
func (m *Moment) Time() time.Time {
	return m.t
}

// UnixMilli returns milliseconds since the Unix epoch.
func (m *Moment) UnixMilli() int64 {
	return m.t.UnixMilli()
}

// String returns the canonical external form.
func (m *Moment) String() string {
	return m.t.Format(CanonicalLayout)
}

// MarshalJSON encodes the canonical external form as a JSON string.
func (m *Moment) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// Sub returns a - b.
func Sub(a, b *Moment) time.Duration {
	return a.t.Sub(b.t)
}

// Compare returns -1, 0 or +1 as m is before, equal to or after o.
func (m *Moment) Compare(o *Moment) int {
	return m.t.Compare(o.t)
}

// isoLayouts are the calendar/clock forms accepted by ParseDate. Values
// without an offset are read as UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

// ParseDate parses s as an ISO-8601 calendar date or date-time.
func ParseDate(s string) (*Moment, error) {
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FromTime(t), nil
		}
	}
	return nil, fmt.Errorf("%w: %q is not an ISO-8601 date", ErrInvalid, s)
}

// looseLayouts extend the ISO forms for Parse.
var looseLayouts = []string{
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	"Jan 2, 2006 15:04:05",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
}

// Parse builds a Moment from a raw value using the default constructor
// rules: moments and time.Time values are taken as is, numbers are seconds
// since the epoch, strings are tried as ISO-8601 and then a set of looser
// layouts.
func Parse(raw any) (*Moment, error) {
	switch v := raw.(type) {
	case *Moment:
		return v, nil
	case time.Time:
		return FromTime(v), nil
	case float64:
		return FromSeconds(v)
	case int:
		return FromSeconds(float64(v))
	case int64:
		return FromSeconds(float64(v))
	case string:
		if m, err := ParseDate(v); err == nil {
			return m, nil
		}
		s := strings.TrimSpace(v)
		for _, layout := range looseLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return FromTime(t), nil
			}
		}
		return nil, fmt.Errorf("%w: cannot parse %q", ErrInvalid, v)
	default:
		return nil, fmt.Errorf("%w: unsupported value of type %T", ErrInvalid, raw)
	}
}
