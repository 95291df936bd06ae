package point

import (
	"math"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/roach88/pointflow/internal/moment"
	"github.com/roach88/pointflow/internal/values"
)

// Direction is a sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// FieldComparator returns a comparison function ordering points by field,
// suitable for slices.SortFunc. Rules, first match wins:
//
//  1. both points lack the field: equal
//  2. one point lacks it: that point sorts after the other
//  3. two strings: case-insensitive, locale-aware
//  4. two moments: by millisecond difference
//  5. the first value is a sequence: +1 if it is greater (values.Gt), else -1
//  6. otherwise the sign of the numeric difference (0 if not a number)
//
// Desc negates the final result, rule 2 included, so under Desc points
// lacking the field sort first.
//
// The comparator owns a collator and must not be shared across goroutines.
func FieldComparator(field string, dir Direction) func(a, b *Point) int {
	col := collate.New(language.Und)
	return func(first, second *Point) int {
		a, hasA := first.Get(field)
		b, hasB := second.Get(field)

		var c int
		switch {
		case !hasA && !hasB:
			c = 0
		case !hasA:
			c = 1
		case !hasB:
			c = -1
		default:
			c = compareFieldValues(col, a, b)
		}
		if dir == Desc {
			c = -c
		}
		return c
	}
}

func compareFieldValues(col *collate.Collator, a, b any) int {
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return col.CompareString(strings.ToLower(as), strings.ToLower(bs))
		}
	}
	if am, ok := a.(*moment.Moment); ok {
		if bm, ok := b.(*moment.Moment); ok {
			return sign(float64(moment.Sub(am, bm).Milliseconds()))
		}
	}
	if values.IsArray(a) {
		if values.Gt(a, b) {
			return 1
		}
		return -1
	}
	return sign(values.ToNumber(a) - values.ToNumber(b))
}

func sign(d float64) int {
	switch {
	case math.IsNaN(d), d == 0:
		return 0
	case d > 0:
		return 1
	default:
		return -1
	}
}
