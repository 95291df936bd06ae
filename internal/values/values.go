// Package values implements the generic operations the runtime applies to
// point field values: number coercion, truthiness, the generic greater-than
// operator and conversion to a JSON-compatible form.
//
// Field values are plain Go values: float64 (other numeric kinds are
// accepted), string, bool, nil, *moment.Moment, []any and nested objects.
package values

import (
	"cmp"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/roach88/pointflow/internal/moment"
)

// JSONCompatible is implemented by container types that know their own
// external form (points nested inside points, for instance).
type JSONCompatible interface {
	ToJSONCompatible() any
}

// Number returns v as a float64 when v is a Go numeric value.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// ToNumber coerces v to a number the way arithmetic does: booleans are 0 or
// 1, null is 0, numeric strings parse, and everything else is NaN.
func ToNumber(v any) float64 {
	if n, ok := Number(v); ok {
		return n
	}
	switch val := v.(type) {
	case nil:
		return 0
	case bool:
		if val {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return n
	case *moment.Moment:
		return float64(val.UnixMilli())
	}
	return math.NaN()
}

// Truthy reports whether v counts as true in a boolean context.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	}
	if n, ok := Number(v); ok {
		return n != 0 && !math.IsNaN(n)
	}
	return true
}

// IsArray reports whether v is a sequence. Byte slices are not sequences.
func IsArray(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.([]any); ok {
		return true
	}
	t := reflect.TypeOf(v)
	return (t.Kind() == reflect.Slice || t.Kind() == reflect.Array) && t.Elem().Kind() != reflect.Uint8
}

// Elements returns the members of a sequence as []any.
func Elements(v any) []any {
	if arr, ok := v.([]any); ok {
		return arr
	}
	rv := reflect.ValueOf(v)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// Compare orders two values of the same type. Numbers compare numerically,
// strings by byte order, false before true, moments by instant, and
// sequences lexicographically with a shorter prefix first. ok is false when
// the values are not mutually ordered.
func Compare(a, b any) (result int, ok bool) {
	if x, isNum := Number(a); isNum {
		y, isNum := Number(b)
		if !isNum || math.IsNaN(x) || math.IsNaN(y) {
			return 0, false
		}
		return cmp.Compare(x, y), true
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case x == y:
			return 0, true
		case y:
			return -1, true
		default:
			return 1, true
		}
	case *moment.Moment:
		y, ok := b.(*moment.Moment)
		if !ok {
			return 0, false
		}
		return x.Compare(y), true
	}
	if IsArray(a) && IsArray(b) {
		xs, ys := Elements(a), Elements(b)
		for i := 0; i < len(xs) && i < len(ys); i++ {
			c, ok := Compare(xs[i], ys[i])
			if !ok {
				return 0, false
			}
			if c != 0 {
				return c, true
			}
		}
		return cmp.Compare(len(xs), len(ys)), true
	}
	return 0, false
}

// Gt is the runtime's generic greater-than operator. Values that are not
// mutually ordered are never greater.
func Gt(a, b any) bool {
	c, ok := Compare(a, b)
	return ok && c > 0
}

// ToJSONCompatible converts v to its external form: moments become their
// canonical string, containers are converted element by element, and all
// other values pass through.
func ToJSONCompatible(v any) any {
	switch val := v.(type) {
	case *moment.Moment:
		return val.String()
	case JSONCompatible:
		return val.ToJSONCompatible()
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = ToJSONCompatible(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = ToJSONCompatible(elem)
		}
		return out
	}
	return v
}
