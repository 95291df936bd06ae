package errs

import (
	"encoding/json"
	"errors"
)

// Kind tags the phase an Error belongs to.
type Kind int

const (
	// KindSyntax marks malformed program text.
	KindSyntax Kind = iota
	// KindCompile marks an invalid program or proc configuration, detected
	// before any point flows.
	KindCompile
	// KindRuntime marks a failure or anomaly while points are flowing.
	KindRuntime
)

// String returns the kind's conventional error name.
func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "SyntaxError"
	case KindCompile:
		return "CompileError"
	case KindRuntime:
		return "RuntimeError"
	default:
		return "Error"
	}
}

// LocationKey is the Info key holding an Error's source location.
const LocationKey = "location"

// Info is the open bag of named values substituted into message templates.
type Info map[string]any

// Error is a structured failure.
//
// Message is resolved when the Error is built and is never recomputed, even
// if Info changes afterwards (Locate only adds the location).
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Info    Info
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Location returns the location recorded in Info, if any.
func (e *Error) Location() (Location, bool) {
	switch loc := e.Info[LocationKey].(type) {
	case Location:
		return loc, true
	case *Location:
		if loc != nil {
			return *loc, true
		}
	}
	return Location{}, false
}

// hasLocation reports whether Info carries any non-nil location value.
func (e *Error) hasLocation() bool {
	v, ok := e.Info[LocationKey]
	if !ok || v == nil {
		return false
	}
	if loc, isPtr := v.(*Location); isPtr && loc == nil {
		return false
	}
	return true
}

// Payload is the wire form of an Error. Kind is deliberately absent: it is
// recovered from the concrete error on the receiving side, not the payload.
type Payload struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Info    Info   `json:"info"`
}

// Serialize returns the wire form of e.
func (e *Error) Serialize() Payload {
	info := e.Info
	if info == nil {
		info = Info{}
	}
	return Payload{Message: e.Message, Code: e.Code, Info: info}
}

// MarshalJSON encodes e as {"message", "code", "info"}.
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Serialize())
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err's chain contains an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}

// IsSyntax reports whether err is a syntax-kind Error.
func IsSyntax(err error) bool { return IsKind(err, KindSyntax) }

// IsCompile reports whether err is a compile-kind Error.
func IsCompile(err error) bool { return IsKind(err, KindCompile) }

// IsRuntime reports whether err is a runtime-kind Error.
func IsRuntime(err error) bool { return IsKind(err, KindRuntime) }

// CodeOf returns the Code of the *Error in err's chain, or "" if there is none.
func CodeOf(err error) string {
	if e, ok := As(err); ok {
		return e.Code
	}
	return ""
}
