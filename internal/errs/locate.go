package errs

import "fmt"

// Position is a point in program source.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Location is the source span an Error is attributed to.
type Location struct {
	Filename string   `json:"filename,omitempty"`
	Start    Position `json:"start"`
	End      Position `json:"end"`
}

// IsZero reports whether l carries no position.
func (l Location) IsZero() bool {
	return l == Location{}
}

func (l Location) String() string {
	if l.Filename == "" {
		return fmt.Sprintf("%d:%d", l.Start.Line, l.Start.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.Filename, l.Start.Line, l.Start.Column)
}

// Locate runs fn and attributes a failing *Error to loc.
//
// The location is written only when the Error has none yet, so nested Locate
// calls keep the innermost position. Any other error, and an Error that is
// already located, is returned unchanged.
func Locate(fn func() error, loc Location) error {
	err := fn()
	if err != nil {
		attach(err, loc)
	}
	return err
}

// LocateValue is Locate for computations that produce a value.
func LocateValue[T any](fn func() (T, error), loc Location) (T, error) {
	v, err := fn()
	if err != nil {
		attach(err, loc)
	}
	return v, err
}

func attach(err error, loc Location) {
	e, ok := As(err)
	if !ok || e.hasLocation() {
		return
	}
	if e.Info == nil {
		e.Info = Info{}
	}
	e.Info[LocationKey] = loc
}
