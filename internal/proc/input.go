package proc

import (
	"errors"

	"github.com/roach88/pointflow/internal/errs"
	"github.com/roach88/pointflow/internal/point"
)

// NormalizeInput brings a batch arriving from outside the graph into internal
// form. A time that cannot be converted is reported as an INVALID-TIME
// runtime error whose info holds the offending value and point index.
func NormalizeInput(batch []*point.Point, epsilon bool, cat *errs.Catalog) error {
	_, err := point.NormalizeTime(batch, epsilon)
	if err == nil {
		return nil
	}
	var te *point.TimeError
	if !errors.As(err, &te) {
		return err
	}
	if cat == nil {
		cat = errs.DefaultCatalog()
	}
	return cat.Runtime(errs.CodeInvalidTime, errs.Info{"value": te.Value, "index": te.Index})
}
