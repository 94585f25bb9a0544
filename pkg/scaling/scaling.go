// Package scaling resolves the intensity rescaling coefficients of a PAR/REC
// series.
//
// The header reports three per-series scalars: the rescale slope RS, the
// rescale intercept RI and the scale slope SS. For a stored pixel value PV
// they define two derived values:
//
//	DV = PV*RS + RI        value as shown on the scanner console
//	FP = DV / (RS*SS)      floating point (physical) value
//
// Both conventions are expressed here as a (slope, intercept) pair so that
// any of them is applied as value*slope + intercept.
package scaling

import (
	"fmt"

	"parrec/pkg/parheader"
)

// Method selects the scaling convention.
type Method string

const (
	// DV scales to the console display value
	DV Method = "dv"

	// FP scales to the floating point (physical) value
	FP Method = "fp"
)

// UnknownMethodError is returned for methods outside {dv, fp}.
type UnknownMethodError struct {
	Method Method
}

// Error implements the error interface.
func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("unknown scaling method %q", string(e.Method))
}

// Resolve computes the (slope, intercept) pair for the given method. The
// three coefficients are per-image fields in the header but must be
// homogeneous across the series; a varying coefficient surfaces as an
// InconsistentHeaderError from the table.
func Resolve(defs *parheader.ImageDefTable, method Method) (slope, intercept float64, err error) {
	scaleSlope, err := defs.Unique("scale slope")
	if err != nil {
		return 0, 0, err
	}
	rescaleSlope, err := defs.Unique("rescale slope")
	if err != nil {
		return 0, 0, err
	}
	rescaleIntercept, err := defs.Unique("rescale intercept")
	if err != nil {
		return 0, 0, err
	}

	switch method {
	case DV:
		return rescaleSlope, rescaleIntercept, nil
	case FP:
		return 1.0 / scaleSlope, rescaleIntercept / (rescaleSlope * scaleSlope), nil
	default:
		return 0, 0, &UnknownMethodError{Method: method}
	}
}
