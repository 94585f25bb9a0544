package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SliceOrientation is the acquisition-plane class of a series, backed by the
// numeric code used in the image definitions.
type SliceOrientation int

const (
	Transverse SliceOrientation = 1
	Sagittal   SliceOrientation = 2
	Coronal    SliceOrientation = 3
)

// String returns the conventional label for the orientation.
func (o SliceOrientation) String() string {
	switch o {
	case Transverse:
		return "transverse"
	case Sagittal:
		return "sagittal"
	case Coronal:
		return "coronal"
	default:
		return fmt.Sprintf("slice orientation %d", int(o))
	}
}

// UnknownOrientationError is returned for slice orientation codes outside
// the {transverse, sagittal, coronal} table.
type UnknownOrientationError struct {
	Code int
}

// Error implements the error interface.
func (e *UnknownOrientationError) Error() string {
	return fmt.Sprintf("unknown slice orientation code %d", e.Code)
}

// OrientationFromCode maps a header orientation code to its label.
func OrientationFromCode(code int) (SliceOrientation, error) {
	switch o := SliceOrientation(code); o {
	case Transverse, Sagittal, Coronal:
		return o, nil
	default:
		return 0, &UnknownOrientationError{Code: code}
	}
}

// pslToRAS maps the intermediate PSL frame (posterior, superior, left) to
// the output RAS frame (axes increasing right, anterior, superior).
var pslToRAS = mat.NewDense(4, 4, []float64{
	0, 0, -1, 0, // L -> R
	-1, 0, 0, 0, // P -> A
	0, 1, 0, 0, // S -> S
	0, 0, 0, 1,
})

// acqToPSL holds the fixed permutation/flip from acquisition voxel axes to
// the PSL frame, one matrix per slice orientation. The entries come from
// inspecting transverse, sagittal and coronal acquisitions of known layout.
var acqToPSL = map[SliceOrientation]*mat.Dense{
	Transverse: mat.NewDense(4, 4, []float64{
		0, 1, 0, 0, // P
		0, 0, 1, 0, // S
		1, 0, 0, 0, // L
		0, 0, 0, 1,
	}),
	Sagittal: mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, -1, 0, 0,
		0, 0, -1, 0,
		0, 0, 0, 1,
	}),
	Coronal: mat.NewDense(4, 4, []float64{
		0, 0, 1, 0, // P
		0, -1, 0, 0, // S
		1, 0, 0, 0, // L
		0, 0, 0, 1,
	}),
}

// permutationToPSL returns the acquisition-to-PSL matrix for an orientation.
func permutationToPSL(o SliceOrientation) (*mat.Dense, error) {
	m, ok := acqToPSL[o]
	if !ok {
		return nil, &UnknownOrientationError{Code: int(o)}
	}
	return m, nil
}
