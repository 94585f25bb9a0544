// Package euler builds rotation matrices from Euler angles.
package euler

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ZYX returns the 3x3 rotation matrix Rz(z)·Ry(y)·Rx(x) for angles in
// radians: successive rotations about the x, y and z axes, applied in that
// order.
func ZYX(z, y, x float64) *mat.Dense {
	cz, sz := math.Cos(z), math.Sin(z)
	cy, sy := math.Cos(y), math.Sin(y)
	cx, sx := math.Cos(x), math.Sin(x)

	rz := mat.NewDense(3, 3, []float64{
		cz, -sz, 0,
		sz, cz, 0,
		0, 0, 1,
	})
	ry := mat.NewDense(3, 3, []float64{
		cy, 0, sy,
		0, 1, 0,
		-sy, 0, cy,
	})
	rx := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, cx, -sx,
		0, sx, cx,
	})

	var zy, zyx mat.Dense
	zy.Mul(rz, ry)
	zyx.Mul(&zy, rx)
	return &zyx
}
