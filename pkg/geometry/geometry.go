// Package geometry derives the spatial description of a PAR/REC series from
// its parsed header: dimensionality, voxel spacing, zooms, volume shape,
// slice orientation and the world-space affine.
//
// The affine chains three coordinate conventions: acquisition voxel axes,
// the scanner's intermediate PSL frame (posterior, superior, left) and the
// output RAS frame (right, anterior, superior).
package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"parrec/internal/euler"
	"parrec/pkg/parheader"
)

// Origin selects the translation reference of the affine.
type Origin string

const (
	// OriginScanner places coordinates relative to the scanner isocenter
	OriginScanner Origin = "scanner"

	// OriginFOV places coordinates relative to the center of the field
	// of view
	OriginFOV Origin = "fov"
)

// AmbiguousDimensionError reports a header in which more than one
// non-spatial axis varies. Dynamics, diffusion volumes and echoes are
// mutually exclusive candidates for the 4th image axis.
type AmbiguousDimensionError struct {
	Dynamics   int
	DTIVolumes int
	Echoes     int
}

// Error implements the error interface.
func (e *AmbiguousDimensionError) Error() string {
	return fmt.Sprintf("cannot have multiple dynamics, diffusion volumes or echoes in one series, found %d, %d and %d",
		e.Dynamics, e.DTIVolumes, e.Echoes)
}

// Resolver derives geometry from the two parsed header sections. All methods
// are pure functions of the header data and safe to call repeatedly; nothing
// is cached here.
type Resolver struct {
	Info *parheader.GeneralInfo
	Defs *parheader.ImageDefTable

	// Rotation builds the 3x3 rotation matrix from the header's three
	// angulation angles, given in radians in their declared ap, fh, rl
	// order. When nil the default convention applies: successive
	// rotations about the ap, fh and rl axes composed as
	// Rz(rl)·Ry(fh)·Rx(ap). The exporter's true rotation order is not
	// documented, so the convention is kept swappable.
	Rotation func(ap, fh, rl float64) *mat.Dense
}

// NDim returns the number of image axes: 4 when the header declares more
// than one dynamic, gradient orientation or echo, else 3.
func (r *Resolver) NDim() (int, error) {
	for _, name := range []string{"max_dynamics", "max_gradient_orient", "max_echoes"} {
		n, err := r.Info.Int(name)
		if err != nil {
			return 0, err
		}
		if n > 1 {
			return 4, nil
		}
	}
	return 3, nil
}

// VoxelSize returns the spatial extent of one voxel: the in-plane pixel
// spacing and the slice thickness. The inter-slice gap is not part of the
// voxel extent.
func (r *Resolver) VoxelSize() ([3]float64, error) {
	var size [3]float64
	spacing, err := r.Defs.UniqueVector("pixel spacing")
	if err != nil {
		return size, err
	}
	thickness, err := r.Defs.Unique("slice thickness")
	if err != nil {
		return size, err
	}
	size[0], size[1], size[2] = spacing[0], spacing[1], thickness
	return size, nil
}

// Zooms returns the per-axis scaling, one entry per image axis. The slice
// axis zoom is thickness plus gap. The 4th entry is the repetition time in
// seconds when the 4th axis is the dynamics axis; echo or diffusion 4th axes
// have no defined temporal zoom and stay at 1.
func (r *Resolver) Zooms() ([]float64, error) {
	ndim, err := r.NDim()
	if err != nil {
		return nil, err
	}
	size, err := r.VoxelSize()
	if err != nil {
		return nil, err
	}
	gap, err := r.Defs.Unique("slice gap")
	if err != nil {
		return nil, err
	}

	zooms := make([]float64, ndim)
	for i := range zooms {
		zooms[i] = 1
	}
	zooms[0], zooms[1], zooms[2] = size[0], size[1], size[2]+gap

	if ndim > 3 {
		dynamics, err := r.Info.Int("max_dynamics")
		if err != nil {
			return nil, err
		}
		if dynamics > 1 {
			tr, err := r.Info.Float("repetition_time")
			if err != nil {
				return nil, err
			}
			zooms[3] = tr / 1000.0
		}
	}
	return zooms, nil
}

// Shape returns the shape of the voxel array in the REC file: in-plane
// resolution, slice count, and at most one non-spatial length. The slice
// count must match the declared maximum; two or more varying non-spatial
// axes are an AmbiguousDimensionError.
func (r *Resolver) Shape() ([]int, error) {
	ndynamics, err := r.Defs.DistinctCount("dynamic scan number")
	if err != nil {
		return nil, err
	}
	maxDiffusion, err := r.Info.Int("max_diffusion_values")
	if err != nil {
		return nil, err
	}
	maxGradient, err := r.Info.Int("max_gradient_orient")
	if err != nil {
		return nil, err
	}
	// diffusion volumes: (b values - 1) x gradient orientations
	ndti := (maxDiffusion - 1) * maxGradient

	nslices, err := r.Defs.DistinctCount("slice number")
	if err != nil {
		return nil, err
	}
	maxSlices, err := r.Info.Int("max_slices")
	if err != nil {
		return nil, err
	}
	if nslices != maxSlices {
		return nil, &parheader.InconsistentHeaderError{
			Field:  "slice number",
			Detail: fmt.Sprintf("found %d slices, but header claims to have %d", nslices, maxSlices),
		}
	}

	nechoes, err := r.Defs.DistinctCount("echo number")
	if err != nil {
		return nil, err
	}

	varying := 0
	for _, n := range []int{ndynamics, ndti, nechoes} {
		if n > 1 {
			varying++
		}
	}
	if varying > 1 {
		return nil, &AmbiguousDimensionError{Dynamics: ndynamics, DTIVolumes: ndti, Echoes: nechoes}
	}

	inplane, err := r.Defs.UniqueVector("recon resolution")
	if err != nil {
		return nil, err
	}
	shape := []int{int(inplane[0]), int(inplane[1]), nslices}
	switch {
	case ndynamics > 1:
		shape = append(shape, ndynamics)
	case ndti > 1:
		shape = append(shape, ndti)
	case nechoes > 1:
		shape = append(shape, nechoes)
	}
	return shape, nil
}

// SliceOrientation returns the acquisition-plane class of the series. The
// orientation code must be homogeneous across the image definitions.
func (r *Resolver) SliceOrientation() (SliceOrientation, error) {
	code, err := r.Defs.Unique("slice orientation")
	if err != nil {
		return 0, err
	}
	return OrientationFromCode(int(code))
}

// Affine computes the 4x4 transform from voxel indices to world RAS
// coordinates. Conceptually right to left it composes: translation to the
// center of the volume, the zoom diagonal, the acquisition-to-PSL
// permutation for the slice orientation, the angulation rotation, the
// isocenter offset when origin is OriginScanner, and the fixed PSL-to-RAS
// map. Only the translation column depends on origin.
func (r *Resolver) Affine(origin Origin) (*mat.Dense, error) {
	if origin != OriginScanner && origin != OriginFOV {
		return nil, fmt.Errorf("unknown affine origin %q", string(origin))
	}

	shape, err := r.Shape()
	if err != nil {
		return nil, err
	}
	zooms, err := r.Zooms()
	if err != nil {
		return nil, err
	}
	orientation, err := r.SliceOrientation()
	if err != nil {
		return nil, err
	}
	permute, err := permutationToPSL(orientation)
	if err != nil {
		return nil, err
	}

	// voxel indices -> offsets from the volume center
	toCenter := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		toCenter.Set(i, i, 1)
	}
	for i := 0; i < 3; i++ {
		toCenter.Set(i, 3, -float64(shape[i]-1)/2)
	}

	zoomer := mat.NewDense(4, 4, nil)
	for i := 0; i < 3; i++ {
		zoomer.Set(i, i, zooms[i])
	}
	zoomer.Set(3, 3, 1)

	// header angles are degrees in ap, fh, rl order
	angulation, err := r.Info.Vector("angulation")
	if err != nil {
		return nil, err
	}
	ap := angulation[0] * math.Pi / 180
	fh := angulation[1] * math.Pi / 180
	rl := angulation[2] * math.Pi / 180
	rotation := r.Rotation
	if rotation == nil {
		rotation = defaultRotation
	}
	rot := fromMatVec(rotation(ap, fh, rl), [3]float64{})

	var psl mat.Dense
	psl.Mul(zoomer, toCenter)
	psl.Mul(permute, &psl)
	psl.Mul(rot, &psl)

	if origin == OriginScanner {
		// isocenter offset, same ap, fh, rl ordering as angulation
		offCenter, err := r.Info.Vector("off_center")
		if err != nil {
			return nil, err
		}
		for i := 0; i < 3; i++ {
			psl.Set(i, 3, psl.At(i, 3)+offCenter[i])
		}
	}

	var ras mat.Dense
	ras.Mul(pslToRAS, &psl)
	return &ras, nil
}

// defaultRotation applies the angulation angles in reverse declared order as
// successive single-axis rotations about the PSL frame's axes.
func defaultRotation(ap, fh, rl float64) *mat.Dense {
	return euler.ZYX(rl, fh, ap)
}

// fromMatVec embeds a 3x3 matrix and a translation vector in a homogeneous
// 4x4 matrix.
func fromMatVec(m *mat.Dense, v [3]float64) *mat.Dense {
	out := mat.NewDense(4, 4, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.Set(i, j, m.At(i, j))
		}
		out.Set(i, 3, v[i])
	}
	out.Set(3, 3, 1)
	return out
}
