package parrec

import (
	"encoding/binary"
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
)

// NumVoxels returns the number of voxels in the payload, the product of the
// shape.
func (h *Header) NumVoxels() int {
	n := 1
	for _, d := range h.shape {
		n *= d
	}
	return n
}

// RawData reads the unscaled voxel values from a REC payload: exactly
// NumVoxels() stored integers of BitDepth() bits, little endian, starting at
// DataOffset(). Values are returned widened to float64 (exact for all
// supported widths in practice); axes of the flattened array correspond to
// the Shape() in Fortran order, fastest axis first.
func (h *Header) RawData(r io.ReadSeeker) ([]float64, error) {
	nvox := h.NumVoxels()
	nbytes := nvox * h.bits / 8
	if _, err := r.Seek(h.DataOffset(), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking to rec payload: %w", err)
	}
	buf := make([]byte, nbytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("reading rec payload (%d bytes): %w", nbytes, err)
	}

	data := make([]float64, nvox)
	switch h.bits {
	case 8:
		for i := range data {
			data[i] = float64(int8(buf[i]))
		}
	case 16:
		for i := range data {
			data[i] = float64(int16(binary.LittleEndian.Uint16(buf[2*i:])))
		}
	case 32:
		for i := range data {
			data[i] = float64(int32(binary.LittleEndian.Uint32(buf[4*i:])))
		}
	case 64:
		for i := range data {
			data[i] = float64(int64(binary.LittleEndian.Uint64(buf[8*i:])))
		}
	}
	return data, nil
}

// ScaledData reads the payload and applies the default intensity scaling
// elementwise: value*slope + intercept, computed in float64 so large
// coefficients cannot overflow the stored integer range.
func (h *Header) ScaledData(r io.ReadSeeker) ([]float64, error) {
	data, err := h.RawData(r)
	if err != nil {
		return nil, err
	}
	slope, intercept := h.SlopeIntercept()
	if slope != 1.0 {
		floats.Scale(slope, data)
	}
	if intercept != 0.0 {
		floats.AddConst(intercept, data)
	}
	return data, nil
}
