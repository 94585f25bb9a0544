// Package parrec decodes Philips PAR/REC MRI containers: an ASCII metadata
// header (PAR) plus a raw binary voxel payload (REC).
//
// The Header aggregates the parsed metadata and exposes the description
// needed to interpret the payload: element type, volume shape, per-axis
// zooms, the world-space affine and the intensity rescaling coefficients.
package parrec

import (
	"fmt"
	"io"
	"sync"

	"gonum.org/v1/gonum/mat"

	"parrec/pkg/geometry"
	"parrec/pkg/parheader"
	"parrec/pkg/scaling"
)

// InvariantViolationError reports an attempt to put a Header into a state
// the PAR/REC format does not allow.
type InvariantViolationError struct {
	Op     string
	Detail string
}

// Error implements the error interface.
func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("par header invariant violated by %s: %s", e.Op, e.Detail)
}

// Option configures header construction.
type Option func(*options)

type options struct {
	scaling      scaling.Method
	strictFields bool
}

// WithScaling sets the default scaling method used by SlopeIntercept and
// ScaledData. The default is scaling.DV.
func WithScaling(m scaling.Method) Option {
	return func(o *options) {
		o.scaling = m
	}
}

// WithStrictFields controls whether unknown general-info keys fail the parse
// (the default) or are skipped with a warning. Only meaningful with
// FromReader and Load.
func WithStrictFields(strict bool) Option {
	return func(o *options) {
		o.strictFields = strict
	}
}

func buildOptions(opts []Option) options {
	o := options{scaling: scaling.DV, strictFields: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Header owns the parsed general information and image-definition table of a
// PAR file. It is immutable after construction except for the memoized slice
// orientation, so a Header is safe for concurrent readers; Copy yields an
// independently owned instance.
type Header struct {
	info *parheader.GeneralInfo
	defs *parheader.ImageDefTable

	defaultScaling scaling.Method
	warnings       []string

	// derived eagerly at construction, so an inconsistent series fails
	// fast instead of on first use
	bits  int
	shape []int
	zooms []float64

	// slice orientation is the one cached derived value; the computation
	// is pure, the guard only avoids recomputing
	orientOnce sync.Once
	orient     geometry.SliceOrientation
	orientErr  error
}

// NewHeader builds a Header from already-parsed sections and derives the
// element type, shape and zooms, validating the series homogeneity
// invariants on the way.
func NewHeader(info *parheader.GeneralInfo, defs *parheader.ImageDefTable, opts ...Option) (*Header, error) {
	o := buildOptions(opts)
	h := &Header{info: info, defs: defs, defaultScaling: o.scaling}

	bits, err := defs.Unique("image pixel size")
	if err != nil {
		return nil, err
	}
	switch int(bits) {
	case 8, 16, 32, 64:
		h.bits = int(bits)
	default:
		return nil, fmt.Errorf("unsupported image pixel size %g bits", bits)
	}

	geo := h.geometry()
	if h.shape, err = geo.Shape(); err != nil {
		return nil, err
	}
	if h.zooms, err = geo.Zooms(); err != nil {
		return nil, err
	}
	return h, nil
}

// FromReader parses a PAR header stream and builds the Header. Non-fatal
// parser findings (unsupported versions, skipped keys in lenient mode) are
// available from Warnings.
func FromReader(r io.Reader, opts ...Option) (*Header, error) {
	o := buildOptions(opts)
	parser := parheader.NewParser(parheader.WithStrictFields(o.strictFields))
	info, defs, err := parser.Parse(r)
	if err != nil {
		return nil, err
	}
	h, err := NewHeader(info, defs, opts...)
	if err != nil {
		return nil, err
	}
	h.warnings = parser.Warnings()
	return h, nil
}

// Warnings returns the non-fatal findings collected while parsing, when the
// Header came from FromReader or Load.
func (h *Header) Warnings() []string {
	return h.warnings
}

// GeneralInfo returns the parsed general-information section.
func (h *Header) GeneralInfo() *parheader.GeneralInfo {
	return h.info
}

// ImageDefs returns the parsed image-definition table.
func (h *Header) ImageDefs() *parheader.ImageDefTable {
	return h.defs
}

// Copy returns a deep copy with independent ownership of both header
// sections, safe for concurrent read-only use alongside the original.
func (h *Header) Copy() *Header {
	c := &Header{
		info:           h.info.Copy(),
		defs:           h.defs.Copy(),
		defaultScaling: h.defaultScaling,
		warnings:       append([]string(nil), h.warnings...),
		bits:           h.bits,
		shape:          append([]int(nil), h.shape...),
		zooms:          append([]float64(nil), h.zooms...),
	}
	return c
}

// BitDepth returns the width in bits of one stored voxel. REC voxels are
// signed integers of this width.
func (h *Header) BitDepth() int {
	return h.bits
}

// NDim returns the number of image axes.
func (h *Header) NDim() int {
	return len(h.shape)
}

// Shape returns the voxel array shape in the REC file.
func (h *Header) Shape() []int {
	return append([]int(nil), h.shape...)
}

// Zooms returns the per-axis scaling vector.
func (h *Header) Zooms() []float64 {
	return append([]float64(nil), h.zooms...)
}

// VoxelSize returns the spatial extent of one voxel, excluding the
// inter-slice gap.
func (h *Header) VoxelSize() ([3]float64, error) {
	return h.geometry().VoxelSize()
}

// SliceOrientation returns the acquisition-plane class of the series,
// computed once and cached.
func (h *Header) SliceOrientation() (geometry.SliceOrientation, error) {
	h.orientOnce.Do(func() {
		h.orient, h.orientErr = h.geometry().SliceOrientation()
	})
	return h.orient, h.orientErr
}

// Affine computes the 4x4 voxel-to-RAS transform for the given origin.
func (h *Header) Affine(origin geometry.Origin) (*mat.Dense, error) {
	return h.geometry().Affine(origin)
}

// Scaling returns the (slope, intercept) pair for the given method.
func (h *Header) Scaling(method scaling.Method) (slope, intercept float64, err error) {
	return scaling.Resolve(h.defs, method)
}

// SlopeIntercept returns the scaling pair under the configured default
// method, falling back to the identity scaling (1, 0) when the header does
// not provide usable coefficients.
func (h *Header) SlopeIntercept() (slope, intercept float64) {
	slope, intercept, err := h.Scaling(h.defaultScaling)
	if err != nil {
		return 1.0, 0.0
	}
	return slope, intercept
}

// DataOffset returns the byte offset of the voxel payload in the REC file,
// which the format fixes at 0.
func (h *Header) DataOffset() int64 {
	return 0
}

// SetDataOffset rejects any offset other than 0: the REC payload always
// starts at the beginning of the file.
func (h *Header) SetDataOffset(offset int64) error {
	if offset != 0 {
		return &InvariantViolationError{
			Op:     "SetDataOffset",
			Detail: fmt.Sprintf("rec payload starts at offset 0, cannot set %d", offset),
		}
	}
	return nil
}

func (h *Header) geometry() *geometry.Resolver {
	return &geometry.Resolver{Info: h.info, Defs: h.defs}
}
