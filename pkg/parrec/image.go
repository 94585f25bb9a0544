package parrec

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/mat"

	"parrec/pkg/geometry"
)

// Image is a fully decoded PAR/REC pair: the scaled voxel data, the
// scanner-origin affine and the header it was derived from.
type Image struct {
	// Data holds the scaled voxel values, flattened with the fastest
	// axis first, matching Shape
	Data []float64

	// Shape is the voxel array shape
	Shape []int

	// Affine maps voxel indices to world RAS coordinates, relative to
	// the scanner isocenter
	Affine *mat.Dense

	// Header is the parsed and derived metadata
	Header *Header
}

// Load opens a .PAR/.REC pair by the path of its header file, parses the
// header and decodes the scaled payload. The payload file is looked up next
// to the header with a .REC extension, tolerating the usual case variants.
func Load(parPath string, opts ...Option) (*Image, error) {
	parFile, err := os.Open(parPath)
	if err != nil {
		return nil, fmt.Errorf("opening par header: %w", err)
	}
	defer parFile.Close()

	hdr, err := FromReader(parFile, opts...)
	if err != nil {
		return nil, err
	}

	recPath, err := findRECFile(parPath)
	if err != nil {
		return nil, err
	}
	recFile, err := os.Open(recPath)
	if err != nil {
		return nil, fmt.Errorf("opening rec payload: %w", err)
	}
	defer recFile.Close()

	data, err := hdr.ScaledData(recFile)
	if err != nil {
		return nil, err
	}
	affine, err := hdr.Affine(geometry.OriginScanner)
	if err != nil {
		return nil, err
	}
	return &Image{
		Data:   data,
		Shape:  hdr.Shape(),
		Affine: affine,
		Header: hdr,
	}, nil
}

// findRECFile locates the payload next to the header file, preferring the
// extension case that matches the header's.
func findRECFile(parPath string) (string, error) {
	ext := filepath.Ext(parPath)
	base := strings.TrimSuffix(parPath, ext)

	candidates := []string{base + ".rec", base + ".REC"}
	if ext == strings.ToUpper(ext) {
		candidates[0], candidates[1] = candidates[1], candidates[0]
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", fmt.Errorf("no rec payload found next to %s", parPath)
}
