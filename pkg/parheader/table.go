package parheader

import (
	"fmt"
	"strings"
)

// ImageDefTable is a columnar store of the per-image definition rows of a
// PAR header, one column per schema field. Row order is file order, which is
// not guaranteed to be sorted by slice or volume index. The table is
// immutable after parsing.
type ImageDefTable struct {
	n int

	// numeric columns, flattened row-major: len == n * field.Elems()
	numeric map[string][]float64

	// fixed-capacity string columns, one byte slice per row
	text map[string][][]byte
}

func newImageDefTable() *ImageDefTable {
	t := &ImageDefTable{
		numeric: make(map[string][]float64),
		text:    make(map[string][][]byte),
	}
	for _, f := range ImageDefFields {
		if f.IsString() {
			t.text[f.Name] = nil
		} else {
			t.numeric[f.Name] = nil
		}
	}
	return t
}

// Len returns the number of image-definition rows.
func (t *ImageDefTable) Len() int {
	return t.n
}

// Column returns a copy of a numeric column, flattened row-major (scalar
// fields yield Len() values, array fields Len()*Elems()).
func (t *ImageDefTable) Column(name string) ([]float64, error) {
	col, ok := t.numeric[name]
	if !ok {
		if _, isText := t.text[name]; isText {
			return nil, fmt.Errorf("field %q is a string column", name)
		}
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownColumn)
	}
	out := make([]float64, len(col))
	copy(out, col)
	return out, nil
}

// Strings returns the per-row byte values of a fixed-capacity string column.
func (t *ImageDefTable) Strings(name string) ([][]byte, error) {
	col, ok := t.text[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownColumn)
	}
	out := make([][]byte, len(col))
	for i, b := range col {
		out[i] = append([]byte(nil), b...)
	}
	return out, nil
}

// Unique returns the single distinct value of a scalar numeric column. If
// the column holds more than one distinct value across rows the series is
// inconsistent and an InconsistentHeaderError is returned.
func (t *ImageDefTable) Unique(name string) (float64, error) {
	vals, err := t.UniqueVector(name)
	if err != nil {
		return 0, err
	}
	if len(vals) != 1 {
		return 0, fmt.Errorf("field %q is an array, use UniqueVector", name)
	}
	return vals[0], nil
}

// UniqueVector returns the single distinct combination of a numeric column
// across all rows. For array fields every element position must be constant
// over the series; the returned slice is the per-row value (length
// field.Elems()). More than one distinct combination yields an
// InconsistentHeaderError naming the field.
func (t *ImageDefTable) UniqueVector(name string) ([]float64, error) {
	f, ok := imageDefByName[name]
	if !ok || f.IsString() {
		if f.IsString() {
			return nil, fmt.Errorf("field %q is a string column", name)
		}
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownColumn)
	}
	col := t.numeric[name]
	elems := f.Elems()
	if t.n == 0 {
		return nil, &InconsistentHeaderError{Field: name, Detail: "no image definitions in header"}
	}
	first := col[:elems]
	for row := 1; row < t.n; row++ {
		for j := 0; j < elems; j++ {
			if col[row*elems+j] != first[j] {
				return nil, &InconsistentHeaderError{
					Field: name,
					Detail: fmt.Sprintf("varying values in image sequence (%s vs %s)",
						formatRow(first), formatRow(col[row*elems:row*elems+elems])),
				}
			}
		}
	}
	out := make([]float64, elems)
	copy(out, first)
	return out, nil
}

// DistinctCount returns the number of distinct values of a scalar numeric
// column. It is used to count slices, dynamics and echoes.
func (t *ImageDefTable) DistinctCount(name string) (int, error) {
	f, ok := imageDefByName[name]
	if !ok || f.IsString() || f.Shape != nil {
		return 0, fmt.Errorf("field %q is not a scalar numeric column", name)
	}
	seen := make(map[float64]struct{}, t.n)
	for _, v := range t.numeric[name] {
		seen[v] = struct{}{}
	}
	return len(seen), nil
}

// Copy returns a deep copy with independent ownership of all columns.
func (t *ImageDefTable) Copy() *ImageDefTable {
	c := newImageDefTable()
	c.n = t.n
	for name, col := range t.numeric {
		c.numeric[name] = append([]float64(nil), col...)
	}
	for name, col := range t.text {
		rows := make([][]byte, len(col))
		for i, b := range col {
			rows[i] = append([]byte(nil), b...)
		}
		c.text[name] = rows
	}
	return c
}

func formatRow(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
