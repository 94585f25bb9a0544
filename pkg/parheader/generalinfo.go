package parheader

import (
	"fmt"
	"math"
)

// Value is one parsed general-information entry: a typed scalar or a
// fixed-shape numeric vector, depending on the field's schema entry.
type Value struct {
	// Field is the schema entry this value was parsed against
	Field Field

	// Str holds the raw text of string-kind scalars
	Str string

	// Num holds scalar numeric values. Integer fields are stored exactly
	// (their magnitudes are far below 2^53).
	Num float64

	// Vec holds fixed-shape array values in row-major order
	Vec []float64
}

// GeneralInfo is the parsed "general information" section of a PAR header.
// It is immutable after parsing.
type GeneralInfo struct {
	values map[string]Value
}

func newGeneralInfo() *GeneralInfo {
	return &GeneralInfo{values: make(map[string]Value)}
}

func (g *GeneralInfo) set(v Value) {
	g.values[v.Field.Name] = v
}

// Has reports whether the named field was present in the header.
func (g *GeneralInfo) Has(name string) bool {
	_, ok := g.values[name]
	return ok
}

// Len returns the number of general-info entries parsed from the header.
func (g *GeneralInfo) Len() int {
	return len(g.values)
}

// Int returns the named field as an integer.
func (g *GeneralInfo) Int(name string) (int, error) {
	v, ok := g.values[name]
	if !ok {
		return 0, fmt.Errorf("%q: %w", name, ErrMissingField)
	}
	if v.Field.IsString() || v.Field.Shape != nil {
		return 0, fmt.Errorf("general info field %q is not an integer scalar", name)
	}
	if v.Num != math.Trunc(v.Num) {
		return 0, fmt.Errorf("general info field %q holds non-integer value %v", name, v.Num)
	}
	return int(v.Num), nil
}

// Float returns the named field as a float64.
func (g *GeneralInfo) Float(name string) (float64, error) {
	v, ok := g.values[name]
	if !ok {
		return 0, fmt.Errorf("%q: %w", name, ErrMissingField)
	}
	if v.Field.IsString() || v.Field.Shape != nil {
		return 0, fmt.Errorf("general info field %q is not a numeric scalar", name)
	}
	return v.Num, nil
}

// String returns the raw text of the named string field.
func (g *GeneralInfo) String(name string) (string, error) {
	v, ok := g.values[name]
	if !ok {
		return "", fmt.Errorf("%q: %w", name, ErrMissingField)
	}
	if !v.Field.IsString() {
		return "", fmt.Errorf("general info field %q is not a string", name)
	}
	return v.Str, nil
}

// Vector returns a copy of the named fixed-shape array field, flattened in
// row-major order.
func (g *GeneralInfo) Vector(name string) ([]float64, error) {
	v, ok := g.values[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrMissingField)
	}
	if v.Field.Shape == nil {
		return nil, fmt.Errorf("general info field %q is not an array", name)
	}
	out := make([]float64, len(v.Vec))
	copy(out, v.Vec)
	return out, nil
}

// Copy returns a deep copy with independent ownership of all values.
func (g *GeneralInfo) Copy() *GeneralInfo {
	c := newGeneralInfo()
	for name, v := range g.values {
		if v.Vec != nil {
			vec := make([]float64, len(v.Vec))
			copy(vec, v.Vec)
			v.Vec = vec
		}
		c.values[name] = v
	}
	return c
}
