package parheader

import (
	"errors"
	"strings"
	"testing"

	"parrec/internal/partest"
)

func parseDefs(t *testing.T, header string) *ImageDefTable {
	t.Helper()
	_, defs, err := ParseHeader(strings.NewReader(header))
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}
	return defs
}

// TestUnique verifies the single-distinct-value contract for scalar and
// array columns
func TestUnique(t *testing.T) {
	defs := parseDefs(t, partest.Default().Header())

	thickness, err := defs.Unique("slice thickness")
	if err != nil {
		t.Fatalf("Unique(slice thickness) failed: %v", err)
	}
	if thickness != 6.0 {
		t.Errorf("Expected thickness 6.0, got %v", thickness)
	}

	spacing, err := defs.UniqueVector("pixel spacing")
	if err != nil {
		t.Fatalf("UniqueVector(pixel spacing) failed: %v", err)
	}
	if len(spacing) != 2 || spacing[0] != 3.75 || spacing[1] != 3.75 {
		t.Errorf("Unexpected pixel spacing: %v", spacing)
	}

	// array fields must go through UniqueVector
	if _, err := defs.Unique("pixel spacing"); err == nil {
		t.Error("Expected error for Unique on an array field")
	}
}

// TestUniqueInconsistent verifies that a varying homogeneous field is
// reported as an InconsistentHeaderError naming the field
func TestUniqueInconsistent(t *testing.T) {
	// flip the thickness of one row; the thickness+gap pair only occurs
	// in image rows
	header := strings.Replace(partest.Default().Header(), " 6.000  2.000", " 7.000  2.000", 1)
	defs := parseDefs(t, header)

	_, err := defs.Unique("slice thickness")
	var inconsistent *InconsistentHeaderError
	if !errors.As(err, &inconsistent) {
		t.Fatalf("Expected InconsistentHeaderError, got %v", err)
	}
	if inconsistent.Field != "slice thickness" {
		t.Errorf("Error names field %q, want %q", inconsistent.Field, "slice thickness")
	}
}

// TestDistinctCount verifies the distinct-value counting used for slice,
// dynamic and echo axes
func TestDistinctCount(t *testing.T) {
	params := partest.Default()
	params.Dynamics = 4
	defs := parseDefs(t, params.Header())

	cases := []struct {
		field string
		want  int
	}{
		{"slice number", 3},
		{"dynamic scan number", 4},
		{"echo number", 1},
	}
	for _, c := range cases {
		got, err := defs.DistinctCount(c.field)
		if err != nil {
			t.Fatalf("DistinctCount(%s) failed: %v", c.field, err)
		}
		if got != c.want {
			t.Errorf("DistinctCount(%s) = %d, want %d", c.field, got, c.want)
		}
	}

	if _, err := defs.DistinctCount("pixel spacing"); err == nil {
		t.Error("Expected error for DistinctCount on an array field")
	}
}

// TestUnknownColumn verifies lookup failures for names outside the schema
func TestUnknownColumn(t *testing.T) {
	defs := parseDefs(t, partest.Default().Header())

	if _, err := defs.Column("no such column"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("Expected ErrUnknownColumn, got %v", err)
	}
	if _, err := defs.Column("contrast type"); err == nil {
		t.Error("Expected error for numeric access to a string column")
	}
	if _, err := defs.Strings("slice number"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("Expected ErrUnknownColumn for string access to numeric column, got %v", err)
	}
}

// TestTableCopy verifies deep-copy independence
func TestTableCopy(t *testing.T) {
	defs := parseDefs(t, partest.Default().Header())
	dup := defs.Copy()

	if dup == defs {
		t.Fatal("Copy returned the same instance")
	}
	if dup.Len() != defs.Len() {
		t.Fatalf("Copy has %d rows, want %d", dup.Len(), defs.Len())
	}

	a, _ := defs.Column("slice number")
	b, _ := dup.Column("slice number")
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("Row %d differs after copy: %v vs %v", i, a[i], b[i])
		}
	}
}
