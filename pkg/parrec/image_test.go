package parrec

import (
	"os"
	"path/filepath"
	"testing"

	"parrec/internal/partest"
)

func writePair(t *testing.T, dir, stem string, params partest.Params, values []int16) string {
	t.Helper()
	parPath := filepath.Join(dir, stem+".PAR")
	if err := os.WriteFile(parPath, []byte(params.Header()), 0644); err != nil {
		t.Fatalf("Failed to write PAR file: %v", err)
	}
	recPath := filepath.Join(dir, stem+".REC")
	if err := os.WriteFile(recPath, partest.Int16Payload(values), 0644); err != nil {
		t.Fatalf("Failed to write REC file: %v", err)
	}
	return parPath
}

// TestLoad verifies the end-to-end decode of a PAR/REC pair
func TestLoad(t *testing.T) {
	params := smallVolume()
	values := []int16{10, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2}
	parPath := writePair(t, t.TempDir(), "phantom", params, values)

	img, err := Load(parPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(img.Data) != 12 {
		t.Fatalf("Expected 12 voxels, got %d", len(img.Data))
	}
	// default dv scaling with RS=1.5
	if img.Data[0] != 15.0 || img.Data[11] != 3.0 {
		t.Errorf("Unexpected scaled values: %v, %v", img.Data[0], img.Data[11])
	}

	wantShape := []int{2, 2, 3}
	for i := range wantShape {
		if img.Shape[i] != wantShape[i] {
			t.Fatalf("Shape = %v, want %v", img.Shape, wantShape)
		}
	}
	if r, c := img.Affine.Dims(); r != 4 || c != 4 {
		t.Errorf("Affine dims = (%d,%d), want (4,4)", r, c)
	}
	if img.Header == nil || img.Header.BitDepth() != 16 {
		t.Error("Image header missing or wrong")
	}
}

// TestLoadLowercaseExtensions verifies that a .par/.rec pair loads too
func TestLoadLowercaseExtensions(t *testing.T) {
	dir := t.TempDir()
	params := smallVolume()

	parPath := filepath.Join(dir, "phantom.par")
	if err := os.WriteFile(parPath, []byte(params.Header()), 0644); err != nil {
		t.Fatalf("Failed to write PAR file: %v", err)
	}
	recPath := filepath.Join(dir, "phantom.rec")
	if err := os.WriteFile(recPath, partest.Int16Payload(make([]int16, 12)), 0644); err != nil {
		t.Fatalf("Failed to write REC file: %v", err)
	}

	if _, err := Load(parPath); err != nil {
		t.Fatalf("Load failed for lowercase pair: %v", err)
	}
}

// TestLoadMissingPayload verifies the error when no REC file sits next to
// the header
func TestLoadMissingPayload(t *testing.T) {
	dir := t.TempDir()
	parPath := filepath.Join(dir, "orphan.PAR")
	if err := os.WriteFile(parPath, []byte(smallVolume().Header()), 0644); err != nil {
		t.Fatalf("Failed to write PAR file: %v", err)
	}

	if _, err := Load(parPath); err == nil {
		t.Error("Expected error for missing REC payload")
	}
}

// TestLoadMissingHeader verifies the error for a nonexistent header path
func TestLoadMissingHeader(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nothing.PAR")); err == nil {
		t.Error("Expected error for missing PAR file")
	}
}
