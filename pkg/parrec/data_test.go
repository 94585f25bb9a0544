package parrec

import (
	"bytes"
	"testing"

	"parrec/internal/partest"
	"parrec/pkg/scaling"
)

func smallVolume() partest.Params {
	params := partest.Default()
	params.ReconX = 2
	params.ReconY = 2
	params.Slices = 3
	return params
}

// TestRawData verifies the payload decode: exactly shape-product voxels of
// the declared width, little endian, from offset 0
func TestRawData(t *testing.T) {
	h := header(t, smallVolume())

	values := []int16{0, 1, 2, 3, -4, 5, 6, 7, 8, 9, 10, -11}
	rec := bytes.NewReader(partest.Int16Payload(values))

	data, err := h.RawData(rec)
	if err != nil {
		t.Fatalf("RawData failed: %v", err)
	}
	if len(data) != 12 {
		t.Fatalf("Expected 12 voxels, got %d", len(data))
	}
	for i, v := range values {
		if data[i] != float64(v) {
			t.Errorf("Voxel %d = %v, want %v", i, data[i], float64(v))
		}
	}
}

// TestRawDataIgnoresTrailingBytes verifies that only the declared payload
// size is consumed
func TestRawDataIgnoresTrailingBytes(t *testing.T) {
	h := header(t, smallVolume())

	payload := append(partest.Int16Payload(make([]int16, 12)), 0xde, 0xad)
	if _, err := h.RawData(bytes.NewReader(payload)); err != nil {
		t.Errorf("RawData failed on padded payload: %v", err)
	}
}

// TestRawDataShortPayload verifies the error for a truncated REC file
func TestRawDataShortPayload(t *testing.T) {
	h := header(t, smallVolume())

	rec := bytes.NewReader(partest.Int16Payload(make([]int16, 11)))
	if _, err := h.RawData(rec); err == nil {
		t.Error("Expected error for truncated payload")
	}
}

// TestScaledData verifies elementwise value*slope + intercept under both
// conventions
func TestScaledData(t *testing.T) {
	values := []int16{10, -2, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	t.Run("dv", func(t *testing.T) {
		h := header(t, smallVolume())
		data, err := h.ScaledData(bytes.NewReader(partest.Int16Payload(values)))
		if err != nil {
			t.Fatalf("ScaledData failed: %v", err)
		}
		// RS=1.5, RI=0: stored 10 shows as 15 on the console
		if data[0] != 15.0 {
			t.Errorf("Scaled voxel 0 = %v, want 15", data[0])
		}
		if data[1] != -3.0 {
			t.Errorf("Scaled voxel 1 = %v, want -3", data[1])
		}
	})

	t.Run("fp", func(t *testing.T) {
		h := header(t, smallVolume(), WithScaling(scaling.FP))
		data, err := h.ScaledData(bytes.NewReader(partest.Int16Payload(values)))
		if err != nil {
			t.Fatalf("ScaledData failed: %v", err)
		}
		// 1/SS = 0.5: stored 10 is a physical value of 5
		if data[0] != 5.0 {
			t.Errorf("Scaled voxel 0 = %v, want 5", data[0])
		}
	})
}

// TestScaledDataWithIntercept verifies the intercept path through a nonzero
// rescale intercept
func TestScaledDataWithIntercept(t *testing.T) {
	params := smallVolume()
	params.RescaleIntercept = 100.0
	h := header(t, params)

	data, err := h.ScaledData(bytes.NewReader(partest.Int16Payload(make([]int16, 12))))
	if err != nil {
		t.Fatalf("ScaledData failed: %v", err)
	}
	for i, v := range data {
		if v != 100.0 {
			t.Fatalf("Voxel %d = %v, want 100", i, v)
		}
	}
}

// TestRawData8Bit verifies the 8-bit decode path
func TestRawData8Bit(t *testing.T) {
	params := smallVolume()
	params.PixelBits = 8
	h := header(t, params)

	payload := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 0xff}
	data, err := h.RawData(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("RawData failed: %v", err)
	}
	// voxels are signed: 0xff reads back as -1
	if data[11] != -1.0 {
		t.Errorf("Voxel 11 = %v, want -1", data[11])
	}
}

// TestRawDataSeeksToOffset verifies the read starts at the fixed offset 0
// even if the reader was positioned elsewhere
func TestRawDataSeeksToOffset(t *testing.T) {
	h := header(t, smallVolume())

	values := make([]int16, 12)
	values[0] = 42
	rec := bytes.NewReader(partest.Int16Payload(values))
	if _, err := rec.Seek(6, 0); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}

	data, err := h.RawData(rec)
	if err != nil {
		t.Fatalf("RawData failed: %v", err)
	}
	if data[0] != 42.0 {
		t.Errorf("Voxel 0 = %v, want 42: read did not start at offset 0", data[0])
	}
}
