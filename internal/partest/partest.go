// Package partest generates synthetic PAR headers and REC payloads for the
// package tests of this module.
package partest

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Params controls the synthetic header. Zero values fall back to the
// defaults from Default, applied by normalize.
type Params struct {
	// Version is the format version written on the export tool line
	Version string

	// Slices is the number of distinct slice numbers in the image rows
	Slices int

	// MaxSlices is the slice count claimed in the general information;
	// 0 means consistent with Slices
	MaxSlices int

	// Dynamics and Echoes are the distinct dynamic scan and echo numbers
	// in the image rows; the general information claims the same counts
	// unless MaxDynamics/MaxEchoes override them
	Dynamics, Echoes         int
	MaxDynamics, MaxEchoes   int
	MaxDiffusionValues       int
	MaxGradientOrient        int
	ReconX, ReconY           int
	PixelSpacingX            float64
	PixelSpacingY            float64
	Thickness, Gap           float64
	RepetitionTime           float64
	OrientationCode          int
	PixelBits                int
	RescaleIntercept         float64
	RescaleSlope, ScaleSlope float64
	Angulation, OffCenter    [3]float64

	// ExtraGeneral lines are appended verbatim to the general section
	ExtraGeneral []string
}

// Default returns the parameters of a small single-volume transverse series:
// 3 slices of 64x64, 3.75 mm in-plane spacing, 6 mm thickness with a 2 mm
// gap, 16-bit voxels, scaling SS=2.0 RS=1.5 RI=0.
func Default() Params {
	return Params{
		Version:            "V4.2",
		Slices:             3,
		Dynamics:           1,
		Echoes:             1,
		MaxDiffusionValues: 1,
		MaxGradientOrient:  1,
		ReconX:             64,
		ReconY:             64,
		PixelSpacingX:      3.75,
		PixelSpacingY:      3.75,
		Thickness:          6.0,
		Gap:                2.0,
		RepetitionTime:     2000.0,
		OrientationCode:    1,
		PixelBits:          16,
		RescaleSlope:       1.5,
		ScaleSlope:         2.0,
	}
}

func (p Params) normalize() Params {
	d := Default()
	if p.Version == "" {
		p.Version = d.Version
	}
	if p.Slices == 0 {
		p.Slices = d.Slices
	}
	if p.MaxSlices == 0 {
		p.MaxSlices = p.Slices
	}
	if p.Dynamics == 0 {
		p.Dynamics = 1
	}
	if p.Echoes == 0 {
		p.Echoes = 1
	}
	if p.MaxDynamics == 0 {
		p.MaxDynamics = p.Dynamics
	}
	if p.MaxEchoes == 0 {
		p.MaxEchoes = p.Echoes
	}
	if p.MaxDiffusionValues == 0 {
		p.MaxDiffusionValues = 1
	}
	if p.MaxGradientOrient == 0 {
		p.MaxGradientOrient = 1
	}
	if p.ReconX == 0 {
		p.ReconX = d.ReconX
	}
	if p.ReconY == 0 {
		p.ReconY = d.ReconY
	}
	if p.PixelSpacingX == 0 {
		p.PixelSpacingX = d.PixelSpacingX
	}
	if p.PixelSpacingY == 0 {
		p.PixelSpacingY = d.PixelSpacingY
	}
	if p.Thickness == 0 {
		p.Thickness = d.Thickness
	}
	if p.Gap == 0 {
		p.Gap = d.Gap
	}
	if p.RepetitionTime == 0 {
		p.RepetitionTime = d.RepetitionTime
	}
	if p.OrientationCode == 0 {
		p.OrientationCode = d.OrientationCode
	}
	if p.PixelBits == 0 {
		p.PixelBits = d.PixelBits
	}
	if p.RescaleSlope == 0 {
		p.RescaleSlope = d.RescaleSlope
	}
	if p.ScaleSlope == 0 {
		p.ScaleSlope = d.ScaleSlope
	}
	return p
}

// Header renders the PAR header text.
func (p Params) Header() string {
	p = p.normalize()
	var b strings.Builder

	b.WriteString("# === DATA DESCRIPTION FILE ======================================================\n")
	b.WriteString("# CAUTION - Investigational device.\n")
	b.WriteString("# Limited by Federal Law to investigational use.\n")
	fmt.Fprintf(&b, "# CLINICAL TRYOUT             Research image export tool     %s\n", p.Version)
	b.WriteString("#\n")
	b.WriteString("# === GENERAL INFORMATION ========================================================\n")

	dynScan := 0
	if p.MaxDynamics > 1 {
		dynScan = 1
	}
	diffusion := 0
	if p.MaxDiffusionValues > 1 {
		diffusion = 1
	}
	general := []struct {
		key, value string
	}{
		{"Patient name", "phantom"},
		{"Examination name", "phantom study"},
		{"Protocol name", "T1 SE"},
		{"Examination date/time", "2005.07.06 / 09:37:51"},
		{"Series Type", "Image   MRSERIES"},
		{"Acquisition nr", "2"},
		{"Reconstruction nr", "1"},
		{"Scan Duration [sec]", "86"},
		{"Max. number of cardiac phases", "1"},
		{"Max. number of echoes", fmt.Sprintf("%d", p.MaxEchoes)},
		{"Max. number of slices/locations", fmt.Sprintf("%d", p.MaxSlices)},
		{"Max. number of dynamics", fmt.Sprintf("%d", p.MaxDynamics)},
		{"Max. number of mixes", "1"},
		{"Patient position", "Head First Supine"},
		{"Preparation direction", "Anterior-Posterior"},
		{"Technique", "SE"},
		{"Scan resolution  (x, y)", fmt.Sprintf("%d  %d", p.ReconX, p.ReconY)},
		{"Scan mode", "MS"},
		{"Repetition time [ms]", fmt.Sprintf("%.3f", p.RepetitionTime)},
		{"FOV (ap,fh,rl) [mm]", "76.923  230.000  230.000"},
		{"Water Fat shift [pixels]", "0.00"},
		{"Angulation midslice(ap,fh,rl)[degr]", formatTriple(p.Angulation)},
		{"Off Centre midslice(ap,fh,rl) [mm]", formatTriple(p.OffCenter)},
		{"Flow compensation <0=no 1=yes> ?", "0"},
		{"Presaturation     <0=no 1=yes> ?", "0"},
		{"Phase encoding velocity [cm/sec]", "0.000000  0.000000  0.000000"},
		{"MTC               <0=no 1=yes> ?", "0"},
		{"SPIR              <0=no 1=yes> ?", "0"},
		{"EPI factor        <0,1=no EPI>", "1"},
		{"Dynamic scan      <0=no 1=yes> ?", fmt.Sprintf("%d", dynScan)},
		{"Diffusion         <0=no 1=yes> ?", fmt.Sprintf("%d", diffusion)},
		{"Diffusion echo time [ms]", "0.0000"},
		{"Max. number of diffusion values", fmt.Sprintf("%d", p.MaxDiffusionValues)},
		{"Max. number of gradient orients", fmt.Sprintf("%d", p.MaxGradientOrient)},
		{"Number of label types   <0=no ASL>", "0"},
	}
	for _, g := range general {
		fmt.Fprintf(&b, ".    %-37s:   %s\n", g.key, g.value)
	}
	for _, line := range p.ExtraGeneral {
		b.WriteString(line + "\n")
	}

	b.WriteString("#\n")
	b.WriteString("# === IMAGE INFORMATION ==========================================================\n")
	b.WriteString("#  sl ec  dyn ph ty    idx pix scan% rec size                (re)scale              window        angulation              offcentre        thick   gap   info      spacing     echo     dtime   ttime    diff  avg  flip    freq   RR-int  turbo delay b grad cont anis         diffusion       L.ty\n")
	b.WriteString("\n")

	index := 0
	for dyn := 1; dyn <= p.Dynamics; dyn++ {
		for echo := 1; echo <= p.Echoes; echo++ {
			for slice := 1; slice <= p.Slices; slice++ {
				b.WriteString(p.row(slice, echo, dyn, index))
				index++
			}
		}
	}
	return b.String()
}

// row renders one image-definition line with all 41 schema fields.
func (p Params) row(slice, echo, dyn, index int) string {
	// per-slice drift in the off-center keeps the rows realistic; the
	// homogeneity-checked columns stay constant
	offAP := p.OffCenter[0] + float64(slice-1)*0.5
	return fmt.Sprintf("%3d %2d %4d %2d %d %d %6d %3d %5d %4d %4d "+
		"%10.5f %10.5f %.5e %5d %5d "+
		"%6.2f %6.2f %6.2f %7.2f %7.2f %7.2f "+
		"%6.3f %6.3f %d %d %d %d %6.3f %6.3f "+
		"%6.2f %7.2f %7.2f %7.2f %3d %6.2f %5d %4d %4d %5d %5.1f %d %3d %4d %3d %7.3f %7.3f %7.3f %2d\n",
		slice, echo, dyn, 1, 0, 2, index, p.PixelBits, 62, p.ReconX, p.ReconY,
		p.RescaleIntercept, p.RescaleSlope, p.ScaleSlope, 1070, 1860,
		p.Angulation[0], p.Angulation[1], p.Angulation[2], offAP, p.OffCenter[1], p.OffCenter[2],
		p.Thickness, p.Gap, 0, p.OrientationCode, 0, 2, p.PixelSpacingX, p.PixelSpacingY,
		30.0*float64(echo), float64(dyn-1)*p.RepetitionTime/1000.0, 0.0, 0.0, 1, 90.0, 0, 0, 0, 1, 0.0, 1, 1, 8, 0, 0.0, 0.0, 0.0, 1)
}

func formatTriple(v [3]float64) string {
	return fmt.Sprintf("%.3f  %.3f  %.3f", v[0], v[1], v[2])
}

// Int16Payload encodes stored values as a little-endian REC payload of
// 16-bit voxels.
func Int16Payload(values []int16) []byte {
	buf := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(v))
	}
	return buf
}
