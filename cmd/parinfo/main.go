package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gonum.org/v1/gonum/floats"

	"parrec/pkg/config"
	"parrec/pkg/geometry"
	"parrec/pkg/parrec"
	"parrec/pkg/scaling"
)

func main() {
	// Parse command line arguments
	parPath := flag.String("par", "", "Path to the .PAR header file")
	configPath := flag.String("config", "", "Optional YAML config file with decoder settings")
	method := flag.String("scaling", "", "Scaling method override: dv or fp")
	origin := flag.String("origin", "scanner", "Affine origin: scanner or fov")
	withData := flag.Bool("data", false, "Also decode the .REC payload and print intensity statistics")
	flag.Parse()

	// Validate inputs
	if *parPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if *method != "" {
		cfg.Scaling.DefaultMethod = *method
	}

	var header *parrec.Header
	var img *parrec.Image
	var err error
	if *withData {
		img, err = parrec.Load(*parPath, cfg.Options()...)
		if err != nil {
			log.Fatalf("Failed to load %s: %v", *parPath, err)
		}
		header = img.Header
	} else {
		f, err := os.Open(*parPath)
		if err != nil {
			log.Fatalf("Failed to open %s: %v", *parPath, err)
		}
		defer f.Close()
		header, err = parrec.FromReader(f, cfg.Options()...)
		if err != nil {
			log.Fatalf("Failed to parse %s: %v", *parPath, err)
		}
	}

	for _, warning := range header.Warnings() {
		log.Printf("Warning: %s", warning)
	}

	fmt.Printf("Header: %s\n", *parPath)
	fmt.Printf("  Pixel size:   %d bits\n", header.BitDepth())
	fmt.Printf("  Dimensions:   %d\n", header.NDim())
	fmt.Printf("  Shape:        %v\n", header.Shape())
	fmt.Printf("  Zooms:        %v\n", header.Zooms())

	size, err := header.VoxelSize()
	if err != nil {
		log.Fatalf("Failed to derive voxel size: %v", err)
	}
	fmt.Printf("  Voxel size:   %.3f x %.3f x %.3f mm\n", size[0], size[1], size[2])

	orientation, err := header.SliceOrientation()
	if err != nil {
		log.Fatalf("Failed to derive slice orientation: %v", err)
	}
	fmt.Printf("  Orientation:  %s\n", orientation)

	slope, intercept, err := header.Scaling(scaling.Method(cfg.Scaling.DefaultMethod))
	if err != nil {
		log.Fatalf("Failed to derive scaling: %v", err)
	}
	fmt.Printf("  Scaling:      %s (slope %g, intercept %g)\n",
		cfg.Scaling.DefaultMethod, slope, intercept)

	affine, err := header.Affine(geometry.Origin(*origin))
	if err != nil {
		log.Fatalf("Failed to derive affine: %v", err)
	}
	fmt.Printf("  Affine (%s origin):\n", *origin)
	for i := 0; i < 4; i++ {
		fmt.Printf("    [%10.4f %10.4f %10.4f %10.4f]\n",
			affine.At(i, 0), affine.At(i, 1), affine.At(i, 2), affine.At(i, 3))
	}

	if *withData {
		fmt.Printf("  Voxels:       %d\n", len(img.Data))
		fmt.Printf("  Min:          %g\n", floats.Min(img.Data))
		fmt.Printf("  Max:          %g\n", floats.Max(img.Data))
		fmt.Printf("  Mean:         %g\n", floats.Sum(img.Data)/float64(len(img.Data)))
	}
}
