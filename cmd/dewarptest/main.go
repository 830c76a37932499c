// Command dewarptest registers a scan against a template file and writes
// the rectified crop of every template region to an output directory.
//
// The template file is JSON, persisted by the surrounding application:
//
//	{
//	  "ideal_corners": {
//	    "top_left": {"x": 40, "y": 40},
//	    "top_right": {"x": 2440, "y": 40},
//	    "bottom_right": {"x": 2440, "y": 3440},
//	    "bottom_left": {"x": 40, "y": 3440}
//	  },
//	  "regions": [
//	    {"name": "q1", "rect": {"x": 200, "y": 600, "width": 400, "height": 120}}
//	  ]
//	}
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"form-register/internal/blob"
	"form-register/internal/fiducial"
	"form-register/internal/imageio"
	"form-register/internal/register"
	"form-register/internal/version"
	"form-register/pkg/geometry"
)

// templateFile mirrors the template JSON persisted alongside each form.
type templateFile struct {
	IdealCorners geometry.Corners `json:"ideal_corners"`
	Regions      []templateRegion `json:"regions"`
}

type templateRegion struct {
	Name string           `json:"name"`
	Rect geometry.RectInt `json:"rect"`
}

func main() {
	input := flag.String("i", "", "Path to scan image")
	templatePath := flag.String("t", "", "Path to template JSON")
	outDir := flag.String("o", ".", "Output directory for rectified crops")
	minSize := flag.Int("min", 15, "Minimum fiducial dimension (pixels)")
	threshold := flag.Int("threshold", 160, "Grayscale dark/light cut (0-255)")
	previewDim := flag.Int("preview", 0, "If > 0, also write a downscaled preview of each crop")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("dewarptest", version.String())
		return
	}
	if *input == "" || *templatePath == "" {
		fmt.Println("Usage: dewarptest -i <image> -t <template.json> [-o <dir>] [-min N] [-threshold N]")
		os.Exit(1)
	}

	tmpl, err := loadTemplate(*templatePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load template: %v\n", err)
		os.Exit(1)
	}
	if len(tmpl.Regions) == 0 {
		fmt.Fprintln(os.Stderr, "Template defines no regions")
		os.Exit(1)
	}

	buf, err := imageio.LoadBuffer(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %s (%dx%d), %d template regions\n", *input, buf.Width, buf.Height, len(tmpl.Regions))

	settings := blob.DefaultSettings().
		WithMinSize(*minSize).
		WithThreshold(uint8(*threshold))
	engine := register.NewEngine(settings)

	targets := make([]geometry.RectInt, len(tmpl.Regions))
	for i, r := range tmpl.Regions {
		targets[i] = r.Rect
	}

	result, err := engine.Dewarp(buf, *input, tmpl.IdealCorners, targets)
	if errors.Is(err, fiducial.ErrNotFound) {
		fmt.Println("Fiducials not found; nothing written.")
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Registration failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Corners: TL(%.1f,%.1f) TR(%.1f,%.1f) BR(%.1f,%.1f) BL(%.1f,%.1f)\n",
		result.Corners.TopLeft.X, result.Corners.TopLeft.Y,
		result.Corners.TopRight.X, result.Corners.TopRight.Y,
		result.Corners.BottomRight.X, result.Corners.BottomRight.Y,
		result.Corners.BottomLeft.X, result.Corners.BottomLeft.Y)

	for i, region := range result.Regions {
		name := tmpl.Regions[i].Name
		if name == "" {
			name = fmt.Sprintf("region-%03d", i+1)
		}
		outPath := filepath.Join(*outDir, name+".png")
		if err := imageio.SavePNG(region, outPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save %s: %v\n", outPath, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s (%dx%d)\n", outPath, region.Width, region.Height)

		if *previewDim > 0 {
			previewPath := filepath.Join(*outDir, name+"-preview.png")
			preview := imageio.Preview(region, *previewDim)
			if err := imageio.SaveImagePNG(preview, previewPath); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to save preview %s: %v\n", previewPath, err)
				os.Exit(1)
			}
		}
	}
}

func loadTemplate(path string) (*templateFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tmpl templateFile
	if err := json.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &tmpl, nil
}
