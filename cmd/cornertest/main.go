// Command cornertest locates the four fiducial corner marks on a scan and
// prints their positions plus per-quadrant contrast statistics.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"form-register/internal/blob"
	"form-register/internal/fiducial"
	"form-register/internal/imageio"
	"form-register/internal/version"
	"form-register/pkg/geometry"
)

func main() {
	input := flag.String("i", "", "Path to scan image")
	minSize := flag.Int("min", 15, "Minimum fiducial dimension (pixels)")
	threshold := flag.Int("threshold", 160, "Grayscale dark/light cut (0-255)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("cornertest", version.String())
		return
	}
	if *input == "" {
		fmt.Println("Usage: cornertest -i <image> [-min N] [-threshold N]")
		os.Exit(1)
	}

	buf, err := imageio.LoadBuffer(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %s (%dx%d)\n", *input, buf.Width, buf.Height)

	// Report contrast over each corner window; washed-out quadrants are the
	// usual cause of missed marks.
	qw := buf.Width / 5
	qh := buf.Height / 5
	windows := map[string]geometry.RectInt{
		"TL": {X: 0, Y: 0, Width: qw, Height: qh},
		"TR": {X: buf.Width - qw, Y: 0, Width: qw, Height: qh},
		"BR": {X: buf.Width - qw, Y: buf.Height - qh, Width: qw, Height: qh},
		"BL": {X: 0, Y: buf.Height - qh, Width: qw, Height: qh},
	}
	for _, name := range []string{"TL", "TR", "BR", "BL"} {
		st := buf.WindowStats(windows[name])
		fmt.Printf("%s quadrant: luminance min=%d max=%d mean=%.1f\n", name, st.Min, st.Max, st.Mean)
	}

	settings := blob.DefaultSettings().
		WithMinSize(*minSize).
		WithThreshold(uint8(*threshold))

	corners, err := fiducial.Locate(buf, settings)
	if errors.Is(err, fiducial.ErrNotFound) {
		fmt.Println("Fiducials not found; check contrast above or lower -min/-threshold.")
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Detection failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("TL: (%.1f, %.1f)\n", corners.TopLeft.X, corners.TopLeft.Y)
	fmt.Printf("TR: (%.1f, %.1f)\n", corners.TopRight.X, corners.TopRight.Y)
	fmt.Printf("BR: (%.1f, %.1f)\n", corners.BottomRight.X, corners.BottomRight.Y)
	fmt.Printf("BL: (%.1f, %.1f)\n", corners.BottomLeft.X, corners.BottomLeft.Y)
}
