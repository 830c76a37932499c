// Command regiontest runs single-seed region auto-detection on a scan and
// prints the resulting rectangle.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"form-register/internal/blob"
	"form-register/internal/imageio"
	"form-register/internal/version"
	"form-register/pkg/geometry"
)

func main() {
	input := flag.String("i", "", "Path to scan image")
	seedX := flag.Int("x", -1, "Seed point X (pixels)")
	seedY := flag.Int("y", -1, "Seed point Y (pixels)")
	minSize := flag.Int("min", 15, "Minimum region dimension (pixels)")
	threshold := flag.Int("threshold", 160, "Grayscale dark/light cut (0-255)")
	padding := flag.Int("pad", 0, "Signed padding applied to the result")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("regiontest", version.String())
		return
	}
	if *input == "" || *seedX < 0 || *seedY < 0 {
		fmt.Println("Usage: regiontest -i <image> -x <seedX> -y <seedY> [-min N] [-threshold N] [-pad N]")
		os.Exit(1)
	}

	buf, err := imageio.LoadBuffer(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %s (%dx%d)\n", *input, buf.Width, buf.Height)

	settings := blob.DefaultSettings().
		WithMinSize(*minSize).
		WithThreshold(uint8(*threshold)).
		WithPadding(*padding)

	seed := geometry.PointInt{X: *seedX, Y: *seedY}
	rect, err := blob.DetectRegion(buf, seed, settings)
	if errors.Is(err, blob.ErrNotFound) {
		fmt.Printf("No region found at seed (%d,%d); adjust the seed or settings.\n", seed.X, seed.Y)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Detection failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Region: x=%d y=%d w=%d h=%d\n", rect.X, rect.Y, rect.Width, rect.Height)
}
