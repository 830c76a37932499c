// Package imageio loads scan images into pixel buffers and writes rectified
// crops back out. Decoding and encoding live outside the engine core; the
// detection code only ever sees raster buffers.
package imageio

import (
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder

	"form-register/internal/raster"
)

// Load decodes an image file. PNG, JPEG, GIF, TIFF and BMP are supported.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// LoadBuffer decodes an image file straight into a pixel buffer.
func LoadBuffer(path string) (*raster.Buffer, error) {
	img, err := Load(path)
	if err != nil {
		return nil, err
	}
	return raster.FromImage(img), nil
}

// SavePNG writes a pixel buffer to disk as PNG.
func SavePNG(buf *raster.Buffer, path string) error {
	if err := imaging.Save(buf.ToImage(), path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// SaveImagePNG writes a standard library image to disk as PNG.
func SaveImagePNG(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// Preview returns a copy of the buffer's image downscaled to fit within
// maxDim on its longer side, for quick visual checks from the harnesses.
// Buffers already within the limit are returned unscaled.
func Preview(buf *raster.Buffer, maxDim int) image.Image {
	img := buf.ToImage()
	if buf.Width <= maxDim && buf.Height <= maxDim {
		return img
	}
	return imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
}
