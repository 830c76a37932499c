// Package raster wraps decoded images as flat RGBA pixel buffers with
// grayscale queries. Buffers are built once per scan and shared read-only
// with the detection and resampling code.
package raster

import (
	"image"
	"image/color"

	"form-register/pkg/geometry"
)

// Buffer is a width×height grid of 4-channel pixels in NRGBA order.
// Source buffers are never mutated after construction; only freshly
// created output buffers (see New) are written to, by their owner.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8 // 4 bytes per pixel: R, G, B, A
}

// New creates an empty (fully transparent) buffer of the given size.
func New(width, height int) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// FromImage converts a decoded image into a Buffer. The fast paths copy
// *image.NRGBA and *image.RGBA pixel data directly; anything else goes
// through the generic color model.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	buf := New(w, h)

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			row := src.Pix[(y+bounds.Min.Y-src.Rect.Min.Y)*src.Stride+(bounds.Min.X-src.Rect.Min.X)*4:]
			copy(buf.Pix[y*w*4:(y+1)*w*4], row[:w*4])
		}
	case *image.RGBA:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := src.RGBAAt(x+bounds.Min.X, y+bounds.Min.Y)
				i := (y*w + x) * 4
				buf.Pix[i+0] = c.R
				buf.Pix[i+1] = c.G
				buf.Pix[i+2] = c.B
				buf.Pix[i+3] = c.A
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, b, a := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
				i := (y*w + x) * 4
				buf.Pix[i+0] = uint8(r >> 8)
				buf.Pix[i+1] = uint8(g >> 8)
				buf.Pix[i+2] = uint8(b >> 8)
				buf.Pix[i+3] = uint8(a >> 8)
			}
		}
	}
	return buf
}

// In returns true if pixel (x, y) lies inside the buffer.
func (b *Buffer) In(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// Bounds returns the buffer extent as a RectInt at the origin.
func (b *Buffer) Bounds() geometry.RectInt {
	return geometry.RectInt{Width: b.Width, Height: b.Height}
}

// RGBA returns the four channels of pixel (x, y). Caller must ensure the
// coordinate is in bounds.
func (b *Buffer) RGBA(x, y int) (r, g, bl, a uint8) {
	i := (y*b.Width + x) * 4
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

// SetRGBA writes the four channels of pixel (x, y). Only used on buffers
// the caller owns; shared source buffers are treated as immutable.
func (b *Buffer) SetRGBA(x, y int, r, g, bl, a uint8) {
	i := (y*b.Width + x) * 4
	b.Pix[i+0] = r
	b.Pix[i+1] = g
	b.Pix[i+2] = bl
	b.Pix[i+3] = a
}

// Luminance returns the grayscale value of pixel (x, y) using ITU-R BT.601
// weights: 0.299*R + 0.587*G + 0.114*B.
func (b *Buffer) Luminance(x, y int) uint8 {
	i := (y*b.Width + x) * 4
	return uint8(0.299*float64(b.Pix[i]) + 0.587*float64(b.Pix[i+1]) + 0.114*float64(b.Pix[i+2]))
}

// LuminanceStats holds brightness statistics for a window of a buffer.
type LuminanceStats struct {
	Min  uint8
	Max  uint8
	Mean float64
}

// WindowStats computes luminance statistics over the part of win that lies
// inside the buffer. Used by the harnesses to report scan contrast quality.
func (b *Buffer) WindowStats(win geometry.RectInt) LuminanceStats {
	win = win.Intersect(b.Bounds())
	stats := LuminanceStats{Min: 255}
	if win.Empty() {
		return LuminanceStats{}
	}
	var sum uint64
	for y := win.Y; y < win.Y+win.Height; y++ {
		for x := win.X; x < win.X+win.Width; x++ {
			v := b.Luminance(x, y)
			if v < stats.Min {
				stats.Min = v
			}
			if v > stats.Max {
				stats.Max = v
			}
			sum += uint64(v)
		}
	}
	stats.Mean = float64(sum) / float64(win.Width*win.Height)
	return stats
}

// ToImage converts the buffer back to a standard library image.
func (b *Buffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	copy(img.Pix, b.Pix)
	return img
}

// At implements enough of image.Image-style access for spot checks in
// harnesses and tests.
func (b *Buffer) At(x, y int) color.NRGBA {
	r, g, bl, a := b.RGBA(x, y)
	return color.NRGBA{R: r, G: g, B: bl, A: a}
}
