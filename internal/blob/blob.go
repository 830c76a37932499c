// Package blob implements connected-component extraction over pixel buffers.
// Two flood-fill modes cover the engine's detection needs: a bright-interior
// fill bounded by a dark border (single-seed region auto-detect) and dark-blob
// extraction with size and aspect filtering (fiducial mark candidates).
package blob

import (
	"errors"

	"form-register/pkg/geometry"
)

// ErrNotFound reports that no region or blob satisfying the detection
// contract could be located. It is an expected outcome, not a fault;
// callers prompt the user or adjust settings rather than retrying.
var ErrNotFound = errors.New("blob: no detection")

const (
	// maxBlobPixels caps a single dark-blob fill so heavily inked scans
	// cannot run away.
	maxBlobPixels = 5000

	// maxAreaFraction rejects dark blobs covering 5% or more of the full
	// image; fiducial marks are always small.
	maxAreaFraction = 0.05

	// maxAspect rejects elongated blobs (thin lines, rulings). The ratio
	// is max(w,h)/min(w,h) of the bounding box.
	maxAspect = 2.5

	// maxRegionFraction aborts a bright-interior fill once it covers half
	// the search area, guarding against images with no real border.
	maxRegionFraction = 0.5
)

// Blob describes one connected dark region found by FindDarkBlobs. Blobs are
// transient: they exist for one pass and are discarded once filtered or
// promoted to a corner point.
type Blob struct {
	Count    int              // number of pixels in the component
	Bounds   geometry.RectInt // bounding box in image coordinates
	Centroid geometry.Point2D // mean pixel position
}

// Aspect returns the bounding-box aspect ratio, max(w,h)/min(w,h).
func (b Blob) Aspect() float64 {
	w, h := float64(b.Bounds.Width), float64(b.Bounds.Height)
	if w <= 0 || h <= 0 {
		return 0
	}
	if w > h {
		return w / h
	}
	return h / w
}

// ClosestCentroid returns the blob whose centroid is Euclidean-closest to
// target. Returns false when the slice is empty.
func ClosestCentroid(blobs []Blob, target geometry.Point2D) (Blob, bool) {
	if len(blobs) == 0 {
		return Blob{}, false
	}
	best := blobs[0]
	bestDist := best.Centroid.Distance(target)
	for _, b := range blobs[1:] {
		if d := b.Centroid.Distance(target); d < bestDist {
			best = b
			bestDist = d
		}
	}
	return best, true
}

// visitMap is a visited bitmap sized to a search window rather than the
// whole image, keeping fills local.
type visitMap struct {
	win  geometry.RectInt
	bits []bool
}

func newVisitMap(win geometry.RectInt) *visitMap {
	return &visitMap{win: win, bits: make([]bool, win.Width*win.Height)}
}

func (v *visitMap) index(x, y int) int {
	return (y-v.win.Y)*v.win.Width + (x - v.win.X)
}

func (v *visitMap) seen(x, y int) bool {
	return v.bits[v.index(x, y)]
}

func (v *visitMap) mark(x, y int) {
	v.bits[v.index(x, y)] = true
}

// neighbors4 lists the 4-connected offsets used by both fill modes.
var neighbors4 = [4]geometry.PointInt{
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
}
