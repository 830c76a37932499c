// Package fiducial locates the four printed corner registration marks on a
// scanned page. Each mark is a small dark square near a page corner; the
// locator searches the outer corner quadrants and keeps the best dark blob
// per quadrant.
package fiducial

import (
	"errors"

	"form-register/internal/blob"
	"form-register/internal/raster"
	"form-register/pkg/geometry"
)

// ErrNotFound reports that no complete corner set could be located. The
// caller must treat this as "fiducials not found", never as a condition to
// retry automatically.
var ErrNotFound = errors.New("fiducial: corner marks not found")

// quadrantRatio fixes the corner search windows at the outer 20%-by-20% of
// the image. Existing templates are calibrated against this window; it is
// part of the behavioral contract, not a tunable.
const quadrantRatio = 0.2

// quadrant pairs a search window with the corner target point its winning
// blob centroid should be closest to.
type quadrant struct {
	window geometry.RectInt
	target geometry.Point2D
}

// quadrants returns the four corner search regions for an image of the
// given size, ordered TL, TR, BR, BL.
func quadrants(width, height int) [4]quadrant {
	qw := int(float64(width) * quadrantRatio)
	qh := int(float64(height) * quadrantRatio)
	w, h := float64(width), float64(height)

	return [4]quadrant{
		{window: geometry.RectInt{X: 0, Y: 0, Width: qw, Height: qh}, target: geometry.Point2D{X: 0, Y: 0}},
		{window: geometry.RectInt{X: width - qw, Y: 0, Width: qw, Height: qh}, target: geometry.Point2D{X: w, Y: 0}},
		{window: geometry.RectInt{X: width - qw, Y: height - qh, Width: qw, Height: qh}, target: geometry.Point2D{X: w, Y: h}},
		{window: geometry.RectInt{X: 0, Y: height - qh, Width: qw, Height: qh}, target: geometry.Point2D{X: 0, Y: h}},
	}
}

// Locate finds the four corner marks and returns their centroids as a
// Corners set. Each quadrant is searched independently in dark-blob mode;
// among accepted blobs the one whose centroid is closest to the quadrant's
// corner wins. If any quadrant produces no winner the detection fails as a
// whole with ErrNotFound — there are no partial results.
func Locate(buf *raster.Buffer, s blob.Settings) (geometry.Corners, error) {
	var pts [4]geometry.Point2D
	for i, q := range quadrants(buf.Width, buf.Height) {
		blobs := blob.FindDarkBlobs(buf, q.window, s)
		best, ok := blob.ClosestCentroid(blobs, q.target)
		if !ok {
			return geometry.Corners{}, ErrNotFound
		}
		pts[i] = best.Centroid
	}
	return geometry.CornersFromPoints(pts), nil
}
