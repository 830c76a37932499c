// Package warp resamples target rectangles out of a possibly skewed scan
// into rectified pixel buffers, using an inverse-direction homography and
// nearest-neighbor lookup.
package warp

import (
	"math"

	"form-register/internal/homography"
	"form-register/internal/raster"
	"form-register/pkg/geometry"
)

// Rectify extracts the target rectangle, defined in ideal template space,
// from the scanned source buffer and returns a rectified buffer of exactly
// target.Width × target.Height pixels.
//
// The homography is solved in the inverse direction — ideal corners as the
// origin points, scan corners as the destinations — so applying it to an
// ideal-space coordinate yields the matching scan-space coordinate without
// a second matrix inversion. Sampling is nearest-neighbor; mapped
// coordinates outside the source are written fully transparent rather than
// clamped or skipped.
//
// Returns ErrDegenerate from the homography solve when the corner sets are
// collinear or coincident.
func Rectify(buf *raster.Buffer, scanCorners, idealCorners geometry.Corners, target geometry.RectInt) (*raster.Buffer, error) {
	h, err := homography.Solve(idealCorners.Points(), scanCorners.Points())
	if err != nil {
		return nil, err
	}
	return resample(buf, h, target), nil
}

// RectifyWith resamples using an already solved ideal→scan transform,
// avoiding a redundant solve when many rectangles come off one page.
func RectifyWith(buf *raster.Buffer, h homography.Matrix, target geometry.RectInt) *raster.Buffer {
	return resample(buf, h, target)
}

func resample(buf *raster.Buffer, h homography.Matrix, target geometry.RectInt) *raster.Buffer {
	out := raster.New(target.Width, target.Height)
	for dy := 0; dy < target.Height; dy++ {
		for dx := 0; dx < target.Width; dx++ {
			src := h.Apply(geometry.Point2D{
				X: float64(target.X + dx),
				Y: float64(target.Y + dy),
			})
			sx := int(math.Round(src.X))
			sy := int(math.Round(src.Y))
			if !buf.In(sx, sy) {
				// Out of bounds maps to transparent, never clamped.
				continue
			}
			r, g, b, a := buf.RGBA(sx, sy)
			out.SetRGBA(dx, dy, r, g, b, a)
		}
	}
	return out
}
