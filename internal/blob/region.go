package blob

import (
	"form-register/internal/raster"
	"form-register/pkg/geometry"
)

// DetectRegion auto-detects a rectangular region from a single seed point
// ("magic wand"). The seed must sit inside a light area enclosed by a dark
// border: the fill expands through 4-connected neighbors brighter than the
// threshold and stops at the first ring of dark pixels in every direction.
//
// Returns ErrNotFound when the seed is out of bounds or on a dark pixel,
// when the fill covers more than half the image (no enclosing border), or
// when the padded result is smaller than MinSize in either dimension.
func DetectRegion(buf *raster.Buffer, seed geometry.PointInt, s Settings) (geometry.RectInt, error) {
	if !buf.In(seed.X, seed.Y) {
		return geometry.RectInt{}, ErrNotFound
	}
	if buf.Luminance(seed.X, seed.Y) <= s.Threshold {
		// Seed sits on the dark border, not inside a light region.
		return geometry.RectInt{}, ErrNotFound
	}

	win := buf.Bounds()
	visited := newVisitMap(win)
	maxFill := int(maxRegionFraction * float64(win.Width*win.Height))

	visited.mark(seed.X, seed.Y)
	queue := []geometry.PointInt{seed}
	count := 1
	minX, maxX := seed.X, seed.X
	minY, maxY := seed.Y, seed.Y

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, d := range neighbors4 {
			nx, ny := cur.X+d.X, cur.Y+d.Y
			if !win.Contains(nx, ny) || visited.seen(nx, ny) {
				continue
			}
			// Mark dark neighbors too so the border ring is not revisited,
			// but only light pixels keep expanding.
			visited.mark(nx, ny)
			if buf.Luminance(nx, ny) <= s.Threshold {
				continue
			}

			count++
			if count > maxFill {
				// Degenerate image with no enclosing border.
				return geometry.RectInt{}, ErrNotFound
			}
			if nx < minX {
				minX = nx
			}
			if nx > maxX {
				maxX = nx
			}
			if ny < minY {
				minY = ny
			}
			if ny > maxY {
				maxY = ny
			}
			queue = append(queue, geometry.PointInt{X: nx, Y: ny})
		}
	}

	rect := geometry.RectInt{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX + 1,
		Height: maxY - minY + 1,
	}.Inflate(s.Padding)

	if rect.Width < s.MinSize || rect.Height < s.MinSize {
		return geometry.RectInt{}, ErrNotFound
	}
	return rect, nil
}
