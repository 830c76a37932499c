package blob

import (
	"form-register/internal/raster"
	"form-register/pkg/geometry"
)

// FindDarkBlobs scans a window of the buffer in raster order and extracts
// every connected dark region, returning those that pass the fiducial
// filters: pixel count at least MinSize², less than 5% of the full image
// area, and bounding-box aspect ratio under 2.5.
//
// Fills are confined to the window and capped at 5000 pixels each so a
// heavily inked scan cannot run away.
func FindDarkBlobs(buf *raster.Buffer, win geometry.RectInt, s Settings) []Blob {
	win = win.Intersect(buf.Bounds())
	if win.Empty() {
		return nil
	}

	visited := newVisitMap(win)
	imgArea := float64(buf.Width * buf.Height)
	minCount := s.MinSize * s.MinSize

	var blobs []Blob
	for y := win.Y; y < win.Y+win.Height; y++ {
		for x := win.X; x < win.X+win.Width; x++ {
			if visited.seen(x, y) || buf.Luminance(x, y) >= s.Threshold {
				continue
			}

			b := fillDark(buf, win, visited, x, y, s.Threshold)
			if b.Count < minCount {
				continue
			}
			if float64(b.Count) >= maxAreaFraction*imgArea {
				continue
			}
			if b.Aspect() >= maxAspect {
				continue
			}
			blobs = append(blobs, b)
		}
	}
	return blobs
}

// fillDark flood-fills the connected dark region containing (sx, sy),
// accumulating pixel count, bounding box and centroid.
func fillDark(buf *raster.Buffer, win geometry.RectInt, visited *visitMap, sx, sy int, threshold uint8) Blob {
	visited.mark(sx, sy)
	queue := []geometry.PointInt{{X: sx, Y: sy}}

	count := 0
	minX, maxX := sx, sx
	minY, maxY := sy, sy
	var sumX, sumY float64

	for len(queue) > 0 && count < maxBlobPixels {
		cur := queue[0]
		queue = queue[1:]

		count++
		sumX += float64(cur.X)
		sumY += float64(cur.Y)
		if cur.X < minX {
			minX = cur.X
		}
		if cur.X > maxX {
			maxX = cur.X
		}
		if cur.Y < minY {
			minY = cur.Y
		}
		if cur.Y > maxY {
			maxY = cur.Y
		}

		for _, d := range neighbors4 {
			nx, ny := cur.X+d.X, cur.Y+d.Y
			if !win.Contains(nx, ny) || visited.seen(nx, ny) {
				continue
			}
			if buf.Luminance(nx, ny) >= threshold {
				continue
			}
			visited.mark(nx, ny)
			queue = append(queue, geometry.PointInt{X: nx, Y: ny})
		}
	}

	return Blob{
		Count: count,
		Bounds: geometry.RectInt{
			X:      minX,
			Y:      minY,
			Width:  maxX - minX + 1,
			Height: maxY - minY + 1,
		},
		Centroid: geometry.Point2D{
			X: sumX / float64(count),
			Y: sumY / float64(count),
		},
	}
}
