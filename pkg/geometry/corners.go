package geometry

import "sort"

// Corners holds the four registration corner points of a page, ordered
// TL, TR, BR, BL. A Corners value is only meaningful when all four points
// were found; partial sets are never constructed.
type Corners struct {
	TopLeft     Point2D `json:"top_left"`
	TopRight    Point2D `json:"top_right"`
	BottomRight Point2D `json:"bottom_right"`
	BottomLeft  Point2D `json:"bottom_left"`
}

// Points returns the corners in TL, TR, BR, BL order.
func (c Corners) Points() [4]Point2D {
	return [4]Point2D{c.TopLeft, c.TopRight, c.BottomRight, c.BottomLeft}
}

// CornersFromPoints builds a Corners from four points already in
// TL, TR, BR, BL order.
func CornersFromPoints(pts [4]Point2D) Corners {
	return Corners{
		TopLeft:     pts[0],
		TopRight:    pts[1],
		BottomRight: pts[2],
		BottomLeft:  pts[3],
	}
}

// OrderCorners orders four arbitrary points into a consistent TL, TR, BR, BL
// Corners. Useful when the points come from manual clicks in no particular
// order. Returns false if fewer or more than four points are given.
func OrderCorners(points []Point2D) (Corners, bool) {
	if len(points) != 4 {
		return Corners{}, false
	}

	// Sort by Y first to separate top and bottom pairs
	sorted := make([]Point2D, 4)
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Y < sorted[j].Y
	})

	topPair := sorted[:2]
	bottomPair := sorted[2:]

	sort.Slice(topPair, func(i, j int) bool {
		return topPair[i].X < topPair[j].X
	})
	sort.Slice(bottomPair, func(i, j int) bool {
		return bottomPair[i].X < bottomPair[j].X
	})

	return Corners{
		TopLeft:     topPair[0],
		TopRight:    topPair[1],
		BottomRight: bottomPair[1],
		BottomLeft:  bottomPair[0],
	}, true
}
