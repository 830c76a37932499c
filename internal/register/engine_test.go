package register

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"form-register/internal/blob"
	"form-register/internal/fiducial"
	"form-register/internal/homography"
	"form-register/internal/raster"
	"form-register/pkg/geometry"
)

func whitePage(w, h int) *raster.Buffer {
	buf := raster.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			buf.SetRGBA(x, y, 255, 255, 255, 255)
		}
	}
	return buf
}

func fillDarkRect(buf *raster.Buffer, r geometry.RectInt) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			buf.SetRGBA(x, y, 20, 20, 20, 255)
		}
	}
}

// markedPage builds a 500×500 page with 15px corner marks whose centroids
// land on (27,27), (472,27), (472,472), (27,472).
func markedPage() *raster.Buffer {
	page := whitePage(500, 500)
	fillDarkRect(page, geometry.NewRectInt(20, 20, 15, 15))
	fillDarkRect(page, geometry.NewRectInt(465, 20, 15, 15))
	fillDarkRect(page, geometry.NewRectInt(465, 465, 15, 15))
	fillDarkRect(page, geometry.NewRectInt(20, 465, 15, 15))
	return page
}

func idealCorners() geometry.Corners {
	return geometry.Corners{
		TopLeft:     geometry.Point2D{X: 27, Y: 27},
		TopRight:    geometry.Point2D{X: 472, Y: 27},
		BottomRight: geometry.Point2D{X: 472, Y: 472},
		BottomLeft:  geometry.Point2D{X: 27, Y: 472},
	}
}

func TestCornersCaching(t *testing.T) {
	e := NewEngine(blob.DefaultSettings())

	got, err := e.Corners(markedPage(), "page-1")
	require.NoError(t, err)
	require.InDelta(t, 27, got.TopLeft.X, 2.0)

	// Same key with a blank page: the cached result is served, detection
	// does not run again.
	cached, err := e.Corners(whitePage(500, 500), "page-1")
	require.NoError(t, err)
	require.Equal(t, got, cached)
}

func TestCornersErrorIsCachedToo(t *testing.T) {
	e := NewEngine(blob.DefaultSettings())

	_, err := e.Corners(whitePage(500, 500), "page-1")
	require.ErrorIs(t, err, fiducial.ErrNotFound)

	// A good page under the same key still reports the memoized failure
	// until the entry is invalidated.
	_, err = e.Corners(markedPage(), "page-1")
	require.ErrorIs(t, err, fiducial.ErrNotFound)

	e.Invalidate("page-1")
	_, err = e.Corners(markedPage(), "page-1")
	require.NoError(t, err)
}

func TestCornersEmptyIDBypassesCache(t *testing.T) {
	e := NewEngine(blob.DefaultSettings())

	_, err := e.Corners(whitePage(500, 500), "")
	require.ErrorIs(t, err, fiducial.ErrNotFound)

	// No entry was recorded, so a good page detects fresh.
	_, err = e.Corners(markedPage(), "")
	require.NoError(t, err)
}

func TestReset(t *testing.T) {
	e := NewEngine(blob.DefaultSettings())

	_, err := e.Corners(whitePage(500, 500), "page-1")
	require.ErrorIs(t, err, fiducial.ErrNotFound)

	e.Reset()
	_, err = e.Corners(markedPage(), "page-1")
	require.NoError(t, err)
}

func TestCornersConcurrentSingleDetection(t *testing.T) {
	e := NewEngine(blob.DefaultSettings())
	page := markedPage()

	var wg sync.WaitGroup
	results := make([]geometry.Corners, 16)
	errs := make([]error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = e.Corners(page, "page-1")
		}(i)
	}
	wg.Wait()

	for i := 0; i < 16; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, results[0], results[i])
	}
}

func TestDewarp(t *testing.T) {
	e := NewEngine(blob.DefaultSettings())
	targets := []geometry.RectInt{
		geometry.NewRectInt(100, 100, 40, 30),
		geometry.NewRectInt(200, 300, 25, 25),
	}

	res, err := e.Dewarp(markedPage(), "page-1", idealCorners(), targets)
	require.NoError(t, err)
	require.Len(t, res.Regions, 2)
	require.Equal(t, 40, res.Regions[0].Width)
	require.Equal(t, 30, res.Regions[0].Height)
	require.Equal(t, 25, res.Regions[1].Width)
	require.InDelta(t, 27, res.Corners.TopLeft.X, 2.0)

	// Interior of an aligned white page stays white and opaque.
	r, g, b, a := res.Regions[0].RGBA(5, 5)
	require.Equal(t, uint8(255), r)
	require.Equal(t, uint8(255), g)
	require.Equal(t, uint8(255), b)
	require.Equal(t, uint8(255), a)
}

func TestDewarpBlankPageFails(t *testing.T) {
	e := NewEngine(blob.DefaultSettings())

	_, err := e.Dewarp(whitePage(500, 500), "", idealCorners(), []geometry.RectInt{
		geometry.NewRectInt(0, 0, 10, 10),
	})
	require.ErrorIs(t, err, fiducial.ErrNotFound)
}

func TestDewarpWithCornersDegenerate(t *testing.T) {
	e := NewEngine(blob.DefaultSettings())
	p := geometry.Point2D{X: 1, Y: 1}
	scan := geometry.Corners{TopLeft: p, TopRight: p, BottomRight: p, BottomLeft: p}

	_, err := e.DewarpWithCorners(whitePage(100, 100), scan, idealCorners(), nil)
	require.ErrorIs(t, err, homography.ErrDegenerate)
}

func TestDewarpWithCornersSkipsDetection(t *testing.T) {
	e := NewEngine(blob.DefaultSettings())

	// Blank page: detection would fail, but supplied corners carry the call.
	res, err := e.DewarpWithCorners(whitePage(500, 500), idealCorners(), idealCorners(), []geometry.RectInt{
		geometry.NewRectInt(50, 50, 10, 10),
	})
	require.NoError(t, err)
	require.Len(t, res.Regions, 1)
	require.Equal(t, idealCorners(), res.Corners)
}

func TestDetectRegionWrapper(t *testing.T) {
	page := whitePage(100, 100)
	// Dark 2px border around a light interior.
	interior := geometry.NewRectInt(30, 30, 30, 30)
	border := interior.Inflate(2)
	fillDarkRect(page, border)
	for y := interior.Y; y < interior.Y+interior.Height; y++ {
		for x := interior.X; x < interior.X+interior.Width; x++ {
			page.SetRGBA(x, y, 255, 255, 255, 255)
		}
	}

	e := NewEngine(blob.DefaultSettings())
	got, err := e.DetectRegion(page, geometry.PointInt{X: 45, Y: 45})
	require.NoError(t, err)
	require.Equal(t, interior, got)

	_, err = e.DetectRegion(page, geometry.PointInt{X: 29, Y: 29})
	require.ErrorIs(t, err, blob.ErrNotFound)
}

func TestSettingsAccessor(t *testing.T) {
	s := blob.DefaultSettings().WithThreshold(120)
	e := NewEngine(s)
	require.Equal(t, s, e.Settings())
}
