// Package register composes corner location, homography estimation and
// perspective resampling into a single detect-then-dewarp operation, with
// memoized corner detection per source page.
package register

import (
	"fmt"
	"sync"

	"form-register/internal/blob"
	"form-register/internal/fiducial"
	"form-register/internal/homography"
	"form-register/internal/raster"
	"form-register/internal/warp"
	"form-register/pkg/geometry"
)

// Result carries the rectified buffers for one dewarp call plus the scan
// corners that were used, so callers can reuse them on later calls.
type Result struct {
	Corners geometry.Corners
	Regions []*raster.Buffer
}

// Engine runs registration passes. It is safe for concurrent use: all
// buffers and settings are treated as immutable, and the corner cache
// guarantees at most one corner search per image key even when many
// rectangles from one page are dewarped in parallel.
type Engine struct {
	settings blob.Settings

	mu    sync.Mutex
	cache map[string]*cornerEntry
}

// cornerEntry memoizes one corner search. The Once latch ensures a single
// computation per key; the fields are written inside it and read after.
type cornerEntry struct {
	once    sync.Once
	corners geometry.Corners
	err     error
}

// NewEngine creates an engine using the given detection settings.
func NewEngine(s blob.Settings) *Engine {
	return &Engine{
		settings: s,
		cache:    make(map[string]*cornerEntry),
	}
}

// Settings returns the engine's detection settings.
func (e *Engine) Settings() blob.Settings {
	return e.settings
}

// Corners returns the fiducial corners of the page, running detection at
// most once per imageID. An empty imageID bypasses the cache entirely.
func (e *Engine) Corners(buf *raster.Buffer, imageID string) (geometry.Corners, error) {
	if imageID == "" {
		return fiducial.Locate(buf, e.settings)
	}

	e.mu.Lock()
	entry, ok := e.cache[imageID]
	if !ok {
		entry = &cornerEntry{}
		e.cache[imageID] = entry
	}
	e.mu.Unlock()

	entry.once.Do(func() {
		entry.corners, entry.err = fiducial.Locate(buf, e.settings)
	})
	return entry.corners, entry.err
}

// Invalidate drops the cached corners for one image key, forcing the next
// call to re-run detection.
func (e *Engine) Invalidate(imageID string) {
	e.mu.Lock()
	delete(e.cache, imageID)
	e.mu.Unlock()
}

// Reset clears the whole corner cache. The cache is otherwise unbounded
// for the lifetime of a registration session.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.cache = make(map[string]*cornerEntry)
	e.mu.Unlock()
}

// Dewarp rectifies each target rectangle (in ideal template space) out of
// the scanned page. Scan corners are located via the cache; if location
// fails the whole call fails with the fiducial error. Individual rectangles
// never fail partially: out-of-bounds samples become transparent pixels.
func (e *Engine) Dewarp(buf *raster.Buffer, imageID string, ideal geometry.Corners, targets []geometry.RectInt) (*Result, error) {
	scan, err := e.Corners(buf, imageID)
	if err != nil {
		return nil, err
	}
	return e.DewarpWithCorners(buf, scan, ideal, targets)
}

// DewarpWithCorners rectifies target rectangles using pre-supplied scan
// corners, skipping detection entirely. The corners are echoed back in the
// Result for symmetry with Dewarp.
func (e *Engine) DewarpWithCorners(buf *raster.Buffer, scan, ideal geometry.Corners, targets []geometry.RectInt) (*Result, error) {
	h, err := homography.Solve(ideal.Points(), scan.Points())
	if err != nil {
		return nil, fmt.Errorf("registering page: %w", err)
	}

	res := &Result{
		Corners: scan,
		Regions: make([]*raster.Buffer, len(targets)),
	}
	for i, target := range targets {
		res.Regions[i] = warp.RectifyWith(buf, h, target)
	}
	return res, nil
}

// DetectRegion exposes single-seed region auto-detection through the engine
// so UI collaborators need only one entry point. The returned rectangle is
// owned by the caller.
func (e *Engine) DetectRegion(buf *raster.Buffer, seed geometry.PointInt) (geometry.RectInt, error) {
	return blob.DetectRegion(buf, seed, e.settings)
}
