package homography

import (
	"testing"

	"github.com/stretchr/testify/require"

	"form-register/pkg/geometry"
)

func unitSquare() [4]geometry.Point2D {
	return [4]geometry.Point2D{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 1, Y: 1},
		{X: 0, Y: 1},
	}
}

func TestSolveIdentity(t *testing.T) {
	sq := unitSquare()
	m, err := Solve(sq, sq)
	require.NoError(t, err)

	want := Identity()
	for i := range m {
		require.InDelta(t, want[i], m[i], 1e-6, "element %d", i)
	}
}

func TestSolveTranslation(t *testing.T) {
	src := unitSquare()
	var dst [4]geometry.Point2D
	for i, p := range src {
		dst[i] = geometry.Point2D{X: p.X + 10, Y: p.Y - 3}
	}

	m, err := Solve(src, dst)
	require.NoError(t, err)
	require.True(t, m.IsAffine(1e-9))

	got := m.Apply(geometry.Point2D{X: 0.5, Y: 0.5})
	require.InDelta(t, 10.5, got.X, 1e-9)
	require.InDelta(t, -2.5, got.Y, 1e-9)
}

func TestSolveMapsCornersExactly(t *testing.T) {
	// Page-scale coordinates with genuine perspective foreshortening.
	src := [4]geometry.Point2D{
		{X: 0, Y: 0},
		{X: 400, Y: 0},
		{X: 400, Y: 600},
		{X: 0, Y: 600},
	}
	dst := [4]geometry.Point2D{
		{X: 31.5, Y: 28.25},
		{X: 412.0, Y: 40.5},
		{X: 395.75, Y: 615.0},
		{X: 22.0, Y: 590.5},
	}

	m, err := Solve(src, dst)
	require.NoError(t, err)
	require.False(t, m.IsAffine(1e-9))

	for i := range src {
		got := m.Apply(src[i])
		require.InDelta(t, dst[i].X, got.X, 1e-6, "corner %d X", i)
		require.InDelta(t, dst[i].Y, got.Y, 1e-6, "corner %d Y", i)
	}
}

func TestSolveCollinearSource(t *testing.T) {
	src := [4]geometry.Point2D{
		{X: 0, Y: 0},
		{X: 1, Y: 1},
		{X: 2, Y: 2},
		{X: 3, Y: 3},
	}
	_, err := Solve(src, unitSquare())
	require.ErrorIs(t, err, ErrDegenerate)
}

func TestSolveCoincidentSource(t *testing.T) {
	p := geometry.Point2D{X: 5, Y: 5}
	src := [4]geometry.Point2D{p, p, p, p}
	_, err := Solve(src, unitSquare())
	require.ErrorIs(t, err, ErrDegenerate)
}

func TestSolveCoincidentDestination(t *testing.T) {
	p := geometry.Point2D{X: 7, Y: 9}
	dst := [4]geometry.Point2D{p, p, p, p}
	_, err := Solve(unitSquare(), dst)
	require.ErrorIs(t, err, ErrDegenerate)
}

func TestApplyPerspectiveDivide(t *testing.T) {
	m := Matrix{1, 0, 0, 0, 1, 0, 0, 0.5, 1}
	got := m.Apply(geometry.Point2D{X: 4, Y: 2})
	require.InDelta(t, 2.0, got.X, 1e-12)
	require.InDelta(t, 1.0, got.Y, 1e-12)
}

func TestMulComposition(t *testing.T) {
	a := Matrix{1, 0, 3, 0, 1, 5, 0, 0, 1}
	b := Matrix{2, 0, 0, 0, 2, 0, 0, 0, 1}

	// a.Mul(b) applies b first, then a.
	got := a.Mul(b).Apply(geometry.Point2D{X: 1, Y: 1})
	require.InDelta(t, 5.0, got.X, 1e-12)
	require.InDelta(t, 7.0, got.Y, 1e-12)
}

func TestMulIdentity(t *testing.T) {
	m := Matrix{1, 0.2, 3, 0.1, 1, 5, 0.001, 0.002, 1}
	got := m.Mul(Identity())
	for i := range m {
		require.InDelta(t, m[i], got[i], 1e-12)
	}
}
