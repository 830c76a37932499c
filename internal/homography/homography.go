// Package homography solves for the 3×3 projective transform mapping four
// source points onto four destination points, the way page registration
// needs it: template corners on one side, scanned corners on the other.
package homography

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"form-register/pkg/geometry"
)

// ErrDegenerate reports that the four point correspondences are collinear,
// coincident or otherwise numerically unsolvable. It is surfaced distinctly
// from a failed detection: degenerate input means bad corner data, not
// missing marks.
var ErrDegenerate = errors.New("homography: degenerate point configuration")

const (
	// pivotEpsilon is the magnitude below which an elimination pivot is
	// treated as already resolved instead of divided by.
	pivotEpsilon = 1e-10

	// condEpsilon is the singular-value ratio (smallest/largest) below
	// which the 8×8 system is declared rank deficient. Scale invariant,
	// so it holds for both unit-square and full-page coordinates.
	condEpsilon = 1e-12
)

// Matrix is a 3×3 projective transform stored row major, normalized so the
// bottom-right element is 1. Only produced by Solve on a non-degenerate
// system.
type Matrix [9]float64

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Apply maps a point through the transform, including the perspective
// divide.
func (m Matrix) Apply(p geometry.Point2D) geometry.Point2D {
	w := m[6]*p.X + m[7]*p.Y + m[8]
	return geometry.Point2D{
		X: (m[0]*p.X + m[1]*p.Y + m[2]) / w,
		Y: (m[3]*p.X + m[4]*p.Y + m[5]) / w,
	}
}

// Mul returns m composed with other (m applied after other).
func (m Matrix) Mul(other Matrix) Matrix {
	var out Matrix
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += m[r*3+k] * other[k*3+c]
			}
			out[r*3+c] = sum
		}
	}
	return out
}

// IsAffine returns true when the perspective row is (0, 0, 1) within tol,
// i.e. the transform carries no perspective foreshortening.
func (m Matrix) IsAffine(tol float64) bool {
	return math.Abs(m[6]) <= tol && math.Abs(m[7]) <= tol && math.Abs(m[8]-1) <= tol
}

// Solve computes the transform mapping each src[i] onto dst[i]. The points
// must be order-correspondent (TL, TR, BR, BL on both sides). It builds the
// standard 8-equation direct-linear-transform system and solves it by
// Gaussian elimination with partial pivoting, normalizing so h[8] = 1.
//
// Degenerate configurations (three or more collinear corners, coincident
// points) are reported as ErrDegenerate via a singular-value check on the
// coefficient matrix rather than silently returning a garbage transform.
func Solve(src, dst [4]geometry.Point2D) (Matrix, error) {
	// Augmented 8×9 system: two equations per correspondence.
	//   u = (h0·x + h1·y + h2) / (h6·x + h7·y + 1)
	//   v = (h3·x + h4·y + h5) / (h6·x + h7·y + 1)
	var a [8][9]float64
	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y
		a[2*i] = [9]float64{x, y, 1, 0, 0, 0, -u * x, -u * y, u}
		a[2*i+1] = [9]float64{0, 0, 0, x, y, 1, -v * x, -v * y, v}
	}

	if rankDeficient(&a) {
		return Matrix{}, ErrDegenerate
	}

	// Forward elimination with partial pivoting.
	for col := 0; col < 8; col++ {
		pivot := col
		for row := col + 1; row < 8; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		a[col], a[pivot] = a[pivot], a[col]

		if math.Abs(a[col][col]) < pivotEpsilon {
			// Degree of freedom already resolved; skip rather than
			// divide by near zero.
			continue
		}
		for row := col + 1; row < 8; row++ {
			f := a[row][col] / a[col][col]
			for k := col; k < 9; k++ {
				a[row][k] -= f * a[col][k]
			}
		}
	}

	// Back substitution.
	var h [8]float64
	for row := 7; row >= 0; row-- {
		if math.Abs(a[row][row]) < pivotEpsilon {
			continue
		}
		sum := a[row][8]
		for k := row + 1; k < 8; k++ {
			sum -= a[row][k] * h[k]
		}
		h[row] = sum / a[row][row]
	}

	return Matrix{h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7], 1}, nil
}

// rankDeficient checks the 8×8 coefficient part of the system for rank
// deficiency by its singular-value spread. The pivot-skip tolerance alone
// would mask truly degenerate input; this makes the distinction explicit.
func rankDeficient(a *[8][9]float64) bool {
	data := make([]float64, 0, 64)
	for r := 0; r < 8; r++ {
		data = append(data, a[r][:8]...)
	}
	var svd mat.SVD
	if ok := svd.Factorize(mat.NewDense(8, 8, data), mat.SVDNone); !ok {
		return true
	}
	values := svd.Values(nil)
	largest := values[0]
	smallest := values[len(values)-1]
	if largest == 0 {
		return true
	}
	return smallest/largest < condEpsilon
}
