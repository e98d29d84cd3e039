// Package kernel implements the fixed-shape dense linear algebra and
// screw-theoretic spatial algebra used throughout the dynamic model and
// solver packages: pose matrices, spatial velocity/acceleration/wrench
// transforms, Euler/quaternion/axis-angle conversions, and the
// rank-revealing factorizations the solver family needs.
//
// The pose/twist/inertia routines operate on small, fixed-size value arrays
// (4x4 poses, 6-vectors, 6x6 inertias) and fail only on caller
// preconditions; MatAlloc and the factorizations in factor.go allocate
// their results on the heap.
package kernel

import (
	"fmt"
	"math"
)

// MatAlloc returns a freshly zeroed m x n dense matrix, mirroring the
// allocation helper used throughout the teacher's numeric layer.
func MatAlloc(m, n int) [][]float64 {
	a := make([][]float64, m)
	for i := range a {
		a[i] = make([]float64, n)
	}
	return a
}

// MatFill sets every entry of a to s.
func MatFill(a [][]float64, s float64) {
	for i := range a {
		for j := range a[i] {
			a[i][j] = s
		}
	}
}

// MatCopy sets a := s*b.
func MatCopy(a [][]float64, s float64, b [][]float64) {
	for i := range a {
		for j := range a[i] {
			a[i][j] = s * b[i][j]
		}
	}
}

// MatMul sets a := s * b*c where b is m x k and c is k x n.
func MatMul(a [][]float64, s float64, b, c [][]float64) {
	m, k, n := len(b), len(c), len(c[0])
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum float64
			for p := 0; p < k; p++ {
				sum += b[i][p] * c[p][j]
			}
			a[i][j] = s * sum
		}
	}
}

// MatMulAdd sets a += s * b*c.
func MatMulAdd(a [][]float64, s float64, b, c [][]float64) {
	m, k, n := len(b), len(c), len(c[0])
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum float64
			for p := 0; p < k; p++ {
				sum += b[i][p] * c[p][j]
			}
			a[i][j] += s * sum
		}
	}
}

// MatTranspose sets a := tr(b); a must be n x m if b is m x n.
func MatTranspose(a, b [][]float64) {
	for i := range b {
		for j := range b[i] {
			a[j][i] = b[i][j]
		}
	}
}

// MatScale sets a := s*a in place.
func MatScale(a [][]float64, s float64) {
	for i := range a {
		for j := range a[i] {
			a[i][j] *= s
		}
	}
}

// VecFill sets every entry of v to s.
func VecFill(v []float64, s float64) {
	for i := range v {
		v[i] = s
	}
}

// VecCopy sets v := s*u.
func VecCopy(v []float64, s float64, u []float64) {
	for i := range v {
		v[i] = s * u[i]
	}
}

// VecAdd2 sets v := sa*a + sb*b.
func VecAdd2(v []float64, sa float64, a []float64, sb float64, b []float64) {
	for i := range v {
		v[i] = sa*a[i] + sb*b[i]
	}
}

// VecDot returns the inner product of a and b.
func VecDot(a, b []float64) (s float64) {
	for i := range a {
		s += a[i] * b[i]
	}
	return
}

// VecNorm returns the Euclidean norm of v.
func VecNorm(v []float64) float64 {
	return math.Sqrt(VecDot(v, v))
}

// Inverse3 sets inv := b^-1 for a 3x3 matrix b, returning the determinant.
// A precondition violation (singular matrix within tol) panics; this is a
// programming error per the core's error-handling policy (spec §7.1).
func Inverse3(inv, b *[3][3]float64, tol float64) float64 {
	det := b[0][0]*(b[1][1]*b[2][2]-b[1][2]*b[2][1]) -
		b[0][1]*(b[1][0]*b[2][2]-b[1][2]*b[2][0]) +
		b[0][2]*(b[1][0]*b[2][1]-b[1][1]*b[2][0])
	if abs(det) < tol {
		panic(fmt.Sprintf("kernel: Inverse3: matrix is singular (det=%g)", det))
	}
	id := 1.0 / det
	inv[0][0] = (b[1][1]*b[2][2] - b[1][2]*b[2][1]) * id
	inv[0][1] = (b[0][2]*b[2][1] - b[0][1]*b[2][2]) * id
	inv[0][2] = (b[0][1]*b[1][2] - b[0][2]*b[1][1]) * id
	inv[1][0] = (b[1][2]*b[2][0] - b[1][0]*b[2][2]) * id
	inv[1][1] = (b[0][0]*b[2][2] - b[0][2]*b[2][0]) * id
	inv[1][2] = (b[0][2]*b[1][0] - b[0][0]*b[1][2]) * id
	inv[2][0] = (b[1][0]*b[2][1] - b[1][1]*b[2][0]) * id
	inv[2][1] = (b[0][1]*b[2][0] - b[0][0]*b[2][1]) * id
	inv[2][2] = (b[0][0]*b[1][1] - b[0][1]*b[1][0]) * id
	return det
}

// Inverse4 sets inv := b^-1 for a 4x4 homogeneous-style matrix, via
// block inversion of the top-left 3x3 rotation/scale block and the
// translation column — valid for any invertible 4x4 with bottom row
// (0,0,0,1) such as pose matrices, and falls back to full Gauss-Jordan
// otherwise.
func Inverse4(inv, b *[4][4]float64, tol float64) {
	if b[3][0] == 0 && b[3][1] == 0 && b[3][2] == 0 && b[3][3] == 1 {
		var r, ri [3][3]float64
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				r[i][j] = b[i][j]
			}
		}
		Inverse3(&ri, &r, tol)
		var p [3]float64
		for i := 0; i < 3; i++ {
			p[i] = b[i][3]
		}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				inv[i][j] = ri[i][j]
			}
			var s float64
			for j := 0; j < 3; j++ {
				s += ri[i][j] * p[j]
			}
			inv[i][3] = -s
		}
		inv[3][0], inv[3][1], inv[3][2], inv[3][3] = 0, 0, 0, 1
		return
	}
	gaussJordan4(inv, b, tol)
}

func gaussJordan4(inv, b *[4][4]float64, tol float64) {
	var a [4][8]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			a[i][j] = b[i][j]
		}
		a[i][4+i] = 1
	}
	for col := 0; col < 4; col++ {
		piv := col
		for r := col + 1; r < 4; r++ {
			if abs(a[r][col]) > abs(a[piv][col]) {
				piv = r
			}
		}
		if abs(a[piv][col]) < tol {
			panic("kernel: Inverse4: matrix is singular")
		}
		a[col], a[piv] = a[piv], a[col]
		f := 1.0 / a[col][col]
		for j := 0; j < 8; j++ {
			a[col][j] *= f
		}
		for r := 0; r < 4; r++ {
			if r == col {
				continue
			}
			f := a[r][col]
			for j := 0; j < 8; j++ {
				a[r][j] -= f * a[col][j]
			}
		}
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			inv[i][j] = a[i][4+j]
		}
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
