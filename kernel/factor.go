package kernel

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// RankRevealingQR holds a QR factorization of an m x n matrix together with
// the numerical rank detected from its singular values, and exposes a
// minimum-norm solve for rank-deficient or non-square systems — the
// combined solver's route to detecting redundant actuation and solving the
// KKT system without failing on a singular constraint Jacobian (spec §4.4,
// CombinedSolver).
//
// gosl's la package does not expose a pivoted QR or SVD, so this wraps
// gonum.org/v1/gonum/mat, which does.
type RankRevealingQR struct {
	q, r mat.Dense
	m, n int
	rank int
	tol  float64
}

// FactorQR computes the QR factorization of the m x n matrix a (row-major,
// as returned by MatAlloc).
//
// Spec §4.1 specifies rank-revealing QR "with column pivoting A = Q*R*P",
// returning a permutation; gonum's mat.QR (the only QR this package's
// dependency set exposes — gosl's la package has none at all) is
// unpivoted Householder QR, so no permutation is available and an
// unpivoted R's diagonal is not on its own a trustworthy rank indicator
// (a later, genuinely small pivot can hide behind an earlier column that
// merely wasn't the largest available). Rank is therefore detected
// independently from the singular values of a, via the same SVD
// PseudoInverseSolve already performs for the rank-deficient path, which
// is pivoting-invariant and exact regardless of column order.
func FactorQR(a [][]float64, tol float64) *RankRevealingQR {
	m := len(a)
	n := len(a[0])
	dense := mat.NewDense(m, n, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			dense.Set(i, j, a[i][j])
		}
	}
	var qr mat.QR
	qr.Factorize(dense)

	f := &RankRevealingQR{m: m, n: n, tol: tol}
	qr.QTo(&f.q)
	qr.RTo(&f.r)

	var svd mat.SVD
	if !svd.Factorize(dense, mat.SVDNone) {
		panic("kernel: FactorQR: SVD rank detection failed")
	}
	sv := svd.Values(nil)
	sMax := 0.0
	for _, s := range sv {
		if s > sMax {
			sMax = s
		}
	}
	for _, s := range sv {
		if sMax == 0 || s > tol*sMax {
			f.rank++
		}
	}
	return f
}

// Rank returns the numerical rank detected during factorization.
func (f *RankRevealingQR) Rank() int { return f.rank }

// Solve solves A*x = b. For a full-rank square or overdetermined system it
// returns the exact (or least-squares) solution via back-substitution on
// R; for a rank-deficient or underdetermined system (more columns than
// independent rows, as in a kinematically redundant actuation set) it
// falls back to the minimum-norm solution via SVD, matching the combined
// solver's requirement to handle redundant actuation without failing
// (spec §4.4).
func (f *RankRevealingQR) Solve(b []float64) []float64 {
	if f.m == f.n && f.rank == f.n {
		bv := mat.NewVecDense(f.m, append([]float64(nil), b...))
		var qtb mat.VecDense
		qtb.MulVec(f.q.T(), bv)
		x := make([]float64, f.n)
		for i := f.n - 1; i >= 0; i-- {
			s := qtb.AtVec(i)
			for j := i + 1; j < f.n; j++ {
				s -= f.r.At(i, j) * x[j]
			}
			x[i] = s / f.r.At(i, i)
		}
		return x
	}
	return f.PseudoInverseSolve(b)
}

// PseudoInverseSolve applies the Moore-Penrose pseudo-inverse of the
// original A to b via dense SVD — the path used when the constraint
// Jacobian is rank deficient or non-square (redundant or singular
// constraint rows).
func (f *RankRevealingQR) PseudoInverseSolve(b []float64) []float64 {
	a := mat.NewDense(f.m, f.n, nil)
	a.Mul(&f.q, &f.r)

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		panic("kernel: PseudoInverseSolve: SVD factorization failed")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	sv := svd.Values(nil)
	_, uc := u.Dims()

	bv := mat.NewVecDense(f.m, append([]float64(nil), b...))
	var utb mat.VecDense
	utb.MulVec(u.T(), bv)

	sInvUtb := mat.NewVecDense(uc, nil)
	sMax := 0.0
	for _, s := range sv {
		if s > sMax {
			sMax = s
		}
	}
	for i := 0; i < uc; i++ {
		if sv[i] > f.tol*sMax {
			sInvUtb.SetVec(i, utb.AtVec(i)/sv[i])
		}
	}
	var x mat.VecDense
	x.MulVec(&v, sInvUtb)
	out := make([]float64, f.n)
	for i := range out {
		out[i] = x.AtVec(i)
	}
	return out
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// CholeskyFactor wraps a Cholesky (LLT) factorization of a symmetric
// positive-definite matrix, used by the divided solver's Schur-complement
// reduced normal equations (spec §4.4, DividedSolver). A non-PD matrix is
// a numerical failure (loss of constraint independence) that can occur at
// runtime from a degenerate configuration, so it is reported through OK()
// rather than by panicking.
type CholeskyFactor struct {
	chol mat.Cholesky
	n    int
	ok   bool
}

// FactorCholesky attempts the Cholesky factorization of the symmetric
// matrix a (only the lower triangle is read).
func FactorCholesky(a [][]float64) *CholeskyFactor {
	n := len(a)
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, a[i][j])
		}
	}
	f := &CholeskyFactor{n: n}
	f.ok = f.chol.Factorize(sym)
	return f
}

// OK reports whether the matrix was positive definite.
func (f *CholeskyFactor) OK() bool { return f.ok }

// Solve solves L*L^T*x = b. Panics if the factorization failed; callers
// must check OK() first and surface a NumericalError instead of reaching
// this panic in normal operation.
func (f *CholeskyFactor) Solve(b []float64) []float64 {
	if !f.ok {
		panic("kernel: CholeskyFactor.Solve: matrix was not positive definite")
	}
	bv := mat.NewVecDense(f.n, append([]float64(nil), b...))
	var x mat.VecDense
	if err := f.chol.SolveVecTo(&x, bv); err != nil {
		panic(fmt.Sprintf("kernel: CholeskyFactor.Solve: %v", err))
	}
	out := make([]float64, f.n)
	for i := range out {
		out[i] = x.AtVec(i)
	}
	return out
}
