package kernel

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_factor01(tst *testing.T) {

	chk.PrintTitle("factor01: QR solve recovers a known solution on a full-rank system")

	a := [][]float64{
		{4, 1, 2},
		{1, 3, 0},
		{2, 0, 5},
	}
	xExact := []float64{1, -1, 2}
	b := make([]float64, 3)
	for i := range b {
		for j := range xExact {
			b[i] += a[i][j] * xExact[j]
		}
	}
	f := FactorQR(a, 1e-10)
	if f.Rank() != 3 {
		tst.Errorf("expected full rank 3, got %d", f.Rank())
	}
	x := f.Solve(b)
	chk.Vector(tst, "x", 1e-8, x, xExact)
}

func Test_factor02(tst *testing.T) {

	chk.PrintTitle("factor02: QR detects rank deficiency from redundant rows")

	a := [][]float64{
		{1, 0, 0},
		{0, 1, 0},
		{1, 1, 0},
	}
	f := FactorQR(a, 1e-9)
	if f.Rank() >= 3 {
		tst.Errorf("expected rank < 3 for a redundant system, got %d", f.Rank())
	}
}

func Test_factor03(tst *testing.T) {

	chk.PrintTitle("factor03: Cholesky solves a symmetric positive-definite system")

	a := [][]float64{
		{4, 1},
		{1, 3},
	}
	xExact := []float64{2, -1}
	b := []float64{
		a[0][0]*xExact[0] + a[0][1]*xExact[1],
		a[1][0]*xExact[0] + a[1][1]*xExact[1],
	}
	c := FactorCholesky(a)
	if !c.OK() {
		tst.Fatal("expected positive-definite factorization to succeed")
	}
	x := c.Solve(b)
	chk.Vector(tst, "x", 1e-10, x, xExact)
}

func Test_factor04(tst *testing.T) {

	chk.PrintTitle("factor04: Cholesky reports failure on a non-PD matrix")

	a := [][]float64{
		{1, 2},
		{2, 1},
	}
	c := FactorCholesky(a)
	if c.OK() {
		tst.Error("expected Cholesky to fail on an indefinite matrix")
	}
}
