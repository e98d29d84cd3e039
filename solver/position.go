package solver

import (
	"github.com/yangf10/aris/dynamic"
	"github.com/yangf10/aris/kernel"
)

// KinPos solves the position-level problem by Newton iteration: at each
// step it reuses KinVel's Jacobian (the stacked constraint matrix Cᵀ) to
// linearize the position residual cp, solves for a world-frame twist
// increment per part, and applies it to each part's pose via the
// exponential map, until |cp| falls below cfg.MaxError or the iteration
// budget is exhausted (spec §4.4: "kinPos is a Newton iteration that uses
// kinVel as its linearization").
//
// The unknowns here live on SE(3)^nParts, not a flat real vector, so this
// loop is hand-rolled rather than wrapped around gosl/num.NlSolver (see
// DESIGN.md); the 6-DOF analytical IK refinement in ik.go, whose
// unknowns are joint angles, does use num.NlSolver.
func KinPos(m *dynamic.Model, cfg Config) Result {
	cfg.SetDefault()

	var lastNorm float64
	iter := 0
	for ; iter < cfg.MaxIterCount; iter++ {
		a := newAssembly(m)
		c := a.buildC()
		cp := a.buildCp()

		lastNorm = kernel.VecNorm(cp)
		if lastNorm < cfg.MaxError {
			return Result{Iterations: iter, ErrorNorm: lastNorm, Status: dynamic.StatusOK}
		}

		ct := kernel.MatAlloc(a.nConstDof, 6*a.nParts)
		kernel.MatTranspose(ct, c)

		neg := make([]float64, a.nConstDof)
		for i := range cp {
			neg[i] = -cp[i]
		}

		f := kernel.FactorQR(ct, cfg.RankTol)
		delta := f.Solve(neg)

		for i, p := range a.parts {
			var d kernel.Vec6
			for r := 0; r < 6; r++ {
				d[r] = delta[6*i+r]
			}
			applyWorldTwistIncrement(p, d)
		}
	}

	return Result{Iterations: iter, ErrorNorm: lastNorm, Status: dynamic.StatusNonConvergent}
}

// applyWorldTwistIncrement updates a part's pose by the exponential map
// of a world-frame twist increment: a first-order SE(3) update that
// converges exactly under Newton iteration as the residual shrinks.
func applyWorldTwistIncrement(p *dynamic.Part, d kernel.Vec6) {
	dr := kernel.AxisAngleToRm(d.Angular())
	r := p.Pm.Rotation()
	t := p.Pm.Position()
	newR := matMul3(dr, r)
	v := d.Linear()
	newT := [3]float64{t[0] + v[0], t[1] + v[1], t[2] + v[2]}
	p.Pm = kernel.FromRp(kernel.RenormalizeRotation(newR), newT)
}

func matMul3(a, b [3][3]float64) (c [3][3]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += a[i][k] * b[k][j]
			}
			c[i][j] = s
		}
	}
	return
}
