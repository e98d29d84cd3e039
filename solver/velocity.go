package solver

import (
	"github.com/yangf10/aris/dynamic"
	"github.com/yangf10/aris/kernel"
)

// KinVel solves the velocity-level problem: given every constraint's
// commanded velocity residual (motion mv, general-motion mvs, and the
// zero residual every plain joint holds its free directions to), find
// the world-frame spatial velocity of every moving part satisfying
// Cᵀ·vs_stack = cv, then writes the result back onto each part's Vs
// (converted to body frame) — spec §4.4 state machine, §8 P3.
func KinVel(m *dynamic.Model, cfg Config) Result {
	cfg.SetDefault()
	a := newAssembly(m)
	c := a.buildC()
	cv := a.buildCv()

	ct := kernel.MatAlloc(a.nConstDof, 6*a.nParts)
	kernel.MatTranspose(ct, c)

	f := kernel.FactorQR(ct, cfg.RankTol)
	vsStack := f.Solve(cv)

	for i, p := range a.parts {
		var vWorld kernel.Vec6
		for r := 0; r < 6; r++ {
			vWorld[r] = vsStack[6*i+r]
		}
		p.Vs = kernel.AdApply(kernel.PmInv(p.Pm), vWorld)
	}

	res := Result{Status: dynamic.StatusOK}
	res.ErrorNorm = residualNorm(ct, vsStack, cv)
	if res.ErrorNorm > cfg.MaxError && f.Rank() < min(a.nConstDof, 6*a.nParts) {
		res.Status = dynamic.StatusRankDeficient
	}
	return res
}

func residualNorm(a [][]float64, x, b []float64) float64 {
	r := make([]float64, len(b))
	for i := range a {
		var s float64
		for j := range x {
			s += a[i][j] * x[j]
		}
		r[i] = s - b[i]
	}
	return kernel.VecNorm(r)
}
