package solver

import (
	"github.com/yangf10/aris/dynamic"
	"github.com/yangf10/aris/kernel"
)

// KinAcc solves the acceleration-level problem: given every constraint's
// acceleration residual (which already folds in the velocity-dependent
// Coriolis/centripetal bias via cptCa), find the world-frame spatial
// acceleration of every moving part satisfying Cᵀ·as_stack = ca, and
// writes it back onto each part's As (spec §4.4, §8 P4). Reuses the same
// constraint Jacobian kinVel solves with, per spec §4.4 ("kinAcc uses the
// same Jacobian one more time").
func KinAcc(m *dynamic.Model, cfg Config) Result {
	cfg.SetDefault()
	a := newAssembly(m)
	c := a.buildC()
	ca := a.buildCa()

	ct := kernel.MatAlloc(a.nConstDof, 6*a.nParts)
	kernel.MatTranspose(ct, c)

	f := kernel.FactorQR(ct, cfg.RankTol)
	asStack := f.Solve(ca)

	for i, p := range a.parts {
		var aWorld kernel.Vec6
		for r := 0; r < 6; r++ {
			aWorld[r] = asStack[6*i+r]
		}
		p.As = kernel.AdApply(kernel.PmInv(p.Pm), aWorld)
	}

	res := Result{Status: dynamic.StatusOK}
	res.ErrorNorm = residualNorm(ct, asStack, ca)
	if res.ErrorNorm > cfg.MaxError && f.Rank() < min(a.nConstDof, 6*a.nParts) {
		res.Status = dynamic.StatusRankDeficient
	}
	return res
}
