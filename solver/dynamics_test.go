package solver

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/yangf10/aris/dynamic"
	"github.com/yangf10/aris/kernel"
)

func Test_dynamics01(tst *testing.T) {

	chk.PrintTitle("dynamics01: inverseDynamics then forwardDynamics recovers the commanded acceleration")

	for _, kind := range []Kind{Combined, Divided} {
		m, _, mo := singleRevolute(tst)
		m.Env.Gravity = kernel.Vec6{0, 0, 0, 0, -9.81, 0}
		mo.Mp, mo.Mv, mo.Ma = 0.3, 0.2, 1.0

		cfg := DefaultConfig()
		cfg.Kind = kind

		idRes := InverseDynamics(m, cfg)
		if idRes.Status != dynamic.StatusOK {
			tst.Fatalf("kind %v: inverseDynamics failed: status=%d error=%g", kind, idRes.Status, idRes.ErrorNorm)
		}
		commandedMf := mo.Mf

		mo.Mf = commandedMf
		fdRes := ForwardDynamics(m, cfg)
		if fdRes.Status != dynamic.StatusOK {
			tst.Fatalf("kind %v: forwardDynamics failed: status=%d error=%g", kind, fdRes.Status, fdRes.ErrorNorm)
		}

		chk.Vector(tst, "recovered Ma", 1e-6, []float64{mo.Ma}, []float64{1.0})
	}
}

func Test_dynamics02(tst *testing.T) {

	chk.PrintTitle("dynamics02: a part at rest under zero gravity and zero motor force has zero resulting acceleration")

	m, _, mo := singleRevolute(tst)
	mo.Mp, mo.Mv, mo.Mf = 0, 0, 0

	res := ForwardDynamics(m, DefaultConfig())
	if res.Status != dynamic.StatusOK {
		tst.Fatalf("forwardDynamics failed: status=%d error=%g", res.Status, res.ErrorNorm)
	}
	chk.Vector(tst, "Ma", 1e-10, []float64{mo.Ma}, []float64{0})
}

func Test_dynamics03(tst *testing.T) {

	chk.PrintTitle("dynamics03: solveDiagonal agrees with solveDivided on an open chain with no loop-closure remainder")

	mDiag, _, moDiag := singleRevolute(tst)
	mDiv, _, moDiv := singleRevolute(tst)
	for _, mo := range []*dynamic.Motion{moDiag, moDiv} {
		mo.Mp, mo.Mv, mo.Ma = 0.1, 0.05, 0.5
	}

	cfgDiag := DefaultConfig()
	cfgDiag.Kind = Diagonal
	cfgDiv := DefaultConfig()
	cfgDiv.Kind = Divided

	InverseDynamics(mDiag, cfgDiag)
	InverseDynamics(mDiv, cfgDiv)

	chk.Vector(tst, "Mf", 1e-10, []float64{moDiag.Mf}, []float64{moDiv.Mf})
}

func Test_dynamics04(tst *testing.T) {

	chk.PrintTitle("dynamics04: on a closed-loop four-bar mechanism, the diagonal (tree + loop-closure Schur complement) and combined (dense KKT) solvers agree to 1e-9")

	mDiag, moDiag := fourBarLoop(tst)
	mComb, moComb := fourBarLoop(tst)
	for _, mo := range []*dynamic.Motion{moDiag, moComb} {
		mo.Mp, mo.Mv, mo.Ma = 0.1, 0.05, 0.5
	}
	for _, m := range []*dynamic.Model{mDiag, mComb} {
		m.Env.Gravity = kernel.Vec6{0, 0, 0, 0, -9.81, 0}
	}

	cfgDiag := DefaultConfig()
	cfgDiag.Kind = Diagonal
	cfgComb := DefaultConfig()
	cfgComb.Kind = Combined

	resDiag := InverseDynamics(mDiag, cfgDiag)
	if resDiag.Status != dynamic.StatusOK {
		tst.Fatalf("diagonal solve failed on the four-bar loop: status=%d error=%g", resDiag.Status, resDiag.ErrorNorm)
	}
	resComb := InverseDynamics(mComb, cfgComb)
	if resComb.Status != dynamic.StatusOK {
		tst.Fatalf("combined solve failed on the four-bar loop: status=%d error=%g", resComb.Status, resComb.ErrorNorm)
	}

	chk.Vector(tst, "drive motor force", 1e-9, []float64{moDiag.Mf}, []float64{moComb.Mf})

	for i := 0; i < mDiag.Parts.Size(); i++ {
		pDiag, pComb := mDiag.Parts.At(i), mComb.Parts.At(i)
		if pDiag.Ground {
			continue
		}
		chk.Vector(tst, "part "+pDiag.Name+" As", 1e-9, pDiag.As[:], pComb.As[:])
	}
}
