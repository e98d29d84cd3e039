package solver

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/yangf10/aris/dynamic"
)

func Test_velocity01(tst *testing.T) {

	chk.PrintTitle("velocity01: kinVel reproduces a commanded motion velocity in the relative twist")

	m, _, mo := singleRevolute(tst)
	mo.Mv = 1.5

	res := KinVel(m, DefaultConfig())
	if res.Status != dynamic.StatusOK {
		tst.Fatalf("kinVel did not solve: status=%d error=%g", res.Status, res.ErrorNorm)
	}

	cv := make([]float64, 1)
	mo.CptCv(cv)
	chk.Vector(tst, "residual", 1e-8, cv, []float64{0})
}

func Test_velocity02(tst *testing.T) {

	chk.PrintTitle("velocity02: forwardKinematicsVel and inverseKinematicsVel are the same dispatch")

	m, _, mo := singleRevolute(tst)
	mo.Mv = 0.3
	r1 := ForwardKinematicsVel(m, DefaultConfig())
	r2 := InverseKinematicsVel(m, DefaultConfig())
	if r1.Status != dynamic.StatusOK || r2.Status != dynamic.StatusOK {
		tst.Fatalf("expected both calls to solve cleanly")
	}
}
