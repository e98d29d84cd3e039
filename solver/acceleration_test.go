package solver

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/yangf10/aris/dynamic"
)

func Test_acceleration01(tst *testing.T) {

	chk.PrintTitle("acceleration01: kinAcc reproduces a commanded motion acceleration in the relative twist")

	m, link, mo := singleRevolute(tst)
	mo.Mv = 0.7
	mo.Ma = 2.0

	res := KinAcc(m, DefaultConfig())
	if res.Status != dynamic.StatusOK {
		tst.Fatalf("kinAcc did not solve: status=%d error=%g", res.Status, res.ErrorNorm)
	}

	// MarkerI sits on ground at the world origin, so the link's own z
	// angular acceleration is the relative acceleration along the axis.
	chk.Vector(tst, "relative acceleration", 1e-8, []float64{link.As[2]}, []float64{mo.Ma})
}
