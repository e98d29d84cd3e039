package kernel

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_twist01(tst *testing.T) {

	chk.PrintTitle("twist01: Ad/AdInvT are mutually consistent adjoints")

	r := AxisAngleToRm([3]float64{0.3, -0.1, 0.7})
	p := FromRp(r, [3]float64{1, -2, 0.5})

	v := Vec6{0.1, 0.2, -0.3, 1.0, 0.5, -0.2}
	f := Vec6{0.4, -0.1, 0.2, 2.0, -1.0, 0.3}

	// power invariance: (Ad(p)v)·(AdInvT(p)f) == v·f
	vp := AdApply(p, v)
	fp := WrenchTransform(p, f)
	var lhs, rhs float64
	for i := 0; i < 6; i++ {
		lhs += vp[i] * fp[i]
		rhs += v[i] * f[i]
	}
	chk.Vector(tst, "power", 1e-10, []float64{lhs}, []float64{rhs})
}

func Test_twist02(tst *testing.T) {

	chk.PrintTitle("twist02: Ad of identity pose is identity")

	ad := Ad(Eye4())
	var eye Mat6
	for i := 0; i < 6; i++ {
		eye[i][i] = 1
	}
	for i := 0; i < 6; i++ {
		chk.Vector(tst, "row", 1e-14, ad[i][:], eye[i][:])
	}
}

func Test_twist03(tst *testing.T) {

	chk.PrintTitle("twist03: CrossVs self-cross vanishes for a pure-translation velocity")

	v := Vec6{0, 0, 0, 1, 2, 3}
	zero := CrossVsOnVs(v)
	for i := 0; i < 6; i++ {
		if zero[i] != 0 {
			tst.Errorf("expected zero self-cross for zero angular velocity, got %v", zero)
			break
		}
	}
}

func Test_twist04(tst *testing.T) {

	chk.PrintTitle("twist04: CrossFs is the negative transpose of CrossVs")

	v := Vec6{0.2, -0.4, 0.1, 0.5, 0.5, -0.3}
	a := CrossVs(v)
	b := CrossFs(v)
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			if absf(b[i][j]-(-a[j][i])) > 1e-12 {
				tst.Errorf("CrossFs != -CrossVs^T at (%d,%d): %v vs %v", i, j, b[i][j], -a[j][i])
			}
		}
	}
}
