package solver

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/yangf10/aris/dynamic"
	"github.com/yangf10/aris/kernel"
)

func singleRevolute(tst *testing.T) (*dynamic.Model, *dynamic.Part, *dynamic.Motion) {
	m := dynamic.NewModel()
	im := kernel.Inertia(1.0, [3]float64{0.5, 0, 0}, [3][3]float64{{0.05, 0, 0}, {0, 0.05, 0}, {0, 0, 0.05}})
	link := m.AddPart("link", kernel.Eye4(), im)
	j := m.AddRevoluteJoint("j1", m.Ground, link, [3]float64{0, 0, 0}, [3]float64{0, 0, 1})
	mo := m.AddMotion("mo1", j)
	m.Init()
	return m, link, mo
}

func Test_position01(tst *testing.T) {

	chk.PrintTitle("position01: kinPos drives a single revolute link to its commanded angle")

	m, link, mo := singleRevolute(tst)
	mo.Mp = math.Pi / 4

	res := KinPos(m, DefaultConfig())
	if res.Status != dynamic.StatusOK {
		tst.Fatalf("kinPos did not converge: status=%d error=%g", res.Status, res.ErrorNorm)
	}

	aa := kernel.RmToAxisAngle(link.Pm.Rotation())
	chk.Vector(tst, "z angle", 1e-8, []float64{aa[2]}, []float64{math.Pi / 4})
}

func Test_position02(tst *testing.T) {

	chk.PrintTitle("position02: forwardKinematics and inverseKinematics are the same dispatch")

	m, _, mo := singleRevolute(tst)
	mo.Mp = 0.2
	r1 := ForwardKinematics(m, DefaultConfig())
	r2 := InverseKinematics(m, DefaultConfig())
	if r1.Status != dynamic.StatusOK || r2.Status != dynamic.StatusOK {
		tst.Fatalf("expected both calls to converge")
	}
}

// fourBarLoop builds a planar four-bar mechanism: two grounded revolutes
// (crank, rocker) closing a loop through a shared coupler link, driven by
// a single motion on the crank's grounded joint. Every joint starts
// coincident by construction (addWorldMarker places both of a joint's
// markers at the same world point/axis regardless of each part's current
// pose), so the loop starts from a feasible, zero-residual configuration.
func fourBarLoop(tst *testing.T) (*dynamic.Model, *dynamic.Motion) {
	m := dynamic.NewModel()
	im := kernel.Inertia(1.0, [3]float64{0.5, 0, 0}, [3][3]float64{{0.02, 0, 0}, {0, 0.02, 0}, {0, 0, 0.02}})

	crank := m.AddPart("crank", kernel.Eye4(), im)
	coupler := m.AddPart("coupler", kernel.FromRp(kernel.Eye4().Rotation(), [3]float64{1, 0, 0}), im)
	rocker := m.AddPart("rocker", kernel.FromRp(kernel.Eye4().Rotation(), [3]float64{1, 1, 0}), im)

	jc := m.AddRevoluteJoint("ground-crank", m.Ground, crank, [3]float64{0, 0, 0}, [3]float64{0, 0, 1})
	m.AddRevoluteJoint("crank-coupler", crank, coupler, [3]float64{1, 0, 0}, [3]float64{0, 0, 1})
	m.AddRevoluteJoint("coupler-rocker", coupler, rocker, [3]float64{1, 1, 0}, [3]float64{0, 0, 1})
	m.AddRevoluteJoint("rocker-ground", rocker, m.Ground, [3]float64{0, 1, 0}, [3]float64{0, 0, 1})
	mo := m.AddMotion("drive", jc)
	m.Init()
	return m, mo
}

func Test_position03(tst *testing.T) {

	chk.PrintTitle("position03: a four-bar loop (two grounded revolutes closing on a shared link) converges")

	m, mo := fourBarLoop(tst)
	m.SetMotionPos(mo.Name(), 0.1)
	res := KinPos(m, DefaultConfig())
	if res.Status != dynamic.StatusOK {
		tst.Fatalf("four-bar loop did not converge: status=%d error=%g", res.Status, res.ErrorNorm)
	}
}
