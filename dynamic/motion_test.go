package dynamic

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/yangf10/aris/kernel"
)

func Test_motion01(tst *testing.T) {

	chk.PrintTitle("motion01: a motion's position residual vanishes once Mp matches the relative coordinate")

	m := NewModel()
	im := kernel.Inertia(1.0, [3]float64{0, 0, 0}, [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	link := m.AddPart("link", kernel.FromRp(kernel.AxisAngleToRm([3]float64{0, 0, 0.4}), [3]float64{0, 0, 0}), im)
	mi := m.Ground.AddMarker("mi", kernel.Eye4())
	mj := link.AddMarker("mj", kernel.Eye4())

	mo := NewMotion("mo1", mi, mj, kernel.Vec6{0, 0, 1, 0, 0, 0}, nil)
	mo.Mp = 0.4

	cp := make([]float64, 1)
	mo.CptCp(cp)
	chk.Vector(tst, "cp", 1e-10, cp, []float64{0})
}

func Test_motion02(tst *testing.T) {

	chk.PrintTitle("motion02: FrictionForce combines coulomb, viscous, and inertial terms with the exact sign")

	mo := &Motion{C0: 1.5, C1: 0.2, C2: 0.05}
	mo.Mv = -2.0
	mo.Ma = 3.0
	want := math.Copysign(1, mo.Mv)*mo.C0 + mo.Mv*mo.C1 + mo.Ma*mo.C2
	got := mo.FrictionForce()
	chk.Vector(tst, "friction", 1e-14, []float64{got}, []float64{want})
}

func Test_motion03(tst *testing.T) {

	chk.PrintTitle("motion03: SmoothedFrictionForce approaches FrictionForce as k grows")

	mo := &Motion{C0: 1.0, C1: 0.1, C2: 0.0, Mv: 0.5}
	exact := mo.FrictionForce()
	smoothed := mo.SmoothedFrictionForce(1e4)
	chk.Vector(tst, "smoothed~exact", 1e-3, []float64{smoothed}, []float64{exact})
}

func Test_generalmotion01(tst *testing.T) {

	chk.PrintTitle("generalmotion01: a general motion commanded to hold the current pose has zero position residual")

	m := NewModel()
	im := kernel.Inertia(1.0, [3]float64{0, 0, 0}, [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	link := m.AddPart("link", kernel.FromRp(kernel.AxisAngleToRm([3]float64{0.1, 0.2, 0.3}), [3]float64{1, 2, 3}), im)
	ref := m.Ground.AddMarker("ref", kernel.Eye4())
	ee := link.AddMarker("ee", kernel.Eye4())

	g := NewGeneralMotion("ee-target", ref, ee)
	cp := make([]float64, g.Dim())
	g.CptCp(cp)
	chk.Vector(tst, "cp", 1e-12, cp, make([]float64, g.Dim()))
}

func Test_generalmotion02(tst *testing.T) {

	chk.PrintTitle("generalmotion02: moving the target pose produces a nonzero residual")

	m := NewModel()
	im := kernel.Inertia(1.0, [3]float64{0, 0, 0}, [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	link := m.AddPart("link", kernel.Eye4(), im)
	ref := m.Ground.AddMarker("ref", kernel.Eye4())
	ee := link.AddMarker("ee", kernel.Eye4())

	g := NewGeneralMotion("ee-target", ref, ee)
	g.SetEndEffectorPm(kernel.FromRp(kernel.Eye4().Rotation(), [3]float64{1, 0, 0}))

	cp := make([]float64, g.Dim())
	g.CptCp(cp)
	if kernel.VecNorm(cp) < 1e-6 {
		tst.Errorf("expected nonzero residual after moving the target, got %v", cp)
	}
}
