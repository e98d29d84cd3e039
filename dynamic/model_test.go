package dynamic

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/yangf10/aris/kernel"
)

func Test_model01(tst *testing.T) {

	chk.PrintTitle("model01: marker world pose follows part pose (invariant P1)")

	m := NewModel()
	im := kernel.Inertia(1.0, [3]float64{0, 0, 0}, [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	p := m.AddPart("link", kernel.FromRp(kernel.AxisAngleToRm([3]float64{0, 0, 0.3}), [3]float64{1, 2, 3}), im)
	mk := p.AddMarker("tip", kernel.FromRp(kernel.Eye4().Rotation(), [3]float64{1, 0, 0}))

	want := kernel.PmMul(p.Pm, mk.Local)
	got := mk.WorldPm()
	for i := 0; i < 4; i++ {
		chk.Vector(tst, "row", 1e-14, got[i][:], want[i][:])
	}
}

func Test_model02(tst *testing.T) {

	chk.PrintTitle("model02: a single revolute joint at rest has zero position residual")

	m := NewModel()
	im := kernel.Inertia(1.0, [3]float64{0.5, 0, 0}, [3][3]float64{{0.1, 0, 0}, {0, 0.1, 0}, {0, 0, 0.1}})
	link := m.AddPart("link", kernel.Eye4(), im)
	j := m.AddRevoluteJoint("j1", m.Ground, link, [3]float64{0, 0, 0}, [3]float64{0, 0, 1})
	m.Init()

	cp := make([]float64, j.Dim())
	j.UpdPrtCmI()
	j.CptCp(cp)
	chk.Vector(tst, "cp", 1e-14, cp, make([]float64, j.Dim()))
}

func Test_model03(tst *testing.T) {

	chk.PrintTitle("model03: attaching a motion to a spherical joint panics")

	m := NewModel()
	im := kernel.Inertia(1.0, [3]float64{0, 0, 0}, [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	link := m.AddPart("link", kernel.Eye4(), im)
	j := m.AddSphericalJoint("j1", m.Ground, link, [3]float64{0, 0, 0})

	defer func() {
		if r := recover(); r == nil {
			tst.Errorf("expected a panic attaching a motion to a spherical joint")
		}
	}()
	m.AddMotion("bad", j)
}

func Test_model04(tst *testing.T) {

	chk.PrintTitle("model04: Init panics when a constraint references a part absent from the model")

	m := NewModel()
	im := kernel.Inertia(1.0, [3]float64{0, 0, 0}, [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	other := NewModel()
	stray := other.AddPart("stray", kernel.Eye4(), im)
	strayMk := stray.AddMarker("m", kernel.Eye4())
	groundMk := m.Ground.AddMarker("m", kernel.Eye4())
	j := NewRevoluteJoint("bad", groundMk, strayMk)
	m.Joints.Add("bad", j)

	defer func() {
		if r := recover(); r == nil {
			tst.Errorf("expected Init to panic on a dangling part reference")
		}
	}()
	m.Init()
}

func Test_model05(tst *testing.T) {

	chk.PrintTitle("model05: NumConstraintDof and NumMovingParts sum joint/motion/part dims correctly")

	m := NewModel()
	im := kernel.Inertia(1.0, [3]float64{0, 0, 0}, [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	link1 := m.AddPart("link1", kernel.Eye4(), im)
	link2 := m.AddPart("link2", kernel.FromRp(kernel.Eye4().Rotation(), [3]float64{1, 0, 0}), im)
	j1 := m.AddRevoluteJoint("j1", m.Ground, link1, [3]float64{0, 0, 0}, [3]float64{0, 0, 1})
	m.AddRevoluteJoint("j2", link1, link2, [3]float64{1, 0, 0}, [3]float64{0, 0, 1})
	m.AddMotion("mo1", j1)
	m.Init()

	if got, want := m.NumMovingParts(), 2; got != want {
		tst.Errorf("NumMovingParts: got %d, want %d", got, want)
	}
	if got, want := m.NumConstraintDof(), 5+5+1; got != want {
		tst.Errorf("NumConstraintDof: got %d, want %d", got, want)
	}
}
