package dynamic

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/yangf10/aris/kernel"
)

func twoPartsJoint(tst *testing.T) (*Model, *Marker, *Marker) {
	m := NewModel()
	im := kernel.Inertia(1.0, [3]float64{0, 0, 0}, [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	link1 := m.AddPart("link1", kernel.Eye4(), im)
	link2 := m.AddPart("link2", kernel.Eye4(), im)
	mi := link1.AddMarker("mi", kernel.Eye4())
	mj := link2.AddMarker("mj", kernel.Eye4())
	return m, mi, mj
}

func Test_joint01(tst *testing.T) {

	chk.PrintTitle("joint01: a coincident revolute joint has zero position residual except the free z-rotation")

	_, mi, mj := twoPartsJoint(tst)
	r := NewRevoluteJoint("r1", mi, mj)
	r.UpdPrtCmI()

	cp := make([]float64, r.Dim())
	r.CptCp(cp)
	chk.Vector(tst, "cp", 1e-14, cp, make([]float64, r.Dim()))
}

func Test_joint02(tst *testing.T) {

	chk.PrintTitle("joint02: a prismatic joint's constant matrix selects every direction but z-translation")

	_, mi, mj := twoPartsJoint(tst)
	p := NewPrismaticJoint("p1", mi, mj)
	p.UpdPrtCmI()

	// row 5 (vz in ω;v ordering) must be zero in every column of the
	// constraint matrix: no column constrains z-translation.
	for col := 0; col < p.Dim(); col++ {
		if p.cmI[5][col] != 0 {
			tst.Errorf("prismatic joint constrains z-translation at column %d", col)
		}
	}
}

func Test_joint03(tst *testing.T) {

	chk.PrintTitle("joint03: a spherical joint leaves all three rotations free")

	_, mi, mj := twoPartsJoint(tst)
	s := NewSphericalJoint("s1", mi, mj)
	s.UpdPrtCmI()

	for col := 0; col < s.Dim(); col++ {
		for row := 0; row < 3; row++ {
			if s.cmI[row][col] != 0 {
				tst.Errorf("spherical joint constrains rotation at row %d col %d", row, col)
			}
		}
	}
}

func Test_joint04(tst *testing.T) {

	chk.PrintTitle("joint04: universal joint's first constraint column is unit-norm at a rotated configuration")

	m := NewModel()
	im := kernel.Inertia(1.0, [3]float64{0, 0, 0}, [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	link1 := m.AddPart("link1", kernel.Eye4(), im)
	link2 := m.AddPart("link2", kernel.FromRp(kernel.AxisAngleToRm([3]float64{0, 0, 0.5}), [3]float64{0, 0, 0}), im)
	mi := link1.AddMarker("mi", kernel.Eye4())
	mj := link2.AddMarker("mj", kernel.Eye4())

	u := NewUniversalJoint("u1", mi, mj)
	u.UpdPrtCmI()

	col0 := []float64{u.cmI[0][0], u.cmI[1][0]}
	norm := col0[0]*col0[0] + col0[1]*col0[1]
	chk.Vector(tst, "unit norm", 1e-12, []float64{norm}, []float64{1})
}
