package dynamic

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/yangf10/aris/kernel"
)

func Test_force01(tst *testing.T) {

	chk.PrintTitle("force01: a single-component force is equal and opposite when the two markers coincide")

	m := NewModel()
	im := kernel.Inertia(1.0, [3]float64{0, 0, 0}, [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	link1 := m.AddPart("link1", kernel.Eye4(), im)
	link2 := m.AddPart("link2", kernel.Eye4(), im)
	mi := link1.AddMarker("mi", kernel.Eye4())
	mj := link2.AddMarker("mj", kernel.Eye4())

	f := NewSingleComponentForce("f1", mi, mj, kernel.Vec6{0, 0, 0, 1, 0, 0}, 5.0)
	fsI, fsJ := f.FsI(), f.FsJ()
	for i := 0; i < 6; i++ {
		chk.Vector(tst, "equal-and-opposite", 1e-14, []float64{fsI[i]}, []float64{-fsJ[i]})
	}
}

func Test_force02(tst *testing.T) {

	chk.PrintTitle("force02: gravity force magnitude scales with mass")

	m := NewModel()
	m.Env.Gravity = kernel.Vec6{0, 0, 0, 0, -9.81, 0}
	light := kernel.Inertia(1.0, [3]float64{0, 0, 0}, [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	heavy := kernel.Inertia(2.0, [3]float64{0, 0, 0}, [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})

	p1 := m.AddPart("p1", kernel.Eye4(), light)
	p2 := m.AddPart("p2", kernel.Eye4(), heavy)
	at1 := p1.AddMarker("at", kernel.Eye4())
	at2 := p2.AddMarker("at", kernel.Eye4())

	g1 := NewGravityForce("g1", m.Env, p1, at1)
	g2 := NewGravityForce("g2", m.Env, p2, at2)

	f1, f2 := g1.FsI(), g2.FsI()
	chk.Vector(tst, "double mass, double force", 1e-12, []float64{f2[4]}, []float64{2 * f1[4]})
}
