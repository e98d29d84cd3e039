package solver

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/yangf10/aris/dynamic"
	"github.com/yangf10/aris/kernel"
)

// sixAxisChain builds a 6-revolute-joint open serial chain, each joint
// offset along x from the previous, with a general motion end effector
// anchored at the last link against a ground reference — the shape
// Chain.InverseKinematics6DOF expects.
func sixAxisChain(tst *testing.T) *dynamic.Model {
	m := dynamic.NewModel()
	im := kernel.Inertia(1.0, [3]float64{0.25, 0, 0}, [3][3]float64{{0.01, 0, 0}, {0, 0.01, 0}, {0, 0, 0.01}})

	prev := m.Ground
	for i := 0; i < 6; i++ {
		pm := kernel.FromRp(kernel.Eye4().Rotation(), [3]float64{0.5 * float64(i+1), 0, 0})
		link := m.AddPart(axisName(i), pm, im)
		axis := [3]float64{0, 0, 1}
		if i%2 == 1 {
			axis = [3]float64{0, 1, 0}
		}
		j := m.AddRevoluteJoint(axisName(i)+".joint", prev, link, [3]float64{0.5 * float64(i), 0, 0}, axis)
		m.AddMotion(axisName(i)+".motor", j)
		prev = link
	}

	tip := prev.AddMarker("tip", kernel.Eye4())
	ref := m.Ground.AddMarker("ref", kernel.Eye4())
	m.AddGeneralMotion("ee", tip, ref)
	m.Init()
	return m
}

func axisName(i int) string {
	names := []string{"l0", "l1", "l2", "l3", "l4", "l5"}
	return names[i]
}

func Test_ik01(tst *testing.T) {

	chk.PrintTitle("ik01: InverseKinematics6DOF reaches a target pose generated by known joint angles")

	m := sixAxisChain(tst)
	ch := NewChain(m, "ee")

	target := []float64{0.3, -0.2, 0.5, 0.1, -0.4, 0.2}
	for i, mo := range ch.Motions {
		mo.Mp = target[i]
	}
	ch.propagate(DefaultConfig())
	wantCp := make([]float64, 6)
	ch.EndEffector.CptCp(wantCp)
	chk.Vector(tst, "target reachable by construction", 1e-8, wantCp, make([]float64, 6))

	ee := ch.EndEffector
	goalPm := kernel.PmInvMul(ee.MarkerI().WorldPm(), ee.MarkerJ().WorldPm())
	ee.SetEndEffectorPm(goalPm)

	for _, mo := range ch.Motions {
		mo.Mp = 0
	}

	res := ch.InverseKinematics6DOF(DefaultConfig(), 0)
	if res.Status != dynamic.StatusOK {
		tst.Fatalf("InverseKinematics6DOF did not converge: status=%d error=%g", res.Status, res.ErrorNorm)
	}
}

func Test_ik02(tst *testing.T) {

	chk.PrintTitle("ik02: InverseKinematics6DOF on a non-6-DOF chain reports an unsupported configuration")

	m := dynamic.NewModel()
	im := kernel.Inertia(1.0, [3]float64{0, 0, 0}, [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	link := m.AddPart("link", kernel.Eye4(), im)
	j := m.AddRevoluteJoint("j1", m.Ground, link, [3]float64{0, 0, 0}, [3]float64{0, 0, 1})
	m.AddMotion("mo1", j)
	tip := link.AddMarker("tip", kernel.Eye4())
	ref := m.Ground.AddMarker("ref", kernel.Eye4())
	m.AddGeneralMotion("ee", tip, ref)
	m.Init()

	ch := NewChain(m, "ee")
	res := ch.InverseKinematics6DOF(DefaultConfig(), 0)
	if res.Status != dynamic.StatusUnsupportedConfig {
		tst.Errorf("expected StatusUnsupportedConfig, got %d", res.Status)
	}
}
