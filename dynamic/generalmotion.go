package dynamic

import "github.com/yangf10/aris/kernel"

// GeneralMotion prescribes a full 6-DOF relative pose/velocity/
// acceleration/force between two markers (d=6); used to model an
// end-effector target (spec §3 "GeneralMotion"). Unlike Motion, it fully
// constrains the relative coordinate between its two markers rather than
// complementing an existing joint.
type GeneralMotion struct {
	jointBase
	Mpm kernel.Pm   // commanded relative pose (MarkerJ in MarkerI frame)
	Mvs kernel.Vec6 // commanded relative spatial velocity
	Mas kernel.Vec6 // commanded relative spatial acceleration
}

// NewGeneralMotion attaches a 6-DOF general motion between two markers,
// initially commanded to hold the markers' current relative pose at rest.
func NewGeneralMotion(name string, mi, mj *Marker) *GeneralMotion {
	g := &GeneralMotion{jointBase: newJointBase(name, 6, mi, mj)}
	g.Mpm = kernel.PmInvMul(mi.WorldPm(), mj.WorldPm())
	for r := 0; r < 6; r++ {
		g.cmI[r][r] = 1
	}
	return g
}

func (g *GeneralMotion) UpdPrtCmI() {} // identity, constant

func (g *GeneralMotion) CptCp(cp []float64) {
	rel := g.relPm()
	errPm := kernel.PmInvMul(g.Mpm, rel)
	aa := kernel.RmToAxisAngle(errPm.Rotation())
	t := errPm.Position()
	cp[0], cp[1], cp[2] = aa[0], aa[1], aa[2]
	cp[3], cp[4], cp[5] = t[0], t[1], t[2]
}

func (g *GeneralMotion) CptCv(cv []float64) {
	v := g.relVs()
	for r := 0; r < 6; r++ {
		cv[r] = g.Mvs[r] - v[r]
	}
}

func (g *GeneralMotion) CptCa(ca []float64) {
	v := g.relVs()
	bias := kernel.CrossVsOnVs(v)
	for r := 0; r < 6; r++ {
		ca[r] = g.Mas[r] - bias[r]
	}
}

// SetEndEffectorPm sets the commanded relative pose target.
func (g *GeneralMotion) SetEndEffectorPm(pm kernel.Pm) { g.Mpm = pm }

// EndEffectorPm returns the commanded relative pose target.
func (g *GeneralMotion) EndEffectorPm() kernel.Pm { return g.Mpm }
