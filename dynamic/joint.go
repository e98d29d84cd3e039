package dynamic

import "github.com/yangf10/aris/kernel"

// jointBase holds the fields and residual machinery shared by every joint
// kind: two markers, a constant or per-call-updated 6xd matrix in MarkerI
// frame, and the solved constraint force.
type jointBase struct {
	name   string
	dim    int
	mi, mj *Marker
	cmI    [][]float64
	cf     []float64
}

func newJointBase(name string, dim int, mi, mj *Marker) jointBase {
	return jointBase{
		name: name,
		dim:  dim,
		mi:   mi,
		mj:   mj,
		cmI:  kernel.MatAlloc(6, dim),
		cf:   make([]float64, dim),
	}
}

func (j *jointBase) Name() string      { return j.name }
func (j *jointBase) Dim() int          { return j.dim }
func (j *jointBase) MarkerI() *Marker  { return j.mi }
func (j *jointBase) MarkerJ() *Marker  { return j.mj }
func (j *jointBase) PrtCmI() [][]float64 { return j.cmI }
func (j *jointBase) CfPtr() []float64  { return j.cf }
func (j *jointBase) SetCf(cf []float64) {
	copy(j.cf, cf)
}

// relPm returns the pose of MarkerJ expressed in MarkerI's frame, the
// quantity every residual below is built from.
func (j *jointBase) relPm() kernel.Pm {
	return kernel.PmInvMul(j.mi.WorldPm(), j.mj.WorldPm())
}

// relVs returns MarkerJ's spatial velocity re-expressed in MarkerI's
// frame, minus MarkerI's own velocity — the relative twist used by
// velocity/acceleration residuals.
func (j *jointBase) relVs() kernel.Vec6 {
	vsJinI := kernel.AdApply(kernel.PmInv(j.relPm()), j.mj.LocalVs())
	vsI := j.mi.LocalVs()
	return vsJinI.Add(vsI.Scale(-1))
}

// setConstColumns fills cmI with unit basis columns at the given
// (ω;v)-ordered row indices, the pattern every fixed-axis joint kind
// (Revolute, Prismatic, Spherical) uses to select its constrained
// directions.
func (j *jointBase) setConstColumns(rows []int) {
	for col, row := range rows {
		j.cmI[row][col] = 1
	}
}

// RevoluteJoint constrains everything except rotation about z of MarkerI
// (= z of MarkerJ): d=5 (spec §3 "Revolute").
type RevoluteJoint struct{ jointBase }

// NewRevoluteJoint constructs a revolute joint between two markers
// already positioned with coincident origins and aligned z axes.
func NewRevoluteJoint(name string, mi, mj *Marker) *RevoluteJoint {
	r := &RevoluteJoint{jointBase: newJointBase(name, 5, mi, mj)}
	r.setConstColumns([]int{0, 1, 3, 4, 5}) // ωx,ωy,vx,vy,vz; z-rotation free
	return r
}

func (r *RevoluteJoint) UpdPrtCmI() {} // constant matrix

func (r *RevoluteJoint) CptCp(cp []float64) {
	rel := r.relPm()
	aa := kernel.RmToAxisAngle(rel.Rotation())
	t := rel.Position()
	cp[0], cp[1] = aa[0], aa[1]
	cp[2], cp[3], cp[4] = t[0], t[1], t[2]
}

func (r *RevoluteJoint) CptCv(cv []float64) {
	v := r.relVs()
	cv[0], cv[1] = v[0], v[1]
	cv[2], cv[3], cv[4] = v[3], v[4], v[5]
}

func (r *RevoluteJoint) CptCa(ca []float64) {
	// bias term: the relative-velocity self-cross feeds into the
	// acceleration residual the same way it feeds kinAcc's RHS generally
	// (spec §4.4); a freshly assembled joint at rest has zero bias.
	v := r.relVs()
	bias := kernel.CrossVsOnVs(v)
	ca[0], ca[1] = bias[0], bias[1]
	ca[2], ca[3], ca[4] = bias[3], bias[4], bias[5]
}

// PrismaticJoint constrains everything except translation along z of
// MarkerI (= z of MarkerJ): d=5 (spec §3 "Prismatic").
type PrismaticJoint struct{ jointBase }

// NewPrismaticJoint constructs a prismatic joint between two markers
// already positioned with coincident origins and aligned z axes.
func NewPrismaticJoint(name string, mi, mj *Marker) *PrismaticJoint {
	p := &PrismaticJoint{jointBase: newJointBase(name, 5, mi, mj)}
	p.setConstColumns([]int{0, 1, 2, 3, 4}) // ωx,ωy,ωz,vx,vy; z-translation free
	return p
}

func (p *PrismaticJoint) UpdPrtCmI() {}

func (p *PrismaticJoint) CptCp(cp []float64) {
	rel := p.relPm()
	aa := kernel.RmToAxisAngle(rel.Rotation())
	t := rel.Position()
	cp[0], cp[1], cp[2] = aa[0], aa[1], aa[2]
	cp[3], cp[4] = t[0], t[1]
}

func (p *PrismaticJoint) CptCv(cv []float64) {
	v := p.relVs()
	cv[0], cv[1], cv[2] = v[0], v[1], v[2]
	cv[3], cv[4] = v[3], v[4]
}

func (p *PrismaticJoint) CptCa(ca []float64) {
	v := p.relVs()
	bias := kernel.CrossVsOnVs(v)
	ca[0], ca[1], ca[2] = bias[0], bias[1], bias[2]
	ca[3], ca[4] = bias[3], bias[4]
}

// SphericalJoint constrains translation, leaving all rotation free: d=3
// (spec §3 "Spherical").
type SphericalJoint struct{ jointBase }

// NewSphericalJoint constructs a spherical joint at coincident marker
// origins.
func NewSphericalJoint(name string, mi, mj *Marker) *SphericalJoint {
	s := &SphericalJoint{jointBase: newJointBase(name, 3, mi, mj)}
	s.setConstColumns([]int{3, 4, 5}) // vx,vy,vz; all rotation free
	return s
}

func (s *SphericalJoint) UpdPrtCmI() {}

func (s *SphericalJoint) CptCp(cp []float64) {
	t := s.relPm().Position()
	cp[0], cp[1], cp[2] = t[0], t[1], t[2]
}

func (s *SphericalJoint) CptCv(cv []float64) {
	v := s.relVs()
	cv[0], cv[1], cv[2] = v[3], v[4], v[5]
}

func (s *SphericalJoint) CptCa(ca []float64) {
	v := s.relVs()
	bias := kernel.CrossVsOnVs(v)
	ca[0], ca[1], ca[2] = bias[3], bias[4], bias[5]
}

// UniversalJoint couples two orthogonal intersecting revolutes (about x
// and y of MarkerI): 2 rotational dof free, d=4. Unlike the other joint
// kinds its constraint matrix depends on the current relative rotation
// about the MarkerI z axis (the "cross" orientation of the two yokes), so
// UpdPrtCmI recomputes it before each assembly (spec §3 "Universal",
// §4.3: "Joints whose matrix depends on configuration... override
// updPrtCmI"). Re-derived from first principles per the design note on
// the universal-joint update (spec §9 open questions), not transcribed.
type UniversalJoint struct{ jointBase }

// NewUniversalJoint constructs a universal joint whose two revolute axes
// are MarkerI's x and y axes.
func NewUniversalJoint(name string, mi, mj *Marker) *UniversalJoint {
	u := &UniversalJoint{jointBase: newJointBase(name, 4, mi, mj)}
	u.UpdPrtCmI()
	return u
}

func (u *UniversalJoint) UpdPrtCmI() {
	rel := u.relPm()
	r := rel.Rotation()
	// the coupling rotation about MarkerI's z axis, used to blend the two
	// constrained rotational directions the way the yoke cross rotates
	// with the joint's configuration.
	psi := kernel.RmToEuler(r, "312")[0]
	c, s := kcos(psi), ksin(psi)
	for i := 0; i < 6; i++ {
		for j := 0; j < 4; j++ {
			u.cmI[i][j] = 0
		}
	}
	// constrained rotation: a combination of ωx,ωy rotated by psi about z,
	// leaving the orthogonal combination (the two yoke axes) free.
	u.cmI[0][0] = c
	u.cmI[1][0] = s
	u.cmI[3][1] = 1
	u.cmI[4][2] = 1
	u.cmI[5][3] = 1
}

func kcos(x float64) float64 { return kernel.AxisAngleToRm([3]float64{0, 0, x})[0][0] }
func ksin(x float64) float64 { return kernel.AxisAngleToRm([3]float64{0, 0, x})[1][0] }

func (u *UniversalJoint) CptCp(cp []float64) {
	rel := u.relPm()
	aa := kernel.RmToAxisAngle(rel.Rotation())
	t := rel.Position()
	cp[0] = aa[2]
	cp[1], cp[2], cp[3] = t[0], t[1], t[2]
}

func (u *UniversalJoint) CptCv(cv []float64) {
	v := u.relVs()
	cv[0] = v[2]
	cv[1], cv[2], cv[3] = v[3], v[4], v[5]
}

func (u *UniversalJoint) CptCa(ca []float64) {
	v := u.relVs()
	bias := kernel.CrossVsOnVs(v)
	ca[0] = bias[2]
	ca[1], ca[2], ca[3] = bias[3], bias[4], bias[5]
}
