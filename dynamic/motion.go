package dynamic

import (
	"math"

	"github.com/cpmech/gosl/fun"
	"github.com/yangf10/aris/kernel"
)

// Motion adds one additional scalar constraint (d=1) on a single axis of
// a joint, driving the relative coordinate along that axis to a commanded
// position/velocity/acceleration, or reporting the force needed to do so
// (spec §3 "Motion"). Axis is the (ω;v)-ordered unit direction in
// MarkerI's frame that the joint itself leaves free — e.g. {0,0,1,0,0,0}
// for the z-rotation a RevoluteJoint leaves open, {0,0,0,0,0,1} for the
// z-translation a PrismaticJoint leaves open.
type Motion struct {
	jointBase
	Axis kernel.Vec6

	Mp, Mv, Ma, Mf float64 // commanded position/velocity/acceleration, solved force

	// friction coefficients: coulomb, viscous, inertial (spec §3 Motion,
	// §9 "friction model"). Friction force is
	// sign(mv)*C0 + mv*C1 + ma*C2; total motor force is mfDyn+mfFrc.
	C0, C1, C2 float64
	MfDyn      float64
	MfFrc      float64

	// FrictionSmoothing, when nonzero, replaces sign(mv) with
	// tanh(k*mv) for Newton iterations that would otherwise linearize
	// through the kink (spec §9 "friction model"); inverseDynamics itself
	// always uses the exact sign.
	FrictionSmoothing float64

	// Profile, when set, drives Mp from a time function instead of the
	// caller writing it directly (spec "time-driven setpoints"); Mv/Ma
	// are then estimated around t by central difference. nil means the
	// motion's setpoints are held at whatever the caller last wrote (the
	// default, used by every solver test in this package).
	Profile fun.Func
}

// EvalProfile samples Profile at t, t-dt and t+dt to set Mp/Mv/Ma; it is
// a no-op if Profile is nil. dt should be the caller's integration step.
func (m *Motion) EvalProfile(t, dt float64) {
	if m.Profile == nil {
		return
	}
	pPrev := m.Profile.F(t-dt, nil)
	pNext := m.Profile.F(t+dt, nil)
	m.Mp = m.Profile.F(t, nil)
	m.Mv = (pNext - pPrev) / (2 * dt)
	m.Ma = (pNext - 2*m.Mp + pPrev) / (dt * dt)
}

// NewMotion attaches a scalar motion constraint along axis to the given
// joint's two markers. joint is consulted only to validate that the
// chosen axis is not already constrained by it; the motion itself is an
// independent Constraint added to the model's motion pool.
func NewMotion(name string, mi, mj *Marker, axis kernel.Vec6, joint Constraint) *Motion {
	if joint != nil {
		for col := 0; col < joint.Dim(); col++ {
			m := joint.PrtCmI()
			var dot float64
			for r := 0; r < 6; r++ {
				dot += m[r][col] * axis[r]
			}
			if dot > 0.999 {
				panic("dynamic: NewMotion: axis is already constrained by the underlying joint")
			}
		}
	}
	mo := &Motion{jointBase: newJointBase(name, 1, mi, mj), Axis: axis}
	for r := 0; r < 6; r++ {
		mo.cmI[r][0] = axis[r]
	}
	return mo
}

func (m *Motion) UpdPrtCmI() {}

func (m *Motion) CptCp(cp []float64) {
	rel := m.relPm()
	aa := kernel.RmToAxisAngle(rel.Rotation())
	t := rel.Position()
	full := kernel.Vec6{aa[0], aa[1], aa[2], t[0], t[1], t[2]}
	var proj float64
	for r := 0; r < 6; r++ {
		proj += full[r] * m.Axis[r]
	}
	cp[0] = proj - m.Mp
}

func (m *Motion) CptCv(cv []float64) {
	v := m.relVs()
	var proj float64
	for r := 0; r < 6; r++ {
		proj += v[r] * m.Axis[r]
	}
	cv[0] = m.Mv - proj
}

func (m *Motion) CptCa(ca []float64) {
	v := m.relVs()
	bias := kernel.CrossVsOnVs(v)
	var proj float64
	for r := 0; r < 6; r++ {
		proj += bias[r] * m.Axis[r]
	}
	ca[0] = m.Ma - proj
}

// FrictionForce returns sign(mv)*C0 + mv*C1 + ma*C2 using the exact sign,
// the form inverseDynamics always uses (spec §9 "friction model").
func (m *Motion) FrictionForce() float64 {
	return signOf(m.Mv)*m.C0 + m.Mv*m.C1 + m.Ma*m.C2
}

// SmoothedFrictionForce replaces sign(mv) with tanh(k*mv), for use inside
// any Newton iteration that would otherwise linearize through the
// non-smooth sign term (spec §9 "friction model").
func (m *Motion) SmoothedFrictionForce(k float64) float64 {
	return math.Tanh(k*m.Mv)*m.C0 + m.Mv*m.C1 + m.Ma*m.C2
}

func signOf(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
