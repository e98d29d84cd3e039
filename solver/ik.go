package solver

import (
	"math"

	"github.com/cpmech/gosl/num"
	"github.com/yangf10/aris/dynamic"
	"github.com/yangf10/aris/kernel"
)

// Chain gathers the ordered sequence of single-axis motions forming an
// open serial kinematic chain, together with the GeneralMotion describing
// its end-effector target — the shape the 6-DOF/7-DOF analytical IK
// specializations operate on (spec §4.4 "specializations for 6-DOF serial
// chains (Puma/UR/RokaeXB4) and 7-DOF chains").
type Chain struct {
	Model       *dynamic.Model
	Motions     []*dynamic.Motion
	EndEffector *dynamic.GeneralMotion
}

// NewChain collects every motion currently in m's pool, in insertion
// order, as the chain's joints, and the named general motion as its
// end-effector target.
func NewChain(m *dynamic.Model, endEffectorName string) *Chain {
	ee, ok := m.GeneralMotions.FindByName(endEffectorName)
	if !ok {
		dynamic.Panic("solver: NewChain: no general motion named %q", endEffectorName)
	}
	ch := &Chain{Model: m, EndEffector: ee}
	m.Motions.Each(func(_ int, _ string, mo *dynamic.Motion) {
		ch.Motions = append(ch.Motions, mo)
	})
	return ch
}

func (ch *Chain) nDof() int { return len(ch.Motions) }

func (ch *Chain) getQ() []float64 {
	q := make([]float64, ch.nDof())
	for i, mo := range ch.Motions {
		q[i] = mo.Mp
	}
	return q
}

func (ch *Chain) setQ(q []float64) {
	for i, mo := range ch.Motions {
		mo.Mp = q[i]
	}
}

// propagate drives every part's pose to match the chain's current motion
// positions. An open chain has no loop-closure constraints, so KinPos's
// Newton iteration here exists only to absorb the exponential-map
// nonlinearity, not to resolve redundancy.
func (ch *Chain) propagate(cfg Config) {
	KinPos(ch.Model, cfg)
}

// residual returns the end-effector's position/orientation error against
// its commanded target pose.
func (ch *Chain) residual(cfg Config) []float64 {
	ch.propagate(cfg)
	cp := make([]float64, 6)
	ch.EndEffector.CptCp(cp)
	return cp
}

const (
	waistIdx = 0
	elbowIdx = 2
)

// geometricSeed returns the initial joint-angle seed for branch index
// branch (0..7), derived from the chain's own rigid geometry rather than
// an arbitrary joint offset (spec §4.4 "each specialization computes all
// analytical branches and selects the chosen branch before a final
// Newton refinement", Puma/UR/RokaeXB4-style 6-DOF arms):
//
//   - bit 0 picks one of the two waist azimuths (shoulder left/right)
//     that place the wrist center on the correct side of the base;
//   - bit 1 picks the elbow-up/elbow-down law-of-cosines solution
//     reaching the same wrist center, using the chain's actual
//     (configuration-invariant) upper-arm/forearm lengths;
//   - bit 2 applies the standard spherical-wrist flip: negate the
//     middle wrist joint and shift its two neighbors by pi, which
//     reaches an orientation-equivalent wrist pose from the other side.
//
// The derivation assumes the chain's last three axes intersect at a
// common wrist center, as Puma/UR/RokaeXB4-style arms do: the vector
// from that center to the end-effector origin is then constant in the
// end-effector's own local frame regardless of the wrist angles, which
// is what lets offsetLocal below be measured once, at whatever
// configuration the chain currently holds, and reused against any
// target.
func (ch *Chain) geometricSeed(branch int) []float64 {
	q := ch.getQ()
	n := ch.nDof()
	if n < 6 {
		return q
	}
	wristStart := n - 3

	ch.propagate(DefaultConfig())

	p0 := ch.Motions[waistIdx].MarkerI().WorldPm().Position()
	axis0 := norm3(rotate3(ch.Motions[waistIdx].MarkerI().WorldPm().Rotation(), angularOf(ch.Motions[waistIdx].Axis)))

	pShoulder := ch.Motions[1].MarkerI().WorldPm().Position()
	pElbow := ch.Motions[elbowIdx].MarkerI().WorldPm().Position()
	pWrist := ch.Motions[wristStart].MarkerI().WorldPm().Position()

	refPm := ch.EndEffector.MarkerI().WorldPm()
	tipPm := ch.EndEffector.MarkerJ().WorldPm()
	targetPm := kernel.PmMul(refPm, ch.EndEffector.EndEffectorPm())
	targetP := targetPm.Position()
	targetR := targetPm.Rotation()

	offsetLocal := rotate3(transpose3(tipPm.Rotation()), sub3(pWrist, tipPm.Position()))
	pwTarget := add3(targetP, rotate3(targetR, offsetLocal))

	u, v := planeBasis(axis0)
	azimuth := func(p [3]float64) float64 {
		d := sub3(p, p0)
		return math.Atan2(dot3(d, v), dot3(d, u))
	}
	deltaWaist := azimuth(pwTarget) - azimuth(pWrist)
	if branch&1 != 0 {
		deltaWaist += math.Pi
	}
	q[waistIdx] += deltaWaist

	l1 := dist3(pShoulder, pElbow)
	l2 := dist3(pElbow, pWrist)
	pShoulderTarget := add3(p0, rotate3(axisAngleRm3(axis0, deltaWaist), sub3(pShoulder, p0)))
	dTarget := dist3(pShoulderTarget, pwTarget)
	dCurrent := dist3(pShoulder, pWrist)

	cosTarget := clamp1(((dTarget * dTarget) - l1*l1 - l2*l2) / (2 * l1 * l2))
	cosCurrent := clamp1(((dCurrent * dCurrent) - l1*l1 - l2*l2) / (2 * l1 * l2))
	deltaElbow := math.Acos(cosTarget) - math.Acos(cosCurrent)
	if branch&2 != 0 {
		deltaElbow = -deltaElbow
	}
	q[elbowIdx] += deltaElbow

	if branch&4 != 0 {
		wristMid := n - 2
		q[wristMid] = -q[wristMid]
		q[wristStart] += math.Pi
		q[n-1] += math.Pi
	}

	return q
}

func angularOf(axis kernel.Vec6) [3]float64 { return [3]float64{axis[0], axis[1], axis[2]} }

func sub3(a, b [3]float64) [3]float64 { return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }
func add3(a, b [3]float64) [3]float64 { return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }
func dot3(a, b [3]float64) float64    { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }
func cross3(a, b [3]float64) [3]float64 {
	return [3]float64{a[1]*b[2] - a[2]*b[1], a[2]*b[0] - a[0]*b[2], a[0]*b[1] - a[1]*b[0]}
}
func dist3(a, b [3]float64) float64 {
	d := sub3(a, b)
	return kernel.VecNorm(d[:])
}
func norm3(a [3]float64) [3]float64 {
	l := kernel.VecNorm(a[:])
	if l < 1e-15 {
		return a
	}
	return [3]float64{a[0] / l, a[1] / l, a[2] / l}
}
func rotate3(r [3][3]float64, v [3]float64) (w [3]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			w[i] += r[i][j] * v[j]
		}
	}
	return w
}
func transpose3(r [3][3]float64) (t [3][3]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t[i][j] = r[j][i]
		}
	}
	return t
}
func clamp1(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// planeBasis returns two unit vectors spanning the plane perpendicular
// to axis, used to measure an azimuthal angle around axis.
func planeBasis(axis [3]float64) (u, v [3]float64) {
	ref := [3]float64{1, 0, 0}
	if math.Abs(dot3(axis, ref)) > 0.9 {
		ref = [3]float64{0, 1, 0}
	}
	u = norm3(cross3(axis, ref))
	v = cross3(axis, u)
	return u, v
}

// axisAngleRm3 builds a rotation matrix for a rotation of angle radians
// about the given unit axis.
func axisAngleRm3(axis [3]float64, angle float64) [3][3]float64 {
	return kernel.AxisAngleToRm([3]float64{axis[0] * angle, axis[1] * angle, axis[2] * angle})
}

// InverseKinematics6DOF solves for the chain's 6 joint angles reproducing
// EndEffector's commanded target pose. geometricSeed computes the chosen
// branch's waist/elbow/wrist configuration from the chain's actual
// geometry, and a Newton iteration driven by gosl/num.NlSolver — whose
// Jacobian is a forward-difference estimate of the residual — refines
// that seed to the exact target (spec "each specialization computes all
// analytical branches and selects the chosen branch before a final
// Newton refinement"); see DESIGN.md for the assumptions the branch
// derivation relies on.
func (ch *Chain) InverseKinematics6DOF(cfg Config, branch int) Result {
	if ch.nDof() != 6 {
		return Result{Status: dynamic.StatusUnsupportedConfig}
	}
	return ch.solveBranch(cfg, ch.geometricSeed(branch), []int{0, 1, 2, 3, 4, 5})
}

// InverseKinematics7DOF solves a 7-DOF redundant chain for the given
// root/elbow branch and a continuous axis-angle fixing the redundant
// joint's value (spec "7-DOF chains (redundant with a selectable elbow
// angle / which-root branch index in {0,…,7} and a continuous axis-angle
// for the redundant dof)"); the remaining six joints are solved exactly
// as the 6-DOF case, with the redundant joint — the chain's middle one —
// pinned at axisAngle rather than free.
func (ch *Chain) InverseKinematics7DOF(cfg Config, whichRoot int, axisAngle float64) Result {
	n := ch.nDof()
	if n != 7 {
		return Result{Status: dynamic.StatusUnsupportedConfig}
	}
	redundant := n / 2
	seed := ch.geometricSeed(whichRoot)
	seed[redundant] = axisAngle
	free := make([]int, 0, n-1)
	for i := 0; i < n; i++ {
		if i != redundant {
			free = append(free, i)
		}
	}
	return ch.solveBranch(cfg, seed, free)
}

// solveBranch drives the six end-effector residual equations to zero by
// adjusting only the joints named in free, holding every other joint
// (including a 7-DOF chain's pinned redundant joint) at its seed value.
func (ch *Chain) solveBranch(cfg Config, seed []float64, free []int) Result {
	cfg.SetDefault()
	ch.setQ(seed)
	n := len(free)

	apply := func(x []float64) {
		full := ch.getQ()
		for i, idx := range free {
			full[idx] = x[i]
		}
		ch.setQ(full)
	}

	fx := func(fxOut, x []float64) error {
		apply(x)
		copy(fxOut, ch.residual(cfg))
		return nil
	}
	const h = 1e-6
	dfdx := func(dfdxOut [][]float64, x []float64) error {
		base := make([]float64, 6)
		fx(base, x)
		xp := append([]float64(nil), x...)
		for j := 0; j < n; j++ {
			xp[j] = x[j] + h
			col := make([]float64, 6)
			fx(col, xp)
			for i := 0; i < 6; i++ {
				dfdxOut[i][j] = (col[i] - base[i]) / h
			}
			xp[j] = x[j]
		}
		return nil
	}

	var nls num.NlSolver
	defer nls.Clean()

	res := make([]float64, n)
	for i, idx := range free {
		res[i] = seed[idx]
	}
	nls.Init(n, fx, nil, dfdx, true, false, nil)
	nls.Solve(res, false)
	apply(res)

	errNorm := kernel.VecNorm(ch.residual(cfg))
	status := dynamic.StatusOK
	if errNorm > cfg.MaxError {
		status = dynamic.StatusNonConvergent
	}
	return Result{ErrorNorm: errNorm, Status: status}
}
