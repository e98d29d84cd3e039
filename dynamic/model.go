package dynamic

import (
	"math"

	"github.com/cpmech/gosl/io"
	"github.com/yangf10/aris/kernel"
)

// Model is the hierarchical container of parts, markers, constraints, and
// forces, with a distinguished ground part always present (spec §3, §4.2).
// Grounded on fem.Domain as the single owner of all entity pools, wired
// together by Init(), and on fem.Elem/ElemConnector for the
// update-hook-only interaction between the model and its constraints.
type Model struct {
	Env *Environment

	Parts          *Pool[*Part]
	Joints         *Pool[Constraint] // Revolute/Prismatic/Universal/Spherical
	Motions        *Pool[*Motion]
	GeneralMotions *Pool[*GeneralMotion]
	Forces         *Pool[Force]

	Ground *Part

	initialized bool
}

// NewModel returns an empty model containing only the ground part.
func NewModel() *Model {
	ground := NewGroundPart()
	m := &Model{
		Env:            NewEnvironment(),
		Parts:          NewPool[*Part](),
		Joints:         NewPool[Constraint](),
		Motions:        NewPool[*Motion](),
		GeneralMotions: NewPool[*GeneralMotion](),
		Forces:         NewPool[Force](),
		Ground:         ground,
	}
	m.Parts.Add(ground.Name, ground)
	return m
}

// AddPart inserts a new non-ground part with the given pose and inertia.
func (m *Model) AddPart(name string, pm kernel.Pm, im kernel.Mat6) *Part {
	p := NewPart(name, im)
	p.Pm = pm
	return m.Parts.Add(name, p)
}

// addWorldMarker creates a marker on part whose world pose has the given
// origin and z axis aligned with axis, the convenience derivation spec
// §4.2 describes for joint constructors ("derive joint/marker pairs from
// a world-space description").
func addWorldMarker(part *Part, name string, point, axis [3]float64) *Marker {
	r := zAlignedRotation(axis)
	worldPm := kernel.FromRp(r, point)
	localPm := kernel.PmInvMul(part.Pm, worldPm)
	return part.AddMarker(name, localPm)
}

// zAlignedRotation returns a rotation whose z column is axis (normalized),
// completing an arbitrary right-handed basis for the other two columns,
// via the minimal rotation taking the world z axis onto axis.
func zAlignedRotation(axis [3]float64) [3][3]float64 {
	x, y, z := axis[0], axis[1], axis[2]
	n := math.Sqrt(x*x + y*y + z*z)
	if n < 1e-15 {
		panic("dynamic: zAlignedRotation: zero-length axis")
	}
	x, y, z = x/n, y/n, z/n
	// rotation axis = z_world x target, angle = acos(z_world . target)
	rx, ry := -y, x
	rn := math.Sqrt(rx*rx + ry*ry)
	if rn < 1e-12 {
		if z > 0 {
			return kernel.Eye4().Rotation()
		}
		return kernel.AxisAngleToRm([3]float64{math.Pi, 0, 0})
	}
	angle := math.Acos(z)
	aa := [3]float64{rx / rn * angle, ry / rn * angle, 0}
	return kernel.AxisAngleToRm(aa)
}

// AddRevoluteJoint derives marker frames at point with z along axis on
// each part, and connects them with a revolute joint (spec §6
// "addRevoluteJoint").
func (m *Model) AddRevoluteJoint(name string, partI, partJ *Part, point, axis [3]float64) *RevoluteJoint {
	mi := addWorldMarker(partI, name+".i", point, axis)
	mj := addWorldMarker(partJ, name+".j", point, axis)
	j := NewRevoluteJoint(name, mi, mj)
	m.Joints.Add(name, j)
	return j
}

// AddPrismaticJoint is the prismatic analogue of AddRevoluteJoint (spec §6
// "addPrismaticJoint").
func (m *Model) AddPrismaticJoint(name string, partI, partJ *Part, point, axis [3]float64) *PrismaticJoint {
	mi := addWorldMarker(partI, name+".i", point, axis)
	mj := addWorldMarker(partJ, name+".j", point, axis)
	j := NewPrismaticJoint(name, mi, mj)
	m.Joints.Add(name, j)
	return j
}

// AddUniversalJoint derives marker frames whose x axis is axis1 and whose
// (approximate) y axis is axis2, for the two orthogonal revolute axes a
// universal joint couples (spec §6 "addUniversalJoint").
func (m *Model) AddUniversalJoint(name string, partI, partJ *Part, point, axis1, axis2 [3]float64) *UniversalJoint {
	z := cross3(axis1, axis2)
	zn := math.Sqrt(z[0]*z[0] + z[1]*z[1] + z[2]*z[2])
	xn := math.Sqrt(axis1[0]*axis1[0] + axis1[1]*axis1[1] + axis1[2]*axis1[2])
	if zn < 1e-15 || xn < 1e-15 {
		panic("dynamic: AddUniversalJoint: axis1 and axis2 must be nonzero and not parallel")
	}
	x := [3]float64{axis1[0] / xn, axis1[1] / xn, axis1[2] / xn}
	z = [3]float64{z[0] / zn, z[1] / zn, z[2] / zn}
	y := cross3(z, x)
	r := [3][3]float64{{x[0], y[0], z[0]}, {x[1], y[1], z[1]}, {x[2], y[2], z[2]}}
	worldPm := kernel.FromRp(r, point)
	mi := partI.AddMarker(name+".i", kernel.PmInvMul(partI.Pm, worldPm))
	mj := partJ.AddMarker(name+".j", kernel.PmInvMul(partJ.Pm, worldPm))
	j := NewUniversalJoint(name, mi, mj)
	m.Joints.Add(name, j)
	return j
}

// AddSphericalJoint derives coincident marker frames at point, both with
// their z axis along world z (orientation is irrelevant to a spherical
// joint's constraint) (spec §6 "addSphericalJoint").
func (m *Model) AddSphericalJoint(name string, partI, partJ *Part, point [3]float64) *SphericalJoint {
	mi := addWorldMarker(partI, name+".i", point, [3]float64{0, 0, 1})
	mj := addWorldMarker(partJ, name+".j", point, [3]float64{0, 0, 1})
	j := NewSphericalJoint(name, mi, mj)
	m.Joints.Add(name, j)
	return j
}

// AddMotion attaches a scalar motion to the z axis of an existing joint's
// markers. Only Revolute and Prismatic joints support a motion in this
// core (a Spherical joint's 3 rotational freedoms are not individually
// addressable by a single scalar axis); attempting otherwise is an
// unsupported configuration (spec §6 "addMotion", §7.4).
func (m *Model) AddMotion(name string, joint Constraint) *Motion {
	var axis kernel.Vec6
	switch joint.(type) {
	case *RevoluteJoint:
		axis = kernel.Vec6{0, 0, 1, 0, 0, 0}
	case *PrismaticJoint:
		axis = kernel.Vec6{0, 0, 0, 0, 0, 1}
	default:
		panic((&ConfigError{Op: "AddMotion", Reason: "joint kind does not support an attached motion"}).Error())
	}
	mo := NewMotion(name, joint.MarkerI(), joint.MarkerJ(), axis, joint)
	m.Motions.Add(name, mo)
	return mo
}

// AddGeneralMotion attaches a 6-DOF general motion between an
// end-effector marker and a reference marker, used to model an
// end-effector target (spec §6 "addGeneralMotion").
func (m *Model) AddGeneralMotion(name string, endEffector, reference *Marker) *GeneralMotion {
	g := NewGeneralMotion(name, reference, endEffector)
	m.GeneralMotions.Add(name, g)
	return g
}

// AddForce inserts a pre-constructed Force into the model's force pool.
func (m *Model) AddForce(name string, f Force) Force {
	return m.Forces.Add(name, f)
}

// Init resolves pending state and allocates the counts the solver family
// sizes its scratch buffers from (spec §4.2 "init()"): validates every
// constraint's two markers belong to parts present in Parts (invariant
// 3), and is idempotent so constructing a model incrementally and calling
// Init() again after more additions is safe.
func (m *Model) Init() {
	checkPart := func(p *Part) {
		if p == m.Ground {
			return
		}
		if m.Parts.IndexOf(p.Name) < 0 {
			Panic("dynamic: Model.Init: part %q is referenced by a constraint but not present in the model", p.Name)
		}
	}
	m.Joints.Each(func(_ int, _ string, c Constraint) {
		checkPart(c.MarkerI().Part)
		checkPart(c.MarkerJ().Part)
	})
	m.Motions.Each(func(_ int, _ string, c *Motion) {
		checkPart(c.MarkerI().Part)
		checkPart(c.MarkerJ().Part)
	})
	m.GeneralMotions.Each(func(_ int, _ string, c *GeneralMotion) {
		checkPart(c.MarkerI().Part)
		checkPart(c.MarkerJ().Part)
	})
	m.initialized = true
	io.Pfblue2("dynamic: model initialized: %d parts, %d joints, %d motions, %d general motions, %d forces\n",
		m.Parts.Size(), m.Joints.Size(), m.Motions.Size(), m.GeneralMotions.Size(), m.Forces.Size())
}

// NumConstraintDof returns the total stacked constraint dimension across
// joints, motions, and general motions — the "nConstraintDof" the KKT
// system in spec §4.4 sizes its C block from.
func (m *Model) NumConstraintDof() int {
	n := 0
	m.Joints.Each(func(_ int, _ string, c Constraint) { n += c.Dim() })
	m.Motions.Each(func(_ int, _ string, c *Motion) { n += c.Dim() })
	m.GeneralMotions.Each(func(_ int, _ string, c *GeneralMotion) { n += c.Dim() })
	return n
}

// NumMovingParts returns the number of non-ground parts — "nParts" in
// spec §4.4's block sizing (the ground part never appears in I or pa).
func (m *Model) NumMovingParts() int {
	return m.Parts.Size() - 1
}

// SetMotionPos sets the commanded position of the named motion (spec §6
// "setMotionPos").
func (m *Model) SetMotionPos(name string, value float64) { m.Motions.MustFind(name).Mp = value }

// GetMotionPos reads the commanded position of the named motion (spec §6
// "getMotionPos").
func (m *Model) GetMotionPos(name string) float64 { return m.Motions.MustFind(name).Mp }

// SetMotionVel sets the commanded velocity of the named motion.
func (m *Model) SetMotionVel(name string, value float64) { m.Motions.MustFind(name).Mv = value }

// GetMotionVel reads the commanded velocity of the named motion.
func (m *Model) GetMotionVel(name string) float64 { return m.Motions.MustFind(name).Mv }

// SetMotionFce sets the commanded/solved force of the named motion.
func (m *Model) SetMotionFce(name string, value float64) { m.Motions.MustFind(name).Mf = value }

// GetMotionFce reads the commanded/solved force of the named motion.
func (m *Model) GetMotionFce(name string) float64 { return m.Motions.MustFind(name).Mf }

// SetEndEffectorPm sets the commanded relative pose target on the named
// general motion (spec §6 "setEndEffectorPm").
func (m *Model) SetEndEffectorPm(name string, pm kernel.Pm) {
	m.GeneralMotions.MustFind(name).SetEndEffectorPm(pm)
}

// GetEndEffectorPm reads the commanded relative pose target of the named
// general motion (spec §6 "getEndEffectorPm").
func (m *Model) GetEndEffectorPm(name string) kernel.Pm {
	return m.GeneralMotions.MustFind(name).EndEffectorPm()
}

// AdvanceTime moves the model's clock forward by dt, then resamples every
// motion's time-driven Profile and the environment's GravityProfile at
// the new time, the way fem.Solution.T drives boundary-condition
// functions across a time-stepping run. Motions/gravity with no profile
// are left untouched.
func (m *Model) AdvanceTime(dt float64) {
	m.Env.Time += dt
	m.Motions.Each(func(_ int, _ string, mo *Motion) {
		mo.EvalProfile(m.Env.Time, dt)
	})
}

func cross3(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

