package dynamic

import "github.com/yangf10/aris/kernel"

// Force is an interaction between two markers applying equal-and-opposite
// spatial wrenches to the two parts; it does not appear in the constraint
// matrix but contributes to the dynamics assembly's RHS (spec §3 "Force",
// §4.5). UpdFs recomputes FsI/FsJ (both expressed in their own marker's
// frame) from current model state.
type Force interface {
	Name() string
	MarkerI() *Marker
	MarkerJ() *Marker
	UpdFs()
	FsI() kernel.Vec6
	FsJ() kernel.Vec6
}

type forceBase struct {
	name   string
	mi, mj *Marker
	fsI    kernel.Vec6
	fsJ    kernel.Vec6
}

func (f *forceBase) Name() string     { return f.name }
func (f *forceBase) MarkerI() *Marker { return f.mi }
func (f *forceBase) MarkerJ() *Marker { return f.mj }
func (f *forceBase) FsI() kernel.Vec6 { return f.fsI }
func (f *forceBase) FsJ() kernel.Vec6 { return f.fsJ }

// SingleComponentForce applies a constant wrench component (e.g. a linear
// spring/damper collapsed to one axis, or a constant thrust) along a
// fixed direction in MarkerI's frame, scaled by Magnitude; it is the
// simplest concrete Force and the one used by the single-revolute
// end-to-end scenario's applied loads (spec §8 scenario 1).
type SingleComponentForce struct {
	forceBase
	Axis      kernel.Vec6
	Magnitude float64
}

// NewSingleComponentForce constructs a force of value magnitude*axis
// applied at MarkerI and the equal-and-opposite reaction at MarkerJ.
func NewSingleComponentForce(name string, mi, mj *Marker, axis kernel.Vec6, magnitude float64) *SingleComponentForce {
	f := &SingleComponentForce{forceBase: forceBase{name: name, mi: mi, mj: mj}, Axis: axis, Magnitude: magnitude}
	f.UpdFs()
	return f
}

func (f *SingleComponentForce) UpdFs() {
	f.fsI = f.Axis.Scale(f.Magnitude)
	// transform the reaction into MarkerJ's frame via the relative pose,
	// so FsJ is expressed consistently with how assembly consumes it.
	rel := kernel.PmInvMul(f.mj.WorldPm(), f.mi.WorldPm())
	f.fsJ = kernel.WrenchTransform(rel, f.fsI).Scale(-1)
}

// GravityForce applies the environment's gravity to a single part,
// expressed as a force at the part's own origin marker; used by the
// dynamics assembly as an alternative to folding gravity directly into
// pf, kept as an explicit Force so it is visible to introspection like
// any other applied load.
type GravityForce struct {
	forceBase
	Env  *Environment
	Part *Part
}

// NewGravityForce constructs a gravity load on part using env's gravity
// vector, anchored at the given marker (conventionally the part's own
// origin marker).
func NewGravityForce(name string, env *Environment, part *Part, at *Marker) *GravityForce {
	f := &GravityForce{forceBase: forceBase{name: name, mi: at, mj: at}, Env: env, Part: part}
	f.UpdFs()
	return f
}

func (f *GravityForce) UpdFs() {
	// F = Im * g, expressed in body frame via the inertia's own frame;
	// gravity is stored as a spatial acceleration of the world frame, so
	// it is rotated into the part's body frame before scaling by Im.
	gBody := kernel.AdApply(kernel.PmInv(f.Part.Pm), f.Env.EvalGravity())
	f.fsI = f.Part.Im.MulVec(gBody)
	f.fsJ = kernel.Vec6{}
}
