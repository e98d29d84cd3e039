package dynamic

import "github.com/yangf10/aris/kernel"

// Part is a rigid body: a pose in world frame, a spatial velocity and
// acceleration expressed in its own body frame, a spatial inertia also in
// its own body frame, and a pool of markers attached to it (spec §3
// "Part"). Velocities/accelerations are kept body-frame, the convention
// screw-theory kernels use so that Ad(Pm) is the one operator needed to
// move any of them into world frame on demand.
type Part struct {
	Name    string
	Pm      kernel.Pm     // pose, world frame
	Vs      kernel.Vec6   // spatial velocity, body frame
	As      kernel.Vec6   // spatial acceleration, body frame
	Im      kernel.Mat6   // spatial inertia, body frame
	Ground  bool           // true only for the distinguished ground part
	Markers *Pool[*Marker] // markers attached to this part
}

// NewPart constructs a part with the given inertia, initially at the
// identity pose with zero velocity and acceleration. Callers set Pm via
// PoseSetter or direct field assignment before the first solve.
func NewPart(name string, im kernel.Mat6) *Part {
	return &Part{
		Name:    name,
		Pm:      kernel.Eye4(),
		Im:      im,
		Markers: NewPool[*Marker](),
	}
}

// NewGroundPart constructs the distinguished ground part: identity pose,
// zero velocity/acceleration, and an inertia that is never referenced by
// any solver (spec §3 invariant 4: "the ground part is never mutated by
// solvers").
func NewGroundPart() *Part {
	p := NewPart("ground", kernel.Mat6{})
	p.Ground = true
	return p
}

// PoseSetter mutates a part's pose from any of the supported numeric
// formats, replacing the teacher original's large family of overloaded
// pm/pe/pq/pa setters (aris_dynamic_model.h's Part::setPm/setPe/...) with
// a single small dispatcher, since Go has no overloading and the formats
// are otherwise identical one-liners (SPEC_FULL.md §3).
type PoseSetter struct{ part *Part }

// Pose returns a PoseSetter bound to p.
func (p *Part) Pose() PoseSetter { return PoseSetter{part: p} }

// SetPm sets the pose directly.
func (s PoseSetter) SetPm(pm kernel.Pm) { s.part.Pm = pm }

// SetPe sets the pose from position+Euler angles in the given convention.
func (s PoseSetter) SetPe(pe [6]float64, order string) { s.part.Pm = kernel.PeToPm(pe, order) }

// SetPq sets the pose from position+quaternion (w first).
func (s PoseSetter) SetPq(pq [7]float64) { s.part.Pm = kernel.PqToPm(pq) }

// SetPa sets the pose from position+axis-angle.
func (s PoseSetter) SetPa(pa [6]float64) { s.part.Pm = kernel.PaToPm(pa) }

// AddMarker attaches a new marker at the given part-local pose.
func (p *Part) AddMarker(name string, localPm kernel.Pm) *Marker {
	return p.Markers.Add(name, &Marker{Name: name, Part: p, Local: localPm})
}

// WorldPm returns the part's world pose — an alias kept for symmetry with
// Marker.WorldPm, used by callers that walk parts and markers uniformly.
func (p *Part) WorldPm() kernel.Pm { return p.Pm }

// WorldVs returns the part's spatial velocity transformed into world
// frame: vs_world = Ad(Pm)*vs_body.
func (p *Part) WorldVs() kernel.Vec6 { return kernel.AdApply(p.Pm, p.Vs) }

// WorldAs returns the part's spatial acceleration transformed into world
// frame: as_world = Ad(Pm)*as_body.
func (p *Part) WorldAs() kernel.Vec6 { return kernel.AdApply(p.Pm, p.As) }

// WorldIm returns the part's spatial inertia transformed into world
// frame via the Ad^-T * Im * Ad^-1 congruence, the form the dynamics
// assembly's block-diagonal I uses (spec §4.4).
func (p *Part) WorldIm() kernel.Mat6 { return kernel.TransformInertia(p.Pm, p.Im) }
