package dynamic

import "github.com/yangf10/aris/kernel"

// Constraint is the contract every joint, motion, and general motion
// implements (spec §4.3). dim is fixed per instance; all residual/matrix
// outputs are sized to dim and use the first dim entries of the backing
// arrays (max dim is 6, so callers may pass fixed [6]float64 scratch and
// slice it to Dim()).
//
// Grounded on fem.Elem (element.go): a small interface of update/residual
// hooks called by the solver once per assembly, without the element ever
// reaching back into the solver's internals.
type Constraint interface {
	// Name identifies the constraint within its pool.
	Name() string

	// Dim returns d, the constraint dimension.
	Dim() int

	// MarkerI and MarkerJ return the two markers the constraint binds.
	MarkerI() *Marker
	MarkerJ() *Marker

	// UpdPrtCmI recomputes the constraint matrix (spec §4.3 "prtCmI") in
	// the frame of MarkerI ahead of an assembly pass. Constraints with a
	// configuration-independent matrix (Revolute, Prismatic, Spherical,
	// Motion, GeneralMotion) may implement this as a no-op after the
	// first call.
	UpdPrtCmI()

	// PrtCmI returns the current 6xd constraint matrix in MarkerI's frame,
	// valid after the most recent UpdPrtCmI.
	PrtCmI() [][]float64

	// CptCp writes the d position residuals into cp[:d].
	CptCp(cp []float64)

	// CptCv writes the d velocity residual RHS values into cv[:d].
	CptCv(cv []float64)

	// CptCa writes the d acceleration residual RHS values (including
	// velocity-dependent Coriolis/centripetal terms) into ca[:d].
	CptCa(ca []float64)

	// CfPtr returns the current constraint (Lagrange) force, length d.
	CfPtr() []float64

	// SetCf stores a newly solved constraint force, length d.
	SetCf(cf []float64)
}

// CptPrtCm writes the 6xd constraint block into both parts' frames:
// cmJ = -Ad(pm_M->N)*cmI (spec §4.3 "cptPrtCm"), where pm_M->N is the
// pose of marker I's part relative to marker J's part.
func CptPrtCm(c Constraint) (cmI, cmJ [][]float64) {
	cmI = c.PrtCmI()
	d := c.Dim()
	mi, mj := c.MarkerI(), c.MarkerJ()
	pmMtoN := kernel.PmInvMul(mj.Part.Pm, mi.Part.Pm)
	ad := kernel.Ad(pmMtoN)
	cmJ = kernel.MatAlloc(6, d)
	for col := 0; col < d; col++ {
		var v kernel.Vec6
		for r := 0; r < 6; r++ {
			v[r] = cmI[r][col]
		}
		w := ad.MulVec(v)
		for r := 0; r < 6; r++ {
			cmJ[r][col] = -w[r]
		}
	}
	return
}

// CptGlbCm writes the constraint block transformed into world frame:
// cmJ = -cmI (spec §4.3 "cptGlbCm"), both expressed at world orientation.
func CptGlbCm(c Constraint) (cmI, cmJ [][]float64) {
	local := c.PrtCmI()
	d := c.Dim()
	mi := c.MarkerI()
	adI := kernel.Ad(mi.WorldPm())
	cmI = kernel.MatAlloc(6, d)
	cmJ = kernel.MatAlloc(6, d)
	for col := 0; col < d; col++ {
		var v kernel.Vec6
		for r := 0; r < 6; r++ {
			v[r] = local[r][col]
		}
		w := adI.MulVec(v)
		for r := 0; r < 6; r++ {
			cmI[r][col] = w[r]
			cmJ[r][col] = -w[r]
		}
	}
	return
}
