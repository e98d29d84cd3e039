package solver

import (
	"github.com/yangf10/aris/dynamic"
	"github.com/yangf10/aris/kernel"
)

// assembly holds the per-call bookkeeping shared by every solver
// operation: a stable ordering of moving parts and constraints, and the
// row/column offsets each is assembled at. Built fresh each call (spec
// §5: "no heap allocation inside kinPos/kinVel/kinAcc/dynAccAndFce after
// init" is the real-time-core's aspiration; this reference implementation
// favors clarity and rebuilds it per call from the model's pools, which
// are themselves unchanged between solver invocations).
type assembly struct {
	model      *dynamic.Model
	parts      []*dynamic.Part // moving (non-ground) parts, in pool order
	partRow    map[*dynamic.Part]int
	cons       []dynamic.Constraint
	colOffset  []int
	nConstDof  int
	nParts     int
}

func newAssembly(m *dynamic.Model) *assembly {
	return newAssemblyCustom(m, true)
}

// newAssemblyCustom builds the bookkeeping as newAssembly does, optionally
// excluding Motions from the constraint set entirely (not merely zeroing
// their columns) — ForwardDynamics needs this, since a motion becomes
// force-driven there and a zeroed-but-present column would leave its
// constraint-force unknown both rank-deficient and decoupled from every
// equation, tripping the divided solver's Cholesky step for no physical
// reason.
func newAssemblyCustom(m *dynamic.Model, includeMotions bool) *assembly {
	a := &assembly{model: m, partRow: make(map[*dynamic.Part]int)}
	for i := 0; i < m.Parts.Size(); i++ {
		p := m.Parts.At(i)
		if p.Ground {
			continue
		}
		a.partRow[p] = len(a.parts)
		a.parts = append(a.parts, p)
	}
	a.nParts = len(a.parts)

	m.Joints.Each(func(_ int, _ string, c dynamic.Constraint) { a.cons = append(a.cons, c) })
	if includeMotions {
		m.Motions.Each(func(_ int, _ string, c *dynamic.Motion) { a.cons = append(a.cons, c) })
	}
	m.GeneralMotions.Each(func(_ int, _ string, c *dynamic.GeneralMotion) { a.cons = append(a.cons, c) })

	a.colOffset = make([]int, len(a.cons))
	off := 0
	for i, c := range a.cons {
		a.colOffset[i] = off
		off += c.Dim()
	}
	a.nConstDof = off
	return a
}

// rowOf returns the row-block index of part, or -1 if it is ground.
func (a *assembly) rowOf(p *dynamic.Part) int {
	if p.Ground {
		return -1
	}
	return a.partRow[p]
}

// buildC assembles the stacked global constraint matrix C, sized
// (6*nParts) x nConstDof (spec §4.4 "C is the stacked global constraint
// matrix").
func (a *assembly) buildC() [][]float64 {
	c := kernel.MatAlloc(6*a.nParts, a.nConstDof)
	for ci, con := range a.cons {
		con.UpdPrtCmI()
		cmI, cmJ := dynamic.CptGlbCm(con)
		scatter(c, cmI, a.rowOf(con.MarkerI().Part), a.colOffset[ci], con.Dim())
		scatter(c, cmJ, a.rowOf(con.MarkerJ().Part), a.colOffset[ci], con.Dim())
	}
	return c
}

func scatter(dst, block [][]float64, rowBlock, colOff, dim int) {
	if rowBlock < 0 {
		return
	}
	for r := 0; r < 6; r++ {
		for col := 0; col < dim; col++ {
			dst[6*rowBlock+r][colOff+col] += block[r][col]
		}
	}
}

// buildCv stacks every constraint's velocity residual (spec §4.3 cptCv).
func (a *assembly) buildCv() []float64 {
	cv := make([]float64, a.nConstDof)
	for ci, con := range a.cons {
		con.CptCv(cv[a.colOffset[ci] : a.colOffset[ci]+con.Dim()])
	}
	return cv
}

// buildCa stacks every constraint's acceleration residual (spec §4.3
// cptCa).
func (a *assembly) buildCa() []float64 {
	ca := make([]float64, a.nConstDof)
	for ci, con := range a.cons {
		con.CptCa(ca[a.colOffset[ci] : a.colOffset[ci]+con.Dim()])
	}
	return ca
}

// buildCp stacks every constraint's position residual (spec §4.3 cptCp).
func (a *assembly) buildCp() []float64 {
	cp := make([]float64, a.nConstDof)
	for ci, con := range a.cons {
		con.CptCp(cp[a.colOffset[ci] : a.colOffset[ci]+con.Dim()])
	}
	return cp
}

// buildI assembles the block-diagonal world-frame inertia, 6*nParts
// square (spec §4.4 "I is block-diagonal").
func (a *assembly) buildI() [][]float64 {
	im := kernel.MatAlloc(6*a.nParts, 6*a.nParts)
	for i, p := range a.parts {
		wi := p.WorldIm()
		for r := 0; r < 6; r++ {
			for cc := 0; cc < 6; cc++ {
				im[6*i+r][6*i+cc] = wi[r][cc]
			}
		}
	}
	return im
}

// buildPf assembles net external spatial forces on each part: gravity
// (folded through Im, since Environment.Gravity is a spatial acceleration
// of the world frame), applied Forces, and the velocity-product bias term
// v x* (Im*v) (spec §4.4 "pf stacks net external spatial forces").
func (a *assembly) buildPf() []float64 {
	pf := make([]float64, 6*a.nParts)
	for i, p := range a.parts {
		wi := p.WorldIm()
		vWorld := p.WorldVs()
		grav := wi.MulVec(a.model.Env.EvalGravity())
		bias := kernel.CrossAsOnVs(wi.MulVec(vWorld), vWorld)
		for r := 0; r < 6; r++ {
			pf[6*i+r] += grav[r] - bias[r]
		}
	}
	a.model.Forces.Each(func(_ int, _ string, f dynamic.Force) {
		f.UpdFs()
		addForceContribution(pf, a, f)
	})
	return pf
}

// addForceContribution rotates each marker-frame wrench into world frame
// (matching buildI's and buildC's world-frame convention) before adding
// it to pf.
func addForceContribution(pf []float64, a *assembly, f dynamic.Force) {
	mi, mj := f.MarkerI(), f.MarkerJ()
	if ri := a.rowOf(mi.Part); ri >= 0 {
		w := kernel.WrenchTransform(mi.WorldPm(), f.FsI())
		for r := 0; r < 6; r++ {
			pf[6*ri+r] += w[r]
		}
	}
	if rj := a.rowOf(mj.Part); rj >= 0 {
		w := kernel.WrenchTransform(mj.WorldPm(), f.FsJ())
		for r := 0; r < 6; r++ {
			pf[6*rj+r] += w[r]
		}
	}
}
