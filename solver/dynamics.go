package solver

import (
	"github.com/yangf10/aris/dynamic"
	"github.com/yangf10/aris/kernel"
)

// dynAssembly extends assembly with the dynamics-specific blocks: the
// block-diagonal inertia and the external/bias force vector (spec §4.4).
type dynAssembly struct {
	*assembly
	im [][]float64
	pf []float64
	c  [][]float64
	ca []float64
}

func newDynAssembly(a *assembly) *dynAssembly {
	return &dynAssembly{
		assembly: a,
		im:       a.buildI(),
		pf:       a.buildPf(),
		c:        a.buildC(),
		ca:       a.buildCa(),
	}
}

// InverseDynamics solves for the constraint and motor forces consistent
// with the model's current pose, velocity, and commanded motion
// acceleration (spec §6 "inverseDynamics"): assembles and solves the full
// KKT system of spec §4.4, writes each joint's and motion's constraint
// force back, and sets every motion's Mf to the sum of its solved
// dynamic force and its friction force.
func InverseDynamics(m *dynamic.Model, cfg Config) Result {
	cfg.SetDefault()
	a := newDynAssembly(newAssembly(m))
	pa, cf, status := solveKKT(cfg, a)
	writebackAccelerations(a.assembly, pa)
	writebackConstraintForces(a.assembly, cf)
	m.Motions.Each(func(_ int, _ string, mo *dynamic.Motion) {
		mo.MfDyn = mo.CfPtr()[0]
		mo.MfFrc = mo.FrictionForce()
		mo.Mf = mo.MfDyn + mo.MfFrc
	})
	return Result{ErrorNorm: kktResidualNorm(a, pa, cf), Status: status}
}

// ForwardDynamics solves for the resulting part accelerations given
// commanded motor forces (spec §6 "forwardDynamics"): motions are excluded
// from the constraint set entirely (they no longer pin an acceleration)
// and their commanded total force is folded into pf instead, along their
// Axis; the reduced KKT system is solved for pa and the joints' constraint
// forces, and every motion's resulting Ma is read back by projecting the
// solved pa through its own (otherwise unused) constraint column.
func ForwardDynamics(m *dynamic.Model, cfg Config) Result {
	cfg.SetDefault()
	base := newAssemblyCustom(m, false)
	a := newDynAssembly(base)
	foldMotionForces(a, m)
	pa, cf, status := solveKKT(cfg, a)
	writebackAccelerations(a.assembly, pa)
	writebackConstraintForces(a.assembly, cf)
	m.Motions.Each(func(_ int, _ string, mo *dynamic.Motion) {
		mo.Ma = relAccelAlongAxis(a, mo, pa)
	})
	return Result{ErrorNorm: kktResidualNorm(a, pa, cf), Status: status}
}

// foldMotionForces adds each motion's commanded total force (dynamic plus
// friction) into pf along its Axis, the RHS contribution a force-driven
// motion makes once it is no longer a row of C.
func foldMotionForces(a *dynAssembly, m *dynamic.Model) {
	m.Motions.Each(func(_ int, _ string, mo *dynamic.Motion) {
		mi := mo.MarkerI()
		worldWrench := kernel.WrenchTransform(mi.WorldPm(), mo.Axis.Scale(mo.Mf))
		if ri := a.rowOf(mi.Part); ri >= 0 {
			for r := 0; r < 6; r++ {
				a.pf[6*ri+r] += worldWrench[r]
			}
		}
		mj := mo.MarkerJ()
		if rj := a.rowOf(mj.Part); rj >= 0 {
			for r := 0; r < 6; r++ {
				a.pf[6*rj+r] -= worldWrench[r]
			}
		}
	})
}

// relAccelAlongAxis recovers the physical relative acceleration a motion's
// axis ends up with once it has been excluded from the constraint set: the
// stacked-acceleration projection through its own (never-assembled)
// world-frame constraint column, plus the same velocity-product bias
// CptCa folds into every other constraint's residual — the two together
// undo the transport-term subtraction the KKT formulation applies to
// every constrained axis, recovering the actual, not commanded, relative
// acceleration.
func relAccelAlongAxis(a *dynAssembly, mo *dynamic.Motion, pa []float64) float64 {
	mo.UpdPrtCmI()
	cmI, cmJ := dynamic.CptGlbCm(mo)
	var raw float64
	if ri := a.rowOf(mo.MarkerI().Part); ri >= 0 {
		for r := 0; r < 6; r++ {
			raw += cmI[r][0] * pa[6*ri+r]
		}
	}
	if rj := a.rowOf(mo.MarkerJ().Part); rj >= 0 {
		for r := 0; r < 6; r++ {
			raw += cmJ[r][0] * pa[6*rj+r]
		}
	}
	bias := make([]float64, 1)
	mo.CptCa(bias)
	// CptCa(bias) = mo.Ma(old) - biasTerm; recover biasTerm, then the
	// physical acceleration is raw + biasTerm.
	return raw + mo.Ma - bias[0]
}

// solveKKT dispatches to the configured solver variant (spec §4.4).
func solveKKT(cfg Config, a *dynAssembly) (pa, cf []float64, status int) {
	switch cfg.Kind {
	case Divided:
		return solveDivided(cfg, a)
	case Diagonal:
		return solveDiagonal(cfg, a)
	default:
		return solveCombined(cfg, a)
	}
}

// solveCombined assembles the full (6nParts+nConstDof) KKT matrix and
// solves it with kernel.FactorQR's rank-revealing QR, taking the minimum-
// norm solution when the matrix is rank-deficient (spec §4.4 "Combined
// dense"). A redundant but consistent system still reports StatusOK;
// StatusRankDeficient means the minimum-norm solution leaves a residual
// above cfg.MaxError.
func solveCombined(cfg Config, a *dynAssembly) (pa, cf []float64, status int) {
	n := 6 * a.nParts
	k := a.nConstDof
	kkt := kernel.MatAlloc(n+k, n+k)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			kkt[i][j] = a.im[i][j]
		}
		for j := 0; j < k; j++ {
			kkt[i][n+j] = a.c[i][j]
		}
	}
	for i := 0; i < k; i++ {
		for j := 0; j < n; j++ {
			kkt[n+i][j] = a.c[j][i]
		}
	}
	rhs := make([]float64, n+k)
	copy(rhs[:n], a.pf)
	copy(rhs[n:], a.ca)

	f := kernel.FactorQR(kkt, cfg.RankTol)
	x := f.Solve(rhs)
	pa = x[:n]
	cf = x[n:]
	status = dynamic.StatusOK
	if f.Rank() < n+k && residualNorm(kkt, x, rhs) > cfg.MaxError {
		status = dynamic.StatusRankDeficient
	}
	return
}

// blockEliminate factors each part's 6x6 world inertia block independently
// via Cholesky (exploiting I's block-diagonal structure) and applies its
// inverse to every column of C and to pf, the per-part elimination step
// both the divided and diagonal variants build on.
func blockEliminate(a *dynAssembly) (iInvC [][]float64, iInvPf []float64, ok bool) {
	n := 6 * a.nParts
	k := a.nConstDof
	iInvC = kernel.MatAlloc(n, k)
	iInvPf = make([]float64, n)
	for i := 0; i < a.nParts; i++ {
		block := kernel.MatAlloc(6, 6)
		for r := 0; r < 6; r++ {
			for cc := 0; cc < 6; cc++ {
				block[r][cc] = a.im[6*i+r][6*i+cc]
			}
		}
		chol := kernel.FactorCholesky(block)
		if !chol.OK() {
			return nil, nil, false
		}
		for col := 0; col < k; col++ {
			b := make([]float64, 6)
			for r := 0; r < 6; r++ {
				b[r] = a.c[6*i+r][col]
			}
			x := chol.Solve(b)
			for r := 0; r < 6; r++ {
				iInvC[6*i+r][col] = x[r]
			}
		}
		bpf := a.pf[6*i : 6*i+6]
		xpf := chol.Solve(bpf)
		copy(iInvPf[6*i:6*i+6], xpf)
	}
	return iInvC, iInvPf, true
}

// reducedSystem assembles the k x k system Cᵀ·I⁻¹·C·cf = Cᵀ·I⁻¹·pf − ca
// that both the divided and diagonal variants solve, each eliminating it
// along a different partition.
func reducedSystem(a *dynAssembly, iInvC [][]float64, iInvPf []float64) (reduced [][]float64, rhs []float64) {
	n := 6 * a.nParts
	k := a.nConstDof
	reduced = kernel.MatAlloc(k, k)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			var s float64
			for r := 0; r < n; r++ {
				s += a.c[r][i] * iInvC[r][j]
			}
			reduced[i][j] = s
		}
	}
	rhs = make([]float64, k)
	for i := 0; i < k; i++ {
		var s float64
		for r := 0; r < n; r++ {
			s += a.c[r][i] * iInvPf[r]
		}
		rhs[i] = s - a.ca[i]
	}
	return reduced, rhs
}

// recoverPa backs out the stacked part accelerations pa = I⁻¹pf − I⁻¹C·cf
// from the already-eliminated per-part blocks, shared by the divided and
// diagonal variants once cf is known.
func recoverPa(a *dynAssembly, iInvC [][]float64, iInvPf, cf []float64) []float64 {
	n := 6 * a.nParts
	pa := make([]float64, n)
	for r := 0; r < n; r++ {
		var cfc float64
		for col := range cf {
			cfc += iInvC[r][col] * cf[col]
		}
		pa[r] = iInvPf[r] - cfc
	}
	return pa
}

// solveDivided eliminates pa = I⁻¹(pf − C·cf) block-by-block (exploiting
// I's block-diagonal structure: each 6x6 part block is factored
// independently via Cholesky) and solves the reduced system
// Cᵀ·I⁻¹·C·cf = Cᵀ·I⁻¹·pf − ca with a single Cholesky factorization over
// every constraint at once (spec §4.4 "Divided LLT").
func solveDivided(cfg Config, a *dynAssembly) (pa, cf []float64, status int) {
	iInvC, iInvPf, ok := blockEliminate(a)
	if !ok {
		return nil, nil, dynamic.StatusRankDeficient
	}
	reduced, rhs := reducedSystem(a, iInvC, iInvPf)

	cholReduced := kernel.FactorCholesky(reduced)
	if !cholReduced.OK() {
		return nil, nil, dynamic.StatusRankDeficient
	}
	cf = cholReduced.Solve(rhs)
	pa = recoverPa(a, iInvC, iInvPf, cf)
	return pa, cf, dynamic.StatusOK
}

// spanningPartition splits the reduced system's constraint columns into a
// spanning-tree set (enough constraints, taken in assembly order, to
// connect every part — and ground — with no cycle) and a remainder set
// that closes the mechanism's loops, via union-find over a.cons (spec
// §4.4 "Diagonal (tree-exploiting): partitions the constraint graph into
// spanning diagonal 6x6 blocks and remainder loop-closure constraints and
// eliminates block-by-block"). For an open (unclosed) chain every
// constraint lands in the tree set and remainder is empty.
func spanningPartition(a *dynAssembly) (tree, remainder []int) {
	groundNode := a.nParts
	parent := make([]int, a.nParts+1)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	nodeOf := func(p *dynamic.Part) int {
		if p.Ground {
			return groundNode
		}
		return a.rowOf(p)
	}
	for ci, con := range a.cons {
		cols := make([]int, con.Dim())
		for d := range cols {
			cols[d] = a.colOffset[ci] + d
		}
		ni, nj := find(nodeOf(con.MarkerI().Part)), find(nodeOf(con.MarkerJ().Part))
		if ni != nj {
			parent[ni] = nj
			tree = append(tree, cols...)
		} else {
			remainder = append(remainder, cols...)
		}
	}
	return tree, remainder
}

// solveDiagonal eliminates the reduced system in two stages instead of
// solveDivided's single monolithic factorization: first the spanning-tree
// block Att (the constraints that connect the mechanism without closing a
// loop), then a Schur complement over only the remainder columns that do
// close a loop — so the expensive factorization (Att) scales with the
// articulated chain's size while the second, typically much smaller,
// factorization scales with its number of independent loops (spec §4.4
// "Diagonal (tree-exploiting)"). An unclosed chain has no remainder
// columns at all, collapsing to a single tree solve.
func solveDiagonal(cfg Config, a *dynAssembly) (pa, cf []float64, status int) {
	iInvC, iInvPf, ok := blockEliminate(a)
	if !ok {
		return nil, nil, dynamic.StatusRankDeficient
	}
	reduced, rhs := reducedSystem(a, iInvC, iInvPf)
	tree, rem := spanningPartition(a)

	att := subMat(reduced, tree, tree)
	bt := subVec(rhs, tree)
	cholTT := kernel.FactorCholesky(att)
	if !cholTT.OK() {
		return nil, nil, dynamic.StatusRankDeficient
	}

	cf = make([]float64, a.nConstDof)
	if len(rem) == 0 {
		scatterVec(cf, tree, cholTT.Solve(bt))
		pa = recoverPa(a, iInvC, iInvPf, cf)
		return pa, cf, dynamic.StatusOK
	}

	atr := subMat(reduced, tree, rem)
	art := subMat(reduced, rem, tree)
	arr := subMat(reduced, rem, rem)
	br := subVec(rhs, rem)

	attInvAtr := kernel.MatAlloc(len(tree), len(rem))
	for col := 0; col < len(rem); col++ {
		colVec := make([]float64, len(tree))
		for r := range tree {
			colVec[r] = atr[r][col]
		}
		x := cholTT.Solve(colVec)
		for r := range tree {
			attInvAtr[r][col] = x[r]
		}
	}
	attInvBt := cholTT.Solve(bt)

	schur := kernel.MatAlloc(len(rem), len(rem))
	kernel.MatMul(schur, -1, art, attInvAtr)
	for i := range rem {
		for j := range rem {
			schur[i][j] += arr[i][j]
		}
	}
	schurRhs := make([]float64, len(rem))
	for i := range rem {
		var s float64
		for j := range tree {
			s += art[i][j] * attInvBt[j]
		}
		schurRhs[i] = br[i] - s
	}

	cholRR := kernel.FactorCholesky(schur)
	if !cholRR.OK() {
		return nil, nil, dynamic.StatusRankDeficient
	}
	cfR := cholRR.Solve(schurRhs)

	cfT := make([]float64, len(tree))
	for i := range tree {
		var s float64
		for j := range rem {
			s += attInvAtr[i][j] * cfR[j]
		}
		cfT[i] = attInvBt[i] - s
	}

	scatterVec(cf, tree, cfT)
	scatterVec(cf, rem, cfR)
	pa = recoverPa(a, iInvC, iInvPf, cf)
	return pa, cf, dynamic.StatusOK
}

func subMat(m [][]float64, rows, cols []int) [][]float64 {
	out := kernel.MatAlloc(len(rows), len(cols))
	for i, r := range rows {
		for j, c := range cols {
			out[i][j] = m[r][c]
		}
	}
	return out
}

func subVec(v []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, id := range idx {
		out[i] = v[id]
	}
	return out
}

func scatterVec(full []float64, idx []int, vals []float64) {
	for i, id := range idx {
		full[id] = vals[i]
	}
}

func writebackAccelerations(a *assembly, pa []float64) {
	if pa == nil {
		return
	}
	for i, p := range a.parts {
		var w kernel.Vec6
		for r := 0; r < 6; r++ {
			w[r] = pa[6*i+r]
		}
		p.As = kernel.AdApply(kernel.PmInv(p.Pm), w)
	}
}

func writebackConstraintForces(a *assembly, cf []float64) {
	if cf == nil {
		return
	}
	for ci, con := range a.cons {
		con.SetCf(cf[a.colOffset[ci] : a.colOffset[ci]+con.Dim()])
	}
}

func kktResidualNorm(a *dynAssembly, pa, cf []float64) float64 {
	if pa == nil || cf == nil {
		return -1
	}
	n := 6 * a.nParts
	k := a.nConstDof
	r1 := make([]float64, n)
	for i := 0; i < n; i++ {
		var s float64
		for j := 0; j < n; j++ {
			s += a.im[i][j] * pa[j]
		}
		for j := 0; j < k; j++ {
			s += a.c[i][j] * cf[j]
		}
		r1[i] = s - a.pf[i]
	}
	r2 := make([]float64, k)
	for i := 0; i < k; i++ {
		var s float64
		for j := 0; j < n; j++ {
			s += a.c[j][i] * pa[j]
		}
		r2[i] = s - a.ca[i]
	}
	return kernel.VecNorm(r1) + kernel.VecNorm(r2)
}
