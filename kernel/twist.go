package kernel

// Vec6 is a spatial 6-vector (ω; v) — angular part first, per spec §6
// numeric formats. It is used for spatial velocity (vs), spatial
// acceleration (as), and spatial wrench (fs) alike; which one a given Vec6
// represents is carried by context, not by the type.
type Vec6 [6]float64

// Add returns a+b.
func (a Vec6) Add(b Vec6) (c Vec6) {
	for i := 0; i < 6; i++ {
		c[i] = a[i] + b[i]
	}
	return
}

// Scale returns s*a.
func (a Vec6) Scale(s float64) (c Vec6) {
	for i := 0; i < 6; i++ {
		c[i] = s * a[i]
	}
	return
}

// Angular returns the (ω) block.
func (a Vec6) Angular() [3]float64 { return [3]float64{a[0], a[1], a[2]} }

// Linear returns the (v) block.
func (a Vec6) Linear() [3]float64 { return [3]float64{a[3], a[4], a[5]} }

// Vec6FromParts assembles a Vec6 from its angular and linear blocks.
func Vec6FromParts(w, v [3]float64) Vec6 {
	return Vec6{w[0], w[1], w[2], v[0], v[1], v[2]}
}

// Mat6 is a dense 6x6 matrix, used for the spatial adjoint, spatial
// inertia, and the cross-product operators below.
type Mat6 [6][6]float64

// MulVec computes m*v.
func (m Mat6) MulVec(v Vec6) (w Vec6) {
	for i := 0; i < 6; i++ {
		var s float64
		for j := 0; j < 6; j++ {
			s += m[i][j] * v[j]
		}
		w[i] = s
	}
	return
}

// Transpose returns tr(m).
func (m Mat6) Transpose() (t Mat6) {
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			t[j][i] = m[i][j]
		}
	}
	return
}

// Mul computes m*n.
func (m Mat6) Mul(n Mat6) (p Mat6) {
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			var s float64
			for k := 0; k < 6; k++ {
				s += m[i][k] * n[k][j]
			}
			p[i][j] = s
		}
	}
	return
}

// Ad returns the spatial adjoint transform of a pose: the 6x6 operator
// mapping a spatial velocity/acceleration expressed in the child frame to
// the same quantity expressed in the parent frame ("vs ← Ad(pm)·vs").
//
//	Ad(pm) = [ R    0 ]
//	         [ [p]R R ]
//
// with R the rotation block, [p] the skew of the translation, consistent
// with the (ω;v) ordering used throughout this package.
func Ad(p Pm) (ad Mat6) {
	r := p.Rotation()
	t := p.Position()
	skewP := Skew(t)
	pr := matMul3(skewP, r)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			ad[i][j] = r[i][j]
			ad[i+3][j+3] = r[i][j]
			ad[i+3][j] = pr[i][j]
		}
	}
	return
}

// AdInvT returns Ad(pm)^-T, the operator used to transform wrenches
// ("fs ← Ad(pm)^-T·fs"): AdInvT(pm) = Ad(inv(pm))^T.
func AdInvT(p Pm) Mat6 {
	return Ad(PmInv(p)).Transpose()
}

// AdApply computes vs_parent := Ad(pm)·vs_child.
func AdApply(p Pm, vs Vec6) Vec6 {
	return Ad(p).MulVec(vs)
}

// AdApplyAdd computes out += Ad(pm)·vs_child.
func AdApplyAdd(p Pm, vs Vec6, out *Vec6) {
	w := Ad(p).MulVec(vs)
	for i := 0; i < 6; i++ {
		out[i] += w[i]
	}
}

// WrenchTransform computes fs_parent := Ad(pm)^-T·fs_child.
func WrenchTransform(p Pm, fs Vec6) Vec6 {
	return AdInvT(p).MulVec(fs)
}

// WrenchTransformAdd computes out += Ad(pm)^-T·fs_child.
func WrenchTransformAdd(p Pm, fs Vec6, out *Vec6) {
	w := WrenchTransform(p, fs)
	for i := 0; i < 6; i++ {
		out[i] += w[i]
	}
}

// CrossVs returns the se(3) "motion" cross-product operator ad_v such that
// CrossVs(v).MulVec(w) == v × w for two motion-type (velocity/acceleration)
// spatial vectors:
//
//	ad_v = [ [ω]   0  ]
//	       [ [u]  [ω] ]
//
// with v=(ω;u). This is the operator behind the Coriolis/centripetal term
// of the spatial acceleration transform and the velocity-product term of
// cptCa.
func CrossVs(v Vec6) (m Mat6) {
	w := Skew(v.Angular())
	u := Skew(v.Linear())
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = w[i][j]
			m[i+3][j+3] = w[i][j]
			m[i+3][j] = u[i][j]
		}
	}
	return
}

// CrossFs returns the dual cross-product operator ad_v* = -CrossVs(v)^T,
// used to cross a force-type (wrench) spatial vector: CrossFs(v).MulVec(f)
// is the rate of change of a wrench f carried by a frame moving with
// spatial velocity v — the bias term in the Newton-Euler wrench balance.
func CrossFs(v Vec6) Mat6 {
	c := CrossVs(v)
	var neg Mat6
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			neg[i][j] = -c[i][j]
		}
	}
	return neg.Transpose()
}

// CrossVsOnVs returns v × v, the self-cross used in the acceleration
// transform's velocity-dependent term (spec §4.1 "cross_vs").
func CrossVsOnVs(v Vec6) Vec6 {
	return CrossVs(v).MulVec(v)
}

// CrossAsOnVs returns the bias wrench ad_v*(Im·v)-style cross of a
// force-type vector f against a motion-type vector v (spec §4.1
// "cross_as_on_vs"), used to compute the velocity-product force acting on
// a part: fv = v ×* (Im·v).
func CrossAsOnVs(f, v Vec6) Vec6 {
	return CrossFs(v).MulVec(f)
}

// AdDtApply computes the time-derivative-of-adjoint term used in the
// spatial acceleration transform between two frames related by the
// time-varying relative pose pmRel, whose relative spatial velocity
// (expressed in the child frame) is vRel:
//
//	d/dt(Ad(pmRel))·vsChild = Ad(pmRel)·(vRel × vsChild)
//
// so that the full transform is
//
//	as_parent = Ad(pmRel)·as_child + AdDtApply(pmRel, vRel, vs_child)
func AdDtApply(pmRel Pm, vRel, vsChild Vec6) Vec6 {
	return AdApply(pmRel, CrossVs(vRel).MulVec(vsChild))
}
