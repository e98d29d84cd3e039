package kernel

import "math"

// Pm is a 4x4 homogeneous pose (transform) matrix:
//
//	[ R  p ]
//	[ 0  1 ]
//
// with R the 3x3 rotation and p the 3-vector translation.
type Pm [4][4]float64

// Eye4 returns the identity pose.
func Eye4() Pm {
	var p Pm
	p[0][0], p[1][1], p[2][2], p[3][3] = 1, 1, 1, 1
	return p
}

// Rotation extracts the 3x3 rotation block.
func (p Pm) Rotation() (r [3][3]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = p[i][j]
		}
	}
	return
}

// Position extracts the translation.
func (p Pm) Position() (t [3]float64) {
	t[0], t[1], t[2] = p[0][3], p[1][3], p[2][3]
	return
}

// FromRp builds a pose from a rotation block and a position.
func FromRp(r [3][3]float64, t [3]float64) Pm {
	var p Pm
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			p[i][j] = r[i][j]
		}
		p[i][3] = t[i]
	}
	p[3][3] = 1
	return p
}

// PmMul computes c := a*b (pm ∘ pm).
func PmMul(a, b Pm) (c Pm) {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var s float64
			for k := 0; k < 4; k++ {
				s += a[i][k] * b[k][j]
			}
			c[i][j] = s
		}
	}
	return
}

// PmInv returns the exact inverse of a pose: tr(R), -tr(R)*p.
func PmInv(a Pm) (inv Pm) {
	r := a.Rotation()
	t := a.Position()
	var rt [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rt[i][j] = r[j][i]
		}
	}
	var tInv [3]float64
	for i := 0; i < 3; i++ {
		var s float64
		for j := 0; j < 3; j++ {
			s += rt[i][j] * t[j]
		}
		tInv[i] = -s
	}
	return FromRp(rt, tInv)
}

// PmInvMul computes inv(a)*b, using the exact pose inverse PmInv.
func PmInvMul(a, b Pm) Pm {
	return PmMul(PmInv(a), b)
}

// Skew returns the skew-symmetric cross-product matrix of a 3-vector.
func Skew(v [3]float64) (s [3][3]float64) {
	s[0][1], s[0][2] = -v[2], v[1]
	s[1][0], s[1][2] = v[2], -v[0]
	s[2][0], s[2][1] = -v[1], v[0]
	return
}

// Unskew recovers the vector from a skew-symmetric matrix.
func Unskew(s [3][3]float64) (v [3]float64) {
	v[0] = (s[2][1] - s[1][2]) / 2
	v[1] = (s[0][2] - s[2][0]) / 2
	v[2] = (s[1][0] - s[0][1]) / 2
	return
}

func matMul3(a, b [3][3]float64) (c [3][3]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += a[i][k] * b[k][j]
			}
			c[i][j] = s
		}
	}
	return
}

func matVec3(a [3][3]float64, v [3]float64) (w [3]float64) {
	for i := 0; i < 3; i++ {
		w[i] = a[i][0]*v[0] + a[i][1]*v[1] + a[i][2]*v[2]
	}
	return
}

func transpose3(a [3][3]float64) (t [3][3]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t[j][i] = a[i][j]
		}
	}
	return
}

// euler axis indices are 1-based in the convention strings ("313","321",...).
func axisRotation(axis int, angle float64) [3][3]float64 {
	c, s := math.Cos(angle), math.Sin(angle)
	switch axis {
	case 1:
		return [3][3]float64{{1, 0, 0}, {0, c, -s}, {0, s, c}}
	case 2:
		return [3][3]float64{{c, 0, s}, {0, 1, 0}, {-s, 0, c}}
	case 3:
		return [3][3]float64{{c, -s, 0}, {s, c, 0}, {0, 0, 1}}
	default:
		panic("kernel: invalid Euler axis in convention string (must be '1','2', or '3')")
	}
}

// EulerToRm builds a rotation matrix from three Euler angles and an
// axis-convention string such as "313" or "321"; an unrecognized string is
// a programming error (spec §4.1).
func EulerToRm(e [3]float64, order string) [3][3]float64 {
	axes := parseOrder(order)
	r1 := axisRotation(axes[0], e[0])
	r2 := axisRotation(axes[1], e[1])
	r3 := axisRotation(axes[2], e[2])
	return matMul3(matMul3(r1, r2), r3)
}

func parseOrder(order string) [3]int {
	if len(order) != 3 {
		panic("kernel: invalid Euler convention string " + order)
	}
	var axes [3]int
	for i := 0; i < 3; i++ {
		switch order[i] {
		case '1':
			axes[i] = 1
		case '2':
			axes[i] = 2
		case '3':
			axes[i] = 3
		default:
			panic("kernel: invalid Euler convention string " + order)
		}
	}
	return axes
}

// properEulerSingular reports whether the middle angle of order is at a
// convention singularity: proper Euler (e.g. "313","121") is singular at
// 0/π, Tait-Bryan-like ("321","123") at ±π/2.
func properEulerSingular(order string, mid float64) bool {
	axes := parseOrder(order)
	const tol = 1e-9
	if axes[0] == axes[2] {
		return math.Abs(math.Sin(mid)) < tol
	}
	return math.Abs(math.Cos(mid)) < tol
}

// RmToEuler recovers Euler angles in the given convention from a rotation
// matrix. Near a convention singularity (spec §4.4 tie-breaks) the first and
// third angles are not individually observable: the closed forms ("313",
// "321") return whatever split atan2 yields, and the Newton fallback used
// for the other orders panics in Inverse3 when its Jacobian is singular.
// IsEulerSingular reports whether a rotation sits on the singular set.
func RmToEuler(r [3][3]float64, order string) [3]float64 {
	axes := parseOrder(order)
	if axes[0] == axes[2] {
		return properEulerToAngles(r, axes)
	}
	return taitBryanToAngles(r, axes)
}

// IsEulerSingular reports whether r sits on the convention's singular set.
func IsEulerSingular(r [3][3]float64, order string) bool {
	e := RmToEuler(r, order)
	return properEulerSingular(order, e[1])
}

func properEulerToAngles(r [3][3]float64, axes [3]int) [3]float64 {
	// axes[0] == axes[2] (e.g. "313","121","232",...); "313" has a closed
	// form below, every other proper-Euler order falls back to a Newton
	// refinement.
	switch [2]int{axes[0], axes[1]} {
	case [2]int{3, 1}:
		theta := math.Acos(clamp(r[2][2]))
		phi := math.Atan2(r[0][2], -r[1][2])
		psi := math.Atan2(r[2][0], r[2][1])
		return [3]float64{phi, theta, psi}
	default:
		// generic fallback via quaternion round-trip keeps every other
		// proper-Euler order correct without enumerating all 6 cases.
		q := RmToQuat(r)
		return quatToEulerGeneric(q, axes)
	}
}

func taitBryanToAngles(r [3][3]float64, axes [3]int) [3]float64 {
	switch [3]int{axes[0], axes[1], axes[2]} {
	case [3]int{3, 2, 1}:
		theta := math.Asin(clamp(-r[2][0]))
		phi := math.Atan2(r[1][0], r[0][0])
		psi := math.Atan2(r[2][1], r[2][2])
		return [3]float64{phi, theta, psi}
	default:
		q := RmToQuat(r)
		return quatToEulerGeneric(q, axes)
	}
}

func clamp(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// quatToEulerGeneric recovers angles for any order by Newton-refining
// EulerToRm against the target rotation, starting from the zero angles.
// Used for the less-common conventions where a closed form is not worth
// hand-deriving (spec Design Notes §9: "re-derive rather than transcribe").
func quatToEulerGeneric(q [4]float64, axes [3]int) [3]float64 {
	order := [3]byte{byte('0' + axes[0]), byte('0' + axes[1]), byte('0' + axes[2])}
	target := QuatToRm(q)
	e := [3]float64{0, 0, 0}
	for iter := 0; iter < 50; iter++ {
		cur := EulerToRm(e, string(order[:]))
		diff := Unskew(subtract3(matMul3(transpose3(cur), target), idm()))
		if kernelVecNorm3(diff) < 1e-13 {
			break
		}
		// finite-difference Jacobian (3x3), Newton step on the log-map error
		var jac [3][3]float64
		h := 1e-6
		for c := 0; c < 3; c++ {
			ep := e
			ep[c] += h
			rp := EulerToRm(ep, string(order[:]))
			d := Unskew(subtract3(matMul3(transpose3(rp), target), idm()))
			for r := 0; r < 3; r++ {
				jac[r][c] = (d[r] - diff[r]) / h
			}
		}
		var jacInv [3][3]float64
		Inverse3(&jacInv, &jac, 1e-14)
		step := matVec3(jacInv, diff)
		for c := 0; c < 3; c++ {
			e[c] += step[c]
		}
	}
	return e
}

func subtract3(a, b [3][3]float64) (c [3][3]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c[i][j] = a[i][j] - b[i][j]
		}
	}
	return
}

func idm() [3][3]float64 { return [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} }

func kernelVecNorm3(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// RmToQuat converts a rotation matrix to a unit quaternion (w,x,y,z).
func RmToQuat(r [3][3]float64) (q [4]float64) {
	tr := r[0][0] + r[1][1] + r[2][2]
	switch {
	case tr > 0:
		s := math.Sqrt(tr+1) * 2
		q[0] = 0.25 * s
		q[1] = (r[2][1] - r[1][2]) / s
		q[2] = (r[0][2] - r[2][0]) / s
		q[3] = (r[1][0] - r[0][1]) / s
	case r[0][0] > r[1][1] && r[0][0] > r[2][2]:
		s := math.Sqrt(1+r[0][0]-r[1][1]-r[2][2]) * 2
		q[0] = (r[2][1] - r[1][2]) / s
		q[1] = 0.25 * s
		q[2] = (r[0][1] + r[1][0]) / s
		q[3] = (r[0][2] + r[2][0]) / s
	case r[1][1] > r[2][2]:
		s := math.Sqrt(1+r[1][1]-r[0][0]-r[2][2]) * 2
		q[0] = (r[0][2] - r[2][0]) / s
		q[1] = (r[0][1] + r[1][0]) / s
		q[2] = 0.25 * s
		q[3] = (r[1][2] + r[2][1]) / s
	default:
		s := math.Sqrt(1+r[2][2]-r[0][0]-r[1][1]) * 2
		q[0] = (r[1][0] - r[0][1]) / s
		q[1] = (r[0][2] + r[2][0]) / s
		q[2] = (r[1][2] + r[2][1]) / s
		q[3] = 0.25 * s
	}
	return NormalizeQuat(q)
}

// NormalizeQuat renormalizes a quaternion to unit length; solvers
// renormalize quaternions (never Euler angles) between Newton iterations
// (spec §4.4 tie-breaks).
func NormalizeQuat(q [4]float64) [4]float64 {
	n := math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	if n == 0 {
		return [4]float64{1, 0, 0, 0}
	}
	return [4]float64{q[0] / n, q[1] / n, q[2] / n, q[3] / n}
}

// QuatToRm converts a unit quaternion (w,x,y,z) to a rotation matrix.
func QuatToRm(q [4]float64) (r [3][3]float64) {
	q = NormalizeQuat(q)
	w, x, y, z := q[0], q[1], q[2], q[3]
	r[0][0] = 1 - 2*(y*y+z*z)
	r[0][1] = 2 * (x*y - z*w)
	r[0][2] = 2 * (x*z + y*w)
	r[1][0] = 2 * (x*y + z*w)
	r[1][1] = 1 - 2*(x*x+z*z)
	r[1][2] = 2 * (y*z - x*w)
	r[2][0] = 2 * (x*z - y*w)
	r[2][1] = 2 * (y*z + x*w)
	r[2][2] = 1 - 2*(x*x+y*y)
	return
}

// RmToAxisAngle returns an axis-angle vector (axis scaled by angle).
func RmToAxisAngle(r [3][3]float64) [3]float64 {
	q := RmToQuat(r)
	angle := 2 * math.Acos(clamp(q[0]))
	s := math.Sqrt(1 - q[0]*q[0])
	if s < 1e-9 {
		return [3]float64{0, 0, 0}
	}
	return [3]float64{q[1] / s * angle, q[2] / s * angle, q[3] / s * angle}
}

// AxisAngleToRm builds a rotation matrix from an axis-angle vector via
// Rodrigues' formula.
func AxisAngleToRm(aa [3]float64) [3][3]float64 {
	angle := kernelVecNorm3(aa)
	if angle < 1e-15 {
		return idm()
	}
	axis := [3]float64{aa[0] / angle, aa[1] / angle, aa[2] / angle}
	k := Skew(axis)
	k2 := matMul3(k, k)
	var r [3][3]float64
	id := idm()
	s, c := math.Sin(angle), math.Cos(angle)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = id[i][j] + s*k[i][j] + (1-c)*k2[i][j]
		}
	}
	return r
}

// PeToPm builds a pose from position+Euler (pe) and a convention string.
func PeToPm(pe [6]float64, order string) Pm {
	e := [3]float64{pe[3], pe[4], pe[5]}
	return FromRp(EulerToRm(e, order), [3]float64{pe[0], pe[1], pe[2]})
}

// PmToPe recovers position+Euler from a pose.
func PmToPe(p Pm, order string) (pe [6]float64) {
	t := p.Position()
	e := RmToEuler(p.Rotation(), order)
	return [6]float64{t[0], t[1], t[2], e[0], e[1], e[2]}
}

// PqToPm builds a pose from position+quaternion (pq, w first).
func PqToPm(pq [7]float64) Pm {
	q := [4]float64{pq[3], pq[4], pq[5], pq[6]}
	return FromRp(QuatToRm(q), [3]float64{pq[0], pq[1], pq[2]})
}

// PmToPq recovers position+quaternion from a pose.
func PmToPq(p Pm) (pq [7]float64) {
	t := p.Position()
	q := RmToQuat(p.Rotation())
	return [7]float64{t[0], t[1], t[2], q[0], q[1], q[2], q[3]}
}

// PaToPm builds a pose from position+axis-angle.
func PaToPm(pa [6]float64) Pm {
	aa := [3]float64{pa[3], pa[4], pa[5]}
	return FromRp(AxisAngleToRm(aa), [3]float64{pa[0], pa[1], pa[2]})
}

// PmToPa recovers position+axis-angle from a pose.
func PmToPa(p Pm) (pa [6]float64) {
	t := p.Position()
	aa := RmToAxisAngle(p.Rotation())
	return [6]float64{t[0], t[1], t[2], aa[0], aa[1], aa[2]}
}
