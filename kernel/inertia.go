package kernel

import "math"

// Inertia computes the spatial inertia of a rigid body:
//
//	Im = [ I_c + m*[c]*[c]^T   m*[c] ]
//	     [ m*[c]^T             m*Id  ]
//
// expressed at the body frame, where Ic is the rotational inertia about the
// center of mass, m is the mass, and c is the center-of-mass offset from the
// body frame origin (spec glossary "spatial inertia (im)").
func Inertia(mass float64, com [3]float64, ic [3][3]float64) Mat6 {
	var im Mat6
	skewC := Skew(com)
	mSkewC := matScale3(skewC, mass)
	mSkewCt := transpose3(mSkewC)
	rot := addMat3(ic, matScale3(matMul3(skewC, transpose3(skewC)), mass))
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			im[i][j] = rot[i][j]
			im[i][j+3] = mSkewC[i][j]
			im[i+3][j] = mSkewCt[i][j]
		}
		im[i+3][i+3] = mass
	}
	return im
}

func matScale3(a [3][3]float64, s float64) (b [3][3]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			b[i][j] = s * a[i][j]
		}
	}
	return
}

func addMat3(a, b [3][3]float64) (c [3][3]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c[i][j] = a[i][j] + b[i][j]
		}
	}
	return
}

// TransformInertia expresses a spatial inertia known in a child frame in
// the parent frame related by pose pm: Im_parent = Ad(pm)^-T · Im_child ·
// Ad(pm)^-1, the 6x6 congruence transform used whenever a part's inertia
// (fixed in its own frame) is pulled into the world frame for dynamics
// assembly.
func TransformInertia(pm Pm, imChild Mat6) Mat6 {
	adInvT := AdInvT(pm)
	adInv := Ad(PmInv(pm))
	return adInvT.Mul(imChild).Mul(adInv)
}

// RotationOrthonormalityError returns the Frobenius norm of R^T R - I,
// the check behind invariant P6.
func RotationOrthonormalityError(r [3][3]float64) float64 {
	rtr := matMul3(transpose3(r), r)
	id := idm()
	var sum float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d := rtr[i][j] - id[i][j]
			sum += d * d
		}
	}
	return math.Sqrt(sum)
}

// RenormalizeRotation projects a near-orthonormal matrix back onto SO(3) via
// a quaternion round-trip, used by solvers to renormalize between Newton
// iterations (spec §4.4: "renormalize quaternions, not Euler angles").
func RenormalizeRotation(r [3][3]float64) [3][3]float64 {
	return QuatToRm(RmToQuat(r))
}
