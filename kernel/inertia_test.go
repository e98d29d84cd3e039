package kernel

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_inertia01(tst *testing.T) {

	chk.PrintTitle("inertia01: transforming an inertia by identity is a no-op")

	ic := [3][3]float64{{1, 0, 0}, {0, 2, 0}, {0, 0, 3}}
	im := Inertia(5, [3]float64{0.1, 0, 0}, ic)
	out := TransformInertia(Eye4(), im)
	for i := 0; i < 6; i++ {
		chk.Vector(tst, "row", 1e-12, im[i][:], out[i][:])
	}
}

func Test_inertia02(tst *testing.T) {

	chk.PrintTitle("inertia02: orthonormality error vanishes for a valid rotation")

	r := AxisAngleToRm([3]float64{0.3, 0.3, 0.3})
	e := RotationOrthonormalityError(r)
	if e > 1e-12 {
		tst.Errorf("expected near-zero orthonormality error, got %v", e)
	}
}

func Test_inertia03(tst *testing.T) {

	chk.PrintTitle("inertia03: renormalizing a valid rotation is a no-op")

	r := AxisAngleToRm([3]float64{-0.2, 0.4, 0.1})
	r2 := RenormalizeRotation(r)
	for i := 0; i < 3; i++ {
		chk.Vector(tst, "row", 1e-10, r[i][:], r2[i][:])
	}
}
