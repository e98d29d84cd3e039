package kernel

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_pose01(tst *testing.T) {

	defer func() {
		if err := recover(); err != nil {
			tst.Error("[1;31mERROR:", err, "[0m\n")
		}
	}()

	chk.PrintTitle("pose01: identity and inverse round-trip")

	r := AxisAngleToRm([3]float64{0, 0, 1})
	p := FromRp(r, [3]float64{1, 2, 3})
	io.Pforan("p = %v\n", p)

	pInv := PmInv(p)
	id := PmMul(p, pInv)
	eye := Eye4()
	for i := 0; i < 4; i++ {
		chk.Vector(tst, "row", 1e-13, id[i][:], eye[i][:])
	}
}

func Test_pose02(tst *testing.T) {

	defer func() {
		if err := recover(); err != nil {
			tst.Error("[1;31mERROR:", err, "[0m\n")
		}
	}()

	chk.PrintTitle("pose02: Euler round-trip away from singularities")

	orders := []string{"313", "321", "123", "212"}
	angles := [3]float64{0.3, 0.6, -0.4}
	for _, order := range orders {
		r := EulerToRm(angles, order)
		if IsEulerSingular(r, order) {
			continue
		}
		back := RmToEuler(r, order)
		r2 := EulerToRm(back, order)
		for i := 0; i < 3; i++ {
			chk.Vector(tst, "row-"+order, 1e-9, r[i][:], r2[i][:])
		}
	}
}

func Test_pose03(tst *testing.T) {

	chk.PrintTitle("pose03: quaternion round-trip and normalization")

	r := AxisAngleToRm([3]float64{0.1, 0.9, 1.3})
	q := RmToQuat(r)
	qn := NormalizeQuat(q)
	var norm float64
	for _, c := range qn {
		norm += c * c
	}
	if math.Abs(norm-1) > 1e-12 {
		tst.Errorf("quaternion not normalized: |q|^2=%v", norm)
	}
	r2 := QuatToRm(q)
	for i := 0; i < 3; i++ {
		chk.Vector(tst, "row", 1e-12, r[i][:], r2[i][:])
	}
}

func Test_pose04(tst *testing.T) {

	chk.PrintTitle("pose04: axis-angle round-trip")

	aa := [3]float64{0.2, -0.5, 0.1}
	r := AxisAngleToRm(aa)
	back := RmToAxisAngle(r)
	r2 := AxisAngleToRm(back)
	for i := 0; i < 3; i++ {
		chk.Vector(tst, "row", 1e-12, r[i][:], r2[i][:])
	}
}

func Test_pose05(tst *testing.T) {

	chk.PrintTitle("pose05: pose <-> pq <-> pe round-trip")

	r := AxisAngleToRm([3]float64{0.4, 0.2, -0.3})
	p := FromRp(r, [3]float64{5, -2, 0.5})

	pq := PmToPq(p)
	p2 := PqToPm(pq)
	for i := 0; i < 4; i++ {
		chk.Vector(tst, "row", 1e-12, p[i][:], p2[i][:])
	}

	pe := PmToPe(p, "321")
	p3 := PeToPm(pe, "321")
	for i := 0; i < 4; i++ {
		chk.Vector(tst, "row", 1e-9, p[i][:], p3[i][:])
	}
}
