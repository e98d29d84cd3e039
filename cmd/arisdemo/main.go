// Copyright 2015 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// arisdemo builds a small two-link pendulum, runs forward kinematics,
// inverse dynamics, and forward dynamics on it, and prints the result —
// a smoke test exercising the model container and solver family end to
// end, in place of the teacher's file-driven simulation entry point.
package main

import (
	"flag"
	"os"

	"github.com/cpmech/gosl/io"
	"github.com/yangf10/aris/dynamic"
	"github.com/yangf10/aris/kernel"
	"github.com/yangf10/aris/solver"
)

func main() {
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	io.Pfcyan("\naris -- multibody dynamics and control core\n\n")

	kind := flag.String("solver", "combined", "dynamics solver: combined, divided, or diagonal")
	flag.Parse()

	m := buildPendulum()
	cfg := solver.DefaultConfig()
	cfg.Kind = parseKind(*kind)

	io.Pfblue2("running forward kinematics...\n")
	fkRes := solver.ForwardKinematics(m, cfg)
	printResult("forwardKinematics", fkRes)
	printPose(m, "link1")
	printPose(m, "link2")

	io.Pfblue2("running inverse dynamics (Ma=0, holding the pose)...\n")
	idRes := solver.InverseDynamics(m, cfg)
	printResult("inverseDynamics", idRes)
	printMotorForces(m)

	io.Pfblue2("running forward dynamics from the solved motor forces...\n")
	fdRes := solver.ForwardDynamics(m, cfg)
	printResult("forwardDynamics", fdRes)
	printAccelerations(m)
}

func parseKind(s string) solver.Kind {
	switch s {
	case "divided":
		return solver.Divided
	case "diagonal":
		return solver.Diagonal
	default:
		return solver.Combined
	}
}

// buildPendulum constructs a two-link planar pendulum hanging from
// ground under gravity: two revolute joints about z, each carrying a
// motion so inverse/forward dynamics have something to solve for.
func buildPendulum() *dynamic.Model {
	m := dynamic.NewModel()
	m.Env.Gravity = kernel.Vec6{0, 0, 0, 0, -9.81, 0}

	length := 1.0
	mass := 2.0
	com := [3]float64{length / 2, 0, 0}
	ic := [3][3]float64{{0.01, 0, 0}, {0, mass * length * length / 12, 0}, {0, 0, mass * length * length / 12}}
	im := kernel.Inertia(mass, com, ic)

	m.AddPart("link1", kernel.Eye4(), im)
	link1Tip := kernel.FromRp(kernel.Eye4().Rotation(), [3]float64{length, 0, 0})
	link2 := m.AddPart("link2", link1Tip, im)
	link1 := m.Parts.MustFind("link1")

	j1 := m.AddRevoluteJoint("joint1", m.Ground, link1, [3]float64{0, 0, 0}, [3]float64{0, 0, 1})
	j2 := m.AddRevoluteJoint("joint2", link1, link2, [3]float64{length, 0, 0}, [3]float64{0, 0, 1})

	mo1 := m.AddMotion("motor1", j1)
	mo2 := m.AddMotion("motor2", j2)
	mo1.Mp, mo1.Mv, mo1.Ma = 0.3, 0, 0
	mo2.Mp, mo2.Mv, mo2.Ma = -0.2, 0, 0

	m.Init()
	return m
}

func printResult(op string, r solver.Result) {
	if r.Status == dynamic.StatusOK {
		io.Pfgreen("  %s: ok (error=%g)\n", op, r.ErrorNorm)
		return
	}
	io.PfYel("  %s: status=%d (error=%g)\n", op, r.Status, r.ErrorNorm)
}

func printPose(m *dynamic.Model, partName string) {
	p := m.Parts.MustFind(partName)
	t := p.Pm.Position()
	io.Pf("  %s pose: x=%.6f y=%.6f z=%.6f\n", partName, t[0], t[1], t[2])
}

func printMotorForces(m *dynamic.Model) {
	m.Motions.Each(func(_ int, name string, mo *dynamic.Motion) {
		io.Pf("  %s: mf=%.6f (dyn=%.6f, frc=%.6f)\n", name, mo.Mf, mo.MfDyn, mo.MfFrc)
	})
}

func printAccelerations(m *dynamic.Model) {
	m.Motions.Each(func(_ int, name string, mo *dynamic.Motion) {
		io.Pf("  %s: ma=%.6f\n", name, mo.Ma)
	})
}
