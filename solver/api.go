package solver

import "github.com/yangf10/aris/dynamic"

// ForwardKinematics computes part poses consistent with every motion's
// commanded position (spec §6 "forwardKinematics"): an alias of KinPos,
// which already drives every constraint's position residual — including
// each Motion's commanded-vs-actual position — to zero by Newton
// iteration, each step solving for a world-frame twist increment per part
// with the same Jacobian kinVel uses.
func ForwardKinematics(m *dynamic.Model, cfg Config) Result {
	return KinPos(m, cfg)
}

// InverseKinematics solves the generic, non-analytical case: a
// GeneralMotion commands the end-effector's target pose, and KinPos's
// Newton iteration — which treats every constraint uniformly — finds the
// part poses (and hence motion positions) satisfying it. For 6-DOF and
// 7-DOF serial chains, Chain.InverseKinematics6DOF/7DOF additionally
// enumerate the mechanism's analytical branches (spec "Inverse
// kinematics: specializations for 6-DOF serial chains... each
// specialization computes all analytical branches").
func InverseKinematics(m *dynamic.Model, cfg Config) Result {
	return KinPos(m, cfg)
}

// ForwardKinematicsVel computes every part's spatial velocity consistent
// with the motions' commanded velocities (spec §6 "forwardKinematicsVel").
func ForwardKinematicsVel(m *dynamic.Model, cfg Config) Result {
	return KinVel(m, cfg)
}

// InverseKinematicsVel computes the motions' resulting velocities given a
// commanded end-effector velocity (spec §6 "inverseKinematicsVel"): the
// same assembled linear system as ForwardKinematicsVel, driven by a
// GeneralMotion's velocity residual instead of each Motion's.
func InverseKinematicsVel(m *dynamic.Model, cfg Config) Result {
	return KinVel(m, cfg)
}
