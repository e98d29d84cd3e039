package dynamic

import (
	"github.com/cpmech/gosl/fun"
	"github.com/yangf10/aris/kernel"
)

// Environment holds process-level physical constants shared by every part
// in a model, notably gravity expressed as a spatial acceleration of the
// world frame (spec §3 "Environment").
type Environment struct {
	Gravity kernel.Vec6

	// GravityProfile, when set, scales Gravity by a time-varying factor
	// (e.g. ramping gravity on at simulation start, or modelling a
	// vehicle's changing pitch) instead of Gravity being constant.
	// Time is the current simulation time GravityProfile is sampled at,
	// advanced by Model.AdvanceTime the same way fem.Solution.T drives
	// boundary-condition functions.
	GravityProfile fun.Func
	Time           float64
}

// NewEnvironment returns an environment with zero gravity; callers set
// Gravity explicitly, e.g. Vec6{0, 0, 0, 0, -9.8, 0} for gravity along -y.
func NewEnvironment() *Environment {
	return &Environment{}
}

// EvalGravity returns Gravity scaled by GravityProfile.F(Time, nil), or
// Gravity unchanged if GravityProfile is nil.
func (e *Environment) EvalGravity() kernel.Vec6 {
	if e.GravityProfile == nil {
		return e.Gravity
	}
	s := e.GravityProfile.F(e.Time, nil)
	return kernel.Vec6{e.Gravity[0] * s, e.Gravity[1] * s, e.Gravity[2] * s, e.Gravity[3] * s, e.Gravity[4] * s, e.Gravity[5] * s}
}
