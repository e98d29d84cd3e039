package dynamic

import (
	"fmt"

	"github.com/cpmech/gosl/io"
)

// Panic reports a precondition violation the way fem.PanicOrNot does in
// the single-process case: print a message and abort. Precondition
// violations (duplicate names, unresolved references, dimension
// mismatches) are programming errors, not runtime conditions a caller is
// expected to recover from (spec §7.1).
func Panic(msg string, args ...interface{}) {
	io.Pf("\n")
	panic(fmt.Sprintf(msg, args...))
}

// Status codes returned by solve operations (spec §6): zero on success,
// negative on the various failure kinds.
const (
	StatusOK                 = 0
	StatusRankDeficient       = -1
	StatusNonConvergent       = -2
	StatusSingularConversion  = -3
	StatusUnsupportedConfig   = -4
)

// NumericalError reports a numerical failure: rank deficiency in a
// constraint matrix, a non-positive-definite Cholesky factor, or an Euler
// conversion at a convention singularity (spec §7.2). Unlike a
// precondition violation reported through Panic, this is a property of
// the current configuration, not a caller bug, and the caller is expected to recover (retry with a
// different solver variant or branch).
type NumericalError struct {
	Op     string
	Reason string
}

func (e *NumericalError) Error() string {
	return fmt.Sprintf("dynamic: %s: numerical failure: %s", e.Op, e.Reason)
}

// Status implements the core's status-code contract.
func (e *NumericalError) Status() int { return StatusRankDeficient }

// ConvergenceError reports that a Newton iteration (kinPos et al.)
// exhausted its iteration budget without reaching tolerance (spec §7.3).
type ConvergenceError struct {
	Op        string
	Iters     int
	ErrorNorm float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("dynamic: %s: did not converge after %d iterations (error=%g)", e.Op, e.Iters, e.ErrorNorm)
}

// Status implements the core's status-code contract.
func (e *ConvergenceError) Status() int { return StatusNonConvergent }

// ConfigError reports an unsupported configuration, such as attaching a
// motion to a joint kind that does not support one (spec §7.4).
type ConfigError struct {
	Op     string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("dynamic: %s: unsupported configuration: %s", e.Op, e.Reason)
}

// Status implements the core's status-code contract.
func (e *ConfigError) Status() int { return StatusUnsupportedConfig }

// StatusError is implemented by every error kind the solver family
// returns, so callers can branch on Status() without a type switch.
type StatusError interface {
	error
	Status() int
}

var (
	_ StatusError = (*NumericalError)(nil)
	_ StatusError = (*ConvergenceError)(nil)
	_ StatusError = (*ConfigError)(nil)
)
