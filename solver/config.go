// Package solver implements the position/velocity/acceleration/force
// solver family: it pulls per-constraint and per-part data from a
// dynamic.Model, assembles the linear system spec'd in the model's
// component design, solves it with one of three interchangeable
// strategies, and writes the result back onto the model.
//
// Grounded on fem.Solver (fem/solver.go): a struct holding a reference to
// the domain it operates on, a tolerance/iteration-count configuration,
// and a family of related solve operations dispatched from one entry
// point.
package solver

// Config holds the shared tolerance and iteration budget every solver
// operation in this package respects (spec §4.4 "All solvers share an
// iteration cap and error tolerance", §9 "Numeric tolerances"). Grounded
// on inp.SolverData/LinSolData's JSON-tagged configuration style.
type Config struct {
	MaxError     float64 `json:"maxError"`     // convergence tolerance
	MaxIterCount int     `json:"maxIterCount"` // Newton iteration budget
	RankTol      float64 `json:"rankTol"`      // relative tolerance for rank/PD detection
	FrictionK    float64 `json:"frictionK"`    // smoothing parameter for Newton-linearized friction
	Kind         Kind    `json:"kind"`         // which solver variant to use for dynamics
}

// Kind selects one of the three dynamics-solver variants (spec §4.4).
type Kind int

const (
	// Combined assembles the full dense KKT matrix and solves with
	// rank-revealing QR (rank from the singular values, minimum-norm
	// solution when deficient); robust to redundant/inconsistent
	// constraints.
	Combined Kind = iota
	// Divided eliminates part accelerations first and solves the reduced
	// normal equations with LLT; requires full column rank of C.
	Divided
	// Diagonal exploits the mechanism's tree topology: it factors the
	// spanning-tree constraint block with Cholesky and eliminates the
	// loop-closing remainder constraints through a Schur complement.
	Diagonal
)

// SetDefault fills in the spec's default tolerances (spec §9: "default
// max_error = 1e-10, max_iter_count = 100") for any zero-valued field,
// the way inp.SolverData.SetDefault seeds FE solver defaults.
func (c *Config) SetDefault() {
	if c.MaxError == 0 {
		c.MaxError = 1e-10
	}
	if c.MaxIterCount == 0 {
		c.MaxIterCount = 100
	}
	if c.RankTol == 0 {
		c.RankTol = 1e-9
	}
	if c.FrictionK == 0 {
		c.FrictionK = 1e3
	}
}

// DefaultConfig returns a Config with the spec's default tolerances.
func DefaultConfig() Config {
	var c Config
	c.SetDefault()
	return c
}

// Result reports the outcome of a single solver call (spec §4.4 state
// machine step 6: "Return iteration count and final error norm").
type Result struct {
	Iterations int
	ErrorNorm  float64
	Status     int
}
