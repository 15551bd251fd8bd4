package environment

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distmv"
)

// UniformStarter samples starting positions for task objects uniformly
// from per-axis interval bounds.
type UniformStarter struct {
	features int
	rand     *distmv.Uniform
}

// NewUniformStarter creates a UniformStarter sampling within bounds,
// one interval per coordinate.
func NewUniformStarter(bounds []r1.Interval, seed uint64) UniformStarter {
	source := rand.NewSource(seed)
	return UniformStarter{len(bounds), distmv.NewUniform(bounds, source)}
}

// Start samples a flat vector of starting coordinates.
func (u UniformStarter) Start() *mat.VecDense {
	return mat.NewVecDense(u.features, u.rand.Rand(nil))
}

// StartPoint samples a starting 3D position. It panics unless the
// starter was constructed with exactly three bounds.
func (u UniformStarter) StartPoint() r3.Vec {
	if u.features != 3 {
		panic("startPoint: starter does not sample 3D positions")
	}
	s := u.rand.Rand(nil)
	return r3.Vec{X: s[0], Y: s[1], Z: s[2]}
}
