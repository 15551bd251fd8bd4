// Package reward implements the reward-shaping strategies that turn raw
// 3D positions of goal, object, gripper and obstacle entities into a
// per-step scalar reward for reinforcement-learning training.
//
// Each strategy owns its per-episode state. Previous positions and
// distances are initialized to the current sample on the first Compute
// call after Reset, so the first reward of an episode is 0 for every
// distance-delta strategy. The composite strategies additionally
// re-baseline a phase's distance whenever ownership switches into that
// phase, so the first reward of a new phase is 0 as well.
//
// Compute is called exactly once between successive physics steps and
// Reset exactly once per episode boundary, strictly ordered; no state is
// shared across strategies, so no locking is needed.
package reward

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"sfneuman.com/gomanip/environment"
	"sfneuman.com/gomanip/geom"
	"sfneuman.com/gomanip/utils/floatutils"
)

// Strategy computes a per-step scalar reward from a flat observation of
// 3D positions. The slice layout of the observation is fixed per
// strategy and documented on its constructor.
type Strategy interface {
	// Compute returns the reward for the current simulation step. It
	// returns an error only for precondition violations (zero-length
	// normalization, unknown phase), never for expected domain
	// conditions, which are reported through the Environment's
	// termination flags instead.
	Compute(obs mat.Vector) (float64, error)

	// Reset clears all per-episode state. Call at episode boundaries.
	Reset()

	// History returns the strategy's reward history.
	History() *History
}

// settleSteps is the number of early episode steps during which object
// drift is treated as simulation settle noise rather than real motion.
const settleSteps = 25

// shared bundles the collaborators and reward history common to every
// strategy.
type shared struct {
	env     environment.Environment
	task    environment.Task
	history *History
}

func newShared(env environment.Environment, task environment.Task) shared {
	return shared{env: env, task: task, history: NewHistory()}
}

// History returns the reward history of the strategy.
func (s *shared) History() *History { return s.history }

// gripperTip corrects a raw end-effector position for the gripper's
// orientation: a 0.1-long direction vector is rotated into the gripper
// frame and added to the sampled position, giving the position of the
// fingertip rather than the wrist link.
func (s *shared) gripperTip(pos r3.Vec) r3.Vec {
	m := geom.RotationMatrix(s.env.Physics().GripperOrientation())
	tip := geom.Vector{Dir: r3.Vec{Z: 0.1}}.Rotate(m)
	return pos.Add(tip.Dir)
}

// normDelta returns the improvement from prev to curr normalized by the
// previous value. A zero baseline is a caller precondition violation:
// tracked entities must start at nonzero separation.
func normDelta(prev, curr float64) (float64, error) {
	if prev == 0 {
		return 0, ErrZeroBaseline
	}
	return (prev - curr) / prev, nil
}

// samePosition reports whether two position samples agree in all three
// coordinates when rounded to the given number of decimals.
func samePosition(a, b r3.Vec, decimals int) bool {
	return floatutils.Round(a.X, decimals) == floatutils.Round(b.X, decimals) &&
		floatutils.Round(a.Y, decimals) == floatutils.Round(b.Y, decimals) &&
		floatutils.Round(a.Z, decimals) == floatutils.Round(b.Z, decimals)
}

// samePlanarPosition is samePosition restricted to the XY plane.
func samePlanarPosition(a, b r3.Vec, decimals int) bool {
	return floatutils.Round(a.X, decimals) == floatutils.Round(b.X, decimals) &&
		floatutils.Round(a.Y, decimals) == floatutils.Round(b.Y, decimals)
}

// planar projects a point onto the XY plane.
func planar(v r3.Vec) r3.Vec { return r3.Vec{X: v.X, Y: v.Y} }

// roundVec rounds every coordinate of a position sample.
func roundVec(v r3.Vec, decimals int) r3.Vec {
	return r3.Vec{
		X: floatutils.Round(v.X, decimals),
		Y: floatutils.Round(v.Y, decimals),
		Z: floatutils.Round(v.Z, decimals),
	}
}
