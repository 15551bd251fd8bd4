package reward

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"sfneuman.com/gomanip/environment"
	"sfneuman.com/gomanip/geom"
)

// Distance rewards the normalized per-step improvement of the distance
// between the goal object and the gripper:
//
//	reward = (prevDist − currDist) / prevDist
//
// Episodes where the goal object itself gets pushed out of place are
// failed early, since the task geometry is no longer the one being
// trained.
type Distance struct {
	shared

	prevGoal    r3.Vec
	prevGripper r3.Vec
	tracking    bool
}

// NewDistance returns a Distance strategy. Observation layout: goal at
// 0:3, raw gripper position at 3:6.
func NewDistance(env environment.Environment, task environment.Task) *Distance {
	return &Distance{shared: newShared(env, task)}
}

func (d *Distance) Compute(obs mat.Vector) (float64, error) {
	goal := geom.Point(obs, 0)
	gripper := d.gripperTip(geom.Point(obs, 3))

	if !d.tracking {
		d.prevGoal, d.prevGripper = goal, gripper
		d.tracking = true
	}

	prev := d.task.Distance(d.prevGoal, d.prevGripper)
	curr := d.task.Distance(goal, gripper)
	r, err := normDelta(prev, curr)
	if err != nil {
		return 0, fmt.Errorf("compute: %w", err)
	}
	d.prevGoal, d.prevGripper = goal, gripper

	if d.task.ObjectMoved(0, 1) {
		d.env.Fail("goal object moved away")
	}
	d.task.ReachedGoal(obs)

	d.history.Append(r)
	return r, nil
}

func (d *Distance) Reset() {
	d.tracking = false
	d.history.Roll()
}

// ComplexDistance rewards the normalized per-step improvement of the
// three pairwise distances between the manipulated object, the goal and
// the gripper, with the object–goal pair weighted ten times the two
// gripper pairs. The weighting encodes the priority ordering of the
// sub-objectives: the object reaching the goal dominates, keeping the
// gripper close to both merely shapes the path.
type ComplexDistance struct {
	shared

	prev     [3]r3.Vec
	tracking bool
}

// NewComplexDistance returns a ComplexDistance strategy. Observation
// layout: object at 0:3, goal at 3:6, gripper at 6:9.
func NewComplexDistance(env environment.Environment,
	task environment.Task) *ComplexDistance {
	return &ComplexDistance{shared: newShared(env, task)}
}

func (c *ComplexDistance) Compute(obs mat.Vector) (float64, error) {
	current := [3]r3.Vec{
		geom.Point(obs, 0),
		geom.Point(obs, 3),
		geom.Point(obs, 6),
	}

	if !c.tracking {
		c.prev = current
		c.tracking = true
	}

	d12, err := normDelta(
		c.task.Distance(c.prev[0], c.prev[1]),
		c.task.Distance(current[0], current[1]))
	if err != nil {
		return 0, fmt.Errorf("compute: object-goal pair: %w", err)
	}
	d13, err := normDelta(
		c.task.Distance(c.prev[0], c.prev[2]),
		c.task.Distance(current[0], current[2]))
	if err != nil {
		return 0, fmt.Errorf("compute: object-gripper pair: %w", err)
	}
	d23, err := normDelta(
		c.task.Distance(c.prev[1], c.prev[2]),
		c.task.Distance(current[1], current[2]))
	if err != nil {
		return 0, fmt.Errorf("compute: goal-gripper pair: %w", err)
	}

	r := d13 + d23 + 10*d12
	c.prev = current

	c.task.ReachedGoal(obs)

	c.history.Append(r)
	return r, nil
}

func (c *ComplexDistance) Reset() {
	c.tracking = false
	c.history.Roll()
}

// Sparse pays −1 on every step and 0 on the step that reaches the goal.
type Sparse struct {
	shared
}

// NewSparse returns a Sparse strategy. Observation layout: goal at 0:3,
// gripper last.
func NewSparse(env environment.Environment, task environment.Task) *Sparse {
	return &Sparse{shared: newShared(env, task)}
}

func (s *Sparse) Compute(obs mat.Vector) (float64, error) {
	r := -1.0
	if s.task.ReachedGoal(obs) {
		r += 1.0
	}
	s.history.Append(r)
	return r, nil
}

func (s *Sparse) Reset() {
	s.history.Roll()
}
