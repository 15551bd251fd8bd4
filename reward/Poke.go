package reward

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"sfneuman.com/gomanip/environment"
	"sfneuman.com/gomanip/geom"
)

// Poke rewards gripper motion relative to the poke line, the straight
// line through the poker and the goal. While the gripper is off the line
// the reward is the speed-scaled normalized improvement of its distance
// to the line; once aligned it is the speed-scaled cosine between the
// ideal poke direction and the actual gripper displacement, so faster
// well-aimed pokes pay more.
//
// The distance to the poke line is the Heron triangle height of the
// gripper over the goal–poker segment, measured in the XY plane and
// recombined with the gripper height; the three side lengths are
// independently sampled distances, so they pass through the
// triangle-inequality repair before the height is computed.
type Poke struct {
	shared

	// Threshold is the line distance below which the gripper counts as
	// aligned with the poke line.
	Threshold float64

	prevPoker   r3.Vec
	prevGripper r3.Vec
	tracking    bool

	lastDist float64
	haveDist bool
}

// speedScale converts a per-step displacement into the speed factor
// multiplying the alignment reward.
const speedScale = 1000

// pokeDoneDistance is the poker-to-goal distance below which the poke
// has succeeded.
const pokeDoneDistance = 0.1

// NewPoke returns a Poke strategy. Observation layout: goal at 0:3,
// poker at 3:6, raw gripper position at 6:9.
func NewPoke(env environment.Environment, task environment.Task) *Poke {
	return &Poke{shared: newShared(env, task), Threshold: 0.1}
}

func (p *Poke) Compute(obs mat.Vector) (float64, error) {
	goal := geom.Point(obs, 0)
	poker := geom.Point(obs, 3)
	gripper := p.gripperTip(geom.Point(obs, 6))

	if !p.tracking {
		p.prevPoker, p.prevGripper = poker, gripper
		p.tracking = true
	}

	poke := geom.New(p.prevPoker, goal)
	real := geom.New(p.prevGripper, gripper)
	p.env.Physics().DrawLine(goal, poker)

	if poke.Norm() < pokeDoneDistance {
		p.env.Terminate("Successful poke")
	}

	dist := p.lineDistance(poke, poker, goal)
	if !p.haveDist {
		p.lastDist = dist
		p.haveDist = true
	}

	// While the poker is in flight the gripper gets no shaping signal;
	// the poke has already happened.
	if !samePosition(p.prevPoker, poker, 4) {
		p.prevPoker = poker
		p.task.ReachedPokeGoal(obs)
		p.history.Append(0)
		return 0, nil
	}

	speed := speedScale * real.Norm()

	var r float64
	switch {
	case dist < p.Threshold:
		if real.Norm() != 0 {
			c, err := geom.Cosine(poke, real)
			if err != nil {
				return 0, fmt.Errorf("compute: poke alignment: %w", err)
			}
			r = c * speed
		}
	default:
		nd, err := normDelta(p.lastDist, dist)
		if err != nil {
			return 0, fmt.Errorf("compute: line approach: %w", err)
		}
		r = nd * speed
	}

	p.prevPoker, p.prevGripper = poker, gripper
	p.lastDist = dist

	p.task.ReachedPokeGoal(obs)

	p.history.Append(r)
	return r, nil
}

func (p *Poke) Reset() {
	p.tracking = false
	p.haveDist = false
	p.history.Roll()
}

// lineDistance returns the distance of the previous gripper position
// from the poke line through poker and goal.
func (p *Poke) lineDistance(poke geom.Vector, poker, goal r3.Vec) float64 {
	a := poke.Norm()
	b := p.task.Distance(planar(p.prevGripper), planar(poker))
	c := p.task.Distance(planar(p.prevGripper), planar(goal))

	a, b, c = geom.RepairTriangle(a, b, c)
	height := geom.TriangleHeight(a, b, c)

	// The poke line runs at the height of the object centers; the
	// gripper's altitude counts toward its distance from it.
	return math.Hypot(height, p.prevGripper.Z)
}
