package reward

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"sfneuman.com/gomanip/environment"
	"sfneuman.com/gomanip/geom"
)

// seqPhase is the owner of a Consequential step.
type seqPhase int

const (
	seqNone seqPhase = iota - 1
	seqFind
	seqMove
	seqPlace
)

func (p seqPhase) String() string {
	switch p {
	case seqFind:
		return "find"
	case seqMove:
		return "move"
	case seqPlace:
		return "place"
	default:
		return "none"
	}
}

// Consequential is the monotonic pick-and-place state machine. Ownership
// starts at the find phase and advances one phase at a time when the
// current phase's completion predicate holds; it never moves backwards
// within an episode. This models the causal ordering of the task: the
// object must be reached before it can be moved, and must sit above the
// goal before it can be placed.
//
// Like the free-switching machine, every phase re-baselines its distance
// when ownership enters it, so the first reward of a phase is 0.
type Consequential struct {
	shared

	owner     seqPhase
	lastOwner seqPhase

	grip environment.Grip

	prevObject r3.Vec
	haveObject bool
	everMoved  bool

	lastFindDist  float64
	lastMoveDist  float64
	lastPlaceDist float64
	lastHeight    float64

	findTotal  float64
	moveTotal  float64
	placeTotal float64
}

// NewConsequential returns a Consequential strategy. Observation layout:
// goal at 0:3, object at 3:6, raw gripper position last.
func NewConsequential(env environment.Environment,
	task environment.Task) *Consequential {
	return &Consequential{
		shared:    newShared(env, task),
		owner:     seqFind,
		lastOwner: seqNone,
	}
}

func (c *Consequential) Compute(obs mat.Vector) (float64, error) {
	goal := geom.Point(obs, 0)
	object := geom.Point(obs, 3)
	gripper := c.gripperTip(geom.Point(obs, obs.Len()-3))

	if !c.haveObject {
		c.prevObject = object
		c.haveObject = true
	}

	c.advance(goal, object, gripper)

	var r float64
	switch c.owner {
	case seqFind:
		r = c.findCompute(gripper, object)
	case seqMove:
		r = c.moveCompute(object, goal)
	case seqPlace:
		r = c.placeCompute(object, goal)
	default:
		return 0, fmt.Errorf("compute: unknown phase %d", c.owner)
	}

	c.checkMotionLimits(object)

	c.lastOwner = c.owner
	c.prevObject = object
	c.task.ReachedPnPGoal(obs)

	c.history.Append(r)
	return r, nil
}

func (c *Consequential) Reset() {
	c.owner = seqFind
	c.lastOwner = seqNone
	c.grip = nil
	c.haveObject = false
	c.everMoved = false
	c.findTotal = 0
	c.moveTotal = 0
	c.placeTotal = 0
	c.history.Roll()
}

// PhaseTotals returns the cumulative reward earned in each phase this
// episode, for diagnostics.
func (c *Consequential) PhaseTotals() (find, move, place float64) {
	return c.findTotal, c.moveTotal, c.placeTotal
}

// advance moves ownership forward by at most one phase per step, when
// the current phase's completion predicate holds. Ownership never moves
// backwards.
func (c *Consequential) advance(goal, object, gripper r3.Vec) {
	switch c.owner {
	case seqFind:
		if c.gripperReachedObject(gripper, object) {
			c.owner = seqMove
		}
	case seqMove:
		if c.objectAboveGoal(object, goal) {
			c.owner = seqPlace
		}
	}
}

func (c *Consequential) findCompute(gripper, object r3.Vec) float64 {
	c.env.Physics().DrawText("find", r3.Vec{X: 0.7, Y: 0.7, Z: 0.7})

	dist := c.task.Distance(gripper, object)
	if c.lastOwner != seqFind {
		c.lastFindDist = dist
	}

	r := c.lastFindDist - dist
	c.lastFindDist = dist
	c.findTotal += r
	return r
}

func (c *Consequential) moveCompute(object, goal r3.Vec) float64 {
	c.env.Physics().DrawText("move", r3.Vec{X: 0.7, Y: 0.7, Z: 0.7})

	dist := c.task.Distance(planar(object), planar(goal))
	height := object.Z
	if c.lastOwner != seqMove {
		c.lastMoveDist = dist
		c.lastHeight = height
	}

	r := (c.lastMoveDist - dist) + math.Abs(c.lastHeight-height)
	c.lastMoveDist = dist
	c.lastHeight = height
	c.moveTotal += r
	return r
}

func (c *Consequential) placeCompute(object, goal r3.Vec) float64 {
	c.env.Physics().DrawText("place", r3.Vec{X: 0.7, Y: 0.7, Z: 0.7})

	dist := c.task.Distance(object, goal)
	if c.lastOwner != seqPlace {
		c.lastPlaceDist = dist
	}

	r := c.lastPlaceDist - dist
	c.lastPlaceDist = dist

	if c.lastOwner == seqPlace && dist < placeDistance {
		c.releaseObject()
		c.env.Terminate("Object was placed to desired position")
	}

	c.placeTotal += r
	return r
}

// checkMotionLimits applies the shared composite failure contract:
// overshooting the movement limit outside the terminal phase is a too
// strong action, and a freely standing object that stops moving before
// the terminal phase despite having moved is a too weak one.
func (c *Consequential) checkMotionLimits(object r3.Vec) {
	if c.owner != seqPlace && c.task.ObjectMoved(1, 2) {
		c.env.Fail("too strong motion")
		return
	}

	if c.grip != nil || c.owner == seqPlace {
		return
	}
	moving := !samePosition(c.prevObject, object, 4)
	if moving && c.env.EpisodeSteps() > settleSteps {
		c.everMoved = true
	}
	if c.everMoved && !moving {
		c.env.Fail("too weak motion")
	}
}

func (c *Consequential) gripperReachedObject(gripper, object r3.Vec) bool {
	c.env.Physics().DrawLine(gripper, object)

	if c.grip != nil {
		return true
	}
	if c.task.Distance(gripper, object) < gripDistance {
		c.grip = c.env.Physics().GripObject()
		return true
	}
	return false
}

func (c *Consequential) objectAboveGoal(object, goal r3.Vec) bool {
	return c.task.Distance(planar(object), planar(goal)) < aboveDistance
}

func (c *Consequential) releaseObject() {
	if c.grip != nil {
		c.env.Physics().ReleaseObject(c.grip)
		c.grip = nil
	}
}
