package reward

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"sfneuman.com/gomanip/environment"
	"sfneuman.com/gomanip/geom"
)

// pnpPhase is the owner of a PickAndPlace step.
type pnpPhase int

const (
	pnpNone pnpPhase = iota - 1
	pnpFind
	pnpLift
	pnpMove
	pnpPlace
)

func (p pnpPhase) String() string {
	switch p {
	case pnpFind:
		return "find"
	case pnpLift:
		return "lift"
	case pnpMove:
		return "move"
	case pnpPlace:
		return "place"
	default:
		return "none"
	}
}

const (
	// gripDistance is the gripper-to-object distance that attaches the
	// grip.
	gripDistance = 0.1

	// aboveDistance is the planar object-to-goal distance that counts
	// as being above the goal.
	aboveDistance = 0.1

	// placeDistance is the object-to-goal distance that completes the
	// place phase.
	placeDistance = 0.05

	// liftHeight is how far above its pre-lift position the object
	// should be carried.
	liftHeight = 0.1

	// floorHeight is the object height below which it counts as
	// dropped, resetting the pre-lift reference.
	floorHeight = 0.079
)

// PickAndPlace decomposes a pick-and-place task into find, lift, move
// and place phases. Ownership is re-decided from geometric predicates
// every step and may regress: a dropped object sends ownership back to
// an earlier phase. The first time the gripper reaches the object a grip
// attachment is created in the simulation, and the grip latch keeps the
// reach predicate true until the object arrives above the goal, where
// the attachment is released.
//
// Every phase keeps its own baseline distance, reset whenever ownership
// enters the phase, so a phase switch never produces a reward artifact
// from another phase's stale baseline.
type PickAndPlace struct {
	shared

	lastOwner pnpPhase

	beforeLift     r3.Vec
	haveBeforeLift bool

	grip environment.Grip

	prevObject r3.Vec
	haveObject bool
	everMoved  bool

	lastFindDist  float64
	lastLiftDist  float64
	lastMoveDist  float64
	lastPlaceDist float64
	lastHeight    float64

	findTotal  float64
	liftTotal  float64
	moveTotal  float64
	placeTotal float64
}

// NewPickAndPlace returns a PickAndPlace strategy. Observation layout:
// goal at 0:3, object at 3:6, raw gripper position last.
func NewPickAndPlace(env environment.Environment,
	task environment.Task) *PickAndPlace {
	return &PickAndPlace{shared: newShared(env, task), lastOwner: pnpNone}
}

func (p *PickAndPlace) Compute(obs mat.Vector) (float64, error) {
	goal, object, gripper := p.positions(obs)

	owner := p.decide(goal, object, gripper)

	var r float64
	switch owner {
	case pnpFind:
		r = p.findCompute(gripper, object)
	case pnpLift:
		r = p.liftCompute(object)
	case pnpMove:
		r = p.moveCompute(object, goal)
	case pnpPlace:
		r = p.placeCompute(object, goal)
	default:
		return 0, fmt.Errorf("compute: unknown phase %d", owner)
	}

	p.checkMotionLimits(object, owner)

	p.lastOwner = owner
	p.prevObject = object
	p.task.ReachedPnPGoal(obs)

	p.history.Append(r)
	return r, nil
}

func (p *PickAndPlace) Reset() {
	p.lastOwner = pnpNone
	p.haveBeforeLift = false
	p.grip = nil
	p.haveObject = false
	p.everMoved = false
	p.findTotal = 0
	p.liftTotal = 0
	p.moveTotal = 0
	p.placeTotal = 0
	p.history.Roll()
}

// PhaseTotals returns the cumulative reward earned in each phase this
// episode, for diagnostics.
func (p *PickAndPlace) PhaseTotals() (find, lift, move, place float64) {
	return p.findTotal, p.liftTotal, p.moveTotal, p.placeTotal
}

func (p *PickAndPlace) positions(obs mat.Vector) (goal, object, gripper r3.Vec) {
	goal = geom.Point(obs, 0)
	object = geom.Point(obs, 3)
	gripper = p.gripperTip(geom.Point(obs, obs.Len()-3))

	if !p.haveBeforeLift {
		p.beforeLift = object
		p.haveBeforeLift = true
	}
	if !p.haveObject {
		p.prevObject = object
		p.haveObject = true
	}
	return goal, object, gripper
}

// decide evaluates the phase predicates in order; the latest phase whose
// predicate holds owns the step.
func (p *PickAndPlace) decide(goal, object, gripper r3.Vec) pnpPhase {
	owner := pnpFind
	if p.gripperReachedObject(gripper, object) {
		owner = pnpLift
	}
	if owner == pnpLift && p.objectLifted(object) {
		owner = pnpMove
	}
	if p.objectAboveGoal(object, goal) {
		owner = pnpPlace
	}
	return owner
}

func (p *PickAndPlace) findCompute(gripper, object r3.Vec) float64 {
	p.env.Physics().DrawText("find", r3.Vec{X: 0.7, Y: 0.7, Z: 0.7})

	dist := p.task.Distance(gripper, object)
	if p.lastOwner != pnpFind {
		p.lastFindDist = dist
	}

	r := p.lastFindDist - dist
	p.lastFindDist = dist
	p.findTotal += r
	return r
}

func (p *PickAndPlace) liftCompute(object r3.Vec) float64 {
	p.env.Physics().DrawText("lift", r3.Vec{X: 0.7, Y: 0.7, Z: 0.7})

	target := p.beforeLift.Add(r3.Vec{Z: liftHeight})
	dist := p.task.Distance(object, target)
	if p.lastOwner != pnpLift {
		p.lastLiftDist = dist
	}

	r := p.lastLiftDist - dist
	p.lastLiftDist = dist
	p.liftTotal += r
	return r
}

func (p *PickAndPlace) moveCompute(object, goal r3.Vec) float64 {
	p.env.Physics().DrawText("move", r3.Vec{X: 0.7, Y: 0.7, Z: 0.7})

	dist := p.task.Distance(planar(object), planar(goal))
	height := object.Z
	if p.lastOwner != pnpMove {
		p.lastMoveDist = dist
		p.lastHeight = height
	}

	r := (p.lastMoveDist - dist) + math.Abs(p.lastHeight-height)
	p.lastMoveDist = dist
	p.lastHeight = height
	p.moveTotal += r
	return r
}

func (p *PickAndPlace) placeCompute(object, goal r3.Vec) float64 {
	p.env.Physics().DrawText("place", r3.Vec{X: 0.7, Y: 0.7, Z: 0.7})

	dist := p.task.Distance(object, goal)
	if p.lastOwner != pnpPlace {
		p.lastPlaceDist = dist
	}

	r := p.lastPlaceDist - dist
	p.lastPlaceDist = dist

	if p.lastOwner == pnpPlace && dist < placeDistance {
		p.releaseObject()
		p.env.Terminate("Object was placed to desired position")
	}

	p.placeTotal += r
	return r
}

// gripperReachedObject reports whether the gripper holds or can grip the
// object. The first time the gripper comes within gripDistance a rigid
// attachment is created; from then on the predicate stays true until the
// attachment is released.
func (p *PickAndPlace) gripperReachedObject(gripper, object r3.Vec) bool {
	p.env.Physics().DrawLine(gripper, object)

	if p.grip != nil {
		return true
	}
	if p.task.Distance(gripper, object) < gripDistance {
		p.grip = p.env.Physics().GripObject()
		return true
	}
	return false
}

// objectLifted reports whether the object is off the floor. An object
// falling below floorHeight has been dropped: the pre-lift reference
// resets to its current position so the lift phase starts over.
func (p *PickAndPlace) objectLifted(object r3.Vec) bool {
	if object.Z < floorHeight {
		p.beforeLift = object
		return false
	}
	return true
}

// objectAboveGoal reports whether the object sits above the goal in the
// XY plane, releasing the grip attachment as soon as it does.
func (p *PickAndPlace) objectAboveGoal(object, goal r3.Vec) bool {
	if p.task.Distance(planar(object), planar(goal)) >= aboveDistance {
		return false
	}
	p.releaseObject()
	return true
}

func (p *PickAndPlace) releaseObject() {
	if p.grip != nil {
		p.env.Physics().ReleaseObject(p.grip)
		p.grip = nil
	}
}

// checkMotionLimits applies the shared composite failure contract:
// overshooting the movement limit outside the terminal phase is a too
// strong action, and a freely standing object that stops moving before
// the terminal phase despite having moved is a too weak one.
func (p *PickAndPlace) checkMotionLimits(object r3.Vec, owner pnpPhase) {
	if owner != pnpPlace && p.task.ObjectMoved(1, 2) {
		p.env.Fail("too strong motion")
		return
	}

	if p.grip != nil || owner == pnpPlace {
		return
	}
	moving := !samePosition(p.prevObject, object, 4)
	if moving && p.env.EpisodeSteps() > settleSteps {
		p.everMoved = true
	}
	if p.everMoved && !moving {
		p.env.Fail("too weak motion")
	}
}
