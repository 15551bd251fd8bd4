package reward

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"sfneuman.com/gomanip/environment"
	"sfneuman.com/gomanip/geom"
	"sfneuman.com/gomanip/utils/floatutils"
)

// dualPhase is the owner of a DualPoke step.
type dualPhase int

const (
	dualNone dualPhase = iota - 1 // before the first step
	dualAim
	dualPoke
)

func (p dualPhase) String() string {
	switch p {
	case dualAim:
		return "aim"
	case dualPoke:
		return "poke"
	default:
		return "none"
	}
}

// DualPoke decomposes a poking task into two phases. In the aim phase
// the gripper is rewarded for reaching the aim point on the poke line
// behind the poker; in the poke phase for driving the poker toward the
// goal. Ownership is re-decided from the aiming predicate every step,
// except that the sticky touched latch keeps ownership in the poke phase
// once the poker has moved: a contacted poke cannot fall back to aiming.
//
// Each phase re-baselines its distance whenever ownership switches into
// it, so the first reward of a phase is always 0 and no stale delta
// leaks across the switch.
type DualPoke struct {
	shared

	prevPoker r3.Vec
	havePoker bool
	touched   bool

	lastAimDist  float64
	lastPokeDist float64

	aimTotal  float64
	pokeTotal float64

	lastOwner dualPhase
}

const (
	// aimBehind is how far behind the poker, away from the goal, the
	// aim point sits.
	aimBehind = 0.2

	// aimTolerance is the distance from the extended poke line within
	// which the gripper counts as aimed.
	aimTolerance = 0.1

	// dualDoneDistance separates a good poke from a bad one once the
	// poker comes to rest.
	dualDoneDistance = 0.1
)

// NewDualPoke returns a DualPoke strategy. Observation layout: goal at
// 0:3, poker at 3:6, raw gripper position at 6:9.
func NewDualPoke(env environment.Environment,
	task environment.Task) *DualPoke {
	return &DualPoke{shared: newShared(env, task), lastOwner: dualNone}
}

func (d *DualPoke) Compute(obs mat.Vector) (float64, error) {
	goal, poker, gripper := d.positions(obs)

	owner, err := d.decide(goal, poker, gripper)
	if err != nil {
		return 0, fmt.Errorf("compute: %w", err)
	}

	var r float64
	switch owner {
	case dualAim:
		r, err = d.aimCompute(goal, poker, gripper)
	case dualPoke:
		r = d.pokeCompute(goal, poker)
	default:
		return 0, fmt.Errorf("compute: unknown phase %d", owner)
	}
	if err != nil {
		return 0, fmt.Errorf("compute: %w", err)
	}

	d.lastOwner = owner
	d.task.ReachedPokeGoal(obs)

	d.history.Append(r)
	return r, nil
}

func (d *DualPoke) Reset() {
	d.havePoker = false
	d.touched = false
	d.lastAimDist = 0
	d.lastPokeDist = 0
	d.aimTotal = 0
	d.pokeTotal = 0
	d.lastOwner = dualNone
	d.history.Roll()
}

// PhaseTotals returns the cumulative reward earned in the aim and poke
// phases this episode, for diagnostics.
func (d *DualPoke) PhaseTotals() (aim, poke float64) {
	return d.aimTotal, d.pokeTotal
}

func (d *DualPoke) positions(obs mat.Vector) (goal, poker, gripper r3.Vec) {
	goal = geom.Point(obs, 0)
	poker = geom.Point(obs, 3)
	gripper = d.gripperTip(geom.Point(obs, 6))

	if !d.havePoker {
		d.prevPoker = poker
		d.havePoker = true
	}
	return goal, poker, gripper
}

func (d *DualPoke) decide(goal, poker, gripper r3.Vec) (dualPhase, error) {
	if d.touched {
		d.env.Physics().DrawText("touched", r3.Vec{X: -0.3, Y: 0.3, Z: 0.3})
		return dualPoke, nil
	}

	aimed, err := d.isAimed(goal, poker, gripper)
	if err != nil {
		return dualNone, err
	}
	if aimed {
		return dualPoke, nil
	}
	return dualAim, nil
}

// isAimed reports whether the gripper lies within tolerance of the poke
// line extended behind the poker, away from the goal.
func (d *DualPoke) isAimed(goal, poker, gripper r3.Vec) (bool, error) {
	behind, err := geom.New(poker, goal).WithLen(-aimBehind)
	if err != nil {
		return false, fmt.Errorf("aim line: %w", err)
	}
	far := poker.Add(behind.Dir.Scale(3))
	return geom.DistanceFromSegment(far, poker, gripper) < aimTolerance, nil
}

func (d *DualPoke) aimCompute(goal, poker, gripper r3.Vec) (float64, error) {
	behind, err := geom.New(poker, goal).WithLen(-aimBehind)
	if err != nil {
		return 0, fmt.Errorf("aim point: %w", err)
	}
	aimPoint := poker.Add(behind.Dir)

	aimDist := d.task.Distance(gripper, aimPoint)
	if d.lastOwner != dualAim {
		d.lastAimDist = aimDist
	}

	r := d.lastAimDist - aimDist
	d.aimTotal += r
	d.lastAimDist = aimDist

	d.latchTouch(poker)
	d.prevPoker = poker
	return r, nil
}

func (d *DualPoke) pokeCompute(goal, poker r3.Vec) float64 {
	pokeDist := floatutils.Round(d.task.Distance(poker, goal), 5)
	if d.lastOwner != dualPoke {
		d.lastPokeDist = pokeDist
	}

	r := 5 * (d.lastPokeDist - pokeDist)
	if d.task.ObjectMoved(0, 1) {
		d.env.Fail("too strong poke")
		r = -5
	}
	d.pokeTotal += r
	d.lastPokeDist = pokeDist

	moving := !samePosition(d.prevPoker, poker, 4)
	d.latchTouch(poker)
	d.prevPoker = poker

	if d.touched && !moving {
		if pokeDist > dualDoneDistance {
			d.env.Fail("bad poke")
		} else {
			d.env.Terminate("good poke")
		}
	}
	return r
}

// latchTouch sets the sticky touched flag once the poker has moved after
// the settle window. The flag only resets at episode boundaries.
func (d *DualPoke) latchTouch(poker r3.Vec) {
	if d.env.EpisodeSteps() > settleSteps &&
		!samePosition(d.prevPoker, poker, 4) {
		d.touched = true
	}
}
