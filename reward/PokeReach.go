package reward

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"sfneuman.com/gomanip/environment"
	"sfneuman.com/gomanip/geom"
	"sfneuman.com/gomanip/utils/floatutils"
)

// PokeReach shapes a poking task with a single dense signal: a heavily
// weighted term for the poker's progress toward the goal, plus the
// gripper's approach to the poker while the poker is at rest. A poke
// that knocks the poker past the movement limit fails the episode as too
// strong; a poker that comes to rest short of the goal after having
// moved fails it as too weak.
type PokeReach struct {
	shared

	lastDist        float64
	lastGripperDist float64
	prevPoker       r3.Vec
	tracking        bool
	moved           bool
}

// NewPokeReach returns a PokeReach strategy. Observation layout: goal at
// 0:3, poker at 3:6, raw gripper position at 6:9.
func NewPokeReach(env environment.Environment,
	task environment.Task) *PokeReach {
	return &PokeReach{shared: newShared(env, task)}
}

func (p *PokeReach) Compute(obs mat.Vector) (float64, error) {
	goal := geom.Point(obs, 0)
	poker := roundVec(geom.Point(obs, 3), 4)
	gripper := p.gripperTip(geom.Point(obs, 6))

	dist := floatutils.Round(p.task.Distance(goal, poker), 7)
	gripperDist := p.task.Distance(poker, gripper)

	if !p.tracking {
		p.lastDist = dist
		p.lastGripperDist = gripperDist
		p.prevPoker = poker
		p.tracking = true
	}

	r := 100 * (p.lastDist - dist)
	if p.pokerAtRest(poker) {
		if p.moved {
			p.env.Fail("too weak poke")
		}
		r += p.lastGripperDist - gripperDist
	} else if p.env.EpisodeSteps() > settleSteps {
		// The poker drifts slightly while the simulation settles;
		// motion only counts after the settle window.
		p.moved = true
	}

	p.lastDist = dist
	p.lastGripperDist = gripperDist
	p.prevPoker = poker

	if p.task.ObjectMoved(1, 2) {
		p.env.Fail("too strong poke")
	}
	p.task.ReachedPokeGoal(obs)

	p.history.Append(r)
	return r, nil
}

func (p *PokeReach) Reset() {
	p.tracking = false
	p.moved = false
	p.history.Roll()
}

func (p *PokeReach) pokerAtRest(poker r3.Vec) bool {
	return samePlanarPosition(p.prevPoker, poker, 4)
}
