package reward

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"sfneuman.com/gomanip/environment"
	"sfneuman.com/gomanip/geom"
)

// PokeVector scores a poking task with two vector-alignment terms: the
// per-step change in alignment between the gripper→poker and poker→goal
// directions together with the gripper's approach, and, once the two
// directions are nearly collinear, the cosine between the poke direction
// and the actual gripper displacement.
type PokeVector struct {
	shared

	prevPoker   r3.Vec
	prevGripper r3.Vec
	tracking    bool

	lastAlign float64
	lastLen   float64
}

// alignedCosine is the gripper–poker–goal alignment above which the poke
// term starts paying.
const alignedCosine = 0.95

// NewPokeVector returns a PokeVector strategy. Observation layout: goal
// at 0:3, poker at 3:6, raw gripper position at 6:9.
func NewPokeVector(env environment.Environment,
	task environment.Task) *PokeVector {
	return &PokeVector{shared: newShared(env, task)}
}

func (p *PokeVector) Compute(obs mat.Vector) (float64, error) {
	goal := geom.Point(obs, 0)
	poker := geom.Point(obs, 3)
	gripper := p.gripperTip(geom.Point(obs, 6))

	first := !p.tracking
	if first {
		p.prevPoker, p.prevGripper = poker, gripper
		p.tracking = true
	}

	poke := geom.New(p.prevPoker, goal)
	aim := geom.New(p.prevGripper, p.prevPoker)

	align, err := geom.Cosine(poke, aim)
	if err != nil {
		return 0, fmt.Errorf("compute: aim alignment: %w", err)
	}
	length := aim.Norm()
	if first {
		p.lastAlign = align
		p.lastLen = length
	}

	r := (align - p.lastAlign) + (p.lastLen - length)

	if align > alignedCosine {
		real := geom.New(p.prevGripper, gripper)
		if real.Norm() != 0 {
			c, err := geom.Cosine(poke, real)
			if err != nil {
				return 0, fmt.Errorf("compute: poke alignment: %w", err)
			}
			r += c
		}
	}

	if !samePosition(p.prevPoker, poker, 4) {
		r = 0
	}

	p.prevPoker = poker
	p.prevGripper = gripper
	p.lastAlign = align
	p.lastLen = length

	if p.task.ObjectMoved(1, 2) {
		p.env.Fail("too strong poke")
	}
	p.task.ReachedPokeGoal(obs)

	p.history.Append(r)
	return r, nil
}

func (p *PokeVector) Reset() {
	p.tracking = false
	p.lastAlign = 0
	p.lastLen = 0
	p.history.Roll()
}
