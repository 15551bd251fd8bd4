package reward

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"sfneuman.com/gomanip/environment"
	"sfneuman.com/gomanip/geom"
	"sfneuman.com/gomanip/utils/floatutils"
)

// ForceField rewards the gripper for moving along a composed ideal
// direction rather than merely shrinking a single distance. Each step it
// builds three vectors from the previous gripper position:
//
//   - pull: toward the goal, length proportional to the goal distance
//   - push: away from the nearest obstacle point, length
//     max(0, d^(−1/2) − cutoff), so repulsion grows near the obstacle
//     and vanishes beyond it
//   - ideal: the straight gripper→goal direction
//
// and rewards the cosine similarity between their sum and the actual
// gripper displacement. The reward is bounded in [−1, 1]; it scores
// direction only, not displacement magnitude.
//
// Arm contact with the distractor overrides the field reward with −5;
// every contacting link counts toward a contact budget, and exceeding
// it fails the episode.
type ForceField struct {
	shared

	goals       int
	distractors int
	links       int

	prevGripper r3.Vec
	tracking    bool
	touches     int
}

const (
	// maxTouches is the contact budget before the episode is failed.
	maxTouches = 20

	// contactPenalty overrides the field reward while a link touches
	// the distractor.
	contactPenalty = -5.0

	// pushCutoff is the d^(−1/2) value beyond which repulsion vanishes.
	pushCutoff = 2.0

	// fieldScale moves the composed field into the same order of
	// magnitude as a per-step displacement. It only balances the
	// vectors for the dot comparison, it is not a physical unit.
	fieldScale = 0.005

	// reachedDistance is the gripper-to-goal distance counting as task
	// completion.
	reachedDistance = 0.11
)

// NewForceField returns a ForceField strategy. Observation layout: the
// given number of goal positions, then the distractor positions, then
// the arm position, then the link positions; the last link is the
// gripper.
func NewForceField(env environment.Environment, task environment.Task,
	goals, distractors, links int) *ForceField {
	return &ForceField{
		shared:      newShared(env, task),
		goals:       goals,
		distractors: distractors,
		links:       links,
	}
}

func (f *ForceField) Compute(obs mat.Vector) (float64, error) {
	physics := f.env.Physics()

	contacts := 0
	for link := 0; link < physics.NumLinks(); link++ {
		if physics.LinkInContact(link) {
			contacts++
		}
	}
	if contacts > 0 {
		f.touches += contacts
		if f.touches > maxTouches {
			f.env.Fail("Arm crushed the distractor")
		}
		f.history.Append(contactPenalty)
		return contactPenalty, nil
	}

	goal := geom.Point(obs, 0)
	gripper := geom.Point(obs, 3*(f.goals+f.distractors+1+f.links)-3)

	if !f.tracking {
		f.prevGripper = gripper
		f.tracking = true
	}

	ideal := geom.New(f.prevGripper, goal)
	pull, err := ideal.WithLen(f.task.Distance(f.prevGripper, goal))
	if err != nil {
		return 0, fmt.Errorf("compute: pull vector: %w", err)
	}
	optimal := ideal.Add(pull)

	if obstacle, dist, ok := physics.ClosestObstaclePoint(f.prevGripper); ok && dist > 0 {
		amplifier := floatutils.Clip(1/math.Sqrt(dist)-pushCutoff,
			0, math.Inf(1))
		if amplifier > 0 {
			push, err := geom.New(obstacle, f.prevGripper).WithLen(amplifier)
			if err != nil {
				return 0, fmt.Errorf("compute: push vector: %w", err)
			}
			optimal = optimal.Add(push)
		}
	}
	optimal = optimal.Scale(fieldScale)

	real := geom.New(f.prevGripper, gripper)

	var r float64
	if real.Norm() != 0 {
		r, err = geom.Cosine(optimal, real)
		if err != nil {
			return 0, fmt.Errorf("compute: field alignment: %w", err)
		}
	}

	f.prevGripper = gripper

	if f.task.Distance(goal, gripper) <= reachedDistance {
		if f.env.EpisodeSteps() == 1 {
			f.env.Terminate("Task completed in initial configuration")
		} else {
			f.env.Terminate("Task completed successfully")
		}
	}

	f.history.Append(r)
	return r, nil
}

func (f *ForceField) Reset() {
	f.tracking = false
	f.touches = 0
	f.history.Roll()
}

// Touches returns the cumulative obstacle contacts this episode.
func (f *ForceField) Touches() int { return f.touches }
