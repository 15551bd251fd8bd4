package environment

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"sfneuman.com/gomanip/geom"
)

// Task exposes the distance and threshold checks of the task module to
// the reward strategies. The threshold predicates may set termination
// flags on the Environment as a side effect, which is the one channel
// through which goal completion reaches the training loop.
type Task interface {
	// Distance returns the Euclidean distance between two points.
	Distance(p, q r3.Vec) float64

	// ObjectMoved reports whether tracked object obj has strayed
	// farther than factor times the movement threshold from where the
	// episode started.
	ObjectMoved(obj int, factor float64) bool

	// ReachedGoal checks the distance between the first and last
	// position in the observation against the reach threshold,
	// terminating the episode on success.
	ReachedGoal(obs mat.Vector) bool

	// ReachedPokeGoal checks the goal-to-poker distance (the first two
	// positions in the observation) against the poke threshold,
	// terminating the episode on success.
	ReachedPokeGoal(obs mat.Vector) bool

	// ReachedPnPGoal checks the goal-to-object distance (the first two
	// positions in the observation) against the place threshold,
	// terminating the episode on success.
	ReachedPnPGoal(obs mat.Vector) bool
}

// Default task thresholds, in meters.
const (
	DefaultReachThreshold = 0.1
	DefaultPokeThreshold  = 0.1
	DefaultPnPThreshold   = 0.05
	DefaultMoveThreshold  = 0.3
)

// ManipulationTask is the default Task. The surrounding program records
// task-object positions with Track once per step; the initial position
// of each object is the first one recorded after Reset.
type ManipulationTask struct {
	env Environment

	ReachThreshold float64
	PokeThreshold  float64
	PnPThreshold   float64
	MoveThreshold  float64

	initial map[int]r3.Vec
	current map[int]r3.Vec
}

// NewManipulationTask returns a ManipulationTask with the default
// thresholds, reporting terminations to the given Environment.
func NewManipulationTask(env Environment) *ManipulationTask {
	return &ManipulationTask{
		env:            env,
		ReachThreshold: DefaultReachThreshold,
		PokeThreshold:  DefaultPokeThreshold,
		PnPThreshold:   DefaultPnPThreshold,
		MoveThreshold:  DefaultMoveThreshold,
		initial:        make(map[int]r3.Vec),
		current:        make(map[int]r3.Vec),
	}
}

// Track records the current position of a task object. The first
// position recorded for an object after Reset becomes its initial
// position for ObjectMoved.
func (t *ManipulationTask) Track(obj int, pos r3.Vec) {
	if _, ok := t.initial[obj]; !ok {
		t.initial[obj] = pos
	}
	t.current[obj] = pos
}

// Reset forgets all tracked object positions. Call between episodes.
func (t *ManipulationTask) Reset() {
	t.initial = make(map[int]r3.Vec)
	t.current = make(map[int]r3.Vec)
}

func (t *ManipulationTask) Distance(p, q r3.Vec) float64 {
	return r3.Norm(p.Sub(q))
}

func (t *ManipulationTask) ObjectMoved(obj int, factor float64) bool {
	initial, ok := t.initial[obj]
	if !ok {
		return false
	}
	return t.Distance(initial, t.current[obj]) > factor*t.MoveThreshold
}

func (t *ManipulationTask) ReachedGoal(obs mat.Vector) bool {
	goal := geom.Point(obs, 0)
	gripper := geom.Point(obs, obs.Len()-3)
	return t.thresholdReached(goal, gripper, t.ReachThreshold,
		"Task completed successfully")
}

func (t *ManipulationTask) ReachedPokeGoal(obs mat.Vector) bool {
	goal := geom.Point(obs, 0)
	poker := geom.Point(obs, 3)
	return t.thresholdReached(goal, poker, t.PokeThreshold,
		"Successful poke")
}

func (t *ManipulationTask) ReachedPnPGoal(obs mat.Vector) bool {
	goal := geom.Point(obs, 0)
	object := geom.Point(obs, 3)
	return t.thresholdReached(goal, object, t.PnPThreshold,
		"Object was placed to desired position")
}

func (t *ManipulationTask) thresholdReached(p, q r3.Vec, threshold float64,
	info string) bool {
	if t.Distance(p, q) >= threshold {
		return false
	}
	t.env.Terminate(info)
	return true
}

var _ Task = (*ManipulationTask)(nil)
