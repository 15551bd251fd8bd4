// Package environment outlines the collaborators that surround the
// reward engine: the environment's episode bookkeeping, the simulation
// façade used for pose, contact and nearest-point queries, and the task
// module with its distance-threshold checks.
//
// The reward strategies never end an episode themselves; they signal the
// outcome through the Environment's termination flags, and the
// surrounding training loop acts on them between physics steps.
package environment

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Environment is the episode bookkeeping the reward strategies read and
// write. Exactly one strategy Compute call happens between successive
// physics steps, so no synchronization is needed.
type Environment interface {
	// EpisodeSteps returns the number of simulation steps taken so far
	// in the current episode.
	EpisodeSteps() int

	// EpisodeNumber returns the index of the current episode.
	EpisodeNumber() int

	// Terminate ends the current episode with the given outcome
	// description. The episode is not marked failed.
	Terminate(info string)

	// Fail ends the current episode and marks it failed.
	Fail(info string)

	// Physics returns the simulation façade.
	Physics() Physics
}

// State is a concrete Environment holding episode counters and
// termination flags. The surrounding program calls Step once per physics
// step and Reset at episode boundaries.
type State struct {
	physics Physics
	steps   int
	number  int
	over    bool
	failed  bool
	info    string
}

// NewState returns episode bookkeeping backed by the given simulation
// façade.
func NewState(p Physics) *State {
	return &State{physics: p}
}

// Step records one simulation step.
func (s *State) Step() { s.steps++ }

// Reset clears the episode flags and counters and advances the episode
// number. Call between episodes.
func (s *State) Reset() {
	s.steps = 0
	s.over = false
	s.failed = false
	s.info = ""
	s.number++
}

// Over returns whether the current episode has ended.
func (s *State) Over() bool { return s.over }

// Failed returns whether the current episode ended in failure.
func (s *State) Failed() bool { return s.failed }

// Info returns the narrative description of the episode outcome.
func (s *State) Info() string { return s.info }

func (s *State) EpisodeSteps() int  { return s.steps }
func (s *State) EpisodeNumber() int { return s.number }

func (s *State) Terminate(info string) {
	s.over = true
	s.info = info
}

func (s *State) Fail(info string) {
	s.over = true
	s.failed = true
	s.info = info
}

func (s *State) Physics() Physics { return s.physics }

var _ Environment = (*State)(nil)

// Grip is an opaque handle to a rigid attachment between the gripper and
// the manipulated object, created by Physics.GripObject and removed by
// Physics.ReleaseObject.
type Grip interface{}

// Physics is the synchronous query façade onto the simulation engine.
// Queries have no retry semantics: within a step the simulator is always
// available. Debug drawing is fire and forget.
type Physics interface {
	// GripperOrientation returns the orientation of the end-effector
	// link as a unit quaternion.
	GripperOrientation() quat.Number

	// NumLinks returns the number of observed arm links.
	NumLinks() int

	// LinkInContact reports whether the given arm link currently
	// touches the distractor object.
	LinkInContact(link int) bool

	// ClosestObstaclePoint returns the point of the obstacle nearest to
	// from, together with its distance. ok is false when the simulation
	// reports no obstacle nearby.
	ClosestObstaclePoint(from r3.Vec) (point r3.Vec, distance float64, ok bool)

	// GripObject rigidly attaches the manipulated object to the
	// gripper, returning a handle for the attachment.
	GripObject() Grip

	// ReleaseObject removes a previously created attachment.
	ReleaseObject(g Grip)

	// DrawLine draws a debug line between two world points.
	DrawLine(from, to r3.Vec)

	// DrawText draws a debug label at a world point.
	DrawText(s string, at r3.Vec)
}
