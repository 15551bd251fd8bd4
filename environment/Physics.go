package environment

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// StaticPhysics is a canned-response Physics. Tests and scripted
// demonstration loops set its fields directly; the real simulator runs
// out of process and is reached through the same interface.
type StaticPhysics struct {
	// Orientation is the end-effector orientation reported to callers.
	Orientation quat.Number

	// Links is the number of observed arm links.
	Links int

	// Contacts marks links currently touching the distractor.
	Contacts map[int]bool

	// Obstacle is the nearest obstacle point reported when HasObstacle
	// is set.
	Obstacle    r3.Vec
	HasObstacle bool

	grips    int
	releases int
}

// NewStaticPhysics returns a StaticPhysics with an identity gripper
// orientation and the default 11-link arm.
func NewStaticPhysics() *StaticPhysics {
	return &StaticPhysics{
		Orientation: quat.Number{Real: 1},
		Links:       11,
		Contacts:    make(map[int]bool),
	}
}

func (p *StaticPhysics) GripperOrientation() quat.Number { return p.Orientation }

func (p *StaticPhysics) NumLinks() int { return p.Links }

func (p *StaticPhysics) LinkInContact(link int) bool { return p.Contacts[link] }

func (p *StaticPhysics) ClosestObstaclePoint(from r3.Vec) (r3.Vec, float64, bool) {
	if !p.HasObstacle {
		return r3.Vec{}, 0, false
	}
	return p.Obstacle, r3.Norm(from.Sub(p.Obstacle)), true
}

func (p *StaticPhysics) GripObject() Grip {
	p.grips++
	return p.grips
}

func (p *StaticPhysics) ReleaseObject(Grip) { p.releases++ }

// Grips returns how many attachments have been created.
func (p *StaticPhysics) Grips() int { return p.grips }

// Releases returns how many attachments have been removed.
func (p *StaticPhysics) Releases() int { return p.releases }

func (p *StaticPhysics) DrawLine(from, to r3.Vec) {}

func (p *StaticPhysics) DrawText(s string, at r3.Vec) {}

var _ Physics = (*StaticPhysics)(nil)
