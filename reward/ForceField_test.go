package reward

import (
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"sfneuman.com/gomanip/environment"
)

// fieldObs builds a single-goal, single-distractor, single-link
// observation; the link doubles as the gripper.
func fieldObs(goal, gripper r3.Vec) *mat.VecDense {
	return mat.NewVecDense(12, []float64{
		goal.X, goal.Y, goal.Z, // goal
		0, 0, 1, // distractor
		0, 0, 0.5, // arm
		gripper.X, gripper.Y, gripper.Z, // gripper link
	})
}

func newFieldRig() (*environment.State, *ForceField,
	*environment.StaticPhysics) {
	env, task, physics := newRig()
	physics.Links = 1
	return env, NewForceField(env, task, 1, 1, 1), physics
}

func TestForceFieldAlignment(t *testing.T) {
	env, f, _ := newFieldRig()

	goal := r3.Vec{X: 1}

	// No displacement yet: no reward
	env.Step()
	r, err := f.Compute(fieldObs(goal, r3.Vec{}))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if r != 0 {
		t.Errorf("first reward: got %v, want 0", r)
	}

	// Moving straight at the goal aligns perfectly with the field
	env.Step()
	r, err = f.Compute(fieldObs(goal, r3.Vec{X: 0.1}))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !closeTo(r, 1) {
		t.Errorf("aligned reward: got %v, want 1", r)
	}

	// Moving straight away opposes it
	env.Step()
	r, err = f.Compute(fieldObs(goal, r3.Vec{X: -0.1}))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !closeTo(r, -1) {
		t.Errorf("opposed reward: got %v, want -1", r)
	}
}

func TestForceFieldObstaclePush(t *testing.T) {
	env, f, physics := newFieldRig()

	// An obstacle right next to the gripper bends the field away from
	// the straight line to the goal
	physics.HasObstacle = true
	physics.Obstacle = r3.Vec{Y: 0.05}

	goal := r3.Vec{X: 1}

	env.Step()
	if _, err := f.Compute(fieldObs(goal, r3.Vec{})); err != nil {
		t.Fatalf("compute: %v", err)
	}

	env.Step()
	r, err := f.Compute(fieldObs(goal, r3.Vec{X: 0.1}))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if r <= -1 || r >= 1 {
		t.Errorf("deflected reward: got %v, want strictly inside (-1, 1)", r)
	}
}

func TestForceFieldContactBudget(t *testing.T) {
	env, f, physics := newFieldRig()
	physics.Contacts[0] = true

	obs := fieldObs(r3.Vec{X: 1}, r3.Vec{})
	for i := 0; i < maxTouches; i++ {
		env.Step()
		r, err := f.Compute(obs)
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		if r != contactPenalty {
			t.Fatalf("contact reward: got %v, want %v", r, contactPenalty)
		}
	}
	if env.Over() {
		t.Fatal("episode should survive the contact budget")
	}

	env.Step()
	if _, err := f.Compute(obs); err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !env.Failed() || env.Info() != "Arm crushed the distractor" {
		t.Errorf("got failed=%v info=%q, want crushed distractor",
			env.Failed(), env.Info())
	}
	if f.Touches() != maxTouches+1 {
		t.Errorf("touches: got %v, want %v", f.Touches(), maxTouches+1)
	}
}

func TestForceFieldMultiLinkContact(t *testing.T) {
	env, f, physics := newFieldRig()
	physics.Links = 3
	physics.Contacts[0] = true
	physics.Contacts[2] = true

	// Two contacting links spend the budget twice as fast
	obs := fieldObs(r3.Vec{X: 1}, r3.Vec{})
	for i := 0; i < maxTouches/2; i++ {
		env.Step()
		r, err := f.Compute(obs)
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		if r != contactPenalty {
			t.Fatalf("contact reward: got %v, want %v", r, contactPenalty)
		}
	}
	if f.Touches() != maxTouches {
		t.Fatalf("touches: got %v, want %v", f.Touches(), maxTouches)
	}
	if env.Over() {
		t.Fatal("episode should survive exactly the contact budget")
	}

	env.Step()
	if _, err := f.Compute(obs); err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !env.Failed() || env.Info() != "Arm crushed the distractor" {
		t.Errorf("got failed=%v info=%q, want crushed distractor",
			env.Failed(), env.Info())
	}
}

func TestForceFieldInitialConfiguration(t *testing.T) {
	env, f, _ := newFieldRig()

	// Goal already within reach on the very first step
	env.Step()
	if _, err := f.Compute(fieldObs(r3.Vec{X: 0.05}, r3.Vec{})); err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !env.Over() || env.Failed() {
		t.Fatal("starting at the goal should terminate the episode")
	}
	if env.Info() != "Task completed in initial configuration" {
		t.Errorf("info: got %q", env.Info())
	}
}
