package reward

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

// dualObs builds a DualPoke observation with the goal at (1, 0, 0) and
// the raw gripper placed so its tip sits at (gx, gy, 0).
func dualObs(pokerX, gx, gy float64) *mat.VecDense {
	return mat.NewVecDense(9,
		[]float64{1, 0, 0, pokerX, 0, 0, gx, gy, -0.1})
}

func TestDualPokeAimPhase(t *testing.T) {
	env, task, _ := newRig()
	d := NewDualPoke(env, task)

	// Gripper far off the poke line: aim phase, re-baselined to 0
	env.Step()
	r, err := d.Compute(dualObs(0, 0, 1))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if r != 0 {
		t.Errorf("first aim reward: got %v, want 0", r)
	}

	// Closing on the aim point behind the poker pays the distance delta
	env.Step()
	r, err = d.Compute(dualObs(0, -0.1, 0.5))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if r <= 0 {
		t.Errorf("aim progress reward: got %v, want > 0", r)
	}
}

func TestDualPokeSwitchRebaseline(t *testing.T) {
	env, task, _ := newRig()
	d := NewDualPoke(env, task)

	env.Step()
	if _, err := d.Compute(dualObs(0, 0, 1)); err != nil {
		t.Fatalf("compute: %v", err)
	}

	// Gripper now on the poke line behind the poker: ownership switches
	// to the poke phase, whose first reward must be 0
	env.Step()
	r, err := d.Compute(dualObs(0, -0.3, 0))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if r != 0 {
		t.Errorf("first poke reward: got %v, want 0", r)
	}

	aim, poke := d.PhaseTotals()
	if aim != 0 || poke != 0 {
		t.Errorf("phase totals: got (%v, %v), want (0, 0)", aim, poke)
	}
}

func TestDualPokeBadPoke(t *testing.T) {
	env, task, _ := newRig()
	d := NewDualPoke(env, task)

	// Aimed from the start
	env.Step()
	if _, err := d.Compute(dualObs(0, -0.3, 0)); err != nil {
		t.Fatalf("compute: %v", err)
	}

	for i := 0; i < settleSteps+1; i++ {
		env.Step()
	}

	// The poker moves: the touched latch engages
	env.Step()
	if _, err := d.Compute(dualObs(0.2, -0.3, 0)); err != nil {
		t.Fatalf("compute: %v", err)
	}
	if env.Over() {
		t.Fatal("episode should still be running while the poker moves")
	}

	// The poker comes to rest far short of the goal
	env.Step()
	if _, err := d.Compute(dualObs(0.2, -0.3, 0)); err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !env.Failed() || env.Info() != "bad poke" {
		t.Errorf("got failed=%v info=%q, want bad poke",
			env.Failed(), env.Info())
	}
}

func TestDualPokeGoodPoke(t *testing.T) {
	env, task, _ := newRig()
	d := NewDualPoke(env, task)

	env.Step()
	if _, err := d.Compute(dualObs(0, -0.3, 0)); err != nil {
		t.Fatalf("compute: %v", err)
	}

	for i := 0; i < settleSteps+1; i++ {
		env.Step()
	}

	env.Step()
	if _, err := d.Compute(dualObs(0.5, -0.3, 0)); err != nil {
		t.Fatalf("compute: %v", err)
	}

	// The poker arrives within reach of the goal
	env.Step()
	if _, err := d.Compute(dualObs(0.95, -0.3, 0)); err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !env.Over() || env.Failed() {
		t.Error("a settled poke near the goal should succeed")
	}
}
