package rewardconfig

import (
	"encoding/json"
	"testing"

	"sfneuman.com/gomanip/environment"
)

func TestCreate(t *testing.T) {
	env := environment.NewState(environment.NewStaticPhysics())
	task := environment.NewManipulationTask(env)

	names := []Name{
		Distance,
		ComplexDistance,
		Sparse,
		PokeReach,
		Poke,
		PokeVector,
		ForceField,
		DualPoke,
		PickAndPlace,
		Consequential,
	}

	for _, name := range names {
		strategy, err := NewConfig(name).Create(env, task)
		if err != nil {
			t.Errorf("%v: %v", name, err)
		} else if strategy == nil {
			t.Errorf("%v: strategy should not be nil", name)
		}
	}
}

func TestCreateUnknownName(t *testing.T) {
	env := environment.NewState(environment.NewStaticPhysics())
	task := environment.NewManipulationTask(env)

	if _, err := NewConfig("NoSuchReward").Create(env, task); err == nil {
		t.Error("unknown strategy name should return an error")
	}
}

func TestConfigJSON(t *testing.T) {
	config := NewConfig(ForceField)
	config.Links = 7

	data, err := json.Marshal(config)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if loaded != config {
		t.Errorf("round trip: got %+v, want %+v", loaded, config)
	}
}

func TestNewConfigDefaults(t *testing.T) {
	config := NewConfig(Distance)
	if config.Goals != 1 || config.Distractors != 1 || config.Links != 11 {
		t.Errorf("defaults: got %+v", config)
	}
}

func TestNewTaskThresholds(t *testing.T) {
	env := environment.NewState(environment.NewStaticPhysics())

	config := NewConfig(PickAndPlace)
	config.PnPThreshold = 0.02

	task := config.NewTask(env)
	if task.PnPThreshold != 0.02 {
		t.Errorf("place threshold: got %v, want 0.02", task.PnPThreshold)
	}
	if task.ReachThreshold != environment.DefaultReachThreshold {
		t.Errorf("reach threshold: got %v, want default", task.ReachThreshold)
	}
}
