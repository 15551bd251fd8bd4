// Package rewardconfig provides JSON-serializable configurations that
// select and parameterize a reward strategy by name, the way training
// launchers specify them in experiment files.
package rewardconfig

import (
	"fmt"

	"sfneuman.com/gomanip/environment"
	"sfneuman.com/gomanip/reward"
)

// Name identifies a reward strategy that can be configured with this
// package.
type Name string

// Strategies available for configuration.
const (
	Distance        Name = "Distance"
	ComplexDistance Name = "ComplexDistance"
	Sparse          Name = "Sparse"
	PokeReach       Name = "PokeReach"
	Poke            Name = "Poke"
	PokeVector      Name = "PokeVector"
	ForceField      Name = "ForceField"
	DualPoke        Name = "DualPoke"
	PickAndPlace    Name = "PickAndPlace"
	Consequential   Name = "ConsequentialPickAndPlace"
)

// Config is a specific configuration of a reward strategy. Goals,
// Distractors and Links describe the observation layout and only apply
// to the ForceField strategy. The threshold fields override the default
// task thresholds when nonzero.
type Config struct {
	Reward      Name
	Goals       int
	Distractors int
	Links       int

	ReachThreshold float64
	PokeThreshold  float64
	PnPThreshold   float64
	MoveThreshold  float64
}

// NewConfig returns a Config for the named strategy with the default
// single-goal, single-distractor, 11-link observation layout and the
// default task thresholds.
func NewConfig(name Name) Config {
	return Config{
		Reward:      name,
		Goals:       1,
		Distractors: 1,
		Links:       11,
	}
}

// NewTask returns a ManipulationTask for env with the Config's
// threshold overrides applied.
func (c Config) NewTask(env environment.Environment) *environment.ManipulationTask {
	task := environment.NewManipulationTask(env)
	if c.ReachThreshold > 0 {
		task.ReachThreshold = c.ReachThreshold
	}
	if c.PokeThreshold > 0 {
		task.PokeThreshold = c.PokeThreshold
	}
	if c.PnPThreshold > 0 {
		task.PnPThreshold = c.PnPThreshold
	}
	if c.MoveThreshold > 0 {
		task.MoveThreshold = c.MoveThreshold
	}
	return task
}

// Create returns the reward strategy described by the Config, wired to
// the given collaborators.
func (c Config) Create(env environment.Environment,
	task environment.Task) (reward.Strategy, error) {
	switch c.Reward {
	case Distance:
		return reward.NewDistance(env, task), nil
	case ComplexDistance:
		return reward.NewComplexDistance(env, task), nil
	case Sparse:
		return reward.NewSparse(env, task), nil
	case PokeReach:
		return reward.NewPokeReach(env, task), nil
	case Poke:
		return reward.NewPoke(env, task), nil
	case PokeVector:
		return reward.NewPokeVector(env, task), nil
	case ForceField:
		return reward.NewForceField(env, task, c.Goals, c.Distractors,
			c.Links), nil
	case DualPoke:
		return reward.NewDualPoke(env, task), nil
	case PickAndPlace:
		return reward.NewPickAndPlace(env, task), nil
	case Consequential:
		return reward.NewConsequential(env, task), nil
	default:
		return nil, fmt.Errorf("create: unknown reward strategy %q", c.Reward)
	}
}
