package main

import (
	"fmt"
	"log"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r3"
	"sfneuman.com/gomanip/environment"
	"sfneuman.com/gomanip/episodelog"
	"sfneuman.com/gomanip/rewardconfig"
	"sfneuman.com/gomanip/viz"
)

const (
	episodes = 5
	maxSteps = 250

	// Proportional gain of the scripted gripper controller
	gain = 0.1

	// Vertical offset between the tracked gripper link and its tip
	tipOffset = 0.1
)

func main() {
	var seed uint64 = 192382

	// Create the environment
	physics := environment.NewStaticPhysics()
	env := environment.NewState(physics)

	bounds := r1.Interval{Min: -0.5, Max: 0.5}
	starter := environment.NewUniformStarter(
		[]r1.Interval{bounds, bounds, {Min: 0.1, Max: 0.5}}, seed,
	)

	// Create the task and reward strategy
	config := rewardconfig.NewConfig(rewardconfig.Distance)
	task := config.NewTask(env)
	strategy, err := config.Create(env, task)
	if err != nil {
		log.Fatal(err)
	}

	logDB, err := episodelog.Open("./episodes.db")
	if err != nil {
		log.Fatal(err)
	}
	defer logDB.Close()

	for episode := 0; episode < episodes; episode++ {
		goal := starter.StartPoint()
		gripper := starter.StartPoint()
		task.Track(0, goal)

		for env.EpisodeSteps() < maxSteps && !env.Over() {
			env.Step()

			obs := mat.NewVecDense(6, []float64{
				goal.X, goal.Y, goal.Z,
				gripper.X, gripper.Y, gripper.Z,
			})
			if _, err := strategy.Compute(obs); err != nil {
				log.Fatal(err)
			}

			// Drive the gripper so its tip closes on the goal
			target := goal.Sub(r3.Vec{Z: tipOffset})
			gripper = gripper.Add(target.Sub(gripper).Scale(gain))
		}

		history := strategy.History()
		steps := history.Steps()
		if err := viz.Steps(steps, episode, "."); err != nil {
			log.Fatal(err)
		}

		var episodeReturn float64
		for _, r := range steps {
			episodeReturn += r
		}
		err := logDB.Record(episode, env.EpisodeSteps(), episodeReturn,
			env.Info(), env.Failed())
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("episode %d: steps=%d return=%.4f info=%q\n",
			episode, env.EpisodeSteps(), episodeReturn, env.Info())

		history.Roll()
		strategy.Reset()
		task.Reset()
		env.Reset()
	}

	returns, err := logDB.Returns()
	if err != nil {
		log.Fatal(err)
	}
	if err := viz.Returns(returns, "."); err != nil {
		log.Fatal(err)
	}
}
