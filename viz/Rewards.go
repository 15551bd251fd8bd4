// Package viz renders reward traces to PNG images for offline
// inspection of training runs.
package viz

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/floats"
)

const (
	plotW  = 800
	plotH  = 600
	margin = 60.0
)

var (
	background = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	axisShade  = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	lineShade  = color.RGBA{R: 30, G: 90, B: 200, A: 255}
)

// Steps plots the per-step rewards of a single episode and saves the
// image to dir as reward_over_steps_episode<episode>.png.
func Steps(rewards []float64, episode int, dir string) error {
	name := fmt.Sprintf("reward_over_steps_episode%d.png", episode)
	err := plot(rewards, "step", filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("steps: %v", err)
	}
	return nil
}

// Returns plots the per-episode returns of a run and saves the image
// to dir as reward_over_episodes.png.
func Returns(returns []float64, dir string) error {
	err := plot(returns, "episode", filepath.Join(dir, "reward_over_episodes.png"))
	if err != nil {
		return fmt.Errorf("returns: %v", err)
	}
	return nil
}

func plot(values []float64, xLabel, path string) error {
	if len(values) == 0 {
		return fmt.Errorf("cannot plot empty series")
	}

	dc := gg.NewContext(plotW, plotH)
	dc.SetColor(background)
	dc.Clear()

	// Axes
	dc.SetColor(axisShade)
	dc.SetLineWidth(2.0)
	dc.DrawLine(margin, margin, margin, plotH-margin)
	dc.DrawLine(margin, plotH-margin, plotW-margin, plotH-margin)
	dc.Stroke()

	min := floats.Min(values)
	max := floats.Max(values)
	if min == max {
		// Flat series still needs a nonzero vertical range
		min--
		max++
	}

	toPixel := func(i int, v float64) (float64, float64) {
		x := margin
		if len(values) > 1 {
			x += float64(i) / float64(len(values)-1) * (plotW - 2*margin)
		}
		y := plotH - margin - (v-min)/(max-min)*(plotH-2*margin)
		return x, y
	}

	dc.ClearPath()
	x, y := toPixel(0, values[0])
	dc.MoveTo(x, y)
	for i := 1; i < len(values); i++ {
		x, y = toPixel(i, values[i])
		dc.LineTo(x, y)
	}
	dc.SetColor(lineShade)
	dc.SetLineWidth(1.5)
	dc.Stroke()

	dc.SetColor(axisShade)
	dc.DrawString(fmt.Sprintf("reward over %ss", xLabel), margin, margin/2)
	dc.DrawString(fmt.Sprintf("%.4f", max), 5, margin)
	dc.DrawString(fmt.Sprintf("%.4f", min), 5, plotH-margin)

	return dc.SavePNG(path)
}
