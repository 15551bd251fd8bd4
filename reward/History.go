package reward

import (
	"encoding/gob"
	"fmt"
	"os"
)

// History is the append-only reward record of a strategy: the per-step
// rewards of the current episode, and the return of every completed
// episode. It is consumed after termination for visualization and
// comparison; nothing on the per-step reward path reads it back.
type History struct {
	steps   []float64
	returns []float64
}

// NewHistory returns an empty History.
func NewHistory() *History {
	return &History{}
}

// Append records the reward of one step of the current episode.
func (h *History) Append(r float64) {
	h.steps = append(h.steps, r)
}

// Roll closes the current episode: its cumulative return is appended to
// the per-episode record and the per-step record is cleared. Rolling an
// episode with no steps records nothing.
func (h *History) Roll() {
	if len(h.steps) == 0 {
		return
	}
	var ret float64
	for _, r := range h.steps {
		ret += r
	}
	h.returns = append(h.returns, ret)
	h.steps = nil
}

// Steps returns a copy of the per-step rewards of the current episode.
func (h *History) Steps() []float64 {
	out := make([]float64, len(h.steps))
	copy(out, h.steps)
	return out
}

// Returns returns a copy of the per-episode returns recorded so far.
func (h *History) Returns() []float64 {
	out := make([]float64, len(h.returns))
	copy(out, h.returns)
	return out
}

// Save writes the per-episode returns to a gob file.
func (h *History) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not open save file: %v", err)
	}
	defer file.Close()

	en := gob.NewEncoder(file)
	if err := en.Encode(h.returns); err != nil {
		return fmt.Errorf("save: could not encode return data: %v", err)
	}
	return nil
}
