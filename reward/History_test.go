package reward

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"testing"
)

func TestHistoryRoll(t *testing.T) {
	h := NewHistory()

	h.Append(1)
	h.Append(2)
	h.Append(3)

	steps := h.Steps()
	if len(steps) != 3 || steps[2] != 3 {
		t.Errorf("steps: got %v", steps)
	}

	h.Roll()
	if len(h.Steps()) != 0 {
		t.Error("roll should clear the per-step record")
	}
	returns := h.Returns()
	if len(returns) != 1 || returns[0] != 6 {
		t.Errorf("returns: got %v, want [6]", returns)
	}

	// Rolling an empty episode records nothing
	h.Roll()
	if len(h.Returns()) != 1 {
		t.Error("empty roll should not append a return")
	}
}

func TestHistorySave(t *testing.T) {
	h := NewHistory()
	h.Append(2)
	h.Append(3)
	h.Roll()
	h.Append(-1)
	h.Roll()

	filename := filepath.Join(t.TempDir(), "returns.bin")
	if err := h.Save(filename); err != nil {
		t.Fatalf("save: %v", err)
	}

	file, err := os.Open(filename)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()

	var returns []float64
	if err := gob.NewDecoder(file).Decode(&returns); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(returns) != 2 || returns[0] != 5 || returns[1] != -1 {
		t.Errorf("loaded returns: got %v, want [5 -1]", returns)
	}
}
