package episodelog

import (
	"testing"
)

func TestRecordAndReturns(t *testing.T) {
	log, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer log.Close()

	if log.RunID() == "" {
		t.Error("run id should not be empty")
	}

	results := []float64{1.5, -0.3, 2.7}
	for i, ret := range results {
		err := log.Record(i, 100+i, ret, "Task completed successfully", false)
		if err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	returns, err := log.Returns()
	if err != nil {
		t.Fatalf("returns: %v", err)
	}
	if len(returns) != len(results) {
		t.Fatalf("returns: got %v rows, want %v", len(returns), len(results))
	}
	for i, ret := range results {
		if returns[i] != ret {
			t.Errorf("episode %v: got %v, want %v", i, returns[i], ret)
		}
	}
}

func TestRunsAreIsolated(t *testing.T) {
	first, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer first.Close()

	second, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer second.Close()

	if first.RunID() == second.RunID() {
		t.Error("separate runs should have distinct ids")
	}

	if err := first.Record(0, 10, 1.0, "", true); err != nil {
		t.Fatalf("record: %v", err)
	}

	returns, err := second.Returns()
	if err != nil {
		t.Fatalf("returns: %v", err)
	}
	if len(returns) != 0 {
		t.Errorf("foreign run rows leaked: %v", returns)
	}
}
