package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockChecker struct {
	result CheckResult
}

func (m mockChecker) Check(context.Context) CheckResult {
	return m.result
}

func TestCheckRunnerReady(t *testing.T) {
	runner := NewCheckRunner(200*time.Millisecond, 0,
		mockChecker{result: CheckResult{Name: "db", Healthy: true}},
		mockChecker{result: CheckResult{Name: "redis", Healthy: true}},
	)
	ready, results := runner.Ready(context.Background())
	if !ready {
		t.Fatal("expected ready")
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestCheckRunnerUnready(t *testing.T) {
	runner := NewCheckRunner(200*time.Millisecond, 0,
		mockChecker{result: CheckResult{Name: "db", Healthy: true}},
		mockChecker{result: CheckResult{Name: "redis", Healthy: false, Error: errors.New("down").Error()}},
	)
	ready, results := runner.Ready(context.Background())
	if ready {
		t.Fatal("expected unready")
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestCheckRunnerStartupGrace(t *testing.T) {
	runner := NewCheckRunner(200*time.Millisecond, 2*time.Second,
		mockChecker{result: CheckResult{Name: "db", Healthy: true}},
	)
	ready, results := runner.Ready(context.Background())
	if ready {
		t.Fatal("expected unready during grace period")
	}
	if len(results) != 1 || results[0].Name != "startup_grace" {
		t.Fatalf("unexpected grace results: %+v", results)
	}
}

func TestCheckRunnerSkipsNilCheckersAndRecordsLatency(t *testing.T) {
	runner := NewCheckRunner(200*time.Millisecond, 0,
		NewDBChecker(nil),
		NewRedisChecker(nil),
		NewPingChecker("object_storage", nil),
		mockChecker{result: CheckResult{Name: "db", Healthy: true}},
	)
	tick := time.Unix(0, 0)
	runner.now = func() time.Time {
		tick = tick.Add(5 * time.Millisecond)
		return tick
	}
	ready, results := runner.Ready(context.Background())
	if !ready || len(results) != 1 {
		t.Fatalf("expected only the non-nil checker to run, ready=%v results=%+v", ready, results)
	}
	if results[0].LatencyMS != 5 {
		t.Fatalf("expected 5ms latency, got %d", results[0].LatencyMS)
	}
}
