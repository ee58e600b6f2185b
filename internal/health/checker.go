package health

import (
	"context"
	"time"

	"github.com/sandeepkv93/catalog-service/internal/observability"
)

type CheckResult struct {
	Name      string `json:"name"`
	Healthy   bool   `json:"healthy"`
	Error     string `json:"error,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

type Checker interface {
	Check(ctx context.Context) CheckResult
}

type CheckRunner struct {
	checkers    []Checker
	timeout     time.Duration
	gracePeriod time.Duration
	startedAt   time.Time
	now         func() time.Time
}

// NewCheckRunner ignores nil checkers so optional dependencies can be
// passed unconditionally.
func NewCheckRunner(timeout, gracePeriod time.Duration, checkers ...Checker) *CheckRunner {
	if timeout <= 0 {
		timeout = time.Second
	}
	active := make([]Checker, 0, len(checkers))
	for _, c := range checkers {
		if c != nil {
			active = append(active, c)
		}
	}
	return &CheckRunner{
		checkers:    active,
		timeout:     timeout,
		gracePeriod: gracePeriod,
		startedAt:   time.Now(),
		now:         time.Now,
	}
}

func (r *CheckRunner) Ready(ctx context.Context) (bool, []CheckResult) {
	if r == nil {
		return true, nil
	}
	if r.gracePeriod > 0 && r.now().Sub(r.startedAt) < r.gracePeriod {
		observability.RecordHealthCheckResult(ctx, "startup_grace", "unready")
		return false, []CheckResult{{Name: "startup_grace", Healthy: false, Error: "startup grace period active"}}
	}
	results := make([]CheckResult, 0, len(r.checkers))
	allHealthy := true
	for _, c := range r.checkers {
		checkCtx, cancel := context.WithTimeout(ctx, r.timeout)
		start := r.now()
		res := c.Check(checkCtx)
		elapsed := r.now().Sub(start)
		cancel()
		res.LatencyMS = elapsed.Milliseconds()
		observability.RecordHealthCheckDuration(ctx, res.Name, elapsed)
		if res.Healthy {
			observability.RecordHealthCheckResult(ctx, res.Name, "ready")
		} else {
			observability.RecordHealthCheckResult(ctx, res.Name, "unready")
			allHealthy = false
		}
		results = append(results, res)
	}
	return allHealthy, results
}
