package remote

import (
	"context"
	"time"

	"github.com/themandi/JoyJoin/pkg/core/metrics"
)

// InstrumentedChecker records every check in Prometheus metrics
type InstrumentedChecker struct {
	next    Checker
	metrics *metrics.Metrics
}

// NewInstrumentedChecker wraps next
func NewInstrumentedChecker(next Checker, m *metrics.Metrics) *InstrumentedChecker {
	return &InstrumentedChecker{next: next, metrics: m}
}

// Check delegates to the wrapped checker
func (c *InstrumentedChecker) Check(ctx context.Context, endpoint Endpoint, payload string) (Verdict, error) {
	start := time.Now()
	verdict, err := c.next.Check(ctx, endpoint, payload)
	c.metrics.ObserveRemoteCheck(string(endpoint), verdict.String(), time.Since(start).Seconds())
	return verdict, err
}
