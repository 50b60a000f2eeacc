package app

import (
	"sync/atomic"
	"time"

	"github.com/dshills/blacken/internal/format"
)

// Metrics counts formatter runs by outcome. It is safe for concurrent use.
type Metrics struct {
	runs      atomic.Uint64
	applied   atomic.Uint64
	unchanged atomic.Uint64
	skipped   atomic.Uint64
	failed    atomic.Uint64

	totalNs atomic.Int64
	minNs   atomic.Int64
	maxNs   atomic.Int64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),
	}
	// Initialize min to max int64 so the first run will be smaller
	m.minNs.Store(1<<63 - 1)
	return m
}

// RecordRun records one file's outcome. A non-nil err counts as a failure
// whatever the outcome.
func (m *Metrics) RecordRun(outcome format.Outcome, duration time.Duration, err error) {
	m.runs.Add(1)

	switch {
	case err != nil:
		m.failed.Add(1)
	case outcome == format.OutcomeApplied:
		m.applied.Add(1)
	case outcome == format.OutcomeSkipped:
		m.skipped.Add(1)
		return
	default:
		m.unchanged.Add(1)
	}

	ns := duration.Nanoseconds()
	m.totalNs.Add(ns)

	// Update min (atomic compare-and-swap loop)
	for {
		old := m.minNs.Load()
		if ns >= old {
			break
		}
		if m.minNs.CompareAndSwap(old, ns) {
			break
		}
	}

	// Update max (atomic compare-and-swap loop)
	for {
		old := m.maxNs.Load()
		if ns <= old {
			break
		}
		if m.maxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	runs := m.runs.Load()
	skipped := m.skipped.Load()

	var avgNs int64
	if timed := runs - skipped; timed > 0 {
		avgNs = m.totalNs.Load() / int64(timed)
	}

	minNs := m.minNs.Load()
	if minNs == 1<<63-1 {
		minNs = 0
	}

	return MetricsSnapshot{
		Uptime:    time.Since(m.startTime),
		Runs:      runs,
		Applied:   m.applied.Load(),
		Unchanged: m.unchanged.Load(),
		Skipped:   skipped,
		Failed:    m.failed.Load(),
		Total:     time.Duration(m.totalNs.Load()),
		Avg:       time.Duration(avgNs),
		Min:       time.Duration(minNs),
		Max:       time.Duration(m.maxNs.Load()),
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.runs.Store(0)
	m.applied.Store(0)
	m.unchanged.Store(0)
	m.skipped.Store(0)
	m.failed.Store(0)
	m.totalNs.Store(0)
	m.minNs.Store(1<<63 - 1)
	m.maxNs.Store(0)
	m.startTime = time.Now()
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime    time.Duration
	Runs      uint64
	Applied   uint64
	Unchanged uint64
	Skipped   uint64
	Failed    uint64
	Total     time.Duration
	Avg       time.Duration
	Min       time.Duration
	Max       time.Duration
}

// FailureRate returns the percentage of runs that failed.
func (s MetricsSnapshot) FailureRate() float64 {
	if s.Runs == 0 {
		return 0
	}
	return float64(s.Failed) / float64(s.Runs) * 100
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Stop returns the elapsed time and resets the timer.
func (t *Timer) Stop() time.Duration {
	elapsed := t.Elapsed()
	t.start = time.Now()
	return elapsed
}
