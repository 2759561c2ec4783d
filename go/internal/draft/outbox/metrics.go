package outbox

import (
	"sync"
	"time"
)

// MetricsCollector defines the interface for collecting relay metrics
type MetricsCollector interface {
	RecordEventProcessed(eventType string, success bool, duration time.Duration)
	RecordPublishAttempt(eventType string, attempt int, success bool)
	RecordDropped(eventType string)
}

// NoOpMetricsCollector discards every measurement
type NoOpMetricsCollector struct{}

func (NoOpMetricsCollector) RecordEventProcessed(string, bool, time.Duration) {}
func (NoOpMetricsCollector) RecordPublishAttempt(string, int, bool)           {}
func (NoOpMetricsCollector) RecordDropped(string)                             {}

// Counters is an in-memory MetricsCollector
type Counters struct {
	mu        sync.Mutex
	published map[string]uint64
	failed    map[string]uint64
	dropped   map[string]uint64
	retries   uint64
	totalTime time.Duration
}

// CounterSnapshot is a copy of the counters
type CounterSnapshot struct {
	Published  map[string]uint64 `json:"published"`
	Failed     map[string]uint64 `json:"failed"`
	Dropped    map[string]uint64 `json:"dropped"`
	Retries    uint64            `json:"retries"`
	AvgPublish time.Duration     `json:"avg_publish_ns"`
}

func NewCounters() *Counters {
	return &Counters{
		published: make(map[string]uint64),
		failed:    make(map[string]uint64),
		dropped:   make(map[string]uint64),
	}
}

func (c *Counters) RecordEventProcessed(eventType string, success bool, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if success {
		c.published[eventType]++
	} else {
		c.failed[eventType]++
	}
	c.totalTime += duration
}

func (c *Counters) RecordPublishAttempt(_ string, attempt int, _ bool) {
	if attempt <= 1 {
		return
	}
	c.mu.Lock()
	c.retries++
	c.mu.Unlock()
}

func (c *Counters) RecordDropped(eventType string) {
	c.mu.Lock()
	c.dropped[eventType]++
	c.mu.Unlock()
}

// Snapshot returns a copy of the current counters
func (c *Counters) Snapshot() CounterSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := CounterSnapshot{
		Published: copyCounts(c.published),
		Failed:    copyCounts(c.failed),
		Dropped:   copyCounts(c.dropped),
		Retries:   c.retries,
	}
	var n uint64
	for _, v := range c.published {
		n += v
	}
	for _, v := range c.failed {
		n += v
	}
	if n > 0 {
		s.AvgPublish = c.totalTime / time.Duration(n)
	}
	return s
}

func copyCounts(m map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
