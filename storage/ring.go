// Package storage keeps bounded in-memory history of emitted events and an
// append-only CSV session log.
package storage

import (
	"sync"
	"time"

	"github.com/Nipz652/CalmOrbIoT/sensing"
)

// EventRing is a fixed-capacity circular buffer of emitted events, newest
// overwriting oldest. Used for dashboard replay and diagnostics.
type EventRing struct {
	data     []sensing.Event
	head     int
	size     int
	capacity int
	mu       sync.RWMutex
}

func NewEventRing(capacity int) *EventRing {
	return &EventRing{
		data:     make([]sensing.Event, capacity),
		capacity: capacity,
	}
}

func (rb *EventRing) Push(evt sensing.Event) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.data[rb.head] = evt
	rb.head = (rb.head + 1) % rb.capacity
	if rb.size < rb.capacity {
		rb.size++
	}
}

// Recent returns up to n events, newest first.
func (rb *EventRing) Recent(n int) []sensing.Event {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	if n > rb.size {
		n = rb.size
	}

	result := make([]sensing.Event, n)
	for i := 0; i < n; i++ {
		idx := (rb.head - 1 - i + rb.capacity) % rb.capacity
		result[i] = rb.data[idx]
	}
	return result
}

func (rb *EventRing) Size() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.size
}

func (rb *EventRing) Capacity() int {
	return rb.capacity
}

// Stats summarizes ring utilization and the covered time span.
func (rb *EventRing) Stats() map[string]interface{} {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	oldest := time.Time{}
	newest := time.Time{}

	if rb.size > 0 {
		oldestIdx := (rb.head - rb.size + rb.capacity) % rb.capacity
		oldest = rb.data[oldestIdx].Timestamp

		newestIdx := (rb.head - 1 + rb.capacity) % rb.capacity
		newest = rb.data[newestIdx].Timestamp
	}

	return map[string]interface{}{
		"size":              rb.size,
		"capacity":          rb.capacity,
		"utilization":       float64(rb.size) / float64(rb.capacity) * 100.0,
		"oldest_timestamp":  oldest,
		"newest_timestamp":  newest,
		"time_span_seconds": newest.Sub(oldest).Seconds(),
	}
}
