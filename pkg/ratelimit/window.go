package ratelimit

import (
	"sync"
	"time"
)

// countWindow tracks unit events over a trailing time window. It is a
// sliding log: each event's timestamp is retained and expired entries are
// evicted lazily on every query, giving exact counts at O(events in window)
// per call.
//
// All methods are safe for concurrent use; a query never observes a
// partially evicted log.
type countWindow struct {
	mu     sync.Mutex
	window time.Duration
	events []time.Time
}

func newCountWindow(window time.Duration) *countWindow {
	return &countWindow{window: window}
}

// add records a single event at the given time.
func (w *countWindow) add(now time.Time) {
	w.addN(1, now)
}

// addN records n events at the given time.
func (w *countWindow) addN(n int, now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := 0; i < n; i++ {
		w.events = append(w.events, now)
	}
}

// count evicts expired events and returns the number remaining in the window.
func (w *countWindow) count(now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.evict(now)
	return len(w.events)
}

// evict drops every event with timestamp <= now - window.
// Must be called with w.mu held.
func (w *countWindow) evict(now time.Time) {
	cutoff := now.Add(-w.window)
	kept := w.events[:0]
	for _, ts := range w.events {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	w.events = kept
}

// weightedEvent is one byte-weighted entry in a weightWindow.
type weightedEvent struct {
	at    time.Time
	bytes int64
}

// weightWindow tracks byte-weighted events over a trailing time window.
// It shares the sliding-log eviction policy with countWindow but stores
// explicit weights, keeping byte quantities out of the count log.
type weightWindow struct {
	mu     sync.Mutex
	window time.Duration
	events []weightedEvent
}

func newWeightWindow(window time.Duration) *weightWindow {
	return &weightWindow{window: window}
}

// add records bytes of weight at the given time.
func (w *weightWindow) add(bytes int64, now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, weightedEvent{at: now, bytes: bytes})
}

// sum evicts expired events and returns the total weight remaining in the window.
func (w *weightWindow) sum(now time.Time) int64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := now.Add(-w.window)
	kept := w.events[:0]
	var total int64
	for _, ev := range w.events {
		if ev.at.After(cutoff) {
			kept = append(kept, ev)
			total += ev.bytes
		}
	}
	w.events = kept
	return total
}
