package ratelimit

import (
	"testing"
	"time"
)

func TestCountWindow_EvictsExpiredOnQuery(t *testing.T) {
	w := newCountWindow(time.Minute)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	w.add(base)
	w.add(base.Add(10 * time.Second))
	w.add(base.Add(30 * time.Second))

	if got := w.count(base.Add(30 * time.Second)); got != 3 {
		t.Errorf("count = %d, want 3", got)
	}

	// 61 seconds after base, the first event has left the window.
	if got := w.count(base.Add(61 * time.Second)); got != 2 {
		t.Errorf("count after partial expiry = %d, want 2", got)
	}

	// Far in the future, everything is gone.
	if got := w.count(base.Add(time.Hour)); got != 0 {
		t.Errorf("count after full expiry = %d, want 0", got)
	}
}

func TestCountWindow_BoundaryIsInclusiveEviction(t *testing.T) {
	w := newCountWindow(time.Minute)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	w.add(base)

	// An event exactly windowSize old (timestamp == now - window) is evicted.
	if got := w.count(base.Add(time.Minute)); got != 0 {
		t.Errorf("count at exact boundary = %d, want 0", got)
	}
}

func TestCountWindow_NoRetainedExpiredEntries(t *testing.T) {
	w := newCountWindow(time.Minute)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 100; i++ {
		w.add(base.Add(time.Duration(i) * time.Second))
	}

	now := base.Add(90 * time.Second)
	w.count(now)

	// After a query, no retained entry may be at or past the cutoff.
	cutoff := now.Add(-time.Minute)
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ts := range w.events {
		if !ts.After(cutoff) {
			t.Errorf("retained event %v is not after cutoff %v", ts, cutoff)
		}
	}
}

func TestCountWindow_AddN(t *testing.T) {
	w := newCountWindow(time.Minute)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	w.addN(3, base)
	if got := w.count(base); got != 3 {
		t.Errorf("count = %d, want 3", got)
	}
}

func TestWeightWindow_SumAndEviction(t *testing.T) {
	w := newWeightWindow(time.Minute)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	w.add(1000, base)
	w.add(2000, base.Add(30*time.Second))

	if got := w.sum(base.Add(30 * time.Second)); got != 3000 {
		t.Errorf("sum = %d, want 3000", got)
	}

	// First event expires, second remains.
	if got := w.sum(base.Add(75 * time.Second)); got != 2000 {
		t.Errorf("sum after partial expiry = %d, want 2000", got)
	}

	if got := w.sum(base.Add(2 * time.Hour)); got != 0 {
		t.Errorf("sum after full expiry = %d, want 0", got)
	}
}

func TestWeightWindow_EmptyIsZero(t *testing.T) {
	w := newWeightWindow(time.Hour)
	if got := w.sum(time.Now()); got != 0 {
		t.Errorf("sum of empty window = %d, want 0", got)
	}
}
