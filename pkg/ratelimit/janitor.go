package ratelimit

import (
	"log/slog"
	"sort"
	"time"

	"github.com/docmill/docmill/pkg/observability"
)

// Default janitor settings, matching the reference configuration.
const (
	DefaultCleanupInterval   = 15 * time.Minute
	DefaultMaxTrackedClients = 10_000

	// idleAge is how old an entry must be before the idle rule can remove it.
	idleAge = 24 * time.Hour
)

// Janitor periodically sweeps the limiter's client maps to keep memory
// bounded. Each of the three quota maps is swept independently: an entry is
// removed when it is older than 24 hours AND its day window is empty. The
// request map is additionally hard-capped; above the cap, entries are
// evicted oldest-created first.
//
// Capacity eviction goes by creation time, not activity, so it can remove an
// old-but-active client while keeping a newer idle one. That matches the
// deployed behavior and is kept deliberately.
type Janitor struct {
	limiter    *Limiter
	interval   time.Duration
	maxTracked int
	logger     *slog.Logger

	stop chan struct{}
	done chan struct{}
}

// NewJanitor creates a janitor for l. Non-positive interval or maxTracked
// fall back to the defaults. A nil logger falls back to slog.Default().
func NewJanitor(l *Limiter, interval time.Duration, maxTracked int, logger *slog.Logger) *Janitor {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	if maxTracked <= 0 {
		maxTracked = DefaultMaxTrackedClients
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Janitor{
		limiter:    l,
		interval:   interval,
		maxTracked: maxTracked,
		logger:     logger,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start launches the periodic sweep goroutine. Call Stop to halt it.
func (j *Janitor) Start() {
	go func() {
		defer close(j.done)
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				j.Sweep()
			case <-j.stop:
				return
			}
		}
	}()
}

// Stop halts the sweep goroutine and waits for it to exit.
func (j *Janitor) Stop() {
	close(j.stop)
	<-j.done
}

// Sweep runs one cleanup pass and returns the number of evicted entries.
// It is called on the janitor's timer and may also be invoked directly.
func (j *Janitor) Sweep() int {
	now := j.limiter.now()
	reg := j.limiter.reg

	evicted := j.sweepIdle(reg, now)
	evicted += j.enforceCap(reg)

	requests, uploads, operations := reg.sizes()
	observability.JanitorSweepsTotal.Inc()
	observability.TrackedClients.WithLabelValues("request").Set(float64(requests))
	observability.TrackedClients.WithLabelValues("upload").Set(float64(uploads))
	observability.TrackedClients.WithLabelValues("operation").Set(float64(operations))

	j.logger.Debug("janitor sweep complete",
		"evicted", evicted,
		"request_clients", requests,
		"upload_clients", uploads,
		"operation_clients", operations,
	)
	return evicted
}

// sweepIdle applies the idleness rule to all three maps: age over 24h and an
// empty day window. An entry that cannot be evaluated is skipped and logged,
// never aborting the sweep.
func (j *Janitor) sweepIdle(reg *registry, now time.Time) int {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	evicted := 0
	for id, q := range reg.requests {
		if q == nil {
			j.logger.Warn("skipping unevaluable request quota entry", "client_id", id)
			continue
		}
		if now.Sub(q.createdAt) > idleAge && q.day.count(now) == 0 {
			delete(reg.requests, id)
			evicted++
		}
	}
	for id, q := range reg.uploads {
		if q == nil {
			j.logger.Warn("skipping unevaluable upload quota entry", "client_id", id)
			continue
		}
		if now.Sub(q.createdAt) > idleAge && q.day.count(now) == 0 {
			delete(reg.uploads, id)
			evicted++
		}
	}
	for id, q := range reg.operations {
		if q == nil {
			j.logger.Warn("skipping unevaluable operation quota entry", "client_id", id)
			continue
		}
		if now.Sub(q.createdAt) > idleAge && q.day.count(now) == 0 {
			delete(reg.operations, id)
			evicted++
		}
	}

	if evicted > 0 {
		observability.JanitorEvictionsTotal.WithLabelValues("idle").Add(float64(evicted))
	}
	return evicted
}

// enforceCap trims the request map back to maxTracked entries, dropping the
// oldest-created entries first regardless of their activity.
func (j *Janitor) enforceCap(reg *registry) int {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	excess := len(reg.requests) - j.maxTracked
	if excess <= 0 {
		return 0
	}

	type aged struct {
		id        string
		createdAt time.Time
	}
	entries := make([]aged, 0, len(reg.requests))
	for id, q := range reg.requests {
		entries = append(entries, aged{id: id, createdAt: q.createdAt})
	}
	sort.Slice(entries, func(a, b int) bool {
		return entries[a].createdAt.Before(entries[b].createdAt)
	})

	for _, e := range entries[:excess] {
		delete(reg.requests, e.id)
	}

	observability.JanitorEvictionsTotal.WithLabelValues("capacity").Add(float64(excess))
	j.logger.Info("request quota map over capacity, evicted oldest entries",
		"evicted", excess, "cap", j.maxTracked)
	return excess
}
