package ratelimit

import (
	"sync"
	"time"
)

// registry holds the three client-id → quota maps. Lookup-or-create is
// atomic per map: concurrent calls for the same unseen client always observe
// the same quota instance.
type registry struct {
	mu         sync.RWMutex
	requests   map[string]*requestQuota
	uploads    map[string]*uploadQuota
	operations map[string]*operationQuota
}

func newRegistry() *registry {
	return &registry{
		requests:   make(map[string]*requestQuota),
		uploads:    make(map[string]*uploadQuota),
		operations: make(map[string]*operationQuota),
	}
}

// requestQuotaFor returns the client's request quota, creating it on first sight.
func (r *registry) requestQuotaFor(clientID string, now time.Time) *requestQuota {
	r.mu.RLock()
	q, ok := r.requests[clientID]
	r.mu.RUnlock()
	if ok {
		return q
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if q, ok := r.requests[clientID]; ok {
		return q
	}
	q = newRequestQuota(now)
	r.requests[clientID] = q
	return q
}

// uploadQuotaFor returns the client's upload quota, creating it on first sight.
func (r *registry) uploadQuotaFor(clientID string, now time.Time) *uploadQuota {
	r.mu.RLock()
	q, ok := r.uploads[clientID]
	r.mu.RUnlock()
	if ok {
		return q
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if q, ok := r.uploads[clientID]; ok {
		return q
	}
	q = newUploadQuota(now)
	r.uploads[clientID] = q
	return q
}

// operationQuotaFor returns the client's operation quota, creating it on first sight.
func (r *registry) operationQuotaFor(clientID string, now time.Time) *operationQuota {
	r.mu.RLock()
	q, ok := r.operations[clientID]
	r.mu.RUnlock()
	if ok {
		return q
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if q, ok := r.operations[clientID]; ok {
		return q
	}
	q = newOperationQuota(now)
	r.operations[clientID] = q
	return q
}

// lookupRequestQuota returns the client's request quota without creating one.
func (r *registry) lookupRequestQuota(clientID string) (*requestQuota, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.requests[clientID]
	return q, ok
}

// lookupUploadQuota returns the client's upload quota without creating one.
func (r *registry) lookupUploadQuota(clientID string) (*uploadQuota, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.uploads[clientID]
	return q, ok
}

// lookupOperationQuota returns the client's operation quota without creating one.
func (r *registry) lookupOperationQuota(clientID string) (*operationQuota, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.operations[clientID]
	return q, ok
}

// sizes returns the current entry count of each map.
func (r *registry) sizes() (requests, uploads, operations int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.requests), len(r.uploads), len(r.operations)
}
