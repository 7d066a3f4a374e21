package ratelimit

// memoryEstimatePerEntry is the rough per-client footprint used for the
// global capacity estimate: three window headers plus amortized event
// storage. A planning number, not an accounting one.
const memoryEstimatePerEntry = 512

// ClientStats is a read-only snapshot of one client's quota consumption and
// the limits it is measured against. Taking a snapshot records nothing;
// repeated calls with no intervening checks return identical counts.
type ClientStats struct {
	ClientID string `json:"client_id"`

	RequestsLastMinute int `json:"requests_last_minute"`
	RequestsLastHour   int `json:"requests_last_hour"`
	RequestsLastDay    int `json:"requests_last_day"`

	UploadsLastMinute int `json:"uploads_last_minute"`
	UploadsLastHour   int `json:"uploads_last_hour"`
	UploadsLastDay    int `json:"uploads_last_day"`

	OperationsLastMinute int `json:"operations_last_minute"`
	OperationsLastHour   int `json:"operations_last_hour"`
	OperationsLastDay    int `json:"operations_last_day"`

	BandwidthLastMinute int64 `json:"bandwidth_last_minute_bytes"`
	BandwidthLastHour   int64 `json:"bandwidth_last_hour_bytes"`
	LifetimeUploadBytes int64 `json:"lifetime_upload_bytes"`

	MaxRequestsPerMinute  int   `json:"max_requests_per_minute"`
	MaxRequestsPerHour    int   `json:"max_requests_per_hour"`
	MaxUploadsPerMinute   int   `json:"max_uploads_per_minute"`
	MaxBandwidthPerMinute int64 `json:"max_bandwidth_per_minute_bytes"`
	MaxOperationsPerHour  int   `json:"max_operations_per_hour"`
	MaxDailyOperations    int   `json:"max_daily_operations"`
}

// GlobalStats is a read-only snapshot of the limiter as a whole: map sizes,
// lifetime totals, and an estimated memory footprint for capacity planning.
type GlobalStats struct {
	TrackedRequestClients   int `json:"tracked_request_clients"`
	TrackedUploadClients    int `json:"tracked_upload_clients"`
	TrackedOperationClients int `json:"tracked_operation_clients"`

	TotalRequests    int64 `json:"total_requests"`
	TotalUploads     int64 `json:"total_uploads"`
	TotalOperations  int64 `json:"total_operations"`
	TotalUploadBytes int64 `json:"total_upload_bytes"`
	TotalDenied      int64 `json:"total_denied"`

	EstimatedMemoryBytes int64 `json:"estimated_memory_bytes"`
}

// ClientStats returns the current counts and configured limits for clientID.
// A client the limiter has never seen yields zero counts; no state is
// created by asking.
func (l *Limiter) ClientStats(clientID string) ClientStats {
	now := l.now()
	st := ClientStats{
		ClientID:              clientID,
		MaxRequestsPerMinute:  l.limits.MaxRequestsPerMinute,
		MaxRequestsPerHour:    l.limits.MaxRequestsPerHour,
		MaxUploadsPerMinute:   l.maxUploadsPerMinute(),
		MaxBandwidthPerMinute: maxBandwidthPerMinute,
		MaxOperationsPerHour:  l.maxOperationsPerHour(),
		MaxDailyOperations:    l.limits.MaxDailyOperations,
	}

	if q, ok := l.reg.lookupRequestQuota(clientID); ok {
		st.RequestsLastMinute = q.minute.count(now)
		st.RequestsLastHour = q.hour.count(now)
		st.RequestsLastDay = q.day.count(now)
	}
	if q, ok := l.reg.lookupUploadQuota(clientID); ok {
		st.UploadsLastMinute = q.minute.count(now)
		st.UploadsLastHour = q.hour.count(now)
		st.UploadsLastDay = q.day.count(now)
		st.BandwidthLastMinute = q.bandwidthMinute.sum(now)
		st.BandwidthLastHour = q.bandwidthHour.sum(now)
		st.LifetimeUploadBytes = q.lifetimeBytes.Load()
	}
	if q, ok := l.reg.lookupOperationQuota(clientID); ok {
		st.OperationsLastMinute = q.minute.count(now)
		st.OperationsLastHour = q.hour.count(now)
		st.OperationsLastDay = q.day.count(now)
	}

	return st
}

// GlobalStats returns map sizes and lifetime totals across all clients.
func (l *Limiter) GlobalStats() GlobalStats {
	requests, uploads, operations := l.reg.sizes()
	return GlobalStats{
		TrackedRequestClients:   requests,
		TrackedUploadClients:    uploads,
		TrackedOperationClients: operations,
		TotalRequests:           l.totalRequests.Load(),
		TotalUploads:            l.totalUploads.Load(),
		TotalOperations:         l.totalOperations.Load(),
		TotalUploadBytes:        l.totalUploadBytes.Load(),
		TotalDenied:             l.totalDenied.Load(),
		EstimatedMemoryBytes:    int64(requests+uploads+operations) * memoryEstimatePerEntry,
	}
}
