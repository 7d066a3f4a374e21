package ratelimit

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/docmill/docmill/pkg/observability"
)

// LimitType identifies which quota tier produced a verdict.
type LimitType string

const (
	LimitRequestRate   LimitType = "request_rate"
	LimitUploadRate    LimitType = "upload_rate"
	LimitBandwidth     LimitType = "bandwidth_rate"
	LimitOperationRate LimitType = "operation_rate"
)

const (
	// maxBandwidthPerMinute is the fixed per-client upload bandwidth budget.
	maxBandwidthPerMinute = 50 << 20 // 50 MiB

	// uploadUnitBytes is the size of one upload quota unit. Any upload
	// costs at least one unit; a 25 MiB upload costs two.
	uploadUnitBytes = 10 << 20 // 10 MiB
)

// Limits holds the configured thresholds. The per-minute upload cap, the
// bandwidth cap, and the hourly operation cap are derived from these, not
// configured, so the tiers stay internally consistent.
type Limits struct {
	MaxRequestsPerMinute int
	MaxRequestsPerHour   int
	MaxDailyOperations   int
}

// Status is the transient verdict of a single admission check. It is
// produced fresh by every check call and never stored.
type Status struct {
	Allowed      bool
	Limit        LimitType
	CurrentCount int64
	MaxAllowed   int64
	ResetSeconds int64
	Message      string
}

// Limiter is the admission-control service: per-client sliding-window quota
// state plus the check/record decision logic. Construct one at startup and
// inject it wherever enforcement is needed; it holds no process-wide state.
//
// The check functions return Status values and never error. The multi-step
// check-then-record sequence is not atomic across concurrent callers for the
// same client, so the nominal limits can be exceeded by roughly the
// concurrency degree in the worst case. That slack is intended.
type Limiter struct {
	limits Limits
	logger *slog.Logger
	reg    *registry

	// now is the time source; replaced in tests.
	now func() time.Time

	// Lifetime process-wide totals, reported by GlobalStats.
	totalRequests    atomic.Int64
	totalUploads     atomic.Int64
	totalOperations  atomic.Int64
	totalUploadBytes atomic.Int64
	totalDenied      atomic.Int64
}

// New creates a Limiter with the given thresholds. A nil logger falls back
// to slog.Default().
func New(limits Limits, logger *slog.Logger) *Limiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Limiter{
		limits: limits,
		logger: logger,
		reg:    newRegistry(),
		now:    time.Now,
	}
}

// maxUploadsPerMinute derives the upload unit cap from the request cap.
func (l *Limiter) maxUploadsPerMinute() int {
	return l.limits.MaxRequestsPerMinute / 2
}

// maxOperationsPerHour derives the hourly operation cap from the daily one.
func (l *Limiter) maxOperationsPerHour() int {
	return l.limits.MaxDailyOperations / 12
}

// CheckRequest runs the request-rate admission for clientID: minute tier
// first, then hour tier. An event is recorded into all request windows only
// when the verdict is allow.
func (l *Limiter) CheckRequest(clientID string) Status {
	now := l.now()
	q := l.reg.requestQuotaFor(clientID, now)

	minuteCount := q.minute.count(now)
	if minuteCount >= l.limits.MaxRequestsPerMinute {
		return l.deny(clientID, Status{
			Limit:        LimitRequestRate,
			CurrentCount: int64(minuteCount),
			MaxAllowed:   int64(l.limits.MaxRequestsPerMinute),
			ResetSeconds: minuteResetSeconds(now),
			Message:      "request rate limit exceeded (per minute)",
		})
	}

	hourCount := q.hour.count(now)
	if hourCount >= l.limits.MaxRequestsPerHour {
		return l.deny(clientID, Status{
			Limit:        LimitRequestRate,
			CurrentCount: int64(hourCount),
			MaxAllowed:   int64(l.limits.MaxRequestsPerHour),
			ResetSeconds: hourResetSeconds(now),
			Message:      "request rate limit exceeded (per hour)",
		})
	}

	q.record(now)
	l.totalRequests.Add(1)
	observability.RateLimitChecksTotal.WithLabelValues("request", "allowed").Inc()

	return Status{
		Allowed:      true,
		Limit:        LimitRequestRate,
		CurrentCount: int64(minuteCount + 1),
		MaxAllowed:   int64(l.limits.MaxRequestsPerMinute),
	}
}

// uploadUnits converts an upload size to quota units: one unit per started
// 10 MiB, minimum one.
func uploadUnits(sizeBytes int64) int {
	units := int(sizeBytes / uploadUnitBytes)
	if units < 1 {
		units = 1
	}
	return units
}

// CheckUpload runs the upload-rate and bandwidth admission for clientID.
// The size is charged in quota units (see uploadUnits). A denial records
// nothing: neither the unit windows nor the bandwidth windows move.
func (l *Limiter) CheckUpload(clientID string, sizeBytes int64) Status {
	now := l.now()
	q := l.reg.uploadQuotaFor(clientID, now)
	units := uploadUnits(sizeBytes)

	minuteUploads := q.minute.count(now)
	if minuteUploads+units > l.maxUploadsPerMinute() {
		return l.deny(clientID, Status{
			Limit:        LimitUploadRate,
			CurrentCount: int64(minuteUploads),
			MaxAllowed:   int64(l.maxUploadsPerMinute()),
			ResetSeconds: minuteResetSeconds(now),
			Message:      "upload rate limit exceeded (per minute)",
		})
	}

	minuteBandwidth := q.bandwidthMinute.sum(now)
	if minuteBandwidth+sizeBytes > maxBandwidthPerMinute {
		return l.deny(clientID, Status{
			Limit:        LimitBandwidth,
			CurrentCount: minuteBandwidth,
			MaxAllowed:   maxBandwidthPerMinute,
			ResetSeconds: minuteResetSeconds(now),
			Message:      "bandwidth limit exceeded (per minute)",
		})
	}

	q.record(units, sizeBytes, now)
	l.totalUploads.Add(1)
	l.totalUploadBytes.Add(sizeBytes)
	observability.RateLimitChecksTotal.WithLabelValues("upload", "allowed").Inc()
	observability.UploadBytesTotal.Add(float64(sizeBytes))

	return Status{
		Allowed:      true,
		Limit:        LimitUploadRate,
		CurrentCount: int64(minuteUploads + units),
		MaxAllowed:   int64(l.maxUploadsPerMinute()),
	}
}

// CheckOperation runs the daily/hourly operation admission for clientID.
// opType is diagnostic only; every operation type draws from the same
// per-client budget.
func (l *Limiter) CheckOperation(clientID, opType string) Status {
	now := l.now()
	q := l.reg.operationQuotaFor(clientID, now)

	dailyOps := q.day.count(now)
	if dailyOps >= l.limits.MaxDailyOperations {
		l.logger.Debug("daily operation budget exhausted",
			"client_id", clientID, "operation", opType)
		return l.deny(clientID, Status{
			Limit:        LimitOperationRate,
			CurrentCount: int64(dailyOps),
			MaxAllowed:   int64(l.limits.MaxDailyOperations),
			ResetSeconds: dayResetSeconds(now),
			Message:      "operation limit exceeded (per day)",
		})
	}

	hourlyOps := q.hour.count(now)
	if hourlyOps >= l.maxOperationsPerHour() {
		l.logger.Debug("hourly operation budget exhausted",
			"client_id", clientID, "operation", opType)
		return l.deny(clientID, Status{
			Limit:        LimitOperationRate,
			CurrentCount: int64(hourlyOps),
			MaxAllowed:   int64(l.maxOperationsPerHour()),
			ResetSeconds: hourResetSeconds(now),
			Message:      "operation limit exceeded (per hour)",
		})
	}

	q.record(now)
	l.totalOperations.Add(1)
	observability.RateLimitChecksTotal.WithLabelValues("operation", "allowed").Inc()

	return Status{
		Allowed:      true,
		Limit:        LimitOperationRate,
		CurrentCount: int64(dailyOps + 1),
		MaxAllowed:   int64(l.limits.MaxDailyOperations),
	}
}

// deny finalizes a denied status: bumps counters and returns it.
func (l *Limiter) deny(clientID string, st Status) Status {
	st.Allowed = false
	l.totalDenied.Add(1)
	check := checkFamily(st.Limit)
	observability.RateLimitChecksTotal.WithLabelValues(check, "denied").Inc()
	observability.RateLimitRejectedTotal.WithLabelValues(string(st.Limit)).Inc()
	return st
}

func checkFamily(lt LimitType) string {
	switch lt {
	case LimitUploadRate, LimitBandwidth:
		return "upload"
	case LimitOperationRate:
		return "operation"
	default:
		return "request"
	}
}

// minuteResetSeconds returns seconds until the current clock minute rolls over.
func minuteResetSeconds(now time.Time) int64 {
	return 60 - (now.UnixMilli()%60_000)/1000
}

// hourResetSeconds returns seconds until the current clock hour rolls over.
func hourResetSeconds(now time.Time) int64 {
	return 3600 - (now.UnixMilli()%3_600_000)/1000
}

// dayResetSeconds returns seconds until the next UTC midnight.
func dayResetSeconds(now time.Time) int64 {
	utc := now.UTC()
	midnight := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
	return int64(midnight.Sub(utc) / time.Second)
}
