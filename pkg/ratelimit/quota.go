package ratelimit

import (
	"sync/atomic"
	"time"
)

// Window sizes for the quota tiers.
const (
	minuteWindow = time.Minute
	hourWindow   = time.Hour
	dayWindow    = 24 * time.Hour
)

// requestQuota tracks one client's request counts at minute, hour, and day
// granularity. All three windows reflect the same event stream restricted to
// their own duration.
type requestQuota struct {
	createdAt time.Time
	minute    *countWindow
	hour      *countWindow
	day       *countWindow
}

func newRequestQuota(now time.Time) *requestQuota {
	return &requestQuota{
		createdAt: now,
		minute:    newCountWindow(minuteWindow),
		hour:      newCountWindow(hourWindow),
		day:       newCountWindow(dayWindow),
	}
}

// record adds one request event to all three windows.
func (q *requestQuota) record(now time.Time) {
	q.minute.add(now)
	q.hour.add(now)
	q.day.add(now)
}

// uploadQuota tracks one client's upload units (count windows) alongside the
// bandwidth budget (weight windows) and a lifetime byte total. Uploads and
// bandwidth share one entry because every allowed upload mutates both.
type uploadQuota struct {
	createdAt time.Time
	minute    *countWindow
	hour      *countWindow
	day       *countWindow

	bandwidthMinute *weightWindow
	bandwidthHour   *weightWindow

	// lifetimeBytes only ever grows; it is never reset by eviction.
	lifetimeBytes atomic.Int64
}

func newUploadQuota(now time.Time) *uploadQuota {
	return &uploadQuota{
		createdAt:       now,
		minute:          newCountWindow(minuteWindow),
		hour:            newCountWindow(hourWindow),
		day:             newCountWindow(dayWindow),
		bandwidthMinute: newWeightWindow(minuteWindow),
		bandwidthHour:   newWeightWindow(hourWindow),
	}
}

// record adds units upload events and sizeBytes of bandwidth weight.
func (q *uploadQuota) record(units int, sizeBytes int64, now time.Time) {
	q.minute.addN(units, now)
	q.hour.addN(units, now)
	q.day.addN(units, now)
	q.bandwidthMinute.add(sizeBytes, now)
	q.bandwidthHour.add(sizeBytes, now)
	q.lifetimeBytes.Add(sizeBytes)
}

// operationQuota tracks one client's logical document operations. All
// operation types share the same budget; the type is diagnostic only.
type operationQuota struct {
	createdAt time.Time
	minute    *countWindow
	hour      *countWindow
	day       *countWindow
}

func newOperationQuota(now time.Time) *operationQuota {
	return &operationQuota{
		createdAt: now,
		minute:    newCountWindow(minuteWindow),
		hour:      newCountWindow(hourWindow),
		day:       newCountWindow(dayWindow),
	}
}

// record adds one operation event to all three windows.
func (q *operationQuota) record(now time.Time) {
	q.minute.add(now)
	q.hour.add(now)
	q.day.add(now)
}
