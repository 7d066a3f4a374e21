package ratelimit

import (
	"testing"
	"time"
)

func TestClientStats_Idempotent(t *testing.T) {
	l, _ := newTestLimiter(Limits{
		MaxRequestsPerMinute: 60,
		MaxRequestsPerHour:   1000,
		MaxDailyOperations:   1200,
	})

	l.CheckRequest("c")
	l.CheckUpload("c", 5<<20)
	l.CheckOperation("c", "ocr")

	first := l.ClientStats("c")
	second := l.ClientStats("c")
	if first != second {
		t.Errorf("stats changed between calls with no intervening checks:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}

func TestClientStats_UnknownClientIsZero(t *testing.T) {
	l, _ := newTestLimiter(Limits{
		MaxRequestsPerMinute: 60,
		MaxRequestsPerHour:   1000,
		MaxDailyOperations:   1200,
	})

	st := l.ClientStats("never-seen")
	if st.RequestsLastMinute != 0 || st.UploadsLastDay != 0 || st.OperationsLastHour != 0 {
		t.Errorf("unknown client has non-zero counts: %+v", st)
	}
	// Asking must not create state.
	requests, uploads, operations := l.reg.sizes()
	if requests+uploads+operations != 0 {
		t.Errorf("stats lookup created state: sizes %d/%d/%d", requests, uploads, operations)
	}
}

func TestClientStats_CarriesConfiguredAndDerivedLimits(t *testing.T) {
	l, _ := newTestLimiter(Limits{
		MaxRequestsPerMinute: 60,
		MaxRequestsPerHour:   1000,
		MaxDailyOperations:   1200,
	})

	st := l.ClientStats("c")
	if st.MaxRequestsPerMinute != 60 {
		t.Errorf("maxRequestsPerMinute = %d, want 60", st.MaxRequestsPerMinute)
	}
	if st.MaxUploadsPerMinute != 30 {
		t.Errorf("maxUploadsPerMinute = %d, want 30 (derived)", st.MaxUploadsPerMinute)
	}
	if st.MaxBandwidthPerMinute != 50<<20 {
		t.Errorf("maxBandwidthPerMinute = %d, want %d", st.MaxBandwidthPerMinute, int64(50<<20))
	}
	if st.MaxOperationsPerHour != 100 {
		t.Errorf("maxOperationsPerHour = %d, want 100 (derived)", st.MaxOperationsPerHour)
	}
}

func TestGlobalStats_Totals(t *testing.T) {
	l, _ := newTestLimiter(Limits{
		MaxRequestsPerMinute: 2,
		MaxRequestsPerHour:   1000,
		MaxDailyOperations:   1200,
	})

	l.CheckRequest("a")
	l.CheckRequest("a")
	l.CheckRequest("a") // denied
	l.CheckRequest("b")
	l.CheckUpload("a", 5<<20)
	l.CheckOperation("b", "ocr")

	st := l.GlobalStats()
	if st.TotalRequests != 3 {
		t.Errorf("totalRequests = %d, want 3", st.TotalRequests)
	}
	if st.TotalDenied != 1 {
		t.Errorf("totalDenied = %d, want 1", st.TotalDenied)
	}
	if st.TotalUploads != 1 {
		t.Errorf("totalUploads = %d, want 1", st.TotalUploads)
	}
	if st.TotalOperations != 1 {
		t.Errorf("totalOperations = %d, want 1", st.TotalOperations)
	}
	if st.TotalUploadBytes != 5<<20 {
		t.Errorf("totalUploadBytes = %d, want %d", st.TotalUploadBytes, int64(5<<20))
	}
	if st.TrackedRequestClients != 2 {
		t.Errorf("trackedRequestClients = %d, want 2", st.TrackedRequestClients)
	}
	if st.TrackedUploadClients != 1 {
		t.Errorf("trackedUploadClients = %d, want 1", st.TrackedUploadClients)
	}

	wantMem := int64(2+1+1) * memoryEstimatePerEntry
	if st.EstimatedMemoryBytes != wantMem {
		t.Errorf("estimatedMemoryBytes = %d, want %d", st.EstimatedMemoryBytes, wantMem)
	}
}

func TestBandwidthLifetimeTotalNeverResets(t *testing.T) {
	l, clk := newTestLimiter(Limits{
		MaxRequestsPerMinute: 60,
		MaxRequestsPerHour:   1000,
		MaxDailyOperations:   1200,
	})

	l.CheckUpload("c", 5<<20)
	clk.Advance(2 * time.Hour) // both bandwidth windows have rolled over

	st := l.ClientStats("c")
	if st.BandwidthLastHour != 0 {
		t.Errorf("bandwidth last hour = %d, want 0 after rollover", st.BandwidthLastHour)
	}
	if st.LifetimeUploadBytes != 5<<20 {
		t.Errorf("lifetime bytes = %d, want %d (must survive window rollover)", st.LifetimeUploadBytes, int64(5<<20))
	}
}
