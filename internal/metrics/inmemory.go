package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	PlatesCreated          uint64
	PlateCacheHits         uint64
	PlateCacheMisses       uint64
	SearchCount            uint64
	SearchDurationTotalNs  int64
	LoginSuccess           uint64
	LoginFailed            uint64
	Signups                uint64
	TokenRefreshes         uint64
	ActivityPublished      uint64
	ActivityDropped        uint64
	ActivityProcessed      uint64
	ActivityFailed         uint64
	ActivityBatchSizeTotal uint64
	ActivityQueueDepth     int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	platesCreated          uint64
	plateCacheHits         uint64
	plateCacheMisses       uint64
	searchCount            uint64
	searchDurationTotalNs  int64
	loginSuccess           uint64
	loginFailed            uint64
	signups                uint64
	tokenRefreshes         uint64
	activityPublished      uint64
	activityDropped        uint64
	activityProcessed      uint64
	activityFailed         uint64
	activityBatchSizeTotal uint64
	activityQueueDepth     int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		PlatesCreated:          atomic.LoadUint64(&m.platesCreated),
		PlateCacheHits:         atomic.LoadUint64(&m.plateCacheHits),
		PlateCacheMisses:       atomic.LoadUint64(&m.plateCacheMisses),
		SearchCount:            atomic.LoadUint64(&m.searchCount),
		SearchDurationTotalNs:  atomic.LoadInt64(&m.searchDurationTotalNs),
		LoginSuccess:           atomic.LoadUint64(&m.loginSuccess),
		LoginFailed:            atomic.LoadUint64(&m.loginFailed),
		Signups:                atomic.LoadUint64(&m.signups),
		TokenRefreshes:         atomic.LoadUint64(&m.tokenRefreshes),
		ActivityPublished:      atomic.LoadUint64(&m.activityPublished),
		ActivityDropped:        atomic.LoadUint64(&m.activityDropped),
		ActivityProcessed:      atomic.LoadUint64(&m.activityProcessed),
		ActivityFailed:         atomic.LoadUint64(&m.activityFailed),
		ActivityBatchSizeTotal: atomic.LoadUint64(&m.activityBatchSizeTotal),
		ActivityQueueDepth:     atomic.LoadInt64(&m.activityQueueDepth),
	}
}

func (m *InMemoryRecorder) IncPlateCreated() {
	atomic.AddUint64(&m.platesCreated, 1)
}

func (m *InMemoryRecorder) IncPlateCacheHit() {
	atomic.AddUint64(&m.plateCacheHits, 1)
}

func (m *InMemoryRecorder) IncPlateCacheMiss() {
	atomic.AddUint64(&m.plateCacheMisses, 1)
}

func (m *InMemoryRecorder) ObserveSearchDuration(duration time.Duration) {
	atomic.AddUint64(&m.searchCount, 1)
	atomic.AddInt64(&m.searchDurationTotalNs, duration.Nanoseconds())
}

func (m *InMemoryRecorder) IncLogin(status string) {
	if status == "success" {
		atomic.AddUint64(&m.loginSuccess, 1)
		return
	}
	atomic.AddUint64(&m.loginFailed, 1)
}

func (m *InMemoryRecorder) IncSignup() {
	atomic.AddUint64(&m.signups, 1)
}

func (m *InMemoryRecorder) IncTokenRefresh() {
	atomic.AddUint64(&m.tokenRefreshes, 1)
}

func (m *InMemoryRecorder) IncActivityEventPublished(status string) {
	if status == "success" {
		atomic.AddUint64(&m.activityPublished, 1)
		return
	}
	atomic.AddUint64(&m.activityDropped, 1)
}

func (m *InMemoryRecorder) IncActivityEventProcessed(status string) {
	if status == "success" {
		atomic.AddUint64(&m.activityProcessed, 1)
		return
	}
	atomic.AddUint64(&m.activityFailed, 1)
}

func (m *InMemoryRecorder) ObserveActivityBatchSize(size int) {
	atomic.AddUint64(&m.activityBatchSizeTotal, uint64(size))
}

func (m *InMemoryRecorder) SetActivityQueueDepth(depth int64) {
	atomic.StoreInt64(&m.activityQueueDepth, depth)
}
