package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestInMemoryRecorder(t *testing.T) {
	m := NewInMemory()

	m.IncPlateCreated()
	m.IncPlateCreated()
	m.IncPlateCacheHit()
	m.IncPlateCacheMiss()
	m.ObserveSearchDuration(5 * time.Millisecond)
	m.IncLogin("success")
	m.IncLogin("failed")
	m.IncSignup()
	m.IncTokenRefresh()
	m.IncActivityEventPublished("success")
	m.IncActivityEventPublished("dropped")
	m.IncActivityEventProcessed("success")
	m.IncActivityEventProcessed("failed")
	m.ObserveActivityBatchSize(100)
	m.SetActivityQueueDepth(42)

	snap := m.Snapshot()

	if snap.PlatesCreated != 2 {
		t.Errorf("PlatesCreated = %d, want 2", snap.PlatesCreated)
	}
	if snap.PlateCacheHits != 1 || snap.PlateCacheMisses != 1 {
		t.Errorf("cache hits/misses = %d/%d, want 1/1", snap.PlateCacheHits, snap.PlateCacheMisses)
	}
	if snap.SearchCount != 1 || snap.SearchDurationTotalNs == 0 {
		t.Errorf("search count/duration = %d/%d", snap.SearchCount, snap.SearchDurationTotalNs)
	}
	if snap.LoginSuccess != 1 || snap.LoginFailed != 1 {
		t.Errorf("logins = %d/%d, want 1/1", snap.LoginSuccess, snap.LoginFailed)
	}
	if snap.Signups != 1 || snap.TokenRefreshes != 1 {
		t.Errorf("signups/refreshes = %d/%d", snap.Signups, snap.TokenRefreshes)
	}
	if snap.ActivityPublished != 1 || snap.ActivityDropped != 1 {
		t.Errorf("published/dropped = %d/%d", snap.ActivityPublished, snap.ActivityDropped)
	}
	if snap.ActivityProcessed != 1 || snap.ActivityFailed != 1 {
		t.Errorf("processed/failed = %d/%d", snap.ActivityProcessed, snap.ActivityFailed)
	}
	if snap.ActivityBatchSizeTotal != 100 {
		t.Errorf("batch size total = %d, want 100", snap.ActivityBatchSizeTotal)
	}
	if snap.ActivityQueueDepth != 42 {
		t.Errorf("queue depth = %d, want 42", snap.ActivityQueueDepth)
	}
}

func TestInMemoryRecorder_Concurrent(t *testing.T) {
	m := NewInMemory()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.IncPlateCreated()
			}
		}()
	}
	wg.Wait()

	if got := m.Snapshot().PlatesCreated; got != 1000 {
		t.Errorf("PlatesCreated = %d, want 1000", got)
	}
}

func TestNoopSatisfiesRecorder(t *testing.T) {
	var _ Recorder = NewNoop()
	var _ Recorder = NewInMemory()
}
