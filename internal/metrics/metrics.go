// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Plate metrics
	IncPlateCreated()
	IncPlateCacheHit()
	IncPlateCacheMiss()
	ObserveSearchDuration(duration time.Duration)

	// Auth metrics
	IncLogin(status string) // status: "success" or "failed"
	IncSignup()
	IncTokenRefresh()

	// Activity pipeline metrics
	IncActivityEventPublished(status string) // status: "success" or "dropped"
	IncActivityEventProcessed(status string) // status: "success", "failed", "skipped"
	ObserveActivityBatchSize(size int)
	SetActivityQueueDepth(depth int64)
}
