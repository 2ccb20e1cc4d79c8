package metrics

import "time"

// Noop is a Recorder that discards all events.
// Used when instrumentation is not wired up.
type Noop struct{}

// NewNoop creates a no-op metrics recorder.
func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) IncPlateCreated()                    {}
func (n *Noop) IncPlateCacheHit()                   {}
func (n *Noop) IncPlateCacheMiss()                  {}
func (n *Noop) ObserveSearchDuration(time.Duration) {}
func (n *Noop) IncLogin(string)                     {}
func (n *Noop) IncSignup()                          {}
func (n *Noop) IncTokenRefresh()                    {}
func (n *Noop) IncActivityEventPublished(string)    {}
func (n *Noop) IncActivityEventProcessed(string)    {}
func (n *Noop) ObserveActivityBatchSize(int)        {}
func (n *Noop) SetActivityQueueDepth(int64)         {}
