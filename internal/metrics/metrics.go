package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Geocode counts address lookups by outcome.
type Geocode struct {
	CacheHits Counter
	Resolved  Counter
	Failed    Counter
}

type GeocodeSnapshot struct {
	CacheHits uint64 `json:"cacheHits"`
	Resolved  uint64 `json:"resolved"`
	Failed    uint64 `json:"failed"`
}

func (g *Geocode) Snapshot() GeocodeSnapshot {
	return GeocodeSnapshot{
		CacheHits: g.CacheHits.Load(),
		Resolved:  g.Resolved.Load(),
		Failed:    g.Failed.Load(),
	}
}

// Search tracks nearby-store passes and their cumulative wall time.
type Search struct {
	Passes  Counter
	totalNs Counter
}

func (s *Search) Observe(d time.Duration) {
	s.Passes.Inc()
	if d > 0 {
		s.totalNs.Add(uint64(d))
	}
}

// Average is zero until the first pass is observed.
func (s *Search) Average() time.Duration {
	n := s.Passes.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(s.totalNs.Load() / n)
}
