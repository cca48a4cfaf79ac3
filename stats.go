package match

import "sync/atomic"

// Stats is the only state both threads write. Producer-owned counters and
// matcher-owned counters sit on separate cache lines so neither thread's
// increments steal the other's line. Counters are monotonic, so relaxed
// readers on the reporting side always see a consistent (if slightly
// stale) picture.
type Stats struct {
	_ [CacheLineSize]byte

	// Producer side.
	OrdersReceived     atomic.Uint64
	RingFullCount      atomic.Uint64
	PoolExhaustedCount atomic.Uint64
	_                  [CacheLineSize - 24]byte

	// Matcher side.
	OrdersProcessed atomic.Uint64
	TotalFills      atomic.Uint64
	_               [CacheLineSize - 16]byte

	running atomic.Bool
}

// NewStats returns stats in the running state.
func NewStats() *Stats {
	s := &Stats{}
	s.running.Store(true)
	return s
}

// Running reports whether the engine should keep consuming.
func (s *Stats) Running() bool { return s.running.Load() }

// Stop signals the matcher to drain and exit.
func (s *Stats) Stop() { s.running.Store(false) }

// StatsSnapshot is a point-in-time copy of all counters for reporting.
type StatsSnapshot struct {
	OrdersReceived     uint64
	OrdersProcessed    uint64
	TotalFills         uint64
	RingFullCount      uint64
	PoolExhaustedCount uint64
}

// Snapshot copies every counter.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		OrdersReceived:     s.OrdersReceived.Load(),
		OrdersProcessed:    s.OrdersProcessed.Load(),
		TotalFills:         s.TotalFills.Load(),
		RingFullCount:      s.RingFullCount.Load(),
		PoolExhaustedCount: s.PoolExhaustedCount.Load(),
	}
}
