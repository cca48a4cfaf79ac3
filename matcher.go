package match

import (
	"go.uber.org/zap"

	"github.com/velostream/hypermatch/platform"
	"github.com/velostream/hypermatch/structure"
)

// Matcher is the consumer side of the engine: a single goroutine pinned to
// a dedicated core, busy-spinning on the ring. No yields, no sleeps, no
// blocking calls; with a reserved core the pop-to-dispatch path stays in
// cache end to end.
//
// Submissions are processed in strict producer order regardless of type.
// Spent market orders go out through the retire ring; the producer owns
// the pool's free stack, so the matcher never touches it. Limit orders
// stay owned by the book.
type Matcher struct {
	ring   *structure.Ring[OrderMessage]
	retire *structure.Ring[*Order]
	book   *OrderBook
	stats  *Stats
	coreID int
	done   chan struct{}
}

// NewMatcher wires the consumer onto its ring, retire ring and book.
func NewMatcher(ring *structure.Ring[OrderMessage], retire *structure.Ring[*Order], book *OrderBook, stats *Stats, coreID int) *Matcher {
	return &Matcher{
		ring:   ring,
		retire: retire,
		book:   book,
		stats:  stats,
		coreID: coreID,
		done:   make(chan struct{}),
	}
}

// Run pins the calling goroutine and spins until Stop, then drains the
// ring to empty before closing Done. Blocks for the engine's lifetime.
func (m *Matcher) Run() {
	defer close(m.done)

	if err := platform.PinToCore(m.coreID); err != nil {
		logger.Warn("failed to pin matcher thread", zap.Int("core_id", m.coreID), zap.Error(err))
	}

	var msg OrderMessage
	var idleSpins uint64

	for m.stats.Running() {
		if m.ring.Pop(&msg) {
			m.dispatch(&msg)
			m.stats.OrdersProcessed.Add(1)
			continue
		}

		// Idle tick: the ring is empty, so a compaction pass cannot
		// delay a queued submission.
		idleSpins++
		if idleSpins&(compactInterval-1) == 0 {
			m.book.Compact()
		}
	}

	for m.ring.Pop(&msg) {
		m.dispatch(&msg)
		m.stats.OrdersProcessed.Add(1)
	}
}

func (m *Matcher) dispatch(msg *OrderMessage) {
	switch msg.Type {
	case Limit:
		m.book.AddOrder(msg.Order)
		if fills := m.book.Match(); fills > 0 {
			m.stats.TotalFills.Add(fills)
		}
	case Market:
		fills := m.book.MatchMarket(msg.Order)
		m.stats.TotalFills.Add(fills)
		// Any unfilled remainder dies with the order. The retire ring
		// holds every pooled order at once, so this cannot be full.
		if !m.retire.Push(msg.Order) {
			panic("match: retire ring full")
		}
	case Cancel:
		// Misses are visible only through the cancel counter.
		m.book.CancelOrder(msg.CancelID)
	}
}

// Done is closed once the matcher has drained the ring and exited.
func (m *Matcher) Done() <-chan struct{} { return m.done }
