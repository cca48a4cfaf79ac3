package match

import (
	"context"
	"sync/atomic"

	"github.com/velostream/hypermatch/structure"
)

// Engine owns the full allocation graph: one arena reserved at startup,
// the order pool and submission ring carved out of it, the book, the
// shared stats, and the matcher that drives them. After NewEngine returns, the
// hot path never allocates again.
type Engine struct {
	cfg Config

	arena *structure.Arena
	pool  *structure.Pool[Order]
	ring  *structure.Ring[OrderMessage]

	// retire hands spent market orders from the matcher back to the
	// producer, which alone owns the pool's free stack. Sized to hold
	// every pooled order at once, so pushing can never fail.
	retire *structure.Ring[*Order]

	book    *OrderBook
	stats   *Stats
	matcher *Matcher

	started atomic.Bool
}

// NewEngine validates cfg and builds every component. All arena carving
// happens here, on one goroutine, before any thread is spawned.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	arena := structure.NewArena(cfg.ArenaBytes)
	pool := structure.NewPool[Order](arena, cfg.MaxOrders)
	ring := structure.NewRing[OrderMessage](arena, cfg.RingCapacity)
	retire := structure.NewRing[*Order](arena, structure.NextPowerOfTwo(uint64(cfg.MaxOrders)))
	book := NewOrderBook(cfg.MaxPriceLevels, cfg.IDTableSize, cfg.PriceMultiplier)
	stats := NewStats()

	return &Engine{
		cfg:     cfg,
		arena:   arena,
		pool:    pool,
		ring:    ring,
		retire:  retire,
		book:    book,
		stats:   stats,
		matcher: NewMatcher(ring, retire, book, stats, cfg.MatcherCoreID),
	}, nil
}

// Start runs the matcher loop on the calling goroutine and blocks until
// Shutdown, draining the ring on the way out. Callers wanting concurrency
// run it as `go engine.Start()`. Any second Start, including after a
// Shutdown, returns ErrShutdown; the matcher owns its book exactly once.
func (e *Engine) Start() error {
	if !e.started.CompareAndSwap(false, true) {
		return ErrShutdown
	}

	e.matcher.Run()
	return nil
}

// Shutdown stops the matcher and waits for it to drain the ring, or for
// ctx to expire. Safe to call more than once.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.stats.Stop()

	if !e.started.Load() {
		return nil
	}

	select {
	case <-e.matcher.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// Stats exposes the shared counters for producers and reporters.
func (e *Engine) Stats() *Stats { return e.stats }

// Ring exposes the submission ring's producer side.
func (e *Engine) Ring() *structure.Ring[OrderMessage] { return e.ring }

// Pool exposes the order recycler's acquire side.
func (e *Engine) Pool() *structure.Pool[Order] { return e.pool }

// Book exposes the order book. Outside of tests, only touch it once the
// matcher has exited: the book is single-owner state.
func (e *Engine) Book() *OrderBook { return e.book }

// Arena exposes the backing arena for memory accounting.
func (e *Engine) Arena() *structure.Arena { return e.arena }
