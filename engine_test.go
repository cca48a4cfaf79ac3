package match

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RingCapacity = 1 << 10
	cfg.ArenaBytes = 4 << 20
	cfg.MaxOrders = 8192
	cfg.IDTableSize = 1 << 16
	cfg.MatcherCoreID = 0
	cfg.GatewayOrderCount = 5000
	return cfg
}

func TestEngineEndToEnd(t *testing.T) {
	cfg := testConfig()

	engine, err := NewEngine(cfg)
	require.NoError(t, err)

	startErr := make(chan error, 1)
	go func() { startErr <- engine.Start() }()
	for !engine.started.Load() {
		time.Sleep(time.Millisecond)
	}

	gateway := NewGateway(engine)
	gateway.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, engine.Shutdown(ctx))
	require.NoError(t, <-startErr)

	snap := engine.Stats().Snapshot()

	// Every accepted submission is processed: the drain leaves nothing
	// behind in the ring.
	assert.Equal(t, snap.OrdersReceived, snap.OrdersProcessed)
	assert.True(t, engine.Ring().Empty())
	assert.NotZero(t, snap.OrdersReceived)

	// The synthetic mix crosses the spread constantly.
	assert.NotZero(t, snap.TotalFills)
	assert.NotZero(t, engine.Book().MatchCount())

	// Spent market orders wait in the retire ring until the gateway finds
	// the pool empty, so they still count as in use here; the pool never
	// hands out more slots than it has.
	assert.LessOrEqual(t, engine.Pool().InUse(), cfg.MaxOrders)
}

func TestEngineQuantityConservation(t *testing.T) {
	cfg := testConfig()

	engine, err := NewEngine(cfg)
	require.NoError(t, err)

	go func() { _ = engine.Start() }()
	for !engine.started.Load() {
		time.Sleep(time.Millisecond)
	}

	push := func(msg OrderMessage) {
		for !engine.Ring().Push(msg) {
		}
	}

	var added uint64
	acquireLimit := func(id uint64, side Side, price int64, qty uint32) {
		o := engine.Pool().Acquire()
		require.NotNil(t, o)
		o.ID = id
		o.Side = side
		o.Type = Limit
		o.Price = price
		o.Quantity = qty
		o.RemainingQty = qty
		added += uint64(qty)
		push(OrderMessage{Type: Limit, Order: o})
	}

	acquireLimit(1, Bid, 1_000_000, 50)
	acquireLimit(2, Ask, 1_000_000, 30)
	acquireLimit(3, Ask, 1_010_000, 40)
	push(OrderMessage{Type: Cancel, CancelID: 3})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, engine.Shutdown(ctx))

	book := engine.Book()
	fills := engine.Stats().Snapshot().TotalFills
	resting := restingQty(book.bidLevels) + restingQty(book.askLevels)

	assert.Equal(t, uint64(30), fills)
	assert.Equal(t, uint64(1), book.CancelCount())
	assert.Equal(t, added-40, resting+2*fills)
}

func TestEngineShutdownDrainsRing(t *testing.T) {
	cfg := testConfig()

	engine, err := NewEngine(cfg)
	require.NoError(t, err)

	// Queue submissions before the matcher even starts.
	for i := uint64(1); i <= 100; i++ {
		o := engine.Pool().Acquire()
		require.NotNil(t, o)
		o.ID = i
		o.Side = Bid
		o.Type = Limit
		o.Price = 1_000_000
		o.Quantity = 1
		o.RemainingQty = 1
		require.True(t, engine.Ring().Push(OrderMessage{Type: Limit, Order: o}))
	}

	// Stop immediately: Start must still drain everything queued.
	engine.Stats().Stop()
	require.NoError(t, engine.Start())

	assert.True(t, engine.Ring().Empty())
	assert.Equal(t, uint64(100), engine.Stats().Snapshot().OrdersProcessed)
	assert.Equal(t, uint32(100), engine.Book().bidLevels[100].TotalQty())
}

func TestEngineStartsExactlyOnce(t *testing.T) {
	engine, err := NewEngine(testConfig())
	require.NoError(t, err)

	go func() { _ = engine.Start() }()
	for !engine.started.Load() {
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, engine.Shutdown(ctx))

	assert.ErrorIs(t, engine.Start(), ErrShutdown)
}

func TestEngineRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.RingCapacity = 1000 // not a power of two

	_, err := NewEngine(cfg)
	assert.ErrorIs(t, err, ErrInvalidParam)
}

func TestGatewayHonorsPoolBackpressure(t *testing.T) {
	cfg := testConfig()
	cfg.MaxOrders = 64 // force exhaustion
	cfg.GatewayOrderCount = 2000

	engine, err := NewEngine(cfg)
	require.NoError(t, err)

	go func() { _ = engine.Start() }()
	for !engine.started.Load() {
		time.Sleep(time.Millisecond)
	}

	gateway := NewGateway(engine)
	gateway.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, engine.Shutdown(ctx))

	snap := engine.Stats().Snapshot()

	// Dropped submissions are counted, not retried, and never reach the ring.
	assert.NotZero(t, snap.PoolExhaustedCount)
	assert.Equal(t, snap.OrdersReceived, snap.OrdersProcessed)
}
