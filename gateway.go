package match

import (
	"math/rand"
	"runtime"

	"github.com/velostream/hypermatch/platform"
	"github.com/velostream/hypermatch/structure"
)

// Gateway is the synthetic producer: it owns the writer side of the ring
// and the whole pool free stack, and honors the producer contract: an
// order is never touched again after its envelope is pushed. Spent market
// orders come back from the matcher through the retire ring and are
// reclaimed here, on the producer thread, when an acquire finds the pool
// empty.
//
// Flow mix: LimitOrderRatio limit orders with normally distributed price
// offsets around MidPrice, MarketOrderRatio market orders, and cancels for
// the remainder, targeting uniformly drawn prior ids. The seed is fixed in
// config so runs are reproducible.
type Gateway struct {
	ring   *structure.Ring[OrderMessage]
	retire *structure.Ring[*Order]
	pool   *structure.Pool[Order]
	stats  *Stats

	totalOrders int
	midPrice    int64
	limitRatio  float64
	marketRatio float64
	rng         *rand.Rand
}

// priceSigma is the standard deviation of limit price offsets from mid,
// in fixed-point units.
const priceSigma = 5000.0

// NewGateway builds the producer over the engine's ring and pool.
func NewGateway(e *Engine) *Gateway {
	cfg := e.Config()
	return &Gateway{
		ring:        e.ring,
		retire:      e.retire,
		pool:        e.pool,
		stats:       e.stats,
		totalOrders: cfg.GatewayOrderCount,
		midPrice:    cfg.MidPrice,
		limitRatio:  cfg.LimitOrderRatio,
		marketRatio: cfg.MarketOrderRatio,
		rng:         rand.New(rand.NewSource(cfg.GatewaySeed)),
	}
}

// Run generates and pushes the configured number of submissions, then
// returns. Ring-full pushes yield and retry; pool exhaustion drops the
// submission and counts it, keeping the producer moving.
func (g *Gateway) Run() {
	nextID := uint64(1)

	for i := 0; i < g.totalOrders; i++ {
		if !g.stats.Running() {
			break
		}

		roll := g.rng.Float64()
		var msg OrderMessage

		switch {
		case roll < g.limitRatio:
			order := g.acquireOrder()
			if order == nil {
				g.stats.PoolExhaustedCount.Add(1)
				continue
			}
			g.fillLimitOrder(order, nextID)
			nextID++
			msg = OrderMessage{Type: Limit, Order: order}

		case roll < g.limitRatio+g.marketRatio:
			order := g.acquireOrder()
			if order == nil {
				g.stats.PoolExhaustedCount.Add(1)
				continue
			}
			g.fillMarketOrder(order, nextID)
			nextID++
			msg = OrderMessage{Type: Market, Order: order}

		default:
			msg = OrderMessage{Type: Cancel, CancelID: g.cancelTarget(nextID)}
		}

		for !g.ring.Push(msg) {
			g.stats.RingFullCount.Add(1)
			runtime.Gosched()
		}

		g.stats.OrdersReceived.Add(1)
	}
}

// acquireOrder takes a slot from the pool, reclaiming retired market
// orders first when the pool runs dry.
func (g *Gateway) acquireOrder() *Order {
	if order := g.pool.Acquire(); order != nil {
		return order
	}
	g.reclaim()
	return g.pool.Acquire()
}

// reclaim drains the retire ring back into the pool.
func (g *Gateway) reclaim() {
	var order *Order
	for g.retire.Pop(&order) {
		g.pool.Release(order)
	}
}

func (g *Gateway) fillLimitOrder(order *Order, id uint64) {
	order.ID = id
	order.InstrumentID = uint64(g.rng.Intn(100))
	order.Side = g.randomSide()
	order.Type = Limit
	order.Timestamp = platform.NowNanos()

	price := g.midPrice + int64(g.rng.NormFloat64()*priceSigma)
	if price < 1 {
		price = 1
	}
	order.Price = price

	order.Quantity = uint32(g.rng.Intn(1000)) + 1
	order.RemainingQty = order.Quantity
	order.active = 1
}

func (g *Gateway) fillMarketOrder(order *Order, id uint64) {
	order.ID = id
	order.InstrumentID = uint64(g.rng.Intn(100))
	order.Side = g.randomSide()
	order.Type = Market
	order.Price = 0
	order.Timestamp = platform.NowNanos()
	order.Quantity = uint32(g.rng.Intn(1000)) + 1
	order.RemainingQty = order.Quantity
	order.active = 1
}

func (g *Gateway) randomSide() Side {
	if g.rng.Float64() < 0.5 {
		return Bid
	}
	return Ask
}

func (g *Gateway) cancelTarget(currentMaxID uint64) uint64 {
	if currentMaxID <= 1 {
		return 1
	}
	return 1 + uint64(g.rng.Int63n(int64(currentMaxID-1)))
}
