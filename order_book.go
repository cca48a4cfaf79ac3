package match

// OrderBook keeps both sides as flat arrays of price levels indexed by
// quantized price, plus a direct-mapped id->order table for O(1) cancels.
// Nothing here allocates after construction and nothing is synchronized:
// the book belongs to the matcher goroutine alone.
//
// bestBid/bestAsk are best-effort cursors. Adds move them monotonically
// toward the aggressive direction; the match sweep walks them back across
// emptied levels. They may lag briefly after matching, which only costs
// the sweep a few empty-level skips.
type OrderBook struct {
	bidLevels []PriceLevel
	askLevels []PriceLevel

	// Direct-mapped, no rehash: slot = id & idMask. A colliding add
	// overwrites the slot, costing the older order its cancel-by-id
	// affordance. Accepted trade for a branch-free lookup.
	idTable []*Order
	idMask  uint64

	maxLevels       int
	priceMultiplier int64

	bestBid int // largest bid index with depth; -1 when no bids
	bestAsk int // smallest ask index with depth; maxLevels when no asks

	matchCount  uint64
	cancelCount uint64
}

// NewOrderBook builds a book with maxLevels price buckets per side and an
// id table of idTableSize slots (must be a power of two).
func NewOrderBook(maxLevels, idTableSize int, priceMultiplier int64) *OrderBook {
	if idTableSize <= 0 || idTableSize&(idTableSize-1) != 0 {
		panic("match: id table size must be a power of 2")
	}
	if maxLevels <= 0 {
		panic("match: max price levels must be positive")
	}

	book := &OrderBook{
		bidLevels:       make([]PriceLevel, maxLevels),
		askLevels:       make([]PriceLevel, maxLevels),
		idTable:         make([]*Order, idTableSize),
		idMask:          uint64(idTableSize - 1),
		maxLevels:       maxLevels,
		priceMultiplier: priceMultiplier,
		bestBid:         -1,
		bestAsk:         maxLevels,
	}

	for i := 0; i < maxLevels; i++ {
		price := int64(i) * priceMultiplier
		book.bidLevels[i].price = price
		book.askLevels[i].price = price
	}
	return book
}

// priceToIndex quantizes a fixed-point price onto a level index. Levels
// are one whole currency unit apart, so distinct ticks inside one unit
// share a level and match as one price. Out-of-range prices clamp to the
// nearest valid index.
func (b *OrderBook) priceToIndex(price int64) int {
	idx := int(price / b.priceMultiplier)
	if idx < 0 {
		return 0
	}
	if idx >= b.maxLevels {
		return b.maxLevels - 1
	}
	return idx
}

// AddOrder rests a limit order on its side's level and advances the best
// cursor toward it. Limit orders are registered for cancel-by-id; the
// caller follows up with Match to cross the book.
func (b *OrderBook) AddOrder(order *Order) {
	idx := b.priceToIndex(order.Price)
	order.active = 1

	if order.Type == Limit {
		b.idTable[order.ID&b.idMask] = order
	}

	if order.Side == Bid {
		b.bidLevels[idx].AddOrder(order)
		if idx > b.bestBid {
			b.bestBid = idx
		}
	} else {
		b.askLevels[idx].AddOrder(order)
		if idx < b.bestAsk {
			b.bestAsk = idx
		}
	}
}

// Match sweeps the book while it is crossed (best bid price >= best ask
// price), filling the smaller side of each level pair. Price-time priority
// inside a level comes from the FIFO walk. Returns total units filled.
func (b *OrderBook) Match() uint64 {
	var totalFilled uint64

	for b.bestBid >= 0 && b.bestAsk < b.maxLevels {
		bid := &b.bidLevels[b.bestBid]
		ask := &b.askLevels[b.bestAsk]

		if bid.price < ask.price {
			break
		}

		if bid.TotalQty() == 0 {
			b.bestBid--
			continue
		}
		if ask.TotalQty() == 0 {
			b.bestAsk++
			continue
		}

		qty := min(bid.TotalQty(), ask.TotalQty())
		bid.Match(qty)
		ask.Match(qty)
		totalFilled += uint64(qty)
		b.matchCount++

		if bid.TotalQty() == 0 {
			b.bestBid--
		}
		if ask.TotalQty() == 0 {
			b.bestAsk++
		}
	}

	return totalFilled
}

// MatchMarket fills a market order against the opposite side, best level
// outward, until the order is done or depth runs out. A remainder larger
// than the book's depth is left on the order for the caller to discard.
// Returns total units filled.
func (b *OrderBook) MatchMarket(order *Order) uint64 {
	var filled uint64

	if order.Side == Bid {
		for i := b.bestAsk; i < b.maxLevels && order.RemainingQty > 0; i++ {
			fill := b.askLevels[i].Match(order.RemainingQty)
			order.RemainingQty -= fill
			filled += uint64(fill)
			if b.askLevels[i].TotalQty() == 0 && i == b.bestAsk {
				b.bestAsk++
			}
		}
	} else {
		// Signed index: the descending scan terminates at level 0.
		for i := b.bestBid; i >= 0 && order.RemainingQty > 0; i-- {
			fill := b.bidLevels[i].Match(order.RemainingQty)
			order.RemainingQty -= fill
			filled += uint64(fill)
			if b.bidLevels[i].TotalQty() == 0 && i == b.bestBid {
				b.bestBid--
			}
		}
	}

	if filled > 0 {
		b.matchCount++
	}
	return filled
}

// CancelOrder marks the order dead in place and gives its quantity back to
// the level cache. O(1): one table lookup, no list surgery. Returns false
// for an unknown, displaced or already-inactive id.
func (b *OrderBook) CancelOrder(id uint64) bool {
	slot := id & b.idMask
	order := b.idTable[slot]

	if order == nil || order.ID != id || order.active == 0 {
		return false
	}

	idx := b.priceToIndex(order.Price)
	if order.Side == Bid {
		b.bidLevels[idx].ReduceQty(order.RemainingQty)
	} else {
		b.askLevels[idx].ReduceQty(order.RemainingQty)
	}

	order.active = 0
	order.RemainingQty = 0
	b.idTable[slot] = nil
	b.cancelCount++
	return true
}

// Compact unlinks dead orders from every populated level. O(total book
// nodes); run on idle matcher iterations, never inside a dispatch.
func (b *OrderBook) Compact() {
	for i := range b.bidLevels {
		if !b.bidLevels[i].Empty() {
			b.bidLevels[i].Compact()
		}
	}
	for i := range b.askLevels {
		if !b.askLevels[i].Empty() {
			b.askLevels[i].Compact()
		}
	}
}

// DepthLevel is one populated price level in a depth walk.
type DepthLevel struct {
	Side  Side
	Price int64
	Qty   uint32
}

// Depth walks both sides best-outward, skipping empty levels, and returns
// up to limit populated levels per side. Read-side affordance for
// reporters; not used on the hot path.
func (b *OrderBook) Depth(limit int) []DepthLevel {
	out := make([]DepthLevel, 0, 2*limit)

	taken := 0
	for i := b.bestBid; i >= 0 && taken < limit; i-- {
		if qty := b.bidLevels[i].TotalQty(); qty > 0 {
			out = append(out, DepthLevel{Side: Bid, Price: b.bidLevels[i].price, Qty: qty})
			taken++
		}
	}

	taken = 0
	for i := b.bestAsk; i < b.maxLevels && taken < limit; i++ {
		if qty := b.askLevels[i].TotalQty(); qty > 0 {
			out = append(out, DepthLevel{Side: Ask, Price: b.askLevels[i].price, Qty: qty})
			taken++
		}
	}

	return out
}

// BestBidPrice returns the price of the highest bid level with depth, or 0
// when no bids rest on the book.
func (b *OrderBook) BestBidPrice() int64 {
	for i := b.bestBid; i >= 0; i-- {
		if b.bidLevels[i].TotalQty() > 0 {
			return b.bidLevels[i].price
		}
	}
	return 0
}

// BestAskPrice returns the price of the lowest ask level with depth, or 0
// when no asks rest on the book.
func (b *OrderBook) BestAskPrice() int64 {
	for i := b.bestAsk; i < b.maxLevels; i++ {
		if b.askLevels[i].TotalQty() > 0 {
			return b.askLevels[i].price
		}
	}
	return 0
}

// MatchCount returns the number of match events (level-pair sweeps and
// market executions).
func (b *OrderBook) MatchCount() uint64 { return b.matchCount }

// CancelCount returns the number of cancels that took effect.
func (b *OrderBook) CancelCount() uint64 { return b.cancelCount }
