package match

import (
	"github.com/igrmk/treemap/v2"
	"github.com/quagmt/udecimal"
)

// AggregatedBook is a read-side, price-ordered view of book depth:
// price level -> aggregated remaining size. It is rebuilt from depth
// snapshots taken off the hot path, so reporters and downstream consumers
// can browse the book without ever touching matcher-owned state.
//
// Bids are ordered high-to-low and asks low-to-high, so iteration starts
// at the best price on each side.
type AggregatedBook struct {
	bid *treemap.TreeMap[udecimal.Decimal, uint64]
	ask *treemap.TreeMap[udecimal.Decimal, uint64]
}

func newBidMap() *treemap.TreeMap[udecimal.Decimal, uint64] {
	return treemap.NewWithKeyCompare[udecimal.Decimal, uint64](func(a, b udecimal.Decimal) bool {
		return a.GreaterThan(b)
	})
}

func newAskMap() *treemap.TreeMap[udecimal.Decimal, uint64] {
	return treemap.NewWithKeyCompare[udecimal.Decimal, uint64](func(a, b udecimal.Decimal) bool {
		return a.LessThan(b)
	})
}

// NewAggregatedBook creates an empty view.
func NewAggregatedBook() *AggregatedBook {
	return &AggregatedBook{
		bid: newBidMap(),
		ask: newAskMap(),
	}
}

// Rebuild replaces the view's contents with the given depth walk.
func (ab *AggregatedBook) Rebuild(levels []DepthLevel) {
	ab.bid = newBidMap()
	ab.ask = newAskMap()

	for _, lvl := range levels {
		price := FixedToDecimal(lvl.Price)
		if lvl.Side == Bid {
			ab.bid.Set(price, uint64(lvl.Qty))
		} else {
			ab.ask.Set(price, uint64(lvl.Qty))
		}
	}
}

// Depth returns the aggregated size resting at a price level on the given
// side, and whether the level exists in the view.
func (ab *AggregatedBook) Depth(side Side, price udecimal.Decimal) (uint64, bool) {
	if side == Bid {
		return ab.bid.Get(price)
	}
	return ab.ask.Get(price)
}

// Best returns the best price and its size for the given side. ok is
// false when the side is empty.
func (ab *AggregatedBook) Best(side Side) (price udecimal.Decimal, size uint64, ok bool) {
	tm := ab.ask
	if side == Bid {
		tm = ab.bid
	}

	it := tm.Iterator()
	if !it.Valid() {
		return udecimal.Zero, 0, false
	}
	return it.Key(), it.Value(), true
}

// Levels reports the number of populated price levels on the given side.
func (ab *AggregatedBook) Levels(side Side) int {
	if side == Bid {
		return ab.bid.Len()
	}
	return ab.ask.Len()
}
