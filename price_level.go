package match

// PriceLevel is one price bucket: a FIFO of resting orders plus a cached
// total of their remaining quantity. The cache lets the book's match sweep
// compare level depths without walking lists; it is adjusted by every add,
// match and cancel, and trusted on the hot path. Compact restores the
// exact correspondence between the cache and the live nodes.
type PriceLevel struct {
	price     int64
	cachedQty uint32
	orders    IntrusiveFifo
}

// AddOrder appends order and grows the cached total.
func (p *PriceLevel) AddOrder(order *Order) {
	p.orders.Append(order)
	p.cachedQty += order.RemainingQty
}

// Match fills up to qty units from this level in arrival order and deducts
// the fill from the cached total. Returns the filled quantity.
func (p *PriceLevel) Match(qty uint32) uint32 {
	filled := p.orders.Match(qty)
	p.cachedQty -= filled
	return filled
}

// ReduceQty shrinks the cached total without touching the list. Used by
// cancel, which marks its order dead in place. Saturates at zero.
func (p *PriceLevel) ReduceQty(amount uint32) {
	if amount <= p.cachedQty {
		p.cachedQty -= amount
	} else {
		p.cachedQty = 0
	}
}

// Compact unlinks dead orders from the level's FIFO.
func (p *PriceLevel) Compact() {
	p.orders.Compact()
}

// Price returns the level's fixed-point price.
func (p *PriceLevel) Price() int64 { return p.price }

// TotalQty returns the cached remaining quantity at this level.
func (p *PriceLevel) TotalQty() uint32 { return p.cachedQty }

// OrderCount returns the number of linked orders, dead ones included.
func (p *PriceLevel) OrderCount() int { return p.orders.Len() }

// Empty reports whether the level holds no linked orders.
func (p *PriceLevel) Empty() bool { return p.orders.Empty() }
