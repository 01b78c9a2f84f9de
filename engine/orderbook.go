package engine

import "container/heap"

// OrderBook maintains bids and asks for a single instrument using price-time priority.
// It is not safe for concurrent use; the Market owns one per instrument.
type OrderBook struct {
	bids   priceTimeQueue
	asks   priceTimeQueue
	orders map[int64]*orderEntry
}

// NewOrderBook builds an empty order book.
func NewOrderBook() *OrderBook {
	ob := &OrderBook{
		bids:   priceTimeQueue{},
		asks:   priceTimeQueue{},
		orders: make(map[int64]*orderEntry),
	}
	heap.Init(&ob.bids)
	heap.Init(&ob.asks)
	return ob
}

// Insert rests an order on its side of the book. Price and quantity are
// expected to be positive and the sequence unique.
func (ob *OrderBook) Insert(order Order) {
	entry := &orderEntry{order: order, isBid: order.Side == Buy}
	if entry.isBid {
		heap.Push(&ob.bids, entry)
	} else {
		heap.Push(&ob.asks, entry)
	}
	ob.orders[order.Sequence] = entry
}

// BestBid returns the highest-priority resting bid.
func (ob *OrderBook) BestBid() (Order, bool) {
	if best := ob.bids.peek(); best != nil {
		return best.order, true
	}
	return Order{}, false
}

// BestAsk returns the highest-priority resting ask.
func (ob *OrderBook) BestAsk() (Order, bool) {
	if best := ob.asks.peek(); best != nil {
		return best.order, true
	}
	return Order{}, false
}

// Lookup returns the resting order with the given sequence.
func (ob *OrderBook) Lookup(sequence int64) (Order, bool) {
	entry, ok := ob.orders[sequence]
	if !ok {
		return Order{}, false
	}
	return entry.order, true
}

// Reduce decrements the resting order's quantity by filled and removes it
// once nothing is left. It reports whether the order was found.
func (ob *OrderBook) Reduce(sequence int64, filled int64) bool {
	entry, ok := ob.orders[sequence]
	if !ok {
		return false
	}
	ob.reduce(entry, filled)
	return true
}

func (ob *OrderBook) reduce(entry *orderEntry, filled int64) {
	entry.order.Quantity -= filled
	if entry.order.Quantity > 0 {
		// price and sequence are the only ordering keys, so the entry keeps its slot
		return
	}
	if entry.isBid {
		ob.bids.remove(entry)
	} else {
		ob.asks.remove(entry)
	}
	delete(ob.orders, entry.order.Sequence)
}

// Match settles every crossing pair at the top of the book and returns the
// resulting trades in execution order. The earlier of the two orders sets the
// trade price.
func (ob *OrderBook) Match(instrument int) []Trade {
	var trades []Trade
	for {
		bid := ob.bids.peek()
		ask := ob.asks.peek()
		if bid == nil || ask == nil || bid.order.Price < ask.order.Price {
			return trades
		}

		tradedQty := min(bid.order.Quantity, ask.order.Quantity)
		tradePrice := ask.order.Price
		if bid.order.Sequence < ask.order.Sequence {
			tradePrice = bid.order.Price
		}

		trades = append(trades, Trade{
			Instrument:   instrument,
			BuyerID:      bid.order.TraderID,
			SellerID:     ask.order.TraderID,
			Price:        tradePrice,
			Quantity:     tradedQty,
			BuySequence:  bid.order.Sequence,
			SellSequence: ask.order.Sequence,
		})

		ob.reduce(bid, tradedQty)
		ob.reduce(ask, tradedQty)
	}
}

// View returns copies of the best bid and ask.
func (ob *OrderBook) View() BookView {
	view := BookView{}
	if best := ob.bids.peek(); best != nil {
		bid := best.order
		view.BestBid = &bid
	}
	if best := ob.asks.peek(); best != nil {
		ask := best.order
		view.BestAsk = &ask
	}
	return view
}

// Depth returns the number of resting bids and asks.
func (ob *OrderBook) Depth() (bids, asks int) {
	return ob.bids.Len(), ob.asks.Len()
}
