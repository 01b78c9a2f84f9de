package engine

import "container/heap"

// orderEntry wraps an order for heap operations.
type orderEntry struct {
	order Order
	index int
	isBid bool
}

// priceTimeQueue implements a price-time priority queue.
type priceTimeQueue []*orderEntry

func (q priceTimeQueue) Len() int { return len(q) }

func (q priceTimeQueue) Less(i, j int) bool {
	// For bids: higher price has priority, then lower sequence.
	// For asks: lower price has priority, then lower sequence.
	a, b := q[i], q[j]
	if a.order.Price != b.order.Price {
		if a.isBid {
			return a.order.Price > b.order.Price
		}
		return a.order.Price < b.order.Price
	}
	return a.order.Sequence < b.order.Sequence
}

func (q priceTimeQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *priceTimeQueue) Push(x any) {
	entry := x.(*orderEntry)
	entry.index = len(*q)
	*q = append(*q, entry)
}

func (q *priceTimeQueue) Pop() any {
	old := *q
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	entry.index = -1
	*q = old[0 : n-1]
	return entry
}

func (q priceTimeQueue) peek() *orderEntry {
	if len(q) == 0 {
		return nil
	}
	return q[0]
}

func (q *priceTimeQueue) remove(entry *orderEntry) *orderEntry {
	return heap.Remove(q, entry.index).(*orderEntry)
}
