package engine

import "container/heap"

type maxHeap []int64

func (h maxHeap) Len() int           { return len(h) }
func (h maxHeap) Less(i, j int) bool { return h[i] > h[j] }
func (h maxHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x any)        { *h = append(*h, x.(int64)) }
func (h *maxHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

type minHeap []int64

func (h minHeap) Len() int           { return len(h) }
func (h minHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h minHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x any)        { *h = append(*h, x.(int64)) }
func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// MedianTracker keeps the running median of trade prices.
//
// lower holds the smaller half with its maximum on top, upper the larger half
// with its minimum on top. After every Add, every element of lower is <= every
// element of upper and len(lower)-len(upper) is 0 or 1.
type MedianTracker struct {
	lower maxHeap
	upper minHeap
}

// Add records a trade price.
func (m *MedianTracker) Add(price int64) {
	if m.lower.Len() == 0 || price <= m.lower[0] {
		heap.Push(&m.lower, price)
	} else {
		heap.Push(&m.upper, price)
	}

	if m.lower.Len() > m.upper.Len()+1 {
		heap.Push(&m.upper, heap.Pop(&m.lower))
	} else if m.upper.Len() > m.lower.Len() {
		heap.Push(&m.lower, heap.Pop(&m.upper))
	}
}

// Median returns the current median, floored when the count is even. The
// second result is false until a price has been added.
func (m *MedianTracker) Median() (int64, bool) {
	if m.lower.Len() == 0 {
		return 0, false
	}
	if m.lower.Len() == m.upper.Len() {
		return (m.lower[0] + m.upper[0]) / 2, true
	}
	return m.lower[0], true
}

// Len returns the number of prices seen.
func (m *MedianTracker) Len() int {
	return m.lower.Len() + m.upper.Len()
}
