// Implements the waiting room, which holds customers who have arrived but not yet started service.
// Customers are enqueued on arrival and popped by the scheduler when a server is free.

package sim

import (
	"container/heap"
	"fmt"
	"strings"

	"github.com/gammazero/deque"
)

// WaitQueue is the pending queue of a single run.
// Pop returns the next customer to serve, or nil when empty.
type WaitQueue interface {
	Push(c *Customer)
	Pop() *Customer
	Peek() *Customer
	Len() int
}

// NewWaitQueue returns a PriorityQueue when usePriority is set, otherwise a FIFOQueue.
func NewWaitQueue(usePriority bool) WaitQueue {
	if usePriority {
		return NewPriorityQueue()
	}
	return NewFIFOQueue()
}

// === FIFOQueue ===

// FIFOQueue serves customers in enqueue order.
type FIFOQueue struct {
	q *deque.Deque[*Customer]
}

// NewFIFOQueue creates an empty FIFOQueue.
func NewFIFOQueue() *FIFOQueue {
	return &FIFOQueue{q: deque.New[*Customer]()}
}

// Push adds a customer to the back of the queue.
func (f *FIFOQueue) Push(c *Customer) {
	if c == nil {
		panic("FIFOQueue.Push: customer must not be nil")
	}
	f.q.PushBack(c)
}

// Pop removes the customer at the front of the queue.
func (f *FIFOQueue) Pop() *Customer {
	if f.q.Len() == 0 {
		return nil
	}
	return f.q.PopFront()
}

// Peek returns the customer at the front without removing it.
func (f *FIFOQueue) Peek() *Customer {
	if f.q.Len() == 0 {
		return nil
	}
	return f.q.Front()
}

func (f *FIFOQueue) Len() int {
	return f.q.Len()
}

func (f *FIFOQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < f.q.Len(); i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(fmt.Sprint(f.q.At(i).ID))
	}
	sb.WriteString("]")
	return sb.String()
}

// === PriorityQueue ===

// queued pairs a customer with its enqueue sequence number.
type queued struct {
	c   *Customer
	seq uint64
}

// priorityHeap implements heap.Interface.
// Ordering: priority (lower number first) → enqueue sequence (earlier first).
type priorityHeap []queued

func (h priorityHeap) Len() int { return len(h) }
func (h priorityHeap) Less(i, j int) bool {
	if h[i].c.Priority != h[j].c.Priority {
		return h[i].c.Priority < h[j].c.Priority
	}
	return h[i].seq < h[j].seq
}
func (h priorityHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *priorityHeap) Push(x any) {
	*h = append(*h, x.(queued))
}

func (h *priorityHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = queued{}
	*h = old[0 : n-1]
	return item
}

// PriorityQueue serves the lowest priority number first. Customers with
// equal priority keep the order in which they were enqueued.
type PriorityQueue struct {
	h   priorityHeap
	seq uint64
}

// NewPriorityQueue creates an empty PriorityQueue.
func NewPriorityQueue() *PriorityQueue {
	pq := &PriorityQueue{h: make(priorityHeap, 0)}
	heap.Init(&pq.h)
	return pq
}

// Push adds a customer, ordered by priority then enqueue order.
func (pq *PriorityQueue) Push(c *Customer) {
	if c == nil {
		panic("PriorityQueue.Push: customer must not be nil")
	}
	heap.Push(&pq.h, queued{c: c, seq: pq.seq})
	pq.seq++
}

// Pop removes the highest-priority customer.
func (pq *PriorityQueue) Pop() *Customer {
	if pq.h.Len() == 0 {
		return nil
	}
	return heap.Pop(&pq.h).(queued).c
}

// Peek returns the highest-priority customer without removing it.
func (pq *PriorityQueue) Peek() *Customer {
	if pq.h.Len() == 0 {
		return nil
	}
	return pq.h[0].c
}

func (pq *PriorityQueue) Len() int {
	return pq.h.Len()
}
