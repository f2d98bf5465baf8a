package toast

import "sync"

// DefaultCapacity bounds a Queue created with a non-positive capacity.
const DefaultCapacity = 16

// Queue is a bounded FIFO of pending toasts. When full, the oldest toast is
// dropped. It is safe for concurrent use.
type Queue struct {
	mu       sync.Mutex
	items    []Toast
	capacity int
}

// NewQueue creates a queue holding at most capacity toasts.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{capacity: capacity}
}

// Push appends t, evicting the oldest entry when at capacity.
func (q *Queue) Push(t Toast) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= q.capacity {
		q.items = q.items[1:]
	}
	q.items = append(q.items, t)
}

// Drain returns and removes all pending toasts in insertion order.
func (q *Queue) Drain() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Peek returns a copy of the pending toasts without removing them.
func (q *Queue) Peek() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	out := make([]Toast, len(q.items))
	copy(out, q.items)
	return out
}

// Len reports the number of pending toasts.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
