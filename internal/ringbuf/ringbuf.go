// Package ringbuf provides a lock-free, single-producer single-consumer
// ring buffer for model.Bar. The websocket stream goroutine pushes closed
// bars; the evaluation loop drains them at cycle start. Atomic head/tail
// with cache-line padding keeps the two goroutines contention-free.
package ringbuf

import (
	"sync/atomic"

	"signal-enginev1/internal/model"
)

const cacheLine = 64

// Ring is a lock-free SPSC ring buffer for Bar values.
// Capacity is rounded up to a power of two for bitwise modulo.
type Ring struct {
	buf  []model.Bar
	mask uint64

	// Separate cache lines to prevent false sharing between producer
	// and consumer.
	_pad0 [cacheLine]byte
	head  atomic.Uint64 // written by producer
	_pad1 [cacheLine]byte
	tail  atomic.Uint64 // written by consumer
	_pad2 [cacheLine]byte

	overflow atomic.Uint64
}

// New creates a ring buffer. capacity is rounded up to the next power of
// two, minimum 2.
func New(capacity int) *Ring {
	c := nextPow2(capacity)
	if c < 2 {
		c = 2
	}
	return &Ring{
		buf:  make([]model.Bar, c),
		mask: uint64(c - 1),
	}
}

// Push appends a bar. Returns false if the buffer is full (the bar is NOT
// written in that case). Non-blocking.
func (r *Ring) Push(b model.Bar) bool {
	head := r.head.Load()
	tail := r.tail.Load()

	if head-tail >= uint64(len(r.buf)) {
		r.overflow.Add(1)
		return false
	}

	r.buf[head&r.mask] = b
	r.head.Store(head + 1)
	return true
}

// Pop retrieves the next bar. Returns false if the buffer is empty.
// Non-blocking.
func (r *Ring) Pop() (model.Bar, bool) {
	tail := r.tail.Load()
	head := r.head.Load()

	if tail >= head {
		return model.Bar{}, false
	}

	b := r.buf[tail&r.mask]
	r.tail.Store(tail + 1)
	return b, true
}

// Drain pops every buffered bar in order.
func (r *Ring) Drain() []model.Bar {
	var out []model.Bar
	for {
		b, ok := r.Pop()
		if !ok {
			return out
		}
		out = append(out, b)
	}
}

// Len returns the current number of buffered bars.
func (r *Ring) Len() int {
	return int(r.head.Load() - r.tail.Load())
}

// Cap returns the buffer capacity.
func (r *Ring) Cap() int {
	return len(r.buf)
}

// Overflow returns the total number of dropped pushes due to a full buffer.
func (r *Ring) Overflow() uint64 {
	return r.overflow.Load()
}

func nextPow2(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
