package log

import (
	"fmt"
	"io"
	"sync"
)

// DefaultBufferCapacity is used when a non-positive capacity is requested.
const DefaultBufferCapacity = 100

// CircularBuffer is an [io.Writer] that keeps the most recent writes, one
// entry per call to Write. The interactive UI points the log handler at a
// CircularBuffer while the terminal is in use and flushes it on exit.
type CircularBuffer struct {
	ring  [][]byte
	next  int
	count int
	mu    sync.Mutex
}

// NewCircularBuffer creates a buffer holding up to capacity entries.
func NewCircularBuffer(capacity int) *CircularBuffer {
	if capacity <= 0 {
		capacity = DefaultBufferCapacity
	}

	return &CircularBuffer{ring: make([][]byte, capacity)}
}

// Write stores a copy of p as a new entry, evicting the oldest entry when the
// buffer is full.
func (cb *CircularBuffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	entry := append([]byte(nil), p...)

	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.ring[cb.next] = entry
	cb.next = (cb.next + 1) % len(cb.ring)
	cb.count = min(cb.count+1, len(cb.ring))

	return len(p), nil
}

// Entries returns copies of the stored entries, oldest first.
func (cb *CircularBuffer) Entries() [][]byte {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.count == 0 {
		return nil
	}

	out := make([][]byte, 0, cb.count)
	start := (cb.next - cb.count + len(cb.ring)) % len(cb.ring)

	for i := range cb.count {
		entry := cb.ring[(start+i)%len(cb.ring)]
		out = append(out, append([]byte(nil), entry...))
	}

	return out
}

// Size returns the number of stored entries.
func (cb *CircularBuffer) Size() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.count
}

// Capacity returns the maximum number of entries.
func (cb *CircularBuffer) Capacity() int {
	return len(cb.ring)
}

// IsFull reports whether the next write evicts an entry.
func (cb *CircularBuffer) IsFull() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.count == len(cb.ring)
}

// Clear drops all entries.
func (cb *CircularBuffer) Clear() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	clear(cb.ring)
	cb.next = 0
	cb.count = 0
}

// WriteTo writes the stored entries to w, oldest first.
func (cb *CircularBuffer) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for _, entry := range cb.Entries() {
		n, err := w.Write(entry)
		total += int64(n)

		if err != nil {
			return total, fmt.Errorf("write log entry: %w", err)
		}
	}

	return total, nil
}
