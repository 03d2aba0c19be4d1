package control

import "fmt"

// History is a fixed-capacity FIFO of float64 samples. Pushing onto a full
// History evicts the oldest sample.
type History struct {
	data []float64
	pos  int
	full bool
}

func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{
		data: make([]float64, capacity),
	}
}

// Push appends v, evicting the oldest sample when full.
func (h *History) Push(v float64) {
	h.data[h.pos] = v
	h.pos++
	if h.pos >= len(h.data) {
		h.pos = 0
		h.full = true
	}
}

func (h *History) Len() int {
	if h.full {
		return len(h.data)
	}
	return h.pos
}

func (h *History) Cap() int { return len(h.data) }

func (h *History) Full() bool { return h.full }

// Last returns the n-th most recent sample; Last(0) is the newest.
func (h *History) Last(n int) float64 {
	if n < 0 || n >= h.Len() {
		panic(fmt.Sprintf("control: history index %d out of range [0,%d)", n, h.Len()))
	}
	idx := h.pos - 1 - n
	if idx < 0 {
		idx += len(h.data)
	}
	return h.data[idx]
}

// Oldest returns the sample that the next Push would evict on a full History.
func (h *History) Oldest() float64 {
	return h.Last(h.Len() - 1)
}

func (h *History) Sum() float64 {
	sum := 0.0
	for i := 0; i < h.Len(); i++ {
		sum += h.data[i]
	}
	return sum
}

// Values returns the samples in insertion order.
func (h *History) Values() []float64 {
	n := h.Len()
	out := make([]float64, n)
	if h.full {
		copy(out, h.data[h.pos:])
		copy(out[len(h.data)-h.pos:], h.data[:h.pos])
	} else {
		copy(out, h.data[:h.pos])
	}
	return out
}

func (h *History) Reset() {
	for i := range h.data {
		h.data[i] = 0
	}
	h.pos = 0
	h.full = false
}
