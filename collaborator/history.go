package collaborator

import (
	"math"
	"slices"
	"sync"

	"github.com/gammazero/deque"

	u "lautenbacher.net/lovebox/util"
)

// History keeps the most recent light readings.
type History struct {
	mu       sync.Mutex
	values   *deque.Deque[u.Reading]
	capacity int
}

// Stats summarises the readings in a History.
type Stats struct {
	Count  int     `json:"count"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stdDev"`
}

func NewHistory(capacity int) *History {
	capacity = max(capacity, 1)
	values := new(deque.Deque[u.Reading])
	values.Grow(capacity)
	return &History{values: values, capacity: capacity}
}

// Add appends a reading, dropping the oldest one when full.
func (h *History) Add(r u.Reading) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.values.Len() == h.capacity {
		h.values.PopFront()
	}
	h.values.PushBack(r)
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.values.Len()
}

// Last returns the newest reading, if any.
func (h *History) Last() (u.Reading, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.values.Len() == 0 {
		return u.Reading{}, false
	}
	return h.values.Back(), true
}

func (h *History) Stats() Stats {
	h.mu.Lock()
	data := make([]int, h.values.Len())
	for i := range h.values.Len() {
		data[i] = h.values.At(i).Value
	}
	h.mu.Unlock()
	return calculateStats(data)
}

func calculateStats(data []int) Stats {
	if len(data) == 0 {
		return Stats{}
	}

	var sum int
	minV, maxV := data[0], data[0]
	for _, v := range data {
		minV = min(minV, v)
		maxV = max(maxV, v)
		sum += v
	}
	mean := float64(sum) / float64(len(data))

	slices.Sort(data)
	var median float64
	mid := len(data) / 2
	if len(data)%2 == 0 {
		median = float64(data[mid-1]+data[mid]) / 2.0
	} else {
		median = float64(data[mid])
	}

	var sumOfSquares float64
	for _, v := range data {
		sumOfSquares += (float64(v) - mean) * (float64(v) - mean)
	}

	return Stats{
		Count:  len(data),
		Min:    minV,
		Max:    maxV,
		Mean:   mean,
		Median: median,
		StdDev: math.Sqrt(sumOfSquares / float64(len(data))),
	}
}
