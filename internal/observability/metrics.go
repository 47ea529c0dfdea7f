package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for outbound desk calls.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for completed desk requests.
func (m *Metrics) RecordRequest(endpoint, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := callKey(endpoint, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters for failed desk requests.
func (m *Metrics) RecordError(endpoint, method, code string) {
	if m == nil {
		return
	}
	key := endpoint + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RequestCount returns the counter for an endpoint/method/status triple.
func (m *Metrics) RequestCount(endpoint, method string, status int) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestCount[callKey(endpoint, method, status)]
}

func callKey(endpoint, method string, status int) string {
	return endpoint + "|" + method + "|" + strconv.Itoa(status)
}
