package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for the ingestion pipeline.
type Metrics struct {
	mu            sync.Mutex
	requestCount  map[string]int64
	errorCount    map[string]int64
	outcomeCount  map[string]int64
	dispatchCount map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:  make(map[string]int64),
		errorCount:    make(map[string]int64),
		outcomeCount:  make(map[string]int64),
		dispatchCount: make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordOutcome counts per-request ingestion outcomes (accepted, ignored,
// duplicate, dispatch_failed).
func (m *Metrics) RecordOutcome(status string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomeCount[status]++
}

// RecordDispatch counts downstream dispatch results per service group.
func (m *Metrics) RecordDispatch(serviceGroup string, accepted bool) {
	if m == nil {
		return
	}
	key := serviceGroup + "|" + strconv.FormatBool(accepted)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatchCount[key]++
}

// OutcomeCount reports the counter for a given outcome status.
func (m *Metrics) OutcomeCount(status string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomeCount[status]
}

// DispatchCount reports the counter for a service group and result.
func (m *Metrics) DispatchCount(serviceGroup string, accepted bool) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dispatchCount[serviceGroup+"|"+strconv.FormatBool(accepted)]
}
