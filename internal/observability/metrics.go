package observability

import (
	"sync"
	"time"
)

type routeKey struct {
	Method string
	Path   string
}

// RouteStats aggregates request outcomes for one method and path.
type RouteStats struct {
	Requests  int64
	Errors    int64
	ByStatus  map[int]int64
	ByCode    map[string]int64
	TotalTime time.Duration
}

// Metrics keeps in-process request counters keyed by route. Counters
// reset on restart; anything durable belongs in the report tables.
type Metrics struct {
	mu     sync.Mutex
	routes map[routeKey]*RouteStats
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{routes: make(map[routeKey]*RouteStats)}
}

// RecordRequest accounts one completed request against its route.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.stats(routeKey{Method: method, Path: path})
	s.Requests++
	s.ByStatus[status]++
	s.TotalTime += duration
}

// RecordError accounts one domain-error response by its error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.stats(routeKey{Method: method, Path: path})
	s.Errors++
	s.ByCode[code]++
}

// Snapshot copies the counters, keyed "METHOD path". The live maps are
// never handed out.
func (m *Metrics) Snapshot() map[string]RouteStats {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]RouteStats, len(m.routes))
	for key, s := range m.routes {
		copied := RouteStats{
			Requests:  s.Requests,
			Errors:    s.Errors,
			ByStatus:  make(map[int]int64, len(s.ByStatus)),
			ByCode:    make(map[string]int64, len(s.ByCode)),
			TotalTime: s.TotalTime,
		}
		for status, n := range s.ByStatus {
			copied.ByStatus[status] = n
		}
		for code, n := range s.ByCode {
			copied.ByCode[code] = n
		}
		out[key.Method+" "+key.Path] = copied
	}
	return out
}

func (m *Metrics) stats(key routeKey) *RouteStats {
	s, ok := m.routes[key]
	if !ok {
		s = &RouteStats{
			ByStatus: make(map[int]int64),
			ByCode:   make(map[string]int64),
		}
		m.routes[key] = s
	}
	return s
}
