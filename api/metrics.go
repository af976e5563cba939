package api

import (
	"sort"
	"sync"
	"time"
)

// RequestTrace is the timing of a single request
type RequestTrace struct {
	RequestID string        `json:"requestId"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Status    int           `json:"status"`
	StartTime time.Time     `json:"startTime"`
	Duration  time.Duration `json:"duration"`
}

// RouteMetrics aggregates metrics for one route template
type RouteMetrics struct {
	Method      string        `json:"method"`
	Path        string        `json:"path"`
	Count       int64         `json:"count"`
	ErrorCount  int64         `json:"errorCount"`
	TotalTime   time.Duration `json:"totalTime"`
	AvgTime     time.Duration `json:"avgTime"`
	MinTime     time.Duration `json:"minTime"`
	MaxTime     time.Duration `json:"maxTime"`
	LastRequest time.Time     `json:"lastRequest"`
}

// MetricsSummary is the payload of the admin metrics route
type MetricsSummary struct {
	Since         time.Time      `json:"since"`
	TotalRequests int64          `json:"totalRequests"`
	TotalErrors   int64          `json:"totalErrors"`
	Routes        []RouteMetrics `json:"routes"`
	Recent        []RequestTrace `json:"recent"`
}

// MetricsCollector aggregates request traces. Traces are queued on a buffered channel
// and dropped when it is full, so recording never blocks a request.
type MetricsCollector struct {
	mu            sync.RWMutex
	since         time.Time
	routes        map[string]*RouteMetrics
	recent        []RequestTrace
	maxRecent     int
	totalRequests int64
	totalErrors   int64

	traceChan chan RequestTrace
	stopChan  chan struct{}
	stopOnce  sync.Once
}

// NewMetricsCollector starts a collector keeping the last maxRecent traces
func NewMetricsCollector(maxRecent int) *MetricsCollector {
	mc := &MetricsCollector{
		since:     time.Now().UTC(),
		routes:    map[string]*RouteMetrics{},
		maxRecent: maxRecent,
		traceChan: make(chan RequestTrace, 1000),
		stopChan:  make(chan struct{}),
	}
	go mc.processTraces()
	return mc
}

// RecordTrace queues a trace without blocking
func (mc *MetricsCollector) RecordTrace(trace RequestTrace) {
	select {
	case mc.traceChan <- trace:
	default:
	}
}

// Stop ends the background processor
func (mc *MetricsCollector) Stop() {
	mc.stopOnce.Do(func() { close(mc.stopChan) })
}

func (mc *MetricsCollector) processTraces() {
	for {
		select {
		case trace := <-mc.traceChan:
			mc.processTrace(trace)
		case <-mc.stopChan:
			return
		}
	}
}

func (mc *MetricsCollector) processTrace(trace RequestTrace) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.totalRequests++
	isError := trace.Status >= 400
	if isError {
		mc.totalErrors++
	}

	key := trace.Method + " " + trace.Path
	rm, ok := mc.routes[key]
	if !ok {
		rm = &RouteMetrics{Method: trace.Method, Path: trace.Path, MinTime: trace.Duration}
		mc.routes[key] = rm
	}
	rm.Count++
	if isError {
		rm.ErrorCount++
	}
	rm.TotalTime += trace.Duration
	rm.AvgTime = rm.TotalTime / time.Duration(rm.Count)
	if trace.Duration < rm.MinTime {
		rm.MinTime = trace.Duration
	}
	if trace.Duration > rm.MaxTime {
		rm.MaxTime = trace.Duration
	}
	rm.LastRequest = trace.StartTime

	if mc.maxRecent > 0 {
		mc.recent = append(mc.recent, trace)
		if len(mc.recent) > mc.maxRecent {
			mc.recent = mc.recent[len(mc.recent)-mc.maxRecent:]
		}
	}
}

// Summary returns totals and per-route metrics, busiest route first
func (mc *MetricsCollector) Summary() MetricsSummary {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	routes := make([]RouteMetrics, 0, len(mc.routes))
	for _, rm := range mc.routes {
		routes = append(routes, *rm)
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Count != routes[j].Count {
			return routes[i].Count > routes[j].Count
		}
		return routes[i].Path < routes[j].Path
	})
	recent := make([]RequestTrace, len(mc.recent))
	copy(recent, mc.recent)

	return MetricsSummary{
		Since:         mc.since,
		TotalRequests: mc.totalRequests,
		TotalErrors:   mc.totalErrors,
		Routes:        routes,
		Recent:        recent,
	}
}
