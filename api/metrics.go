package api

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

// RequestTrace tracks timing for a single request, including every upstream
// CMS call it triggered
type RequestTrace struct {
	RequestID     string              `json:"requestId"`
	Method        string              `json:"method"`
	Path          string              `json:"path"`
	Status        int                 `json:"status"`
	StartTime     time.Time           `json:"startTime"`
	EndTime       time.Time           `json:"endTime"`
	TotalDuration time.Duration       `json:"totalDuration"`
	Upstream      []UpstreamCallTrace `json:"upstream"`
	UpstreamTime  time.Duration       `json:"upstreamTime"`
	Error         string              `json:"error,omitempty"`
}

// UpstreamCallTrace tracks a single CMS round trip
type UpstreamCallTrace struct {
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// RouteMetrics aggregates metrics for a specific route
type RouteMetrics struct {
	Method       string        `json:"method"`
	Path         string        `json:"path"`
	Count        int64         `json:"count"`
	ErrorCount   int64         `json:"errorCount"`
	TotalTime    time.Duration `json:"totalTime"`
	AvgTime      time.Duration `json:"avgTime"`
	MinTime      time.Duration `json:"minTime"`
	MaxTime      time.Duration `json:"maxTime"`
	P95Time      time.Duration `json:"p95Time"`
	UpstreamTime time.Duration `json:"upstreamTime"`
	LastRequest  time.Time     `json:"lastRequest"`
}

// MetricsCollector collects and aggregates request metrics. Collection is
// best-effort and never blocks a request: traces go through a buffered
// channel and are dropped when it is full.
type MetricsCollector struct {
	mu             sync.RWMutex
	traces         []RequestTrace
	maxTraces      int
	routeMetrics   map[string]*RouteMetrics
	windowStart    time.Time
	windowDuration time.Duration
	totalRequests  int64
	totalErrors    int64
	totalUpstream  int64
	upstreamTime   time.Duration
	traceChan      chan RequestTrace
	stopChan       chan struct{}
}

var globalMetrics *MetricsCollector

// InitMetrics initializes the global metrics collector
func InitMetrics(maxTraces int, windowDuration time.Duration) {
	globalMetrics = &MetricsCollector{
		traces:         make([]RequestTrace, 0, maxTraces),
		maxTraces:      maxTraces,
		routeMetrics:   make(map[string]*RouteMetrics),
		windowStart:    time.Now(),
		windowDuration: windowDuration,
		traceChan:      make(chan RequestTrace, 1000),
		stopChan:       make(chan struct{}),
	}
	go globalMetrics.processTraces()
	go globalMetrics.cleanup()
}

// GetMetrics returns the global metrics collector
func GetMetrics() *MetricsCollector {
	if globalMetrics == nil {
		InitMetrics(10000, 1*time.Hour)
	}
	return globalMetrics
}

// RecordTrace queues a trace for aggregation; drops it if the queue is full
func (mc *MetricsCollector) RecordTrace(trace RequestTrace) {
	select {
	case mc.traceChan <- trace:
	default:
	}
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
	defer func() {
		// metrics must never take the service down
		_ = recover()
	}()

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if len(mc.traces) >= mc.maxTraces {
		mc.traces = mc.traces[1:]
	}
	mc.traces = append(mc.traces, trace)

	routeKey := trace.Method + " " + normalizeRoutePath(trace.Path)
	metrics, exists := mc.routeMetrics[routeKey]
	if !exists {
		metrics = &RouteMetrics{
			Method:  trace.Method,
			Path:    trace.Path,
			MinTime: trace.TotalDuration,
		}
		mc.routeMetrics[routeKey] = metrics
	}

	metrics.Count++
	metrics.TotalTime += trace.TotalDuration
	metrics.AvgTime = metrics.TotalTime / time.Duration(metrics.Count)
	metrics.LastRequest = trace.StartTime
	metrics.UpstreamTime += trace.UpstreamTime

	if trace.TotalDuration < metrics.MinTime {
		metrics.MinTime = trace.TotalDuration
	}
	if trace.TotalDuration > metrics.MaxTime {
		metrics.MaxTime = trace.TotalDuration
	}
	if trace.Status >= 400 {
		metrics.ErrorCount++
		mc.totalErrors++
	}

	mc.totalRequests++
	mc.totalUpstream += int64(len(trace.Upstream))
	mc.upstreamTime += trace.UpstreamTime

	if metrics.Count%100 == 0 {
		mc.calculatePercentiles(routeKey)
	}
}

// GetTraces returns the most recent traces started after since
func (mc *MetricsCollector) GetTraces(limit int, since time.Time) []RequestTrace {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	var filtered []RequestTrace
	for i := len(mc.traces) - 1; i >= 0 && len(filtered) < limit; i-- {
		if mc.traces[i].StartTime.After(since) {
			filtered = append([]RequestTrace{mc.traces[i]}, filtered...)
		}
	}
	return filtered
}

// GetRouteMetrics returns aggregated metrics for all routes
func (mc *MetricsCollector) GetRouteMetrics() map[string]*RouteMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	result := make(map[string]*RouteMetrics, len(mc.routeMetrics))
	for k, v := range mc.routeMetrics {
		metrics := *v
		result[k] = &metrics
	}
	return result
}

// GetSummary returns overall summary metrics
func (mc *MetricsCollector) GetSummary() map[string]interface{} {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	elapsed := time.Since(mc.windowStart)
	if elapsed > mc.windowDuration {
		elapsed = mc.windowDuration
	}
	var tps float64
	if elapsed.Seconds() > 0 {
		tps = float64(mc.totalRequests) / elapsed.Seconds()
	}
	var errorRate float64
	if mc.totalRequests > 0 {
		errorRate = float64(mc.totalErrors) / float64(mc.totalRequests)
	}
	var avgUpstream time.Duration
	if mc.totalUpstream > 0 {
		avgUpstream = mc.upstreamTime / time.Duration(mc.totalUpstream)
	}

	return map[string]interface{}{
		"totalRequests":      mc.totalRequests,
		"totalErrors":        mc.totalErrors,
		"errorRate":          errorRate,
		"tps":                tps,
		"totalUpstreamCalls": mc.totalUpstream,
		"totalUpstreamTime":  mc.upstreamTime.String(),
		"avgUpstreamTime":    avgUpstream.String(),
		"windowStart":        mc.windowStart,
		"routeCount":         len(mc.routeMetrics),
		"traceCount":         len(mc.traces),
	}
}

// GetSlowestRoutes returns routes ordered by average time, slowest first
func (mc *MetricsCollector) GetSlowestRoutes(limit, offset int) []*RouteMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	routes := make([]*RouteMetrics, 0, len(mc.routeMetrics))
	for _, metrics := range mc.routeMetrics {
		m := *metrics
		routes = append(routes, &m)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].AvgTime > routes[j].AvgTime })
	return paginate(routes, limit, offset)
}

func paginate(routes []*RouteMetrics, limit, offset int) []*RouteMetrics {
	if offset >= len(routes) {
		return []*RouteMetrics{}
	}
	end := offset + limit
	if end > len(routes) {
		end = len(routes)
	}
	return routes[offset:end]
}

// normalizeRoutePath groups dynamic path segments so /notices/some-slug and
// /notices/other-slug land in the same bucket
func normalizeRoutePath(path string) string {
	uuidPattern := regexp.MustCompile(`/[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}(/|$)`)
	path = uuidPattern.ReplaceAllString(path, "/{id}$1")

	numericPattern := regexp.MustCompile(`/\d+(/|$)`)
	path = numericPattern.ReplaceAllString(path, "/{id}$1")

	for _, prefix := range []string{"/api/v1/notices/", "/api/v1/press-releases/"} {
		if strings.HasPrefix(path, prefix) && !strings.Contains(path[len(prefix):], "/") {
			rest := path[len(prefix):]
			if rest != "" && rest != "featured" && rest != "{id}" {
				path = prefix + "{slug}"
			}
		}
	}

	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}

func (mc *MetricsCollector) calculatePercentiles(routeKey string) {
	metrics := mc.routeMetrics[routeKey]
	if metrics == nil {
		return
	}
	var durations []time.Duration
	for _, trace := range mc.traces {
		if trace.Method+" "+normalizeRoutePath(trace.Path) == routeKey {
			durations = append(durations, trace.TotalDuration)
		}
	}
	if len(durations) == 0 {
		return
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	idx := int(float64(len(durations)) * 0.95)
	if idx >= len(durations) {
		idx = len(durations) - 1
	}
	metrics.P95Time = durations[idx]
}

func (mc *MetricsCollector) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
		case <-mc.stopChan:
			return
		}
		mc.mu.Lock()
		now := time.Now()
		cutoff := now.Add(-mc.windowDuration)
		var valid []RequestTrace
		for _, trace := range mc.traces {
			if trace.StartTime.After(cutoff) {
				valid = append(valid, trace)
			}
		}
		mc.traces = valid
		if now.Sub(mc.windowStart) > mc.windowDuration {
			mc.windowStart = now
		}
		mc.mu.Unlock()
	}
}

type requestTraceContextKey struct{}

type requestTraceContext struct {
	trace *RequestTrace
	mu    sync.Mutex
}

func getRequestTraceFromContext(ctx context.Context) *requestTraceContext {
	if val := ctx.Value(requestTraceContextKey{}); val != nil {
		return val.(*requestTraceContext)
	}
	return nil
}

// WithRequestTrace adds a request trace to the context
func WithRequestTrace(ctx context.Context, trace *RequestTrace) context.Context {
	return context.WithValue(ctx, requestTraceContextKey{}, &requestTraceContext{trace: trace})
}

// RecordUpstreamCall attributes one CMS round trip to the request in ctx.
// Requests without a trace (the scheduler's background fetches) are skipped.
func RecordUpstreamCall(ctx context.Context, method, path string, duration time.Duration, err error) {
	reqTrace := getRequestTraceFromContext(ctx)
	if reqTrace == nil || reqTrace.trace == nil {
		return
	}
	call := UpstreamCallTrace{
		Method:    method,
		Path:      path,
		Duration:  duration,
		Timestamp: time.Now(),
	}
	if err != nil {
		call.Error = err.Error()
	}
	reqTrace.mu.Lock()
	reqTrace.trace.Upstream = append(reqTrace.trace.Upstream, call)
	reqTrace.trace.UpstreamTime += duration
	reqTrace.mu.Unlock()
}
