package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/crestmont/site-api/api"
	"github.com/crestmont/site-api/config"
)

// Metrics exposes the in-process request metrics to the admin panel
type Metrics struct{}

// formatRouteMetrics converts duration fields to milliseconds for JSON
// serialization
func formatRouteMetrics(routes []*api.RouteMetrics) []map[string]interface{} {
	result := make([]map[string]interface{}, len(routes))
	for i, route := range routes {
		result[i] = map[string]interface{}{
			"method":       route.Method,
			"path":         route.Path,
			"count":        route.Count,
			"errorCount":   route.ErrorCount,
			"avgTime":      route.AvgTime.Milliseconds(),
			"minTime":      route.MinTime.Milliseconds(),
			"maxTime":      route.MaxTime.Milliseconds(),
			"p95Time":      route.P95Time.Milliseconds(),
			"upstreamTime": route.UpstreamTime.Milliseconds(),
			"lastRequest":  route.LastRequest,
		}
	}
	return result
}

// formatTraces converts trace durations to milliseconds
func formatTraces(traces []api.RequestTrace) []map[string]interface{} {
	result := make([]map[string]interface{}, len(traces))
	for i, trace := range traces {
		upstream := make([]map[string]interface{}, len(trace.Upstream))
		for j, u := range trace.Upstream {
			upstream[j] = map[string]interface{}{
				"method":    u.Method,
				"path":      u.Path,
				"duration":  u.Duration.Milliseconds(),
				"error":     u.Error,
				"timestamp": u.Timestamp,
			}
		}
		result[i] = map[string]interface{}{
			"requestId":     trace.RequestID,
			"method":        trace.Method,
			"path":          trace.Path,
			"status":        trace.Status,
			"startTime":     trace.StartTime,
			"endTime":       trace.EndTime,
			"totalDuration": trace.TotalDuration.Milliseconds(),
			"upstream":      upstream,
			"upstreamTime":  trace.UpstreamTime.Milliseconds(),
			"error":         trace.Error,
		}
	}
	return result
}

// TracesHandler returns recent request traces
func (m Metrics) TracesHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 500 {
		limit = 100
	}
	sinceMinutes, _ := strconv.Atoi(r.URL.Query().Get("sinceMinutes"))
	if sinceMinutes < 1 {
		sinceMinutes = 60
	}
	since := time.Now().Add(-time.Duration(sinceMinutes) * time.Minute)

	traces := api.GetMetrics().GetTraces(limit, since)
	b, err := json.Marshal(map[string]interface{}{
		"traces": formatTraces(traces),
		"count":  len(traces),
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// SummaryHandler returns overall request statistics
func (m Metrics) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	b, err := json.Marshal(api.GetMetrics().GetSummary())
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// RoutesHandler returns per-route aggregates, slowest first
func (m Metrics) RoutesHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	routes := api.GetMetrics().GetSlowestRoutes(limit, offset)
	b, err := json.Marshal(map[string]interface{}{
		"routes": formatRouteMetrics(routes),
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
