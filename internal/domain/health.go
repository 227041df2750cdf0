package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Detail      string `json:"detail,omitempty"`
	LastChecked string `json:"lastChecked"`
}

// MetricsSummary is returned by GET /api/metrics/summary.
type MetricsSummary struct {
	DirectoryCacheHits   int64   `json:"directoryCacheHits"`
	DirectoryCacheMisses int64   `json:"directoryCacheMisses"`
	CacheHitRate         float64 `json:"cacheHitRate"`
	UpstreamErrors       int64   `json:"upstreamErrors"`
	DegradedResults      int64   `json:"degradedResults"`
	Period               string  `json:"period"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Message string `json:"message"`
}
