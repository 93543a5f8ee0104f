package model

import "time"

// Search types recorded by query analytics.
const (
	SearchTypeExact   = "exact"
	SearchTypeSuggest = "suggest"
)

// SearchEvent represents a single query served by the query API
type SearchEvent struct {
	Query        string        `json:"query"`
	SearchType   string        `json:"search_type"` // SearchTypeExact or SearchTypeSuggest
	ResponseTime time.Duration `json:"response_time"`
	ResultCount  int           `json:"result_count"` // Total hits before offset and limit
	Timestamp    time.Time     `json:"timestamp"`
}

// PopularSearch represents a frequently issued query
type PopularSearch struct {
	Query       string `json:"query"`
	SearchCount int    `json:"search_count"`
}

// ResponseTimeDistribution buckets response times of recent searches
type ResponseTimeDistribution struct {
	Bucket0To25ms     int     `json:"bucket_0_25ms"`
	Bucket25To50ms    int     `json:"bucket_25_50ms"`
	Bucket50To100ms   int     `json:"bucket_50_100ms"`
	Bucket100msPlus   int     `json:"bucket_100ms_plus"`
	Percentage0To25   float64 `json:"percentage_0_25"`
	Percentage25To50  float64 `json:"percentage_25_50"`
	Percentage50To100 float64 `json:"percentage_50_100"`
	Percentage100Plus float64 `json:"percentage_100_plus"`
}

// SearchTypeStats counts searches per search type
type SearchTypeStats struct {
	Exact   int `json:"exact"`
	Suggest int `json:"suggest"`
}

// SearchPerformanceHourly represents search volume and latency for one hour of the day
type SearchPerformanceHourly struct {
	Hour            int   `json:"hour"`
	SearchCount     int   `json:"search_count"`
	AvgResponseTime int64 `json:"avg_response_time"` // in milliseconds
}

// AnalyticsDashboard summarizes query traffic of the last 24 hours and 7 days
type AnalyticsDashboard struct {
	TotalSearches         int     `json:"total_searches"`
	SearchesChangePercent float64 `json:"searches_change_percent"` // Last 24h against the 24h before
	AvgResponseTime       int64   `json:"avg_response_time"`       // in milliseconds
	ResponseTimeChange    string  `json:"response_time_change"`    // "up", "down" or "stable"
	TotalDocuments        int     `json:"total_documents"`
	ZeroResultRate        float64 `json:"zero_result_rate"` // Percentage of searches without hits

	SearchPerformance24h     []SearchPerformanceHourly `json:"search_performance_24h"`
	PopularSearches          []PopularSearch           `json:"popular_searches"`
	ZeroResultSearches       []PopularSearch           `json:"zero_result_searches"` // Queries the site could not answer
	ResponseTimeDistribution ResponseTimeDistribution  `json:"response_time_distribution"`
	SearchTypes              SearchTypeStats           `json:"search_types"`
}
