package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-site-index/model"
)

func newTestService(now time.Time, maxEvents int) *Service {
	s := NewService(maxEvents)
	s.now = func() time.Time { return now }
	return s
}

func TestAnalyticsService_TrackSearchEvent(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	service := newTestService(now, 0)

	service.TrackSearchEvent(model.SearchEvent{
		Query:        "  Install Guide ",
		SearchType:   model.SearchTypeExact,
		ResponseTime: 50 * time.Millisecond,
		ResultCount:  10,
	})

	require.Equal(t, 1, service.EventCount())
	stored := service.events[0]
	assert.Equal(t, "install guide", stored.Query)
	assert.Equal(t, now, stored.Timestamp)
}

func TestAnalyticsService_KeepsBoundedWindow(t *testing.T) {
	service := newTestService(time.Now(), 3)

	for _, q := range []string{"a", "b", "c", "d", "e"} {
		service.TrackSearchEvent(model.SearchEvent{Query: q})
	}

	require.Equal(t, 3, service.EventCount())
	assert.Equal(t, "c", service.events[0].Query)
	assert.Equal(t, "e", service.events[2].Query)
}

func TestAnalyticsService_GetDashboardData(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	service := newTestService(now, 0)

	events := []model.SearchEvent{
		{Query: "install", SearchType: model.SearchTypeExact, ResponseTime: 10 * time.Millisecond, ResultCount: 3, Timestamp: now.Add(-time.Hour)},
		{Query: "install", SearchType: model.SearchTypeExact, ResponseTime: 30 * time.Millisecond, ResultCount: 3, Timestamp: now.Add(-2 * time.Hour)},
		{Query: "kubernetes", SearchType: model.SearchTypeSuggest, ResponseTime: 80 * time.Millisecond, ResultCount: 0, Timestamp: now.Add(-3 * time.Hour)},
		{Query: "pricing", SearchType: model.SearchTypeExact, ResponseTime: 200 * time.Millisecond, ResultCount: 1, Timestamp: now.Add(-4 * time.Hour)},
		// previous day
		{Query: "install", ResponseTime: 40 * time.Millisecond, ResultCount: 3, Timestamp: now.Add(-30 * time.Hour)},
		{Query: "kubernetes", ResponseTime: 40 * time.Millisecond, ResultCount: 0, Timestamp: now.Add(-31 * time.Hour)},
		// outside the weekly window
		{Query: "ancient", ResultCount: 0, Timestamp: now.Add(-10 * 24 * time.Hour)},
	}
	for _, e := range events {
		service.TrackSearchEvent(e)
	}

	dashboard := service.GetDashboardData(42)

	assert.Equal(t, 4, dashboard.TotalSearches)
	assert.Equal(t, 100.0, dashboard.SearchesChangePercent)
	assert.Equal(t, int64(80), dashboard.AvgResponseTime)
	assert.Equal(t, "up", dashboard.ResponseTimeChange)
	assert.Equal(t, 42, dashboard.TotalDocuments)
	assert.Equal(t, 25.0, dashboard.ZeroResultRate)

	require.NotEmpty(t, dashboard.PopularSearches)
	assert.Equal(t, model.PopularSearch{Query: "install", SearchCount: 3}, dashboard.PopularSearches[0])
	assert.Equal(t, []model.PopularSearch{{Query: "kubernetes", SearchCount: 2}}, dashboard.ZeroResultSearches)

	assert.Equal(t, 1, dashboard.ResponseTimeDistribution.Bucket0To25ms)
	assert.Equal(t, 1, dashboard.ResponseTimeDistribution.Bucket25To50ms)
	assert.Equal(t, 1, dashboard.ResponseTimeDistribution.Bucket50To100ms)
	assert.Equal(t, 1, dashboard.ResponseTimeDistribution.Bucket100msPlus)
	assert.Equal(t, 25.0, dashboard.ResponseTimeDistribution.Percentage100Plus)

	assert.Equal(t, model.SearchTypeStats{Exact: 3, Suggest: 1}, dashboard.SearchTypes)

	require.Len(t, dashboard.SearchPerformance24h, 24)
	assert.Equal(t, 1, dashboard.SearchPerformance24h[11].SearchCount)
	assert.Equal(t, int64(10), dashboard.SearchPerformance24h[11].AvgResponseTime)
}

func TestAnalyticsService_EmptyDashboard(t *testing.T) {
	dashboard := NewService(0).GetDashboardData(0)

	assert.Equal(t, 0, dashboard.TotalSearches)
	assert.Equal(t, "stable", dashboard.ResponseTimeChange)
	assert.Empty(t, dashboard.PopularSearches)
	assert.Equal(t, 0.0, dashboard.ZeroResultRate)
}
