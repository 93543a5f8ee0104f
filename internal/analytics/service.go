// Package analytics records served queries and summarizes them for site owners.
package analytics

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gcbaptista/go-site-index/model"
)

const (
	// DefaultMaxEvents bounds the number of events kept in memory.
	DefaultMaxEvents = 10000
	topQueries       = 5
)

// Service keeps a bounded window of search events
type Service struct {
	mutex     sync.RWMutex
	events    []model.SearchEvent
	maxEvents int
	now       func() time.Time
}

// NewService creates an analytics service keeping at most maxEvents events
func NewService(maxEvents int) *Service {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	return &Service{
		events:    make([]model.SearchEvent, 0),
		maxEvents: maxEvents,
		now:       time.Now,
	}
}

// TrackSearchEvent records a search. A zero Timestamp is set to the current time.
func (s *Service) TrackSearchEvent(event model.SearchEvent) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	event.Query = strings.ToLower(strings.TrimSpace(event.Query))
	s.events = append(s.events, event)

	if len(s.events) > s.maxEvents {
		s.events = s.events[len(s.events)-s.maxEvents:]
	}
}

// EventCount returns the number of events currently kept
func (s *Service) EventCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.events)
}

// GetDashboardData summarizes recent traffic; documentCount is the size of the loaded index
func (s *Service) GetDashboardData(documentCount int) model.AnalyticsDashboard {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	now := s.now()
	yesterday := now.Add(-24 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)

	last24h := filterEventsByTimeRange(s.events, yesterday, now)
	previous24h := filterEventsByTimeRange(s.events, yesterday.Add(-24*time.Hour), yesterday)
	week := filterEventsByTimeRange(s.events, lastWeek, now)

	return model.AnalyticsDashboard{
		TotalSearches:            len(last24h),
		SearchesChangePercent:    calculateChangePercent(len(last24h), len(previous24h)),
		AvgResponseTime:          calculateAvgResponseTime(last24h),
		ResponseTimeChange:       calculateResponseTimeChange(last24h, previous24h),
		TotalDocuments:           documentCount,
		ZeroResultRate:           zeroResultRate(last24h),
		SearchPerformance24h:     hourlyPerformance(last24h),
		PopularSearches:          popularSearches(week, func(model.SearchEvent) bool { return true }),
		ZeroResultSearches:       popularSearches(week, func(e model.SearchEvent) bool { return e.ResultCount == 0 }),
		ResponseTimeDistribution: responseTimeDistribution(last24h),
		SearchTypes:              searchTypeStats(last24h),
	}
}

// filterEventsByTimeRange returns events in (start, end]
func filterEventsByTimeRange(events []model.SearchEvent, start, end time.Time) []model.SearchEvent {
	var filtered []model.SearchEvent
	for _, event := range events {
		if event.Timestamp.After(start) && !event.Timestamp.After(end) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

func calculateChangePercent(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100.0
		}
		return 0.0
	}
	return float64(current-previous) / float64(previous) * 100.0
}

// calculateAvgResponseTime returns the mean response time in milliseconds
func calculateAvgResponseTime(events []model.SearchEvent) int64 {
	if len(events) == 0 {
		return 0
	}
	var total time.Duration
	for _, event := range events {
		total += event.ResponseTime
	}
	return (total / time.Duration(len(events))).Milliseconds()
}

func calculateResponseTimeChange(current, previous []model.SearchEvent) string {
	currentAvg := calculateAvgResponseTime(current)
	previousAvg := calculateAvgResponseTime(previous)
	if previousAvg == 0 {
		return "stable"
	}

	change := float64(currentAvg-previousAvg) / float64(previousAvg)
	switch {
	case change > 0.1:
		return "up"
	case change < -0.1:
		return "down"
	}
	return "stable"
}

func zeroResultRate(events []model.SearchEvent) float64 {
	if len(events) == 0 {
		return 0
	}
	zero := 0
	for _, event := range events {
		if event.ResultCount == 0 {
			zero++
		}
	}
	return float64(zero) / float64(len(events)) * 100
}

func hourlyPerformance(events []model.SearchEvent) []model.SearchPerformanceHourly {
	hourlyData := make(map[int][]model.SearchEvent)
	for _, event := range events {
		hour := event.Timestamp.Hour()
		hourlyData[hour] = append(hourlyData[hour], event)
	}

	performance := make([]model.SearchPerformanceHourly, 0, 24)
	for hour := 0; hour < 24; hour++ {
		performance = append(performance, model.SearchPerformanceHourly{
			Hour:            hour,
			SearchCount:     len(hourlyData[hour]),
			AvgResponseTime: calculateAvgResponseTime(hourlyData[hour]),
		})
	}
	return performance
}

// popularSearches returns the most frequent queries among events accepted by include.
// Ties are broken alphabetically.
func popularSearches(events []model.SearchEvent, include func(model.SearchEvent) bool) []model.PopularSearch {
	queryCounts := make(map[string]int)
	for _, event := range events {
		if event.Query != "" && include(event) {
			queryCounts[event.Query]++
		}
	}

	popular := make([]model.PopularSearch, 0, len(queryCounts))
	for query, count := range queryCounts {
		popular = append(popular, model.PopularSearch{Query: query, SearchCount: count})
	}
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].SearchCount != popular[j].SearchCount {
			return popular[i].SearchCount > popular[j].SearchCount
		}
		return popular[i].Query < popular[j].Query
	})

	if len(popular) > topQueries {
		popular = popular[:topQueries]
	}
	return popular
}

func responseTimeDistribution(events []model.SearchEvent) model.ResponseTimeDistribution {
	dist := model.ResponseTimeDistribution{}
	total := len(events)
	if total == 0 {
		return dist
	}

	for _, event := range events {
		ms := event.ResponseTime.Milliseconds()
		switch {
		case ms <= 25:
			dist.Bucket0To25ms++
		case ms <= 50:
			dist.Bucket25To50ms++
		case ms <= 100:
			dist.Bucket50To100ms++
		default:
			dist.Bucket100msPlus++
		}
	}

	dist.Percentage0To25 = float64(dist.Bucket0To25ms) / float64(total) * 100
	dist.Percentage25To50 = float64(dist.Bucket25To50ms) / float64(total) * 100
	dist.Percentage50To100 = float64(dist.Bucket50To100ms) / float64(total) * 100
	dist.Percentage100Plus = float64(dist.Bucket100msPlus) / float64(total) * 100
	return dist
}

func searchTypeStats(events []model.SearchEvent) model.SearchTypeStats {
	stats := model.SearchTypeStats{}
	for _, event := range events {
		switch event.SearchType {
		case model.SearchTypeSuggest:
			stats.Suggest++
		default:
			stats.Exact++
		}
	}
	return stats
}
