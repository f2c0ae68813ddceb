package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type uniqueReviewers struct {
	counter   prometheus.Gauge
	reviewers map[uint]struct{}
	mu        sync.Mutex
}

var totalUniqueReviewersPerWeekMetric = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Subsystem: assetQC,
		Name:      "reviewers_count_per_week",
		Help:      "number of distinct reviewers who recorded a decision this week",
	},
)

// UniqueReviewersPerWeek is reset weekly by the metrics server.
var UniqueReviewersPerWeek = &uniqueReviewers{
	counter:   totalUniqueReviewersPerWeekMetric,
	reviewers: make(map[uint]struct{}),
}

func (u *uniqueReviewers) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.reviewers = make(map[uint]struct{})
	u.counter.Set(0)
}

func (u *uniqueReviewers) Add(reviewerID uint) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, exists := u.reviewers[reviewerID]; exists {
		return
	}
	u.reviewers[reviewerID] = struct{}{}
	u.counter.Inc()
}

func (u *uniqueReviewers) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.reviewers)
}
