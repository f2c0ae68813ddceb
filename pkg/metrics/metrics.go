package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	assetQC = "asset_qc"

	decisionsTotal      = "decisions_total"
	submissionsTotal    = "submissions_total"
	reviewFailuresTotal = "review_failures_total"
	workStartedTotal    = "work_started_total"

	decisionLabel = "decision"
	reasonLabel   = "reason"
)

// Failure reasons reported by qc_review_failures_total.
const (
	ReasonForbidden         = "forbidden"
	ReasonInvalidDecision   = "invalid_decision"
	ReasonInvalidScore      = "invalid_score"
	ReasonInvalidChecklist  = "invalid_checklist"
	ReasonNotFound          = "not_found"
	ReasonPersistence       = "persistence"
	ReasonInvalidTransition = "invalid_transition"
)

var decisionsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: assetQC,
		Name:      decisionsTotal,
		Help:      "number of committed qc decisions",
	},
	[]string{decisionLabel},
)

var submissionsTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: assetQC,
		Name:      submissionsTotal,
		Help:      "number of assets submitted for qc",
	},
)

var reviewFailuresTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: assetQC,
		Name:      reviewFailuresTotal,
		Help:      "number of workflow calls rejected or failed, by reason",
	},
	[]string{reasonLabel},
)

var workStartedTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: assetQC,
		Name:      workStartedTotal,
		Help:      "number of assets moved into production",
	},
)

func IncreaseDecisionsTotalMetric(decision string) {
	decisionsTotalMetric.With(prometheus.Labels{decisionLabel: decision}).Inc()
}

func IncreaseSubmissionsTotalMetric() {
	submissionsTotalMetric.Inc()
}

func IncreaseWorkStartedTotalMetric() {
	workStartedTotalMetric.Inc()
}

func IncreaseReviewFailuresTotalMetric(reason string) {
	reviewFailuresTotalMetric.With(prometheus.Labels{reasonLabel: reason}).Inc()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(decisionsTotalMetric)
	prometheus.MustRegister(submissionsTotalMetric)
	prometheus.MustRegister(reviewFailuresTotalMetric)
	prometheus.MustRegister(workStartedTotalMetric)
	prometheus.MustRegister(totalUniqueReviewersPerWeekMetric)
}
