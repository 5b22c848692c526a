package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	apiRequestsTotal     *prometheus.CounterVec
	apiLatencySeconds    *prometheus.HistogramVec
	apiErrorsTotal       *prometheus.CounterVec
	taskEvaluationsTotal *prometheus.CounterVec
	submissionScores     *prometheus.HistogramVec
	progressRecomputes   *prometheus.CounterVec
	levelChecksTotal     *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		taskEvaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "task_evaluations_total",
			Help: "Evaluated task submissions by task type and outcome.",
		}, []string{"task_type", "outcome"})

		submissionScores = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "submission_score_percent",
			Help:    "Distribution of scored lesson submissions.",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}, []string{"kind"})

		progressRecomputes = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "progress_recomputations_total",
			Help: "Progress recomputations by result.",
		}, []string{"result"})

		levelChecksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "level_checks_total",
			Help: "Level check attempts by skill and whether the fallback band was used.",
		}, []string{"skill", "fallback"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			taskEvaluationsTotal,
			submissionScores,
			progressRecomputes,
			levelChecksTotal,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// TaskEvaluations exposes the per task type evaluation counter.
func TaskEvaluations() *prometheus.CounterVec {
	RegisterMetrics()
	return taskEvaluationsTotal
}

// SubmissionScores exposes the score histogram labelled by submission kind.
func SubmissionScores() *prometheus.HistogramVec {
	RegisterMetrics()
	return submissionScores
}

// ProgressRecomputations exposes the recompute counter.
func ProgressRecomputations() *prometheus.CounterVec {
	RegisterMetrics()
	return progressRecomputes
}

// LevelChecks exposes the level check counter.
func LevelChecks() *prometheus.CounterVec {
	RegisterMetrics()
	return levelChecksTotal
}
