package ai

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lingua",
		Subsystem: "ai",
		Name:      "evaluation_duration_seconds",
		Help:      "Duration of AI band evaluation requests",
	}, []string{"provider", "model"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lingua",
		Subsystem: "ai",
		Name:      "evaluation_failures_total",
		Help:      "Number of AI band evaluation failures",
	}, []string{"provider", "model"})
)

func observeDuration(provider, model string, start time.Time) {
	aiDuration.WithLabelValues(provider, model).Observe(time.Since(start).Seconds())
}

func recordFailure(span trace.Span, provider, model string, err error) error {
	aiFailures.WithLabelValues(provider, model).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
