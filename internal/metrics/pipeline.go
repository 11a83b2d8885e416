package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline Prometheus metrics.
var (
	ReviewsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reviewrank",
			Name:      "reviews_total",
			Help:      "Reviews seen by each pipeline stage",
		},
		[]string{"stage"}, // "input" / "kept" / "scored"
	)

	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reviewrank",
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"stage"},
	)

	VocabularySize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "reviewrank",
			Name:      "vocabulary_size",
			Help:      "Terms kept by the last vectorization",
		},
	)

	FitRMSE = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "reviewrank",
			Name:      "fit_rmse",
			Help:      "In-sample root mean squared error of the last ranking run",
		},
	)

	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reviewrank",
			Name:      "runs_total",
			Help:      "Ranking runs by outcome",
		},
		[]string{"status"}, // "ok" / "error"
	)
)

// Register registers the pipeline metrics with reg. Collectors that are
// already registered are skipped.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		ReviewsTotal,
		StageDuration,
		VocabularySize,
		FitRMSE,
		RunsTotal,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}
