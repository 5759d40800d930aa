package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "nanobundle"

// Recorder backed by Prometheus collectors.
type PrometheusRecorder struct {
	registry      *prom.Registry
	taskDuration  *prom.HistogramVec
	taskResults   *prom.CounterVec
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	concurrency   prom.Gauge
}

// Creates a recorder and registers its collectors with reg. A nil registry
// selects a new private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}

	pr := &PrometheusRecorder{
		registry: reg,
		taskDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Time spent compiling one entry for one target",
			Buckets:   prom.DefBuckets,
		}, []string{"target"}),
		taskResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "task_results_total",
			Help:      "Build task outcomes by target and result",
		}, []string{"target", "result"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Wall time of a whole build run",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build runs by final status",
		}, []string{"outcome"}),
		concurrency: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "build_concurrency",
			Help:      "Task concurrency limit of the last run",
		}),
	}

	reg.MustRegister(pr.taskDuration, pr.taskResults, pr.buildDuration, pr.buildOutcome, pr.concurrency)
	return pr
}

func (pr *PrometheusRecorder) ObserveTaskDuration(target string, d time.Duration) {
	pr.taskDuration.WithLabelValues(target).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncTaskResult(target string, result ResultLabel) {
	pr.taskResults.WithLabelValues(target, string(result)).Inc()
}

func (pr *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	pr.buildDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncBuildOutcome(outcome string) {
	pr.buildOutcome.WithLabelValues(outcome).Inc()
}

func (pr *PrometheusRecorder) SetConcurrency(n int) {
	pr.concurrency.Set(float64(n))
}

// Writes the collected metrics to path in the text exposition format. The
// file is replaced atomically.
func (pr *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, pr.registry)
}
