package metrics

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/agbru/fanbatch/internal/orchestration"
	"github.com/agbru/fanbatch/internal/outcome"
)

const namespace = "fanbatch"

// Recorder implements orchestration.Recorder on a private Prometheus
// registry, so several runs in one process do not share series.
type Recorder struct {
	registry *prometheus.Registry

	outcomesTotal         *prometheus.CounterVec
	faultsTotal           *prometheus.CounterVec
	workerDurationSeconds prometheus.Histogram
	runsTotal             *prometheus.CounterVec
	lastRunExpected       prometheus.Gauge
	lastRunReceived       prometheus.Gauge
	lastRunRejected       prometheus.Gauge
	lastRunSeconds        prometheus.Gauge
}

var _ orchestration.Recorder = (*Recorder)(nil)

// NewRecorder creates a Recorder with its collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		outcomesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "outcomes_total",
				Help:      "Total number of collected outcomes, labeled by status.",
			},
			[]string{"status"},
		),
		faultsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "worker_faults_total",
				Help:      "Total number of Error outcomes, labeled by fault kind.",
			},
			[]string{"kind"},
		),
		workerDurationSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "worker_duration_seconds",
				Help:      "Wall time of each worker goroutine (seconds).",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of summarized runs, labeled by verdict and reason.",
			},
			[]string{"verdict", "reason"},
		),
		lastRunExpected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_expected_outcomes",
			Help:      "Number of workers launched by the last run.",
		}),
		lastRunReceived: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_received_outcomes",
			Help:      "Number of outcomes collected by the last run.",
		}),
		lastRunRejected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_rejected_sends",
			Help:      "Number of sends the result channel refused during the last run.",
		}),
		lastRunSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Wall time of the last run (seconds).",
		}),
	}
	r.registry.MustRegister(
		r.outcomesTotal,
		r.faultsTotal,
		r.workerDurationSeconds,
		r.runsTotal,
		r.lastRunExpected,
		r.lastRunReceived,
		r.lastRunRejected,
		r.lastRunSeconds,
	)
	return r
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// RecordOutcome counts a collected outcome.
func (r *Recorder) RecordOutcome(o outcome.Outcome) {
	r.outcomesTotal.WithLabelValues(o.Status.String()).Inc()
	if !o.Succeeded() {
		r.faultsTotal.WithLabelValues(o.FaultKind).Inc()
	}
}

// RecordWorker observes a worker's wall time.
func (r *Recorder) RecordWorker(_ string, elapsed time.Duration) {
	r.workerDurationSeconds.Observe(elapsed.Seconds())
}

// RecordRun records the final summary.
func (r *Recorder) RecordRun(s orchestration.Summary) {
	r.runsTotal.WithLabelValues(s.Verdict.String(), string(s.Reason)).Inc()
	r.lastRunExpected.Set(float64(s.Expected))
	r.lastRunReceived.Set(float64(s.Received))
	r.lastRunRejected.Set(float64(s.Rejected))
	r.lastRunSeconds.Set(s.Elapsed.Seconds())
}

// WriteText writes every metric family in the Prometheus text format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// WriteFile writes the text exposition to path.
func (r *Recorder) WriteFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return r.WriteText(f)
}
