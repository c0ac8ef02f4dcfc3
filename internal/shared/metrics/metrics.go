// Package metrics records per-run counters on a private registry and pushes them
// to a Prometheus Pushgateway when the run ends.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/samber/oops"
)

const namespace = "autopost"

// Recorder collects run metrics. A nil Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry
	pushURL  string
	job      string

	draftsGenerated *prometheus.CounterVec
	decisions       *prometheus.CounterVec
	regenerations   *prometheus.CounterVec
	published       *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
}

// New creates a recorder. pushURL may be empty, in which case Push is a no-op.
func New(pushURL, job string) *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		pushURL:  pushURL,
		job:      job,
		draftsGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "drafts_generated_total",
				Help:      "Drafts produced by the generation gateway",
			},
			[]string{"platform", "kind"},
		),
		decisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "approval_decisions_total",
				Help:      "Review decisions by outcome",
			},
			[]string{"decision"},
		),
		regenerations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "regenerations_total",
				Help:      "Draft regenerations by reason",
			},
			[]string{"platform", "reason"},
		),
		published: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "publish_total",
				Help:      "Publish attempts by status",
			},
			[]string{"platform", "status"},
		),
		runDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of workflow runs",
				Buckets:   []float64{1, 5, 15, 30, 60, 300, 900, 3600},
			},
			[]string{"mode", "outcome"},
		),
	}
}

func (r *Recorder) DraftGenerated(platform, kind string) {
	if r == nil {
		return
	}
	r.draftsGenerated.WithLabelValues(platform, kind).Inc()
}

func (r *Recorder) Decision(decision string) {
	if r == nil {
		return
	}
	r.decisions.WithLabelValues(decision).Inc()
}

func (r *Recorder) Regenerated(platform, reason string) {
	if r == nil {
		return
	}
	r.regenerations.WithLabelValues(platform, reason).Inc()
}

func (r *Recorder) Published(platform, status string) {
	if r == nil {
		return
	}
	r.published.WithLabelValues(platform, status).Inc()
}

func (r *Recorder) ObserveRun(mode, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.runDuration.WithLabelValues(mode, outcome).Observe(d.Seconds())
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Push sends all collected metrics to the Pushgateway, replacing the job's previous group.
func (r *Recorder) Push(ctx context.Context) error {
	if r == nil || r.pushURL == "" {
		return nil
	}
	if err := push.New(r.pushURL, r.job).Gatherer(r.registry).PushContext(ctx); err != nil {
		return oops.With("pushgateway_url", r.pushURL, "job", r.job).Wrap(err)
	}
	return nil
}
