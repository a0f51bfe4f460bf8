package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"BlogScout/internal/domain"
	"BlogScout/internal/ports"
)

// Recorder counts pipeline outcomes in its own registry so a run can be pushed
// to a Prometheus pushgateway when it finishes.
type Recorder struct {
	registry      *prometheus.Registry
	candidates    prometheus.Counter
	decisions     *prometheus.CounterVec
	modelFailures *prometheus.CounterVec
	kept          prometheus.Counter
	lastRun       prometheus.Gauge
}

var _ ports.Recorder = (*Recorder)(nil)

// NewRecorder registers the run metrics.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		candidates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blogscout_candidates_total",
			Help: "Candidate article links discovered on the listing page.",
		}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogscout_decisions_total",
			Help: "Per-candidate pipeline outcomes.",
		}, []string{"decision"}),
		modelFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogscout_model_failures_total",
			Help: "Language model calls that failed or returned unusable output.",
		}, []string{"call"}),
		kept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blogscout_kept_total",
			Help: "Articles that cleared the relevance threshold.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "blogscout_last_run_timestamp_seconds",
			Help: "Unix time the last run finished.",
		}),
	}
	r.registry.MustRegister(r.candidates, r.decisions, r.modelFailures, r.kept, r.lastRun)
	return r
}

// Candidates adds discovered links.
func (r *Recorder) Candidates(n int) {
	r.candidates.Add(float64(n))
}

// Decision counts one candidate outcome.
func (r *Recorder) Decision(d domain.Decision) {
	r.decisions.WithLabelValues(string(d)).Inc()
	if d == domain.DecisionKeep {
		r.kept.Inc()
	}
}

// ModelFailure counts a failed summary, keywords or evaluation call.
func (r *Recorder) ModelFailure(call string) {
	r.modelFailures.WithLabelValues(call).Inc()
}

// Registry exposes the underlying registry (tests, custom exporters).
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Push stamps the finish time and sends everything to the pushgateway.
func (r *Recorder) Push(ctx context.Context, gatewayURL, job string, finished time.Time) error {
	r.lastRun.Set(float64(finished.Unix()))
	if err := push.New(gatewayURL, job).Gatherer(r.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
