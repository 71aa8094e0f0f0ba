package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	resolveDuration prom.Histogram
	resolveResults  *prom.CounterVec
	reloads         *prom.CounterVec
	lastSuccess     prom.Gauge
}

// NewPrometheusRecorder constructs and registers the resolver metrics on reg.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		resolveDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docsite",
			Name:      "resolve_duration_seconds",
			Help:      "Duration of loading and resolving the site configuration",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5},
		}),
		resolveResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsite",
			Name:      "resolve_results_total",
			Help:      "Configuration resolutions by outcome",
		}, []string{"result"}),
		reloads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsite",
			Name:      "reload_events_total",
			Help:      "File events that triggered a configuration reload",
		}, []string{"event"}),
		lastSuccess: prom.NewGauge(prom.GaugeOpts{
			Namespace: "docsite",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful resolution",
		}),
	}
	reg.MustRegister(pr.resolveDuration, pr.resolveResults, pr.reloads, pr.lastSuccess)
	return pr
}

func (p *PrometheusRecorder) ObserveResolveDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.resolveDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncResolveResult(result ResultLabel) {
	if p == nil {
		return
	}
	p.resolveResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncReload(event string) {
	if p == nil {
		return
	}
	p.reloads.WithLabelValues(event).Inc()
}

func (p *PrometheusRecorder) SetLastSuccess(t time.Time) {
	if p == nil {
		return
	}
	p.lastSuccess.Set(float64(t.Unix()))
}
