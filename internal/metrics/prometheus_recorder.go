package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docplugins"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	buildDuration  prom.Histogram
	buildOutcome   *prom.CounterVec
	pages          prom.Counter
	cardRenders    *prom.CounterVec
	renderDuration *prom.HistogramVec
	cacheResults   *prom.CounterVec
	rewrites       *prom.CounterVec
	excluded       prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total site build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.pages = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_processed_total",
			Help:      "Markdown pages processed",
		})
		pr.cardRenders = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "card_renders_total",
			Help:      "Social cards rendered by layout",
		}, []string{"layout"})
		pr.renderDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "card_render_duration_seconds",
			Help:      "Duration of individual card renders",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"layout"})
		pr.cacheResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "card_cache_results_total",
			Help:      "Card cache lookups by result",
		}, []string{"result"})
		pr.rewrites = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "tag_rewrites_total",
			Help:      "Pages whose HTML was rewritten, by plugin",
		}, []string{"plugin"})
		pr.excluded = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "excluded_files_total",
			Help:      "Source files dropped by exclude patterns",
		})
		reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.pages, pr.cardRenders, pr.renderDuration, pr.cacheResults, pr.rewrites, pr.excluded)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcome) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncPages(n int) {
	if p == nil || p.pages == nil {
		return
	}
	p.pages.Add(float64(n))
}

func (p *PrometheusRecorder) IncCardRender(layout string) {
	if p == nil || p.cardRenders == nil {
		return
	}
	p.cardRenders.WithLabelValues(layout).Inc()
}

func (p *PrometheusRecorder) ObserveRenderDuration(layout string, d time.Duration) {
	if p == nil || p.renderDuration == nil {
		return
	}
	p.renderDuration.WithLabelValues(layout).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncCacheResult(hit bool) {
	if p == nil || p.cacheResults == nil {
		return
	}
	res := "miss"
	if hit {
		res = "hit"
	}
	p.cacheResults.WithLabelValues(res).Inc()
}

func (p *PrometheusRecorder) IncRewrite(plugin string) {
	if p == nil || p.rewrites == nil {
		return
	}
	p.rewrites.WithLabelValues(plugin).Inc()
}

func (p *PrometheusRecorder) IncExcluded() {
	if p == nil || p.excluded == nil {
		return
	}
	p.excluded.Inc()
}
