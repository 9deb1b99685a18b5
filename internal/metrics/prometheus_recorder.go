package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "birthday"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	listingDuration *prom.HistogramVec
	listingResults  *prom.CounterVec
	broadcasts      *prom.CounterVec
	streamClients   prom.Gauge
	rateLimited     prom.Counter
	navigation      *prom.CounterVec
	resamples       prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg. A nil
// registry gets a fresh one so tests never collide on the default registerer.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		listingDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "listing_duration_seconds",
			Help:      "Duration of photo directory listings",
			Buckets:   prom.DefBuckets,
		}, []string{"category"}),
		listingResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "listing_results_total",
			Help:      "Photo listing results by category and outcome",
		}, []string{"category", "result"}),
		broadcasts: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "change_broadcasts_total",
			Help:      "Listing change notifications sent to stream clients",
		}, []string{"category"}),
		streamClients: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_clients",
			Help:      "Connected change stream clients",
		}),
		rateLimited: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "API requests rejected by the rate limiter",
		}),
		navigation: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "carousel_navigation_total",
			Help:      "Carousel navigation operations by kind",
		}, []string{"op"}),
		resamples: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "collage_resamples_total",
			Help:      "Collage grid resamples",
		}),
	}
	reg.MustRegister(pr.listingDuration, pr.listingResults, pr.broadcasts, pr.streamClients,
		pr.rateLimited, pr.navigation, pr.resamples)
	return pr
}

func (p *PrometheusRecorder) ObserveListingDuration(category string, d time.Duration) {
	if p == nil || p.listingDuration == nil {
		return
	}
	p.listingDuration.WithLabelValues(category).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncListingResult(category string, result ResultLabel) {
	if p == nil || p.listingResults == nil {
		return
	}
	p.listingResults.WithLabelValues(category, string(result)).Inc()
}

func (p *PrometheusRecorder) IncChangeBroadcast(category string) {
	if p == nil || p.broadcasts == nil {
		return
	}
	p.broadcasts.WithLabelValues(category).Inc()
}

func (p *PrometheusRecorder) SetStreamClients(n int) {
	if p == nil || p.streamClients == nil {
		return
	}
	p.streamClients.Set(float64(n))
}

func (p *PrometheusRecorder) IncRateLimited() {
	if p == nil || p.rateLimited == nil {
		return
	}
	p.rateLimited.Inc()
}

func (p *PrometheusRecorder) IncNavigation(op string) {
	if p == nil || p.navigation == nil {
		return
	}
	p.navigation.WithLabelValues(op).Inc()
}

func (p *PrometheusRecorder) IncResample() {
	if p == nil || p.resamples == nil {
		return
	}
	p.resamples.Inc()
}
