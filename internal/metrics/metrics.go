// Package metrics collects and exposes Prometheus metrics for itinerary
// generation and the best-effort enrichment lookups (weather, places).
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation sources.
const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

// Recorder is the metrics surface used by the generator and the
// enrichment clients. Components take a Recorder so tests can pass Nop.
type Recorder interface {
	// RecordGeneration counts one itinerary generation. reason is empty for
	// successful AI generations and names the cause for fallbacks.
	RecordGeneration(source, reason string)

	// ObserveGenerationLatency records how long the primary path took.
	ObserveGenerationLatency(d time.Duration)

	// RecordFallback counts a weather or places lookup that fell back to
	// synthesized data.
	RecordFallback(component, reason string)
}

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	generations       *prometheus.CounterVec
	generationLatency prometheus.Histogram
	fallbacks         *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wanderly_itinerary_generations_total",
			Help: "Itinerary generations by source (ai, fallback) and fallback reason.",
		}, []string{"source", "reason"}),
		generationLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wanderly_itinerary_generation_seconds",
			Help:    "Latency of the language-model itinerary call.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60},
		}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wanderly_fallback_total",
			Help: "Enrichment lookups answered with synthesized data, by component and reason.",
		}, []string{"component", "reason"}),
	}

	reg.MustRegister(c.generations, c.generationLatency, c.fallbacks)
	return c
}

// RecordGeneration increments the generation counter.
func (c *Collector) RecordGeneration(source, reason string) {
	c.generations.WithLabelValues(source, reason).Inc()
}

// ObserveGenerationLatency records d in seconds.
func (c *Collector) ObserveGenerationLatency(d time.Duration) {
	c.generationLatency.Observe(d.Seconds())
}

// RecordFallback increments the enrichment fallback counter.
func (c *Collector) RecordFallback(component, reason string) {
	c.fallbacks.WithLabelValues(component, reason).Inc()
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordGeneration(string, string)        {}
func (Nop) ObserveGenerationLatency(time.Duration) {}
func (Nop) RecordFallback(string, string)          {}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
