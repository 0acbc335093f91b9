package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry           *prometheus.Registry
	predictions        *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	inputRejections    *prometheus.CounterVec
	inferenceErrors    prometheus.Counter
	inferenceDuration  prometheus.Histogram
}

// New registers the collectors on a fresh registry, together with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		predictions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "perfpredict_predictions_total",
				Help: "Total number of predictions served, by performance label",
			},
			[]string{"label"},
		),
		validationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "perfpredict_validation_failures_total",
				Help: "Total number of submissions rejected by a cross-field rule",
			},
			[]string{"rule"},
		),
		inputRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "perfpredict_input_rejections_total",
				Help: "Total number of submissions with out-of-domain field values",
			},
			[]string{"surface"},
		),
		inferenceErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "perfpredict_inference_errors_total",
				Help: "Total number of failed model invocations",
			},
		),
		inferenceDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "perfpredict_inference_duration_seconds",
				Help:    "Duration of model invocations in seconds",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
		),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObservePrediction records a served prediction.
func (m *Metrics) ObservePrediction(label string, d time.Duration) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(label).Inc()
	m.inferenceDuration.Observe(d.Seconds())
}

// ObserveInferenceError records a failed model invocation.
func (m *Metrics) ObserveInferenceError(d time.Duration) {
	if m == nil {
		return
	}
	m.inferenceErrors.Inc()
	m.inferenceDuration.Observe(d.Seconds())
}

// ObserveValidationFailure records a cross-field rule rejection.
func (m *Metrics) ObserveValidationFailure(rule string) {
	if m == nil {
		return
	}
	m.validationFailures.WithLabelValues(rule).Inc()
}

// ObserveInputRejection records an input-layer rejection on the given surface.
func (m *Metrics) ObserveInputRejection(surface string) {
	if m == nil {
		return
	}
	m.inputRejections.WithLabelValues(surface).Inc()
}
