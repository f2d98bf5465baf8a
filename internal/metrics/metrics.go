// Package metrics exposes Prometheus collectors for field validation, form
// submission and HTTP traffic.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-authform/pkg/session"
	"github.com/goliatone/go-authform/pkg/validation"
)

// Options configures the collectors.
type Options struct {
	Registerer prometheus.Registerer
	Namespace  string
	Buckets    []float64
}

// Metrics bundles the collectors. It implements session.Observer.
type Metrics struct {
	Validations *prometheus.CounterVec
	Submits     *prometheus.CounterVec
	Requests    *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	InFlight    prometheus.Gauge
}

var _ session.Observer = (*Metrics)(nil)

// New constructs the collectors and registers them. Collectors already
// registered under the same name are reused.
func New(opts Options) (*Metrics, error) {
	namespace := opts.Namespace
	if namespace == "" {
		namespace = "authform"
	}
	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	buckets := opts.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	validations, err := registerCounter(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "form",
		Name:      "field_validations_total",
		Help:      "Field validations partitioned by field kind and outcome code.",
	}, []string{"kind", "outcome"}))
	if err != nil {
		return nil, err
	}

	submits, err := registerCounter(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "form",
		Name:      "submits_total",
		Help:      "Form submit attempts partitioned by form id and outcome.",
	}, []string{"form", "outcome"}))
	if err != nil {
		return nil, err
	}

	requests, err := registerCounter(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests partitioned by method, route, and status code.",
	}, []string{"method", "route", "status"}))
	if err != nil {
		return nil, err
	}

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Histogram of HTTP request latencies in seconds partitioned by method, route, and status code.",
		Buckets:   buckets,
	}, []string{"method", "route", "status"})
	if err := reg.Register(duration); err != nil {
		already, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, fmt.Errorf("register duration collector: %w", err)
		}
		existing, ok := already.ExistingCollector.(*prometheus.HistogramVec)
		if !ok {
			return nil, fmt.Errorf("existing duration collector has unexpected type %T", already.ExistingCollector)
		}
		duration = existing
	}

	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "in_flight_requests",
		Help:      "Current number of in-flight HTTP requests.",
	})
	if err := reg.Register(inFlight); err != nil {
		already, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, fmt.Errorf("register inflight collector: %w", err)
		}
		existing, ok := already.ExistingCollector.(prometheus.Gauge)
		if !ok {
			return nil, fmt.Errorf("existing inflight collector has unexpected type %T", already.ExistingCollector)
		}
		inFlight = existing
	}

	return &Metrics{
		Validations: validations,
		Submits:     submits,
		Requests:    requests,
		Duration:    duration,
		InFlight:    inFlight,
	}, nil
}

func registerCounter(reg prometheus.Registerer, counter *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(counter); err != nil {
		already, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, fmt.Errorf("register counter: %w", err)
		}
		existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, fmt.Errorf("existing counter has unexpected type %T", already.ExistingCollector)
		}
		return existing, nil
	}
	return counter, nil
}

// FieldValidated counts one validation. Valid results are labelled "valid",
// failures by their code.
func (m *Metrics) FieldValidated(kind validation.Kind, result validation.Result) {
	if m == nil || m.Validations == nil {
		return
	}
	outcome := "valid"
	if !result.Valid {
		outcome = string(result.Code)
	}
	m.Validations.WithLabelValues(string(kind), outcome).Inc()
}

// FormSubmitted counts one submit attempt.
func (m *Metrics) FormSubmitted(formID, outcome string) {
	if m == nil || m.Submits == nil {
		return
	}
	m.Submits.WithLabelValues(formID, outcome).Inc()
}

// Handler returns a Gin middleware that records the HTTP metrics.
func (m *Metrics) Handler() gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()
		if m.InFlight != nil {
			m.InFlight.Inc()
			defer m.InFlight.Dec()
		}

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		labels := prometheus.Labels{
			"method": c.Request.Method,
			"route":  route,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		if m.Requests != nil {
			m.Requests.With(labels).Inc()
		}
		if m.Duration != nil {
			m.Duration.With(labels).Observe(time.Since(start).Seconds())
		}
	}
}
