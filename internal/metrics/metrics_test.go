package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-authform/pkg/session"
	"github.com/goliatone/go-authform/pkg/validation"
)

func TestObserverCounters(t *testing.T) {
	m, err := New(Options{Registerer: prometheus.NewRegistry()})
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}

	m.FieldValidated(validation.KindEmail, validation.Result{Valid: true})
	m.FieldValidated(validation.KindEmail, validation.Result{Code: validation.CodeEmail})
	m.FieldValidated(validation.KindEmail, validation.Result{Code: validation.CodeEmail})
	m.FormSubmitted("loginForm", session.OutcomeSuccess)

	if got := testutil.ToFloat64(m.Validations.WithLabelValues("email", "valid")); got != 1 {
		t.Fatalf("expected 1 valid email validation, got %f", got)
	}
	if got := testutil.ToFloat64(m.Validations.WithLabelValues("email", "email")); got != 2 {
		t.Fatalf("expected 2 failed email validations, got %f", got)
	}
	if got := testutil.ToFloat64(m.Submits.WithLabelValues("loginForm", "success")); got != 1 {
		t.Fatalf("expected 1 successful submit, got %f", got)
	}
}

func TestNewReusesRegisteredCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	first, err := New(Options{Registerer: registry})
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := New(Options{Registerer: registry})
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.Submits != second.Submits || first.Duration != second.Duration {
		t.Fatal("expected collectors to be reused")
	}
}

func TestHandlerRecordsMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)

	m, err := New(Options{Registerer: prometheus.NewRegistry()})
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}

	router := gin.New()
	router.Use(m.Handler())
	router.GET("/hello", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/hello", nil))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, rr.Code)
	}

	labels := prometheus.Labels{"method": http.MethodGet, "route": "/hello", "status": "201"}
	if got := testutil.ToFloat64(m.Requests.With(labels)); got != 1 {
		t.Fatalf("expected request counter 1, got %f", got)
	}
	if got := testutil.ToFloat64(m.InFlight); got != 0 {
		t.Fatalf("expected in-flight gauge to return to 0, got %f", got)
	}
	if samples := testutil.CollectAndCount(m.Duration); samples == 0 {
		t.Fatalf("expected histogram collector to have at least one sample")
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.FieldValidated(validation.KindText, validation.Result{Valid: true})
	m.FormSubmitted("loginForm", session.OutcomeError)

	router := gin.New()
	router.Use(m.Handler())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
