package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestEntryRecorded(t *testing.T) {
	m := New()

	m.EntryRecorded()
	m.EntryRecorded()

	if got := testutil.ToFloat64(m.entriesRecorded); got != 2 {
		t.Fatalf("expected counter 2, got %v", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics

	m.EntryRecorded()

	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected pass-through status 204, got %d", rec.Code)
	}
}

func TestMiddlewareCountsByRoutePattern(t *testing.T) {
	m := New()

	router := chi.NewRouter()
	router.Use(m.Middleware)
	router.Get("/api/customers/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, path := range []string{"/api/customers/1", "/api/customers/2"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %s: expected 200, got %d", path, rec.Code)
		}
	}

	counter := m.httpRequests.WithLabelValues(http.MethodGet, "/api/customers/{id}", "200")
	if got := testutil.ToFloat64(counter); got != 2 {
		t.Fatalf("expected 2 requests under the route pattern, got %v", got)
	}
}
